package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/liubai-app/liubai/internal/middleware"
	"github.com/liubai-app/liubai/internal/model"
	"github.com/liubai-app/liubai/internal/question"
	"github.com/liubai-app/liubai/internal/repository"
	"github.com/liubai-app/liubai/internal/service"
	"github.com/liubai-app/liubai/internal/timeutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func withUser(r *http.Request, userID string) *http.Request {
	return r.WithContext(middleware.WithUserID(r.Context(), userID))
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

type fakeCheckInService struct {
	chunks []string
	got    service.Submission
}

func (f *fakeCheckInService) Submit(_ context.Context, sub service.Submission, emit func(string) error) (*service.Result, error) {
	f.got = sub
	if strings.TrimSpace(sub.Question) == "" {
		return nil, &service.ValidationError{Field: "question", Message: "is required"}
	}
	for _, c := range f.chunks {
		if err := emit(c); err != nil {
			break
		}
	}
	return &service.Result{Reply: strings.Join(f.chunks, "")}, nil
}

func (f *fakeCheckInService) Today(_ context.Context, userID, tz string) (*model.TodayResponse, error) {
	return &model.TodayResponse{
		TodayCheckIns: []model.CheckIn{},
		Question:      question.Question{ID: "L01", Period: question.Night, Text: "睡前来聊聊——今天过得怎么样？"},
		Period:        "night",
		CurrentEnergy: 0.65,
	}, nil
}

func TestCheckInCreateStreamsReply(t *testing.T) {
	svc := &fakeCheckInService{chunks: []string{"你", "好"}}
	h := NewCheckInHandler(svc, zaptest.NewLogger(t))

	req := httptest.NewRequest(http.MethodPost, "/api/checkins", strings.NewReader(`{"level":"LOW","question":"q","note":"累"}`))
	req.AddCookie(&http.Cookie{Name: timeutil.TimezoneCookie, Value: "America%2FNew_York"})
	rec := httptest.NewRecorder()
	h.Create(rec, withUser(req, "u1"))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "你好", rec.Body.String())
	assert.True(t, rec.Flushed)
	assert.Equal(t, "u1", svc.got.UserID)
	assert.Equal(t, "America/New_York", svc.got.Timezone)
	require.NotNil(t, svc.got.Note)
	assert.Equal(t, "累", *svc.got.Note)
}

func TestCheckInCreateRejectsInvalidInput(t *testing.T) {
	h := NewCheckInHandler(&fakeCheckInService{}, zaptest.NewLogger(t))

	for _, body := range []string{`{"level":"LOW"}`, `not json`} {
		rec := httptest.NewRecorder()
		h.Create(rec, withUser(httptest.NewRequest(http.MethodPost, "/api/checkins", strings.NewReader(body)), "u1"))
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
		assert.Contains(t, decode(t, rec), "error")
	}
}

func TestCheckInToday(t *testing.T) {
	h := NewCheckInHandler(&fakeCheckInService{}, zaptest.NewLogger(t))
	rec := httptest.NewRecorder()
	h.Today(rec, withUser(httptest.NewRequest(http.MethodGet, "/api/checkins/today", nil), "u1"))

	assert.Equal(t, http.StatusOK, rec.Code)
	out := decode(t, rec)
	assert.Equal(t, "night", out["period"])
	assert.Equal(t, 0.65, out["current_energy"])
	assert.Equal(t, []any{}, out["today_check_ins"])
	assert.Equal(t, map[string]any{"id": "L01", "period": "night", "text": "睡前来聊聊——今天过得怎么样？"}, out["question"])
}

type fakeSummaryReader struct {
	today string
	days  int
}

func (f *fakeSummaryReader) Recent(_ context.Context, _ string, today string, days int) ([]model.DailySummary, error) {
	f.today, f.days = today, days
	return []model.DailySummary{{Date: today}}, nil
}

func TestTrendsList(t *testing.T) {
	reader := &fakeSummaryReader{}
	zone := timeutil.NewZone(func() time.Time { return time.Date(2024, 6, 1, 17, 0, 0, 0, time.UTC) })
	h := NewTrendsHandler(reader, zone, zaptest.NewLogger(t))

	rec := httptest.NewRecorder()
	h.List(rec, withUser(httptest.NewRequest(http.MethodGet, "/api/trends", nil), "u1"))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, defaultTrendDays, reader.days)
	assert.Equal(t, "2024-06-02", reader.today)

	rec = httptest.NewRecorder()
	h.List(rec, withUser(httptest.NewRequest(http.MethodGet, "/api/trends?days=30", nil), "u1"))
	assert.Equal(t, 30, reader.days)
	assert.Len(t, decode(t, rec)["summaries"], 1)
}

type fakeUsers struct {
	user    *model.User
	updated *repository.SettingsUpdate
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*model.User, error) {
	if f.user == nil || f.user.ID != id {
		return nil, repository.ErrNotFound
	}
	return f.user, nil
}

func (f *fakeUsers) UpdateSettings(_ context.Context, id string, in repository.SettingsUpdate) (*model.User, error) {
	f.updated = &in
	return f.GetByID(context.Background(), id)
}

func (f *fakeUsers) Upsert(_ context.Context, email, name string) (*model.User, error) {
	f.user = &model.User{ID: "new-id", Email: email, Name: name}
	return f.user, nil
}

func TestSettingsGet(t *testing.T) {
	h := NewSettingsHandler(&fakeUsers{user: &model.User{ID: "u1", EnergyReserveRatio: 0.3}})

	rec := httptest.NewRecorder()
	h.Get(rec, withUser(httptest.NewRequest(http.MethodGet, "/api/settings", nil), "u1"))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.Get(rec, withUser(httptest.NewRequest(http.MethodGet, "/api/settings", nil), "ghost"))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSettingsUpdateValidation(t *testing.T) {
	cases := []struct{ body, msg string }{
		{`{"energy_reserve_ratio":0.1}`, "保留比例应在 20% - 50% 之间"},
		{`{"energy_reserve_ratio":0.55}`, "保留比例应在 20% - 50% 之间"},
		{`{"check_in_times":["9:00"]}`, "提醒时间格式应为 HH:MM"},
		{`{"check_in_times":["25:00"]}`, "提醒时间格式应为 HH:MM"},
		{`{"name":"  "}`, "昵称不能为空"},
		{`{}`, "没有要更新的内容"},
	}
	for _, tc := range cases {
		body, msg := tc.body, tc.msg
		users := &fakeUsers{user: &model.User{ID: "u1"}}
		rec := httptest.NewRecorder()
		NewSettingsHandler(users).Update(rec, withUser(httptest.NewRequest(http.MethodPut, "/api/settings", strings.NewReader(body)), "u1"))
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
		assert.Equal(t, msg, decode(t, rec)["error"], body)
		assert.Nil(t, users.updated)
	}
}

func TestSettingsUpdate(t *testing.T) {
	users := &fakeUsers{user: &model.User{ID: "u1"}}
	body := `{"energy_reserve_ratio":0.25,"check_in_times":["22:00","09:00","09:00"],"name":" 阿白 "}`

	rec := httptest.NewRecorder()
	NewSettingsHandler(users).Update(rec, withUser(httptest.NewRequest(http.MethodPut, "/api/settings", strings.NewReader(body)), "u1"))

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, users.updated)
	assert.Equal(t, 0.25, *users.updated.EnergyReserveRatio)
	assert.Equal(t, []string{"09:00", "22:00"}, users.updated.CheckInTimes)
	assert.Equal(t, "阿白", *users.updated.Name)
	assert.Equal(t, "设置已更新", decode(t, rec)["message"])
}

func TestSetTimezone(t *testing.T) {
	rec := httptest.NewRecorder()
	SetTimezone(rec, httptest.NewRequest(http.MethodPut, "/api/timezone", strings.NewReader(`{"timezone":"Europe/Berlin"}`)))
	require.Equal(t, http.StatusOK, rec.Code)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, timeutil.TimezoneCookie, cookies[0].Name)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	assert.Equal(t, "Europe/Berlin", timeutil.ResolveTimezone(req))

	rec = httptest.NewRecorder()
	SetTimezone(rec, httptest.NewRequest(http.MethodPut, "/api/timezone", strings.NewReader(`{"timezone":"Nowhere/Else"}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, rec.Result().Cookies())
}

type fakeCoachMessages struct{ limit int }

func (f *fakeCoachMessages) ListByUser(_ context.Context, _ string, limit int) ([]model.CoachMessage, error) {
	f.limit = limit
	return nil, nil
}

func TestCoachMessagesList(t *testing.T) {
	store := &fakeCoachMessages{}
	h := NewCoachMessageHandler(store)

	rec := httptest.NewRecorder()
	h.List(rec, withUser(httptest.NewRequest(http.MethodGet, "/api/coach-messages?limit=5", nil), "u1"))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 5, store.limit)
	assert.Equal(t, []any{}, decode(t, rec)["messages"])

	rec = httptest.NewRecorder()
	h.List(rec, withUser(httptest.NewRequest(http.MethodGet, "/api/coach-messages?limit=500", nil), "u1"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestInternalUpsertUser(t *testing.T) {
	users := &fakeUsers{}
	h := NewInternalHandler(users)

	rec := httptest.NewRecorder()
	h.UpsertUser(rec, httptest.NewRequest(http.MethodPost, "/api/internal/users/upsert", strings.NewReader(`{"email":" Bai@Example.com "}`)))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "new-id", decode(t, rec)["id"])
	assert.Equal(t, "bai@example.com", users.user.Email)
	assert.Equal(t, "bai", users.user.Name)

	rec = httptest.NewRecorder()
	h.UpsertUser(rec, httptest.NewRequest(http.MethodPost, "/api/internal/users/upsert", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
