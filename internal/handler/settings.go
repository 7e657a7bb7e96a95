package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/liubai-app/liubai/internal/middleware"
	"github.com/liubai-app/liubai/internal/model"
	"github.com/liubai-app/liubai/internal/repository"
)

const (
	minReserveRatio = 0.2
	maxReserveRatio = 0.5
)

type UserStore interface {
	GetByID(ctx context.Context, id string) (*model.User, error)
	UpdateSettings(ctx context.Context, userID string, in repository.SettingsUpdate) (*model.User, error)
}

type SettingsHandler struct {
	users UserStore
}

func NewSettingsHandler(users UserStore) *SettingsHandler {
	return &SettingsHandler{users: users}
}

func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.GetByID(r.Context(), middleware.GetUserID(r))
	if err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, map[string]any{"user": user})
}

func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var body struct {
		EnergyReserveRatio *float64 `json:"energy_reserve_ratio"`
		CheckInTimes       []string `json:"check_in_times"`
		Name               *string  `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	var in repository.SettingsUpdate
	if body.EnergyReserveRatio != nil {
		ratio := *body.EnergyReserveRatio
		if ratio < minReserveRatio || ratio > maxReserveRatio {
			writeError(w, http.StatusBadRequest, "保留比例应在 20% - 50% 之间")
			return
		}
		in.EnergyReserveRatio = &ratio
	}
	if body.CheckInTimes != nil {
		times, ok := normalizeCheckInTimes(body.CheckInTimes)
		if !ok {
			writeError(w, http.StatusBadRequest, "提醒时间格式应为 HH:MM")
			return
		}
		in.CheckInTimes = times
	}
	if body.Name != nil {
		name := strings.TrimSpace(*body.Name)
		if name == "" {
			writeError(w, http.StatusBadRequest, "昵称不能为空")
			return
		}
		in.Name = &name
	}
	if in.EnergyReserveRatio == nil && in.CheckInTimes == nil && in.Name == nil {
		writeError(w, http.StatusBadRequest, "没有要更新的内容")
		return
	}

	user, err := h.users.UpdateSettings(r.Context(), middleware.GetUserID(r), in)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, map[string]any{"message": "设置已更新", "user": user})
}

// normalizeCheckInTimes validates HH:MM entries and returns them sorted without duplicates.
func normalizeCheckInTimes(in []string) ([]string, bool) {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		t, err := time.Parse("15:04", s)
		if err != nil || len(s) != 5 {
			return nil, false
		}
		out = append(out, t.Format("15:04"))
	}
	slices.Sort(out)
	return slices.Compact(out), true
}
