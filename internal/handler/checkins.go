package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/liubai-app/liubai/internal/middleware"
	"github.com/liubai-app/liubai/internal/model"
	"github.com/liubai-app/liubai/internal/service"
	"github.com/liubai-app/liubai/internal/timeutil"
	"go.uber.org/zap"
)

type CheckInService interface {
	Submit(ctx context.Context, sub service.Submission, emit func(string) error) (*service.Result, error)
	Today(ctx context.Context, userID, tz string) (*model.TodayResponse, error)
}

type CheckInHandler struct {
	svc CheckInService
	log *zap.Logger
}

func NewCheckInHandler(svc CheckInService, log *zap.Logger) *CheckInHandler {
	return &CheckInHandler{svc: svc, log: log}
}

func (h *CheckInHandler) Today(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	resp, err := h.svc.Today(r.Context(), userID, timeutil.ResolveTimezone(r))
	if err != nil {
		h.log.Error("load today", zap.String("user_id", userID), zap.Error(err))
		writeRepoError(w, err)
		return
	}
	writeJSON(w, resp)
}

// Create streams the coach reply as chunked text/plain. Headers go out with the first
// fragment, so validation failures can still answer 400.
func (h *CheckInHandler) Create(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Level    string  `json:"level"`
		Question string  `json:"question"`
		Note     *string `json:"note"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	rc := http.NewResponseController(w)
	started := false
	start := func() {
		if started {
			return
		}
		started = true
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("X-Accel-Buffering", "no")
		w.WriteHeader(http.StatusOK)
	}
	emit := func(text string) error {
		start()
		if _, err := io.WriteString(w, text); err != nil {
			return err
		}
		if err := rc.Flush(); err != nil && !errors.Is(err, http.ErrNotSupported) {
			return err
		}
		return nil
	}

	_, err := h.svc.Submit(r.Context(), service.Submission{
		UserID:   middleware.GetUserID(r),
		Level:    body.Level,
		Question: body.Question,
		Note:     body.Note,
		Timezone: timeutil.ResolveTimezone(r),
	}, emit)
	if err != nil {
		if service.IsValidationError(err) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	start()
}
