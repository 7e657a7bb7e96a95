package handler

import (
	"context"
	"net/http"

	"github.com/liubai-app/liubai/internal/middleware"
	"github.com/liubai-app/liubai/internal/model"
)

type CoachMessageLister interface {
	ListByUser(ctx context.Context, userID string, limit int) ([]model.CoachMessage, error)
}

type CoachMessageHandler struct {
	messages CoachMessageLister
}

func NewCoachMessageHandler(messages CoachMessageLister) *CoachMessageHandler {
	return &CoachMessageHandler{messages: messages}
}

func (h *CoachMessageHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := parseIntOrDefault(r.URL.Query().Get("limit"), 20)
	if limit < 1 || limit > 100 {
		writeError(w, http.StatusBadRequest, "invalid limit")
		return
	}
	msgs, err := h.messages.ListByUser(r.Context(), middleware.GetUserID(r), limit)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	if msgs == nil {
		msgs = []model.CoachMessage{}
	}
	writeJSON(w, map[string]any{"messages": msgs})
}
