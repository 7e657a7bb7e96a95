package handler

import (
	"context"
	"net/http"

	"github.com/liubai-app/liubai/internal/middleware"
	"github.com/liubai-app/liubai/internal/model"
	"github.com/liubai-app/liubai/internal/timeutil"
	"go.uber.org/zap"
)

const defaultTrendDays = 7

type SummaryReader interface {
	Recent(ctx context.Context, userID, today string, days int) ([]model.DailySummary, error)
}

type TrendsHandler struct {
	summaries SummaryReader
	zone      *timeutil.Zone
	log       *zap.Logger
}

func NewTrendsHandler(summaries SummaryReader, zone *timeutil.Zone, log *zap.Logger) *TrendsHandler {
	return &TrendsHandler{summaries: summaries, zone: zone, log: log}
}

func (h *TrendsHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	days := parseIntOrDefault(r.URL.Query().Get("days"), defaultTrendDays)
	if days < 1 {
		days = defaultTrendDays
	}

	today, err := h.zone.Today(timeutil.ResolveTimezone(r))
	if err != nil {
		today, err = h.zone.Today(timeutil.DefaultTimezone)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
	}
	summaries, err := h.summaries.Recent(r.Context(), userID, today, days)
	if err != nil {
		h.log.Error("load trends", zap.String("user_id", userID), zap.Error(err))
		writeRepoError(w, err)
		return
	}
	writeJSON(w, map[string]any{"summaries": summaries})
}
