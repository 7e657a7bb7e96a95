package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/liubai-app/liubai/internal/energy"
	"github.com/liubai-app/liubai/internal/model"
	"github.com/liubai-app/liubai/internal/repository"
	"github.com/liubai-app/liubai/internal/timeutil"
	"go.uber.org/zap"
)

// MaxSummaryDays bounds every summary range query and the cached list.
const MaxSummaryDays = 90

const summaryCacheTTL = 10 * time.Minute

type CheckInReader interface {
	ListByUserBetween(ctx context.Context, userID, from, to string) ([]model.CheckIn, error)
}

type SummaryStore interface {
	GetByUserAndDate(ctx context.Context, userID, date string) (*model.DailySummary, error)
	Insert(ctx context.Context, s *model.DailySummary) error
	UpdateStats(ctx context.Context, id string, stats model.SummaryStats) error
	ListSince(ctx context.Context, userID, sinceDate string) ([]model.DailySummary, error)
}

type ReserveRatioReader interface {
	ReserveRatio(ctx context.Context, userID string) (float64, error)
}

// SummaryEngine keeps one DailySummary per (user, local date) in sync with that day's check-ins.
type SummaryEngine struct {
	checkIns  CheckInReader
	summaries SummaryStore
	users     ReserveRatioReader
	locker    DayLocker
	cache     JSONCache
	log       *zap.Logger
}

func NewSummaryEngine(checkIns CheckInReader, summaries SummaryStore, users ReserveRatioReader, locker DayLocker, cache JSONCache, log *zap.Logger) *SummaryEngine {
	if locker == nil {
		locker = NewLocalDayLocker()
	}
	if cache == nil {
		cache = NoopJSONCache{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &SummaryEngine{
		checkIns:  checkIns,
		summaries: summaries,
		users:     users,
		locker:    locker,
		cache:     cache,
		log:       log,
	}
}

// ComputeStats aggregates the scores of levels. ok is false when levels is empty.
func ComputeStats(levels []energy.Level, reserveRatio float64) (stats model.SummaryStats, ok bool) {
	if len(levels) == 0 {
		return model.SummaryStats{}, false
	}
	var sum float64
	for i, l := range levels {
		s := energy.Score(l)
		sum += s
		if i == 0 || s < stats.MinScore {
			stats.MinScore = s
		}
		if i == 0 || s > stats.MaxScore {
			stats.MaxScore = s
		}
		if s < reserveRatio {
			stats.BelowReserve++
		}
	}
	stats.AvgScore = sum / float64(len(levels))
	stats.CheckInCount = len(levels)
	return stats, true
}

// Upsert recomputes the summary for (userID, date) from scratch. A day without check-ins
// is a no-op and returns (nil, nil).
func (e *SummaryEngine) Upsert(ctx context.Context, userID, date string) (*model.DailySummary, error) {
	unlock, err := e.locker.Lock(ctx, userID, date)
	if err != nil {
		return nil, fmt.Errorf("lock %s/%s: %w", userID, date, err)
	}
	defer unlock()

	from, to := timeutil.DayBounds(date)
	checkIns, err := e.checkIns.ListByUserBetween(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list check-ins: %w", err)
	}
	levels := make([]energy.Level, 0, len(checkIns))
	for _, c := range checkIns {
		levels = append(levels, c.Level)
	}
	if len(levels) == 0 {
		return nil, nil
	}

	ratio, err := e.users.ReserveRatio(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("reserve ratio: %w", err)
	}
	stats, _ := ComputeStats(levels, ratio)

	summary, err := e.write(ctx, userID, date, stats)
	if err != nil {
		return nil, err
	}
	if err := e.cache.Delete(ctx, summaryCacheKey(userID)); err != nil {
		e.log.Warn("summary cache invalidation failed", zap.String("user_id", userID), zap.Error(err))
	}
	return summary, nil
}

func (e *SummaryEngine) write(ctx context.Context, userID, date string, stats model.SummaryStats) (*model.DailySummary, error) {
	existing, err := e.summaries.GetByUserAndDate(ctx, userID, date)
	switch {
	case err == nil:
		return e.update(ctx, existing, stats)
	case !errors.Is(err, repository.ErrNotFound):
		return nil, fmt.Errorf("get summary: %w", err)
	}

	s := &model.DailySummary{
		ID:           uuid.NewString(),
		UserID:       userID,
		Date:         date,
		SummaryStats: stats,
	}
	err = e.summaries.Insert(ctx, s)
	if err == nil {
		return s, nil
	}
	if !errors.Is(err, repository.ErrConflict) {
		return nil, fmt.Errorf("insert summary: %w", err)
	}

	// Another instance inserted first; fold into its row.
	existing, err = e.summaries.GetByUserAndDate(ctx, userID, date)
	if err != nil {
		return nil, fmt.Errorf("get summary after conflict: %w", err)
	}
	return e.update(ctx, existing, stats)
}

func (e *SummaryEngine) update(ctx context.Context, existing *model.DailySummary, stats model.SummaryStats) (*model.DailySummary, error) {
	if err := e.summaries.UpdateStats(ctx, existing.ID, stats); err != nil {
		return nil, fmt.Errorf("update summary: %w", err)
	}
	out := *existing
	out.SummaryStats = stats
	return &out, nil
}

type cachedSummaries struct {
	Since string               `json:"since"`
	Items []model.DailySummary `json:"items"`
}

func summaryCacheKey(userID string) string { return "summaries:" + userID }

// Recent returns the user's summaries dated within days before today (inclusive), newest first.
// days is clamped to [1, MaxSummaryDays].
func (e *SummaryEngine) Recent(ctx context.Context, userID, today string, days int) ([]model.DailySummary, error) {
	days = max(1, min(days, MaxSummaryDays))
	since, err := timeutil.DaysBefore(today, days)
	if err != nil {
		return nil, fmt.Errorf("parse today: %w", err)
	}

	key := summaryCacheKey(userID)
	var cached cachedSummaries
	if ok, err := e.cache.GetJSON(ctx, key, &cached); err != nil {
		e.log.Warn("summary cache get failed", zap.String("user_id", userID), zap.Error(err))
	} else if ok && cached.Since <= since {
		return filterSince(cached.Items, since), nil
	}

	windowStart, _ := timeutil.DaysBefore(today, MaxSummaryDays)
	items, err := e.summaries.ListSince(ctx, userID, windowStart)
	if err != nil {
		return nil, fmt.Errorf("list summaries: %w", err)
	}
	if err := e.cache.SetJSON(ctx, key, cachedSummaries{Since: windowStart, Items: items}, summaryCacheTTL); err != nil {
		e.log.Warn("summary cache set failed", zap.String("user_id", userID), zap.Error(err))
	}
	return filterSince(items, since), nil
}

func filterSince(items []model.DailySummary, since string) []model.DailySummary {
	out := make([]model.DailySummary, 0, len(items))
	for _, s := range items {
		if s.Date >= since {
			out = append(out, s)
		}
	}
	return out
}
