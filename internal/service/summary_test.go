package service

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/liubai-app/liubai/internal/energy"
	"github.com/liubai-app/liubai/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func checkIn(userID string, level energy.Level, at string) model.CheckIn {
	return model.CheckIn{ID: uuid.NewString(), UserID: userID, Level: level, Question: "q", CheckInAt: at}
}

func newEngine(t *testing.T, ci *memCheckIns, ss *memSummaries, ratio float64) *SummaryEngine {
	return NewSummaryEngine(ci, ss, fixedRatio(ratio), NewLocalDayLocker(), NoopJSONCache{}, zaptest.NewLogger(t))
}

func TestComputeStats(t *testing.T) {
	st, ok := ComputeStats([]energy.Level{energy.High, energy.Low, energy.Exhausted}, 0.3)
	require.True(t, ok)
	assert.InDelta(t, 0.4833, st.AvgScore, 1e-3)
	assert.Equal(t, 0.1, st.MinScore)
	assert.Equal(t, 1.0, st.MaxScore)
	assert.Equal(t, 3, st.CheckInCount)
	assert.Equal(t, 1, st.BelowReserve)

	_, ok = ComputeStats(nil, 0.3)
	assert.False(t, ok)
}

func TestComputeStatsBelowReserveIsStrict(t *testing.T) {
	st, _ := ComputeStats([]energy.Level{energy.Low, energy.Low}, 0.35)
	assert.Equal(t, 0, st.BelowReserve)
}

func TestUpsertCorrectness(t *testing.T) {
	ci := &memCheckIns{rows: []model.CheckIn{
		checkIn("u1", energy.High, "2024-06-01T08:00:00"),
		checkIn("u1", energy.Low, "2024-06-01T13:00:00"),
		checkIn("u1", energy.Exhausted, "2024-06-01T23:59:59"),
		checkIn("u1", energy.High, "2024-06-02T00:00:00"),
		checkIn("u2", energy.Exhausted, "2024-06-01T09:00:00"),
	}}
	ss := newMemSummaries()
	e := newEngine(t, ci, ss, 0.3)

	got, err := e.Upsert(context.Background(), "u1", "2024-06-01")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "2024-06-01", got.Date)
	assert.InDelta(t, 0.4833, got.AvgScore, 1e-3)
	assert.Equal(t, 0.1, got.MinScore)
	assert.Equal(t, 1.0, got.MaxScore)
	assert.Equal(t, 3, got.CheckInCount)
	assert.Equal(t, 1, got.BelowReserve)

	rows := ss.forDay("u1", "2024-06-01")
	require.Len(t, rows, 1)
	assert.Equal(t, got.SummaryStats, rows[0].SummaryStats)
}

func TestUpsertIsIdempotent(t *testing.T) {
	ci := &memCheckIns{rows: []model.CheckIn{
		checkIn("u1", energy.Medium, "2024-06-01T08:00:00"),
		checkIn("u1", energy.Low, "2024-06-01T18:00:00"),
	}}
	ss := newMemSummaries()
	e := newEngine(t, ci, ss, 0.3)
	ctx := context.Background()

	first, err := e.Upsert(ctx, "u1", "2024-06-01")
	require.NoError(t, err)
	second, err := e.Upsert(ctx, "u1", "2024-06-01")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.SummaryStats, second.SummaryStats)
	assert.Len(t, ss.forDay("u1", "2024-06-01"), 1)
	assert.Equal(t, 1, ss.inserts)
}

func TestUpsertTracksNewCheckIns(t *testing.T) {
	ci := &memCheckIns{rows: []model.CheckIn{checkIn("u1", energy.High, "2024-06-01T08:00:00")}}
	ss := newMemSummaries()
	e := newEngine(t, ci, ss, 0.3)
	ctx := context.Background()

	_, err := e.Upsert(ctx, "u1", "2024-06-01")
	require.NoError(t, err)
	require.NoError(t, ci.Insert(ctx, &model.CheckIn{ID: "x", UserID: "u1", Level: energy.Exhausted, CheckInAt: "2024-06-01T21:00:00"}))

	got, err := e.Upsert(ctx, "u1", "2024-06-01")
	require.NoError(t, err)
	assert.Equal(t, 2, got.CheckInCount)
	assert.InDelta(t, 0.55, got.AvgScore, 1e-9)
	assert.Equal(t, 1, got.BelowReserve)
}

func TestUpsertNoCheckInsIsNoop(t *testing.T) {
	ss := newMemSummaries()
	e := newEngine(t, &memCheckIns{}, ss, 0.3)

	got, err := e.Upsert(context.Background(), "u1", "2024-06-01")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Empty(t, ss.forDay("u1", "2024-06-01"))
}

func TestUpsertUsesLiveReserveRatio(t *testing.T) {
	ci := &memCheckIns{rows: []model.CheckIn{
		checkIn("u1", energy.Low, "2024-06-01T08:00:00"),
		checkIn("u1", energy.Exhausted, "2024-06-01T09:00:00"),
	}}
	e := newEngine(t, ci, newMemSummaries(), 0.4)

	got, err := e.Upsert(context.Background(), "u1", "2024-06-01")
	require.NoError(t, err)
	assert.Equal(t, 2, got.BelowReserve)
}

func TestUpsertLostInsertRaceUpdatesWinner(t *testing.T) {
	ci := &memCheckIns{rows: []model.CheckIn{checkIn("u1", energy.High, "2024-06-01T08:00:00")}}
	ss := newMemSummaries()
	ss.beforeInsert = func() {
		ss.put(model.DailySummary{ID: "winner", UserID: "u1", Date: "2024-06-01",
			SummaryStats: model.SummaryStats{AvgScore: 0.1, MinScore: 0.1, MaxScore: 0.1, CheckInCount: 1}})
	}
	e := newEngine(t, ci, ss, 0.3)

	got, err := e.Upsert(context.Background(), "u1", "2024-06-01")
	require.NoError(t, err)
	assert.Equal(t, "winner", got.ID)

	rows := ss.forDay("u1", "2024-06-01")
	require.Len(t, rows, 1)
	assert.Equal(t, 1.0, rows[0].AvgScore)
}

func TestUpsertReturnsStorageErrors(t *testing.T) {
	ci := &memCheckIns{rows: []model.CheckIn{checkIn("u1", energy.High, "2024-06-01T08:00:00")}}
	ss := newMemSummaries()
	ss.failWrite = errBoom
	e := newEngine(t, ci, ss, 0.3)

	_, err := e.Upsert(context.Background(), "u1", "2024-06-01")
	assert.ErrorIs(t, err, errBoom)

	ci.listErr = errBoom
	_, err = e.Upsert(context.Background(), "u1", "2024-06-01")
	assert.ErrorIs(t, err, errBoom)
}

func TestUpsertConcurrentCallsLeaveOneRow(t *testing.T) {
	ci := &memCheckIns{}
	ss := newMemSummaries()
	e := newEngine(t, ci, ss, 0.3)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			level := energy.Levels[i%len(energy.Levels)]
			_ = ci.Insert(ctx, &model.CheckIn{ID: uuid.NewString(), UserID: "u1", Level: level, CheckInAt: "2024-06-01T10:00:00"})
			_, err := e.Upsert(ctx, "u1", "2024-06-01")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	rows := ss.forDay("u1", "2024-06-01")
	require.Len(t, rows, 1)
	assert.Equal(t, 8, rows[0].CheckInCount)
}

func TestRecentServesFromCacheUntilUpsert(t *testing.T) {
	ci := &memCheckIns{rows: []model.CheckIn{checkIn("u1", energy.High, "2024-06-01T08:00:00")}}
	ss := newMemSummaries()
	ss.put(model.DailySummary{ID: "a", UserID: "u1", Date: "2024-05-25"})
	ss.put(model.DailySummary{ID: "b", UserID: "u1", Date: "2024-05-30"})
	ss.put(model.DailySummary{ID: "c", UserID: "u1", Date: "2024-01-01"})
	cache := newMemCache()
	e := NewSummaryEngine(ci, ss, fixedRatio(0.3), nil, cache, zaptest.NewLogger(t))
	ctx := context.Background()

	got, err := e.Recent(ctx, "u1", "2024-06-01", 3)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "2024-05-30", got[0].Date)

	got, err = e.Recent(ctx, "u1", "2024-06-01", 7)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "2024-05-30", got[0].Date)
	assert.Equal(t, 1, ss.lists)

	_, err = e.Upsert(ctx, "u1", "2024-06-01")
	require.NoError(t, err)
	assert.Equal(t, 1, cache.deletes)

	got, err = e.Recent(ctx, "u1", "2024-06-01", 3)
	require.NoError(t, err)
	assert.Equal(t, 2, ss.lists)
	require.Len(t, got, 2)
	assert.Equal(t, "2024-06-01", got[0].Date)
}

func TestRecentClampsDays(t *testing.T) {
	ss := newMemSummaries()
	ss.put(model.DailySummary{ID: "old", UserID: "u1", Date: "2024-01-01"})
	ss.put(model.DailySummary{ID: "edge", UserID: "u1", Date: "2024-03-03"})
	e := newEngine(t, &memCheckIns{}, ss, 0.3)

	got, err := e.Recent(context.Background(), "u1", "2024-06-01", 1000)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "edge", got[0].ID)
}
