package service

import (
	"context"
	"encoding/json"
	"errors"
	"iter"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/liubai-app/liubai/internal/model"
	"github.com/liubai-app/liubai/internal/repository"
)

type memCheckIns struct {
	mu        sync.Mutex
	rows      []model.CheckIn
	insertErr error
	listErr   error
}

func (m *memCheckIns) Insert(_ context.Context, c *model.CheckIn) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.insertErr != nil {
		return m.insertErr
	}
	m.rows = append(m.rows, *c)
	return nil
}

func (m *memCheckIns) ListByUserBetween(_ context.Context, userID, from, to string) ([]model.CheckIn, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []model.CheckIn
	for _, c := range m.rows {
		if c.UserID == userID && c.CheckInAt >= from && c.CheckInAt <= to {
			out = append(out, c)
		}
	}
	slices.SortFunc(out, func(a, b model.CheckIn) int { return strings.Compare(b.CheckInAt, a.CheckInAt) })
	return out, nil
}

func (m *memCheckIns) all() []model.CheckIn {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.rows)
}

type memSummaries struct {
	mu        sync.Mutex
	rows      map[string]*model.DailySummary // by id
	inserts   int
	lists     int
	failWrite error
	// beforeInsert runs without the lock held, ahead of the uniqueness check.
	beforeInsert func()
}

func newMemSummaries() *memSummaries {
	return &memSummaries{rows: map[string]*model.DailySummary{}}
}

func (m *memSummaries) GetByUserAndDate(_ context.Context, userID, date string) (*model.DailySummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.rows {
		if s.UserID == userID && s.Date == date {
			cp := *s
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memSummaries) Insert(_ context.Context, s *model.DailySummary) error {
	if hook := m.beforeInsert; hook != nil {
		m.beforeInsert = nil
		hook()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWrite != nil {
		return m.failWrite
	}
	for _, r := range m.rows {
		if r.UserID == s.UserID && r.Date == s.Date {
			return repository.ErrConflict
		}
	}
	m.inserts++
	cp := *s
	m.rows[s.ID] = &cp
	return nil
}

func (m *memSummaries) UpdateStats(_ context.Context, id string, st model.SummaryStats) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWrite != nil {
		return m.failWrite
	}
	r, ok := m.rows[id]
	if !ok {
		return repository.ErrNotFound
	}
	r.SummaryStats = st
	return nil
}

func (m *memSummaries) ListSince(_ context.Context, userID, since string) ([]model.DailySummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lists++
	var out []model.DailySummary
	for _, s := range m.rows {
		if s.UserID == userID && s.Date >= since {
			out = append(out, *s)
		}
	}
	slices.SortFunc(out, func(a, b model.DailySummary) int { return strings.Compare(b.Date, a.Date) })
	return out, nil
}

func (m *memSummaries) put(s model.DailySummary) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[s.ID] = &s
}

func (m *memSummaries) forDay(userID, date string) []model.DailySummary {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.DailySummary
	for _, s := range m.rows {
		if s.UserID == userID && s.Date == date {
			out = append(out, *s)
		}
	}
	return out
}

type fixedRatio float64

func (r fixedRatio) ReserveRatio(context.Context, string) (float64, error) { return float64(r), nil }

type memCache struct {
	mu      sync.Mutex
	data    map[string][]byte
	deletes int
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (c *memCache) GetJSON(_ context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (c *memCache) SetJSON(_ context.Context, key string, v any, _ time.Duration) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = b
	return nil
}

func (c *memCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.data, k)
		c.deletes++
	}
	return nil
}

func (c *memCache) Ping(context.Context) error { return nil }

// scriptedGenerator yields chunks, then err if set.
type scriptedGenerator struct {
	chunks []string
	err    error

	mu       sync.Mutex
	requests []GenerateRequest
}

func (g *scriptedGenerator) Stream(_ context.Context, req GenerateRequest) iter.Seq2[string, error] {
	g.mu.Lock()
	g.requests = append(g.requests, req)
	g.mu.Unlock()
	return func(yield func(string, error) bool) {
		for _, c := range g.chunks {
			if !yield(c, nil) {
				return
			}
		}
		if g.err != nil {
			yield("", g.err)
		}
	}
}

func (g *scriptedGenerator) lastRequest() GenerateRequest {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.requests[len(g.requests)-1]
}

var errBoom = errors.New("boom")

type memCoachMessages struct {
	mu   sync.Mutex
	rows []model.CoachMessage
}

func (m *memCoachMessages) Insert(_ context.Context, msg *model.CoachMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = append(m.rows, *msg)
	return nil
}
