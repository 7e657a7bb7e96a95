package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/liubai-app/liubai/internal/config"
	"github.com/liubai-app/liubai/internal/energy"
	"github.com/liubai-app/liubai/internal/metrics"
	"github.com/liubai-app/liubai/internal/model"
	"github.com/liubai-app/liubai/internal/question"
	"github.com/liubai-app/liubai/internal/timeutil"
	"go.uber.org/zap"
)

// ValidationError is the only error Submit surfaces to the caller.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func IsValidationError(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

type Submission struct {
	UserID   string
	Level    string
	Question string
	Note     *string
	Timezone string
}

type Result struct {
	CheckIn      *model.CheckIn
	Reply        string
	UsedFallback bool
	Persisted    bool
}

type CheckInStore interface {
	CheckInReader
	Insert(ctx context.Context, c *model.CheckIn) error
}

type DailySummaries interface {
	Upsert(ctx context.Context, userID, date string) (*model.DailySummary, error)
	Recent(ctx context.Context, userID, today string, days int) ([]model.DailySummary, error)
}

type CheckInPublisher interface {
	PublishCheckInRecorded(ctx context.Context, c *model.CheckIn) error
}

// Fallback reasons.
const (
	fallbackEmpty = "empty"
	fallbackError = "error"
)

// CheckInService streams a coach reply for a check-in, then records it.
type CheckInService struct {
	store     CheckInStore
	summaries DailySummaries
	gen       Generator
	events    CheckInPublisher
	zone      *timeutil.Zone
	selector  *question.Selector
	metrics   *metrics.Metrics
	log       *zap.Logger
	llm       config.LLMConfig
	intn      func(int) int
}

type CheckInServiceOption func(*CheckInService)

func WithEvents(p CheckInPublisher) CheckInServiceOption {
	return func(s *CheckInService) { s.events = p }
}

func WithZone(z *timeutil.Zone) CheckInServiceOption {
	return func(s *CheckInService) { s.zone = z }
}

func WithSelector(sel *question.Selector) CheckInServiceOption {
	return func(s *CheckInService) { s.selector = sel }
}

func WithMetrics(m *metrics.Metrics) CheckInServiceOption {
	return func(s *CheckInService) { s.metrics = m }
}

func WithFallbackRand(intn func(int) int) CheckInServiceOption {
	return func(s *CheckInService) { s.intn = intn }
}

func NewCheckInService(store CheckInStore, summaries DailySummaries, gen Generator, llm config.LLMConfig, log *zap.Logger, opts ...CheckInServiceOption) *CheckInService {
	s := &CheckInService{
		store:     store,
		summaries: summaries,
		gen:       gen,
		llm:       llm,
		log:       log,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.zone == nil {
		s.zone = timeutil.NewZone(nil)
	}
	if s.selector == nil {
		s.selector = question.NewSelector(nil)
	}
	if s.metrics == nil {
		s.metrics = metrics.New(nil)
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	return s
}

func validate(sub Submission) (energy.Level, string, error) {
	if strings.TrimSpace(sub.Level) == "" {
		return "", "", &ValidationError{Field: "level", Message: "is required"}
	}
	level, ok := energy.Parse(sub.Level)
	if !ok {
		return "", "", &ValidationError{Field: "level", Message: "must be one of HIGH, MEDIUM, LOW, EXHAUSTED"}
	}
	q := strings.TrimSpace(sub.Question)
	if q == "" {
		return "", "", &ValidationError{Field: "question", Message: "is required"}
	}
	return level, q, nil
}

// Submit validates sub, streams the coach reply through emit as it is generated and,
// once the stream has ended, stores the check-in and refreshes the day's summary.
//
// Only validation errors are returned. emit failing (client gone) stops forwarding but
// not generation or persistence, which also ignore cancellation of ctx.
func (s *CheckInService) Submit(ctx context.Context, sub Submission, emit func(string) error) (*Result, error) {
	level, questionText, err := validate(sub)
	if err != nil {
		return nil, err
	}
	ctx = context.WithoutCancel(ctx)
	log := s.log.With(zap.String("user_id", sub.UserID), zap.String("level", string(level)))

	tz := sub.Timezone
	now, err := s.zone.Now(tz)
	if err != nil {
		log.Warn("unusable timezone, using default", zap.String("timezone", tz), zap.Error(err))
		tz = timeutil.DefaultTimezone
		if now, err = s.zone.Now(tz); err != nil {
			return nil, fmt.Errorf("resolve default timezone: %w", err)
		}
	}
	today := now.Format(timeutil.DateLayout)

	todayCheckIns, recent := s.loadContext(ctx, log, sub.UserID, today)

	forward := func(text string) {
		if emit == nil {
			return
		}
		if err := emit(text); err != nil {
			log.Info("client stopped receiving reply", zap.Error(err))
			emit = nil
		}
	}

	var reply strings.Builder
	res := &Result{}
	start := time.Now()
	req := GenerateRequest{
		System:      coachSystemPrompt,
		Prompt:      buildCheckInContext(level, questionText, todayCheckIns, recent),
		MaxTokens:   s.llm.MaxTokens,
		Temperature: s.llm.Temperature,
	}
	for chunk, genErr := range s.gen.Stream(ctx, req) {
		if genErr != nil {
			log.Error("reply generation failed", zap.Error(genErr), zap.Int("partial_len", reply.Len()))
			res.UsedFallback = true
			s.metrics.ReplyFallbacks.WithLabelValues(fallbackError).Inc()
			break
		}
		reply.WriteString(chunk)
		forward(chunk)
	}
	if !res.UsedFallback && reply.Len() == 0 {
		log.Warn("empty reply, using fallback")
		res.UsedFallback = true
		s.metrics.ReplyFallbacks.WithLabelValues(fallbackEmpty).Inc()
	}
	if res.UsedFallback {
		fb := FallbackReply(level, s.intn)
		reply.WriteString(fb)
		forward(fb)
	}
	elapsed := time.Since(start)
	s.metrics.GenerationDuration.Observe(elapsed.Seconds())
	res.Reply = reply.String()

	aiResponse := res.Reply
	res.CheckIn = &model.CheckIn{
		ID:           uuid.NewString(),
		UserID:       sub.UserID,
		Level:        level,
		Question:     questionText,
		Note:         normalizeNote(sub.Note),
		AIResponse:   &aiResponse,
		CheckInAt:    now.Format(timeutil.LocalDateTimeLayout),
		CheckInAtUTC: now.UTC(),
		Timezone:     tz,
	}
	res.Persisted = s.persist(ctx, log, res.CheckIn, today)

	outcome := metrics.OutcomePersisted
	if !res.Persisted {
		outcome = metrics.OutcomeFailed
	}
	s.metrics.CheckIns.WithLabelValues(string(level), outcome).Inc()
	log.Info("check-in completed",
		zap.String("check_in_id", res.CheckIn.ID),
		zap.Duration("elapsed", elapsed),
		zap.Bool("fallback", res.UsedFallback),
		zap.Bool("persisted", res.Persisted),
	)
	return res, nil
}

// loadContext fetches what the prompt shows. Failures only shrink the prompt.
func (s *CheckInService) loadContext(ctx context.Context, log *zap.Logger, userID, today string) ([]model.CheckIn, []model.DailySummary) {
	from, to := timeutil.DayBounds(today)
	todayCheckIns, err := s.store.ListByUserBetween(ctx, userID, from, to)
	if err != nil {
		log.Warn("load today's check-ins for prompt", zap.Error(err))
		todayCheckIns = nil
	}
	recent, err := s.summaries.Recent(ctx, userID, today, promptSummaryDays)
	if err != nil {
		log.Warn("load recent summaries for prompt", zap.Error(err))
		recent = nil
	}
	return todayCheckIns, recent
}

func (s *CheckInService) persist(ctx context.Context, log *zap.Logger, c *model.CheckIn, today string) bool {
	log = log.With(zap.String("check_in_id", c.ID))
	if err := s.store.Insert(ctx, c); err != nil {
		s.metrics.PersistenceFailures.WithLabelValues("insert").Inc()
		log.Error("save check-in", zap.Error(err))
		return false
	}
	if _, err := s.summaries.Upsert(ctx, c.UserID, today); err != nil {
		s.metrics.PersistenceFailures.WithLabelValues("summary").Inc()
		log.Error("upsert daily summary", zap.String("date", today), zap.Error(err))
	}
	if s.events != nil {
		if err := s.events.PublishCheckInRecorded(ctx, c); err != nil {
			log.Warn("publish checkin/recorded", zap.Error(err))
		}
	}
	return true
}

func normalizeNote(note *string) *string {
	if note == nil {
		return nil
	}
	n := strings.TrimSpace(*note)
	if n == "" {
		return nil
	}
	return &n
}

// Today returns the check-ins recorded so far on the user's local day, newest first,
// with the prompt to show next and the day's running energy.
func (s *CheckInService) Today(ctx context.Context, userID, tz string) (*model.TodayResponse, error) {
	now, err := s.zone.Now(tz)
	if err != nil {
		s.log.Warn("unusable timezone, using default", zap.String("timezone", tz), zap.Error(err))
		if now, err = s.zone.Now(timeutil.DefaultTimezone); err != nil {
			return nil, err
		}
	}
	from, to := timeutil.DayBounds(now.Format(timeutil.DateLayout))
	checkIns, err := s.store.ListByUserBetween(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	if checkIns == nil {
		checkIns = []model.CheckIn{}
	}

	texts := make([]string, 0, len(checkIns))
	levels := make([]energy.Level, 0, len(checkIns))
	for _, c := range checkIns {
		texts = append(texts, c.Question)
		levels = append(levels, c.Level)
	}
	period := question.CurrentPeriod(now.Hour())
	q := s.selector.Select(period, question.RecentIDs(texts))

	return &model.TodayResponse{
		TodayCheckIns: checkIns,
		Question:      q,
		Period:        string(period),
		CurrentEnergy: energy.CurrentEnergy(levels),
	}, nil
}
