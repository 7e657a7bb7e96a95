package service

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/liubai-app/liubai/internal/energy"
	"github.com/liubai-app/liubai/internal/model"
	"github.com/liubai-app/liubai/internal/timeutil"
	"go.uber.org/zap"
)

const (
	weeklyReviewDays        = 7
	weeklyReviewMaxTokens   = 400
	weeklyReviewTemperature = 0.7
)

type CoachMessageStore interface {
	Insert(ctx context.Context, m *model.CoachMessage) error
}

type SummaryLister interface {
	ListSince(ctx context.Context, userID, sinceDate string) ([]model.DailySummary, error)
}

type WeeklyReviewMailer interface {
	SendWeeklyReview(ctx context.Context, to, name, weekOf, content string) error
}

// CoachService writes the coach messages produced outside the check-in flow.
type CoachService struct {
	messages  CoachMessageStore
	summaries SummaryLister
	users     ReserveRatioReader
	gen       Generator
	mailer    WeeklyReviewMailer
	log       *zap.Logger
}

func NewCoachService(messages CoachMessageStore, summaries SummaryLister, users ReserveRatioReader, gen Generator, mailer WeeklyReviewMailer, log *zap.Logger) *CoachService {
	if log == nil {
		log = zap.NewNop()
	}
	return &CoachService{
		messages:  messages,
		summaries: summaries,
		users:     users,
		gen:       gen,
		mailer:    mailer,
		log:       log,
	}
}

// WeeklyReview covers the seven days before today. It returns (nil, nil) when the user
// has no summaries in that window.
func (c *CoachService) WeeklyReview(ctx context.Context, u model.User, today string) (*model.CoachMessage, error) {
	since, err := timeutil.DaysBefore(today, weeklyReviewDays)
	if err != nil {
		return nil, fmt.Errorf("parse today: %w", err)
	}
	all, err := c.summaries.ListSince(ctx, u.ID, since)
	if err != nil {
		return nil, fmt.Errorf("list summaries: %w", err)
	}
	week := make([]model.DailySummary, 0, len(all))
	for _, s := range all {
		if s.Date < today {
			week = append(week, s)
		}
	}
	if len(week) == 0 {
		return nil, nil
	}
	slices.SortFunc(week, func(a, b model.DailySummary) int { return strings.Compare(a.Date, b.Date) })

	ratio := u.EnergyReserveRatio
	if ratio <= 0 {
		ratio = model.DefaultReserveRatio
	}
	content, err := Collect(c.gen.Stream(ctx, GenerateRequest{
		System:      coachSystemPrompt,
		Prompt:      buildWeeklyContext(week, ratio),
		MaxTokens:   weeklyReviewMaxTokens,
		Temperature: weeklyReviewTemperature,
	}))
	if err != nil || strings.TrimSpace(content) == "" {
		c.log.Warn("weekly review generation failed, using fallback", zap.String("user_id", u.ID), zap.Error(err))
		content = WeeklyReviewFallback
	}

	msg := &model.CoachMessage{
		ID:          uuid.NewString(),
		UserID:      u.ID,
		TriggerType: model.TriggerWeeklySummary,
		Content:     content,
	}
	if err := c.messages.Insert(ctx, msg); err != nil {
		return nil, fmt.Errorf("insert weekly review: %w", err)
	}
	return msg, nil
}

// MailWeeklyReview sends msg to the user when a mailer is configured.
func (c *CoachService) MailWeeklyReview(ctx context.Context, u model.User, today string, msg *model.CoachMessage) error {
	if c.mailer == nil || msg == nil || u.Email == "" {
		return nil
	}
	return c.mailer.SendWeeklyReview(ctx, u.Email, u.Name, today, msg.Content)
}

// LowEnergyAlert stores a caring note when level scores strictly below the user's reserve ratio.
// It returns (nil, nil) when no alert is due.
func (c *CoachService) LowEnergyAlert(ctx context.Context, userID string, level energy.Level) (*model.CoachMessage, error) {
	if !level.Valid() {
		return nil, nil
	}
	ratio, err := c.users.ReserveRatio(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("reserve ratio: %w", err)
	}
	if energy.Score(level) >= ratio {
		return nil, nil
	}
	msg := &model.CoachMessage{
		ID:          uuid.NewString(),
		UserID:      userID,
		TriggerType: model.TriggerLowEnergyAlert,
		Content:     lowEnergyAlertText(level, ratio),
	}
	if err := c.messages.Insert(ctx, msg); err != nil {
		return nil, fmt.Errorf("insert low energy alert: %w", err)
	}
	return msg, nil
}

func lowEnergyAlertText(level energy.Level, ratio float64) string {
	return fmt.Sprintf("%s 你现在「%s」，已经低于你给自己留的 %.0f%% 精力余量。先把手头的事放一放，像冬天的树一样，歇一歇再长。",
		energy.Emoji(level), energy.Label(level), ratio*100)
}
