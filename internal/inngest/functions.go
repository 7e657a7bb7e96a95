package inngest

import (
	"context"
	"fmt"
	"net/http"

	"github.com/inngest/inngestgo"
	"github.com/inngest/inngestgo/step"
	"github.com/liubai-app/liubai/internal/energy"
	"github.com/liubai-app/liubai/internal/model"
	"github.com/liubai-app/liubai/internal/service"
	"github.com/liubai-app/liubai/internal/timeutil"
	"go.uber.org/zap"
)

type UserSource interface {
	ListAll(ctx context.Context) ([]model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
}

type Coach interface {
	WeeklyReview(ctx context.Context, u model.User, today string) (*model.CoachMessage, error)
	MailWeeklyReview(ctx context.Context, u model.User, today string, msg *model.CoachMessage) error
	LowEnergyAlert(ctx context.Context, userID string, level energy.Level) (*model.CoachMessage, error)
}

type EventSender interface {
	Send(ctx context.Context, evt any) (string, error)
}

type Jobs struct {
	users  UserSource
	coach  Coach
	events EventSender
	zone   *timeutil.Zone
	log    *zap.Logger
}

func NewJobs(users UserSource, coach Coach, events EventSender, zone *timeutil.Zone, log *zap.Logger) *Jobs {
	return &Jobs{users: users, coach: coach, events: events, zone: zone, log: log}
}

// NewHandler registers all Inngest functions and returns the serve handler.
func NewHandler(client inngestgo.Client, jobs *Jobs) (http.Handler, error) {
	for _, register := range []func(inngestgo.Client) (inngestgo.ServableFunction, error){
		jobs.weeklyReviewFanOutFn,
		jobs.weeklyReviewFn,
		jobs.lowEnergyAlertFn,
	} {
		if _, err := register(client); err != nil {
			return nil, fmt.Errorf("register function: %w", err)
		}
	}
	return client.Serve(), nil
}

// cron/weekly-review: Monday 09:00 Asia/Shanghai (01:00 UTC)
func (j *Jobs) weeklyReviewFanOutFn(client inngestgo.Client) (inngestgo.ServableFunction, error) {
	return inngestgo.CreateFunction(
		client,
		inngestgo.FunctionOpts{ID: "weekly-review-fan-out", Name: "Request Weekly Reviews"},
		inngestgo.CronTrigger("0 1 * * 1"),
		func(ctx context.Context, input inngestgo.Input[any]) (any, error) {
			return j.requestWeeklyReviews(ctx)
		},
	)
}

func (j *Jobs) requestWeeklyReviews(ctx context.Context) (map[string]int, error) {
	users, err := j.users.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	today, err := j.zone.Today(timeutil.DefaultTimezone)
	if err != nil {
		return nil, err
	}
	requested := 0
	for _, u := range users {
		if _, err := j.events.Send(ctx, inngestgo.Event{
			Name: service.EventWeeklyReviewRequested,
			Data: map[string]any{
				"user_id": u.ID,
				"today":   today,
			},
		}); err != nil {
			j.log.Warn("send event", zap.String("event", service.EventWeeklyReviewRequested), zap.String("user_id", u.ID), zap.Error(err))
			continue
		}
		requested++
	}
	return map[string]int{"users": len(users), "requested": requested}, nil
}

// event/weekly-review: one user's review, then the optional email
func (j *Jobs) weeklyReviewFn(client inngestgo.Client) (inngestgo.ServableFunction, error) {
	return inngestgo.CreateFunction(
		client,
		inngestgo.FunctionOpts{ID: "weekly-review", Name: "Generate Weekly Review"},
		inngestgo.EventTrigger(service.EventWeeklyReviewRequested, nil),
		func(ctx context.Context, input inngestgo.Input[service.WeeklyReviewRequestedData]) (any, error) {
			data := input.Event.Data
			user, err := j.users.GetByID(ctx, data.UserID)
			if err != nil {
				return nil, fmt.Errorf("load user %s: %w", data.UserID, err)
			}

			msg, err := step.Run(ctx, "generate-review", func(ctx context.Context) (*model.CoachMessage, error) {
				return j.coach.WeeklyReview(ctx, *user, data.Today)
			})
			if err != nil {
				return nil, fmt.Errorf("weekly review: %w", err)
			}
			if msg == nil {
				return map[string]string{"status": "skipped", "reason": "no_data"}, nil
			}

			_, err = step.Run(ctx, "send-email", func(ctx context.Context) (string, error) {
				if err := j.coach.MailWeeklyReview(ctx, *user, data.Today, msg); err != nil {
					return "", err
				}
				return "sent", nil
			})
			if err != nil {
				j.log.Warn("weekly review email failed", zap.String("user_id", user.ID), zap.Error(err))
			}
			return map[string]string{"status": "created", "message_id": msg.ID}, nil
		},
	)
}

// event/low-energy-alert: fires on every recorded check-in
func (j *Jobs) lowEnergyAlertFn(client inngestgo.Client) (inngestgo.ServableFunction, error) {
	return inngestgo.CreateFunction(
		client,
		inngestgo.FunctionOpts{ID: "low-energy-alert", Name: "Low Energy Alert"},
		inngestgo.EventTrigger(service.EventCheckInRecorded, nil),
		func(ctx context.Context, input inngestgo.Input[service.CheckInRecordedData]) (any, error) {
			return j.lowEnergyAlert(ctx, input.Event.Data)
		},
	)
}

func (j *Jobs) lowEnergyAlert(ctx context.Context, data service.CheckInRecordedData) (map[string]string, error) {
	msg, err := j.coach.LowEnergyAlert(ctx, data.UserID, energy.Level(data.Level))
	if err != nil {
		return nil, err
	}
	if msg == nil {
		return map[string]string{"status": "skipped"}, nil
	}
	j.log.Info("low energy alert stored", zap.String("user_id", data.UserID), zap.String("check_in_id", data.CheckInID))
	return map[string]string{"status": "created", "message_id": msg.ID}, nil
}
