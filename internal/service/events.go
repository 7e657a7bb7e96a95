package service

import (
	"context"
	"fmt"

	"github.com/inngest/inngestgo"
	"github.com/liubai-app/liubai/internal/model"
)

const (
	EventCheckInRecorded       = "checkin/recorded"
	EventWeeklyReviewRequested = "review/weekly-requested"
)

type CheckInRecordedData struct {
	CheckInID string `json:"check_in_id"`
	UserID    string `json:"user_id"`
	Level     string `json:"level"`
	Date      string `json:"date"`
}

type WeeklyReviewRequestedData struct {
	UserID string `json:"user_id"`
	Today  string `json:"today"`
}

// eventSender is the part of inngestgo.Client the publisher needs.
type eventSender interface {
	Send(ctx context.Context, evt any) (string, error)
}

type EventPublisher struct {
	client eventSender
}

func NewEventPublisher(client inngestgo.Client) *EventPublisher {
	return &EventPublisher{client: client}
}

func (p *EventPublisher) PublishCheckInRecorded(ctx context.Context, c *model.CheckIn) error {
	if p == nil || p.client == nil {
		return nil
	}
	date := c.CheckInAt
	if len(date) >= 10 {
		date = date[:10]
	}
	if _, err := p.client.Send(ctx, inngestgo.Event{
		Name: EventCheckInRecorded,
		Data: map[string]any{
			"check_in_id": c.ID,
			"user_id":     c.UserID,
			"level":       string(c.Level),
			"date":        date,
		},
	}); err != nil {
		return fmt.Errorf("send %s: %w", EventCheckInRecorded, err)
	}
	return nil
}
