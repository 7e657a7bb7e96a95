package model

import (
	"time"

	"github.com/liubai-app/liubai/internal/energy"
	"github.com/liubai-app/liubai/internal/question"
)

const DefaultReserveRatio = 0.3

type User struct {
	ID                 string    `json:"id"`
	Email              string    `json:"email"`
	Name               string    `json:"name"`
	EnergyReserveRatio float64   `json:"energy_reserve_ratio"`
	CheckInTimes       []string  `json:"check_in_times"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

type CheckIn struct {
	ID           string       `json:"id"`
	UserID       string       `json:"user_id"`
	Level        energy.Level `json:"level"`
	Question     string       `json:"question"`
	Note         *string      `json:"note,omitempty"`
	AIResponse   *string      `json:"ai_response"`
	CheckInAt    string       `json:"check_in_at"` // local wall clock, YYYY-MM-DDTHH:MM:SS
	CheckInAtUTC time.Time    `json:"check_in_at_utc"`
	Timezone     string       `json:"timezone"`
}

// SummaryStats are the recomputed fields of a DailySummary.
type SummaryStats struct {
	AvgScore     float64 `json:"avg_score"`
	MinScore     float64 `json:"min_score"`
	MaxScore     float64 `json:"max_score"`
	CheckInCount int     `json:"check_in_count"`
	BelowReserve int     `json:"below_reserve"`
}

type DailySummary struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`
	Date   string `json:"date"` // YYYY-MM-DD
	SummaryStats
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CoachTrigger string

const (
	TriggerCheckInReply   CoachTrigger = "CHECK_IN_REPLY"
	TriggerLowEnergyAlert CoachTrigger = "LOW_ENERGY_ALERT"
	TriggerWeeklySummary  CoachTrigger = "WEEKLY_SUMMARY"
)

type CoachMessage struct {
	ID          string       `json:"id"`
	UserID      string       `json:"user_id"`
	TriggerType CoachTrigger `json:"trigger_type"`
	Content     string       `json:"content"`
	CreatedAt   time.Time    `json:"created_at"`
}

type TodayResponse struct {
	TodayCheckIns []CheckIn         `json:"today_check_ins"`
	Question      question.Question `json:"question"`
	Period        string            `json:"period"`
	CurrentEnergy float64           `json:"current_energy"`
}
