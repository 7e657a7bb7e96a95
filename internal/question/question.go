// Package question picks a check-in prompt for the current time of day while avoiding
// prompts the user saw recently.
package question

import (
	"math/rand/v2"
	"slices"
)

type Period string

const (
	Morning Period = "morning"
	Noon    Period = "noon"
	Evening Period = "evening"
	Night   Period = "night"
)

// RecentWindow is how many of today's latest prompts are excluded from selection.
const RecentWindow = 3

type Question struct {
	ID     string `json:"id"`
	Period Period `json:"period"`
	Text   string `json:"text"`
}

// CurrentPeriod maps an hour of day (0-23) to its period.
func CurrentPeriod(hour int) Period {
	switch {
	case hour >= 7 && hour < 11:
		return Morning
	case hour >= 11 && hour < 15:
		return Noon
	case hour >= 15 && hour < 21:
		return Evening
	default:
		return Night
	}
}

// Intn is the randomness the selector needs; *rand.Rand satisfies it.
type Intn interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

type Selector struct {
	rng Intn
}

// NewSelector returns a selector over the built-in catalog. A nil rng uses math/rand/v2.
func NewSelector(rng Intn) *Selector {
	if rng == nil {
		rng = globalRand{}
	}
	return &Selector{rng: rng}
}

// Select picks uniformly among the period's prompts not in recentIDs. When every prompt of
// the period was used recently it picks from the whole period instead, so it always returns
// a prompt.
func (s *Selector) Select(period Period, recentIDs []string) Question {
	all := ForPeriod(period)
	if len(all) == 0 {
		all = ForPeriod(Night)
	}
	pool := make([]Question, 0, len(all))
	for _, q := range all {
		if !slices.Contains(recentIDs, q.ID) {
			pool = append(pool, q)
		}
	}
	if len(pool) == 0 {
		pool = all
	}
	return pool[s.rng.IntN(len(pool))]
}

func ForPeriod(period Period) []Question {
	var out []Question
	for _, q := range catalog {
		if q.Period == period {
			out = append(out, q)
		}
	}
	return out
}

// IDOf returns the catalog id of a prompt text, or "" if the text is not in the catalog.
func IDOf(text string) string {
	for _, q := range catalog {
		if q.Text == text {
			return q.ID
		}
	}
	return ""
}

// RecentIDs maps the newest RecentWindow prompt texts (newest first) to catalog ids,
// skipping texts that are not in the catalog.
func RecentIDs(textsNewestFirst []string) []string {
	out := make([]string, 0, RecentWindow)
	for i, text := range textsNewestFirst {
		if i >= RecentWindow {
			break
		}
		if id := IDOf(text); id != "" {
			out = append(out, id)
		}
	}
	return out
}
