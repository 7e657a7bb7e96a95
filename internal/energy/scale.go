// Package energy maps qualitative energy levels to scores and display metadata.
package energy

import "strings"

type Level string

const (
	High      Level = "HIGH"
	Medium    Level = "MEDIUM"
	Low       Level = "LOW"
	Exhausted Level = "EXHAUSTED"
)

// DefaultScore is returned for any value outside the four known levels.
const DefaultScore = 0.5

// Levels lists every known level from most to least energetic.
var Levels = []Level{High, Medium, Low, Exhausted}

func (l Level) Valid() bool {
	switch l {
	case High, Medium, Low, Exhausted:
		return true
	}
	return false
}

// Parse normalizes s (case and surrounding space) and reports whether it names a known level.
func Parse(s string) (Level, bool) {
	l := Level(strings.ToUpper(strings.TrimSpace(s)))
	return l, l.Valid()
}

func Score(l Level) float64 {
	switch l {
	case High:
		return 1.0
	case Medium:
		return 0.65
	case Low:
		return 0.35
	case Exhausted:
		return 0.1
	}
	return DefaultScore
}

func Label(l Level) string {
	switch l {
	case High:
		return "精力充沛"
	case Medium:
		return "状态尚可"
	case Low:
		return "有点疲惫"
	case Exhausted:
		return "快没电了"
	}
	return "未知"
}

func Emoji(l Level) string {
	switch l {
	case High:
		return "🟢"
	case Medium:
		return "🟡"
	case Low:
		return "🟠"
	case Exhausted:
		return "🔴"
	}
	return "⚪"
}

// CurrentEnergy is the mean score of the given levels, or Medium's score when there are none.
func CurrentEnergy(levels []Level) float64 {
	if len(levels) == 0 {
		return Score(Medium)
	}
	var sum float64
	for _, l := range levels {
		sum += Score(l)
	}
	return sum / float64(len(levels))
}
