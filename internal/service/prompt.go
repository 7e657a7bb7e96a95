package service

import (
	"fmt"
	"strings"

	"github.com/liubai-app/liubai/internal/energy"
	"github.com/liubai-app/liubai/internal/model"
	"github.com/liubai-app/liubai/internal/timeutil"
)

const coachSystemPrompt = `你是一个温暖的精力教练，名叫「知秋」，是「留白」App 的 AI 伙伴。

你的风格：
- 温暖、简短、不说教、像朋友一样关心对方
- 回复控制在 150 字以内
- 如果用户精力充沛，给予肯定和鼓励
- 如果用户精力低，表达理解和关怀，给一个具体小建议
- 不要用感叹号轰炸，不要说"加油"
- 可以偶尔用一个 emoji，但不要过多
- 用"你"而非"您"
- 偶尔用自然界的植物、动物的比喻，目的是让用户知道适时休息才是自然界的法则

核心理念：留白 = 有意识地保留精力空间用于恢复，不透支。`

// promptSummaryDays is how many recent summaries the check-in prompt shows.
const promptSummaryDays = 3

func levelDisplay(l energy.Level) string {
	if !l.Valid() {
		return string(l)
	}
	return energy.Label(l) + " " + energy.Emoji(l)
}

// buildCheckInContext renders the user message for a check-in reply.
// todayCheckIns and recent are newest first.
func buildCheckInContext(level energy.Level, question string, todayCheckIns []model.CheckIn, recent []model.DailySummary) string {
	var sb strings.Builder
	sb.WriteString("## 当前 check-in\n")
	fmt.Fprintf(&sb, "- 问题：%s\n", question)
	fmt.Fprintf(&sb, "- 用户选择：%s\n\n", levelDisplay(level))

	sb.WriteString("## 今天的记录\n")
	if len(todayCheckIns) == 0 {
		sb.WriteString("今天的第一次记录\n")
	}
	for _, c := range todayCheckIns {
		fmt.Fprintf(&sb, "- %s: %s\n", timeutil.ClockTime(c.CheckInAt), levelDisplay(c.Level))
	}

	sb.WriteString("\n## 近几天趋势\n")
	if len(recent) == 0 {
		sb.WriteString("暂无历史数据（新用户）\n")
	}
	for i, s := range recent {
		if i == promptSummaryDays {
			break
		}
		fmt.Fprintf(&sb, "- %s: 均值 %.2f, 最低 %.2f\n", s.Date, s.AvgScore, s.MinScore)
	}

	sb.WriteString("\n请基于以上信息给出温暖简短的回应。")
	return sb.String()
}

// buildWeeklyContext renders the user message for a weekly review. summaries are oldest first.
func buildWeeklyContext(summaries []model.DailySummary, reserveRatio float64) string {
	var sb strings.Builder
	sb.WriteString("## 本周精力数据\n")
	for _, s := range summaries {
		day, err := timeutil.Weekday(s.Date)
		if err != nil {
			day = "?"
		}
		fmt.Fprintf(&sb, "- %s（%s）: 均值 %.2f, 最低 %.2f, 透支 %d 次\n",
			s.Date, day, s.AvgScore, s.MinScore, s.BelowReserve)
	}
	sb.WriteString("\n## 用户设定\n")
	fmt.Fprintf(&sb, "- 精力保留比例: %.0f%%\n\n", reserveRatio*100)
	sb.WriteString(`## 任务
请生成一份温暖的周度精力回顾，包含：
1. 对这周精力状态的总结（2-3句）
2. 发现的规律或值得注意的点（1-2句）
3. 对下周的一个小建议（1句）
控制在 150 字以内。`)
	return sb.String()
}
