package service

import (
	"math/rand/v2"

	"github.com/liubai-app/liubai/internal/energy"
)

const WeeklyReviewFallback = "本周精力报告暂时无法生成，请稍后再试。"

// FallbackReplies lists the canned replies for l; unknown levels get MEDIUM's.
func FallbackReplies(l energy.Level) []string {
	switch l {
	case energy.High:
		return []string{
			"今天状态不错呢，花园里的花也开得很好 🌸",
			"精力满满的一天，记得留一些给自己。",
			"状态很好！不过别忘了给花园留点水。",
		}
	case energy.Low:
		return []string{
			"辛苦了，花园里的花有点累了。找个时间歇一歇？",
			"精力有些低了，要不要放下手头的事休息一会儿？",
			"今天消耗不少呢。是时候对自己好一点了。",
		}
	case energy.Exhausted:
		return []string{
			"你真的很累了。现在最重要的事是休息。花园明天还在。",
			"该停下来了。没有什么事比你自己更重要。",
			"低电量模式了。放下一切，去休息吧。明天是新的一天。",
		}
	case energy.Medium:
		return []string{
			"还不错，稳稳的。记得适时休息一下。",
			"中等水位，花园还绿着。注意别透支哦。",
			"状态尚可，继续保持节奏就好。",
		}
	}
	return FallbackReplies(energy.Medium)
}

// FallbackReply picks one canned reply for l uniformly at random.
func FallbackReply(l energy.Level, intn func(int) int) string {
	if intn == nil {
		intn = rand.IntN
	}
	opts := FallbackReplies(l)
	return opts[intn(len(opts))]
}
