package question

// catalog holds twenty prompts per period. IDs are stable: stored check-ins only keep the
// text, and IDOf maps it back.
var catalog = []Question{
	{ID: "M01", Period: Morning, Text: "新的一天，感觉充好电了吗？"},
	{ID: "M02", Period: Morning, Text: "今天醒来的第一感觉是什么——精神饱满，还是想赖床？"},
	{ID: "M03", Period: Morning, Text: "如果今天的精力是天气，现在是晴天还是多云？"},
	{ID: "M04", Period: Morning, Text: "从床上起来顺利吗？还是跟被窝搏斗了好久？"},
	{ID: "M05", Period: Morning, Text: "想象一下今天的工作，你觉得自己准备好了吗？"},
	{ID: "M06", Period: Morning, Text: "昨晚睡得怎么样？感觉恢复了多少？"},
	{ID: "M07", Period: Morning, Text: "现在让你跑 500 米，你觉得能跑动吗？"},
	{ID: "M08", Period: Morning, Text: "今天的你，像刚充满电的手机，还是还剩半格电？"},
	{ID: "M09", Period: Morning, Text: "早餐吃了吗？身体有没有准备好开始一天？"},
	{ID: "M10", Period: Morning, Text: "如果用一个词形容现在的状态，你会说什么？"},
	{ID: "M11", Period: Morning, Text: "今天有什么期待的事吗？想到它你有劲儿吗？"},
	{ID: "M12", Period: Morning, Text: "深呼吸一下——感觉清醒还是还有点迷糊？"},
	{ID: "M13", Period: Morning, Text: "昨天的疲惫清零了吗？还是还有一些残留？"},
	{ID: "M14", Period: Morning, Text: "如果现在突然要开一个重要会议，你 hold 得住吗？"},
	{ID: "M15", Period: Morning, Text: "今天像是能量满满的周一，还是还在「开机中」？"},
	{ID: "M16", Period: Morning, Text: "闹钟响的时候你是自然醒的，还是被硬拽起来的？"},
	{ID: "M17", Period: Morning, Text: "脑子现在转得快吗？想一个简单数学题试试？"},
	{ID: "M18", Period: Morning, Text: "今天的你，愿意给自己的状态打几颗星？"},
	{ID: "M19", Period: Morning, Text: "如果花园里的花是你的精力，今早它们看起来怎么样？"},
	{ID: "M20", Period: Morning, Text: "出门前照照镜子——眼睛有神吗？"},

	{ID: "N01", Period: Noon, Text: "半天过去了，精力还够用吗？"},
	{ID: "N02", Period: Noon, Text: "上午的工作顺利吗？有没有被什么事消耗到？"},
	{ID: "N03", Period: Noon, Text: "午饭吃了吗？吃完是精神了还是更困了？"},
	{ID: "N04", Period: Noon, Text: "如果下午还有一场硬仗，你觉得自己能打吗？"},
	{ID: "N05", Period: Noon, Text: "上午开了几个会？脑子还转得动吗？"},
	{ID: "N06", Period: Noon, Text: "现在让你做一个需要高度专注的任务，你能进入状态吗？"},
	{ID: "N07", Period: Noon, Text: "到目前为止，今天消耗了多少精力？花园还绿着吗？"},
	{ID: "N08", Period: Noon, Text: "午休了吗？或者至少闭眼歇了一会儿？"},
	{ID: "N09", Period: Noon, Text: "下午的日程你看了吗？想到它你什么感觉？"},
	{ID: "N10", Period: Noon, Text: "如果有人现在约你下午茶，你想去还是只想躺着？"},
	{ID: "N11", Period: Noon, Text: "上午有没有什么事让你特别费脑子？"},
	{ID: "N12", Period: Noon, Text: "此刻的你，是「还能再战」还是「已经有点虚了」？"},
	{ID: "N13", Period: Noon, Text: "午饭后犯困是正常的——但你现在困到什么程度？"},
	{ID: "N14", Period: Noon, Text: "如果给上午的自己一个建议，你会说什么？"},
	{ID: "N15", Period: Noon, Text: "你的肩膀和脖子现在紧不紧？身体在提醒你什么？"},
	{ID: "N16", Period: Noon, Text: "从早上到现在，你的精力是一直在掉还是有回升过？"},
	{ID: "N17", Period: Noon, Text: "今天到目前为止，有没有什么让你开心的小事？"},
	{ID: "N18", Period: Noon, Text: "估算一下，你现在大概还剩多少精力？"},
	{ID: "N19", Period: Noon, Text: "如果下午只做一件事，你还有精力做好它吗？"},
	{ID: "N20", Period: Noon, Text: "中午的阳光不错，你感受到了吗？"},

	{ID: "E01", Period: Evening, Text: "一天快结束了，你现在什么感觉？"},
	{ID: "E02", Period: Evening, Text: "如果精力是手机电量，你现在大概剩百分之多少？"},
	{ID: "E03", Period: Evening, Text: "下班了吗？走出公司那一刻，是轻松还是疲惫？"},
	{ID: "E04", Period: Evening, Text: "今天值得吗？你觉得精力花在对的地方了吗？"},
	{ID: "E05", Period: Evening, Text: "回家路上的你，还有力气做点自己想做的事吗？"},
	{ID: "E06", Period: Evening, Text: "有人现在约你吃饭，你想去还是只想回家？"},
	{ID: "E07", Period: Evening, Text: "今天有没有某个时刻让你觉得特别累？"},
	{ID: "E08", Period: Evening, Text: "如果用颜色形容现在的精力，是什么颜色？"},
	{ID: "E09", Period: Evening, Text: "身体在发出什么信号？困？饿？酸？还是还好？"},
	{ID: "E10", Period: Evening, Text: "你觉得今天的精力配置合理吗？有没有透支？"},
	{ID: "E11", Period: Evening, Text: "晚上还有计划吗？你有精力执行吗？"},
	{ID: "E12", Period: Evening, Text: "工作的事能放下吗？还是脑子里还在转？"},
	{ID: "E13", Period: Evening, Text: "今天最消耗你精力的是哪件事？"},
	{ID: "E14", Period: Evening, Text: "如果给今天的精力管理打个分，你给几分？"},
	{ID: "E15", Period: Evening, Text: "一天下来，花园里的花还好吗？需要浇浇水了吗？"},
	{ID: "E16", Period: Evening, Text: "现在让你学一个新东西，你学得进去吗？"},
	{ID: "E17", Period: Evening, Text: "今天有没有给自己留出休息的空间？"},
	{ID: "E18", Period: Evening, Text: "晚风吹一吹，感觉好一点了吗？"},
	{ID: "E19", Period: Evening, Text: "对比早上的状态，你现在怎么样？"},
	{ID: "E20", Period: Evening, Text: "辛苦了一天——你觉得今晚能睡个好觉吗？"},

	{ID: "L01", Period: Night, Text: "睡前来聊聊——今天过得怎么样？"},
	{ID: "L02", Period: Night, Text: "现在的你，准备好进入休息模式了吗？"},
	{ID: "L03", Period: Night, Text: "如果给今天的精力画一条曲线，它是什么形状的？"},
	{ID: "L04", Period: Night, Text: "脑子安静了吗？还是有很多事在转？"},
	{ID: "L05", Period: Night, Text: "明天有什么让你有压力的事吗？"},
	{ID: "L06", Period: Night, Text: "你觉得今天花园浇够水了吗？"},
	{ID: "L07", Period: Night, Text: "现在闭上眼睛 3 秒钟——你感觉到疲惫还是平静？"},
	{ID: "L08", Period: Night, Text: "如果可以对今天的自己说一句话，你会说什么？"},
	{ID: "L09", Period: Night, Text: "身体哪里最不舒服？还是整体都还好？"},
	{ID: "L10", Period: Night, Text: "今天有没有做什么让自己开心的事？"},
	{ID: "L11", Period: Night, Text: "你觉得自己今天保留了足够的精力恢复吗？"},
	{ID: "L12", Period: Night, Text: "手机放下了吗？还是还在刷？"},
	{ID: "L13", Period: Night, Text: "深呼吸三次——好一点了吗？"},
	{ID: "L14", Period: Night, Text: "明天想做点什么不一样的事吗？"},
	{ID: "L15", Period: Night, Text: "如果花园有话说，它现在会对你说什么？"},
	{ID: "L16", Period: Night, Text: "今天的你，值得被好好休息犒劳一下。你准备好了吗？"},
	{ID: "L17", Period: Night, Text: "数一数今天笑了几次？"},
	{ID: "L18", Period: Night, Text: "你的精力保留线今天守住了吗？"},
	{ID: "L19", Period: Night, Text: "夜深了，外面安静了。你的心呢？"},
	{ID: "L20", Period: Night, Text: "最后一个问题——你觉得今天的精力，花得值吗？"},
}
