package service

import (
	"Quad/internal/model"
)

// engagementState 成就评估可见的用户状态切面
type engagementState struct {
	TotalScore  int64
	TotalHearts int64
	Streaks     map[string]*model.Streak
}

func (st *engagementState) longestStreak(streakType string) int {
	if s, ok := st.Streaks[streakType]; ok {
		return s.LongestLength
	}
	return 0
}

// achievementDef 终身成就定义。解锁条件只看累计状态，
// 连签里程碑的爱心奖励不在此列，那是按次发放的
type achievementDef struct {
	ID        string
	Name      string
	Desc      string
	Target    int64 // 积分型成就的目标分，进度条展示用；非积分型为 0
	Satisfied func(st *engagementState) bool
}

var achievementCatalog = []achievementDef{
	{
		ID: "first_steps", Name: "初来乍到", Desc: "累计活跃度达到 10 分", Target: 10,
		Satisfied: func(st *engagementState) bool { return st.TotalScore >= 10 },
	},
	{
		ID: "rising_star", Name: "崭露头角", Desc: "累计活跃度达到 100 分", Target: 100,
		Satisfied: func(st *engagementState) bool { return st.TotalScore >= 100 },
	},
	{
		ID: "campus_celebrity", Name: "风云人物", Desc: "累计活跃度达到 1000 分", Target: 1000,
		Satisfied: func(st *engagementState) bool { return st.TotalScore >= 1000 },
	},
	{
		ID: "quad_legend", Name: "广场传奇", Desc: "累计活跃度达到 10000 分", Target: 10000,
		Satisfied: func(st *engagementState) bool { return st.TotalScore >= 10000 },
	},
	{
		ID: "week_regular", Name: "七日之约", Desc: "连续登录满 7 天",
		Satisfied: func(st *engagementState) bool { return st.longestStreak(model.StreakTypeLogin) >= 7 },
	},
	{
		ID: "iron_will", Name: "持之以恒", Desc: "连续登录满 30 天",
		Satisfied: func(st *engagementState) bool { return st.longestStreak(model.StreakTypeLogin) >= 30 },
	},
	{
		ID: "prolific_poster", Name: "笔耕不辍", Desc: "连续发帖满 7 天",
		Satisfied: func(st *engagementState) bool { return st.longestStreak(model.StreakTypePost) >= 7 },
	},
	{
		ID: "generous_heart", Name: "赠人玫瑰", Desc: "累计获得 50 颗爱心", Target: 0,
		Satisfied: func(st *engagementState) bool { return st.TotalHearts >= 50 },
	},
}
