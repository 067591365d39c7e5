package dto

// TrackActionDTO 活跃度动作上报请求。IdempotencyKey 由客户端按手势生成，
// 网络重试不会重复发奖
type TrackActionDTO struct {
	Kind           string `json:"kind" binding:"required,oneof=login post story interaction comment reaction heart_given profile_view"`
	Value          int64  `json:"value" binding:"gte=0"` // interaction 类动作的批量条数，其余动作忽略
	IdempotencyKey string `json:"idempotency_key" binding:"max=64"`
}

// RewardDTO 单次发奖结果
type RewardDTO struct {
	Type   string `json:"type"` // hearts / achievement / social_score_boost
	Amount int64  `json:"amount"`
	Reason string `json:"reason"`
}

// TrackActionResultDTO 动作上报返回体
type TrackActionResultDTO struct {
	Rewards []*RewardDTO `json:"rewards"`
}

// StreakDTO 连签状态
type StreakDTO struct {
	StreakType     string `json:"streak_type"`
	CurrentLength  int    `json:"current_length"`
	LongestLength  int    `json:"longest_length"`
	LastExtendedAt string `json:"last_extended_at"`
}

// ThresholdDTO 距离下一档位的进度，供进度条展示
type ThresholdDTO struct {
	Name     string  `json:"name"`
	Target   int64   `json:"target"`
	Current  int64   `json:"current"`
	Progress float64 `json:"progress"` // 百分比，封顶 100
}

// SummaryDTO 活跃度总览。Degraded 为 true 表示部分数据读取失败
type SummaryDTO struct {
	DailyScore        int64         `json:"daily_score"`
	HeartsEarnedToday int64         `json:"hearts_earned_today"`
	TotalScore        int64         `json:"total_score"`
	TotalHearts       int64         `json:"total_hearts"`
	Streaks           []*StreakDTO  `json:"streaks"`
	NextThreshold     *ThresholdDTO `json:"next_threshold,omitempty"`
	Degraded          bool          `json:"degraded"`
}

// LevelDTO 社交等级档位
type LevelDTO struct {
	Name     string `json:"name"`
	MinScore int64  `json:"min_score"`
	MaxScore *int64 `json:"max_score,omitempty"`
}

// UserLevelDTO 用户当前等级及进度
type UserLevelDTO struct {
	Level    *LevelDTO `json:"level"`
	Score    int64     `json:"score"`
	Progress float64   `json:"progress"` // 到下一档位的百分比，最高档恒为 100
}

// AchievementDTO 成就定义及解锁状态
type AchievementDTO struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Desc       string `json:"desc"`
	Unlocked   bool   `json:"unlocked"`
	UnlockedAt string `json:"unlocked_at,omitempty"`
}
