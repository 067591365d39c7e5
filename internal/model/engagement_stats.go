package model

import (
	"time"
)

// EngagementStats 用户生涯累计值，与每日聚合同一把用户锁下更新
type EngagementStats struct {
	UserID      uint64    `gorm:"primaryKey" json:"user_id"`
	TotalScore  int64     `gorm:"not null;default:0" json:"total_score"`
	TotalHearts int64     `gorm:"not null;default:0" json:"total_hearts"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (EngagementStats) TableName() string {
	return "engagement_stats"
}
