package model

import (
	"time"
)

// WeeklyEngagement 每用户每周活跃度汇总，由定时任务从每日聚合滚算
type WeeklyEngagement struct {
	ID           uint64    `gorm:"primaryKey" json:"id"`
	UserID       uint64    `gorm:"not null;uniqueIndex:idx_user_week" json:"user_id"`
	WeekStart    time.Time `gorm:"type:date;not null;uniqueIndex:idx_user_week;column:week_start" json:"week_start"`
	TotalScore   int64     `gorm:"not null;default:0" json:"total_score"`
	TotalHearts  int64     `gorm:"not null;default:0" json:"total_hearts"`
	ActiveDays   int       `gorm:"not null;default:0" json:"active_days"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (WeeklyEngagement) TableName() string {
	return "weekly_engagements"
}
