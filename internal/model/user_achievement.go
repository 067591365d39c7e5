package model

import (
	"time"
)

// UserAchievement 已解锁成就。唯一索引保证解锁幂等，成就一旦授予不撤销
type UserAchievement struct {
	ID            uint64    `gorm:"primaryKey" json:"id"`
	UserID        uint64    `gorm:"not null;uniqueIndex:idx_user_achievement" json:"user_id"`
	AchievementID string    `gorm:"type:varchar(64);not null;uniqueIndex:idx_user_achievement" json:"achievement_id"`
	UnlockedAt    time.Time `json:"unlocked_at"`
}

func (UserAchievement) TableName() string {
	return "user_achievements"
}
