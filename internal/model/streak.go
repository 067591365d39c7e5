package model

import (
	"time"
)

const (
	StreakTypeLogin = "login"
	StreakTypePost  = "post"
)

// Streak 连续行为计数。CurrentLength 断签后重置为 1 而非 0，
// LongestLength 只增不减
type Streak struct {
	ID             uint64    `gorm:"primaryKey" json:"id"`
	UserID         uint64    `gorm:"not null;uniqueIndex:idx_user_type" json:"user_id"`
	StreakType     string    `gorm:"type:varchar(16);not null;uniqueIndex:idx_user_type" json:"streak_type"`
	CurrentLength  int       `gorm:"not null;default:0" json:"current_length"`
	LongestLength  int       `gorm:"not null;default:0" json:"longest_length"`
	LastExtendedAt time.Time `gorm:"type:date;not null;column:last_extended_at" json:"last_extended_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (Streak) TableName() string {
	return "streaks"
}
