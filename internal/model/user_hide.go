package model

import (
	"time"
)

const (
	HideTargetPost   int8 = 1
	HideTargetAuthor int8 = 2
)

// UserHide 用户屏蔽的帖子或作者，排序前置过滤使用
type UserHide struct {
	ID         uint64    `gorm:"primaryKey" json:"id"`
	UserID     uint64    `gorm:"not null;uniqueIndex:idx_user_target" json:"user_id"`
	TargetType int8      `gorm:"not null;uniqueIndex:idx_user_target" json:"target_type"` // 1:帖子, 2:作者
	TargetID   uint64    `gorm:"not null;uniqueIndex:idx_user_target" json:"target_id"`
	CreatedAt  time.Time `json:"created_at"`
}

func (UserHide) TableName() string {
	return "user_hides"
}
