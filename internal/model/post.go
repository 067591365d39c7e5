package model

import (
	"time"
)

const (
	PostVisibilityPublic  int8 = 0
	PostVisibilityFriends int8 = 1
	PostVisibilityPrivate int8 = 2
)

type Post struct {
	ID             uint64    `gorm:"primaryKey" json:"id"`
	UserID         uint64    `gorm:"not null;index:idx_user_id" json:"user_id"`
	Content        string    `gorm:"not null" json:"content"`
	Visibility     int8      `gorm:"not null;default:0" json:"visibility"` // 0:公开, 1:好友可见, 2:私密
	ReactionsCount int       `gorm:"not null;default:0" json:"reactions_count"`
	CommentsCount  int       `gorm:"not null;default:0" json:"comments_count"`
	SharesCount    int       `gorm:"not null;default:0" json:"shares_count"`
	Payload        string    `gorm:"type:json" json:"payload"` // 媒体/投票/集市附件快照，排序不关心其内容
	IsDeleted      bool      `gorm:"type:tinyint(1);not null;default:0" json:"is_deleted"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (Post) TableName() string {
	return "posts"
}
