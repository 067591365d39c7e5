package model

import (
	"time"
)

const (
	InteractionView    = "view"
	InteractionLike    = "like"
	InteractionComment = "comment"
	InteractionShare   = "share"
)

// InteractionRecord 用户与帖子的互动流水，只追加不修改
type InteractionRecord struct {
	ID              uint64    `gorm:"primaryKey" json:"id"`
	UserID          uint64    `gorm:"not null;index:idx_user_created" json:"user_id"`
	PostID          uint64    `gorm:"not null;index:idx_post_id" json:"post_id"`
	AuthorID        uint64    `gorm:"not null" json:"author_id"` // 冗余帖子作者，避免亲和度计算回表
	Kind            string    `gorm:"type:varchar(16);not null" json:"kind"`
	DurationSeconds int       `gorm:"not null;default:0" json:"duration_seconds"`
	CreatedAt       time.Time `gorm:"index:idx_user_created" json:"created_at"`
}

func (InteractionRecord) TableName() string {
	return "interaction_records"
}
