package repository

import (
	"Quad/internal/model"
	"context"
	"time"

	"gorm.io/gorm"
)

type InteractionRepo interface {
	CreateRecord(ctx context.Context, record *model.InteractionRecord) error
	GetUserHistory(ctx context.Context, userID uint64, since time.Time, limit int) ([]*model.InteractionRecord, error)
}

type interactionRepoImpl struct {
	db *gorm.DB
}

func NewInteractionRepo(db *gorm.DB) InteractionRepo {
	return &interactionRepoImpl{db: db}
}

// CreateRecord 追加一条互动流水。流水只增不删，重复浏览就是多条记录
func (r *interactionRepoImpl) CreateRecord(ctx context.Context, record *model.InteractionRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

// GetUserHistory 拉取用户近期互动流水，按时间倒序
func (r *interactionRepoImpl) GetUserHistory(ctx context.Context, userID uint64, since time.Time, limit int) ([]*model.InteractionRecord, error) {
	records := make([]*model.InteractionRecord, 0)
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("created_at >= ?", since).
		Order("created_at DESC").
		Limit(limit).
		Find(&records)
	if result.Error != nil {
		return nil, result.Error
	}
	return records, nil
}
