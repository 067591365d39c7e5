package repository

import (
	"Quad/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AffinityRepo interface {
	SaveSnapshot(ctx context.Context, data *model.AffinitySnapshot) error
	GetSnapshot(ctx context.Context, userID uint64) (*model.AffinitySnapshot, error)
}

type affinityRepoImpl struct {
	db *gorm.DB
}

func NewAffinityRepo(db *gorm.DB) AffinityRepo {
	return &affinityRepoImpl{db: db}
}

// SaveSnapshot 保存用户的亲和度快照
func (r *affinityRepoImpl) SaveSnapshot(ctx context.Context, data *model.AffinitySnapshot) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"affinities", "updated_at"}),
	}).Create(data).Error
}

// GetSnapshot 根据用户 ID 获取亲和度快照，未找到返回 nil
func (r *affinityRepoImpl) GetSnapshot(ctx context.Context, userID uint64) (*model.AffinitySnapshot, error) {
	var snapshot model.AffinitySnapshot
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&snapshot).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &snapshot, nil
}
