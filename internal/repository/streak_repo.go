package repository

import (
	"Quad/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type StreakRepo interface {
	GetByUserAndType(ctx context.Context, userID uint64, streakType string) (*model.Streak, error)
	GetByUser(ctx context.Context, userID uint64) ([]*model.Streak, error)
	SaveOrUpdate(ctx context.Context, streak *model.Streak) error
}

type streakRepoImpl struct {
	db *gorm.DB
}

func NewStreakRepo(db *gorm.DB) StreakRepo {
	return &streakRepoImpl{db: db}
}

// GetByUserAndType 获取指定类型的连签状态，未找到返回 nil
func (r *streakRepoImpl) GetByUserAndType(ctx context.Context, userID uint64, streakType string) (*model.Streak, error) {
	var streak model.Streak
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND streak_type = ?", userID, streakType).
		First(&streak).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &streak, nil
}

// GetByUser 获取用户的全部连签状态
func (r *streakRepoImpl) GetByUser(ctx context.Context, userID uint64) ([]*model.Streak, error) {
	streaks := make([]*model.Streak, 0)
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("streak_type ASC").
		Find(&streaks)
	if result.Error != nil {
		return nil, result.Error
	}
	return streaks, nil
}

// SaveOrUpdate 采用 Upsert 逻辑。user_id + streak_type 已存在则更新计数与日期
func (r *streakRepoImpl) SaveOrUpdate(ctx context.Context, streak *model.Streak) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "streak_type"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"current_length",
			"longest_length",
			"last_extended_at",
			"updated_at",
		}),
	}).Create(streak).Error
}
