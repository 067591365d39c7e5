package repository

import (
	"Quad/internal/model"
	"context"
	"errors"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

type UserHideRepo interface {
	CreateHide(ctx context.Context, hide *model.UserHide) error
	DeleteHide(ctx context.Context, userID uint64, targetType int8, targetID uint64) error
	GetHiddenIDs(ctx context.Context, userID uint64, targetType int8) ([]uint64, error)
}

type userHideRepoImpl struct {
	db *gorm.DB
}

func NewUserHideRepo(db *gorm.DB) UserHideRepo {
	return &userHideRepoImpl{db: db}
}

// CreateHide 记录屏蔽，重复屏蔽静默幂等
func (r *userHideRepoImpl) CreateHide(ctx context.Context, hide *model.UserHide) error {
	err := r.db.WithContext(ctx).Create(hide).Error
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry {
			return nil
		}
		return err
	}
	return nil
}

func (r *userHideRepoImpl) DeleteHide(ctx context.Context, userID uint64, targetType int8, targetID uint64) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND target_type = ? AND target_id = ?", userID, targetType, targetID).
		Delete(&model.UserHide{}).Error
}

// GetHiddenIDs 获取用户屏蔽的目标 ID 集合，排序前置过滤使用
func (r *userHideRepoImpl) GetHiddenIDs(ctx context.Context, userID uint64, targetType int8) ([]uint64, error) {
	ids := make([]uint64, 0)
	result := r.db.WithContext(ctx).
		Model(&model.UserHide{}).
		Where("user_id = ? AND target_type = ?", userID, targetType).
		Pluck("target_id", &ids)
	if result.Error != nil {
		return nil, result.Error
	}
	return ids, nil
}
