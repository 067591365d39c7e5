package repository

import (
	"Quad/internal/model"
	"context"
	"errors"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

const mysqlDuplicateEntry = 1062

type AchievementRepo interface {
	GetUnlockedIDs(ctx context.Context, userID uint64) (map[string]*model.UserAchievement, error)
	// Unlock 解锁成就。唯一索引兜底幂等，重复解锁返回 ErrAlreadyUnlocked
	Unlock(ctx context.Context, ua *model.UserAchievement) error
}

// ErrAlreadyUnlocked 成就已被解锁过
var ErrAlreadyUnlocked = errors.New("achievement already unlocked")

type achievementRepoImpl struct {
	db *gorm.DB
}

func NewAchievementRepo(db *gorm.DB) AchievementRepo {
	return &achievementRepoImpl{db: db}
}

// GetUnlockedIDs 获取用户已解锁成就，按成就 ID 索引
func (r *achievementRepoImpl) GetUnlockedIDs(ctx context.Context, userID uint64) (map[string]*model.UserAchievement, error) {
	rows := make([]*model.UserAchievement, 0)
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&rows)
	if result.Error != nil {
		return nil, result.Error
	}

	unlocked := make(map[string]*model.UserAchievement, len(rows))
	for _, row := range rows {
		unlocked[row.AchievementID] = row
	}
	return unlocked, nil
}

func (r *achievementRepoImpl) Unlock(ctx context.Context, ua *model.UserAchievement) error {
	err := r.db.WithContext(ctx).Create(ua).Error
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry {
			return ErrAlreadyUnlocked
		}
		return err
	}
	return nil
}
