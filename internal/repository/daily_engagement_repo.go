package repository

import (
	"Quad/internal/model"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DailyEngagementRepo interface {
	GetOrCreate(ctx context.Context, userID uint64, date time.Time) (*model.DailyEngagement, error)
	GetByUserAndDate(ctx context.Context, userID uint64, date time.Time) (*model.DailyEngagement, error)
	// UpdateWithVersion 带乐观锁写回，版本不匹配时返回 false
	UpdateWithVersion(ctx context.Context, row *model.DailyEngagement) (bool, error)
	ListByDateRange(ctx context.Context, from, to time.Time) ([]*model.DailyEngagement, error)
}

type dailyEngagementRepoImpl struct {
	db *gorm.DB
}

func NewDailyEngagementRepo(db *gorm.DB) DailyEngagementRepo {
	return &dailyEngagementRepoImpl{db: db}
}

// GetOrCreate 当日首个动作建行，其后复用。建行冲突时读已存在的行
func (r *dailyEngagementRepoImpl) GetOrCreate(ctx context.Context, userID uint64, date time.Time) (*model.DailyEngagement, error) {
	row := &model.DailyEngagement{
		UserID:     userID,
		MetricDate: date,
		Journal:    model.ActionJournal{},
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "metric_date"}},
		DoNothing: true,
	}).Create(row).Error
	if err != nil {
		return nil, err
	}

	return r.GetByUserAndDate(ctx, userID, date)
}

// GetByUserAndDate 获取指定日的聚合行，未找到返回 nil
func (r *dailyEngagementRepoImpl) GetByUserAndDate(ctx context.Context, userID uint64, date time.Time) (*model.DailyEngagement, error) {
	var row model.DailyEngagement
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND metric_date = ?", userID, date).
		First(&row).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// UpdateWithVersion 条件更新：只有版本号仍是读取时的值才写回，防止并发丢更新
func (r *dailyEngagementRepoImpl) UpdateWithVersion(ctx context.Context, row *model.DailyEngagement) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&model.DailyEngagement{}).
		Where("id = ? AND version = ?", row.ID, row.Version).
		Updates(map[string]interface{}{
			"score":         row.Score,
			"hearts_earned": row.HeartsEarned,
			"journal":       row.Journal,
			"version":       row.Version + 1,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ListByDateRange 按日期区间拉取全量聚合行，周汇总任务使用
func (r *dailyEngagementRepoImpl) ListByDateRange(ctx context.Context, from, to time.Time) ([]*model.DailyEngagement, error) {
	rows := make([]*model.DailyEngagement, 0)
	result := r.db.WithContext(ctx).
		Where("metric_date >= ? AND metric_date < ?", from, to).
		Order("user_id ASC, metric_date ASC").
		Find(&rows)
	if result.Error != nil {
		return nil, result.Error
	}
	return rows, nil
}
