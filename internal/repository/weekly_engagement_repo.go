package repository

import (
	"Quad/internal/model"
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WeeklyEngagementRepo interface {
	SaveOrUpdate(ctx context.Context, row *model.WeeklyEngagement) error
}

type weeklyEngagementRepoImpl struct {
	db *gorm.DB
}

func NewWeeklyEngagementRepo(db *gorm.DB) WeeklyEngagementRepo {
	return &weeklyEngagementRepoImpl{db: db}
}

// SaveOrUpdate 采用 Upsert 逻辑。user_id + week_start 已存在则更新汇总值
func (r *weeklyEngagementRepoImpl) SaveOrUpdate(ctx context.Context, row *model.WeeklyEngagement) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "week_start"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"total_score",
			"total_hearts",
			"active_days",
			"updated_at",
		}),
	}).Create(row).Error
}
