package repository

import (
	"Quad/internal/model"
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EngagementStatsRepo interface {
	Get(ctx context.Context, userID uint64) (*model.EngagementStats, error)
	// AddDeltas 生涯累计值原子自增，不存在时先建行
	AddDeltas(ctx context.Context, userID uint64, scoreDelta, heartsDelta int64) error
}

type engagementStatsRepoImpl struct {
	db *gorm.DB
}

func NewEngagementStatsRepo(db *gorm.DB) EngagementStatsRepo {
	return &engagementStatsRepoImpl{db: db}
}

// Get 获取生涯累计，未找到返回零值行
func (r *engagementStatsRepoImpl) Get(ctx context.Context, userID uint64) (*model.EngagementStats, error) {
	var stats model.EngagementStats
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Limit(1).
		Find(&stats).Error
	if err != nil {
		return nil, err
	}
	if stats.UserID == 0 {
		return &model.EngagementStats{UserID: userID}, nil
	}
	return &stats, nil
}

// AddDeltas Upsert + 数据库级自增，同一用户并发动作不丢更新
func (r *engagementStatsRepoImpl) AddDeltas(ctx context.Context, userID uint64, scoreDelta, heartsDelta int64) error {
	stats := &model.EngagementStats{
		UserID:      userID,
		TotalScore:  scoreDelta,
		TotalHearts: heartsDelta,
		UpdatedAt:   time.Now(),
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"total_score":  gorm.Expr("total_score + ?", scoreDelta),
			"total_hearts": gorm.Expr("total_hearts + ?", heartsDelta),
			"updated_at":   time.Now(),
		}),
	}).Create(stats).Error
}
