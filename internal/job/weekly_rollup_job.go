package job

import (
	"Quad/internal/model"
	"Quad/internal/pkg/logger"
	"Quad/internal/repository"
	"context"
	log "log/slog"
	"time"

	"github.com/google/uuid"
)

// WeeklyRollupJob 把每日活跃度聚合滚算成周汇总，周一为一周之始
type WeeklyRollupJob struct {
	dailyRepo  repository.DailyEngagementRepo
	weeklyRepo repository.WeeklyEngagementRepo
}

func NewWeeklyRollupJob(dailyRepo repository.DailyEngagementRepo, weeklyRepo repository.WeeklyEngagementRepo) *WeeklyRollupJob {
	return &WeeklyRollupJob{
		dailyRepo:  dailyRepo,
		weeklyRepo: weeklyRepo,
	}
}

func (s *WeeklyRollupJob) Run() {
	traceID := "job-weekly-" + uuid.NewString()
	ctx := context.WithValue(context.Background(), logger.TraceIDKey, traceID)

	weekStart := weekStartOf(time.Now())
	weekEnd := weekStart.AddDate(0, 0, 6)

	rows, err := s.dailyRepo.ListByDateRange(ctx, weekStart, weekEnd)
	if err != nil {
		log.ErrorContext(ctx, "list daily engagements error", "err", err)
		return
	}

	type rollup struct {
		score      int64
		hearts     int64
		activeDays int
	}
	byUser := make(map[uint64]*rollup)
	for _, row := range rows {
		r, ok := byUser[row.UserID]
		if !ok {
			r = &rollup{}
			byUser[row.UserID] = r
		}
		r.score += row.Score
		r.hearts += row.HeartsEarned
		if row.Score > 0 || row.HeartsEarned > 0 {
			r.activeDays++
		}
	}

	log.InfoContext(ctx, "WeeklyRollupJob processing", "week_start", weekStart.Format("2006-01-02"), "user_count", len(byUser))

	saved := 0
	for uid, r := range byUser {
		err := s.weeklyRepo.SaveOrUpdate(ctx, &model.WeeklyEngagement{
			UserID:      uid,
			WeekStart:   weekStart,
			TotalScore:  r.score,
			TotalHearts: r.hearts,
			ActiveDays:  r.activeDays,
		})
		if err != nil {
			log.ErrorContext(ctx, "save weekly engagement error", "uid", uid, "err", err)
			continue
		}
		saved++
	}

	log.InfoContext(ctx, "WeeklyRollupJob finished", "saved_count", saved)
}

// weekStartOf 所在周的周一零点
func weekStartOf(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}
