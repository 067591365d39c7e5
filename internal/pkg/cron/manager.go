package cron

import (
	"Quad/internal/job"
	log "log/slog"

	"github.com/robfig/cron/v3"
)

type Manager struct {
	engine              *cron.Cron
	affinitySnapshotJob *job.AffinitySnapshotJob
	weeklyRollupJob     *job.WeeklyRollupJob
}

func NewCronManager(affinitySnapshotJob *job.AffinitySnapshotJob, weeklyRollupJob *job.WeeklyRollupJob) *Manager {
	return &Manager{
		engine:              cron.New(cron.WithSeconds()),
		affinitySnapshotJob: affinitySnapshotJob,
		weeklyRollupJob:     weeklyRollupJob,
	}
}

// RegisterJobs 注册定时任务
func (s *Manager) RegisterJobs() error {
	// 亲和度快照每小时回刷，周汇总每天滚算一次
	if _, err := s.engine.AddJob("@hourly", s.affinitySnapshotJob); err != nil {
		return err
	}
	if _, err := s.engine.AddJob("@daily", s.weeklyRollupJob); err != nil {
		return err
	}
	return nil
}

func (s *Manager) Start() {
	log.Info("Cron 定时任务引擎启动")
	s.engine.Start()
}

func (s *Manager) Stop() {
	log.Info("Cron 定时任务引擎停止")
	s.engine.Stop()
}
