package cron

import log "log/slog"

func InitCron(mgr *Manager) error {
	if err := mgr.RegisterJobs(); err != nil {
		return err
	}
	mgr.Start()
	log.Info("Cron 定时任务已注册", "jobs", len(mgr.engine.Entries()))
	return nil
}
