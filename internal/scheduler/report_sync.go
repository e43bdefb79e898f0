package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"github.com/tuobayong1988/amazon-ads-optimizer-sub009/internal/config"
	"github.com/tuobayong1988/amazon-ads-optimizer-sub009/internal/usecases/ingesting"
	"github.com/tuobayong1988/amazon-ads-optimizer-sub009/internal/usecases/syncing"
)

// ReportSyncService owns the ingestion timers: the three worker ticks, the
// nightly cleanup and the nightly planning pass. It can also be driven
// manually through the control surface.
type ReportSyncService struct {
	cfg       *config.Config
	ingestSvc ingesting.Service
	syncSvc   syncing.Service

	mu        sync.Mutex
	scheduler *gocron.Scheduler
	running   bool
	startedAt time.Time
}

func NewReportSyncService(cfg *config.Config, ingestSvc ingesting.Service, syncSvc syncing.Service) *ReportSyncService {
	return &ReportSyncService{
		cfg:       cfg,
		ingestSvc: ingestSvc,
		syncSvc:   syncSvc,
	}
}

// Start registers the timers and launches them. Calling Start on a running
// service is a no-op. The timers stop when ctx is cancelled.
func (s *ReportSyncService) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		logrus.Warn("scheduler: already running, ignoring start")
		return nil
	}
	if !s.cfg.ReportSync.Enabled {
		logrus.Info("scheduler: report sync disabled by configuration")
		return nil
	}

	sched := gocron.NewScheduler(time.Local)

	if _, err := sched.Every(s.cfg.ReportSync.SubmitIntervalSeconds).Seconds().Do(func() {
		if err := s.ingestSvc.SubmitPendingJobs(ctx); err != nil && ctx.Err() == nil {
			logrus.WithError(err).Error("scheduler: submit tick failed")
		}
	}); err != nil {
		return fmt.Errorf("scheduling submit tick: %w", err)
	}

	if _, err := sched.Every(s.cfg.ReportSync.CheckIntervalSeconds).Seconds().Do(func() {
		if err := s.ingestSvc.CheckSubmittedJobs(ctx); err != nil && ctx.Err() == nil {
			logrus.WithError(err).Error("scheduler: check tick failed")
		}
	}); err != nil {
		return fmt.Errorf("scheduling check tick: %w", err)
	}

	if _, err := sched.Every(s.cfg.ReportSync.ProcessIntervalSeconds).Seconds().Do(func() {
		if err := s.ingestSvc.ProcessCompletedReports(ctx); err != nil && ctx.Err() == nil {
			logrus.WithError(err).Error("scheduler: process tick failed")
		}
	}); err != nil {
		return fmt.Errorf("scheduling process tick: %w", err)
	}

	if _, err := sched.Cron(s.cfg.ReportSync.CleanupCron).Do(func() {
		if _, err := s.ingestSvc.CleanupOldJobs(); err != nil {
			logrus.WithError(err).Error("scheduler: cleanup failed")
		}
	}); err != nil {
		return fmt.Errorf("scheduling cleanup: %w", err)
	}

	if _, err := sched.Cron(s.cfg.ReportSync.SyncPassCron).Do(func() {
		if err := s.syncSvc.RunPassForAllAccounts(ctx); err != nil && ctx.Err() == nil {
			logrus.WithError(err).Error("scheduler: sync pass failed")
		}
	}); err != nil {
		return fmt.Errorf("scheduling sync pass: %w", err)
	}

	sched.StartAsync()
	s.scheduler = sched
	s.running = true
	s.startedAt = time.Now()

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	logrus.WithFields(logrus.Fields{
		"submit_interval_s":  s.cfg.ReportSync.SubmitIntervalSeconds,
		"check_interval_s":   s.cfg.ReportSync.CheckIntervalSeconds,
		"process_interval_s": s.cfg.ReportSync.ProcessIntervalSeconds,
		"cleanup_cron":       s.cfg.ReportSync.CleanupCron,
		"sync_pass_cron":     s.cfg.ReportSync.SyncPassCron,
	}).Info("scheduler: report sync started")
	return nil
}

// Stop halts the timers. Safe to call when not running.
func (s *ReportSyncService) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}
	s.scheduler.Stop()
	s.scheduler = nil
	s.running = false

	logrus.Info("scheduler: report sync stopped")
}

// RunOnce drives one full submit/check/process cycle synchronously. Used by
// the control surface to push work through without waiting for timers.
func (s *ReportSyncService) RunOnce(ctx context.Context) error {
	if err := s.ingestSvc.SubmitPendingJobs(ctx); err != nil {
		return fmt.Errorf("submitting: %w", err)
	}
	if err := s.ingestSvc.CheckSubmittedJobs(ctx); err != nil {
		return fmt.Errorf("checking: %w", err)
	}
	if err := s.ingestSvc.ProcessCompletedReports(ctx); err != nil {
		return fmt.Errorf("processing: %w", err)
	}
	return nil
}

// RunJob triggers a single stage by name.
func (s *ReportSyncService) RunJob(ctx context.Context, name string) error {
	switch name {
	case "submit":
		return s.ingestSvc.SubmitPendingJobs(ctx)
	case "check":
		return s.ingestSvc.CheckSubmittedJobs(ctx)
	case "process":
		return s.ingestSvc.ProcessCompletedReports(ctx)
	case "cleanup":
		_, err := s.ingestSvc.CleanupOldJobs()
		return err
	case "sync", "sync-pass":
		return s.syncSvc.RunPassForAllAccounts(ctx)
	case "all":
		if err := s.syncSvc.RunPassForAllAccounts(ctx); err != nil {
			return fmt.Errorf("sync pass: %w", err)
		}
		return s.RunOnce(ctx)
	default:
		return fmt.Errorf("unknown job %q", name)
	}
}

// GetStatus reports the scheduler's state for the control surface.
func (s *ReportSyncService) GetStatus() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := map[string]any{
		"running": s.running,
		"enabled": s.cfg.ReportSync.Enabled,
	}
	if s.running {
		status["started_at"] = s.startedAt.Format(time.RFC3339)
		status["jobs"] = len(s.scheduler.Jobs())
	}
	return status
}
