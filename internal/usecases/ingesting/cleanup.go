package ingesting

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// CleanupOldJobs removes terminal jobs past the retention window so the job
// table does not grow without bound. Performance data is never touched.
func (s *service) CleanupOldJobs() (int64, error) {
	deleted, err := s.jobs.DeleteTerminalOlderThan(s.cfg.ReportSync.CleanupAfterDays)
	if err != nil {
		return 0, fmt.Errorf("deleting old jobs: %w", err)
	}

	if deleted > 0 {
		logrus.WithFields(logrus.Fields{
			"deleted":        deleted,
			"retention_days": s.cfg.ReportSync.CleanupAfterDays,
		}).Info("ingesting: old jobs cleaned up")
	}
	return deleted, nil
}
