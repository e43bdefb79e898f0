package ingesting

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	amazondomain "github.com/tuobayong1988/amazon-ads-optimizer-sub009/infrastructure/integrator/amazon/domain"
	"github.com/tuobayong1988/amazon-ads-optimizer-sub009/infrastructure/repository"
	"github.com/tuobayong1988/amazon-ads-optimizer-sub009/internal/domain"
	"github.com/tuobayong1988/amazon-ads-optimizer-sub009/pkg/ratelimit"
)

// CheckSubmittedJobs polls the vendor for every in-flight report. Polls go
// through the same per-profile limiter as submissions since they spend the
// same API quota.
func (s *service) CheckSubmittedJobs(ctx context.Context) error {
	jobs, err := s.jobs.ListByStatus(
		[]domain.JobStatus{domain.JobStatusSubmitted, domain.JobStatusProcessing},
		s.cfg.ReportSync.CheckBatchSize,
	)
	if err != nil {
		return fmt.Errorf("listing submitted jobs: %w", err)
	}

	for _, job := range jobs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.checkJob(ctx, job); err != nil {
			if errors.Is(err, ratelimit.ErrStopped) || errors.Is(err, context.Canceled) {
				return err
			}
			logrus.WithField("job_id", job.ID).WithError(err).Error("ingesting: status check failed")
		}
	}
	return nil
}

func (s *service) checkJob(ctx context.Context, job *domain.ReportJob) error {
	limiter := s.limiters.For(job.ProfileID)

	var status *amazondomain.ReportStatus
	err := limiter.Do(ctx, job.Priority, func() error {
		st, pollErr := s.reporting.GetReportStatus(ctx, job.ProfileID, job.ExternalReportID)
		status = st
		return pollErr
	})
	if err != nil {
		if errors.Is(err, ratelimit.ErrStopped) || errors.Is(err, context.Canceled) || errors.Is(err, ratelimit.ErrQueueFull) {
			return err
		}
		if amazondomain.Classify(err) == amazondomain.ErrorClassUnauthorized {
			return s.transition(job.ID, func() error { return s.jobs.MarkFailed(job.ID, err.Error()) })
		}
		// Transient poll failure: the job stays where it is and may still
		// time out below.
		logrus.WithFields(logrus.Fields{
			"job_id":      job.ID,
			"error_class": amazondomain.Classify(err),
		}).WithError(err).Warn("ingesting: poll failed, will retry next tick")
		return s.expireIfOverdue(job)
	}

	switch status.State {
	case amazondomain.ReportStateCompleted:
		return s.transition(job.ID, func() error { return s.jobs.MarkCompleted(job.ID, status.URL) })
	case amazondomain.ReportStateFailed:
		reason := status.FailureReason
		if reason == "" {
			reason = "report generation failed"
		}
		return s.transition(job.ID, func() error { return s.jobs.MarkFailed(job.ID, reason) })
	default:
		if expired, err := s.overdue(job); expired || err != nil {
			return err
		}
		// Still building on the vendor side.
		return s.transition(job.ID, func() error { return s.jobs.MarkProcessing(job.ID) })
	}
}

// expireIfOverdue expires the job when it has been in flight longer than the
// report timeout.
func (s *service) expireIfOverdue(job *domain.ReportJob) error {
	_, err := s.overdue(job)
	return err
}

func (s *service) overdue(job *domain.ReportJob) (bool, error) {
	since := job.CreatedAt
	if job.SubmittedAt != nil {
		since = *job.SubmittedAt
	}
	if s.now().Sub(since) < s.reportTimeout() {
		return false, nil
	}

	logrus.WithFields(logrus.Fields{
		"job_id":       job.ID,
		"submitted_at": since,
	}).Warn("ingesting: report timed out, expiring job")
	return true, s.transition(job.ID, func() error {
		return s.jobs.MarkExpired(job.ID, "report generation timed out")
	})
}

// transition runs a guarded status update and swallows lost races: a
// concurrent tick that already moved the job is not an error.
func (s *service) transition(jobID string, update func() error) error {
	if err := update(); err != nil && !errors.Is(err, repository.ErrNoTransition) {
		return fmt.Errorf("updating job %s: %w", jobID, err)
	}
	return nil
}
