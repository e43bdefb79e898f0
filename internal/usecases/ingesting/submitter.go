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

// SubmitPendingJobs drains a batch of pending jobs through the per-profile
// rate limiter, oldest first. The limiter serves higher-priority jobs ahead
// of lower ones, so a realtime slice submitted after a cold backfill slice
// still goes out first.
func (s *service) SubmitPendingJobs(ctx context.Context) error {
	jobs, err := s.jobs.ListByStatus([]domain.JobStatus{domain.JobStatusPending}, s.cfg.ReportSync.SubmitBatchSize)
	if err != nil {
		return fmt.Errorf("listing pending jobs: %w", err)
	}

	for _, job := range jobs {
		if err := ctx.Err(); err != nil {
			return err
		}

		limiter := s.limiters.For(job.ProfileID)

		var reportID string
		err := limiter.Do(ctx, job.Priority, func() error {
			id, reqErr := s.reporting.RequestReport(ctx, job)
			reportID = id
			return reqErr
		})
		if err != nil {
			if errors.Is(err, ratelimit.ErrStopped) || errors.Is(err, context.Canceled) {
				return err
			}
			if errors.Is(err, ratelimit.ErrQueueFull) {
				// Back off for this tick; the backlog is still pending.
				logrus.WithField("job_id", job.ID).Warn("ingesting: submission queue full")
				return nil
			}
			s.handleSubmitFailure(job, err)
			continue
		}

		if err := s.jobs.MarkSubmitted(job.ID, reportID); err != nil {
			if errors.Is(err, repository.ErrNoTransition) {
				// The job moved out of pending while the request was in
				// flight; whoever moved it owns the report handle now.
				continue
			}
			return fmt.Errorf("marking job %s submitted: %w", job.ID, err)
		}

		logrus.WithFields(logrus.Fields{
			"job_id":    job.ID,
			"report_id": reportID,
			"priority":  job.Priority,
		}).Debug("ingesting: job submitted")
	}
	return nil
}

// handleSubmitFailure applies the retry policy. Credential failures are
// permanent; everything else burns one retry and fails the job once the
// budget is gone.
func (s *service) handleSubmitFailure(job *domain.ReportJob, err error) {
	class := amazondomain.Classify(err)

	fields := logrus.Fields{
		"job_id":      job.ID,
		"account_id":  job.AccountID,
		"error_class": class,
		"retry_count": job.RetryCount,
	}

	if class == amazondomain.ErrorClassUnauthorized {
		logrus.WithFields(fields).WithError(err).Error("ingesting: submission rejected, failing job")
		if markErr := s.jobs.MarkFailed(job.ID, err.Error()); markErr != nil && !errors.Is(markErr, repository.ErrNoTransition) {
			logrus.WithFields(fields).WithError(markErr).Error("ingesting: marking job failed")
		}
		return
	}

	retries, retryErr := s.jobs.IncrementRetry(job.ID, err.Error())
	if retryErr != nil {
		if !errors.Is(retryErr, repository.ErrNoTransition) {
			logrus.WithFields(fields).WithError(retryErr).Error("ingesting: recording retry")
		}
		return
	}

	if retries >= job.MaxRetries {
		logrus.WithFields(fields).WithError(err).Warn("ingesting: retry budget exhausted, failing job")
		if markErr := s.jobs.MarkFailed(job.ID, fmt.Sprintf("retry budget exhausted: %s", err)); markErr != nil && !errors.Is(markErr, repository.ErrNoTransition) {
			logrus.WithFields(fields).WithError(markErr).Error("ingesting: marking job failed")
		}
		return
	}

	logrus.WithFields(fields).WithError(err).Warn("ingesting: submission failed, will retry")
}
