package ingesting

import (
	"context"
	"time"

	"github.com/tuobayong1988/amazon-ads-optimizer-sub009/infrastructure/integrator/amazon"
	"github.com/tuobayong1988/amazon-ads-optimizer-sub009/infrastructure/repository"
	"github.com/tuobayong1988/amazon-ads-optimizer-sub009/internal/config"
	"github.com/tuobayong1988/amazon-ads-optimizer-sub009/pkg/ratelimit"
)

// Service runs the three ingestion stages. Each stage is a separate tick so
// a slow download never blocks report submission, and every stage is safe to
// re-run: state transitions are guarded in the store and report processing
// is claimed exactly once.
type Service interface {
	SubmitPendingJobs(ctx context.Context) error
	CheckSubmittedJobs(ctx context.Context) error
	ProcessCompletedReports(ctx context.Context) error
	CleanupOldJobs() (int64, error)
}

type service struct {
	cfg       *config.Config
	jobs      repository.ReportJobRepository
	campaigns repository.CampaignRepository
	perf      repository.PerformanceRepository
	reporting amazon.ReportingAPI
	limiters  *ratelimit.Registry
	now       func() time.Time
}

func NewService(
	cfg *config.Config,
	jobs repository.ReportJobRepository,
	campaigns repository.CampaignRepository,
	perf repository.PerformanceRepository,
	reporting amazon.ReportingAPI,
	limiters *ratelimit.Registry,
) Service {
	return &service{
		cfg:       cfg,
		jobs:      jobs,
		campaigns: campaigns,
		perf:      perf,
		reporting: reporting,
		limiters:  limiters,
		now:       time.Now,
	}
}

// reportTimeout is how long a submitted report may stay unfinished on the
// vendor side before the job expires.
func (s *service) reportTimeout() time.Duration {
	return time.Duration(s.cfg.ReportSync.ReportTimeoutMinutes) * time.Minute
}
