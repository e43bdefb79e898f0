package syncing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/tuobayong1988/amazon-ads-optimizer-sub009/infrastructure/repository"
	"github.com/tuobayong1988/amazon-ads-optimizer-sub009/internal/config"
	"github.com/tuobayong1988/amazon-ads-optimizer-sub009/internal/domain"
	"github.com/tuobayong1988/amazon-ads-optimizer-sub009/pkg/utils"
)

var (
	ErrAccountNotFound = errors.New("account not found")
	ErrJobNotFound     = errors.New("report job not found")
)

// Service plans report jobs per account. Each pass looks at the account's
// sync state and either continues the historical backfill or schedules the
// daily incremental set.
type Service interface {
	RunPassForAllAccounts(ctx context.Context) error
	RunPass(ctx context.Context, account *domain.AdAccount) error
	CreateJobsForAccount(accountID string, dateRange *domain.DateRange, tierSweep bool) (int, error)
	GetSyncStats(accountID string) (*domain.SyncStats, error)
	RetryFailedJobs(accountID string) (int, error)
	GetJob(jobID string) (*domain.ReportJob, error)
	ListJobs(accountID string, limit int) ([]*domain.ReportJob, error)
}

type service struct {
	cfg      *config.Config
	jobs     repository.ReportJobRepository
	states   repository.SyncStateRepository
	accounts repository.AccountRepository
	now      func() time.Time
}

func NewService(
	cfg *config.Config,
	jobs repository.ReportJobRepository,
	states repository.SyncStateRepository,
	accounts repository.AccountRepository,
) Service {
	return &service{
		cfg:      cfg,
		jobs:     jobs,
		states:   states,
		accounts: accounts,
		now:      time.Now,
	}
}

func (s *service) RunPassForAllAccounts(ctx context.Context) error {
	accounts, err := s.accounts.ListAccounts([]domain.AdAccountStatus{domain.AdAccountStatusActive})
	if err != nil {
		return fmt.Errorf("listing accounts: %w", err)
	}

	for _, account := range accounts {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.RunPass(ctx, account); err != nil {
			logrus.WithFields(logrus.Fields{
				"account_id": account.ID,
			}).WithError(err).Error("syncing: pass failed for account")
		}
	}
	return nil
}

// RunPass is the sync-mode selector. An account without state starts in
// initialization mode; once its backfill drains it flips to incremental and
// never goes back.
func (s *service) RunPass(ctx context.Context, account *domain.AdAccount) error {
	state, err := s.states.Get(account.ID)
	if err != nil {
		return fmt.Errorf("loading sync state: %w", err)
	}
	if state == nil {
		state = &domain.SyncState{
			AccountID: account.ID,
			Mode:      domain.SyncModeInitialization,
		}
		if err := s.states.SaveOrUpdate(state); err != nil {
			return fmt.Errorf("creating sync state: %w", err)
		}
	}

	if !state.BackfillCompleted {
		return s.runInitializationPass(account)
	}
	return s.runIncrementalPass(account, state)
}

// runInitializationPass keeps the tiered backfill topped up. When every
// backfill job has reached a terminal state the account flips to
// incremental mode; job planning is idempotent, so re-running a pass while
// jobs are still in flight adds nothing.
func (s *service) runInitializationPass(account *domain.AdAccount) error {
	counts, err := s.jobs.CountByStatus(account.ID)
	if err != nil {
		return fmt.Errorf("counting jobs: %w", err)
	}

	total := 0
	for _, c := range counts {
		total += c
	}
	active := counts[domain.JobStatusPending] +
		counts[domain.JobStatusSubmitted] +
		counts[domain.JobStatusProcessing]

	if total > 0 && active == 0 {
		if err := s.states.MarkBackfillCompleted(account.ID, s.now()); err != nil {
			return fmt.Errorf("marking backfill completed: %w", err)
		}
		logrus.WithFields(logrus.Fields{
			"account_id": account.ID,
			"total_jobs": total,
		}).Info("syncing: backfill completed, switching to incremental mode")
		return nil
	}

	today := utils.Midnight(s.now())
	planned := make([]*domain.ReportJob, 0, 256)
	for _, policy := range TieredPolicies {
		planned = append(planned, s.planTier(account, policy, today)...)
	}

	created, err := s.createMissing(account.ID, planned)
	if err != nil {
		return err
	}
	if created > 0 {
		logrus.WithFields(logrus.Fields{
			"account_id": account.ID,
			"created":    created,
		}).Info("syncing: backfill jobs planned")
	}
	return nil
}

// runIncrementalPass schedules yesterday's reports plus an attribution
// re-walk. Conversion metrics keep moving until the product's attribution
// window closes, so recent days are re-fetched: the full window every
// FullAttributionFrequency days, a shallow check otherwise.
func (s *service) runIncrementalPass(account *domain.AdAccount, state *domain.SyncState) error {
	now := s.now()
	today := utils.Midnight(now)
	yesterday := today.AddDate(0, 0, -1)

	planned := make([]*domain.ReportJob, 0, 32)
	for _, product := range domain.AllAdProducts {
		for _, reportType := range domain.ReportTypesFor(product) {
			planned = append(planned, s.newJob(account, product, reportType,
				domain.DateRange{StartDate: yesterday, EndDate: yesterday},
				domain.TierRealtime, domain.PriorityCritical))
		}
	}

	frequency := time.Duration(s.cfg.SyncPlan.FullAttributionFrequency) * 24 * time.Hour
	fullWalk := state.LastFullWalkAt == nil || now.Sub(*state.LastFullWalkAt) >= frequency

	if fullWalk {
		for _, product := range domain.AllAdProducts {
			walk := domain.DateRange{
				StartDate: today.AddDate(0, 0, -product.AttributionWindowDays()),
				EndDate:   yesterday,
			}
			for _, reportType := range domain.ReportTypesFor(product) {
				planned = append(planned, s.newJob(account, product, reportType,
					walk, domain.TierHot, domain.PriorityHigh))
			}
		}
	} else {
		shallow := domain.DateRange{
			StartDate: today.AddDate(0, 0, -s.cfg.SyncPlan.ShallowCheckDays),
			EndDate:   yesterday,
		}
		for _, product := range domain.AllAdProducts {
			planned = append(planned, s.newJob(account, product, domain.ReportTypeCampaign,
				shallow, domain.TierHot, domain.PriorityHigh))
		}
	}

	created, err := s.createMissing(account.ID, planned)
	if err != nil {
		return err
	}

	if fullWalk {
		if err := s.states.SetLastFullWalk(account.ID, now); err != nil {
			return fmt.Errorf("recording full walk: %w", err)
		}
	}

	logrus.WithFields(logrus.Fields{
		"account_id": account.ID,
		"created":    created,
		"full_walk":  fullWalk,
	}).Info("syncing: incremental jobs planned")
	return nil
}

// CreateJobsForAccount serves the control surface: either an explicit date
// range at every granularity, or the legacy per-product tier sweep.
func (s *service) CreateJobsForAccount(accountID string, dateRange *domain.DateRange, tierSweep bool) (int, error) {
	account, err := s.accounts.GetAccountByID(accountID)
	if err != nil {
		return 0, fmt.Errorf("loading account: %w", err)
	}
	if account == nil {
		return 0, ErrAccountNotFound
	}

	today := utils.Midnight(s.now())
	var planned []*domain.ReportJob

	switch {
	case tierSweep:
		for _, policy := range LegacyPolicies {
			planned = append(planned, s.planTier(account, policy, today)...)
		}
	case dateRange != nil:
		rng := domain.DateRange{
			StartDate: utils.Midnight(dateRange.StartDate),
			EndDate:   utils.Midnight(dateRange.EndDate),
		}
		if rng.EndDate.Before(rng.StartDate) {
			return 0, fmt.Errorf("invalid date range %s", rng)
		}
		for _, product := range domain.AllAdProducts {
			for _, reportType := range domain.ReportTypesFor(product) {
				planned = append(planned, s.newJob(account, product, reportType,
					rng, domain.TierHot, domain.PriorityHigh))
			}
		}
	default:
		return 0, errors.New("either a date range or a tier sweep is required")
	}

	return s.createMissing(account.ID, planned)
}

func (s *service) GetSyncStats(accountID string) (*domain.SyncStats, error) {
	account, err := s.accounts.GetAccountByID(accountID)
	if err != nil {
		return nil, fmt.Errorf("loading account: %w", err)
	}
	if account == nil {
		return nil, ErrAccountNotFound
	}

	mode := domain.SyncModeInitialization
	state, err := s.states.Get(accountID)
	if err != nil {
		return nil, fmt.Errorf("loading sync state: %w", err)
	}
	if state != nil {
		mode = state.Mode
	}

	counts, err := s.jobs.CountByStatus(accountID)
	if err != nil {
		return nil, fmt.Errorf("counting jobs: %w", err)
	}

	daily := 0
	for _, product := range domain.AllAdProducts {
		daily += len(domain.ReportTypesFor(product))
	}

	return &domain.SyncStats{
		AccountID: accountID,
		Mode:      mode,
		PendingTasks: counts[domain.JobStatusPending] +
			counts[domain.JobStatusSubmitted] +
			counts[domain.JobStatusProcessing],
		CompletedTasks:      counts[domain.JobStatusCompleted],
		FailedTasks:         counts[domain.JobStatusFailed] + counts[domain.JobStatusExpired],
		EstimatedDailyTasks: daily,
	}, nil
}

// RetryFailedJobs is the explicit operator retry. Jobs that recorded failed
// sub-ranges get fresh jobs covering only those ranges; jobs without range
// bookkeeping are reopened whole.
func (s *service) RetryFailedJobs(accountID string) (int, error) {
	account, err := s.accounts.GetAccountByID(accountID)
	if err != nil {
		return 0, fmt.Errorf("loading account: %w", err)
	}
	if account == nil {
		return 0, ErrAccountNotFound
	}

	jobs, err := s.jobs.ListByAccount(accountID, 0)
	if err != nil {
		return 0, fmt.Errorf("listing jobs: %w", err)
	}

	retried := 0
	var planned []*domain.ReportJob
	for _, job := range jobs {
		if job.Status != domain.JobStatusFailed {
			continue
		}

		if len(job.Metadata.FailedRanges) > 0 {
			for _, failed := range job.Metadata.FailedRanges {
				planned = append(planned, s.newJob(account, job.AdProduct, job.ReportType,
					failed.Range, job.Tier, job.Priority))
			}
			continue
		}

		if err := s.jobs.ReopenJob(job.ID, s.cfg.ReportSync.MaxRetries); err != nil {
			if errors.Is(err, repository.ErrNoTransition) {
				continue
			}
			return retried, fmt.Errorf("reopening job %s: %w", job.ID, err)
		}
		retried++
	}

	created, err := s.createMissing(accountID, planned)
	if err != nil {
		return retried, err
	}
	return retried + created, nil
}

func (s *service) GetJob(jobID string) (*domain.ReportJob, error) {
	job, err := s.jobs.GetByID(jobID)
	if err != nil {
		return nil, fmt.Errorf("loading job: %w", err)
	}
	if job == nil {
		return nil, ErrJobNotFound
	}
	return job, nil
}

func (s *service) ListJobs(accountID string, limit int) ([]*domain.ReportJob, error) {
	account, err := s.accounts.GetAccountByID(accountID)
	if err != nil {
		return nil, fmt.Errorf("loading account: %w", err)
	}
	if account == nil {
		return nil, ErrAccountNotFound
	}
	return s.jobs.ListByAccount(accountID, limit)
}

// planTier expands one tier policy into jobs for every product, slice and
// applicable granularity.
func (s *service) planTier(account *domain.AdAccount, policy TierPolicy, today time.Time) []*domain.ReportJob {
	start, end := tierRange(policy, today)
	slices := Slice(start, end, policy.SliceDays)

	var jobs []*domain.ReportJob
	for _, rng := range slices {
		for _, product := range domain.AllAdProducts {
			for _, reportType := range policy.reportTypesFor(product) {
				jobs = append(jobs, s.newJob(account, product, reportType, rng, policy.Tier, policy.Priority))
			}
		}
	}
	return jobs
}

// createMissing persists only the planned jobs whose range is not already
// queued, in flight or completed. Planning is therefore safe to repeat.
func (s *service) createMissing(accountID string, planned []*domain.ReportJob) (int, error) {
	if len(planned) == 0 {
		return 0, nil
	}

	existing, err := s.jobs.ExistingRangeKeys(accountID)
	if err != nil {
		return 0, fmt.Errorf("loading existing range keys: %w", err)
	}

	missing := make([]*domain.ReportJob, 0, len(planned))
	for _, job := range planned {
		key := job.RangeKey()
		if _, ok := existing[key]; ok {
			continue
		}
		// Planned sets can overlap themselves (e.g. retry ranges), so the
		// key set grows as we go.
		existing[key] = struct{}{}
		missing = append(missing, job)
	}

	if len(missing) == 0 {
		return 0, nil
	}
	if err := s.jobs.CreateJobs(missing); err != nil {
		return 0, fmt.Errorf("creating jobs: %w", err)
	}
	return len(missing), nil
}

func (s *service) newJob(
	account *domain.AdAccount,
	product domain.AdProduct,
	reportType domain.ReportType,
	rng domain.DateRange,
	tier domain.DataTier,
	priority int,
) *domain.ReportJob {
	return &domain.ReportJob{
		ID:          utils.GenerateID(),
		AccountID:   account.ID,
		ProfileID:   account.ProfileID,
		Marketplace: account.Marketplace,
		ReportType:  reportType,
		AdProduct:   product,
		Tier:        tier,
		Priority:    priority,
		StartDate:   rng.StartDate,
		EndDate:     rng.EndDate,
		Status:      domain.JobStatusPending,
		MaxRetries:  s.cfg.ReportSync.MaxRetries,
		Metadata:    domain.JobMetadata{Tier: tier},
	}
}
