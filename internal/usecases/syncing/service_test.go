package syncing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/tuobayong1988/amazon-ads-optimizer-sub009/infrastructure/repository/mocks"
	"github.com/tuobayong1988/amazon-ads-optimizer-sub009/internal/config"
	"github.com/tuobayong1988/amazon-ads-optimizer-sub009/internal/domain"
)

type serviceFixture struct {
	svc      *service
	jobs     *mocks.MockReportJobRepository
	states   *mocks.MockSyncStateRepository
	accounts *mocks.MockAccountRepository
}

func newFixture(t *testing.T) *serviceFixture {
	ctrl := gomock.NewController(t)

	cfg := &config.Config{
		ReportSync: config.ReportSync{MaxRetries: 3},
		SyncPlan: config.SyncPlan{
			BackfillDays:             365,
			FullAttributionFrequency: 7,
			ShallowCheckDays:         3,
		},
	}

	f := &serviceFixture{
		jobs:     mocks.NewMockReportJobRepository(ctrl),
		states:   mocks.NewMockSyncStateRepository(ctrl),
		accounts: mocks.NewMockAccountRepository(ctrl),
	}
	f.svc = NewService(cfg, f.jobs, f.states, f.accounts).(*service)
	f.svc.now = func() time.Time { return date("2026-03-15").Add(10 * time.Hour) }
	return f
}

func testAccount() *domain.AdAccount {
	return &domain.AdAccount{
		ID:          "acc-1",
		ProfileID:   "profile-1",
		Marketplace: "US",
		Status:      domain.AdAccountStatusActive,
	}
}

func TestRunPassCreatesStateForNewAccount(t *testing.T) {
	f := newFixture(t)
	account := testAccount()

	f.states.EXPECT().Get(account.ID).Return(nil, nil)
	f.states.EXPECT().SaveOrUpdate(gomock.Any()).DoAndReturn(func(state *domain.SyncState) error {
		assert.Equal(t, account.ID, state.AccountID)
		assert.Equal(t, domain.SyncModeInitialization, state.Mode)
		return nil
	})
	f.jobs.EXPECT().CountByStatus(account.ID).Return(map[domain.JobStatus]int{}, nil)
	f.jobs.EXPECT().ExistingRangeKeys(account.ID).Return(map[string]struct{}{}, nil)

	var created []*domain.ReportJob
	f.jobs.EXPECT().CreateJobs(gomock.Any()).DoAndReturn(func(jobs []*domain.ReportJob) error {
		created = jobs
		return nil
	})

	require.NoError(t, f.svc.RunPass(context.Background(), account))

	// realtime: 7 slices x 10 product/granularity combos; hot: 4 x 10;
	// warm: 4 x 6; cold: 10 x 3.
	byTier := map[domain.DataTier]int{}
	for _, job := range created {
		byTier[job.Tier]++
		assert.Equal(t, domain.JobStatusPending, job.Status)
		assert.Equal(t, 3, job.MaxRetries)
		assert.Equal(t, account.ProfileID, job.ProfileID)
		assert.NotEmpty(t, job.ID)
	}
	assert.Equal(t, 70, byTier[domain.TierRealtime])
	assert.Equal(t, 40, byTier[domain.TierHot])
	assert.Equal(t, 24, byTier[domain.TierWarm])
	assert.Equal(t, 30, byTier[domain.TierCold])
	assert.Len(t, created, 164)
}

func TestRunPassBackfillIsIdempotent(t *testing.T) {
	f := newFixture(t)
	account := testAccount()

	state := &domain.SyncState{AccountID: account.ID, Mode: domain.SyncModeInitialization}
	f.states.EXPECT().Get(account.ID).Return(state, nil)
	f.jobs.EXPECT().CountByStatus(account.ID).Return(map[domain.JobStatus]int{
		domain.JobStatusPending:   100,
		domain.JobStatusSubmitted: 64,
	}, nil)

	// Every planned range already exists, so nothing is created.
	f.jobs.EXPECT().ExistingRangeKeys(account.ID).DoAndReturn(func(string) (map[string]struct{}, error) {
		keys := make(map[string]struct{})
		today := date("2026-03-15")
		for _, policy := range TieredPolicies {
			start, end := tierRange(policy, today)
			for _, rng := range Slice(start, end, policy.SliceDays) {
				for _, product := range domain.AllAdProducts {
					for _, reportType := range policy.reportTypesFor(product) {
						keys[domain.RangeKey(account.ID, product, reportType, rng.StartDate, rng.EndDate)] = struct{}{}
					}
				}
			}
		}
		return keys, nil
	})

	require.NoError(t, f.svc.RunPass(context.Background(), account))
}

func TestRunPassFlipsToIncrementalWhenBackfillDrains(t *testing.T) {
	f := newFixture(t)
	account := testAccount()

	state := &domain.SyncState{AccountID: account.ID, Mode: domain.SyncModeInitialization}
	f.states.EXPECT().Get(account.ID).Return(state, nil)
	f.jobs.EXPECT().CountByStatus(account.ID).Return(map[domain.JobStatus]int{
		domain.JobStatusCompleted: 160,
		domain.JobStatusFailed:    4,
	}, nil)
	f.states.EXPECT().MarkBackfillCompleted(account.ID, gomock.Any()).Return(nil)

	require.NoError(t, f.svc.RunPass(context.Background(), account))
}

func TestIncrementalPassFullWalk(t *testing.T) {
	f := newFixture(t)
	account := testAccount()

	// Last full walk 8 days ago, past the 7-day cadence.
	lastWalk := date("2026-03-07")
	state := &domain.SyncState{
		AccountID:         account.ID,
		Mode:              domain.SyncModeIncremental,
		BackfillCompleted: true,
		LastFullWalkAt:    &lastWalk,
	}
	f.states.EXPECT().Get(account.ID).Return(state, nil)
	f.jobs.EXPECT().ExistingRangeKeys(account.ID).Return(map[string]struct{}{}, nil)

	var created []*domain.ReportJob
	f.jobs.EXPECT().CreateJobs(gomock.Any()).DoAndReturn(func(jobs []*domain.ReportJob) error {
		created = jobs
		return nil
	})
	f.states.EXPECT().SetLastFullWalk(account.ID, gomock.Any()).Return(nil)

	require.NoError(t, f.svc.RunPass(context.Background(), account))

	// 10 T-1 jobs plus a full attribution walk at every granularity.
	require.Len(t, created, 20)

	yesterday := date("2026-03-14")
	daily, walks := 0, 0
	for _, job := range created {
		if job.StartDate.Equal(yesterday) && job.EndDate.Equal(yesterday) {
			daily++
			assert.Equal(t, domain.TierRealtime, job.Tier)
			continue
		}
		walks++
		assert.Equal(t, domain.TierHot, job.Tier)
		assert.Equal(t, yesterday, job.EndDate)
		// The walk spans the product's attribution window.
		want := date("2026-03-15").AddDate(0, 0, -job.AdProduct.AttributionWindowDays())
		assert.Equal(t, want, job.StartDate)
	}
	assert.Equal(t, 10, daily)
	assert.Equal(t, 10, walks)
}

func TestIncrementalPassShallowCheck(t *testing.T) {
	f := newFixture(t)
	account := testAccount()

	// Last full walk 6 days ago, within the 7-day cadence.
	lastWalk := date("2026-03-09")
	state := &domain.SyncState{
		AccountID:         account.ID,
		Mode:              domain.SyncModeIncremental,
		BackfillCompleted: true,
		LastFullWalkAt:    &lastWalk,
	}
	f.states.EXPECT().Get(account.ID).Return(state, nil)
	f.jobs.EXPECT().ExistingRangeKeys(account.ID).Return(map[string]struct{}{}, nil)

	var created []*domain.ReportJob
	f.jobs.EXPECT().CreateJobs(gomock.Any()).DoAndReturn(func(jobs []*domain.ReportJob) error {
		created = jobs
		return nil
	})

	require.NoError(t, f.svc.RunPass(context.Background(), account))

	// 10 T-1 jobs plus one shallow campaign check per product.
	require.Len(t, created, 13)

	shallowStart := date("2026-03-12")
	shallow := 0
	for _, job := range created {
		if job.StartDate.Equal(shallowStart) {
			shallow++
			assert.Equal(t, domain.ReportTypeCampaign, job.ReportType)
		}
	}
	assert.Equal(t, 3, shallow)
}

func TestIncrementalPassFirstWalkIsFull(t *testing.T) {
	f := newFixture(t)
	account := testAccount()

	state := &domain.SyncState{
		AccountID:         account.ID,
		Mode:              domain.SyncModeIncremental,
		BackfillCompleted: true,
	}
	f.states.EXPECT().Get(account.ID).Return(state, nil)
	f.jobs.EXPECT().ExistingRangeKeys(account.ID).Return(map[string]struct{}{}, nil)
	f.jobs.EXPECT().CreateJobs(gomock.Any()).Return(nil)
	f.states.EXPECT().SetLastFullWalk(account.ID, gomock.Any()).Return(nil)

	require.NoError(t, f.svc.RunPass(context.Background(), account))
}

func TestCreateJobsForAccountTierSweep(t *testing.T) {
	f := newFixture(t)
	account := testAccount()

	f.accounts.EXPECT().GetAccountByID(account.ID).Return(account, nil)
	f.jobs.EXPECT().ExistingRangeKeys(account.ID).Return(map[string]struct{}{}, nil)

	var created []*domain.ReportJob
	f.jobs.EXPECT().CreateJobs(gomock.Any()).DoAndReturn(func(jobs []*domain.ReportJob) error {
		created = jobs
		return nil
	})

	count, err := f.svc.CreateJobsForAccount(account.ID, nil, true)
	require.NoError(t, err)

	// 13 hot slices plus 28 cold slices per ad product.
	assert.Equal(t, 123, count)
	require.Len(t, created, 123)
	for _, job := range created {
		assert.Equal(t, domain.ReportTypeCampaign, job.ReportType)
	}
}

func TestCreateJobsForAccountDateRange(t *testing.T) {
	f := newFixture(t)
	account := testAccount()

	f.accounts.EXPECT().GetAccountByID(account.ID).Return(account, nil)
	f.jobs.EXPECT().ExistingRangeKeys(account.ID).Return(map[string]struct{}{}, nil)
	f.jobs.EXPECT().CreateJobs(gomock.Any()).Return(nil)

	rng := &domain.DateRange{StartDate: date("2026-02-01"), EndDate: date("2026-02-10")}
	count, err := f.svc.CreateJobsForAccount(account.ID, rng, false)
	require.NoError(t, err)
	assert.Equal(t, 10, count)
}

func TestCreateJobsForAccountUnknownAccount(t *testing.T) {
	f := newFixture(t)

	f.accounts.EXPECT().GetAccountByID("missing").Return(nil, nil)

	_, err := f.svc.CreateJobsForAccount("missing", nil, true)
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestGetSyncStats(t *testing.T) {
	f := newFixture(t)
	account := testAccount()

	f.accounts.EXPECT().GetAccountByID(account.ID).Return(account, nil)
	f.states.EXPECT().Get(account.ID).Return(&domain.SyncState{
		AccountID: account.ID,
		Mode:      domain.SyncModeIncremental,
	}, nil)
	f.jobs.EXPECT().CountByStatus(account.ID).Return(map[domain.JobStatus]int{
		domain.JobStatusPending:    5,
		domain.JobStatusSubmitted:  2,
		domain.JobStatusProcessing: 1,
		domain.JobStatusCompleted:  40,
		domain.JobStatusFailed:     3,
		domain.JobStatusExpired:    1,
	}, nil)

	stats, err := f.svc.GetSyncStats(account.ID)
	require.NoError(t, err)

	assert.Equal(t, domain.SyncModeIncremental, stats.Mode)
	assert.Equal(t, 8, stats.PendingTasks)
	assert.Equal(t, 40, stats.CompletedTasks)
	assert.Equal(t, 4, stats.FailedTasks)
	assert.Equal(t, 10, stats.EstimatedDailyTasks)
}

func TestRetryFailedJobs(t *testing.T) {
	f := newFixture(t)
	account := testAccount()

	failedWhole := &domain.ReportJob{
		ID:         "job-whole",
		AccountID:  account.ID,
		AdProduct:  domain.AdProductSponsoredProducts,
		ReportType: domain.ReportTypeCampaign,
		Status:     domain.JobStatusFailed,
	}
	failedRanges := &domain.ReportJob{
		ID:         "job-ranges",
		AccountID:  account.ID,
		AdProduct:  domain.AdProductSponsoredBrands,
		ReportType: domain.ReportTypeCampaign,
		Tier:       domain.TierHot,
		Priority:   domain.PriorityHigh,
		Status:     domain.JobStatusFailed,
		Metadata: domain.JobMetadata{
			FailedRanges: []domain.FailedRange{
				{Range: domain.DateRange{StartDate: date("2026-02-01"), EndDate: date("2026-02-03")}},
				{Range: domain.DateRange{StartDate: date("2026-02-05"), EndDate: date("2026-02-07")}},
			},
		},
	}
	completed := &domain.ReportJob{
		ID:     "job-done",
		Status: domain.JobStatusCompleted,
	}

	f.accounts.EXPECT().GetAccountByID(account.ID).Return(account, nil)
	f.jobs.EXPECT().ListByAccount(account.ID, 0).
		Return([]*domain.ReportJob{failedWhole, failedRanges, completed}, nil)
	f.jobs.EXPECT().ReopenJob("job-whole", 3).Return(nil)
	f.jobs.EXPECT().ExistingRangeKeys(account.ID).Return(map[string]struct{}{}, nil)

	var created []*domain.ReportJob
	f.jobs.EXPECT().CreateJobs(gomock.Any()).DoAndReturn(func(jobs []*domain.ReportJob) error {
		created = jobs
		return nil
	})

	count, err := f.svc.RetryFailedJobs(account.ID)
	require.NoError(t, err)

	// One reopened job plus two fresh jobs for the failed sub-ranges.
	assert.Equal(t, 3, count)
	require.Len(t, created, 2)
	for _, job := range created {
		assert.Equal(t, domain.JobStatusPending, job.Status)
		assert.Equal(t, domain.AdProductSponsoredBrands, job.AdProduct)
		assert.Equal(t, domain.TierHot, job.Tier)
	}
}
