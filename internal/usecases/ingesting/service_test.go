package ingesting

import (
	"bytes"
	"compress/gzip"
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	amazondomain "github.com/tuobayong1988/amazon-ads-optimizer-sub009/infrastructure/integrator/amazon/domain"
	amazonmocks "github.com/tuobayong1988/amazon-ads-optimizer-sub009/infrastructure/integrator/amazon/mocks"
	"github.com/tuobayong1988/amazon-ads-optimizer-sub009/infrastructure/repository/mocks"
	"github.com/tuobayong1988/amazon-ads-optimizer-sub009/internal/config"
	"github.com/tuobayong1988/amazon-ads-optimizer-sub009/internal/domain"
	"github.com/tuobayong1988/amazon-ads-optimizer-sub009/pkg/ratelimit"
)

type fixture struct {
	svc       *service
	jobs      *mocks.MockReportJobRepository
	campaigns *mocks.MockCampaignRepository
	perf      *mocks.MockPerformanceRepository
	reporting *amazonmocks.MockReportingAPI
	limiters  *ratelimit.Registry
}

func newFixture(t *testing.T) *fixture {
	ctrl := gomock.NewController(t)

	cfg := &config.Config{
		ReportSync: config.ReportSync{
			SubmitBatchSize:      10,
			CheckBatchSize:       20,
			ProcessBatchSize:     10,
			MaxRetries:           3,
			ReportTimeoutMinutes: 15,
			CleanupAfterDays:     7,
		},
	}

	limiters := ratelimit.NewRegistry(ratelimit.Config{
		RequestsPerSecond: 1000,
		RequestsPerMinute: 10000,
		RequestsPerHour:   100000,
		InterRequestDelay: time.Millisecond,
	})
	t.Cleanup(limiters.Stop)

	f := &fixture{
		jobs:      mocks.NewMockReportJobRepository(ctrl),
		campaigns: mocks.NewMockCampaignRepository(ctrl),
		perf:      mocks.NewMockPerformanceRepository(ctrl),
		reporting: amazonmocks.NewMockReportingAPI(ctrl),
		limiters:  limiters,
	}
	f.svc = NewService(cfg, f.jobs, f.campaigns, f.perf, f.reporting, limiters).(*service)
	f.svc.now = func() time.Time { return time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC) }
	return f
}

func pendingJob(id string) *domain.ReportJob {
	return &domain.ReportJob{
		ID:         id,
		AccountID:  "acc-1",
		ProfileID:  "profile-1",
		AdProduct:  domain.AdProductSponsoredProducts,
		ReportType: domain.ReportTypeCampaign,
		Priority:   domain.PriorityHigh,
		Status:     domain.JobStatusPending,
		MaxRetries: 3,
	}
}

func gzipJSON(t *testing.T, v any) []byte {
	t.Helper()
	payload, err := json.Marshal(v)
	require.NoError(t, err)

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, err = gz.Write(payload)
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	return buf.Bytes()
}

func TestSubmitPendingJobs(t *testing.T) {
	f := newFixture(t)
	jobA, jobB := pendingJob("job-a"), pendingJob("job-b")

	f.jobs.EXPECT().ListByStatus([]domain.JobStatus{domain.JobStatusPending}, 10).
		Return([]*domain.ReportJob{jobA, jobB}, nil)
	f.reporting.EXPECT().RequestReport(gomock.Any(), jobA).Return("report-a", nil)
	f.reporting.EXPECT().RequestReport(gomock.Any(), jobB).Return("report-b", nil)
	f.jobs.EXPECT().MarkSubmitted("job-a", "report-a").Return(nil)
	f.jobs.EXPECT().MarkSubmitted("job-b", "report-b").Return(nil)

	require.NoError(t, f.svc.SubmitPendingJobs(context.Background()))
}

func TestSubmitRetriesServerError(t *testing.T) {
	f := newFixture(t)
	job := pendingJob("job-a")

	f.jobs.EXPECT().ListByStatus(gomock.Any(), gomock.Any()).Return([]*domain.ReportJob{job}, nil)
	f.reporting.EXPECT().RequestReport(gomock.Any(), job).
		Return("", &amazondomain.APIError{StatusCode: http.StatusInternalServerError})
	f.jobs.EXPECT().IncrementRetry("job-a", gomock.Any()).Return(1, nil)

	require.NoError(t, f.svc.SubmitPendingJobs(context.Background()))
}

func TestSubmitFailsJobOnUnauthorized(t *testing.T) {
	f := newFixture(t)
	job := pendingJob("job-a")

	f.jobs.EXPECT().ListByStatus(gomock.Any(), gomock.Any()).Return([]*domain.ReportJob{job}, nil)
	f.reporting.EXPECT().RequestReport(gomock.Any(), job).
		Return("", &amazondomain.APIError{StatusCode: http.StatusForbidden})
	f.jobs.EXPECT().MarkFailed("job-a", gomock.Any()).Return(nil)

	require.NoError(t, f.svc.SubmitPendingJobs(context.Background()))
}

func TestSubmitFailsJobWhenRetriesExhausted(t *testing.T) {
	f := newFixture(t)
	job := pendingJob("job-a")
	job.RetryCount = 2

	f.jobs.EXPECT().ListByStatus(gomock.Any(), gomock.Any()).Return([]*domain.ReportJob{job}, nil)
	f.reporting.EXPECT().RequestReport(gomock.Any(), job).
		Return("", &amazondomain.APIError{StatusCode: http.StatusTooManyRequests})
	f.jobs.EXPECT().IncrementRetry("job-a", gomock.Any()).Return(3, nil)
	f.jobs.EXPECT().MarkFailed("job-a", gomock.Any()).DoAndReturn(func(_, msg string) error {
		assert.Contains(t, msg, "retry budget exhausted")
		return nil
	})

	require.NoError(t, f.svc.SubmitPendingJobs(context.Background()))
}

func submittedJob(id string) *domain.ReportJob {
	job := pendingJob(id)
	job.Status = domain.JobStatusSubmitted
	job.ExternalReportID = "report-" + id
	submitted := time.Date(2026, 3, 15, 11, 55, 0, 0, time.UTC)
	job.SubmittedAt = &submitted
	return job
}

func TestCheckSubmittedJobs(t *testing.T) {
	f := newFixture(t)

	done := submittedJob("done")
	failed := submittedJob("failed")
	building := submittedJob("building")

	f.jobs.EXPECT().ListByStatus(
		[]domain.JobStatus{domain.JobStatusSubmitted, domain.JobStatusProcessing}, 20,
	).Return([]*domain.ReportJob{done, failed, building}, nil)

	f.reporting.EXPECT().GetReportStatus(gomock.Any(), "profile-1", "report-done").
		Return(&amazondomain.ReportStatus{State: amazondomain.ReportStateCompleted, URL: "https://dl/x"}, nil)
	f.reporting.EXPECT().GetReportStatus(gomock.Any(), "profile-1", "report-failed").
		Return(&amazondomain.ReportStatus{State: amazondomain.ReportStateFailed, FailureReason: "no data"}, nil)
	f.reporting.EXPECT().GetReportStatus(gomock.Any(), "profile-1", "report-building").
		Return(&amazondomain.ReportStatus{State: amazondomain.ReportStatePending}, nil)

	f.jobs.EXPECT().MarkCompleted("done", "https://dl/x").Return(nil)
	f.jobs.EXPECT().MarkFailed("failed", "no data").Return(nil)
	f.jobs.EXPECT().MarkProcessing("building").Return(nil)

	require.NoError(t, f.svc.CheckSubmittedJobs(context.Background()))
}

func TestCheckExpiresOverdueJob(t *testing.T) {
	f := newFixture(t)

	job := submittedJob("stale")
	submitted := time.Date(2026, 3, 15, 11, 30, 0, 0, time.UTC) // 30 min ago
	job.SubmittedAt = &submitted

	f.jobs.EXPECT().ListByStatus(gomock.Any(), gomock.Any()).Return([]*domain.ReportJob{job}, nil)
	f.reporting.EXPECT().GetReportStatus(gomock.Any(), "profile-1", "report-stale").
		Return(&amazondomain.ReportStatus{State: amazondomain.ReportStatePending}, nil)
	f.jobs.EXPECT().MarkExpired("stale", gomock.Any()).Return(nil)

	require.NoError(t, f.svc.CheckSubmittedJobs(context.Background()))
}

func TestCheckLeavesJobOnTransientPollError(t *testing.T) {
	f := newFixture(t)
	job := submittedJob("flaky")

	f.jobs.EXPECT().ListByStatus(gomock.Any(), gomock.Any()).Return([]*domain.ReportJob{job}, nil)
	f.reporting.EXPECT().GetReportStatus(gomock.Any(), "profile-1", "report-flaky").
		Return(nil, &amazondomain.APIError{StatusCode: http.StatusInternalServerError})

	// No status update: the job is polled again next tick.
	require.NoError(t, f.svc.CheckSubmittedJobs(context.Background()))
}

func completedJob(id string) *domain.ReportJob {
	job := pendingJob(id)
	job.Status = domain.JobStatusCompleted
	job.DownloadURL = "https://dl/" + id
	job.StartDate = time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	job.EndDate = time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	return job
}

func TestProcessCompletedReports(t *testing.T) {
	f := newFixture(t)
	job := completedJob("job-a")

	records := []map[string]any{
		{"campaignId": 111, "date": "2026-03-10", "impressions": 100, "clicks": 5, "cost": 2.5, "sales7d": 30.0, "purchases7d": 2},
		{"campaignId": 222, "date": "2026-03-10", "impressions": 10, "clicks": 1, "cost": 0.5, "sales7d": 0.0, "purchases7d": 0},
	}

	f.jobs.EXPECT().ListByStatus([]domain.JobStatus{domain.JobStatusCompleted}, 10).
		Return([]*domain.ReportJob{job}, nil)
	f.jobs.EXPECT().ClaimForProcessing("job-a").Return(true, nil)
	f.reporting.EXPECT().DownloadReport(gomock.Any(), "https://dl/job-a").
		Return(gzipJSON(t, records), nil)

	f.campaigns.EXPECT().GetByExternalID("acc-1", "111").
		Return(&domain.Campaign{ID: "camp-local", AccountID: "acc-1", ExternalID: "111"}, nil)
	// Campaign 222 is not synced locally; its record is skipped.
	f.campaigns.EXPECT().GetByExternalID("acc-1", "222").Return(nil, nil)

	f.perf.EXPECT().ApplyRecord(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, row *domain.PerformanceRow, delta domain.PerformanceDelta) error {
			assert.Equal(t, "camp-local", row.CampaignID)
			assert.Equal(t, int64(100), row.Impressions)
			assert.Equal(t, 2.5, row.Spend)
			assert.Equal(t, 30.0, delta.Sales)
			assert.Equal(t, int64(2), delta.Orders)
			assert.Equal(t, domain.DataSourceAPI, row.DataSource)
			return nil
		})

	f.jobs.EXPECT().FinishProcessing("job-a", 1, gomock.Any()).
		DoAndReturn(func(_ string, _ int, metadata domain.JobMetadata) error {
			require.Len(t, metadata.ProcessedRanges, 1)
			assert.Equal(t, job.Range(), metadata.ProcessedRanges[0])
			assert.Empty(t, metadata.FailedRanges)
			return nil
		})

	require.NoError(t, f.svc.ProcessCompletedReports(context.Background()))
}

func TestProcessSkipsUnclaimedJob(t *testing.T) {
	f := newFixture(t)
	job := completedJob("job-a")

	f.jobs.EXPECT().ListByStatus(gomock.Any(), gomock.Any()).Return([]*domain.ReportJob{job}, nil)
	f.jobs.EXPECT().ClaimForProcessing("job-a").Return(false, nil)

	require.NoError(t, f.svc.ProcessCompletedReports(context.Background()))
}

func TestProcessReleasesClaimOnDownloadFailure(t *testing.T) {
	f := newFixture(t)
	job := completedJob("job-a")

	f.jobs.EXPECT().ListByStatus(gomock.Any(), gomock.Any()).Return([]*domain.ReportJob{job}, nil)
	f.jobs.EXPECT().ClaimForProcessing("job-a").Return(true, nil)
	f.reporting.EXPECT().DownloadReport(gomock.Any(), "https://dl/job-a").
		Return(nil, &amazondomain.APIError{StatusCode: http.StatusInternalServerError})
	f.jobs.EXPECT().ReleaseProcessingClaim("job-a").Return(nil)

	require.NoError(t, f.svc.ProcessCompletedReports(context.Background()))
}

func TestProcessEmptyReport(t *testing.T) {
	f := newFixture(t)
	job := completedJob("job-a")

	f.jobs.EXPECT().ListByStatus(gomock.Any(), gomock.Any()).Return([]*domain.ReportJob{job}, nil)
	f.jobs.EXPECT().ClaimForProcessing("job-a").Return(true, nil)
	f.reporting.EXPECT().DownloadReport(gomock.Any(), "https://dl/job-a").
		Return(gzipJSON(t, []map[string]any{}), nil)
	f.jobs.EXPECT().FinishProcessing("job-a", 0, gomock.Any()).Return(nil)

	require.NoError(t, f.svc.ProcessCompletedReports(context.Background()))
}

func TestProcessRecordsFailedDates(t *testing.T) {
	f := newFixture(t)
	job := completedJob("job-a")

	records := []map[string]any{
		{"campaignId": 111, "date": "2026-03-10", "impressions": 1, "clicks": 0, "cost": 0.1, "sales7d": 0.0},
	}

	f.jobs.EXPECT().ListByStatus(gomock.Any(), gomock.Any()).Return([]*domain.ReportJob{job}, nil)
	f.jobs.EXPECT().ClaimForProcessing("job-a").Return(true, nil)
	f.reporting.EXPECT().DownloadReport(gomock.Any(), gomock.Any()).Return(gzipJSON(t, records), nil)
	f.campaigns.EXPECT().GetByExternalID("acc-1", "111").
		Return(&domain.Campaign{ID: "camp-local"}, nil)
	f.perf.EXPECT().ApplyRecord(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(assert.AnError)

	f.jobs.EXPECT().FinishProcessing("job-a", 0, gomock.Any()).
		DoAndReturn(func(_ string, _ int, metadata domain.JobMetadata) error {
			require.Len(t, metadata.FailedRanges, 1)
			assert.Equal(t, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), metadata.FailedRanges[0].Range.StartDate)
			return nil
		})

	require.NoError(t, f.svc.ProcessCompletedReports(context.Background()))
}

func TestFieldPrecedencePerProduct(t *testing.T) {
	tests := []struct {
		name      string
		product   domain.AdProduct
		record    map[string]any
		wantSpend float64
		wantSales float64
	}{
		{
			name:      "sponsored products prefers cost and sales7d",
			product:   domain.AdProductSponsoredProducts,
			record:    map[string]any{"campaignId": "1", "date": "2026-03-10", "cost": 1.0, "spend": 9.0, "sales7d": 5.0, "attributedSales7d": 9.0},
			wantSpend: 1.0,
			wantSales: 5.0,
		},
		{
			name:      "sponsored products falls back to spend",
			product:   domain.AdProductSponsoredProducts,
			record:    map[string]any{"campaignId": "1", "date": "2026-03-10", "spend": 9.0, "attributedSales7d": 4.0},
			wantSpend: 9.0,
			wantSales: 4.0,
		},
		{
			name:      "sponsored brands uses unsuffixed sales",
			product:   domain.AdProductSponsoredBrands,
			record:    map[string]any{"campaignId": "1", "date": "2026-03-10", "cost": 2.0, "sales": 7.0, "attributedSales14d": 1.0},
			wantSpend: 2.0,
			wantSales: 7.0,
		},
		{
			name:      "sponsored display prefers 14-day attribution",
			product:   domain.AdProductSponsoredDisplay,
			record:    map[string]any{"campaignId": "1", "date": "2026-03-10", "cost": 3.0, "attributedSales14d": 8.0, "sales": 1.0},
			wantSpend: 3.0,
			wantSales: 8.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job := &domain.ReportJob{AccountID: "acc-1", AdProduct: tt.product}
			row, delta, err := buildRow(job, rawRecord(tt.record))
			require.NoError(t, err)
			assert.Equal(t, tt.wantSpend, row.Spend)
			assert.Equal(t, tt.wantSales, row.Sales)
			assert.Equal(t, tt.wantSales, delta.Sales)
		})
	}
}

func TestBuildRowRejectsMalformedRecords(t *testing.T) {
	job := &domain.ReportJob{AccountID: "acc-1", AdProduct: domain.AdProductSponsoredProducts}

	_, _, err := buildRow(job, rawRecord{"date": "2026-03-10"})
	assert.Error(t, err)

	_, _, err = buildRow(job, rawRecord{"campaignId": "1"})
	assert.Error(t, err)

	_, _, err = buildRow(job, rawRecord{"campaignId": "1", "date": "not-a-date"})
	assert.Error(t, err)
}

func TestCleanupOldJobs(t *testing.T) {
	f := newFixture(t)

	f.jobs.EXPECT().DeleteTerminalOlderThan(7).Return(int64(5), nil)

	deleted, err := f.svc.CleanupOldJobs()
	require.NoError(t, err)
	assert.Equal(t, int64(5), deleted)
}
