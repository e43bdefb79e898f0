package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuobayong1988/amazon-ads-optimizer-sub009/internal/config"
	"github.com/tuobayong1988/amazon-ads-optimizer-sub009/internal/domain"
)

type stubIngesting struct {
	mu        sync.Mutex
	submits   int
	checks    int
	processes int
	cleanups  int
}

func (s *stubIngesting) SubmitPendingJobs(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.submits++
	return nil
}

func (s *stubIngesting) CheckSubmittedJobs(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checks++
	return nil
}

func (s *stubIngesting) ProcessCompletedReports(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.processes++
	return nil
}

func (s *stubIngesting) CleanupOldJobs() (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cleanups++
	return 0, nil
}

type stubSyncing struct {
	mu     sync.Mutex
	passes int
}

func (s *stubSyncing) RunPassForAllAccounts(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.passes++
	return nil
}

func (s *stubSyncing) RunPass(context.Context, *domain.AdAccount) error { return nil }

func (s *stubSyncing) CreateJobsForAccount(string, *domain.DateRange, bool) (int, error) {
	return 0, nil
}

func (s *stubSyncing) GetSyncStats(string) (*domain.SyncStats, error) { return nil, nil }

func (s *stubSyncing) RetryFailedJobs(string) (int, error) { return 0, nil }

func (s *stubSyncing) GetJob(string) (*domain.ReportJob, error) { return nil, nil }

func (s *stubSyncing) ListJobs(string, int) ([]*domain.ReportJob, error) { return nil, nil }

func newTestService() (*ReportSyncService, *stubIngesting, *stubSyncing) {
	cfg := &config.Config{
		ReportSync: config.ReportSync{
			Enabled:                true,
			SubmitIntervalSeconds:  30,
			CheckIntervalSeconds:   60,
			ProcessIntervalSeconds: 30,
			CleanupCron:            "0 2 * * *",
			SyncPassCron:           "0 3 * * *",
		},
	}
	ingest := &stubIngesting{}
	syncStub := &stubSyncing{}
	return NewReportSyncService(cfg, ingest, syncStub), ingest, syncStub
}

func TestStartAndStop(t *testing.T) {
	svc, _, _ := newTestService()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, svc.Start(ctx))

	status := svc.GetStatus()
	assert.Equal(t, true, status["running"])
	assert.Equal(t, 5, status["jobs"])

	svc.Stop()
	assert.Equal(t, false, svc.GetStatus()["running"])
}

func TestStartIsIdempotent(t *testing.T) {
	svc, _, _ := newTestService()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, svc.Start(ctx))
	require.NoError(t, svc.Start(ctx))
	assert.Equal(t, true, svc.GetStatus()["running"])

	svc.Stop()
}

func TestStartHonorsDisabledFlag(t *testing.T) {
	svc, _, _ := newTestService()
	svc.cfg.ReportSync.Enabled = false

	require.NoError(t, svc.Start(context.Background()))
	assert.Equal(t, false, svc.GetStatus()["running"])
}

func TestContextCancelStopsScheduler(t *testing.T) {
	svc, _, _ := newTestService()
	ctx, cancel := context.WithCancel(context.Background())

	require.NoError(t, svc.Start(ctx))
	cancel()

	assert.Eventually(t, func() bool {
		return svc.GetStatus()["running"] == false
	}, 2*time.Second, 10*time.Millisecond)
}

func TestRunOnceDrivesAllStages(t *testing.T) {
	svc, ingest, _ := newTestService()

	require.NoError(t, svc.RunOnce(context.Background()))

	assert.Equal(t, 1, ingest.submits)
	assert.Equal(t, 1, ingest.checks)
	assert.Equal(t, 1, ingest.processes)
}

func TestRunJob(t *testing.T) {
	svc, ingest, syncStub := newTestService()
	ctx := context.Background()

	require.NoError(t, svc.RunJob(ctx, "submit"))
	require.NoError(t, svc.RunJob(ctx, "check"))
	require.NoError(t, svc.RunJob(ctx, "process"))
	require.NoError(t, svc.RunJob(ctx, "cleanup"))
	require.NoError(t, svc.RunJob(ctx, "sync-pass"))

	assert.Equal(t, 1, ingest.submits)
	assert.Equal(t, 1, ingest.checks)
	assert.Equal(t, 1, ingest.processes)
	assert.Equal(t, 1, ingest.cleanups)
	assert.Equal(t, 1, syncStub.passes)

	require.NoError(t, svc.RunJob(ctx, "all"))
	assert.Equal(t, 2, syncStub.passes)
	assert.Equal(t, 2, ingest.submits)

	assert.Error(t, svc.RunJob(ctx, "bogus"))
}
