package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse(time.DateOnly, s)
	if err != nil {
		t.Fatalf("bad date %q: %v", s, err)
	}
	return d
}

func TestJobStatusTransitions(t *testing.T) {
	tests := []struct {
		from    JobStatus
		to      JobStatus
		allowed bool
	}{
		{JobStatusPending, JobStatusSubmitted, true},
		{JobStatusPending, JobStatusFailed, true},
		{JobStatusPending, JobStatusExpired, true},
		{JobStatusPending, JobStatusCompleted, false},
		{JobStatusPending, JobStatusProcessing, false},
		{JobStatusSubmitted, JobStatusProcessing, true},
		{JobStatusSubmitted, JobStatusCompleted, true},
		{JobStatusSubmitted, JobStatusPending, false},
		{JobStatusProcessing, JobStatusCompleted, true},
		{JobStatusProcessing, JobStatusFailed, true},
		{JobStatusProcessing, JobStatusSubmitted, false},
		{JobStatusCompleted, JobStatusPending, false},
		{JobStatusFailed, JobStatusPending, false},
		{JobStatusExpired, JobStatusSubmitted, false},
	}

	for _, tt := range tests {
		got := tt.from.CanTransitionTo(tt.to)
		assert.Equal(t, tt.allowed, got, "%s -> %s", tt.from, tt.to)
	}
}

func TestJobStatusIsTerminal(t *testing.T) {
	assert.False(t, JobStatusPending.IsTerminal())
	assert.False(t, JobStatusSubmitted.IsTerminal())
	assert.False(t, JobStatusProcessing.IsTerminal())
	assert.True(t, JobStatusCompleted.IsTerminal())
	assert.True(t, JobStatusFailed.IsTerminal())
	assert.True(t, JobStatusExpired.IsTerminal())
}

func TestDateRangeDays(t *testing.T) {
	tests := []struct {
		start string
		end   string
		days  int
	}{
		{"2026-03-01", "2026-03-01", 1},
		{"2026-03-01", "2026-03-07", 7},
		{"2026-02-01", "2026-02-28", 28},
	}

	for _, tt := range tests {
		r := DateRange{StartDate: day(t, tt.start), EndDate: day(t, tt.end)}
		assert.Equal(t, tt.days, r.Days(), r.String())
	}
}

func TestDateRangeContains(t *testing.T) {
	r := DateRange{StartDate: day(t, "2026-03-01"), EndDate: day(t, "2026-03-07")}

	assert.True(t, r.Contains(day(t, "2026-03-01")))
	assert.True(t, r.Contains(day(t, "2026-03-04")))
	assert.True(t, r.Contains(day(t, "2026-03-07")))
	assert.False(t, r.Contains(day(t, "2026-02-28")))
	assert.False(t, r.Contains(day(t, "2026-03-08")))
}

func TestRangeKeyIsStable(t *testing.T) {
	job := &ReportJob{
		AccountID:  "acc-1",
		AdProduct:  AdProductSponsoredProducts,
		ReportType: ReportTypeCampaign,
		StartDate:  day(t, "2026-03-01"),
		EndDate:    day(t, "2026-03-07"),
	}

	assert.Equal(t, "acc-1|sp|campaign|2026-03-01|2026-03-07", job.RangeKey())
	assert.Equal(t, job.RangeKey(), RangeKey(job.AccountID, job.AdProduct, job.ReportType, job.StartDate, job.EndDate))
}

func TestExhausted(t *testing.T) {
	job := &ReportJob{RetryCount: 2, MaxRetries: 3}
	assert.False(t, job.Exhausted())

	job.RetryCount = 3
	assert.True(t, job.Exhausted())
}

func TestReportTypesFor(t *testing.T) {
	assert.Len(t, ReportTypesFor(AdProductSponsoredProducts), 4)
	assert.Len(t, ReportTypesFor(AdProductSponsoredBrands), 3)
	assert.Len(t, ReportTypesFor(AdProductSponsoredDisplay), 3)
	assert.NotContains(t, ReportTypesFor(AdProductSponsoredBrands), ReportTypeTarget)
	assert.NotContains(t, ReportTypesFor(AdProductSponsoredDisplay), ReportTypeKeyword)
}
