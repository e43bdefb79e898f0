package domain

import (
	"fmt"
	"time"
)

// JobStatus is the lifecycle state of a report job.
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusSubmitted  JobStatus = "submitted"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
	JobStatusExpired    JobStatus = "expired"
)

// IsTerminal reports whether the status admits no further transitions
// (except an explicit operator retry).
func (s JobStatus) IsTerminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed || s == JobStatusExpired
}

// jobTransitions is the forward transition graph. Terminal states have no
// outgoing edges; re-entering pending is only allowed via operator retry,
// which goes through the repository, not through CanTransitionTo.
var jobTransitions = map[JobStatus][]JobStatus{
	JobStatusPending:    {JobStatusSubmitted, JobStatusFailed, JobStatusExpired},
	JobStatusSubmitted:  {JobStatusProcessing, JobStatusCompleted, JobStatusFailed, JobStatusExpired},
	JobStatusProcessing: {JobStatusCompleted, JobStatusFailed, JobStatusExpired},
}

// CanTransitionTo reports whether the state machine allows moving from s to next.
func (s JobStatus) CanTransitionTo(next JobStatus) bool {
	for _, allowed := range jobTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// DateRange is an inclusive [Start, End] range of report dates.
type DateRange struct {
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

// Days returns the number of calendar days covered by the range.
func (r DateRange) Days() int {
	return int(r.EndDate.Sub(r.StartDate).Hours()/24) + 1
}

// Contains reports whether the given date falls inside the range.
func (r DateRange) Contains(date time.Time) bool {
	return !date.Before(r.StartDate) && !date.After(r.EndDate)
}

func (r DateRange) String() string {
	return fmt.Sprintf("%s..%s", r.StartDate.Format(time.DateOnly), r.EndDate.Format(time.DateOnly))
}

// FailedRange records a sub-range whose ingestion failed, so an operator
// retry can reopen only the failed part of a job.
type FailedRange struct {
	Range      DateRange `json:"range"`
	Error      string    `json:"error"`
	RetryCount int       `json:"retry_count"`
}

// JobMetadata is the structured sub-state persisted alongside a job.
// It is stored as typed JSON, never as an untyped map, so range bookkeeping
// keeps its shape across process restarts.
type JobMetadata struct {
	Tier            DataTier      `json:"tier,omitempty"`
	ProcessedRanges []DateRange   `json:"processed_ranges,omitempty"`
	FailedRanges    []FailedRange `json:"failed_ranges,omitempty"`
}

// ReportJob is one unit of ingestion work: a single report request for one
// account, product, granularity and date range.
type ReportJob struct {
	ID               string      `json:"id"`
	AccountID        string      `json:"account_id"`
	ProfileID        string      `json:"profile_id"`
	Marketplace      string      `json:"marketplace"`
	ReportType       ReportType  `json:"report_type"`
	AdProduct        AdProduct   `json:"ad_product"`
	Tier             DataTier    `json:"tier"`
	Priority         int         `json:"priority"`
	StartDate        time.Time   `json:"start_date"`
	EndDate          time.Time   `json:"end_date"`
	Status           JobStatus   `json:"status"`
	ExternalReportID string      `json:"external_report_id,omitempty"`
	DownloadURL      string      `json:"download_url,omitempty"`
	RecordsProcessed int         `json:"records_processed"`
	ErrorMessage     string      `json:"error_message,omitempty"`
	RetryCount       int         `json:"retry_count"`
	MaxRetries       int         `json:"max_retries"`
	Metadata         JobMetadata `json:"metadata"`
	CreatedAt        time.Time   `json:"created_at"`
	SubmittedAt      *time.Time  `json:"submitted_at,omitempty"`
	CompletedAt      *time.Time  `json:"completed_at,omitempty"`
	ProcessedAt      *time.Time  `json:"processed_at,omitempty"`
	UpdatedAt        time.Time   `json:"updated_at"`
}

// Range returns the job's requested date range.
func (j *ReportJob) Range() DateRange {
	return DateRange{StartDate: j.StartDate, EndDate: j.EndDate}
}

// RangeKey identifies a planned range for idempotent job creation. Two jobs
// with the same key cover the same work and must not both be queued.
func (j *ReportJob) RangeKey() string {
	return RangeKey(j.AccountID, j.AdProduct, j.ReportType, j.StartDate, j.EndDate)
}

// RangeKey builds the deduplication key used when planning jobs.
func RangeKey(accountID string, product AdProduct, reportType ReportType, start, end time.Time) string {
	return fmt.Sprintf("%s|%s|%s|%s|%s",
		accountID, product, reportType,
		start.Format(time.DateOnly), end.Format(time.DateOnly),
	)
}

// Age returns how long ago the job was created.
func (j *ReportJob) Age(now time.Time) time.Duration {
	return now.Sub(j.CreatedAt)
}

// Exhausted reports whether the job has used up its retry budget.
func (j *ReportJob) Exhausted() bool {
	return j.RetryCount >= j.MaxRetries
}
