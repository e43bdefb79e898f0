package amazondomain

import "time"

// ReportState is the normalized state of an asynchronous report on the
// vendor side.
type ReportState string

const (
	ReportStatePending   ReportState = "PENDING"
	ReportStateCompleted ReportState = "COMPLETED"
	ReportStateFailed    ReportState = "FAILED"
)

// ReportRequest describes one report the engine asks the Ads API to build.
type ReportRequest struct {
	ReportType string
	AdProduct  string
	StartDate  time.Time
	EndDate    time.Time
	Columns    []string
}

// ReportStatus is the polled status of a requested report. URL is only set
// once the report reaches COMPLETED.
type ReportStatus struct {
	ReportID      string      `json:"reportId"`
	State         ReportState `json:"status"`
	URL           string      `json:"url,omitempty"`
	FailureReason string      `json:"failureReason,omitempty"`
}
