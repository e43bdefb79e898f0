package amazon

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	amazondomain "github.com/tuobayong1988/amazon-ads-optimizer-sub009/infrastructure/integrator/amazon/domain"
	"github.com/tuobayong1988/amazon-ads-optimizer-sub009/infrastructure/integrator/amazon/adsclient"
	"github.com/tuobayong1988/amazon-ads-optimizer-sub009/internal/config"
	"github.com/tuobayong1988/amazon-ads-optimizer-sub009/internal/domain"
)

// ReportingAPI is the black-box surface the ingestion engine depends on.
// The engine never sees the HTTP details; failures arrive as classified
// errors (amazondomain.Classify).
type ReportingAPI interface {
	RequestReport(ctx context.Context, job *domain.ReportJob) (string, error)
	GetReportStatus(ctx context.Context, profileID, reportID string) (*amazondomain.ReportStatus, error)
	DownloadReport(ctx context.Context, downloadURL string) ([]byte, error)
}

// Integrator adapts the low-level client to the engine's job vocabulary.
type Integrator struct {
	cfg    *config.Config
	Client adsclient.Client
}

func New(cfg *config.Config, client adsclient.Client) *Integrator {
	return &Integrator{
		cfg:    cfg,
		Client: client,
	}
}

// RequestReport starts a report covering the job's range and returns the
// vendor's opaque report handle.
func (s *Integrator) RequestReport(ctx context.Context, job *domain.ReportJob) (string, error) {
	req := &amazondomain.ReportRequest{
		ReportType: string(job.ReportType),
		AdProduct:  string(job.AdProduct),
		StartDate:  job.StartDate,
		EndDate:    job.EndDate,
		Columns:    ReportColumns(job.AdProduct, job.ReportType),
	}

	reportID, err := s.Client.RequestReport(ctx, job.ProfileID, req)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"job_id":      job.ID,
			"profile_id":  job.ProfileID,
			"report_type": job.ReportType,
			"ad_product":  job.AdProduct,
			"range":       job.Range().String(),
			"error_class": amazondomain.Classify(err),
		}).WithError(err).Error("reporting: report request failed")
		return "", err
	}

	logrus.WithFields(logrus.Fields{
		"job_id":     job.ID,
		"report_id":  reportID,
		"start_date": job.StartDate.Format(time.DateOnly),
		"end_date":   job.EndDate.Format(time.DateOnly),
	}).Debug("reporting: report requested")

	return reportID, nil
}

// GetReportStatus polls a report handle.
func (s *Integrator) GetReportStatus(ctx context.Context, profileID, reportID string) (*amazondomain.ReportStatus, error) {
	return s.Client.GetReportStatus(ctx, profileID, reportID)
}

// DownloadReport fetches the compressed report body.
func (s *Integrator) DownloadReport(ctx context.Context, downloadURL string) ([]byte, error) {
	return s.Client.DownloadReport(ctx, downloadURL)
}
