package ingesting

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"github.com/tuobayong1988/amazon-ads-optimizer-sub009/internal/domain"
	"github.com/tuobayong1988/amazon-ads-optimizer-sub009/pkg/utils"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ProcessCompletedReports downloads and ingests completed reports. Each job
// is claimed atomically before any work happens, so concurrent ticks (or a
// restarted process racing an old one) never apply the same report's summary
// deltas twice.
func (s *service) ProcessCompletedReports(ctx context.Context) error {
	jobs, err := s.jobs.ListByStatus([]domain.JobStatus{domain.JobStatusCompleted}, s.cfg.ReportSync.ProcessBatchSize)
	if err != nil {
		return fmt.Errorf("listing completed jobs: %w", err)
	}

	for _, job := range jobs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.processJob(ctx, job); err != nil {
			if errors.Is(err, context.Canceled) {
				return err
			}
			logrus.WithField("job_id", job.ID).WithError(err).Error("ingesting: report processing failed")
		}
	}
	return nil
}

func (s *service) processJob(ctx context.Context, job *domain.ReportJob) error {
	claimed, err := s.jobs.ClaimForProcessing(job.ID)
	if err != nil {
		return fmt.Errorf("claiming job: %w", err)
	}
	if !claimed {
		// Already processed, or another worker holds it.
		return nil
	}

	records, err := s.fetchRecords(ctx, job)
	if err != nil {
		// Release so the next tick can try the download again.
		if relErr := s.jobs.ReleaseProcessingClaim(job.ID); relErr != nil {
			logrus.WithField("job_id", job.ID).WithError(relErr).Error("ingesting: releasing claim")
		}
		return err
	}

	processed := 0
	metadata := job.Metadata
	failedDates := map[string]string{}

	for _, rec := range records {
		row, delta, err := buildRow(job, rec)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"job_id": job.ID,
			}).WithError(err).Warn("ingesting: skipping malformed record")
			continue
		}

		campaign, err := s.campaigns.GetByExternalID(job.AccountID, row.CampaignID)
		if err != nil {
			failedDates[row.ReportDate.Format("2006-01-02")] = err.Error()
			continue
		}
		if campaign == nil {
			// Campaign not synced locally yet; skip rather than fail the job.
			logrus.WithFields(logrus.Fields{
				"job_id":      job.ID,
				"campaign_id": row.CampaignID,
			}).Debug("ingesting: unknown campaign, skipping record")
			continue
		}
		row.CampaignID = campaign.ID

		if err := s.perf.ApplyRecord(ctx, row, delta); err != nil {
			logrus.WithFields(logrus.Fields{
				"job_id":      job.ID,
				"campaign_id": campaign.ID,
				"report_date": row.ReportDate.Format("2006-01-02"),
			}).WithError(err).Error("ingesting: applying record")
			failedDates[row.ReportDate.Format("2006-01-02")] = err.Error()
			continue
		}
		processed++
	}

	metadata.ProcessedRanges = append(metadata.ProcessedRanges, job.Range())
	for dateStr, message := range failedDates {
		day, err := utils.ParseDate(dateStr)
		if err != nil {
			continue
		}
		metadata.FailedRanges = append(metadata.FailedRanges, domain.FailedRange{
			Range: dayRange(*day),
			Error: message,
		})
	}

	if err := s.jobs.FinishProcessing(job.ID, processed, metadata); err != nil {
		return fmt.Errorf("finishing job: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"job_id":       job.ID,
		"records":      processed,
		"skipped":      len(records) - processed,
		"failed_dates": len(failedDates),
	}).Info("ingesting: report processed")
	return nil
}

// fetchRecords downloads the report and decodes the gzipped JSON body. An
// empty report decodes to zero records, which is a valid outcome for ranges
// with no ad activity.
func (s *service) fetchRecords(ctx context.Context, job *domain.ReportJob) ([]rawRecord, error) {
	if job.DownloadURL == "" {
		return nil, fmt.Errorf("job %s completed without a download url", job.ID)
	}

	body, err := s.reporting.DownloadReport(ctx, job.DownloadURL)
	if err != nil {
		return nil, fmt.Errorf("downloading report: %w", err)
	}

	gz, err := gzip.NewReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("opening gzip stream: %w", err)
	}
	defer gz.Close()

	raw, err := io.ReadAll(gz)
	if err != nil {
		return nil, fmt.Errorf("decompressing report: %w", err)
	}

	var records []rawRecord
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &records); err != nil {
			return nil, fmt.Errorf("decoding report: %w", err)
		}
	}
	return records, nil
}
