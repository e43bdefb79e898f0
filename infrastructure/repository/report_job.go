package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/tuobayong1988/amazon-ads-optimizer-sub009/infrastructure/database/postgres"
	"github.com/tuobayong1988/amazon-ads-optimizer-sub009/internal/domain"
)

const (
	reportJobsTable = "report_jobs rj"

	jobColumns = `rj.id, rj.account_id, rj.profile_id, rj.marketplace, rj.report_type,
		rj.ad_product, rj.tier, rj.priority, rj.start_date, rj.end_date, rj.status,
		rj.external_report_id, rj.download_url, rj.records_processed, rj.error_message,
		rj.retry_count, rj.max_retries, rj.metadata, rj.created_at, rj.submitted_at,
		rj.completed_at, rj.processed_at, rj.updated_at`
)

// ErrNoTransition is returned when a guarded status update matched no row,
// meaning the job was not in a state the transition is allowed from.
var ErrNoTransition = fmt.Errorf("job is not in a state that allows this transition")

type ReportJobRepository interface {
	CreateJobs(jobs []*domain.ReportJob) error
	GetByID(jobID string) (*domain.ReportJob, error)
	ListByAccount(accountID string, limit int) ([]*domain.ReportJob, error)
	ListByStatus(statuses []domain.JobStatus, limit int) ([]*domain.ReportJob, error)
	ExistingRangeKeys(accountID string) (map[string]struct{}, error)
	CountByStatus(accountID string) (map[domain.JobStatus]int, error)

	MarkSubmitted(jobID, externalReportID string) error
	MarkProcessing(jobID string) error
	MarkCompleted(jobID, downloadURL string) error
	MarkFailed(jobID, errorMessage string) error
	MarkExpired(jobID, errorMessage string) error
	IncrementRetry(jobID, errorMessage string) (int, error)

	ClaimForProcessing(jobID string) (bool, error)
	ReleaseProcessingClaim(jobID string) error
	FinishProcessing(jobID string, records int, metadata domain.JobMetadata) error

	ReopenJob(jobID string, maxRetries int) error
	DeleteTerminalOlderThan(days int) (int64, error)
}

type reportJobRepository struct {
	conn *postgres.Connection
}

func NewReportJobRepository(conn *postgres.Connection) ReportJobRepository {
	return &reportJobRepository{
		conn: conn,
	}
}

func (r *reportJobRepository) CreateJobs(jobs []*domain.ReportJob) error {
	if len(jobs) == 0 {
		return nil
	}

	builder := squirrel.StatementBuilder.
		Insert("report_jobs").
		Columns(
			"id", "account_id", "profile_id", "marketplace", "report_type",
			"ad_product", "tier", "priority", "start_date", "end_date",
			"status", "retry_count", "max_retries", "metadata",
		).
		PlaceholderFormat(squirrel.Dollar)

	for _, job := range jobs {
		metadataJSON, err := json.Marshal(job.Metadata)
		if err != nil {
			return fmt.Errorf("serializing job metadata: %w", err)
		}

		builder = builder.Values(
			job.ID,
			job.AccountID,
			job.ProfileID,
			job.Marketplace,
			job.ReportType,
			job.AdProduct,
			job.Tier,
			job.Priority,
			job.StartDate.Format(time.DateOnly),
			job.EndDate.Format(time.DateOnly),
			domain.JobStatusPending,
			0,
			job.MaxRetries,
			metadataJSON,
		)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("building insert query: %w", err)
	}

	_, err = r.conn.Exec(query, args...)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return fmt.Errorf("database error: %w (code: %s)", pqErr, pqErr.Code)
		}
		return fmt.Errorf("inserting jobs: %w", err)
	}

	return nil
}

func (r *reportJobRepository) GetByID(jobID string) (*domain.ReportJob, error) {
	query, args, err := squirrel.
		Select(jobColumns).
		From(reportJobsTable).
		Where(squirrel.Eq{"rj.id": jobID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building query: %w", err)
	}

	row := r.conn.QueryRow(query, args...)
	job, err := scanJobRow(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scanning job: %w", err)
	}

	return job, nil
}

func (r *reportJobRepository) ListByAccount(accountID string, limit int) ([]*domain.ReportJob, error) {
	builder := squirrel.
		Select(jobColumns).
		From(reportJobsTable).
		Where(squirrel.Eq{"rj.account_id": accountID}).
		OrderBy("rj.created_at DESC").
		PlaceholderFormat(squirrel.Dollar)

	if limit > 0 {
		builder = builder.Limit(uint64(limit))
	}

	return r.queryJobs(builder)
}

// ListByStatus returns jobs in the given statuses in creation order, so
// workers drain their backlog FIFO up to the batch size.
func (r *reportJobRepository) ListByStatus(statuses []domain.JobStatus, limit int) ([]*domain.ReportJob, error) {
	builder := squirrel.
		Select(jobColumns).
		From(reportJobsTable).
		Where(squirrel.Eq{"rj.status": statuses}).
		OrderBy("rj.created_at ASC").
		PlaceholderFormat(squirrel.Dollar)

	if limit > 0 {
		builder = builder.Limit(uint64(limit))
	}

	return r.queryJobs(builder)
}

// ExistingRangeKeys returns the deduplication keys of every job that is
// queued, in flight or completed for the account. Failed and expired jobs
// are excluded so a later planning pass can recreate their ranges.
func (r *reportJobRepository) ExistingRangeKeys(accountID string) (map[string]struct{}, error) {
	query, args, err := squirrel.
		Select("rj.account_id, rj.ad_product, rj.report_type, rj.start_date, rj.end_date").
		From(reportJobsTable).
		Where(squirrel.Eq{"rj.account_id": accountID}).
		Where(squirrel.Eq{"rj.status": []domain.JobStatus{
			domain.JobStatusPending,
			domain.JobStatusSubmitted,
			domain.JobStatusProcessing,
			domain.JobStatusCompleted,
		}}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building query: %w", err)
	}

	rows, err := r.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying existing ranges: %w", err)
	}
	defer rows.Close()

	keys := make(map[string]struct{})
	for rows.Next() {
		var acc string
		var product domain.AdProduct
		var reportType domain.ReportType
		var start, end time.Time
		if err := rows.Scan(&acc, &product, &reportType, &start, &end); err != nil {
			return nil, fmt.Errorf("scanning range key: %w", err)
		}
		keys[domain.RangeKey(acc, product, reportType, start, end)] = struct{}{}
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating range keys: %w", err)
	}

	return keys, nil
}

func (r *reportJobRepository) CountByStatus(accountID string) (map[domain.JobStatus]int, error) {
	query, args, err := squirrel.
		Select("rj.status, COUNT(*)").
		From(reportJobsTable).
		Where(squirrel.Eq{"rj.account_id": accountID}).
		GroupBy("rj.status").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building query: %w", err)
	}

	rows, err := r.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("counting jobs: %w", err)
	}
	defer rows.Close()

	counts := make(map[domain.JobStatus]int)
	for rows.Next() {
		var status domain.JobStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scanning count: %w", err)
		}
		counts[status] = count
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating counts: %w", err)
	}

	return counts, nil
}

// MarkSubmitted moves a pending job to submitted and records the vendor's
// report handle. The status guard enforces the state machine in SQL, so two
// workers racing on one job cannot both win.
func (r *reportJobRepository) MarkSubmitted(jobID, externalReportID string) error {
	return r.guardedUpdate(
		squirrel.Update("report_jobs").
			Set("status", domain.JobStatusSubmitted).
			Set("external_report_id", externalReportID).
			Set("submitted_at", squirrel.Expr("NOW()")).
			Set("updated_at", squirrel.Expr("NOW()")).
			Where(squirrel.Eq{"id": jobID, "status": domain.JobStatusPending}),
	)
}

// MarkProcessing records that the vendor acknowledged the report but has not
// finished it. Safe to call repeatedly.
func (r *reportJobRepository) MarkProcessing(jobID string) error {
	return r.guardedUpdate(
		squirrel.Update("report_jobs").
			Set("status", domain.JobStatusProcessing).
			Set("updated_at", squirrel.Expr("NOW()")).
			Where(squirrel.Eq{
				"id":     jobID,
				"status": []domain.JobStatus{domain.JobStatusSubmitted, domain.JobStatusProcessing},
			}),
	)
}

func (r *reportJobRepository) MarkCompleted(jobID, downloadURL string) error {
	return r.guardedUpdate(
		squirrel.Update("report_jobs").
			Set("status", domain.JobStatusCompleted).
			Set("download_url", downloadURL).
			Set("completed_at", squirrel.Expr("NOW()")).
			Set("updated_at", squirrel.Expr("NOW()")).
			Where(squirrel.Eq{
				"id":     jobID,
				"status": []domain.JobStatus{domain.JobStatusSubmitted, domain.JobStatusProcessing},
			}),
	)
}

func (r *reportJobRepository) MarkFailed(jobID, errorMessage string) error {
	return r.guardedUpdate(
		squirrel.Update("report_jobs").
			Set("status", domain.JobStatusFailed).
			Set("error_message", errorMessage).
			Set("updated_at", squirrel.Expr("NOW()")).
			Where(squirrel.Eq{
				"id": jobID,
				"status": []domain.JobStatus{
					domain.JobStatusPending,
					domain.JobStatusSubmitted,
					domain.JobStatusProcessing,
				},
			}),
	)
}

func (r *reportJobRepository) MarkExpired(jobID, errorMessage string) error {
	return r.guardedUpdate(
		squirrel.Update("report_jobs").
			Set("status", domain.JobStatusExpired).
			Set("error_message", errorMessage).
			Set("updated_at", squirrel.Expr("NOW()")).
			Where(squirrel.Eq{
				"id": jobID,
				"status": []domain.JobStatus{
					domain.JobStatusPending,
					domain.JobStatusSubmitted,
					domain.JobStatusProcessing,
				},
			}),
	)
}

// IncrementRetry bumps the retry counter of a still-pending job and returns
// the new count so the caller can decide whether the budget is exhausted.
func (r *reportJobRepository) IncrementRetry(jobID, errorMessage string) (int, error) {
	query, args, err := squirrel.
		Update("report_jobs").
		Set("retry_count", squirrel.Expr("retry_count + 1")).
		Set("error_message", errorMessage).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": jobID, "status": domain.JobStatusPending}).
		Suffix("RETURNING retry_count").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("building query: %w", err)
	}

	var retryCount int
	if err := r.conn.QueryRow(query, args...).Scan(&retryCount); err != nil {
		if err == sql.ErrNoRows {
			return 0, ErrNoTransition
		}
		return 0, fmt.Errorf("incrementing retry count: %w", err)
	}

	return retryCount, nil
}

// ClaimForProcessing atomically reserves a completed, unprocessed job for
// one worker by stamping processed_at. The stamp doubles as the idempotency
// key for the additive summary deltas: a job whose claim succeeded is the
// only one allowed to apply them.
func (r *reportJobRepository) ClaimForProcessing(jobID string) (bool, error) {
	query, args, err := squirrel.
		Update("report_jobs").
		Set("processed_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": jobID, "status": domain.JobStatusCompleted}).
		Where("processed_at IS NULL").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("building query: %w", err)
	}

	result, err := r.conn.Exec(query, args...)
	if err != nil {
		return false, fmt.Errorf("claiming job: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("reading rows affected: %w", err)
	}

	return affected == 1, nil
}

// ReleaseProcessingClaim clears the claim after a download or decompression
// failure, leaving the job completed-but-unprocessed for the next tick.
func (r *reportJobRepository) ReleaseProcessingClaim(jobID string) error {
	query, args, err := squirrel.
		Update("report_jobs").
		Set("processed_at", nil).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": jobID, "status": domain.JobStatusCompleted}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("building query: %w", err)
	}

	if _, err := r.conn.Exec(query, args...); err != nil {
		return fmt.Errorf("releasing claim: %w", err)
	}

	return nil
}

func (r *reportJobRepository) FinishProcessing(jobID string, records int, metadata domain.JobMetadata) error {
	metadataJSON, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("serializing job metadata: %w", err)
	}

	query, args, err := squirrel.
		Update("report_jobs").
		Set("records_processed", records).
		Set("metadata", metadataJSON).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": jobID, "status": domain.JobStatusCompleted}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("building query: %w", err)
	}

	if _, err := r.conn.Exec(query, args...); err != nil {
		return fmt.Errorf("finishing processing: %w", err)
	}

	return nil
}

// ReopenJob is the explicit operator retry: it is the only path that moves a
// terminal failed job back to pending.
func (r *reportJobRepository) ReopenJob(jobID string, maxRetries int) error {
	return r.guardedUpdate(
		squirrel.Update("report_jobs").
			Set("status", domain.JobStatusPending).
			Set("retry_count", 0).
			Set("max_retries", maxRetries).
			Set("error_message", "").
			Set("external_report_id", "").
			Set("download_url", "").
			Set("submitted_at", nil).
			Set("completed_at", nil).
			Set("processed_at", nil).
			Set("updated_at", squirrel.Expr("NOW()")).
			Where(squirrel.Eq{"id": jobID, "status": domain.JobStatusFailed}),
	)
}

func (r *reportJobRepository) DeleteTerminalOlderThan(days int) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -days)

	query, args, err := squirrel.
		Delete("report_jobs").
		Where(squirrel.Eq{"status": []domain.JobStatus{
			domain.JobStatusCompleted,
			domain.JobStatusFailed,
			domain.JobStatusExpired,
		}}).
		Where(squirrel.Lt{"created_at": cutoff}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("building query: %w", err)
	}

	result, err := r.conn.Exec(query, args...)
	if err != nil {
		return 0, fmt.Errorf("deleting old jobs: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("reading rows affected: %w", err)
	}

	return rowsAffected, nil
}

// guardedUpdate runs a status-guarded update and maps "no row matched" to
// ErrNoTransition.
func (r *reportJobRepository) guardedUpdate(builder squirrel.UpdateBuilder) error {
	query, args, err := builder.PlaceholderFormat(squirrel.Dollar).ToSql()
	if err != nil {
		return fmt.Errorf("building query: %w", err)
	}

	result, err := r.conn.Exec(query, args...)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return fmt.Errorf("database error: %w (code: %s)", pqErr, pqErr.Code)
		}
		return fmt.Errorf("updating job: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNoTransition
	}

	return nil
}

func (r *reportJobRepository) queryJobs(builder squirrel.SelectBuilder) ([]*domain.ReportJob, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building query: %w", err)
	}

	rows, err := r.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying jobs: %w", err)
	}
	defer rows.Close()

	jobs := make([]*domain.ReportJob, 0)
	for rows.Next() {
		job, err := scanJobRows(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning job: %w", err)
		}
		jobs = append(jobs, job)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating jobs: %w", err)
	}

	return jobs, nil
}

func scanJobRow(row *sql.Row) (*domain.ReportJob, error) {
	job := &domain.ReportJob{}
	var metadataJSON []byte
	var externalReportID, downloadURL, errorMessage sql.NullString

	err := row.Scan(
		&job.ID,
		&job.AccountID,
		&job.ProfileID,
		&job.Marketplace,
		&job.ReportType,
		&job.AdProduct,
		&job.Tier,
		&job.Priority,
		&job.StartDate,
		&job.EndDate,
		&job.Status,
		&externalReportID,
		&downloadURL,
		&job.RecordsProcessed,
		&errorMessage,
		&job.RetryCount,
		&job.MaxRetries,
		&metadataJSON,
		&job.CreatedAt,
		&job.SubmittedAt,
		&job.CompletedAt,
		&job.ProcessedAt,
		&job.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return finishJobScan(job, metadataJSON, externalReportID, downloadURL, errorMessage)
}

func scanJobRows(rows *sql.Rows) (*domain.ReportJob, error) {
	job := &domain.ReportJob{}
	var metadataJSON []byte
	var externalReportID, downloadURL, errorMessage sql.NullString

	err := rows.Scan(
		&job.ID,
		&job.AccountID,
		&job.ProfileID,
		&job.Marketplace,
		&job.ReportType,
		&job.AdProduct,
		&job.Tier,
		&job.Priority,
		&job.StartDate,
		&job.EndDate,
		&job.Status,
		&externalReportID,
		&downloadURL,
		&job.RecordsProcessed,
		&errorMessage,
		&job.RetryCount,
		&job.MaxRetries,
		&metadataJSON,
		&job.CreatedAt,
		&job.SubmittedAt,
		&job.CompletedAt,
		&job.ProcessedAt,
		&job.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return finishJobScan(job, metadataJSON, externalReportID, downloadURL, errorMessage)
}

func finishJobScan(job *domain.ReportJob, metadataJSON []byte, externalReportID, downloadURL, errorMessage sql.NullString) (*domain.ReportJob, error) {
	job.ExternalReportID = externalReportID.String
	job.DownloadURL = downloadURL.String
	job.ErrorMessage = errorMessage.String

	if len(metadataJSON) > 0 {
		if err := json.Unmarshal(metadataJSON, &job.Metadata); err != nil {
			return nil, fmt.Errorf("deserializing job metadata: %w", err)
		}
	}

	return job, nil
}
