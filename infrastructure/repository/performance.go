package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/tuobayong1988/amazon-ads-optimizer-sub009/infrastructure/database/postgres"
	"github.com/tuobayong1988/amazon-ads-optimizer-sub009/internal/domain"
)

const (
	performanceTable = "campaign_performance cp"
)

type PerformanceRepository interface {
	// ApplyRecord upserts the detail row (last-write-wins by key) and adds
	// the delta to the campaign's summary totals in one transaction.
	ApplyRecord(ctx context.Context, row *domain.PerformanceRow, delta domain.PerformanceDelta) error
	GetByKey(accountID, campaignID string, date time.Time) (*domain.PerformanceRow, error)
	GetByDateRange(accountID string, startDate, endDate time.Time) ([]*domain.PerformanceRow, error)
}

type performanceRepository struct {
	conn *postgres.Connection
}

func NewPerformanceRepository(conn *postgres.Connection) PerformanceRepository {
	return &performanceRepository{
		conn: conn,
	}
}

func (r *performanceRepository) ApplyRecord(ctx context.Context, row *domain.PerformanceRow, delta domain.PerformanceDelta) error {
	return r.conn.RunInTransaction(ctx, func(tx *sql.Tx) error {
		if err := upsertRow(tx, row); err != nil {
			return err
		}
		return applyCampaignDelta(tx, row.AccountID, row.CampaignID, row.ReportDate, delta)
	})
}

// upsertRow writes the detail row. Metrics are overwritten, not accumulated:
// re-ingesting an overlapping range must leave identical values.
func upsertRow(tx *sql.Tx, row *domain.PerformanceRow) error {
	query, args, err := squirrel.StatementBuilder.
		Insert("campaign_performance").
		Columns(
			"account_id", "campaign_id", "report_date", "impressions",
			"clicks", "spend", "sales", "orders", "ad_product", "data_source",
		).
		Values(
			row.AccountID,
			row.CampaignID,
			row.ReportDate.Format(time.DateOnly),
			row.Impressions,
			row.Clicks,
			row.Spend,
			row.Sales,
			row.Orders,
			row.AdProduct,
			row.DataSource,
		).
		Suffix(`
			ON CONFLICT (account_id, campaign_id, report_date) DO UPDATE SET
				impressions = EXCLUDED.impressions,
				clicks = EXCLUDED.clicks,
				spend = EXCLUDED.spend,
				sales = EXCLUDED.sales,
				orders = EXCLUDED.orders,
				ad_product = EXCLUDED.ad_product,
				data_source = EXCLUDED.data_source,
				updated_at = NOW()
		`).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("building upsert query: %w", err)
	}

	if _, err := tx.Exec(query, args...); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return fmt.Errorf("database error: %w (code: %s)", pqErr, pqErr.Code)
		}
		return fmt.Errorf("upserting performance row: %w", err)
	}

	return nil
}

// applyCampaignDelta adds the record's contribution to the campaign summary.
// Additive on purpose: summaries reflect cumulative history, protected
// against double-application by the job's processing claim.
func applyCampaignDelta(tx *sql.Tx, accountID, campaignID string, reportDate time.Time, delta domain.PerformanceDelta) error {
	query, args, err := squirrel.
		Update("campaigns").
		Set("total_impressions", squirrel.Expr("total_impressions + ?", delta.Impressions)).
		Set("total_clicks", squirrel.Expr("total_clicks + ?", delta.Clicks)).
		Set("total_spend", squirrel.Expr("total_spend + ?", delta.Spend)).
		Set("total_sales", squirrel.Expr("total_sales + ?", delta.Sales)).
		Set("total_orders", squirrel.Expr("total_orders + ?", delta.Orders)).
		Set("last_performance_at", reportDate.Format(time.DateOnly)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"account_id": accountID, "id": campaignID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("building delta query: %w", err)
	}

	if _, err := tx.Exec(query, args...); err != nil {
		return fmt.Errorf("applying campaign delta: %w", err)
	}

	return nil
}

func (r *performanceRepository) GetByKey(accountID, campaignID string, date time.Time) (*domain.PerformanceRow, error) {
	query, args, err := squirrel.
		Select(performanceColumns()).
		From(performanceTable).
		Where(squirrel.Eq{
			"cp.account_id":  accountID,
			"cp.campaign_id": campaignID,
			"cp.report_date": date.Format(time.DateOnly),
		}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building query: %w", err)
	}

	row := r.conn.QueryRow(query, args...)
	perf, err := scanPerformanceRow(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scanning performance row: %w", err)
	}

	return perf, nil
}

func (r *performanceRepository) GetByDateRange(accountID string, startDate, endDate time.Time) ([]*domain.PerformanceRow, error) {
	query, args, err := squirrel.
		Select(performanceColumns()).
		From(performanceTable).
		Where(squirrel.Eq{"cp.account_id": accountID}).
		Where(squirrel.GtOrEq{"cp.report_date": startDate.Format(time.DateOnly)}).
		Where(squirrel.LtOrEq{"cp.report_date": endDate.Format(time.DateOnly)}).
		OrderBy("cp.report_date ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building query: %w", err)
	}

	rows, err := r.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying performance rows: %w", err)
	}
	defer rows.Close()

	results := make([]*domain.PerformanceRow, 0)
	for rows.Next() {
		perf := &domain.PerformanceRow{}
		err := rows.Scan(
			&perf.ID,
			&perf.AccountID,
			&perf.CampaignID,
			&perf.ReportDate,
			&perf.Impressions,
			&perf.Clicks,
			&perf.Spend,
			&perf.Sales,
			&perf.Orders,
			&perf.AdProduct,
			&perf.DataSource,
			&perf.CreatedAt,
			&perf.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning performance row: %w", err)
		}
		results = append(results, perf)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating performance rows: %w", err)
	}

	return results, nil
}

func performanceColumns() string {
	return `cp.id, cp.account_id, cp.campaign_id, cp.report_date, cp.impressions,
		cp.clicks, cp.spend, cp.sales, cp.orders, cp.ad_product, cp.data_source,
		cp.created_at, cp.updated_at`
}

func scanPerformanceRow(row *sql.Row) (*domain.PerformanceRow, error) {
	perf := &domain.PerformanceRow{}
	err := row.Scan(
		&perf.ID,
		&perf.AccountID,
		&perf.CampaignID,
		&perf.ReportDate,
		&perf.Impressions,
		&perf.Clicks,
		&perf.Spend,
		&perf.Sales,
		&perf.Orders,
		&perf.AdProduct,
		&perf.DataSource,
		&perf.CreatedAt,
		&perf.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return perf, nil
}
