package repository

import (
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/tuobayong1988/amazon-ads-optimizer-sub009/infrastructure/database/postgres"
	"github.com/tuobayong1988/amazon-ads-optimizer-sub009/internal/domain"
)

const (
	campaignsTable = "campaigns c"
)

type CampaignRepository interface {
	GetByExternalID(accountID, externalID string) (*domain.Campaign, error)
	GetByID(campaignID string) (*domain.Campaign, error)
}

type campaignRepository struct {
	conn *postgres.Connection
}

func NewCampaignRepository(conn *postgres.Connection) CampaignRepository {
	return &campaignRepository{
		conn: conn,
	}
}

func (r *campaignRepository) GetByExternalID(accountID, externalID string) (*domain.Campaign, error) {
	return r.getCampaign(squirrel.Eq{"c.account_id": accountID, "c.external_id": externalID})
}

func (r *campaignRepository) GetByID(campaignID string) (*domain.Campaign, error) {
	return r.getCampaign(squirrel.Eq{"c.id": campaignID})
}

func (r *campaignRepository) getCampaign(whereClause squirrel.Eq) (*domain.Campaign, error) {
	query, args, err := squirrel.
		Select(`c.id, c.account_id, c.external_id, c.name, c.ad_product, c.state,
			c.total_impressions, c.total_clicks, c.total_spend, c.total_sales,
			c.total_orders, c.last_performance_at, c.created_at, c.updated_at`).
		From(campaignsTable).
		Where(whereClause).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building query: %w", err)
	}

	row := r.conn.QueryRow(query, args...)

	campaign := &domain.Campaign{}
	var lastPerformanceAt sql.NullTime
	err = row.Scan(
		&campaign.ID,
		&campaign.AccountID,
		&campaign.ExternalID,
		&campaign.Name,
		&campaign.AdProduct,
		&campaign.State,
		&campaign.TotalImpressions,
		&campaign.TotalClicks,
		&campaign.TotalSpend,
		&campaign.TotalSales,
		&campaign.TotalOrders,
		&lastPerformanceAt,
		&campaign.CreatedAt,
		&campaign.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scanning campaign: %w", err)
	}

	campaign.LastPerformanceAt = lastPerformanceAt.Time
	return campaign, nil
}
