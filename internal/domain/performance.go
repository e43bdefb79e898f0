package domain

import "time"

// PerformanceRow is one (account, campaign, date) observation taken from a
// downloaded report. Rows are upserted by key: re-ingesting an overlapping
// range overwrites metrics instead of accumulating them.
type PerformanceRow struct {
	ID          int64     `json:"id"`
	AccountID   string    `json:"account_id"`
	CampaignID  string    `json:"campaign_id"`
	ReportDate  time.Time `json:"report_date"`
	Impressions int64     `json:"impressions"`
	Clicks      int64     `json:"clicks"`
	Spend       float64   `json:"spend"`
	Sales       float64   `json:"sales"`
	Orders      int64     `json:"orders"`
	AdProduct   AdProduct `json:"ad_product"`
	DataSource  string    `json:"data_source"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// DataSourceAPI tags rows ingested from the reporting API.
const DataSourceAPI = "api"

// PerformanceDelta is the additive contribution of one report record to a
// campaign's running summary totals.
type PerformanceDelta struct {
	Impressions int64
	Clicks      int64
	Spend       float64
	Sales       float64
	Orders      int64
}

// Add accumulates another delta into d.
func (d *PerformanceDelta) Add(other PerformanceDelta) {
	d.Impressions += other.Impressions
	d.Clicks += other.Clicks
	d.Spend += other.Spend
	d.Sales += other.Sales
	d.Orders += other.Orders
}
