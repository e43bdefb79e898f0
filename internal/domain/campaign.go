package domain

import "time"

// Campaign is the local record of an advertising campaign. The ingestion
// engine only resolves campaigns by external id and keeps their running
// summary totals current; campaign management itself lives elsewhere.
type Campaign struct {
	ID                string    `json:"id"`
	AccountID         string    `json:"account_id"`
	ExternalID        string    `json:"external_id"`
	Name              string    `json:"name"`
	AdProduct         AdProduct `json:"ad_product"`
	State             string    `json:"state"`
	TotalImpressions  int64     `json:"total_impressions"`
	TotalClicks       int64     `json:"total_clicks"`
	TotalSpend        float64   `json:"total_spend"`
	TotalSales        float64   `json:"total_sales"`
	TotalOrders       int64     `json:"total_orders"`
	LastPerformanceAt time.Time `json:"last_performance_at"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}
