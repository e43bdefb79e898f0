package ingesting

import (
	"fmt"
	"strconv"
	"time"

	"github.com/tuobayong1988/amazon-ads-optimizer-sub009/internal/domain"
	"github.com/tuobayong1988/amazon-ads-optimizer-sub009/pkg/utils"
)

// rawRecord is one row of a downloaded report after JSON decoding. The
// reporting API is not consistent about field names across ad products or
// API revisions, so lookups go through ordered precedence lists.
type rawRecord map[string]any

func (r rawRecord) str(keys ...string) string {
	for _, key := range keys {
		switch v := r[key].(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return strconv.FormatInt(int64(v), 10)
		}
	}
	return ""
}

func (r rawRecord) num(keys ...string) (float64, bool) {
	for _, key := range keys {
		switch v := r[key].(type) {
		case float64:
			return v, true
		case string:
			if parsed, err := strconv.ParseFloat(v, 64); err == nil {
				return parsed, true
			}
		}
	}
	return 0, false
}

func (r rawRecord) count(keys ...string) int64 {
	v, _ := r.num(keys...)
	return int64(v)
}

// metricFields lists, per ad product, which report fields carry each metric
// in precedence order. Sponsored Products reports attribute over 7 days;
// Brands and Display over 14.
var metricFields = map[domain.AdProduct]struct {
	cost   []string
	sales  []string
	orders []string
}{
	domain.AdProductSponsoredProducts: {
		cost:   []string{"cost", "spend"},
		sales:  []string{"sales7d", "attributedSales7d"},
		orders: []string{"purchases7d", "attributedConversions7d"},
	},
	domain.AdProductSponsoredBrands: {
		cost:   []string{"cost", "spend"},
		sales:  []string{"sales", "attributedSales14d", "sales14d"},
		orders: []string{"purchases", "attributedConversions14d", "purchases14d"},
	},
	domain.AdProductSponsoredDisplay: {
		cost:   []string{"cost", "spend"},
		sales:  []string{"attributedSales14d", "sales"},
		orders: []string{"attributedConversions14d", "purchases"},
	},
}

// buildRow turns one report record into a performance row plus the delta it
// contributes to the campaign summary. The returned row still carries the
// vendor's external campaign id; the processor swaps in the local one.
func buildRow(job *domain.ReportJob, rec rawRecord) (*domain.PerformanceRow, domain.PerformanceDelta, error) {
	externalID := rec.str("campaignId")
	if externalID == "" {
		return nil, domain.PerformanceDelta{}, fmt.Errorf("record has no campaignId")
	}

	dateStr := rec.str("date")
	if dateStr == "" {
		return nil, domain.PerformanceDelta{}, fmt.Errorf("record has no date")
	}
	reportDate, err := utils.ParseDate(dateStr)
	if err != nil {
		return nil, domain.PerformanceDelta{}, fmt.Errorf("parsing record date %q: %w", dateStr, err)
	}

	fields, ok := metricFields[job.AdProduct]
	if !ok {
		return nil, domain.PerformanceDelta{}, fmt.Errorf("no field mapping for ad product %s", job.AdProduct)
	}

	cost, _ := rec.num(fields.cost...)
	sales, _ := rec.num(fields.sales...)

	row := &domain.PerformanceRow{
		AccountID:   job.AccountID,
		CampaignID:  externalID,
		ReportDate:  *reportDate,
		Impressions: rec.count("impressions"),
		Clicks:      rec.count("clicks"),
		Spend:       cost,
		Sales:       sales,
		Orders:      rec.count(fields.orders...),
		AdProduct:   job.AdProduct,
		DataSource:  domain.DataSourceAPI,
	}

	delta := domain.PerformanceDelta{
		Impressions: row.Impressions,
		Clicks:      row.Clicks,
		Spend:       row.Spend,
		Sales:       row.Sales,
		Orders:      row.Orders,
	}
	return row, delta, nil
}

// dayRange is the single-day range used when recording a failed record's date.
func dayRange(t time.Time) domain.DateRange {
	day := utils.Midnight(t)
	return domain.DateRange{StartDate: day, EndDate: day}
}
