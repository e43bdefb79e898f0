package amazon

import "github.com/tuobayong1988/amazon-ads-optimizer-sub009/internal/domain"

// Column sets requested per ad product. The vendor exposes different metric
// names per product (cost vs spend, 7-day vs 14-day attributed sales), so
// each product asks for its own list.
var (
	spColumns = []string{
		"campaignId", "date", "impressions", "clicks", "cost",
		"sales7d", "purchases7d",
	}
	sbColumns = []string{
		"campaignId", "date", "impressions", "clicks", "cost",
		"sales", "purchases",
	}
	sdColumns = []string{
		"campaignId", "date", "impressions", "clicks", "cost",
		"attributedSales14d", "attributedConversions14d",
	}
)

// dimensionColumns are prepended for finer-grained report types.
var dimensionColumns = map[domain.ReportType][]string{
	domain.ReportTypeAdGroup: {"adGroupId"},
	domain.ReportTypeKeyword: {"keywordId", "keywordText", "matchType"},
	domain.ReportTypeTarget:  {"targetId", "targetingExpression"},
}

// ReportColumns returns the columns to request for a product/type pair.
func ReportColumns(product domain.AdProduct, reportType domain.ReportType) []string {
	var base []string
	switch product {
	case domain.AdProductSponsoredProducts:
		base = spColumns
	case domain.AdProductSponsoredBrands:
		base = sbColumns
	case domain.AdProductSponsoredDisplay:
		base = sdColumns
	default:
		base = spColumns
	}

	columns := make([]string, 0, len(base)+3)
	columns = append(columns, dimensionColumns[reportType]...)
	columns = append(columns, base...)
	return columns
}
