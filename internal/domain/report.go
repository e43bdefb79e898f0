package domain

// AdProduct identifies the Amazon Ads product line a report belongs to.
type AdProduct string

const (
	AdProductSponsoredProducts AdProduct = "sp"
	AdProductSponsoredBrands   AdProduct = "sb"
	AdProductSponsoredDisplay  AdProduct = "sd"
)

// AllAdProducts lists the ad products swept during initialization.
var AllAdProducts = []AdProduct{
	AdProductSponsoredProducts,
	AdProductSponsoredBrands,
	AdProductSponsoredDisplay,
}

// AttributionWindowDays returns the vendor-side attribution window for the
// product. Conversion data for a day is not final until the window closes,
// so recent history is re-walked periodically.
func (p AdProduct) AttributionWindowDays() int {
	switch p {
	case AdProductSponsoredProducts:
		return 7
	case AdProductSponsoredBrands, AdProductSponsoredDisplay:
		return 14
	default:
		return 14
	}
}

// ReportType identifies the granularity of a performance report.
type ReportType string

const (
	ReportTypeCampaign ReportType = "campaign"
	ReportTypeAdGroup  ReportType = "adGroup"
	ReportTypeKeyword  ReportType = "keyword"
	ReportTypeTarget   ReportType = "target"
)

// AllReportTypes lists every report granularity the engine requests.
var AllReportTypes = []ReportType{
	ReportTypeCampaign,
	ReportTypeAdGroup,
	ReportTypeKeyword,
	ReportTypeTarget,
}

// ReportTypesFor returns the report granularities that exist for a product.
// Keyword reports only exist for Sponsored Products; Brands and Display use
// targeting reports instead.
func ReportTypesFor(product AdProduct) []ReportType {
	switch product {
	case AdProductSponsoredProducts:
		return []ReportType{ReportTypeCampaign, ReportTypeAdGroup, ReportTypeKeyword, ReportTypeTarget}
	case AdProductSponsoredBrands:
		return []ReportType{ReportTypeCampaign, ReportTypeAdGroup, ReportTypeKeyword}
	case AdProductSponsoredDisplay:
		return []ReportType{ReportTypeCampaign, ReportTypeAdGroup, ReportTypeTarget}
	default:
		return []ReportType{ReportTypeCampaign}
	}
}
