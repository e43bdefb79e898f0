package syncing

import (
	"github.com/tuobayong1988/amazon-ads-optimizer-sub009/internal/domain"
)

// TierPolicy describes how one data-age tier is sliced into report jobs.
// AgeStartDays/AgeEndDays count back from today: a tier covers report dates
// in [today-AgeEndDays, today-AgeStartDays).
type TierPolicy struct {
	Tier         domain.DataTier
	AgeStartDays int
	AgeEndDays   int
	SliceDays    int
	// ReportTypes restricts the granularities requested for this tier.
	// Nil means every granularity the ad product supports.
	ReportTypes []domain.ReportType
	Priority    int
}

// TieredPolicies is the standard backfill policy: the trailing year split
// into four tiers. Fresh data is fetched in small slices at every
// granularity; old data in coarse campaign-only slices.
var TieredPolicies = []TierPolicy{
	{
		Tier:         domain.TierRealtime,
		AgeStartDays: 0,
		AgeEndDays:   7,
		SliceDays:    1,
		ReportTypes:  nil, // all
		Priority:     domain.PriorityCritical,
	},
	{
		Tier:         domain.TierHot,
		AgeStartDays: 7,
		AgeEndDays:   30,
		SliceDays:    7,
		ReportTypes:  nil, // all
		Priority:     domain.PriorityHigh,
	},
	{
		Tier:         domain.TierWarm,
		AgeStartDays: 30,
		AgeEndDays:   90,
		SliceDays:    15,
		ReportTypes:  []domain.ReportType{domain.ReportTypeCampaign, domain.ReportTypeAdGroup},
		Priority:     domain.PriorityMedium,
	},
	{
		Tier:         domain.TierCold,
		AgeStartDays: 90,
		AgeEndDays:   365,
		SliceDays:    30,
		ReportTypes:  []domain.ReportType{domain.ReportTypeCampaign},
		Priority:     domain.PriorityLow,
	},
}

// LegacyPolicies is the older full-account sweep, kept for the control
// surface's tier-sweep operation: 90 days of hot data in 7-day slices and
// the rest of the year in 10-day slices, campaign granularity only, once
// per ad product.
var LegacyPolicies = []TierPolicy{
	{
		Tier:         domain.TierHotData,
		AgeStartDays: 0,
		AgeEndDays:   90,
		SliceDays:    7,
		ReportTypes:  []domain.ReportType{domain.ReportTypeCampaign},
		Priority:     domain.PriorityHigh,
	},
	{
		Tier:         domain.TierColdData,
		AgeStartDays: 90,
		AgeEndDays:   365,
		SliceDays:    10,
		ReportTypes:  []domain.ReportType{domain.ReportTypeCampaign},
		Priority:     domain.PriorityLow,
	},
}

// reportTypesFor resolves the policy's granularities against what the ad
// product actually supports.
func (p TierPolicy) reportTypesFor(product domain.AdProduct) []domain.ReportType {
	supported := domain.ReportTypesFor(product)
	if p.ReportTypes == nil {
		return supported
	}

	types := make([]domain.ReportType, 0, len(p.ReportTypes))
	for _, t := range p.ReportTypes {
		for _, s := range supported {
			if t == s {
				types = append(types, t)
				break
			}
		}
	}
	return types
}
