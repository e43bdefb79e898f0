package domain

// DataTier buckets a date range by its age. Older data changes less often,
// so it is fetched in larger slices at lower priority.
type DataTier string

const (
	TierRealtime DataTier = "realtime"
	TierHot      DataTier = "hot"
	TierWarm     DataTier = "warm"
	TierCold     DataTier = "cold"

	// Legacy tiers used by the per-product full-account backfill sweep.
	TierHotData       DataTier = "hot_data"
	TierColdData      DataTier = "cold_data"
	TierStructureData DataTier = "structure_data"
)

// Job priorities by tier. Higher numbers are served first by the rate limiter.
const (
	PriorityCritical = 100
	PriorityHigh     = 75
	PriorityMedium   = 50
	PriorityLow      = 25
)
