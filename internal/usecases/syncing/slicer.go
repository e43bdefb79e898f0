package syncing

import (
	"time"

	"github.com/tuobayong1988/amazon-ads-optimizer-sub009/internal/domain"
	"github.com/tuobayong1988/amazon-ads-optimizer-sub009/pkg/utils"
)

// Slice splits [start, end) into inclusive date ranges of at most sliceDays
// days each. The last slice is short when the span does not divide evenly.
// A 90-day span at 7-day slices yields 13 ranges; 275 days at 10-day slices
// yields 28.
func Slice(start, end time.Time, sliceDays int) []domain.DateRange {
	if sliceDays < 1 {
		sliceDays = 1
	}

	start = utils.Midnight(start)
	end = utils.Midnight(end)
	if !start.Before(end) {
		return nil
	}

	span := int(end.Sub(start).Hours() / 24)
	ranges := make([]domain.DateRange, 0, (span+sliceDays-1)/sliceDays)

	for cur := start; cur.Before(end); cur = cur.AddDate(0, 0, sliceDays) {
		last := cur.AddDate(0, 0, sliceDays-1)
		if !last.Before(end) {
			last = end.AddDate(0, 0, -1)
		}
		ranges = append(ranges, domain.DateRange{StartDate: cur, EndDate: last})
	}
	return ranges
}

// tierRange resolves a policy's age window into concrete dates relative to
// today: [today-AgeEndDays, today-AgeStartDays). The exclusive upper bound
// keeps today itself out of scope for the realtime tier, since today's data
// is never final.
func tierRange(p TierPolicy, today time.Time) (time.Time, time.Time) {
	today = utils.Midnight(today)
	return today.AddDate(0, 0, -p.AgeEndDays), today.AddDate(0, 0, -p.AgeStartDays)
}
