package syncing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestSlice(t *testing.T) {
	tests := []struct {
		name      string
		start     string
		end       string
		sliceDays int
		want      int
	}{
		{
			name:      "90 days in 7-day slices",
			start:     "2026-01-01",
			end:       "2026-04-01",
			sliceDays: 7,
			want:      13,
		},
		{
			name:      "275 days in 10-day slices",
			start:     "2025-06-01",
			end:       "2026-03-03",
			sliceDays: 10,
			want:      28,
		},
		{
			name:      "exact multiple",
			start:     "2026-01-01",
			end:       "2026-01-15",
			sliceDays: 7,
			want:      2,
		},
		{
			name:      "single day",
			start:     "2026-01-01",
			end:       "2026-01-02",
			sliceDays: 7,
			want:      1,
		},
		{
			name:      "empty span",
			start:     "2026-01-02",
			end:       "2026-01-02",
			sliceDays: 7,
			want:      0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Slice(date(tt.start), date(tt.end), tt.sliceDays)
			require.Len(t, got, tt.want)

			if tt.want == 0 {
				return
			}

			// Slices tile the span: contiguous, no gaps, no overlap.
			assert.Equal(t, date(tt.start), got[0].StartDate)
			assert.Equal(t, date(tt.end).AddDate(0, 0, -1), got[len(got)-1].EndDate)
			for i := 1; i < len(got); i++ {
				assert.Equal(t, got[i-1].EndDate.AddDate(0, 0, 1), got[i].StartDate)
			}
			for _, rng := range got {
				assert.LessOrEqual(t, rng.Days(), tt.sliceDays)
				assert.GreaterOrEqual(t, rng.Days(), 1)
			}
		})
	}
}

func TestSliceUnevenTail(t *testing.T) {
	got := Slice(date("2026-01-01"), date("2026-01-11"), 7)
	require.Len(t, got, 2)
	assert.Equal(t, 7, got[0].Days())
	assert.Equal(t, 3, got[1].Days())
}

func TestTierRange(t *testing.T) {
	today := date("2026-03-15")

	start, end := tierRange(TierPolicy{AgeStartDays: 0, AgeEndDays: 7}, today)
	assert.Equal(t, date("2026-03-08"), start)
	assert.Equal(t, date("2026-03-15"), end)

	start, end = tierRange(TierPolicy{AgeStartDays: 90, AgeEndDays: 365}, today)
	assert.Equal(t, date("2025-03-15"), start)
	assert.Equal(t, date("2025-12-15"), end)
}
