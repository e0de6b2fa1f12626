package availability

import (
	"math"
	"time"

	"github.com/shiftmatch/shiftmatch/internal/domain/timeslot"
)

// Weekly is the canonical availability shape: weekday to ordered slots.
// It is built fresh per normalization and never mutated afterwards.
type Weekly map[time.Weekday][]timeslot.Slot

// Normalized is the output of Normalize: the canonical weekly map plus the
// recurring-hour total used for display and filtering.
type Normalized struct {
	Weekly           Weekly
	TotalWeeklyHours int
}

// Normalize collapses a raw record onto one weekly pattern.
//
// Only the first occurrence of a weekday, in record order, contributes to
// the weekly map and the hour total. A user entering many individual
// calendar dates for the same recurring shift would otherwise double-count
// it; later duplicates are dropped wholesale, not merged.
//
// Hours count only slots whose repeat type is weekly or biweekly. Custom
// (one-off) slots still land in the weekly map so overlap checks see them,
// but they add nothing to TotalWeeklyHours. Slots that fail to parse, or
// whose start is not before their end, are dropped silently; nothing in
// here returns an error.
func Normalize(rec Record) Normalized {
	weekly := make(Weekly)
	var hours float64
	seen := make(map[time.Weekday]bool)

	for _, day := range rec {
		wd, ok := weekdayOf(day.Key)
		if !ok {
			continue
		}
		if seen[wd] {
			continue
		}
		seen[wd] = true

		recurring := day.Entry.Repeat == RepeatWeekly || day.Entry.Repeat == RepeatBiweekly

		var kept []timeslot.Slot
		for _, s := range day.Entry.Slots {
			h, err := s.DurationHours()
			if err != nil {
				continue
			}
			kept = append(kept, s)
			if recurring {
				hours += h
			}
		}
		if len(kept) > 0 {
			weekly[wd] = kept
		}
	}

	return Normalized{Weekly: weekly, TotalWeeklyHours: int(math.Round(hours))}
}
