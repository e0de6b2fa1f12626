// Package timeslot provides clock-time parsing and interval overlap tests
// for weekly schedule slots. All functions are pure; a failed parse is a
// recoverable, slot-local condition that callers translate into "this slot
// contributes nothing".
package timeslot

import (
	"strconv"
	"strings"
)

// Minutes bounds for a day.
const (
	minutesPerHour = 60
	minutesPerDay  = 24 * minutesPerHour
)

// Slot is a single contiguous interval within a day, expressed as clock
// strings. Valid slots satisfy parsed(Start) < parsed(End); callers drop
// slots violating the invariant rather than failing the whole schedule.
type Slot struct {
	Start string `json:"startTime"`
	End   string `json:"endTime"`
}

// Minutes returns the parsed start and end offsets in minutes since
// midnight. An inverted or zero-length slot yields a *ParseError.
func (s Slot) Minutes() (start, end int, err error) {
	start, err = ParseToMinutes(s.Start)
	if err != nil {
		return 0, 0, err
	}
	end, err = ParseToMinutes(s.End)
	if err != nil {
		return 0, 0, err
	}
	if start >= end {
		return 0, 0, &ParseError{Input: s.Start + "-" + s.End, Reason: "start not before end"}
	}
	return start, end, nil
}

// DurationHours returns the slot length in fractional hours, or an error
// when either endpoint does not parse.
func (s Slot) DurationHours() (float64, error) {
	start, end, err := s.Minutes()
	if err != nil {
		return 0, err
	}
	return float64(end-start) / minutesPerHour, nil
}

// ParseToMinutes parses a clock string into minutes since midnight
// (0..1439). Two forms are accepted: 24-hour "HH:MM" and 12-hour
// "H:MM AM"/"H:MM PM" (meridiem case-insensitive).
func ParseToMinutes(raw string) (int, error) {
	s := strings.TrimSpace(raw)

	meridiem := ""
	upper := strings.ToUpper(s)
	switch {
	case strings.HasSuffix(upper, "AM"):
		meridiem = "AM"
	case strings.HasSuffix(upper, "PM"):
		meridiem = "PM"
	}
	if meridiem != "" {
		s = strings.TrimSpace(s[:len(s)-2])
	}

	hh, mm, ok := strings.Cut(s, ":")
	if !ok {
		return 0, &ParseError{Input: raw, Reason: "missing ':' separator"}
	}
	hour, err := strconv.Atoi(hh)
	if err != nil {
		return 0, &ParseError{Input: raw, Reason: "bad hour"}
	}
	minute, err := strconv.Atoi(mm)
	if err != nil {
		return 0, &ParseError{Input: raw, Reason: "bad minute"}
	}
	if minute < 0 || minute > 59 {
		return 0, &ParseError{Input: raw, Reason: "minute out of range"}
	}

	if meridiem != "" {
		if hour < 1 || hour > 12 {
			return 0, &ParseError{Input: raw, Reason: "hour out of range"}
		}
		if hour == 12 {
			hour = 0
		}
		if meridiem == "PM" {
			hour += 12
		}
	} else if hour < 0 || hour > 23 {
		return 0, &ParseError{Input: raw, Reason: "hour out of range"}
	}

	return hour*minutesPerHour + minute, nil
}

// Overlaps reports whether a and b share strictly more than a boundary
// instant: startA < endB && startB < endA. Back-to-back slots touching at
// a boundary do not overlap. A slot that fails to parse never overlaps
// anything; the error is swallowed here because scoring treats such slots
// as excluded, not fatal.
func Overlaps(a, b Slot) bool {
	aStart, aEnd, err := a.Minutes()
	if err != nil {
		return false
	}
	bStart, bEnd, err := b.Minutes()
	if err != nil {
		return false
	}
	return aStart < bEnd && bStart < aEnd
}
