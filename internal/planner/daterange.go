// Package planner holds the pure itinerary arithmetic: date ranges, budget
// rollups, stop ordering and the calendar/itinerary projections. Nothing in
// here touches the database or the network, which keeps it trivially testable.
package planner

import (
	"time"

	"github.com/globetrotter-app/globetrotter/internal/types"
)

// parseDay parses an ISO calendar date, truncated to day granularity.
func parseDay(s string) (time.Time, bool) {
	t, err := time.Parse(types.DateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Days returns the inclusive day count of [start, end]. A same-day range
// counts as one day. Malformed input yields zero rather than an error so
// partially filled drafts render without blowing up.
func Days(start, end string) int {
	s, ok := parseDay(start)
	if !ok {
		return 0
	}
	e, ok := parseDay(end)
	if !ok {
		return 0
	}
	diff := int(e.Sub(s).Hours() / 24)
	if diff < 0 {
		return 1
	}
	return diff + 1
}

// Contains reports whether day falls within [start, end] at day granularity.
// Any malformed date makes the answer false.
func Contains(day, start, end string) bool {
	d, ok := parseDay(day)
	if !ok {
		return false
	}
	s, ok := parseDay(start)
	if !ok {
		return false
	}
	e, ok := parseDay(end)
	if !ok {
		return false
	}
	return !d.Before(s) && !d.After(e)
}

// Overlaps reports whether the two inclusive ranges share at least one day.
func Overlaps(aStart, aEnd, bStart, bEnd string) bool {
	as, ok := parseDay(aStart)
	if !ok {
		return false
	}
	ae, ok := parseDay(aEnd)
	if !ok {
		return false
	}
	bs, ok := parseDay(bStart)
	if !ok {
		return false
	}
	be, ok := parseDay(bEnd)
	if !ok {
		return false
	}
	return !as.After(be) && !bs.After(ae)
}
