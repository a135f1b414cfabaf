package calendar

import "fmt"

// =============================================================================
// RANGE - Inclusive date interval walking
// =============================================================================

// ExpandRange returns every date from start to end inclusive, ascending.
// Fails with ErrInvalidRange when end precedes start. A single-day range
// returns exactly one element.
func ExpandRange(start, end Date) ([]Date, error) {
	if end.Before(start) {
		return nil, fmt.Errorf("%w: %s > %s", ErrInvalidRange, start, end)
	}
	days := make([]Date, 0, DaysBetween(start, end)+1)
	for current := start; current.BeforeOrEqual(end); current = current.AddDays(1) {
		days = append(days, current)
	}
	return days, nil
}

// Range is an inclusive [Start, End] date interval.
type Range struct {
	Start Date
	End   Date
}

// Contains reports whether d falls within the interval, endpoints included.
func (r Range) Contains(d Date) bool {
	return d.AfterOrEqual(r.Start) && d.BeforeOrEqual(r.End)
}

// Days returns the inclusive day count; zero when the range is inverted.
func (r Range) Days() int {
	if r.End.Before(r.Start) {
		return 0
	}
	return DaysBetween(r.Start, r.End) + 1
}

func (r Range) String() string {
	return "[" + r.Start.String() + ", " + r.End.String() + "]"
}
