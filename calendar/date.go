/*
Package calendar provides the date primitives the expense engine is built on.

PURPOSE:
  Every trip, rate season, and citation in this system is keyed by a calendar
  date. This package owns the canonical date representation, strict parsing,
  range walking, and the two year-derivation rules (fiscal year and API year)
  that the rate lookup and citation layers depend on.

KEY CONCEPTS:
  - Date: an immutable day-granularity value in the supported range
    [2020, 2040]. The canonical wire form is YYYY-MM-DD and nothing else.
  - Fiscal year: the domestic rate publisher's year starts in October, so
    Oct-Dec dates belong to the NEXT fiscal year. Used for citations only.
  - API year: rate data for future years does not exist yet, so lookups for
    future dates are clamped back to the current year.

DESIGN PRINCIPLES:
  1. Immutability: Date values are never mutated, only derived.
  2. Strictness: "2025-6-15", "06/15/2025", and out-of-range years are all
     rejected at the boundary; the rest of the engine never re-validates.
  3. Determinism: anything that depends on "today" takes today as an
     argument so callers and tests control the clock.

SEE ALSO:
  - range.go: ExpandRange and day walking
  - errors.go: sentinel errors for the taxonomy in this package
*/
package calendar

import (
	"fmt"
	"time"
)

// Supported year range. Dates outside this window are rejected everywhere.
const (
	MinYear = 2020
	MaxYear = 2040
)

// =============================================================================
// DATE - Immutable day-granularity value
// =============================================================================

// Date is a calendar date within [MinYear, MaxYear], normalized to midnight UTC.
// The zero value is invalid; construct via NewDate or ParseDate.
type Date struct {
	t time.Time
}

// NewDate builds a Date without range checking. Callers constructing dates
// from literals (tests, static tables) use this; external input goes through
// ParseDate.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// Today returns the current date in UTC.
func Today() Date {
	now := time.Now().UTC()
	return NewDate(now.Year(), now.Month(), now.Day())
}

// FromTime truncates a time.Time to a Date in UTC.
func FromTime(t time.Time) Date {
	u := t.UTC()
	return NewDate(u.Year(), u.Month(), u.Day())
}

// ParseDate parses the canonical YYYY-MM-DD form. It rejects any other
// shape, impossible dates (2025-02-30), and years outside [MinYear, MaxYear].
func ParseDate(s string) (Date, error) {
	if len(s) != 10 || s[4] != '-' || s[7] != '-' {
		return Date{}, fmt.Errorf("%w: %q is not YYYY-MM-DD", ErrInvalidDate, s)
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	d := FromTime(t)
	// time.Parse normalizes some impossible dates; a round-trip catches them.
	if d.String() != s {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	if !d.InRange() {
		return Date{}, fmt.Errorf("%w: year %d outside [%d, %d]", ErrInvalidDate, d.Year(), MinYear, MaxYear)
	}
	return d, nil
}

// IsValidDate reports whether s parses as a supported date.
func IsValidDate(s string) bool {
	_, err := ParseDate(s)
	return err == nil
}

// Comparison
func (d Date) Before(other Date) bool        { return d.t.Before(other.t) }
func (d Date) After(other Date) bool         { return d.t.After(other.t) }
func (d Date) Equal(other Date) bool         { return d.t.Equal(other.t) }
func (d Date) BeforeOrEqual(other Date) bool { return !d.After(other) }
func (d Date) AfterOrEqual(other Date) bool  { return !d.Before(other) }

// Properties
func (d Date) Year() int         { return d.t.Year() }
func (d Date) Month() time.Month { return d.t.Month() }
func (d Date) Day() int          { return d.t.Day() }
func (d Date) IsZero() bool      { return d.t.IsZero() }
func (d Date) Time() time.Time   { return d.t }

// InRange reports whether the date's year is within the supported window.
func (d Date) InRange() bool {
	y := d.Year()
	return y >= MinYear && y <= MaxYear
}

// AddDays performs unchecked calendar arithmetic (crosses month and year
// boundaries correctly). Use OffsetDate when the result must stay in range.
func (d Date) AddDays(n int) Date {
	return Date{t: d.t.AddDate(0, 0, n)}
}

// StartOfMonth returns the first day of d's month.
func (d Date) StartOfMonth() Date {
	return NewDate(d.Year(), d.Month(), 1)
}

func (d Date) String() string {
	return d.t.Format("2006-01-02")
}

// MarshalJSON/UnmarshalJSON keep the canonical form on the wire.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	if len(b) < 2 || b[0] != '"' || b[len(b)-1] != '"' {
		return fmt.Errorf("%w: %s", ErrInvalidDate, string(b))
	}
	parsed, err := ParseDate(string(b[1 : len(b)-1]))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// OffsetDate returns d shifted by the given number of days (negative moves
// backward). Fails with ErrDateOutOfRange if the result leaves the
// supported window.
func OffsetDate(d Date, days int) (Date, error) {
	out := d.AddDays(days)
	if !out.InRange() {
		return Date{}, fmt.Errorf("%w: %s%+d days", ErrDateOutOfRange, d, days)
	}
	return out, nil
}

// DaysBetween returns the number of days from `from` to `to` (negative when
// to precedes from).
func DaysBetween(from, to Date) int {
	return int(to.t.Sub(from.t).Hours() / 24)
}

// =============================================================================
// YEAR DERIVATION
// =============================================================================

// FiscalYearFor maps a date to the domestic rate publisher's fiscal year,
// which starts October 1. A date in Oct-Dec belongs to the following fiscal
// year. Used for citation URLs, never for rate lookup.
func FiscalYearFor(d Date) int {
	if d.Month() >= time.October {
		return d.Year() + 1
	}
	return d.Year()
}

// APIYearFor returns the year to request rate data for. Data for years
// beyond today does not exist yet, so future dates are clamped to today's
// year; past and current dates use their own year.
func APIYearFor(d Date, today Date) int {
	if d.Year() > today.Year() {
		return today.Year()
	}
	return d.Year()
}
