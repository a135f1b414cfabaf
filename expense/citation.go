package expense

import (
	"fmt"
	"net/url"

	"github.com/voyage/perdiem-engine/calendar"
	"github.com/voyage/perdiem-engine/catalog"
)

// Citation URLs point at the public government source pages for audit and
// printing. These are the canonical published pages, not the data
// endpoints; fetching still goes through the configured proxy.
const (
	domesticCitationBase = "https://www.gsa.gov/travel/plan-book/per-diem-rates/per-diem-rates-results"
	intlCitationBase     = "https://aoprals.state.gov/web920/per_diem.asp"
)

// CitationURL derives the source page for one expense day.
//
// Domestic pages are keyed by fiscal year (October start), state, and city.
// International pages are keyed by a month/year snapshot that must actually
// exist, so a future trip date is clamped back to today's month and year.
func CitationURL(day ExpenseDay, today calendar.Date) string {
	if day.Category == catalog.CategoryDomestic {
		q := url.Values{}
		q.Set("action", "perdiems_report")
		q.Set("fiscal_year", fmt.Sprintf("%d", calendar.FiscalYearFor(day.Date)))
		q.Set("state", day.Region)
		q.Set("city", day.City)
		return domesticCitationBase + "?" + q.Encode()
	}

	month, year := clampSourceDate(day.Date, today)
	q := url.Values{}
	q.Set("country", day.Region)
	q.Set("month", fmt.Sprintf("%02d", month))
	q.Set("year", fmt.Sprintf("%d", year))
	return intlCitationBase + "?" + q.Encode()
}

// clampSourceDate keeps the cited snapshot at or before today: a trip in a
// future year cites today's month/year; a future month within the current
// year cites today's month.
func clampSourceDate(d, today calendar.Date) (int, int) {
	if d.Year() > today.Year() {
		return int(today.Month()), today.Year()
	}
	if d.Year() == today.Year() && d.Month() > today.Month() {
		return int(today.Month()), today.Year()
	}
	return int(d.Month()), d.Year()
}
