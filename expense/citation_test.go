package expense

import (
	"strings"
	"testing"
	"time"

	"github.com/voyage/perdiem-engine/calendar"
)

func TestCitationURL_DomesticUsesFiscalYear(t *testing.T) {
	today := calendar.NewDate(2025, time.June, 1)

	// November 2025 belongs to fiscal year 2026.
	day := domesticDay(calendar.NewDate(2025, time.November, 12), "CA", "Los Angeles")
	url := CitationURL(day, today)

	if !strings.Contains(url, "fiscal_year=2026") {
		t.Errorf("url missing fiscal year 2026: %s", url)
	}
	if !strings.Contains(url, "state=CA") || !strings.Contains(url, "city=Los+Angeles") {
		t.Errorf("url missing location params: %s", url)
	}
	if !strings.HasPrefix(url, "https://www.gsa.gov/") {
		t.Errorf("unexpected host: %s", url)
	}
}

func TestCitationURL_InternationalClampsToToday(t *testing.T) {
	today := calendar.NewDate(2025, time.June, 1)

	cases := []struct {
		name      string
		tripDate  calendar.Date
		wantMonth string
		wantYear  string
	}{
		{"past date cited as-is", calendar.NewDate(2024, time.March, 10), "month=03", "year=2024"},
		{"future year clamps to today", calendar.NewDate(2027, time.February, 1), "month=06", "year=2025"},
		{"future month in current year clamps month", calendar.NewDate(2025, time.December, 5), "month=06", "year=2025"},
		{"current month as-is", calendar.NewDate(2025, time.June, 20), "month=06", "year=2025"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			day := intlDay(tc.tripDate, "France", "Paris")
			url := CitationURL(day, today)
			if !strings.Contains(url, tc.wantMonth) || !strings.Contains(url, tc.wantYear) {
				t.Errorf("url = %s, want %s and %s", url, tc.wantMonth, tc.wantYear)
			}
			if !strings.Contains(url, "country=France") {
				t.Errorf("url missing country: %s", url)
			}
		})
	}
}
