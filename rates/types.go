/*
types.go - Raw rate record shapes as the upstream sources publish them

PURPOSE:
  These types mirror the external data contracts: the domestic JSON rate
  API and the international XML archive. The resolver consumes them and
  projects the figures for one specific day; nothing outside the gateway
  and resolver should need these shapes.

SOURCE SCHEMAS:
  Domestic lodging: JSON array, one record per (state, city[, county]),
    twelve month columns of lodging caps as numeric strings, one M&IE total.
  Domestic meals:   JSON array keyed by M&IE total, per-meal deduction
    amounts, first/last-day total, incidentals cap.
  International:    XML records with lodging and meals rates qualified by an
    effective window (full dates) and a season window (month/day only).

SEE ALSO:
  - archive.go: XML extraction producing IntlRateRecord
  - gateway.go: fetching and caching of these collections
*/
package rates

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/voyage/perdiem-engine/calendar"
)

// =============================================================================
// DOMESTIC RECORDS
// =============================================================================

// DomesticRateRecord is one row of the domestic lodging table. The State
// and County fields are nullable in the source feed.
type DomesticRateRecord struct {
	State  *string `json:"State"`
	City   string  `json:"City"`
	County *string `json:"County"`

	Jan string `json:"Jan"`
	Feb string `json:"Feb"`
	Mar string `json:"Mar"`
	Apr string `json:"Apr"`
	May string `json:"May"`
	Jun string `json:"Jun"`
	Jul string `json:"Jul"`
	Aug string `json:"Aug"`
	Sep string `json:"Sep"`
	Oct string `json:"Oct"`
	Nov string `json:"Nov"`
	Dec string `json:"Dec"`

	// Meals is the M&IE total used to join against the meals table.
	Meals decimal.Decimal `json:"Meals"`
	DID   int             `json:"DID"`
}

// StateCode returns the record's state code, empty for null.
func (r DomesticRateRecord) StateCode() string {
	if r.State == nil {
		return ""
	}
	return *r.State
}

// MonthCap returns the lodging cap column for the given month.
func (r DomesticRateRecord) MonthCap(m time.Month) (decimal.Decimal, error) {
	columns := [...]string{
		r.Jan, r.Feb, r.Mar, r.Apr, r.May, r.Jun,
		r.Jul, r.Aug, r.Sep, r.Oct, r.Nov, r.Dec,
	}
	raw := strings.TrimSpace(columns[m-1])
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("lodging cap for %s/%s in %s: %q is not numeric", r.City, r.StateCode(), m, raw)
	}
	return v, nil
}

// StandardRateCity is the catch-all city the domestic table uses for
// locations without a city-specific row.
const StandardRateCity = "Standard Rate"

// MealsRateRecord is one row of the meals table: an M&IE total with its
// per-meal deduction amounts and incidentals cap.
type MealsRateRecord struct {
	Total        decimal.Decimal `json:"Total"`
	Breakfast    decimal.Decimal `json:"Breakfast"`
	Lunch        decimal.Decimal `json:"Lunch"`
	Dinner       decimal.Decimal `json:"Dinner"`
	Incidentals  decimal.Decimal `json:"Incidentals"`
	FirstLastDay decimal.Decimal `json:"FirstLastDay"`
}

// =============================================================================
// INTERNATIONAL RECORDS
// =============================================================================

// IntlRateRecord is one parsed record of the international archive. Date
// fields stay as source text (MM/DD or MM/DD/YYYY); accessors below parse
// them on demand.
type IntlRateRecord struct {
	LocationName string `xml:"location_name"`
	CountryName  string `xml:"country_name"`
	LodgingRate  string `xml:"lodging_rate"`
	LocalMeals   string `xml:"local_meals"`
	EffDate      string `xml:"eff_date"`
	ExpDate      string `xml:"exp_date"`
	SeasonStart  string `xml:"start_date"`
	SeasonEnd    string `xml:"end_date"`
}

// Lodging returns the record's lodging rate as a decimal.
func (r IntlRateRecord) Lodging() (decimal.Decimal, error) {
	return parseMoney(r.LodgingRate, "lodging_rate")
}

// MealsTotal returns the record's M&IE total as a decimal.
func (r IntlRateRecord) MealsTotal() (decimal.Decimal, error) {
	return parseMoney(r.LocalMeals, "local_meals")
}

// Effective parses the record's effective date (MM/DD/YYYY).
func (r IntlRateRecord) Effective() (calendar.Date, error) {
	return parseFullDate(r.EffDate)
}

// Expiration parses the record's expiration date (MM/DD/YYYY).
func (r IntlRateRecord) Expiration() (calendar.Date, error) {
	return parseFullDate(r.ExpDate)
}

// Season parses the record's season window, which carries no year.
func (r IntlRateRecord) Season() (start, end MonthDay, err error) {
	start, err = ParseMonthDay(r.SeasonStart)
	if err != nil {
		return MonthDay{}, MonthDay{}, err
	}
	end, err = ParseMonthDay(r.SeasonEnd)
	if err != nil {
		return MonthDay{}, MonthDay{}, err
	}
	return start, end, nil
}

func parseMoney(raw, field string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s: %q is not numeric", field, raw)
	}
	return d, nil
}

// =============================================================================
// SOURCE DATE FORMS
// =============================================================================

// MonthDay is a month/day pair with no year, the form season boundaries
// arrive in. Anchoring to a concrete year happens at resolution time.
type MonthDay struct {
	Month time.Month
	Day   int
}

// ParseMonthDay accepts MM/DD, tolerating a trailing /YYYY which some
// records carry even in season fields.
func ParseMonthDay(s string) (MonthDay, error) {
	parts := strings.Split(strings.TrimSpace(s), "/")
	if len(parts) != 2 && len(parts) != 3 {
		return MonthDay{}, fmt.Errorf("month/day %q is not MM/DD", s)
	}
	month, err := strconv.Atoi(parts[0])
	if err != nil || month < 1 || month > 12 {
		return MonthDay{}, fmt.Errorf("month/day %q has invalid month", s)
	}
	day, err := strconv.Atoi(parts[1])
	if err != nil || day < 1 || day > 31 {
		return MonthDay{}, fmt.Errorf("month/day %q has invalid day", s)
	}
	return MonthDay{Month: time.Month(month), Day: day}, nil
}

// Anchor fixes the month/day to a concrete year.
func (md MonthDay) Anchor(year int) calendar.Date {
	return calendar.NewDate(year, md.Month, md.Day)
}

// Before orders month/day pairs within a single year.
func (md MonthDay) Before(other MonthDay) bool {
	if md.Month != other.Month {
		return md.Month < other.Month
	}
	return md.Day < other.Day
}

func parseFullDate(s string) (calendar.Date, error) {
	parts := strings.Split(strings.TrimSpace(s), "/")
	if len(parts) != 3 {
		return calendar.Date{}, fmt.Errorf("date %q is not MM/DD/YYYY", s)
	}
	month, err1 := strconv.Atoi(parts[0])
	day, err2 := strconv.Atoi(parts[1])
	year, err3 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || err3 != nil || month < 1 || month > 12 {
		return calendar.Date{}, fmt.Errorf("date %q is not MM/DD/YYYY", s)
	}
	return calendar.NewDate(year, time.Month(month), day), nil
}
