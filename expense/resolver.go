/*
resolver.go - Mapping one expense day to exactly one rate record

PURPOSE:
  The temporal-interval matching core. Domestic days resolve against the
  monthly lodging table plus the meals table joined on the M&IE total;
  international days resolve against season-windowed records whose season
  boundaries carry no year and may wrap year-end.

MATCHING RULES:
  - Region comparison is case-insensitive on both paths.
  - Domestic city match is exact, with a "Standard Rate" fallback when the
    region has no city-specific row.
  - Tie-break on both paths: the first qualifying record in source order
    wins. Multiple true matches indicate malformed source data and are
    logged as a data-integrity warning, not failed.
  - Zero matches is RateNotFound: fatal for the batch, never defaulted.

SEASON WINDOWS:
  Season boundaries are month/day only. They anchor to the trip date's year
  unless the season wraps year-end (start after end, e.g. Oct 1 - Apr 30):
  then a date on/after the start anchors the end to year+1, and a date
  on/before the end anchors the start to year-1.

SEE ALSO:
  - rates/gateway.go: dataset fetching and caching
  - compute.go: what happens to the resolved record
*/
package expense

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/voyage/perdiem-engine/calendar"
	"github.com/voyage/perdiem-engine/catalog"
	"github.com/voyage/perdiem-engine/rates"
)

// RateSource is the slice of the gateway the resolver needs.
type RateSource interface {
	DomesticLodging(ctx context.Context, year int) ([]rates.DomesticRateRecord, error)
	DomesticMeals(ctx context.Context, year int) ([]rates.MealsRateRecord, error)
	International(ctx context.Context, year int) ([]rates.IntlRateRecord, error)
}

// Resolver maps expense days to rate records.
type Resolver struct {
	source RateSource
	logger *log.Logger
	today  func() calendar.Date
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithResolverLogger overrides the default logger.
func WithResolverLogger(l *log.Logger) ResolverOption {
	return func(r *Resolver) { r.logger = l }
}

// WithToday overrides the clock used for API-year clamping.
func WithToday(today func() calendar.Date) ResolverOption {
	return func(r *Resolver) { r.today = today }
}

// NewResolver builds a resolver over the given rate source.
func NewResolver(source RateSource, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		source: source,
		logger: log.Default(),
		today:  calendar.Today,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Today returns the resolver's current date, shared with citation building.
func (r *Resolver) Today() calendar.Date { return r.today() }

// Resolve finds the single rate record applicable to the given day.
func (r *Resolver) Resolve(ctx context.Context, day ExpenseDay) (RateRecord, error) {
	switch day.Category {
	case catalog.CategoryDomestic:
		return r.resolveDomestic(ctx, day)
	case catalog.CategoryInternational:
		return r.resolveInternational(ctx, day)
	default:
		return RateRecord{}, fmt.Errorf("unknown location category %q", day.Category)
	}
}

// =============================================================================
// DOMESTIC
// =============================================================================

func (r *Resolver) resolveDomestic(ctx context.Context, day ExpenseDay) (RateRecord, error) {
	apiYear := calendar.APIYearFor(day.Date, r.today())

	table, err := r.source.DomesticLodging(ctx, apiYear)
	if err != nil {
		return RateRecord{}, err
	}

	rec, ok := findDomestic(table, day.Region, day.City)
	if !ok {
		return RateRecord{}, &rates.RateNotFoundError{
			Date:   day.Date.String(),
			Region: day.Region,
			City:   day.City,
			Detail: fmt.Sprintf("no lodging record in the %d table", apiYear),
		}
	}

	lodging, err := rec.MonthCap(day.Date.Month())
	if err != nil {
		return RateRecord{}, &rates.RateNotFoundError{
			Date:   day.Date.String(),
			Region: day.Region,
			City:   day.City,
			Detail: err.Error(),
		}
	}

	meals, err := r.source.DomesticMeals(ctx, apiYear)
	if err != nil {
		return RateRecord{}, err
	}
	mealsRec, ok := findMealsByTotal(meals, rec)
	if !ok {
		return RateRecord{}, &rates.RateNotFoundError{
			Date:   day.Date.String(),
			Region: day.Region,
			City:   day.City,
			Detail: fmt.Sprintf("no meals record with total %s in the %d table", rec.Meals, apiYear),
		}
	}

	return RateRecord{
		MaxLodging:           lodging,
		MaxMeals:             mealsRec.Total,
		MaxMealsFirstLastDay: mealsRec.FirstLastDay,
		BreakfastDeduction:   mealsRec.Breakfast,
		LunchDeduction:       mealsRec.Lunch,
		DinnerDeduction:      mealsRec.Dinner,
		IncidentalsMax:       mealsRec.Incidentals,
		EffectiveDate:        day.Date.StartOfMonth(),
	}, nil
}

// findDomestic applies the city-exact-then-standard-rate rule, preserving
// source order for the tie-break.
func findDomestic(table []rates.DomesticRateRecord, region, city string) (rates.DomesticRateRecord, bool) {
	for _, rec := range table {
		if strings.EqualFold(rec.StateCode(), region) && rec.City == city {
			return rec, true
		}
	}
	for _, rec := range table {
		if strings.EqualFold(rec.StateCode(), region) && rec.City == rates.StandardRateCity {
			return rec, true
		}
	}
	return rates.DomesticRateRecord{}, false
}

func findMealsByTotal(meals []rates.MealsRateRecord, lodging rates.DomesticRateRecord) (rates.MealsRateRecord, bool) {
	for _, rec := range meals {
		if rec.Total.Equal(lodging.Meals) {
			return rec, true
		}
	}
	return rates.MealsRateRecord{}, false
}

// =============================================================================
// INTERNATIONAL
// =============================================================================

func (r *Resolver) resolveInternational(ctx context.Context, day ExpenseDay) (RateRecord, error) {
	apiYear := calendar.APIYearFor(day.Date, r.today())

	records, err := r.source.International(ctx, apiYear)
	if err != nil {
		return RateRecord{}, err
	}

	type match struct {
		rec    rates.IntlRateRecord
		season calendar.Range
	}
	var matches []match

	for _, rec := range records {
		if rec.LocationName != day.City || !strings.EqualFold(rec.CountryName, day.Region) {
			continue
		}
		eff, err := rec.Effective()
		if err != nil {
			r.logger.Printf("WARN: data integrity: %s/%s has bad eff_date %q", rec.CountryName, rec.LocationName, rec.EffDate)
			continue
		}
		exp, err := rec.Expiration()
		if err != nil {
			r.logger.Printf("WARN: data integrity: %s/%s has bad exp_date %q", rec.CountryName, rec.LocationName, rec.ExpDate)
			continue
		}
		if day.Date.Before(eff) || day.Date.After(exp) {
			continue
		}
		start, end, err := rec.Season()
		if err != nil {
			r.logger.Printf("WARN: data integrity: %s/%s has bad season window: %v", rec.CountryName, rec.LocationName, err)
			continue
		}
		window, ok := seasonWindow(start, end, day.Date)
		if !ok {
			continue
		}
		matches = append(matches, match{rec: rec, season: window})
	}

	if len(matches) == 0 {
		return RateRecord{}, &rates.RateNotFoundError{
			Date:   day.Date.String(),
			Region: day.Region,
			City:   day.City,
			Detail: fmt.Sprintf("no international record in effect in the %d dataset", apiYear),
		}
	}
	if len(matches) > 1 {
		// First match wins for reproducibility; duplicates mean the source
		// data overlaps where it should not.
		r.logger.Printf("WARN: data integrity: %d overlapping records for %s, %s on %s",
			len(matches), day.City, day.Region, day.Date)
	}

	chosen := matches[0]
	lodging, err := chosen.rec.Lodging()
	if err != nil {
		return RateRecord{}, &rates.RateNotFoundError{
			Date: day.Date.String(), Region: day.Region, City: day.City, Detail: err.Error(),
		}
	}
	mealsTotal, err := chosen.rec.MealsTotal()
	if err != nil {
		return RateRecord{}, &rates.RateNotFoundError{
			Date: day.Date.String(), Region: day.Region, City: day.City, Detail: err.Error(),
		}
	}
	mealsRec := rates.IntlMealsBreakdown(mealsTotal)

	return RateRecord{
		MaxLodging:           lodging,
		MaxMeals:             mealsRec.Total,
		MaxMealsFirstLastDay: mealsRec.FirstLastDay,
		BreakfastDeduction:   mealsRec.Breakfast,
		LunchDeduction:       mealsRec.Lunch,
		DinnerDeduction:      mealsRec.Dinner,
		IncidentalsMax:       mealsRec.Incidentals,
		EffectiveDate:        chosen.season.Start,
	}, nil
}

// seasonWindow anchors a year-less season to concrete dates around the trip
// date and reports whether the date falls inside it.
func seasonWindow(start, end rates.MonthDay, d calendar.Date) (calendar.Range, bool) {
	year := d.Year()

	if !end.Before(start) {
		// Season within a single calendar year.
		w := calendar.Range{Start: start.Anchor(year), End: end.Anchor(year)}
		return w, w.Contains(d)
	}

	// Season wraps year-end (e.g. Oct 1 - Apr 30).
	if d.AfterOrEqual(start.Anchor(year)) {
		return calendar.Range{Start: start.Anchor(year), End: end.Anchor(year + 1)}, true
	}
	if d.BeforeOrEqual(end.Anchor(year)) {
		return calendar.Range{Start: start.Anchor(year - 1), End: end.Anchor(year)}, true
	}
	return calendar.Range{}, false
}
