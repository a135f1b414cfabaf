/*
compute.go - Amount computation and trip aggregation

PURPOSE:
  Turns a day plus its resolved rate record into dollar amounts, and
  aggregates resolved days into trip totals.

COMPUTATION RULES:
  Lodging: zero for meals-only computations; otherwise the rate's lodging
  cap, or a user override when it lies within [0, cap]. An out-of-range
  override is rejected and the amount resets to the cap.

  Meals: zero for lodging-only computations; otherwise the first/last-day
  total on the trip's boundary days, the full total elsewhere, minus the
  deduction for each provided meal. Deductions stack independently and the
  result is NOT floored at zero; with real rate tables the deductions never
  exceed the base.

  Totals: always a full re-sum over every resolved day. O(n) per edit, but
  trips are days long, not years, and the consistency guarantee is worth it.

FAILURE:
  The first day that cannot be resolved fails the whole batch, wrapped in a
  DayError naming the date. A report with silently missing days would be a
  misleading expense report.
*/
package expense

import (
	"context"

	"github.com/shopspring/decimal"
)

// DayOverrides carries the per-day edits the view layer can apply.
// Nil fields leave the existing value untouched.
type DayOverrides struct {
	BreakfastProvided *bool
	LunchProvided     *bool
	DinnerProvided    *bool

	// LodgingAmount is the user-entered lodging figure. Values outside
	// [0, MaxLodging] reset the amount to MaxLodging.
	LodgingAmount *decimal.Decimal
}

// Engine computes expense reports.
type Engine struct {
	resolver *Resolver
}

// NewEngine builds an engine over the given resolver.
func NewEngine(resolver *Resolver) *Engine {
	return &Engine{resolver: resolver}
}

// ComputeDay produces the resolved record for one day. lodgingOverride is
// nil when the user has not touched the lodging field.
func ComputeDay(day ExpenseDay, rate RateRecord, category ExpenseCategory, lodgingOverride *decimal.Decimal) ResolvedExpenseDay {
	lodging := lodgingAmount(rate, category, lodgingOverride)
	meals := mealsAmount(day, rate, category)

	return ResolvedExpenseDay{
		ExpenseDay:    day,
		Rate:          rate,
		LodgingAmount: lodging,
		MealsAmount:   meals,
		TotalAmount:   lodging.Add(meals),
	}
}

func lodgingAmount(rate RateRecord, category ExpenseCategory, override *decimal.Decimal) decimal.Decimal {
	if category == CategoryMeals {
		return decimal.Zero
	}
	if override != nil && !override.IsNegative() && override.LessThanOrEqual(rate.MaxLodging) {
		return *override
	}
	return rate.MaxLodging
}

func mealsAmount(day ExpenseDay, rate RateRecord, category ExpenseCategory) decimal.Decimal {
	if category == CategoryLodging {
		return decimal.Zero
	}
	base := rate.MaxMeals
	if day.Deductions.FirstOrLastDay {
		base = rate.MaxMealsFirstLastDay
	}
	if day.Deductions.BreakfastProvided {
		base = base.Sub(rate.BreakfastDeduction)
	}
	if day.Deductions.LunchProvided {
		base = base.Sub(rate.LunchDeduction)
	}
	if day.Deductions.DinnerProvided {
		base = base.Sub(rate.DinnerDeduction)
	}
	return base
}

// ComputeTrip expands the legs, resolves every day in ascending date order,
// and aggregates totals. The first resolution failure aborts the batch.
func (e *Engine) ComputeTrip(ctx context.Context, legs []TripLeg, category ExpenseCategory) (*TripReport, error) {
	if !category.Valid() {
		return nil, ErrInvalidCategory
	}
	days, err := ExpandTrip(legs)
	if err != nil {
		return nil, err
	}

	report := &TripReport{
		Category: category,
		Days:     make([]ResolvedExpenseDay, 0, len(days)),
	}
	for _, day := range days {
		rate, err := e.resolver.Resolve(ctx, day)
		if err != nil {
			return nil, &DayError{Date: day.Date, Err: err}
		}
		resolved := ComputeDay(day, rate, category, nil)
		resolved.CitationURL = CitationURL(day, e.resolver.Today())
		report.Days = append(report.Days, resolved)
	}

	report.Totals = SumTotals(report.Days)
	return report, nil
}

// RecomputeDay applies overrides to a single day of an existing report,
// replacing that day's resolved record wholesale and re-summing the totals.
// No other day is touched and no rate is re-fetched: deduction and lodging
// edits never change which rate record applies.
func (e *Engine) RecomputeDay(report *TripReport, index int, ov DayOverrides) (*ResolvedExpenseDay, error) {
	if index < 0 || index >= len(report.Days) {
		return nil, ErrDayIndex
	}

	prev := report.Days[index]
	day := prev.ExpenseDay
	if ov.BreakfastProvided != nil {
		day.Deductions.BreakfastProvided = *ov.BreakfastProvided
	}
	if ov.LunchProvided != nil {
		day.Deductions.LunchProvided = *ov.LunchProvided
	}
	if ov.DinnerProvided != nil {
		day.Deductions.DinnerProvided = *ov.DinnerProvided
	}

	resolved := ComputeDay(day, prev.Rate, report.Category, ov.LodgingAmount)
	resolved.CitationURL = prev.CitationURL

	report.Days[index] = resolved
	report.Totals = SumTotals(report.Days)
	return &report.Days[index], nil
}

// SumTotals re-sums every resolved day from scratch. Raw decimal values are
// summed; rounding happens only at presentation boundaries.
func SumTotals(days []ResolvedExpenseDay) TripTotals {
	totals := TripTotals{
		LodgingSubtotal: decimal.Zero,
		MealsSubtotal:   decimal.Zero,
		GrandTotal:      decimal.Zero,
	}
	for _, d := range days {
		totals.LodgingSubtotal = totals.LodgingSubtotal.Add(d.LodgingAmount)
		totals.MealsSubtotal = totals.MealsSubtotal.Add(d.MealsAmount)
		totals.GrandTotal = totals.GrandTotal.Add(d.TotalAmount)
	}
	return totals
}
