/*
Package expense is the rate-resolution and expense-computation engine.

PURPOSE:
  Given a validated sequence of date-stamped locations, determine the
  effective per diem rate record for each day, compute lodging/meals/total
  amounts with first-last-day and provided-meal deduction rules, and
  aggregate per-row and trip totals. This is the part of the system where a
  bug produces a wrong dollar amount, so everything monetary runs on
  decimal arithmetic and rounds only at presentation boundaries.

KEY CONCEPTS IN THIS FILE (types.go):
  - TripLeg: one contiguous stay; legs are assumed contiguous and
    non-overlapping by the caller, only per-leg date validity is checked.
  - ExpenseDay: one calendar day of a trip with its deduction flags.
  - RateRecord: the resolved per diem figures effective for one day. A
    projection of external data, looked up, never owned.
  - ResolvedExpenseDay: day + rate + computed amounts + citation. Immutable
    once produced; recomputation replaces it wholesale.

DESIGN PRINCIPLES:
  1. Precision: shopspring decimal end to end, no float drift.
  2. Fail fast: no guessed or zeroed rates, ever; a day that cannot be
     priced fails its whole batch with the failing date attached.
  3. Determinism: days resolve in ascending date order, totals re-sum from
     scratch.

SEE ALSO:
  - resolver.go: rate record lookup, domestic and international
  - compute.go: amount computation and trip aggregation
  - citation.go: audit citation URLs
*/
package expense

import (
	"github.com/shopspring/decimal"

	"github.com/voyage/perdiem-engine/calendar"
	"github.com/voyage/perdiem-engine/catalog"
)

// ExpenseCategory selects which figures a computation includes.
type ExpenseCategory string

const (
	CategoryLodging ExpenseCategory = "lodging"
	CategoryMeals   ExpenseCategory = "meals"
	CategoryBoth    ExpenseCategory = "both"
)

// Valid reports whether c is one of the three known categories.
func (c ExpenseCategory) Valid() bool {
	switch c {
	case CategoryLodging, CategoryMeals, CategoryBoth:
		return true
	}
	return false
}

// TripLeg is one contiguous stay in a single location.
type TripLeg struct {
	Start    calendar.Date
	End      calendar.Date
	Category catalog.Category
	// Region is the state code (domestic) or country name (international).
	Region string
	City   string
}

// Deductions are the per-day flags that reduce the meals figure.
type Deductions struct {
	// FirstOrLastDay marks the absolute first and last day of the whole
	// trip, not each leg's boundary.
	FirstOrLastDay    bool
	BreakfastProvided bool
	LunchProvided     bool
	DinnerProvided    bool
}

// ExpenseDay is one calendar day of a trip.
type ExpenseDay struct {
	Date       calendar.Date
	Category   catalog.Category
	Region     string
	City       string
	Deductions Deductions
}

// RateRecord holds the per diem figures effective for a given day. All
// fields are non-negative currency values.
type RateRecord struct {
	MaxLodging           decimal.Decimal
	MaxMeals             decimal.Decimal
	MaxMealsFirstLastDay decimal.Decimal
	BreakfastDeduction   decimal.Decimal
	LunchDeduction       decimal.Decimal
	DinnerDeduction      decimal.Decimal
	IncidentalsMax       decimal.Decimal
	EffectiveDate        calendar.Date
}

// ResolvedExpenseDay is an ExpenseDay joined with its rate record and
// computed amounts.
type ResolvedExpenseDay struct {
	ExpenseDay

	Rate RateRecord

	LodgingAmount decimal.Decimal
	MealsAmount   decimal.Decimal
	TotalAmount   decimal.Decimal
	CitationURL   string
}

// TripTotals are derived sums over all resolved days, recomputed from
// scratch on every mutation.
type TripTotals struct {
	LodgingSubtotal decimal.Decimal
	MealsSubtotal   decimal.Decimal
	GrandTotal      decimal.Decimal
}

// TripReport is the output of one full trip computation.
type TripReport struct {
	Category ExpenseCategory
	Days     []ResolvedExpenseDay
	Totals   TripTotals
}
