package rates

import "github.com/shopspring/decimal"

// International meal rates are not fetched: the per-meal split of an M&IE
// total follows the publisher's fixed breakdown proportions, so the table
// is embedded. The split is keyed by the record's M&IE total, the only key
// the international dataset carries for meals.
//
// Proportions of the M&IE total:
//   breakfast 15%, lunch 25%, dinner 40%, incidentals 20%,
//   first/last travel day 75% of the full total.
var (
	intlBreakfastShare   = decimal.NewFromFloat(0.15)
	intlLunchShare       = decimal.NewFromFloat(0.25)
	intlDinnerShare      = decimal.NewFromFloat(0.40)
	intlIncidentalsShare = decimal.NewFromFloat(0.20)
	intlFirstLastShare   = decimal.NewFromFloat(0.75)
)

// IntlMealsBreakdown expands an international M&IE total into the same
// record shape the domestic meals table provides, so the computation engine
// treats both categories identically. Shares are rounded to whole dollars,
// matching the published breakdown tables.
func IntlMealsBreakdown(total decimal.Decimal) MealsRateRecord {
	return MealsRateRecord{
		Total:        total,
		Breakfast:    total.Mul(intlBreakfastShare).Round(0),
		Lunch:        total.Mul(intlLunchShare).Round(0),
		Dinner:       total.Mul(intlDinnerShare).Round(0),
		Incidentals:  total.Mul(intlIncidentalsShare).Round(0),
		FirstLastDay: total.Mul(intlFirstLastShare).Round(0),
	}
}
