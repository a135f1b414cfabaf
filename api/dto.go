/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON contract between the engine and whatever UI binds to it.
  These types decouple the internal domain model from the wire format:
  money crosses the boundary as fixed two-decimal strings, dates as
  YYYY-MM-DD, and nothing else about the domain leaks.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.
*/
package api

import (
	"github.com/voyage/perdiem-engine/expense"
)

// =============================================================================
// REQUEST TYPES
// =============================================================================

// LegDTO is one contiguous stay as submitted by the client.
type LegDTO struct {
	Start  string `json:"start"`
	End    string `json:"end"`
	Region string `json:"region"`
	City   string `json:"city"`
}

// ComputeTripRequest asks for a full trip computation.
type ComputeTripRequest struct {
	Legs             []LegDTO `json:"legs"`
	ExpensesCategory string   `json:"expenses_category"`
}

// RecomputeDayRequest edits one day of a previously computed report.
// Omitted fields leave the day's current values in place. LodgingAmount is
// the raw user entry; non-numeric or out-of-range input resets the field
// to the day's lodging cap.
type RecomputeDayRequest struct {
	ReportID          string  `json:"report_id"`
	DayIndex          int     `json:"day_index"`
	BreakfastProvided *bool   `json:"breakfast_provided,omitempty"`
	LunchProvided     *bool   `json:"lunch_provided,omitempty"`
	DinnerProvided    *bool   `json:"dinner_provided,omitempty"`
	LodgingAmount     *string `json:"lodging_amount,omitempty"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// LocationDTO is one selectable region.
type LocationDTO struct {
	Region string `json:"region"`
	Label  string `json:"label"`
}

// LocationsResponse lists the catalog for UI dropdowns.
type LocationsResponse struct {
	Domestic      []LocationDTO `json:"domestic"`
	International []LocationDTO `json:"international"`
}

// DayDTO is one row of the rendered expense report.
type DayDTO struct {
	Date              string `json:"date"`
	Region            string `json:"region"`
	City              string `json:"city"`
	FirstOrLastDay    bool   `json:"first_or_last_day"`
	BreakfastProvided bool   `json:"breakfast_provided"`
	LunchProvided     bool   `json:"lunch_provided"`
	DinnerProvided    bool   `json:"dinner_provided"`

	MaxLodging    string `json:"max_lodging"`
	LodgingAmount string `json:"lodging_amount"`
	MealsAmount   string `json:"meals_amount"`
	TotalAmount   string `json:"total_amount"`

	EffectiveDate string `json:"effective_date"`
	CitationURL   string `json:"citation_url"`
}

// TotalsDTO carries the trip aggregate.
type TotalsDTO struct {
	LodgingSubtotal string `json:"lodging_subtotal"`
	MealsSubtotal   string `json:"meals_subtotal"`
	GrandTotal      string `json:"grand_total"`
}

// TripReportDTO is the full computed report.
type TripReportDTO struct {
	ReportID         string    `json:"report_id"`
	ExpensesCategory string    `json:"expenses_category"`
	Days             []DayDTO  `json:"days"`
	Totals           TotalsDTO `json:"totals"`
}

// RecomputeDayResponse returns the replaced day and the re-summed totals.
type RecomputeDayResponse struct {
	Day    DayDTO    `json:"day"`
	Totals TotalsDTO `json:"totals"`
}

// ErrorResponse is the uniform failure shape.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
	// Date names the day that broke a batch computation, when known.
	Date string `json:"date,omitempty"`
}

// =============================================================================
// MAPPING
// =============================================================================

func dayDTO(d expense.ResolvedExpenseDay) DayDTO {
	return DayDTO{
		Date:              d.Date.String(),
		Region:            d.Region,
		City:              d.City,
		FirstOrLastDay:    d.Deductions.FirstOrLastDay,
		BreakfastProvided: d.Deductions.BreakfastProvided,
		LunchProvided:     d.Deductions.LunchProvided,
		DinnerProvided:    d.Deductions.DinnerProvided,
		MaxLodging:        d.Rate.MaxLodging.StringFixed(2),
		LodgingAmount:     d.LodgingAmount.StringFixed(2),
		MealsAmount:       d.MealsAmount.StringFixed(2),
		TotalAmount:       d.TotalAmount.StringFixed(2),
		EffectiveDate:     d.Rate.EffectiveDate.String(),
		CitationURL:       d.CitationURL,
	}
}

func totalsDTO(t expense.TripTotals) TotalsDTO {
	return TotalsDTO{
		LodgingSubtotal: t.LodgingSubtotal.StringFixed(2),
		MealsSubtotal:   t.MealsSubtotal.StringFixed(2),
		GrandTotal:      t.GrandTotal.StringFixed(2),
	}
}

func reportDTO(id string, r *expense.TripReport) TripReportDTO {
	days := make([]DayDTO, 0, len(r.Days))
	for _, d := range r.Days {
		days = append(days, dayDTO(d))
	}
	return TripReportDTO{
		ReportID:         id,
		ExpensesCategory: string(r.Category),
		Days:             days,
		Totals:           totalsDTO(r.Totals),
	}
}
