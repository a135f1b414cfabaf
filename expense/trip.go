package expense

import (
	"fmt"

	"github.com/voyage/perdiem-engine/calendar"
)

// ExpandTrip turns an ordered slice of legs into one ExpenseDay per calendar
// date, ascending. The first day of the first leg and the last day of the
// last leg are flagged FirstOrLastDay; interior leg boundaries are not.
//
// Leg adjacency (leg N starts the day after leg N-1 ends) is the caller's
// contract and is not re-validated here; only per-leg date validity is.
func ExpandTrip(legs []TripLeg) ([]ExpenseDay, error) {
	if len(legs) == 0 {
		return nil, ErrNoLegs
	}

	var days []ExpenseDay
	for i, leg := range legs {
		dates, err := calendar.ExpandRange(leg.Start, leg.End)
		if err != nil {
			return nil, fmt.Errorf("leg %d: %w", i, err)
		}
		for _, d := range dates {
			days = append(days, ExpenseDay{
				Date:     d,
				Category: leg.Category,
				Region:   leg.Region,
				City:     leg.City,
			})
		}
	}

	days[0].Deductions.FirstOrLastDay = true
	days[len(days)-1].Deductions.FirstOrLastDay = true
	return days, nil
}
