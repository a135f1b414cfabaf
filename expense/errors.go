package expense

import (
	"errors"
	"fmt"

	"github.com/voyage/perdiem-engine/calendar"
)

var (
	// ErrNoLegs is returned when a trip computation is requested with no legs.
	ErrNoLegs = errors.New("trip has no legs")

	// ErrInvalidCategory is returned for an unknown expenses category.
	ErrInvalidCategory = errors.New("invalid expenses category")

	// ErrDayIndex is returned when a recompute targets a day outside the report.
	ErrDayIndex = errors.New("day index out of range")
)

// DayError wraps a failure during one day's resolution with the failing
// date, so the caller can report which day broke the batch.
type DayError struct {
	Date calendar.Date
	Err  error
}

func (e *DayError) Error() string {
	return fmt.Sprintf("day %s: %v", e.Date, e.Err)
}

func (e *DayError) Unwrap() error { return e.Err }
