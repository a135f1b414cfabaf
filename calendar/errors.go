package calendar

import "errors"

// Sentinel errors for the date layer. Use with errors.Is().
var (
	// ErrInvalidDate is returned for malformed input or dates outside the
	// supported [MinYear, MaxYear] window.
	ErrInvalidDate = errors.New("invalid date")

	// ErrInvalidRange is returned when a range's end precedes its start.
	ErrInvalidRange = errors.New("invalid range: end before start")

	// ErrDateOutOfRange is returned when day arithmetic produces a date
	// outside the supported window.
	ErrDateOutOfRange = errors.New("date out of supported range")
)
