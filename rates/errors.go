package rates

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrRateNotFound is returned when no rate record matches a day's
	// region/city/date. Fatal for the computation batch it belongs to;
	// never defaulted or retried.
	ErrRateNotFound = errors.New("rate not found")

	// ErrCorruptArchive is returned when the international download is not
	// a valid ZIP archive or its XML payload cannot be parsed. One
	// automatic recovery path exists (prior-year fallback in January).
	ErrCorruptArchive = errors.New("corrupt rate archive")

	// ErrNetworkFailure is returned when an upstream fetch fails or returns
	// a non-success status. Surfaced, not retried.
	ErrNetworkFailure = errors.New("rate source fetch failed")
)

// =============================================================================
// STRUCTURED ERRORS - Carry lookup context
// =============================================================================

// RateNotFoundError identifies the day that could not be priced.
type RateNotFoundError struct {
	Date   string
	Region string
	City   string
	Detail string
}

func (e *RateNotFoundError) Error() string {
	return fmt.Sprintf("no rate for %s, %s on %s: %s", e.City, e.Region, e.Date, e.Detail)
}

func (e *RateNotFoundError) Unwrap() error { return ErrRateNotFound }
