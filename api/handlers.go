/*
handlers.go - HTTP handlers binding the engine to the wire

PURPOSE:
  Translates JSON requests into engine calls and typed failures into status
  codes. Reports live in an in-memory session map keyed by report ID so the
  client can apply incremental per-day edits; nothing survives a restart,
  matching the calculator's session-only model.

STATUS MAPPING:
  Validation failures (dates, ranges, unknown regions)  400
  RateNotFound (cannot price a day)                     422
  Upstream data failures (archive, network)             502
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/voyage/perdiem-engine/calendar"
	"github.com/voyage/perdiem-engine/catalog"
	"github.com/voyage/perdiem-engine/expense"
	"github.com/voyage/perdiem-engine/rates"
)

// Handler serves the expense API.
type Handler struct {
	engine *expense.Engine

	mu      sync.Mutex
	reports map[string]*expense.TripReport
}

// NewHandler builds a handler around the computation engine.
func NewHandler(engine *expense.Engine) *Handler {
	return &Handler{
		engine:  engine,
		reports: make(map[string]*expense.TripReport),
	}
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ListLocations returns the location catalog for UI dropdowns.
func (h *Handler) ListLocations(w http.ResponseWriter, _ *http.Request) {
	resp := LocationsResponse{}
	for _, loc := range catalog.Domestic() {
		resp.Domestic = append(resp.Domestic, LocationDTO{Region: loc.Region, Label: loc.Label})
	}
	for _, loc := range catalog.International() {
		resp.International = append(resp.International, LocationDTO{Region: loc.Region, Label: loc.Label})
	}
	writeJSON(w, http.StatusOK, resp)
}

// ComputeTrip computes a full report from validated legs.
func (h *Handler) ComputeTrip(w http.ResponseWriter, r *http.Request) {
	var req ComputeTripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "malformed request body", "")
		return
	}

	legs, errResp := parseLegs(req.Legs)
	if errResp != nil {
		writeJSON(w, http.StatusBadRequest, errResp)
		return
	}

	report, err := h.engine.ComputeTrip(r.Context(), legs, expense.ExpenseCategory(req.ExpensesCategory))
	if err != nil {
		writeEngineError(w, err)
		return
	}

	id := uuid.NewString()
	h.mu.Lock()
	h.reports[id] = report
	h.mu.Unlock()

	writeJSON(w, http.StatusOK, reportDTO(id, report))
}

// RecomputeDay applies per-day overrides to a stored report.
func (h *Handler) RecomputeDay(w http.ResponseWriter, r *http.Request) {
	var req RecomputeDayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "malformed request body", "")
		return
	}

	h.mu.Lock()
	report, ok := h.reports[req.ReportID]
	h.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "report_not_found", "unknown or expired report", "")
		return
	}

	ov := expense.DayOverrides{
		BreakfastProvided: req.BreakfastProvided,
		LunchProvided:     req.LunchProvided,
		DinnerProvided:    req.DinnerProvided,
	}
	if req.LodgingAmount != nil {
		if amount, err := decimal.NewFromString(*req.LodgingAmount); err == nil {
			ov.LodgingAmount = &amount
		} else {
			// Non-numeric entry is rejected; an impossible value makes the
			// engine reset the field to the lodging cap.
			reject := decimal.NewFromInt(-1)
			ov.LodgingAmount = &reject
		}
	}

	h.mu.Lock()
	day, err := h.engine.RecomputeDay(report, req.DayIndex, ov)
	totals := report.Totals
	h.mu.Unlock()
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, RecomputeDayResponse{Day: dayDTO(*day), Totals: totalsDTO(totals)})
}

// parseLegs validates dates and regions, deriving each leg's category from
// the catalog.
func parseLegs(legs []LegDTO) ([]expense.TripLeg, *ErrorResponse) {
	out := make([]expense.TripLeg, 0, len(legs))
	for _, leg := range legs {
		start, err := calendar.ParseDate(leg.Start)
		if err != nil {
			return nil, &ErrorResponse{Error: err.Error(), Code: "invalid_date", Date: leg.Start}
		}
		end, err := calendar.ParseDate(leg.End)
		if err != nil {
			return nil, &ErrorResponse{Error: err.Error(), Code: "invalid_date", Date: leg.End}
		}
		if end.Before(start) {
			return nil, &ErrorResponse{Error: "leg end precedes start", Code: "invalid_range", Date: leg.Start}
		}
		loc, ok := catalog.Lookup(leg.Region)
		if !ok {
			return nil, &ErrorResponse{Error: "unknown region " + leg.Region, Code: "unknown_region"}
		}
		out = append(out, expense.TripLeg{
			Start:    start,
			End:      end,
			Category: loc.Category,
			Region:   loc.Region,
			City:     leg.City,
		})
	}
	return out, nil
}

func writeEngineError(w http.ResponseWriter, err error) {
	var dayErr *expense.DayError
	date := ""
	if errors.As(err, &dayErr) {
		date = dayErr.Date.String()
	}

	switch {
	case errors.Is(err, rates.ErrRateNotFound):
		writeError(w, http.StatusUnprocessableEntity, "rate_not_found", err.Error(), date)
	case errors.Is(err, rates.ErrCorruptArchive):
		writeError(w, http.StatusBadGateway, "corrupt_archive", err.Error(), date)
	case errors.Is(err, rates.ErrNetworkFailure):
		writeError(w, http.StatusBadGateway, "rate_source_unavailable", err.Error(), date)
	case errors.Is(err, expense.ErrNoLegs),
		errors.Is(err, expense.ErrInvalidCategory),
		errors.Is(err, expense.ErrDayIndex),
		errors.Is(err, calendar.ErrInvalidRange),
		errors.Is(err, calendar.ErrInvalidDate):
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error(), date)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error(), date)
	}
}

func writeError(w http.ResponseWriter, status int, code, msg, date string) {
	writeJSON(w, status, ErrorResponse{Error: msg, Code: code, Date: date})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
