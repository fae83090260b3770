/*
handlers.go - HTTP handlers for the attendance engine

ENDPOINTS:
  Attendance:
    POST /api/attendance/events   Record a clock action
    POST /api/attendance/close    Force-close an open work order
    GET  /api/attendance/active   Live view of open sessions
    GET  /api/attendance/records  Filtered, paginated history
    GET  /api/attendance/export   Same view as CSV download
    GET  /api/attendance/summary  Per-employee worked-time totals

  Admin:
    POST /api/admin/cache/clear   Drop the read cache

  Health:
    GET  /health                  Store reachability

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: invalid input (unknown action, missing fields, bad dates)
  - 409: rejected action (illegal sequence, already closed)
  - 503: row store unreachable
  - 504: append outcome unknown (caller must re-query before retrying)
  - 500: everything else

SEE ALSO:
  - dto.go: request/response shapes
  - server.go: router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/helpdesk/attendance-engine/ledger"
	"github.com/helpdesk/attendance-engine/report"
)

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Service *ledger.Service
	Clock   ledger.Clock
}

func NewHandler(service *ledger.Service, clock ledger.Clock) *Handler {
	return &Handler{Service: service, Clock: clock}
}

// =============================================================================
// WRITES
// =============================================================================

// RecordEvent handles POST /api/attendance/events.
func (h *Handler) RecordEvent(w http.ResponseWriter, r *http.Request) {
	var req RecordEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	action, ok := ledger.ParseEventType(req.Action)
	if !ok {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown action %q", req.Action), nil)
		return
	}
	if strings.TrimSpace(req.Employee) == "" {
		// The clock screen lets this field stay blank.
		req.Employee = "Usuário"
	}

	ev, err := h.Service.RecordEvent(r.Context(), req.Employee, req.WorkOrder, action, time.Time{}, req.Note)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toEventDTO(ev))
}

// ForceClose handles POST /api/attendance/close.
func (h *Handler) ForceClose(w http.ResponseWriter, r *http.Request) {
	var req ForceCloseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	ev, err := h.Service.ForceClose(r.Context(), req.Employee, req.WorkOrder, time.Time{}, req.Note)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toEventDTO(ev))
}

// ClearCache handles POST /api/admin/cache/clear.
func (h *Handler) ClearCache(w http.ResponseWriter, r *http.Request) {
	h.Service.ClearCache()
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// READS
// =============================================================================

// ActiveSessions handles GET /api/attendance/active.
func (h *Handler) ActiveSessions(w http.ResponseWriter, r *http.Request) {
	var asOf time.Time
	if raw := r.URL.Query().Get("as_of"); raw != "" {
		parsed, err := time.ParseInLocation(time.RFC3339, raw, time.Local)
		if err != nil {
			writeError(w, http.StatusBadRequest, "as_of must be RFC3339", err)
			return
		}
		asOf = parsed
	}

	sessions, err := h.Service.ActiveSessions(r.Context(), asOf)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	dtos := make([]ActiveSessionDTO, 0, len(sessions))
	for _, s := range sessions {
		dtos = append(dtos, toActiveSessionDTO(s))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// Records handles GET /api/attendance/records.
func (h *Handler) Records(w http.ResponseWriter, r *http.Request) {
	q, err := queryFromRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	result, err := h.Service.Records(r.Context(), q)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	records := make([]EventDTO, 0, len(result.Events))
	for _, ev := range result.Events {
		records = append(records, toEventDTO(ev))
	}
	warnings := make([]string, 0, len(result.Warnings))
	for _, warn := range result.Warnings {
		warnings = append(warnings, string(warn))
	}

	page := q.Page
	if page < 1 {
		page = 1
	}
	perPage := q.PageSize
	if perPage < 1 {
		perPage = ledger.DefaultPageSize
	}
	writeJSON(w, http.StatusOK, RecordsResponse{
		Records:  records,
		Total:    result.Total,
		Page:     page,
		PerPage:  perPage,
		From:     result.From.Format("02/01/2006"),
		To:       result.To.Format("02/01/2006"),
		Warnings: warnings,
	})
}

// Export handles GET /api/attendance/export: the full filtered view
// as a CSV attachment.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	q, err := queryFromRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	result, err := h.Service.Export(r.Context(), q)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", report.Filename(result.From, result.To)))
	if err := report.WriteCSV(w, result.Events); err != nil {
		// Headers are gone already; nothing useful to send.
		return
	}
}

// Summary handles GET /api/attendance/summary.
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	q, err := queryFromRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	result, err := h.Service.Export(r.Context(), q)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	totals := report.EmployeeTotals(result.Events, h.Clock.Now())
	rows := make([]SummaryRowDTO, 0, len(totals))
	for _, t := range totals {
		rows = append(rows, toSummaryRowDTO(t))
	}
	writeJSON(w, http.StatusOK, rows)
}

// Health handles GET /health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	code := http.StatusOK
	if _, err := h.Service.Events(r.Context()); err != nil {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, map[string]string{"status": status})
}

// =============================================================================
// HELPERS
// =============================================================================

// queryFromRequest reads the shared filter parameters. Dates accept
// both dd/mm/YYYY and YYYY-mm-dd.
func queryFromRequest(r *http.Request) (ledger.Query, error) {
	params := r.URL.Query()
	var q ledger.Query

	if raw := strings.TrimSpace(params.Get("from")); raw != "" {
		d, err := ledger.ParseDate(raw)
		if err != nil {
			return q, fmt.Errorf("invalid from date %q", raw)
		}
		q.From = d
	}
	if raw := strings.TrimSpace(params.Get("to")); raw != "" {
		d, err := ledger.ParseDate(raw)
		if err != nil {
			return q, fmt.Errorf("invalid to date %q", raw)
		}
		q.To = d
	}
	if raw := strings.TrimSpace(params.Get("type")); raw != "" {
		et, ok := ledger.ParseEventType(raw)
		if !ok {
			return q, fmt.Errorf("unknown event type %q", raw)
		}
		q.Type = et
	}

	q.Employee = strings.TrimSpace(params.Get("employee"))
	q.WorkOrder = strings.TrimSpace(params.Get("work_order"))
	q.Page, _ = strconv.Atoi(params.Get("page"))
	q.PageSize, _ = strconv.Atoi(params.Get("per_page"))
	return q, nil
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ledger.ErrMissingField) || errors.Is(err, ledger.ErrUnknownEventType):
		writeError(w, http.StatusBadRequest, err.Error(), err)
	case ledger.IsClientError(err):
		writeError(w, http.StatusConflict, err.Error(), err)
	case ledger.IsUnknownOutcome(err):
		writeError(w, http.StatusGatewayTimeout,
			"append timed out; re-query before retrying", err)
	case ledger.IsUnavailable(err):
		writeError(w, http.StatusServiceUnavailable, "event store unavailable", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal error", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := map[string]string{"error": message}
	if err != nil && err.Error() != message {
		resp["detail"] = err.Error()
	}
	writeJSON(w, status, resp)
}
