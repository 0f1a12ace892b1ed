/*
handlers.go - HTTP API handlers for the leave ledger service

PURPOSE:
  Exposes the leave engine via REST API. Handles HTTP request/response,
  JSON serialization, and delegates to the timeoff package.

ENDPOINTS:
  Employees:
    GET    /api/employees                       List profiles
    POST   /api/employees                       Create profile + seeded ledger
    GET    /api/employees/{id}                  Profile
    DELETE /api/employees/{id}                  Delete profile + ledger
    POST   /api/employees/{id}/activate         Recompute entitlements

  Ledger:
    GET    /api/employees/{id}/ledger           Ledger + version
    PUT    /api/employees/{id}/ledger           Versioned whole-ledger replace
    PUT    /api/employees/{id}/work-days        Working weekdays
    POST   /api/employees/{id}/days/{date}      Book a day
    POST   /api/employees/{id}/days/{date}/approve
    DELETE /api/employees/{id}/days/{date}      Clear a day

  Categories:
    POST   /api/employees/{id}/leave-types
    PUT    /api/employees/{id}/leave-types/{key}
    DELETE /api/employees/{id}/leave-types/{key}
    GET    /api/leave-types                     Merged catalog

  Reporting:
    GET    /api/employees/{id}/summary          Yearly overview
    GET    /api/employees/{id}/request-form     PDF request form
    GET    /api/holidays                        Holiday calendar
    GET    /api/stats                           Aggregation
    GET    /api/reports                         Dashboard

REQUEST FLOW (mutations):
  1. Load the ledger and its version
  2. Apply the transition to a copy
  3. Save with the loaded version (compare-and-swap)
  A failed save leaves the stored ledger untouched.

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Malformed input, invalid keys or ledgers
  - 404: Unknown employee, day or category
  - 409: Occupied day, locked approval, protected or used category,
         stale version
  - 422: Non-working day, unknown category on booking
  - 500: Storage failures

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/warp/leave-ledger/generic"
	"github.com/warp/leave-ledger/timeoff"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store    timeoff.Store
	Holidays *HolidayCache

	ledgerConfig timeoff.LedgerConfig
	rollover     timeoff.RolloverScope
	validate     *validator.Validate
	now          func() time.Time
}

// HandlerOptions tunes engine behaviour exposed over HTTP.
type HandlerOptions struct {
	LedgerConfig timeoff.LedgerConfig
	Rollover     timeoff.RolloverScope
	Holidays     *HolidayCache
	// Now defaults to time.Now. Entitlements and default years use its UTC day.
	Now func() time.Time
}

// NewHandler creates a new handler with the given store.
func NewHandler(store timeoff.Store, opts HandlerOptions) (*Handler, error) {
	holidays := opts.Holidays
	if holidays == nil {
		var err error
		if holidays, err = NewHolidayCache(16, timeoff.DefaultCalendar); err != nil {
			return nil, err
		}
	}
	rollover, err := timeoff.ParseRolloverScope(string(opts.Rollover))
	if err != nil {
		return nil, err
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &Handler{
		Store:        store,
		Holidays:     holidays,
		ledgerConfig: opts.LedgerConfig,
		rollover:     rollover,
		validate:     newValidator(),
		now:          now,
	}, nil
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func (h *Handler) today() generic.Date {
	return generic.DateOf(h.now().UTC())
}

// Health reports liveness.
// GET /healthz
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// pinger is implemented by stores backed by a connection that can go away.
type pinger interface {
	Ping(ctx context.Context) error
}

// Ready reports whether the store can serve requests. Stores without a
// connection are always ready.
// GET /readyz
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	if p, ok := h.Store.(pinger); ok {
		if err := p.Ping(r.Context()); err != nil {
			loggerFrom(r.Context()).Warn("store not ready", fieldError, err)
			writeError(w, http.StatusServiceUnavailable, "not_ready", "Store unavailable", nil)
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// =============================================================================
// EMPLOYEE ENDPOINTS
// =============================================================================

// ListEmployees returns all employees.
// GET /api/employees
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Store.ListEmployees(r.Context())
	if err != nil {
		h.writeDomainError(w, r, "list employees", err)
		return
	}

	dtos := make([]EmployeeDTO, 0, len(employees))
	for _, e := range employees {
		dtos = append(dtos, toEmployeeDTO(e))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateEmployee creates a profile and its ledger, seeded with the default
// catalog and the tenure-based allowances as of today.
// POST /api/employees
func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req CreateEmployeeRequest
	if !h.decode(w, r, &req) {
		return
	}

	hire, err := generic.ParseDate(req.HireDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_date", "Invalid hire date", err)
		return
	}

	emp := timeoff.Employee{
		ID:         generic.EmployeeID(uuid.NewString()),
		Name:       strings.TrimSpace(req.Name),
		LegalID:    strings.TrimSpace(req.LegalID),
		Department: strings.TrimSpace(req.Department),
		HireDate:   hire,
		CreatedAt:  h.now().UTC(),
	}
	ledger := timeoff.NewLedger(timeoff.SeedCatalog(hire, h.today()), timeoff.DefaultWorkWeek, nil)

	if err := h.Store.CreateEmployee(r.Context(), emp, ledger); err != nil {
		h.writeDomainError(w, r, "create employee", err)
		return
	}

	loggerFrom(r.Context()).Info("employee created", fieldEmployee, emp.ID)
	writeJSON(w, http.StatusCreated, toEmployeeDTO(emp))
}

// GetEmployee returns a single employee.
// GET /api/employees/{id}
func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	emp, ok := h.loadEmployee(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeDTO(*emp))
}

// DeleteEmployee removes an employee and their ledger.
// DELETE /api/employees/{id}
func (h *Handler) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	id := employeeID(r)
	if err := h.Store.DeleteEmployee(r.Context(), id); err != nil {
		h.writeDomainError(w, r, "delete employee", err)
		return
	}
	loggerFrom(r.Context()).Info("employee deleted", fieldEmployee, id)
	w.WriteHeader(http.StatusNoContent)
}

// ActivateEmployee recomputes the tenure-based allowances. The optional
// as_of query parameter (YYYY-MM-DD) defaults to today.
// POST /api/employees/{id}/activate
func (h *Handler) ActivateEmployee(w http.ResponseWriter, r *http.Request) {
	emp, ok := h.loadEmployee(w, r)
	if !ok {
		return
	}

	asOf := h.today()
	if s := r.URL.Query().Get("as_of"); s != "" {
		d, err := generic.ParseDate(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_date", "Invalid as_of", err)
			return
		}
		asOf = d
	}

	h.mutate(w, r, emp.ID, func(l timeoff.Ledger) (timeoff.Ledger, timeoff.Outcome, error) {
		next := l.RecomputeEntitlements(emp.HireDate, asOf)
		if catalogEqual(next.Catalog(), l.Catalog()) {
			return l, timeoff.OutcomeUnchanged, nil
		}
		return next, timeoff.OutcomeApplied, nil
	}, func(l timeoff.Ledger, version int64, _ timeoff.Outcome) any {
		return LedgerResponse{EmployeeID: string(emp.ID), Version: version, Ledger: l}
	})
}

// =============================================================================
// LEDGER ENDPOINTS
// =============================================================================

// GetLedger returns the ledger with its version.
// GET /api/employees/{id}/ledger
func (h *Handler) GetLedger(w http.ResponseWriter, r *http.Request) {
	id := employeeID(r)
	rec, ok := h.loadLedger(w, r, id)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, LedgerResponse{EmployeeID: string(id), Version: rec.Version, Ledger: rec.Ledger})
}

// ReplaceLedger stores a whole ledger after validating its invariants.
// PUT /api/employees/{id}/ledger
func (h *Handler) ReplaceLedger(w http.ResponseWriter, r *http.Request) {
	id := employeeID(r)

	var req ReplaceLedgerRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := req.Ledger.Validate(); err != nil {
		var verr *generic.LedgerValidationError
		if errors.As(err, &verr) {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid ledger", Code: "invalid_ledger", Details: verr.Problems})
			return
		}
		h.writeDomainError(w, r, "validate ledger", err)
		return
	}

	version, err := h.Store.SaveLedger(r.Context(), id, req.Ledger, req.Version)
	if err != nil {
		h.writeDomainError(w, r, "replace ledger", err)
		return
	}
	writeJSON(w, http.StatusOK, LedgerResponse{EmployeeID: string(id), Version: version, Ledger: req.Ledger})
}

// SetWorkDays replaces the working weekdays.
// PUT /api/employees/{id}/work-days
func (h *Handler) SetWorkDays(w http.ResponseWriter, r *http.Request) {
	var req WorkDaysRequest
	if !h.decode(w, r, &req) {
		return
	}
	week := req.Week()
	if week == (timeoff.WorkWeek{}) {
		writeError(w, http.StatusBadRequest, "no_working_days", "At least one working weekday is required", nil)
		return
	}
	id := employeeID(r)
	h.mutate(w, r, id, func(l timeoff.Ledger) (timeoff.Ledger, timeoff.Outcome, error) {
		next, out := l.SetWorkWeek(week)
		return next, out, nil
	}, func(l timeoff.Ledger, version int64, _ timeoff.Outcome) any {
		return LedgerResponse{EmployeeID: string(id), Version: version, Ledger: l}
	})
}

// AssignDay books a working day as requested leave.
// POST /api/employees/{id}/days/{date}
func (h *Handler) AssignDay(w http.ResponseWriter, r *http.Request) {
	day, ok := dateParam(w, r)
	if !ok {
		return
	}
	var req AssignDayRequest
	if !h.decode(w, r, &req) {
		return
	}
	key, valid := timeoff.NormalizeKey(req.CategoryKey)
	if !valid {
		writeError(w, http.StatusUnprocessableEntity, string(timeoff.OutcomeUnknownCategory), "Unknown leave category", nil)
		return
	}

	holidays, err := h.Holidays.Year(day.Year)
	if err != nil {
		h.writeDomainError(w, r, "generate holidays", err)
		return
	}

	id := employeeID(r)
	h.mutate(w, r, id, func(l timeoff.Ledger) (timeoff.Ledger, timeoff.Outcome, error) {
		if !timeoff.IsWorkingDay(day, holidays, l.WorkWeek()) {
			if hol, isHoliday := holidays[day]; isHoliday {
				return l, "", fmt.Errorf("%w: %s is %s", generic.ErrNonWorkingDay, day, hol.Name)
			}
			return l, "", fmt.Errorf("%w: %s is not in the work week", generic.ErrNonWorkingDay, day)
		}
		next, out := l.Assign(day, key)
		if out == timeoff.OutcomeOccupied {
			existing, _ := l.Entry(day)
			return l, out, &generic.OccupiedDayError{EmployeeID: id, Date: day, Existing: string(existing.CategoryKey)}
		}
		return next, out, nil
	}, dayResponse(day))
}

// ApproveDay approves a requested day. Approving twice is a no-op.
// POST /api/employees/{id}/days/{date}/approve
func (h *Handler) ApproveDay(w http.ResponseWriter, r *http.Request) {
	day, ok := dateParam(w, r)
	if !ok {
		return
	}
	h.mutate(w, r, employeeID(r), func(l timeoff.Ledger) (timeoff.Ledger, timeoff.Outcome, error) {
		next, out := l.Approve(day)
		return next, out, nil
	}, dayResponse(day))
}

// ClearDay removes a booking.
// DELETE /api/employees/{id}/days/{date}
func (h *Handler) ClearDay(w http.ResponseWriter, r *http.Request) {
	day, ok := dateParam(w, r)
	if !ok {
		return
	}
	h.mutate(w, r, employeeID(r), func(l timeoff.Ledger) (timeoff.Ledger, timeoff.Outcome, error) {
		next, out := l.Clear(day, h.ledgerConfig)
		return next, out, nil
	}, dayResponse(day))
}

func dayResponse(day generic.Date) func(timeoff.Ledger, int64, timeoff.Outcome) any {
	return func(l timeoff.Ledger, version int64, out timeoff.Outcome) any {
		resp := DayResponse{Date: day.String(), Outcome: out, Version: version}
		if e, ok := l.Entry(day); ok {
			resp.Entry = &e
		}
		return resp
	}
}

// =============================================================================
// CATEGORY ENDPOINTS
// =============================================================================

// AddLeaveType adds a category to the employee's catalog.
// POST /api/employees/{id}/leave-types
func (h *Handler) AddLeaveType(w http.ResponseWriter, r *http.Request) {
	var req LeaveTypeRequest
	if !h.decode(w, r, &req) {
		return
	}
	raw := req.Key
	if raw == "" {
		raw = req.Label
	}

	var key timeoff.CategoryKey
	h.mutateStatus(w, r, employeeID(r), http.StatusCreated, func(l timeoff.Ledger) (timeoff.Ledger, timeoff.Outcome, error) {
		next, k, out := l.AddType(raw, req.leaveType())
		key = k
		return next, out, nil
	}, func(l timeoff.Ledger, version int64, out timeoff.Outcome) any {
		lt := l.Catalog()[key]
		return LeaveTypeResponse{Key: key, LeaveType: &lt, Outcome: out, Version: version}
	})
}

// UpdateLeaveType edits a category. Protected categories are editable.
// PUT /api/employees/{id}/leave-types/{key}
func (h *Handler) UpdateLeaveType(w http.ResponseWriter, r *http.Request) {
	key, ok := keyParam(w, r)
	if !ok {
		return
	}
	var req LeaveTypeRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.mutate(w, r, employeeID(r), func(l timeoff.Ledger) (timeoff.Ledger, timeoff.Outcome, error) {
		next, out := l.UpdateType(key, req.leaveType())
		return next, out, nil
	}, func(l timeoff.Ledger, version int64, out timeoff.Outcome) any {
		lt := l.Catalog()[key]
		return LeaveTypeResponse{Key: key, LeaveType: &lt, Outcome: out, Version: version}
	})
}

// RemoveLeaveType deletes an unused, unprotected category.
// DELETE /api/employees/{id}/leave-types/{key}
func (h *Handler) RemoveLeaveType(w http.ResponseWriter, r *http.Request) {
	key, ok := keyParam(w, r)
	if !ok {
		return
	}
	h.mutate(w, r, employeeID(r), func(l timeoff.Ledger) (timeoff.Ledger, timeoff.Outcome, error) {
		next, out := l.RemoveType(key)
		return next, out, nil
	}, func(_ timeoff.Ledger, version int64, out timeoff.Outcome) any {
		return LeaveTypeResponse{Key: key, Outcome: out, Version: version}
	})
}

// ListLeaveTypes returns the union of every employee's catalog. The default
// catalog is returned when there are no employees yet.
// GET /api/leave-types
func (h *Handler) ListLeaveTypes(w http.ResponseWriter, r *http.Request) {
	ledgers, err := h.Store.ListLedgers(r.Context())
	if err != nil {
		h.writeDomainError(w, r, "list ledgers", err)
		return
	}
	if len(ledgers) == 0 {
		writeJSON(w, http.StatusOK, timeoff.DefaultCatalog())
		return
	}
	writeJSON(w, http.StatusOK, mergedCatalog(ledgers))
}

// mergedCatalog merges catalogs in employee id order so the result is stable.
func mergedCatalog(ledgers map[generic.EmployeeID]timeoff.Ledger) timeoff.Catalog {
	ids := make([]generic.EmployeeID, 0, len(ledgers))
	for id := range ledgers {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	catalogs := make([]timeoff.Catalog, 0, len(ids))
	for _, id := range ids {
		catalogs = append(catalogs, ledgers[id].Catalog())
	}
	return timeoff.MergeCatalogs(catalogs...)
}

// =============================================================================
// REPORTING ENDPOINTS
// =============================================================================

// ListHolidays returns the holidays of ?year= (default: current year).
// GET /api/holidays
func (h *Handler) ListHolidays(w http.ResponseWriter, r *http.Request) {
	year, ok := h.yearParam(w, r)
	if !ok {
		return
	}
	holidays, err := h.Holidays.Year(year)
	if err != nil {
		h.writeDomainError(w, r, "generate holidays", err)
		return
	}
	writeJSON(w, http.StatusOK, HolidaysResponse{Year: year, Holidays: holidays.Sorted()})
}

// GetSummary returns the employee's per-category overview for ?year=.
// GET /api/employees/{id}/summary
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	year, ok := h.yearParam(w, r)
	if !ok {
		return
	}
	id := employeeID(r)
	rec, ok := h.loadLedger(w, r, id)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, SummaryResponse{
		EmployeeID: id,
		Year:       year,
		Categories: timeoff.Summarize(id, rec.Ledger, year, h.rollover),
	})
}

// GetRequestForm renders the printable request for one category as PDF.
// Query: category (required), year, status (requested|approved, default
// requested).
// GET /api/employees/{id}/request-form
func (h *Handler) GetRequestForm(w http.ResponseWriter, r *http.Request) {
	year, ok := h.yearParam(w, r)
	if !ok {
		return
	}
	key, valid := timeoff.NormalizeKey(r.URL.Query().Get("category"))
	if !valid {
		writeError(w, http.StatusBadRequest, "invalid_request", "category is required", nil)
		return
	}
	status := timeoff.StatusRequested
	if s := r.URL.Query().Get("status"); s != "" {
		status = timeoff.Status(s)
		if !status.Valid() {
			writeError(w, http.StatusBadRequest, "invalid_request", "status must be requested or approved", nil)
			return
		}
	}

	emp, ok := h.loadEmployee(w, r)
	if !ok {
		return
	}
	rec, ok := h.loadLedger(w, r, emp.ID)
	if !ok {
		return
	}

	form := timeoff.BuildRequestForm(*emp, rec.Ledger, key, status, year)
	if form.Empty() {
		writeError(w, http.StatusNotFound, "not_found", "No days to request", nil)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`inline; filename="request-%s-%d.pdf"`, strings.ToLower(string(key)), year))
	if err := writeRequestFormPDF(w, form, h.now()); err != nil {
		loggerFrom(r.Context()).Error("render request form", fieldEmployee, emp.ID, fieldError, err)
	}
}

// GetStats aggregates ledgers for one year.
// Query: year, category (repeatable or comma separated), employee (same),
// rollover (single_employee|always|never).
// GET /api/stats
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	q, ok := h.queryParams(w, r)
	if !ok {
		return
	}
	ledgers, err := h.Store.ListLedgers(r.Context())
	if err != nil {
		h.writeDomainError(w, r, "list ledgers", err)
		return
	}
	writeJSON(w, http.StatusOK, StatsResponse{
		Year:     q.Year,
		Rollover: q.Rollover,
		Stats:    timeoff.Aggregate(ledgers, nil, q),
	})
}

// GetReport builds the yearly dashboard. Same query as GetStats.
// GET /api/reports
func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	q, ok := h.queryParams(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	ledgers, err := h.Store.ListLedgers(ctx)
	if err != nil {
		h.writeDomainError(w, r, "list ledgers", err)
		return
	}
	list, err := h.Store.ListEmployees(ctx)
	if err != nil {
		h.writeDomainError(w, r, "list employees", err)
		return
	}
	employees := make(map[generic.EmployeeID]timeoff.Employee, len(list))
	for _, e := range list {
		employees[e.ID] = e
	}

	writeJSON(w, http.StatusOK, timeoff.BuildReport(ledgers, employees, nil, q))
}

// =============================================================================
// MUTATION PIPELINE
// =============================================================================

// ledgerOp applies one transition. A non-nil error aborts before the
// outcome is looked at.
type ledgerOp func(timeoff.Ledger) (timeoff.Ledger, timeoff.Outcome, error)

// responder builds the success body from the resulting ledger and version.
type responder func(timeoff.Ledger, int64, timeoff.Outcome) any

func (h *Handler) mutate(w http.ResponseWriter, r *http.Request, id generic.EmployeeID, op ledgerOp, respond responder) {
	h.mutateStatus(w, r, id, http.StatusOK, op, respond)
}

// mutateStatus runs load -> transition -> compare-and-swap save. Rejected
// outcomes are reported without touching the store; unchanged ledgers are
// not written.
func (h *Handler) mutateStatus(w http.ResponseWriter, r *http.Request, id generic.EmployeeID, status int, op ledgerOp, respond responder) {
	rec, ok := h.loadLedger(w, r, id)
	if !ok {
		return
	}

	next, out, err := op(rec.Ledger)
	if err != nil {
		h.writeDomainError(w, r, "apply", err)
		return
	}
	if out.Rejected() {
		h.writeOutcome(w, out)
		return
	}

	version := rec.Version
	if out.Changed() {
		version, err = h.Store.SaveLedger(r.Context(), id, next, rec.Version)
		if err != nil {
			h.writeDomainError(w, r, "save ledger", err)
			return
		}
	}
	if !out.Changed() {
		status = http.StatusOK
	}
	writeJSON(w, status, respond(next, version, out))
}

func (h *Handler) loadEmployee(w http.ResponseWriter, r *http.Request) (*timeoff.Employee, bool) {
	id := employeeID(r)
	emp, err := h.Store.GetEmployee(r.Context(), id)
	if err != nil {
		h.writeDomainError(w, r, "get employee", err)
		return nil, false
	}
	if emp == nil {
		writeError(w, http.StatusNotFound, "not_found", "Employee not found", nil)
		return nil, false
	}
	return emp, true
}

func (h *Handler) loadLedger(w http.ResponseWriter, r *http.Request, id generic.EmployeeID) (*timeoff.LedgerRecord, bool) {
	rec, err := h.Store.GetLedger(r.Context(), id)
	if err != nil {
		h.writeDomainError(w, r, "get ledger", err)
		return nil, false
	}
	if rec == nil {
		writeError(w, http.StatusNotFound, "not_found", "Employee not found", nil)
		return nil, false
	}
	return rec, true
}

func catalogEqual(a, b timeoff.Catalog) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if w, ok := b[k]; !ok || w != v {
			return false
		}
	}
	return true
}

// =============================================================================
// REQUEST PARSING
// =============================================================================

func employeeID(r *http.Request) generic.EmployeeID {
	return generic.EmployeeID(chi.URLParam(r, "id"))
}

func dateParam(w http.ResponseWriter, r *http.Request) (generic.Date, bool) {
	d, err := generic.ParseDate(chi.URLParam(r, "date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_date", "Invalid date, expected YYYY-MM-DD", err)
		return generic.Date{}, false
	}
	return d, true
}

func keyParam(w http.ResponseWriter, r *http.Request) (timeoff.CategoryKey, bool) {
	key, ok := timeoff.NormalizeKey(chi.URLParam(r, "key"))
	if !ok {
		writeError(w, http.StatusBadRequest, string(timeoff.OutcomeInvalidKey), "Invalid leave category key", nil)
		return "", false
	}
	return key, true
}

func (h *Handler) yearParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	s := r.URL.Query().Get("year")
	if s == "" {
		return h.today().Year, true
	}
	year, err := strconv.Atoi(s)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "Invalid year", err)
		return 0, false
	}
	return year, true
}

func (h *Handler) queryParams(w http.ResponseWriter, r *http.Request) (timeoff.Query, bool) {
	year, ok := h.yearParam(w, r)
	if !ok {
		return timeoff.Query{}, false
	}

	rollover := h.rollover
	if s := r.URL.Query().Get("rollover"); s != "" {
		var err error
		if rollover, err = timeoff.ParseRolloverScope(s); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "Invalid rollover", err)
			return timeoff.Query{}, false
		}
	}

	q := timeoff.Query{Year: year, Rollover: rollover}
	for _, c := range listParam(r, "category") {
		key, valid := timeoff.NormalizeKey(c)
		if !valid {
			writeError(w, http.StatusBadRequest, string(timeoff.OutcomeInvalidKey), "Invalid category", nil)
			return timeoff.Query{}, false
		}
		q.Filter.Categories = append(q.Filter.Categories, key)
	}
	for _, e := range listParam(r, "employee") {
		q.Filter.Employees = append(q.Filter.Employees, generic.EmployeeID(e))
	}
	return q, true
}

// listParam accepts both ?k=a&k=b and ?k=a,b.
func listParam(r *http.Request, name string) []string {
	var out []string
	for _, v := range r.URL.Query()[name] {
		for _, part := range strings.Split(v, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

// decode reads a JSON body into dst and validates it.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "Invalid request body", err)
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			fields := make(map[string]string, len(ve))
			for _, fe := range ve {
				fields[fe.Field()] = fe.Tag()
			}
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Validation failed", Code: "validation_failed", Details: fields})
			return false
		}
		writeError(w, http.StatusBadRequest, "invalid_request", "Invalid request body", err)
		return false
	}
	return true
}

// =============================================================================
// RESPONSES
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code, message string, err error) {
	resp := ErrorResponse{Error: message, Code: code}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeOutcome reports a rejected transition.
func (h *Handler) writeOutcome(w http.ResponseWriter, out timeoff.Outcome) {
	err := out.Err()
	status, _ := statusFor(err)
	writeError(w, status, string(out), capitalize(err.Error()), nil)
}

// writeDomainError maps an error onto a status code; unexpected errors are
// logged.
func (h *Handler) writeDomainError(w http.ResponseWriter, r *http.Request, op string, err error) {
	status, code := statusFor(err)
	if status >= http.StatusInternalServerError {
		loggerFrom(r.Context()).Error(op+" failed", fieldEmployee, chi.URLParam(r, "id"), fieldError, err)
		writeError(w, status, code, "Internal error", nil)
		return
	}
	writeError(w, status, code, capitalize(err.Error()), nil)
}

func statusFor(err error) (int, string) {
	switch {
	case generic.IsNotFound(err):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, generic.ErrNonWorkingDay):
		return http.StatusUnprocessableEntity, "non_working_day"
	case errors.Is(err, generic.ErrUnknownCategory):
		return http.StatusUnprocessableEntity, "unknown_category"
	case errors.Is(err, generic.ErrDayOccupied):
		return http.StatusConflict, string(timeoff.OutcomeOccupied)
	case errors.Is(err, generic.ErrConcurrentModification):
		return http.StatusConflict, "concurrent_modification"
	case errors.Is(err, generic.ErrAlreadyExists):
		return http.StatusConflict, "already_exists"
	case generic.IsConflict(err):
		return http.StatusConflict, "conflict"
	case generic.IsClientError(err):
		return http.StatusBadRequest, "invalid_request"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
