package api

import (
	"time"

	"github.com/warp/leave-ledger/generic"
	"github.com/warp/leave-ledger/timeoff"
)

// =============================================================================
// EMPLOYEE DTOs
// =============================================================================

// CreateEmployeeRequest is the request body for creating an employee.
type CreateEmployeeRequest struct {
	Name       string `json:"name" validate:"required,max=200"`
	LegalID    string `json:"legalId" validate:"max=32"`
	Department string `json:"department" validate:"max=200"`
	HireDate   string `json:"hireDate" validate:"required,datetime=2006-01-02"`
}

// EmployeeDTO is the API representation of an employee.
type EmployeeDTO struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	LegalID    string    `json:"legalId"`
	Department string    `json:"department"`
	HireDate   string    `json:"hireDate"`
	CreatedAt  time.Time `json:"createdAt"`
}

func toEmployeeDTO(e timeoff.Employee) EmployeeDTO {
	return EmployeeDTO{
		ID:         string(e.ID),
		Name:       e.Name,
		LegalID:    e.LegalID,
		Department: e.Department,
		HireDate:   e.HireDate.String(),
		CreatedAt:  e.CreatedAt,
	}
}

// =============================================================================
// LEDGER DTOs
// =============================================================================

// LedgerResponse carries a ledger and the version to send back on update.
type LedgerResponse struct {
	EmployeeID string         `json:"employeeId"`
	Version    int64          `json:"version"`
	Ledger     timeoff.Ledger `json:"ledger"`
}

// ReplaceLedgerRequest is the body of PUT /employees/{id}/ledger.
type ReplaceLedgerRequest struct {
	Version int64          `json:"version" validate:"required,min=1"`
	Ledger  timeoff.Ledger `json:"ledger"`
}

// AssignDayRequest is the body of POST /employees/{id}/days/{date}.
type AssignDayRequest struct {
	CategoryKey string `json:"categoryKey" validate:"required"`
}

// DayResponse reports the result of a day transition.
type DayResponse struct {
	Date    string              `json:"date"`
	Outcome timeoff.Outcome     `json:"outcome"`
	Entry   *timeoff.LeaveEntry `json:"entry,omitempty"`
	Version int64               `json:"version"`
}

// LeaveTypeRequest creates or updates a category. Key is only read on create.
type LeaveTypeRequest struct {
	Key             string `json:"key"`
	Label           string `json:"label" validate:"required,max=100"`
	Color           string `json:"color" validate:"required,max=64"`
	TextColor       string `json:"textColor" validate:"max=64"`
	AnnualAllowance int    `json:"annualAllowance" validate:"min=0,max=366"`
}

func (r LeaveTypeRequest) leaveType() timeoff.LeaveType {
	return timeoff.LeaveType{
		Label:           r.Label,
		Color:           r.Color,
		TextColor:       r.TextColor,
		AnnualAllowance: r.AnnualAllowance,
	}
}

// LeaveTypeResponse reports a catalog change.
type LeaveTypeResponse struct {
	Key       timeoff.CategoryKey `json:"key"`
	LeaveType *timeoff.LeaveType  `json:"leaveType,omitempty"`
	Outcome   timeoff.Outcome     `json:"outcome"`
	Version   int64               `json:"version"`
}

// WorkDaysRequest replaces the employee's working weekdays, Monday first.
// All seven flags must be sent.
type WorkDaysRequest struct {
	WorkDays []bool `json:"workDays" validate:"required,len=7"`
}

// Week converts the validated flags.
func (r WorkDaysRequest) Week() timeoff.WorkWeek {
	var w timeoff.WorkWeek
	copy(w[:], r.WorkDays)
	return w
}

// =============================================================================
// REPORTING DTOs
// =============================================================================

// HolidaysResponse lists the holidays of a year in date order.
type HolidaysResponse struct {
	Year     int                    `json:"year"`
	Holidays []timeoff.DatedHoliday `json:"holidays"`
}

// StatsResponse is the aggregation of one year.
type StatsResponse struct {
	Year     int                                    `json:"year"`
	Rollover timeoff.RolloverScope                  `json:"rollover"`
	Stats    map[timeoff.CategoryKey]*timeoff.Stats `json:"stats"`
}

// SummaryResponse is an employee's yearly overview.
type SummaryResponse struct {
	EmployeeID generic.EmployeeID        `json:"employeeId"`
	Year       int                       `json:"year"`
	Categories []timeoff.CategorySummary `json:"categories"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}
