package leave

import (
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

type ApplyLeaveRequest struct {
	// EmployeeID is honoured for admins only; others always apply for themselves.
	EmployeeID string `json:"employee_id,omitempty"`
	Type       string `json:"leave_type"`
	From       string `json:"from_date"`
	To         string `json:"to_date,omitempty"`
	Reason     string `json:"reason"`
}

// Validate checks the request. Date-only values are read in loc, the same way
// ToEntity reads them, so the ordering check matches what gets stored.
func (r *ApplyLeaveRequest) Validate(loc *time.Location) error {
	if loc == nil {
		loc = time.UTC
	}

	var errs validator.ValidationErrors

	errs.Required("leave_type", r.Type)
	if !validator.IsEmpty(r.Type) && !IsValidType(r.Type) {
		errs.Add("leave_type", "leave_type must be one of SickLeave, PersonalLeave, CasualLeave, MedicalLeave, Permission, Others")
	}
	errs.Required("reason", r.Reason)

	from, okFrom := ParseDateOrTime(r.From, loc)
	if validator.IsEmpty(r.From) {
		errs.Add("from_date", "from_date is required")
	} else if !okFrom {
		errs.Add("from_date", "from_date must be YYYY-MM-DD or RFC3339")
	}

	if !validator.IsEmpty(r.To) {
		to, ok := ParseDateOrTime(r.To, loc)
		if !ok {
			errs.Add("to_date", "to_date must be YYYY-MM-DD or RFC3339")
		} else if okFrom && to.Before(from) {
			errs.Add("to_date", "to_date must not be before from_date")
		}
	}

	return errs.Err()
}

// ToEntity builds a pending leave. Date-only values are midnight in loc.
// Call Validate first.
func (r *ApplyLeaveRequest) ToEntity(employeeID string, now time.Time, loc *time.Location) Leave {
	from, _ := ParseDateOrTime(r.From, loc)
	var to *time.Time
	if !validator.IsEmpty(r.To) {
		t, _ := ParseDateOrTime(r.To, loc)
		to = &t
	}
	return Leave{
		EmployeeID: employeeID,
		Type:       Type(r.Type),
		From:       &from,
		To:         to,
		Reason:     r.Reason,
		Status:     StatusPending,
		CreatedAt:  now,
	}
}

type DecideLeaveRequest struct {
	ID     string `json:"-"`
	Status string `json:"status"`
}

func (r *DecideLeaveRequest) Validate() error {
	var errs validator.ValidationErrors
	errs.Required("id", r.ID)
	if r.Status != string(StatusApproved) && r.Status != string(StatusDenied) {
		errs.Add("status", "status must be Approved or Denied")
	}
	return errs.Err()
}

type ListLeaveRequest struct {
	EmployeeID string
	Status     string
}

func (r *ListLeaveRequest) Validate() error {
	var errs validator.ValidationErrors
	if r.Status != "" && !validator.IsInSlice(r.Status, []string{string(StatusPending), string(StatusApproved), string(StatusDenied)}) {
		errs.Add("status", "status must be Pending, Approved or Denied")
	}
	return errs.Err()
}

type LeaveResponse struct {
	ID         string     `json:"id"`
	EmployeeID string     `json:"employee_id"`
	Type       string     `json:"leave_type"`
	From       *time.Time `json:"from_date"`
	To         *time.Time `json:"to_date"`
	Reason     string     `json:"reason"`
	Status     string     `json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
	DecidedAt  *time.Time `json:"decided_at,omitempty"`
	DecidedBy  string     `json:"decided_by,omitempty"`
}

func NewLeaveResponse(l Leave) LeaveResponse {
	return LeaveResponse{
		ID:         l.ID,
		EmployeeID: l.EmployeeID,
		Type:       string(l.Type),
		From:       l.From,
		To:         l.End(),
		Reason:     l.Reason,
		Status:     string(l.Status),
		CreatedAt:  l.CreatedAt,
		DecidedAt:  l.DecidedAt,
		DecidedBy:  l.DecidedBy,
	}
}

func IsValidType(t string) bool {
	for _, known := range Types {
		if string(known) == t {
			return true
		}
	}
	return false
}

// ParseDateOrTime accepts YYYY-MM-DD, read as midnight in loc, or an RFC3339 timestamp.
func ParseDateOrTime(s string, loc *time.Location) (time.Time, bool) {
	if t, err := time.ParseInLocation("2006-01-02", s, loc); err == nil {
		return t, true
	}
	return validator.IsValidDateTime(s)
}
