package leave

import (
	"time"
)

type Type string

const (
	TypeSick       Type = "SickLeave"
	TypePersonal   Type = "PersonalLeave"
	TypeCasual     Type = "CasualLeave"
	TypeMedical    Type = "MedicalLeave"
	TypePermission Type = "Permission"
	TypeOthers     Type = "Others"
)

var Types = []Type{TypeSick, TypePersonal, TypeCasual, TypeMedical, TypePermission, TypeOthers}

// OnLeaveTypes are the full-day absence types counted as "on leave" by the dashboard.
var OnLeaveTypes = []Type{TypeMedical, TypeSick, TypePersonal, TypeCasual}

type Status string

const (
	StatusPending  Status = "Pending"
	StatusApproved Status = "Approved"
	StatusDenied   Status = "Denied"
)

// Leave is one leave application. From and To are inclusive; a nil To means a
// single-day leave. Status moves from Pending to Approved or Denied exactly once.
type Leave struct {
	ID         string
	EmployeeID string
	Type       Type
	From       *time.Time
	To         *time.Time
	Reason     string
	Status     Status
	CreatedAt  time.Time
	DecidedAt  *time.Time
	DecidedBy  string
}

func (l Leave) IsPending() bool  { return l.Status == StatusPending }
func (l Leave) IsApproved() bool { return l.Status == StatusApproved }

// End returns To, falling back to From for single-day leaves.
func (l Leave) End() *time.Time {
	if l.To != nil {
		return l.To
	}
	return l.From
}

// Covers reports whether t falls inside the leave span.
func (l Leave) Covers(t time.Time) bool {
	if l.From == nil {
		return false
	}
	return !t.Before(*l.From) && !t.After(*l.End())
}

// Filter narrows List results. Zero fields match everything.
type Filter struct {
	EmployeeID string
	Status     Status
	// Overlapping [From, To] when both are set.
	From *time.Time
	To   *time.Time
	// CreatedFrom/CreatedTo bound CreatedAt.
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// Decision is the status update written when an admin decides a leave.
type Decision struct {
	Status    Status
	DecidedAt time.Time
	DecidedBy string
}
