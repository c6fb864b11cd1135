package attendance

import (
	"time"
)

// Stored statuses. Late arrival is tracked by WasLate, not by status.
const (
	StatusPresent    = "Present"
	StatusEarlyGoing = "Early Going"
)

// DateLayout is the layout of Attendance.Date.
const DateLayout = "2006-01-02"

// Attendance is one employee's scan record for one calendar day.
// (BadgeID, Date) is unique.
type Attendance struct {
	ID         string
	EmployeeID string
	BadgeID    string
	Date       string
	CheckIn    *time.Time
	CheckOut   *time.Time
	Status     string
	WasLate    bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (a Attendance) IsCheckedOut() bool {
	return a.CheckOut != nil
}

func (a Attendance) IsEarlyGoing() bool {
	return a.Status == StatusEarlyGoing
}

// Filter selects records with Date in [From, To]. Empty BadgeID matches all employees.
type Filter struct {
	From    string
	To      string
	BadgeID string
}
