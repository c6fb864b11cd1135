package employee

import (
	"strings"
	"time"
)

const DesignationAdmin = "admin"

// Default leave quotas granted to a new employee.
const (
	DefaultSickLeave     = 12
	DefaultPersonalLeave = 0
)

type Employee struct {
	ID            string
	BadgeID       string
	Name          string
	Email         string
	EmployeeCode  string
	Designation   string
	Department    string
	Mobile        string
	Gender        string
	MaritalStatus string
	DateOfBirth   time.Time
	JoiningDate   time.Time
	Address       string
	PhotoURL      string
	SickLeave     int
	PersonalLeave int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsAdmin reports whether the employee holds the admin designation.
func (e Employee) IsAdmin() bool {
	return strings.EqualFold(strings.TrimSpace(e.Designation), DesignationAdmin)
}

// QuotaDeduction is the number of days to subtract from each quota counter.
type QuotaDeduction struct {
	Sick     int
	Personal int
}

func (d QuotaDeduction) IsZero() bool {
	return d.Sick == 0 && d.Personal == 0
}

// Filter narrows List results. Empty fields match everything.
type Filter struct {
	Search     string
	Department string
}
