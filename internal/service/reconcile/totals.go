package reconcile

import "github.com/cmlabs-hris/attendance-backend-go/internal/domain/leave"

// Totals is the month-to-date tally of one employee.
type Totals struct {
	PresentDays    int
	AbsentDays     int
	LateDays       int
	EarlyDays      int
	PermissionDays int
	SickLeaves     int
	CasualLeaves   int
}

// MonthTotals derives the month tally from a summary. PresentDays counts
// scan days only; permission days are reported separately.
func MonthTotals(s Summary) Totals {
	return Totals{
		PresentDays:    s.AttendanceDays(),
		AbsentDays:     s.Absent,
		LateDays:       s.Late,
		EarlyDays:      s.Early,
		PermissionDays: s.Permission,
		SickLeaves:     s.LeaveByType[leave.TypeSick],
		CasualLeaves:   s.LeaveByType[leave.TypeCasual],
	}
}
