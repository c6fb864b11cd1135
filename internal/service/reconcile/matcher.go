package reconcile

import "github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"

// Matcher finds the attendance record of a calendar day by its stored date.
type Matcher struct {
	byDate map[string]attendance.Attendance
}

// NewMatcher indexes one employee's records. If two records share a date the
// first one wins.
func NewMatcher(records []attendance.Attendance) Matcher {
	m := Matcher{byDate: make(map[string]attendance.Attendance, len(records))}
	for _, r := range records {
		if _, seen := m.byDate[r.Date]; !seen {
			m.byDate[r.Date] = r
		}
	}
	return m
}

func (m Matcher) Match(day CalendarDay) (attendance.Attendance, bool) {
	r, ok := m.byDate[day.Key]
	return r, ok
}

// GroupAttendanceByBadge splits a mixed record list by BadgeID.
func GroupAttendanceByBadge(records []attendance.Attendance) map[string][]attendance.Attendance {
	out := make(map[string][]attendance.Attendance)
	for _, r := range records {
		out[r.BadgeID] = append(out[r.BadgeID], r)
	}
	return out
}
