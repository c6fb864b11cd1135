package reconcile

import "github.com/cmlabs-hris/attendance-backend-go/internal/domain/leave"

// Summary totals one employee's classified days.
// Present + Absent + Leave + CompanyLeave == TotalDays.
type Summary struct {
	TotalDays    int
	Present      int
	Late         int
	Early        int
	Permission   int
	Leave        int
	CompanyLeave int
	Absent       int
	LeaveByType  map[leave.Type]int
}

// Summarize folds classified days into totals. Permission days count as
// present.
func Summarize(days []ClassifiedDay) Summary {
	s := Summary{TotalDays: len(days), LeaveByType: make(map[leave.Type]int)}
	for _, d := range days {
		switch d.Kind {
		case KindCompanyLeave:
			s.CompanyLeave++
		case KindAttendance:
			s.Present++
			if d.Late {
				s.Late++
			}
			if d.Early {
				s.Early++
			}
		case KindPermission:
			s.Present++
			s.Permission++
		case KindLeave:
			s.Leave++
			s.LeaveByType[d.LeaveType]++
		default:
			s.Absent++
		}
	}
	return s
}

// AttendanceDays is the number of days with a scan record, permission excluded.
func (s Summary) AttendanceDays() int {
	return s.Present - s.Permission
}
