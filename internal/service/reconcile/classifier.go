package reconcile

import (
	"regexp"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/leave"
)

// Kind is the category a day is counted under.
type Kind int

const (
	KindAbsent Kind = iota
	KindCompanyLeave
	KindAttendance
	KindPermission
	KindLeave
)

func (k Kind) String() string {
	switch k {
	case KindCompanyLeave:
		return "company_leave"
	case KindAttendance:
		return "attendance"
	case KindPermission:
		return "permission"
	case KindLeave:
		return "leave"
	default:
		return "absent"
	}
}

const (
	StatusCompanyLeave = "Company Leave"
	StatusLate         = "Late"
	StatusLateAndEarly = "Late & Early Checkout"
	StatusPermission   = "Permission"
	StatusAbsent       = "Absent"
	clockLayout        = "3:04 PM"
)

// ClassifiedDay is the outcome for one employee on one calendar day.
type ClassifiedDay struct {
	Date      string
	Kind      Kind
	Status    string
	LeaveType leave.Type
	CheckIn   *time.Time
	CheckOut  *time.Time
	Late      bool
	Early     bool
	Detail    string
}

// Variant holds the labels a report renders statuses with. Counting never
// depends on them.
type Variant struct {
	Name string
	// WeekendStatus labels rest days. Empty means the weekday name.
	WeekendStatus string
	LeaveStatus   func(t leave.Type) string
	// TimeLayout formats check-in and check-out times.
	TimeLayout string
}

// PersonalVariant is used by per-employee reports.
var PersonalVariant = Variant{
	Name:          "personal",
	WeekendStatus: StatusCompanyLeave,
	LeaveStatus:   func(t leave.Type) string { return SplitCamel(string(t)) },
	TimeLayout:    clockLayout,
}

// RegisterVariant is used by the date-wise attendance register.
var RegisterVariant = Variant{
	Name:          "register",
	WeekendStatus: "",
	LeaveStatus:   func(t leave.Type) string { return "On Leave (" + SplitCamel(string(t)) + ")" },
	TimeLayout:    clockLayout,
}

var camelBoundary = regexp.MustCompile(`([a-z])([A-Z])`)

// SplitCamel turns "SickLeave" into "Sick Leave".
func SplitCamel(s string) string {
	return camelBoundary.ReplaceAllString(s, "$1 $2")
}

// Classifier assigns exactly one status to each day.
type Classifier struct {
	variant Variant
	loc     *time.Location
}

func NewClassifier(v Variant, loc *time.Location) Classifier {
	if loc == nil {
		loc = time.UTC
	}
	if v.LeaveStatus == nil {
		v.LeaveStatus = PersonalVariant.LeaveStatus
	}
	if v.TimeLayout == "" {
		v.TimeLayout = clockLayout
	}
	return Classifier{variant: v, loc: loc}
}

// Classify applies, in order: rest day, attendance, permission, other leave,
// absent. The first rule that matches decides the day.
func (c Classifier) Classify(day CalendarDay, rec *attendance.Attendance, idx LeaveIndex) ClassifiedDay {
	out := ClassifiedDay{Date: day.Key}

	switch {
	case day.IsWeekend:
		out.Kind = KindCompanyLeave
		out.Status = c.variant.WeekendStatus
		if out.Status == "" {
			out.Status = day.Date.Weekday().String()
		}

	case rec != nil:
		out.Kind = KindAttendance
		out.CheckIn = rec.CheckIn
		out.CheckOut = rec.CheckOut
		out.Late = rec.WasLate
		out.Early = rec.IsEarlyGoing()
		out.Status = attendanceStatus(*rec)

	default:
		if span, ok := idx.Permission(day.Key); ok {
			out.Kind = KindPermission
			out.Status = StatusPermission
			out.Detail = span.From.In(c.loc).Format(clockLayout) + " to " + span.To.In(c.loc).Format(clockLayout)
		} else if t, ok := idx.Leave(day.Key); ok {
			out.Kind = KindLeave
			out.LeaveType = t
			out.Status = c.variant.LeaveStatus(t)
		} else {
			out.Kind = KindAbsent
			out.Status = StatusAbsent
		}
	}
	return out
}

// ClassifyRange classifies every day of w for one employee.
func (c Classifier) ClassifyRange(w Window, records []attendance.Attendance, idx LeaveIndex) []ClassifiedDay {
	m := NewMatcher(records)
	days := w.Days()
	out := make([]ClassifiedDay, 0, len(days))
	for _, day := range days {
		var rec *attendance.Attendance
		if r, ok := m.Match(day); ok {
			rec = &r
		}
		out = append(out, c.Classify(day, rec, idx))
	}
	return out
}

// FormatClock renders an optional timestamp with the variant's layout.
func (c Classifier) FormatClock(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.In(c.loc).Format(c.variant.TimeLayout)
}

func attendanceStatus(rec attendance.Attendance) string {
	base := rec.Status
	if base == "" {
		base = attendance.StatusPresent
	}
	if !rec.WasLate {
		return base
	}
	if rec.IsEarlyGoing() {
		return StatusLateAndEarly
	}
	return StatusLate
}
