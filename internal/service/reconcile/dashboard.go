package reconcile

import (
	"cmp"
	"slices"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/leave"
)

// ChartDays is the length of the trailing attendance series.
const ChartDays = 7

type DashboardInput struct {
	Now       time.Time
	Location  *time.Location
	RestDays  []time.Weekday
	Employees []employee.Employee
	// Attendance holds the records of the ChartDays days ending today.
	Attendance []attendance.Attendance
	// Leaves holds approved leaves that may cover today.
	Leaves []leave.Leave
}

// BuildDashboard computes today's fleet counts. An employee is counted in
// exactly one of present, permission, on leave or absent, in that order.
func BuildDashboard(in DashboardInput) dashboard.DashboardResponse {
	loc := in.Location
	if loc == nil {
		loc = time.UTC
	}
	today := StartOfDay(in.Now, loc)
	todayKey := today.Format(DateLayout)

	month := Month(in.Now, loc, in.RestDays...)
	out := dashboard.DashboardResponse{
		Date:           todayKey,
		TotalEmployees: len(in.Employees),
		Chart:          trailingChart(today, in.Attendance),
		LateComers:     []dashboard.LateComer{},
	}
	for _, d := range month.Days() {
		if d.IsWeekend {
			out.RestDayCount++
		}
	}

	names := make(map[string]employee.Employee, len(in.Employees))
	for _, e := range in.Employees {
		names[e.BadgeID] = e
	}

	var todays []attendance.Attendance
	present := make(map[string]struct{})
	for _, r := range in.Attendance {
		if r.Date != todayKey {
			continue
		}
		if _, dup := present[r.BadgeID]; dup {
			continue
		}
		present[r.BadgeID] = struct{}{}
		todays = append(todays, r)
	}

	out.PresentCount = len(todays)
	for _, r := range todays {
		if r.WasLate {
			out.LateCount++
			e := names[r.BadgeID]
			out.LateComers = append(out.LateComers, dashboard.LateComer{
				EmployeeID: e.ID,
				Name:       e.Name,
				BadgeID:    r.BadgeID,
				CheckIn:    formatOptional(r.CheckIn, loc),
			})
		}
		if r.IsEarlyGoing() {
			out.EarlyGoingCount++
		}
		if r.IsCheckedOut() {
			out.CheckOutCount++
		}
	}
	out.OnTimeCount = out.PresentCount - out.LateCount
	slices.SortFunc(out.LateComers, func(a, b dashboard.LateComer) int {
		return cmp.Compare(a.CheckIn, b.CheckIn)
	})

	presentEmployees := make(map[string]struct{})
	for _, e := range in.Employees {
		if _, ok := present[e.BadgeID]; ok {
			presentEmployees[e.ID] = struct{}{}
		}
	}

	window, _ := NewWindow(today, today, loc, in.RestDays...)
	onPermission := make(map[string]struct{})
	onLeave := make(map[string]struct{})
	for employeeID, leaves := range GroupLeavesByEmployee(in.Leaves) {
		if _, ok := presentEmployees[employeeID]; ok {
			continue
		}
		idx := IndexLeaves(leaves, window)
		if _, ok := idx.Permission(todayKey); ok {
			onPermission[employeeID] = struct{}{}
			continue
		}
		if t, ok := idx.Leave(todayKey); ok && slices.Contains(leave.OnLeaveTypes, t) {
			onLeave[employeeID] = struct{}{}
		}
	}
	out.PermissionCount = len(onPermission)
	out.OnLeaveCount = len(onLeave)

	if !window.IsRestDay(today) {
		out.AbsentCount = max(0, out.TotalEmployees-out.PresentCount-out.PermissionCount-out.OnLeaveCount)
	}
	return out
}

func trailingChart(today time.Time, records []attendance.Attendance) []dashboard.ChartPoint {
	perDay := make(map[string]map[string]struct{})
	for _, r := range records {
		if perDay[r.Date] == nil {
			perDay[r.Date] = make(map[string]struct{})
		}
		perDay[r.Date][r.BadgeID] = struct{}{}
	}
	points := make([]dashboard.ChartPoint, 0, ChartDays)
	for i := ChartDays - 1; i >= 0; i-- {
		key := time.Date(today.Year(), today.Month(), today.Day()-i, 0, 0, 0, 0, today.Location()).Format(DateLayout)
		points = append(points, dashboard.ChartPoint{Date: key, Count: len(perDay[key])})
	}
	return points
}

// ChartStart is the first day covered by the trailing chart.
func ChartStart(now time.Time, loc *time.Location) time.Time {
	today := StartOfDay(now, loc)
	return time.Date(today.Year(), today.Month(), today.Day()-(ChartDays-1), 0, 0, 0, 0, loc)
}

func formatOptional(t *time.Time, loc *time.Location) string {
	if t == nil {
		return ""
	}
	return t.In(loc).Format(time.RFC3339)
}
