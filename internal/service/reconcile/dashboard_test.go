package reconcile

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/leave"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dashboardEmployees() []employee.Employee {
	return []employee.Employee{
		{ID: "e1", Name: "Asha", BadgeID: "B001"},
		{ID: "e2", Name: "Bala", BadgeID: "B002"},
		{ID: "e3", Name: "Chitra", BadgeID: "B003"},
		{ID: "e4", Name: "Dinesh", BadgeID: "B004"},
		{ID: "e5", Name: "Esha", BadgeID: "B005"},
		{ID: "e6", Name: "Farid", BadgeID: "B006"},
	}
}

func badgeScan(badge, date, in, out, status string, late bool) attendance.Attendance {
	a := scan(date, in, out, status, late)
	a.BadgeID = badge
	return a
}

func TestBuildDashboard_Counts(t *testing.T) {
	now := at("2024-06-05", "15:00") // Wednesday
	decided := at("2024-06-01", "09:00")

	perm := approvedLeave("p", leave.TypePermission, at("2024-06-05", "10:00"), at("2024-06-05", "12:00"), decided)
	perm.EmployeeID = "e4"
	sick := approvedLeave("s", leave.TypeSick, at("2024-06-04", "00:00"), at("2024-06-06", "00:00"), decided)
	sick.EmployeeID = "e5"
	presentButOnLeave := approvedLeave("x", leave.TypeCasual, at("2024-06-05", "00:00"), at("2024-06-05", "00:00"), decided)
	presentButOnLeave.EmployeeID = "e1"
	other := approvedLeave("o", leave.TypeOthers, at("2024-06-05", "00:00"), at("2024-06-05", "00:00"), decided)
	other.EmployeeID = "e6"

	in := DashboardInput{
		Now:       now,
		Location:  time.UTC,
		Employees: dashboardEmployees(),
		Attendance: []attendance.Attendance{
			badgeScan("B001", "2024-06-05", "09:00", "", attendance.StatusPresent, false),
			badgeScan("B002", "2024-06-05", "10:20", "16:00", attendance.StatusEarlyGoing, true),
			badgeScan("B003", "2024-06-05", "10:05", "18:00", attendance.StatusPresent, true),
			badgeScan("B003", "2024-06-05", "11:00", "", attendance.StatusPresent, true),
			badgeScan("B001", "2024-06-04", "09:00", "18:00", attendance.StatusPresent, false),
			badgeScan("B001", "2024-05-30", "09:00", "18:00", attendance.StatusPresent, false),
		},
		Leaves: []leave.Leave{perm, sick, presentButOnLeave, other},
	}

	got := BuildDashboard(in)
	assert.Equal(t, "2024-06-05", got.Date)
	assert.Equal(t, 6, got.TotalEmployees)
	assert.Equal(t, 3, got.PresentCount)
	assert.Equal(t, 2, got.LateCount)
	assert.Equal(t, 1, got.OnTimeCount)
	assert.Equal(t, 1, got.EarlyGoingCount)
	assert.Equal(t, 2, got.CheckOutCount)
	assert.Equal(t, 1, got.PermissionCount)
	assert.Equal(t, 1, got.OnLeaveCount)
	assert.Equal(t, 1, got.AbsentCount)
	assert.Equal(t, 5, got.RestDayCount) // Sundays of June 2024

	require.Len(t, got.LateComers, 2)
	assert.Equal(t, "Chitra", got.LateComers[0].Name)
	assert.Equal(t, "Bala", got.LateComers[1].Name)

	require.Len(t, got.Chart, ChartDays)
	assert.Equal(t, "2024-05-30", got.Chart[0].Date)
	assert.Equal(t, 1, got.Chart[0].Count)
	assert.Equal(t, "2024-06-04", got.Chart[5].Date)
	assert.Equal(t, 1, got.Chart[5].Count)
	assert.Equal(t, "2024-06-05", got.Chart[6].Date)
	assert.Equal(t, 3, got.Chart[6].Count)
}

func TestBuildDashboard_RestDayHasNoAbsentees(t *testing.T) {
	got := BuildDashboard(DashboardInput{
		Now:       at("2024-06-09", "12:00"),
		Location:  time.UTC,
		Employees: dashboardEmployees(),
	})
	assert.Equal(t, 0, got.PresentCount)
	assert.Equal(t, 0, got.AbsentCount)
	assert.NotNil(t, got.LateComers)
}

func TestBuildDashboard_AbsentNeverNegative(t *testing.T) {
	got := BuildDashboard(DashboardInput{
		Now:      at("2024-06-05", "12:00"),
		Location: time.UTC,
		Employees: []employee.Employee{
			{ID: "e1", BadgeID: "B001"},
		},
		Attendance: []attendance.Attendance{
			badgeScan("B001", "2024-06-05", "09:00", "", attendance.StatusPresent, false),
			badgeScan("UNKNOWN", "2024-06-05", "09:00", "", attendance.StatusPresent, false),
		},
	})
	assert.Equal(t, 2, got.PresentCount)
	assert.Equal(t, 0, got.AbsentCount)
}

func TestChartStart(t *testing.T) {
	assert.Equal(t, "2024-05-30", ChartStart(at("2024-06-05", "23:59"), time.UTC).Format(DateLayout))
}
