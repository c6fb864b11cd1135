package attendance

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/attendance-backend-go/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func (c *clock) set(value string) {
	t, err := time.ParseInLocation("2006-01-02 15:04", value, jakarta)
	if err != nil {
		panic(err)
	}
	c.t = t
}

var jakarta = time.FixedZone("WIB", 7*60*60)

func setup(t *testing.T) (attendance.AttendanceService, leave.LeaveRepository, employee.Employee, *clock) {
	t.Helper()
	store := memory.NewStore()
	employees := memory.NewEmployeeRepository(store)
	leaves := memory.NewLeaveRepository(store)

	emp, err := employees.Create(context.Background(), employee.Employee{BadgeID: "B001", Name: "Asha", Email: "asha@example.com"})
	require.NoError(t, err)

	c := &clock{}
	svc := NewAttendanceService(memory.NewAttendanceRepository(store), employees, leaves, Rules{
		Location:    jakarta,
		LateAfter:   ClockMinutes(10, 0),
		EarlyBefore: ClockMinutes(17, 0),
	}, c.now)
	return svc, leaves, emp, c
}

func TestScan_CheckInThenCheckOut(t *testing.T) {
	svc, _, _, c := setup(t)
	ctx := context.Background()

	c.set("2024-06-05 09:58")
	in, err := svc.Scan(ctx, attendance.ScanRequest{BadgeID: "B001"})
	require.NoError(t, err)
	assert.Equal(t, attendance.ScanCheckIn, in.Action)
	assert.Equal(t, "Asha", in.EmployeeName)
	assert.Equal(t, "2024-06-05", in.Attendance.Date)
	assert.False(t, in.Attendance.WasLate)
	assert.Equal(t, attendance.StatusPresent, in.Attendance.Status)

	c.set("2024-06-05 18:05")
	out, err := svc.Scan(ctx, attendance.ScanRequest{BadgeID: "B001"})
	require.NoError(t, err)
	assert.Equal(t, attendance.ScanCheckOut, out.Action)
	assert.Equal(t, attendance.StatusPresent, out.Attendance.Status)
	require.NotNil(t, out.Attendance.CheckOut)

	c.set("2024-06-05 18:30")
	_, err = svc.Scan(ctx, attendance.ScanRequest{BadgeID: "B001"})
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedOut)
}

func TestScan_Thresholds(t *testing.T) {
	tests := []struct {
		name      string
		checkIn   string
		checkOut  string
		wantLate  bool
		wantEarly bool
	}{
		{name: "exactly at late threshold is on time", checkIn: "10:00", checkOut: "17:30", wantLate: false},
		{name: "one minute past is late", checkIn: "10:01", checkOut: "17:30", wantLate: true},
		{name: "leaving at cut-off is early", checkIn: "09:00", checkOut: "17:00", wantEarly: true},
		{name: "late and early", checkIn: "11:15", checkOut: "15:00", wantLate: true, wantEarly: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _, c := setup(t)
			ctx := context.Background()

			c.set("2024-06-05 " + tt.checkIn)
			_, err := svc.Scan(ctx, attendance.ScanRequest{BadgeID: "B001"})
			require.NoError(t, err)

			c.set("2024-06-05 " + tt.checkOut)
			out, err := svc.Scan(ctx, attendance.ScanRequest{BadgeID: "B001"})
			require.NoError(t, err)

			assert.Equal(t, tt.wantLate, out.Attendance.WasLate, "late flag survives check-out")
			assert.Equal(t, tt.wantEarly, out.Attendance.Status == attendance.StatusEarlyGoing)
		})
	}
}

func TestScan_DateUsesConfiguredZone(t *testing.T) {
	svc, _, _, c := setup(t)

	// 00:30 WIB is still the previous day in UTC.
	c.set("2024-06-05 00:30")
	in, err := svc.Scan(context.Background(), attendance.ScanRequest{BadgeID: "B001"})
	require.NoError(t, err)
	assert.Equal(t, "2024-06-05", in.Attendance.Date)
}

func TestScan_Rejections(t *testing.T) {
	svc, leaves, emp, c := setup(t)
	ctx := context.Background()
	c.set("2024-06-05 09:00")

	_, err := svc.Scan(ctx, attendance.ScanRequest{})
	var verr validator.ValidationErrors
	assert.ErrorAs(t, err, &verr)

	_, err = svc.Scan(ctx, attendance.ScanRequest{BadgeID: "UNKNOWN"})
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)

	from := time.Date(2024, 6, 5, 0, 0, 0, 0, jakarta)
	_, err = leaves.Create(ctx, leave.Leave{EmployeeID: emp.ID, Type: leave.TypeSick, From: &from, Status: leave.StatusApproved})
	require.NoError(t, err)

	_, err = svc.Scan(ctx, attendance.ScanRequest{BadgeID: "B001"})
	assert.ErrorIs(t, err, attendance.ErrOnApprovedLeave)
}

func TestScan_PermissionDoesNotBlock(t *testing.T) {
	svc, leaves, emp, c := setup(t)
	ctx := context.Background()

	from := time.Date(2024, 6, 5, 14, 0, 0, 0, jakarta)
	to := time.Date(2024, 6, 5, 16, 0, 0, 0, jakarta)
	_, err := leaves.Create(ctx, leave.Leave{EmployeeID: emp.ID, Type: leave.TypePermission, From: &from, To: &to, Status: leave.StatusApproved})
	require.NoError(t, err)

	c.set("2024-06-05 09:00")
	_, err = svc.Scan(ctx, attendance.ScanRequest{BadgeID: "B001"})
	assert.NoError(t, err)
}

func TestTodayAndOpenCheckouts(t *testing.T) {
	store := memory.NewStore()
	employees := memory.NewEmployeeRepository(store)
	for _, e := range []employee.Employee{
		{BadgeID: "B001", Name: "Asha", Email: "asha@example.com"},
		{BadgeID: "B002", Name: "Bala", Email: "bala@example.com"},
	} {
		_, err := employees.Create(context.Background(), e)
		require.NoError(t, err)
	}
	c := &clock{}
	svc := NewAttendanceService(memory.NewAttendanceRepository(store), employees, memory.NewLeaveRepository(store), Rules{
		Location:    jakarta,
		LateAfter:   ClockMinutes(10, 0),
		EarlyBefore: ClockMinutes(17, 0),
	}, c.now)
	ctx := context.Background()

	c.set("2024-06-04 09:00")
	_, err := svc.Scan(ctx, attendance.ScanRequest{BadgeID: "B002"})
	require.NoError(t, err)

	c.set("2024-06-05 09:00")
	_, err = svc.Scan(ctx, attendance.ScanRequest{BadgeID: "B001"})
	require.NoError(t, err)
	_, err = svc.Scan(ctx, attendance.ScanRequest{BadgeID: "B002"})
	require.NoError(t, err)
	c.set("2024-06-05 18:00")
	_, err = svc.Scan(ctx, attendance.ScanRequest{BadgeID: "B002"})
	require.NoError(t, err)

	today, err := svc.Today(ctx)
	require.NoError(t, err)
	assert.Len(t, today, 2)

	open, err := svc.OpenCheckouts(ctx)
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, "B001", open[0].BadgeID)

	ranged, err := svc.ListRange(ctx, attendance.ListRequest{From: "2024-06-04", To: "2024-06-05", BadgeID: "B002"})
	require.NoError(t, err)
	assert.Len(t, ranged, 2)
}
