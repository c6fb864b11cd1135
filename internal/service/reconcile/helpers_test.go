package reconcile

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/leave"
	"github.com/stretchr/testify/require"
)

func mustWindow(t *testing.T, from, to string) Window {
	t.Helper()
	w, err := ParseWindow(from, to, time.UTC)
	require.NoError(t, err)
	return w
}

func at(date, clock string) time.Time {
	t, err := time.ParseInLocation("2006-01-02 15:04", date+" "+clock, time.UTC)
	if err != nil {
		panic(err)
	}
	return t
}

func ptr[T any](v T) *T { return &v }

func approvedLeave(id string, typ leave.Type, from, to time.Time, decided time.Time) leave.Leave {
	return leave.Leave{
		ID:         id,
		EmployeeID: "emp-1",
		Type:       typ,
		From:       ptr(from),
		To:         ptr(to),
		Status:     leave.StatusApproved,
		CreatedAt:  decided.Add(-time.Hour),
		DecidedAt:  ptr(decided),
	}
}

func scan(date, in, out, status string, late bool) attendance.Attendance {
	a := attendance.Attendance{
		ID:      "att-" + date,
		BadgeID: "RFID0001",
		Date:    date,
		Status:  status,
		WasLate: late,
	}
	if in != "" {
		a.CheckIn = ptr(at(date, in))
	}
	if out != "" {
		a.CheckOut = ptr(at(date, out))
	}
	return a
}
