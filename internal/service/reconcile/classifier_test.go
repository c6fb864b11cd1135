package reconcile

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/leave"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dayOf(t *testing.T, key string) CalendarDay {
	t.Helper()
	days := mustWindow(t, key, key).Days()
	require.Len(t, days, 1)
	return days[0]
}

func emptyIndex() LeaveIndex {
	return LeaveIndex{Permissions: map[string]PermissionSpan{}, Leaves: map[string]leave.Type{}}
}

func TestClassify_RestDayWithoutRecords(t *testing.T) {
	sunday := dayOf(t, "2024-06-02")

	personal := NewClassifier(PersonalVariant, time.UTC).Classify(sunday, nil, emptyIndex())
	assert.Equal(t, KindCompanyLeave, personal.Kind)
	assert.Equal(t, "Company Leave", personal.Status)

	register := NewClassifier(RegisterVariant, time.UTC).Classify(sunday, nil, emptyIndex())
	assert.Equal(t, "Sunday", register.Status)

	s := Summarize([]ClassifiedDay{personal})
	assert.Equal(t, 0, s.Present)
	assert.Equal(t, 0, s.Absent)
	assert.Equal(t, 1, s.CompanyLeave)
}

func TestClassify_RestDayOverridesEverything(t *testing.T) {
	sunday := dayOf(t, "2024-06-02")
	rec := scan("2024-06-02", "09:00", "18:00", attendance.StatusPresent, true)
	idx := IndexLeaves([]leave.Leave{
		approvedLeave("l", leave.TypeSick, at("2024-06-01", "00:00"), at("2024-06-03", "00:00"), at("2024-05-30", "10:00")),
	}, mustWindow(t, "2024-06-01", "2024-06-03"))

	got := NewClassifier(PersonalVariant, time.UTC).Classify(sunday, &rec, idx)
	assert.Equal(t, KindCompanyLeave, got.Kind)
	assert.Equal(t, "Company Leave", got.Status)
	assert.Nil(t, got.CheckIn)
	assert.False(t, got.Late)
}

func TestClassify_LateArrival(t *testing.T) {
	monday := dayOf(t, "2024-06-03")
	rec := scan("2024-06-03", "10:15", "16:30", attendance.StatusPresent, true)

	got := NewClassifier(PersonalVariant, time.UTC).Classify(monday, &rec, emptyIndex())
	assert.Equal(t, KindAttendance, got.Kind)
	assert.Equal(t, "Late", got.Status)
	assert.True(t, got.Late)
	assert.False(t, got.Early)
	assert.Equal(t, rec.CheckIn, got.CheckIn)
	assert.Equal(t, rec.CheckOut, got.CheckOut)

	s := Summarize([]ClassifiedDay{got})
	assert.Equal(t, 1, s.Late)
	assert.Equal(t, 1, s.Present)
}

func TestClassify_AttendanceStatuses(t *testing.T) {
	monday := dayOf(t, "2024-06-03")
	c := NewClassifier(PersonalVariant, time.UTC)

	tests := []struct {
		name      string
		status    string
		late      bool
		want      string
		wantEarly bool
	}{
		{"present", attendance.StatusPresent, false, "Present", false},
		{"early going", attendance.StatusEarlyGoing, false, "Early Going", true},
		{"late", attendance.StatusPresent, true, "Late", false},
		{"late and early", attendance.StatusEarlyGoing, true, "Late & Early Checkout", true},
		{"open record", "", false, "Present", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := scan("2024-06-03", "09:00", "", tt.status, tt.late)
			got := c.Classify(monday, &rec, emptyIndex())
			assert.Equal(t, tt.want, got.Status)
			assert.Equal(t, tt.late, got.Late)
			assert.Equal(t, tt.wantEarly, got.Early)
		})
	}
}

func TestClassify_PermissionCountsAsPresent(t *testing.T) {
	w := mustWindow(t, "2024-06-03", "2024-06-03")
	idx := IndexLeaves([]leave.Leave{
		approvedLeave("p", leave.TypePermission, at("2024-06-03", "10:00"), at("2024-06-03", "12:30"), at("2024-06-01", "09:00")),
	}, w)

	got := NewClassifier(PersonalVariant, time.UTC).Classify(w.Days()[0], nil, idx)
	assert.Equal(t, KindPermission, got.Kind)
	assert.Equal(t, "Permission", got.Status)
	assert.Equal(t, "10:00 AM to 12:30 PM", got.Detail)

	s := Summarize([]ClassifiedDay{got})
	assert.Equal(t, 1, s.Present)
	assert.Equal(t, 1, s.Permission)
	assert.Equal(t, 0, s.Absent)
	assert.Equal(t, 0, s.Leave)
}

func TestClassify_AttendanceBeatsLeave(t *testing.T) {
	w := mustWindow(t, "2024-06-03", "2024-06-03")
	idx := IndexLeaves([]leave.Leave{
		approvedLeave("h", leave.TypeCasual, at("2024-06-03", "00:00"), at("2024-06-03", "00:00"), at("2024-06-01", "09:00")),
	}, w)
	rec := scan("2024-06-03", "13:05", "18:00", attendance.StatusPresent, true)

	got := NewClassifier(PersonalVariant, time.UTC).Classify(w.Days()[0], &rec, idx)
	assert.Equal(t, KindAttendance, got.Kind)
	assert.Equal(t, "Late", got.Status)
}

func TestClassify_LeaveLabelsPerVariant(t *testing.T) {
	w := mustWindow(t, "2024-06-03", "2024-06-03")
	idx := IndexLeaves([]leave.Leave{
		approvedLeave("s", leave.TypeSick, at("2024-06-03", "00:00"), at("2024-06-03", "00:00"), at("2024-06-01", "09:00")),
	}, w)
	day := w.Days()[0]

	assert.Equal(t, "Sick Leave", NewClassifier(PersonalVariant, time.UTC).Classify(day, nil, idx).Status)
	assert.Equal(t, "On Leave (Sick Leave)", NewClassifier(RegisterVariant, time.UTC).Classify(day, nil, idx).Status)
}

func TestClassify_AbsentFallthrough(t *testing.T) {
	got := NewClassifier(PersonalVariant, time.UTC).Classify(dayOf(t, "2024-06-04"), nil, emptyIndex())
	assert.Equal(t, KindAbsent, got.Kind)
	assert.Equal(t, "Absent", got.Status)
}

func TestClassify_Idempotent(t *testing.T) {
	w := mustWindow(t, "2024-06-01", "2024-06-10")
	records := []attendance.Attendance{
		scan("2024-06-03", "10:15", "16:30", attendance.StatusEarlyGoing, true),
		scan("2024-06-04", "09:00", "18:00", attendance.StatusPresent, false),
	}
	idx := IndexLeaves([]leave.Leave{
		approvedLeave("s", leave.TypeSick, at("2024-06-05", "00:00"), at("2024-06-06", "00:00"), at("2024-06-01", "09:00")),
		approvedLeave("p", leave.TypePermission, at("2024-06-07", "10:00"), at("2024-06-07", "11:00"), at("2024-06-01", "09:00")),
	}, w)

	c := NewClassifier(PersonalVariant, time.UTC)
	first := c.ClassifyRange(w, records, idx)
	second := c.ClassifyRange(w, records, idx)
	assert.Equal(t, first, second)
	assert.Len(t, first, 10)
}

func TestSplitCamel(t *testing.T) {
	assert.Equal(t, "Sick Leave", SplitCamel("SickLeave"))
	assert.Equal(t, "Casual Leave", SplitCamel("CasualLeave"))
	assert.Equal(t, "Permission", SplitCamel("Permission"))
	assert.Equal(t, "Others", SplitCamel("Others"))
}

func TestFormatClock(t *testing.T) {
	c := NewClassifier(PersonalVariant, time.UTC)
	assert.Equal(t, "", c.FormatClock(nil))
	assert.Equal(t, "2:05 PM", c.FormatClock(ptr(at("2024-06-03", "14:05"))))
	assert.Equal(t, "9:05 AM", c.FormatClock(ptr(at("2024-06-03", "09:05"))))
}
