package reconcile

import (
	"testing"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatcher_JoinsOnStoredDate(t *testing.T) {
	// Checked in just after midnight of the next day, but stored against the 3rd.
	rec := scan("2024-06-03", "09:00", "", attendance.StatusPresent, false)
	rec.CheckIn = ptr(at("2024-06-04", "00:30"))

	m := NewMatcher([]attendance.Attendance{rec})

	got, ok := m.Match(dayOf(t, "2024-06-03"))
	require.True(t, ok)
	assert.Equal(t, rec.ID, got.ID)

	_, ok = m.Match(dayOf(t, "2024-06-04"))
	assert.False(t, ok)
}

func TestMatcher_FirstDuplicateWins(t *testing.T) {
	first := scan("2024-06-03", "09:00", "", attendance.StatusPresent, false)
	first.ID = "first"
	second := scan("2024-06-03", "11:00", "", attendance.StatusPresent, true)
	second.ID = "second"

	got, ok := NewMatcher([]attendance.Attendance{first, second}).Match(dayOf(t, "2024-06-03"))
	require.True(t, ok)
	assert.Equal(t, "first", got.ID)
}

func TestGroupAttendanceByBadge(t *testing.T) {
	a := scan("2024-06-03", "09:00", "", attendance.StatusPresent, false)
	b := a
	b.BadgeID = "RFID0002"
	groups := GroupAttendanceByBadge([]attendance.Attendance{a, b, a})
	assert.Len(t, groups["RFID0001"], 2)
	assert.Len(t, groups["RFID0002"], 1)
}
