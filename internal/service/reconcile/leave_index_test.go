package reconcile

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/leave"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexLeaves_SplitsPermissionFromLeave(t *testing.T) {
	w := mustWindow(t, "2024-06-03", "2024-06-07")
	decided := at("2024-06-01", "09:00")

	idx := IndexLeaves([]leave.Leave{
		approvedLeave("l1", leave.TypeSick, at("2024-06-03", "00:00"), at("2024-06-04", "00:00"), decided),
		approvedLeave("l2", leave.TypePermission, at("2024-06-05", "10:00"), at("2024-06-05", "12:00"), decided),
	}, w)

	assert.Equal(t, map[string]leave.Type{
		"2024-06-03": leave.TypeSick,
		"2024-06-04": leave.TypeSick,
	}, idx.Leaves)

	span, ok := idx.Permission("2024-06-05")
	require.True(t, ok)
	assert.Equal(t, at("2024-06-05", "10:00"), span.From)
	assert.Equal(t, at("2024-06-05", "12:00"), span.To)
	assert.Len(t, idx.Permissions, 1)
}

func TestIndexLeaves_IgnoresUnapprovedAndClips(t *testing.T) {
	w := mustWindow(t, "2024-06-03", "2024-06-05")
	decided := at("2024-06-01", "09:00")

	pending := approvedLeave("p", leave.TypeCasual, at("2024-06-03", "00:00"), at("2024-06-05", "00:00"), decided)
	pending.Status = leave.StatusPending
	denied := pending
	denied.ID = "d"
	denied.Status = leave.StatusDenied
	noStart := approvedLeave("n", leave.TypeCasual, at("2024-06-03", "00:00"), at("2024-06-05", "00:00"), decided)
	noStart.From = nil

	long := approvedLeave("long", leave.TypeMedical, at("2024-05-20", "00:00"), at("2024-06-30", "00:00"), decided)

	idx := IndexLeaves([]leave.Leave{pending, denied, noStart, long}, w)
	assert.Equal(t, map[string]leave.Type{
		"2024-06-03": leave.TypeMedical,
		"2024-06-04": leave.TypeMedical,
		"2024-06-05": leave.TypeMedical,
	}, idx.Leaves)
	assert.Empty(t, idx.Permissions)
}

func TestIndexLeaves_SingleDayWhenNoEnd(t *testing.T) {
	w := mustWindow(t, "2024-06-03", "2024-06-07")
	l := approvedLeave("l", leave.TypePersonal, at("2024-06-06", "00:00"), time.Time{}, at("2024-06-01", "09:00"))
	l.To = nil

	idx := IndexLeaves([]leave.Leave{l}, w)
	assert.Equal(t, map[string]leave.Type{"2024-06-06": leave.TypePersonal}, idx.Leaves)
}

func TestIndexLeaves_MostRecentlyDecidedWins(t *testing.T) {
	w := mustWindow(t, "2024-06-03", "2024-06-07")

	older := approvedLeave("a", leave.TypeSick, at("2024-06-03", "00:00"), at("2024-06-05", "00:00"), at("2024-06-01", "09:00"))
	newer := approvedLeave("b", leave.TypeCasual, at("2024-06-04", "00:00"), at("2024-06-04", "00:00"), at("2024-06-02", "09:00"))

	for _, order := range [][]leave.Leave{{older, newer}, {newer, older}} {
		idx := IndexLeaves(order, w)
		assert.Equal(t, leave.TypeSick, idx.Leaves["2024-06-03"])
		assert.Equal(t, leave.TypeCasual, idx.Leaves["2024-06-04"], "newer decision must win regardless of input order")
		assert.Equal(t, leave.TypeSick, idx.Leaves["2024-06-05"])
	}
}

func TestIndexLeaves_NewerPermissionReplacesOlderLeave(t *testing.T) {
	w := mustWindow(t, "2024-06-03", "2024-06-07")

	sick := approvedLeave("a", leave.TypeSick, at("2024-06-04", "00:00"), at("2024-06-04", "00:00"), at("2024-06-01", "09:00"))
	perm := approvedLeave("b", leave.TypePermission, at("2024-06-04", "14:00"), at("2024-06-04", "16:00"), at("2024-06-02", "09:00"))

	idx := IndexLeaves([]leave.Leave{perm, sick}, w)
	_, isLeave := idx.Leave("2024-06-04")
	_, isPerm := idx.Permission("2024-06-04")
	assert.False(t, isLeave)
	assert.True(t, isPerm)
}

func TestIndexLeaves_TieBreaksOnCreationThenID(t *testing.T) {
	w := mustWindow(t, "2024-06-03", "2024-06-03")
	day := at("2024-06-03", "00:00")

	a := leave.Leave{ID: "a", Type: leave.TypeSick, From: &day, Status: leave.StatusApproved, CreatedAt: at("2024-06-01", "08:00")}
	b := leave.Leave{ID: "b", Type: leave.TypeCasual, From: &day, Status: leave.StatusApproved, CreatedAt: at("2024-06-01", "08:00")}

	idx := IndexLeaves([]leave.Leave{b, a}, w)
	assert.Equal(t, leave.TypeCasual, idx.Leaves["2024-06-03"])
}
