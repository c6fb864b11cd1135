package reconcile

import (
	"cmp"
	"slices"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/leave"
)

// PermissionSpan is the approved intra-day window of a Permission leave.
type PermissionSpan struct {
	From time.Time
	To   time.Time
}

// LeaveIndex maps date keys to the approved leave covering that day. A date
// is in at most one of the two maps.
type LeaveIndex struct {
	Permissions map[string]PermissionSpan
	Leaves      map[string]leave.Type
}

func (idx LeaveIndex) Permission(key string) (PermissionSpan, bool) {
	span, ok := idx.Permissions[key]
	return span, ok
}

func (idx LeaveIndex) Leave(key string) (leave.Type, bool) {
	t, ok := idx.Leaves[key]
	return t, ok
}

// IndexLeaves builds the per-day lookups for one employee's leaves inside w.
// Only approved leaves with a start date are used. When spans overlap, the
// most recently decided leave wins the day; ties fall back to creation time
// and then ID.
func IndexLeaves(records []leave.Leave, w Window) LeaveIndex {
	idx := LeaveIndex{
		Permissions: make(map[string]PermissionSpan),
		Leaves:      make(map[string]leave.Type),
	}

	approved := make([]leave.Leave, 0, len(records))
	for _, l := range records {
		if l.IsApproved() && l.From != nil {
			approved = append(approved, l)
		}
	}
	slices.SortStableFunc(approved, compareDecisionOrder)

	for _, l := range approved {
		start, end, ok := w.Clip(*l.From, *l.End())
		if !ok {
			continue
		}
		for d := start; !d.After(end); d = nextDay(d) {
			key := d.Format(DateLayout)
			if l.Type == leave.TypePermission {
				idx.Permissions[key] = PermissionSpan{From: *l.From, To: *l.End()}
				delete(idx.Leaves, key)
			} else {
				idx.Leaves[key] = l.Type
				delete(idx.Permissions, key)
			}
		}
	}
	return idx
}

// GroupLeavesByEmployee splits a mixed leave list by EmployeeID.
func GroupLeavesByEmployee(records []leave.Leave) map[string][]leave.Leave {
	out := make(map[string][]leave.Leave)
	for _, l := range records {
		out[l.EmployeeID] = append(out[l.EmployeeID], l)
	}
	return out
}

func compareDecisionOrder(a, b leave.Leave) int {
	if c := compareOptionalTime(a.DecidedAt, b.DecidedAt); c != 0 {
		return c
	}
	if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

// Undecided timestamps sort first.
func compareOptionalTime(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	default:
		return a.Compare(*b)
	}
}
