package memory

import (
	"context"
	"slices"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/leave"
)

type leaveRepository struct {
	s *Store
}

func NewLeaveRepository(s *Store) leave.LeaveRepository {
	return &leaveRepository{s: s}
}

func (r *leaveRepository) Create(ctx context.Context, l leave.Leave) (leave.Leave, error) {
	defer r.s.lockWrite(ctx)()

	l.ID = newID()
	if l.CreatedAt.IsZero() {
		l.CreatedAt = r.s.now()
	}
	r.s.data.leaves = append(r.s.data.leaves, l)
	return l, nil
}

func (r *leaveRepository) GetByID(ctx context.Context, id string) (leave.Leave, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, l := range r.s.data.leaves {
		if l.ID == id {
			return l, nil
		}
	}
	return leave.Leave{}, leave.ErrLeaveNotFound
}

func (r *leaveRepository) List(ctx context.Context, filter leave.Filter) ([]leave.Leave, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]leave.Leave, 0)
	for _, l := range r.s.data.leaves {
		if matchesLeave(l, filter) {
			out = append(out, l)
		}
	}
	slices.SortStableFunc(out, func(a, b leave.Leave) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out, nil
}

func matchesLeave(l leave.Leave, f leave.Filter) bool {
	if f.EmployeeID != "" && l.EmployeeID != f.EmployeeID {
		return false
	}
	if f.Status != "" && l.Status != f.Status {
		return false
	}
	if f.From != nil && f.To != nil {
		if l.From == nil || l.From.After(*f.To) || l.End().Before(*f.From) {
			return false
		}
	}
	if f.CreatedFrom != nil && l.CreatedAt.Before(*f.CreatedFrom) {
		return false
	}
	if f.CreatedTo != nil && l.CreatedAt.After(*f.CreatedTo) {
		return false
	}
	return true
}

func (r *leaveRepository) UpdateDecision(ctx context.Context, id string, d leave.Decision) error {
	defer r.s.lockWrite(ctx)()

	i := slices.IndexFunc(r.s.data.leaves, func(l leave.Leave) bool { return l.ID == id })
	if i < 0 {
		return leave.ErrLeaveNotFound
	}
	l := &r.s.data.leaves[i]
	if !l.IsPending() {
		return leave.ErrLeaveAlreadyDecided
	}
	decidedAt := d.DecidedAt
	l.Status = d.Status
	l.DecidedAt = &decidedAt
	l.DecidedBy = d.DecidedBy
	return nil
}
