package memory

import (
	"cmp"
	"context"
	"slices"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
)

type attendanceRepository struct {
	s *Store
}

func NewAttendanceRepository(s *Store) attendance.AttendanceRepository {
	return &attendanceRepository{s: s}
}

func (r *attendanceRepository) Create(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	defer r.s.lockWrite(ctx)()

	for _, existing := range r.s.data.attendance {
		if existing.BadgeID == a.BadgeID && existing.Date == a.Date {
			return attendance.Attendance{}, attendance.ErrAttendanceExists
		}
	}
	now := r.s.now()
	a.ID = newID()
	a.CreatedAt = now
	a.UpdatedAt = now
	r.s.data.attendance = append(r.s.data.attendance, a)
	return a, nil
}

func (r *attendanceRepository) Update(ctx context.Context, a attendance.Attendance) error {
	defer r.s.lockWrite(ctx)()

	i := slices.IndexFunc(r.s.data.attendance, func(x attendance.Attendance) bool { return x.ID == a.ID })
	if i < 0 {
		return attendance.ErrAttendanceNotFound
	}
	a.CreatedAt = r.s.data.attendance[i].CreatedAt
	a.UpdatedAt = r.s.now()
	r.s.data.attendance[i] = a
	return nil
}

func (r *attendanceRepository) GetByBadgeAndDate(ctx context.Context, badgeID, date string) (attendance.Attendance, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, a := range r.s.data.attendance {
		if a.BadgeID == badgeID && a.Date == date {
			return a, nil
		}
	}
	return attendance.Attendance{}, attendance.ErrAttendanceNotFound
}

// List orders by Date then insertion.
func (r *attendanceRepository) List(ctx context.Context, filter attendance.Filter) ([]attendance.Attendance, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]attendance.Attendance, 0)
	for _, a := range r.s.data.attendance {
		if filter.From != "" && a.Date < filter.From {
			continue
		}
		if filter.To != "" && a.Date > filter.To {
			continue
		}
		if filter.BadgeID != "" && a.BadgeID != filter.BadgeID {
			continue
		}
		out = append(out, a)
	}
	slices.SortStableFunc(out, func(a, b attendance.Attendance) int {
		return cmp.Compare(a.Date, b.Date)
	})
	return out, nil
}
