package attendance

import "context"

type AttendanceRepository interface {
	// Create fails with ErrAttendanceExists when (BadgeID, Date) is taken.
	Create(ctx context.Context, a Attendance) (Attendance, error)
	Update(ctx context.Context, a Attendance) error
	GetByBadgeAndDate(ctx context.Context, badgeID, date string) (Attendance, error)
	List(ctx context.Context, filter Filter) ([]Attendance, error)
}
