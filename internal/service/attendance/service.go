package attendance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/attendance-backend-go/internal/service/reconcile"
)

// Rules are the scan thresholds, as minutes after local midnight.
type Rules struct {
	Location *time.Location
	// LateAfter marks check-ins strictly after it as late.
	LateAfter int
	// EarlyBefore marks check-outs at or before it as early going.
	EarlyBefore int
}

// ClockMinutes converts an hour and minute into Rules minutes.
func ClockMinutes(hour, minute int) int {
	return hour*60 + minute
}

type AttendanceServiceImpl struct {
	attendance.AttendanceRepository
	employee.EmployeeRepository
	leave.LeaveRepository
	rules Rules
	now   func() time.Time
}

func NewAttendanceService(
	attendanceRepository attendance.AttendanceRepository,
	employeeRepository employee.EmployeeRepository,
	leaveRepository leave.LeaveRepository,
	rules Rules,
	now func() time.Time,
) attendance.AttendanceService {
	if rules.Location == nil {
		rules.Location = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return &AttendanceServiceImpl{
		AttendanceRepository: attendanceRepository,
		EmployeeRepository:   employeeRepository,
		LeaveRepository:      leaveRepository,
		rules:                rules,
		now:                  now,
	}
}

// Scan implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Scan(ctx context.Context, req attendance.ScanRequest) (attendance.ScanResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.ScanResponse{}, err
	}
	now := s.now().In(s.rules.Location)
	today := reconcile.DateKey(now, s.rules.Location)

	emp, err := s.EmployeeRepository.GetByBadge(ctx, req.BadgeID)
	if err != nil {
		return attendance.ScanResponse{}, err
	}

	onLeave, err := s.onLeave(ctx, emp.ID, now)
	if err != nil {
		return attendance.ScanResponse{}, err
	}
	if onLeave {
		return attendance.ScanResponse{}, attendance.ErrOnApprovedLeave
	}

	existing, err := s.AttendanceRepository.GetByBadgeAndDate(ctx, emp.BadgeID, today)
	if err != nil && !errors.Is(err, attendance.ErrAttendanceNotFound) {
		return attendance.ScanResponse{}, fmt.Errorf("failed to get today's attendance: %w", err)
	}

	if errors.Is(err, attendance.ErrAttendanceNotFound) {
		created, err := s.AttendanceRepository.Create(ctx, attendance.Attendance{
			EmployeeID: emp.ID,
			BadgeID:    emp.BadgeID,
			Date:       today,
			CheckIn:    &now,
			Status:     attendance.StatusPresent,
			WasLate:    minuteOfDay(now) > s.rules.LateAfter,
		})
		if err != nil {
			return attendance.ScanResponse{}, err
		}
		return attendance.ScanResponse{
			Action:       attendance.ScanCheckIn,
			EmployeeName: emp.Name,
			Attendance:   attendance.NewAttendanceResponse(created),
		}, nil
	}

	if existing.IsCheckedOut() {
		return attendance.ScanResponse{}, attendance.ErrAlreadyCheckedOut
	}

	existing.CheckOut = &now
	existing.Status = attendance.StatusPresent
	if minuteOfDay(now) <= s.rules.EarlyBefore {
		existing.Status = attendance.StatusEarlyGoing
	}
	if err := s.AttendanceRepository.Update(ctx, existing); err != nil {
		return attendance.ScanResponse{}, fmt.Errorf("failed to record check-out: %w", err)
	}

	return attendance.ScanResponse{
		Action:       attendance.ScanCheckOut,
		EmployeeName: emp.Name,
		Attendance:   attendance.NewAttendanceResponse(existing),
	}, nil
}

// onLeave reports whether an approved full-day leave covers today. Permission
// leaves do not block scanning.
func (s *AttendanceServiceImpl) onLeave(ctx context.Context, employeeID string, now time.Time) (bool, error) {
	window, err := reconcile.NewWindow(now, now, s.rules.Location)
	if err != nil {
		return false, err
	}
	from, to := window.From(), window.End()
	leaves, err := s.LeaveRepository.List(ctx, leave.Filter{
		EmployeeID: employeeID,
		Status:     leave.StatusApproved,
		From:       &from,
		To:         &to,
	})
	if err != nil {
		return false, fmt.Errorf("failed to list leaves: %w", err)
	}
	_, ok := reconcile.IndexLeaves(leaves, window).Leave(window.FromKey())
	return ok, nil
}

// Today implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Today(ctx context.Context) ([]attendance.AttendanceResponse, error) {
	today := reconcile.DateKey(s.now(), s.rules.Location)
	return s.list(ctx, attendance.Filter{From: today, To: today})
}

// ListRange implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ListRange(ctx context.Context, req attendance.ListRequest) ([]attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.list(ctx, attendance.Filter{From: req.From, To: req.To, BadgeID: req.BadgeID})
}

// OpenCheckouts implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) OpenCheckouts(ctx context.Context) ([]attendance.AttendanceResponse, error) {
	today, err := s.Today(ctx)
	if err != nil {
		return nil, err
	}
	open := make([]attendance.AttendanceResponse, 0)
	for _, r := range today {
		if r.CheckIn != nil && r.CheckOut == nil {
			open = append(open, r)
		}
	}
	return open, nil
}

func (s *AttendanceServiceImpl) list(ctx context.Context, filter attendance.Filter) ([]attendance.AttendanceResponse, error) {
	records, err := s.AttendanceRepository.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	out := make([]attendance.AttendanceResponse, 0, len(records))
	for _, r := range records {
		out = append(out, attendance.NewAttendanceResponse(r))
	}
	return out, nil
}

func minuteOfDay(t time.Time) int {
	return ClockMinutes(t.Hour(), t.Minute())
}
