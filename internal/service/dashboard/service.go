package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/chat"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/attendance-backend-go/internal/service/reconcile"
	"golang.org/x/sync/errgroup"
)

// EventSnapshot names dashboard events published to dashboard.Room.
const EventSnapshot = "dashboard"

type DashboardServiceImpl struct {
	employee.EmployeeRepository
	attendance.AttendanceRepository
	leave.LeaveRepository
	broker   chat.Broker
	loc      *time.Location
	restDays []time.Weekday
	now      func() time.Time
}

func NewDashboardService(
	employeeRepository employee.EmployeeRepository,
	attendanceRepository attendance.AttendanceRepository,
	leaveRepository leave.LeaveRepository,
	broker chat.Broker,
	loc *time.Location,
	restDays []time.Weekday,
	now func() time.Time,
) dashboard.DashboardService {
	if loc == nil {
		loc = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return &DashboardServiceImpl{
		EmployeeRepository:   employeeRepository,
		AttendanceRepository: attendanceRepository,
		LeaveRepository:      leaveRepository,
		broker:               broker,
		loc:                  loc,
		restDays:             restDays,
		now:                  now,
	}
}

// Today implements dashboard.DashboardService.
func (s *DashboardServiceImpl) Today(ctx context.Context) (dashboard.DashboardResponse, error) {
	now := s.now().In(s.loc)
	today := reconcile.StartOfDay(now, s.loc)
	endOfDay := today.AddDate(0, 0, 1).Add(-time.Nanosecond)

	var (
		employees []employee.Employee
		records   []attendance.Attendance
		leaves    []leave.Leave
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		employees, err = s.EmployeeRepository.List(gCtx, employee.Filter{})
		if err != nil {
			return fmt.Errorf("failed to list employees: %w", err)
		}
		return nil
	})

	// Trailing week of scans for the chart; today's subset drives the counts.
	g.Go(func() error {
		var err error
		records, err = s.AttendanceRepository.List(gCtx, attendance.Filter{
			From: reconcile.ChartStart(now, s.loc).Format(reconcile.DateLayout),
			To:   today.Format(reconcile.DateLayout),
		})
		if err != nil {
			return fmt.Errorf("failed to list attendance: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		var err error
		leaves, err = s.LeaveRepository.List(gCtx, leave.Filter{
			Status: leave.StatusApproved,
			From:   &today,
			To:     &endOfDay,
		})
		if err != nil {
			return fmt.Errorf("failed to list leaves: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return dashboard.DashboardResponse{}, err
	}

	return reconcile.BuildDashboard(reconcile.DashboardInput{
		Now:        now,
		Location:   s.loc,
		RestDays:   s.restDays,
		Employees:  employees,
		Attendance: records,
		Leaves:     leaves,
	}), nil
}

// Broadcast implements dashboard.DashboardService.
func (s *DashboardServiceImpl) Broadcast(ctx context.Context) error {
	snapshot, err := s.Today(ctx)
	if err != nil {
		return err
	}
	s.broker.Publish(dashboard.Room, chat.Event{Name: EventSnapshot, Data: snapshot})
	return nil
}
