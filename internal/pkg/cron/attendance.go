package cron

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/dashboard"
)

type AttendanceJobs struct {
	attendanceService attendance.AttendanceService
	dashboardService  dashboard.DashboardService
}

func NewAttendanceJobs(attendanceService attendance.AttendanceService, dashboardService dashboard.DashboardService) *AttendanceJobs {
	return &AttendanceJobs{
		attendanceService: attendanceService,
		dashboardService:  dashboardService,
	}
}

// RegisterJobs wires the attendance jobs with the given specs.
func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler, dashboardSpec, openCheckoutSpec string) error {
	if err := scheduler.AddJob("broadcast_dashboard", dashboardSpec, j.BroadcastDashboard); err != nil {
		return err
	}
	return scheduler.AddJob("report_open_checkouts", openCheckoutSpec, j.ReportOpenCheckouts)
}

// BroadcastDashboard pushes a fresh snapshot to dashboard sockets so counts
// move even when nobody scans.
func (j *AttendanceJobs) BroadcastDashboard(ctx context.Context) error {
	if err := j.dashboardService.Broadcast(ctx); err != nil {
		return fmt.Errorf("failed to broadcast dashboard: %w", err)
	}
	return nil
}

// ReportOpenCheckouts logs everyone who checked in today without checking out.
func (j *AttendanceJobs) ReportOpenCheckouts(ctx context.Context) error {
	open, err := j.attendanceService.OpenCheckouts(ctx)
	if err != nil {
		return fmt.Errorf("failed to list open checkouts: %w", err)
	}
	if len(open) == 0 {
		slog.Info("Cron: no open checkouts")
		return nil
	}

	badges := make([]string, 0, len(open))
	for _, a := range open {
		badges = append(badges, a.BadgeID)
	}
	slog.Warn("Cron: employees without checkout", "count", len(open), "badges", badges)
	return nil
}
