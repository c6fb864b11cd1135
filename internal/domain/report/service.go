package report

import (
	"context"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
)

// ReportService exposes the attendance reports. Every report is computed on
// read from attendance records and approved leaves.
type ReportService interface {
	// PersonReport is the per-employee report for an arbitrary range.
	PersonReport(ctx context.Context, principal auth.Principal, req PersonReportRequest) (PersonReport, error)
	// MyReport is the principal's report for the current month.
	MyReport(ctx context.Context, principal auth.Principal) (PersonReport, error)
	// Register lists one row per employee per day.
	Register(ctx context.Context, req RegisterRequest) (RegisterReport, error)
	// MonthTotals summarises every employee from the first of the month to today.
	MonthTotals(ctx context.Context) (MonthTotalsReport, error)
	LeaveBalance(ctx context.Context, principal auth.Principal, employeeID string) (LeaveBalance, error)
}
