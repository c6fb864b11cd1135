package report

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/attendance-backend-go/internal/service/reconcile"
)

// Calendar holds the working-day rules reports are computed with.
type Calendar struct {
	Location    *time.Location
	RestDays    []time.Weekday
	Entitlement reconcile.Quota
}

type ReportServiceImpl struct {
	employee.EmployeeRepository
	attendance.AttendanceRepository
	leave.LeaveRepository
	calendar Calendar
	now      func() time.Time
}

func NewReportService(
	employeeRepository employee.EmployeeRepository,
	attendanceRepository attendance.AttendanceRepository,
	leaveRepository leave.LeaveRepository,
	calendar Calendar,
	now func() time.Time,
) report.ReportService {
	if calendar.Location == nil {
		calendar.Location = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return &ReportServiceImpl{
		EmployeeRepository:   employeeRepository,
		AttendanceRepository: attendanceRepository,
		LeaveRepository:      leaveRepository,
		calendar:             calendar,
		now:                  now,
	}
}

// PersonReport implements report.ReportService.
func (s *ReportServiceImpl) PersonReport(ctx context.Context, principal auth.Principal, req report.PersonReportRequest) (report.PersonReport, error) {
	if err := req.Validate(); err != nil {
		return report.PersonReport{}, err
	}
	window, err := reconcile.ParseWindow(req.From, req.To, s.calendar.Location, s.calendar.RestDays...)
	if err != nil {
		return report.PersonReport{}, err
	}

	emp, err := s.EmployeeRepository.GetByBadge(ctx, req.BadgeID)
	if err != nil {
		return report.PersonReport{}, err
	}
	if !principal.CanActFor(emp.ID) {
		return report.PersonReport{}, auth.ErrForbidden
	}
	return s.personReport(ctx, emp, window)
}

// MyReport implements report.ReportService.
func (s *ReportServiceImpl) MyReport(ctx context.Context, principal auth.Principal) (report.PersonReport, error) {
	if principal.EmployeeID == "" {
		return report.PersonReport{}, auth.ErrEmployeeNotLinked
	}
	emp, err := s.EmployeeRepository.GetByID(ctx, principal.EmployeeID)
	if err != nil {
		return report.PersonReport{}, err
	}
	window := reconcile.Month(s.now(), s.calendar.Location, s.calendar.RestDays...)
	return s.personReport(ctx, emp, window)
}

func (s *ReportServiceImpl) personReport(ctx context.Context, emp employee.Employee, window reconcile.Window) (report.PersonReport, error) {
	records, err := s.AttendanceRepository.List(ctx, attendance.Filter{
		From:    window.FromKey(),
		To:      window.ToKey(),
		BadgeID: emp.BadgeID,
	})
	if err != nil {
		return report.PersonReport{}, fmt.Errorf("failed to list attendance: %w", err)
	}
	leaves, err := s.approvedLeaves(ctx, window, emp.ID)
	if err != nil {
		return report.PersonReport{}, err
	}

	classifier := reconcile.NewClassifier(reconcile.PersonalVariant, s.calendar.Location)
	days := classifier.ClassifyRange(window, records, reconcile.IndexLeaves(leaves, window))

	statuses := make([]report.DailyStatus, 0, len(days))
	for _, d := range days {
		statuses = append(statuses, report.DailyStatus{
			Date:         d.Date,
			Status:       d.Status,
			CheckInTime:  classifier.FormatClock(d.CheckIn),
			CheckOutTime: classifier.FormatClock(d.CheckOut),
			Detail:       d.Detail,
			Late:         d.Late,
			Early:        d.Early,
		})
	}

	return report.PersonReport{
		FromDate:      window.FromKey(),
		ToDate:        window.ToKey(),
		Employee:      employeeInfo(emp),
		Summary:       toSummary(reconcile.Summarize(days)),
		DailyStatuses: statuses,
	}, nil
}

// Register implements report.ReportService.
func (s *ReportServiceImpl) Register(ctx context.Context, req report.RegisterRequest) (report.RegisterReport, error) {
	if err := req.Validate(); err != nil {
		return report.RegisterReport{}, err
	}
	window, err := reconcile.ParseWindow(req.From, req.To, s.calendar.Location, s.calendar.RestDays...)
	if err != nil {
		return report.RegisterReport{}, err
	}

	var employees []employee.Employee
	if req.EmployeeID != "" {
		emp, err := s.EmployeeRepository.GetByID(ctx, req.EmployeeID)
		if err != nil {
			return report.RegisterReport{}, err
		}
		employees = []employee.Employee{emp}
	} else {
		employees, err = s.EmployeeRepository.List(ctx, employee.Filter{})
		if err != nil {
			return report.RegisterReport{}, fmt.Errorf("failed to list employees: %w", err)
		}
	}

	filter := attendance.Filter{From: window.FromKey(), To: window.ToKey()}
	if len(employees) == 1 {
		filter.BadgeID = employees[0].BadgeID
	}
	records, err := s.AttendanceRepository.List(ctx, filter)
	if err != nil {
		return report.RegisterReport{}, fmt.Errorf("failed to list attendance: %w", err)
	}
	leaves, err := s.approvedLeaves(ctx, window, req.EmployeeID)
	if err != nil {
		return report.RegisterReport{}, err
	}

	byBadge := reconcile.GroupAttendanceByBadge(records)
	byEmployee := reconcile.GroupLeavesByEmployee(leaves)
	classifier := reconcile.NewClassifier(reconcile.RegisterVariant, s.calendar.Location)

	rows := make([]report.RegisterRow, 0, len(employees)*window.Len())
	for _, emp := range employees {
		idx := reconcile.IndexLeaves(byEmployee[emp.ID], window)
		for _, d := range classifier.ClassifyRange(window, byBadge[emp.BadgeID], idx) {
			rows = append(rows, report.RegisterRow{
				Date:         d.Date,
				EmployeeID:   emp.ID,
				Name:         emp.Name,
				EmployeeCode: emp.EmployeeCode,
				BadgeID:      emp.BadgeID,
				Status:       d.Status,
				CheckInTime:  classifier.FormatClock(d.CheckIn),
				CheckOutTime: classifier.FormatClock(d.CheckOut),
				Detail:       d.Detail,
			})
		}
	}
	slices.SortStableFunc(rows, func(a, b report.RegisterRow) int {
		return cmp.Or(cmp.Compare(a.Date, b.Date), cmp.Compare(a.Name, b.Name))
	})

	return report.RegisterReport{FromDate: window.FromKey(), ToDate: window.ToKey(), Rows: rows}, nil
}

// MonthTotals implements report.ReportService.
func (s *ReportServiceImpl) MonthTotals(ctx context.Context) (report.MonthTotalsReport, error) {
	window := reconcile.MonthToDate(s.now(), s.calendar.Location, s.calendar.RestDays...)

	employees, err := s.EmployeeRepository.List(ctx, employee.Filter{})
	if err != nil {
		return report.MonthTotalsReport{}, fmt.Errorf("failed to list employees: %w", err)
	}
	records, err := s.AttendanceRepository.List(ctx, attendance.Filter{From: window.FromKey(), To: window.ToKey()})
	if err != nil {
		return report.MonthTotalsReport{}, fmt.Errorf("failed to list attendance: %w", err)
	}
	leaves, err := s.approvedLeaves(ctx, window, "")
	if err != nil {
		return report.MonthTotalsReport{}, err
	}

	byBadge := reconcile.GroupAttendanceByBadge(records)
	byEmployee := reconcile.GroupLeavesByEmployee(leaves)
	classifier := reconcile.NewClassifier(reconcile.PersonalVariant, s.calendar.Location)

	out := make([]report.MonthTotals, 0, len(employees))
	for _, emp := range employees {
		idx := reconcile.IndexLeaves(byEmployee[emp.ID], window)
		totals := reconcile.MonthTotals(reconcile.Summarize(classifier.ClassifyRange(window, byBadge[emp.BadgeID], idx)))
		out = append(out, report.MonthTotals{
			Employee:       employeeInfo(emp),
			PresentDays:    totals.PresentDays,
			AbsentDays:     totals.AbsentDays,
			LateDays:       totals.LateDays,
			EarlyDays:      totals.EarlyDays,
			PermissionDays: totals.PermissionDays,
			SickLeaves:     totals.SickLeaves,
			CasualLeaves:   totals.CasualLeaves,
		})
	}

	return report.MonthTotalsReport{FromDate: window.FromKey(), ToDate: window.ToKey(), Employees: out}, nil
}

// LeaveBalance implements report.ReportService. Taken days come from approved
// leaves; the quota counters on the employee are not read.
func (s *ReportServiceImpl) LeaveBalance(ctx context.Context, principal auth.Principal, employeeID string) (report.LeaveBalance, error) {
	if !principal.CanActFor(employeeID) {
		return report.LeaveBalance{}, auth.ErrForbidden
	}
	if _, err := s.EmployeeRepository.GetByID(ctx, employeeID); err != nil {
		return report.LeaveBalance{}, err
	}
	leaves, err := s.LeaveRepository.List(ctx, leave.Filter{EmployeeID: employeeID, Status: leave.StatusApproved})
	if err != nil {
		return report.LeaveBalance{}, fmt.Errorf("failed to list leaves: %w", err)
	}

	b := reconcile.CalculateBalance(leaves, s.calendar.Entitlement)
	return report.LeaveBalance{
		EmployeeID:  employeeID,
		Entitlement: report.QuotaPair{Sick: b.Entitlement.Sick, Personal: b.Entitlement.Personal},
		Taken:       report.QuotaPair{Sick: b.Taken.Sick, Personal: b.Taken.Personal},
		Available:   report.QuotaPair{Sick: b.Available.Sick, Personal: b.Available.Personal},
	}, nil
}

func (s *ReportServiceImpl) approvedLeaves(ctx context.Context, window reconcile.Window, employeeID string) ([]leave.Leave, error) {
	from, to := window.From(), window.End()
	leaves, err := s.LeaveRepository.List(ctx, leave.Filter{
		EmployeeID: employeeID,
		Status:     leave.StatusApproved,
		From:       &from,
		To:         &to,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list leaves: %w", err)
	}
	return leaves, nil
}

func employeeInfo(e employee.Employee) report.EmployeeInfo {
	return report.EmployeeInfo{
		ID:           e.ID,
		Name:         e.Name,
		EmployeeCode: e.EmployeeCode,
		BadgeID:      e.BadgeID,
	}
}

func toSummary(s reconcile.Summary) report.Summary {
	byType := make(map[string]int, len(s.LeaveByType))
	for t, n := range s.LeaveByType {
		byType[string(t)] = n
	}
	return report.Summary{
		TotalDays:    s.TotalDays,
		Present:      s.Present,
		Late:         s.Late,
		Early:        s.Early,
		Permission:   s.Permission,
		Leave:        s.Leave,
		CompanyLeave: s.CompanyLeave,
		Absent:       s.Absent,
		LeaveByType:  byType,
	}
}
