package leave

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/attendance-backend-go/internal/service/reconcile"
)

type LeaveServiceImpl struct {
	leave.LeaveRepository
	requestService *RequestService
}

func NewLeaveService(leaveRepository leave.LeaveRepository, requestService *RequestService) leave.LeaveService {
	return &LeaveServiceImpl{
		LeaveRepository: leaveRepository,
		requestService:  requestService,
	}
}

// Apply implements leave.LeaveService.
func (l *LeaveServiceImpl) Apply(ctx context.Context, principal auth.Principal, req leave.ApplyLeaveRequest) (leave.LeaveResponse, error) {
	if err := req.Validate(l.requestService.loc); err != nil {
		return leave.LeaveResponse{}, err
	}

	employeeID := principal.EmployeeID
	if principal.IsAdmin && req.EmployeeID != "" {
		employeeID = req.EmployeeID
	}
	if employeeID == "" {
		return leave.LeaveResponse{}, auth.ErrEmployeeNotLinked
	}

	created, err := l.requestService.CreateRequest(ctx, employeeID, req)
	if err != nil {
		return leave.LeaveResponse{}, err
	}
	return leave.NewLeaveResponse(created), nil
}

// Decide implements leave.LeaveService.
func (l *LeaveServiceImpl) Decide(ctx context.Context, principal auth.Principal, req leave.DecideLeaveRequest) (leave.LeaveResponse, error) {
	if !principal.IsAdmin {
		return leave.LeaveResponse{}, auth.ErrForbidden
	}
	if err := req.Validate(); err != nil {
		return leave.LeaveResponse{}, err
	}

	decided, err := l.requestService.Decide(ctx, req.ID, leave.Status(req.Status), principal.UserID)
	if err != nil {
		return leave.LeaveResponse{}, err
	}
	return leave.NewLeaveResponse(decided), nil
}

// Get implements leave.LeaveService.
func (l *LeaveServiceImpl) Get(ctx context.Context, id string) (leave.LeaveResponse, error) {
	request, err := l.LeaveRepository.GetByID(ctx, id)
	if err != nil {
		return leave.LeaveResponse{}, err
	}
	return leave.NewLeaveResponse(request), nil
}

// List implements leave.LeaveService.
func (l *LeaveServiceImpl) List(ctx context.Context, req leave.ListLeaveRequest) ([]leave.LeaveResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return l.list(ctx, leave.Filter{EmployeeID: req.EmployeeID, Status: leave.Status(req.Status)})
}

// Today implements leave.LeaveService.
func (l *LeaveServiceImpl) Today(ctx context.Context) ([]leave.LeaveResponse, error) {
	now := l.requestService.now()
	window, err := reconcile.NewWindow(now, now, l.requestService.loc)
	if err != nil {
		return nil, err
	}
	from, to := window.From(), window.End()
	return l.list(ctx, leave.Filter{CreatedFrom: &from, CreatedTo: &to})
}

// ListByEmployee implements leave.LeaveService.
func (l *LeaveServiceImpl) ListByEmployee(ctx context.Context, principal auth.Principal, employeeID string) ([]leave.LeaveResponse, error) {
	if !principal.CanActFor(employeeID) {
		return nil, auth.ErrForbidden
	}
	return l.list(ctx, leave.Filter{EmployeeID: employeeID})
}

func (l *LeaveServiceImpl) list(ctx context.Context, filter leave.Filter) ([]leave.LeaveResponse, error) {
	requests, err := l.LeaveRepository.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}
	out := make([]leave.LeaveResponse, 0, len(requests))
	for _, r := range requests {
		out = append(out, leave.NewLeaveResponse(r))
	}
	return out, nil
}
