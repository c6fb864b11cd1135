package leave

import (
	"context"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
)

type LeaveService interface {
	Apply(ctx context.Context, principal auth.Principal, req ApplyLeaveRequest) (LeaveResponse, error)
	Decide(ctx context.Context, principal auth.Principal, req DecideLeaveRequest) (LeaveResponse, error)
	Get(ctx context.Context, id string) (LeaveResponse, error)
	List(ctx context.Context, req ListLeaveRequest) ([]LeaveResponse, error)
	// Today lists applications submitted today.
	Today(ctx context.Context) ([]LeaveResponse, error)
	ListByEmployee(ctx context.Context, principal auth.Principal, employeeID string) ([]LeaveResponse, error)
}
