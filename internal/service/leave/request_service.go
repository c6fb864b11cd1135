package leave

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-backend-go/internal/service/reconcile"
)

// RequestService owns the leave state machine: Pending moves to Approved or
// Denied exactly once.
type RequestService struct {
	tx database.Transactor
	leave.LeaveRepository
	employee.EmployeeRepository
	loc *time.Location
	now func() time.Time
}

func NewRequestService(tx database.Transactor, leaveRepository leave.LeaveRepository, employeeRepository employee.EmployeeRepository, loc *time.Location, now func() time.Time) *RequestService {
	if loc == nil {
		loc = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return &RequestService{
		tx:                 tx,
		LeaveRepository:    leaveRepository,
		EmployeeRepository: employeeRepository,
		loc:                loc,
		now:                now,
	}
}

// CreateRequest stores a pending leave for employeeID. Call req.Validate with
// the same location first.
func (r *RequestService) CreateRequest(ctx context.Context, employeeID string, req leave.ApplyLeaveRequest) (leave.Leave, error) {
	if _, err := r.EmployeeRepository.GetByID(ctx, employeeID); err != nil {
		return leave.Leave{}, err
	}

	created, err := r.LeaveRepository.Create(ctx, req.ToEntity(employeeID, r.now(), r.loc))
	if err != nil {
		return leave.Leave{}, fmt.Errorf("failed to create leave request: %w", err)
	}
	return created, nil
}

// Decide approves or denies a pending leave. Approving a sick or personal
// leave deducts its inclusive day count from the employee's quota in the same
// transaction.
func (r *RequestService) Decide(ctx context.Context, id string, status leave.Status, decidedBy string) (leave.Leave, error) {
	var decided leave.Leave
	err := r.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		request, err := r.LeaveRepository.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if !request.IsPending() {
			return leave.ErrLeaveAlreadyDecided
		}

		if status == leave.StatusApproved {
			if d := reconcile.Deduction(request); !d.IsZero() {
				if err := r.EmployeeRepository.DeductQuota(ctx, request.EmployeeID, d); err != nil {
					return fmt.Errorf("failed to deduct leave quota: %w", err)
				}
			}
		}

		decidedAt := r.now()
		if err := r.LeaveRepository.UpdateDecision(ctx, id, leave.Decision{
			Status:    status,
			DecidedAt: decidedAt,
			DecidedBy: decidedBy,
		}); err != nil {
			return err
		}

		request.Status = status
		request.DecidedAt = &decidedAt
		request.DecidedBy = decidedBy
		decided = request
		return nil
	})
	if err != nil {
		return leave.Leave{}, err
	}
	return decided, nil
}
