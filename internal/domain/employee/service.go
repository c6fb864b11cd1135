package employee

import "context"

// EmployeeService defines business logic for the employee directory
type EmployeeService interface {
	Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)
	Get(ctx context.Context, id string) (EmployeeResponse, error)
	GetByBadge(ctx context.Context, badgeID string) (EmployeeResponse, error)
	List(ctx context.Context, filter Filter) ([]EmployeeResponse, error)
	Update(ctx context.Context, req UpdateEmployeeRequest) (EmployeeResponse, error)
	Delete(ctx context.Context, id string) error
}
