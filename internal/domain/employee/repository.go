package employee

import "context"

type EmployeeRepository interface {
	Create(ctx context.Context, newEmployee Employee) (Employee, error)
	GetByID(ctx context.Context, id string) (Employee, error)
	GetByBadge(ctx context.Context, badgeID string) (Employee, error)
	GetByEmail(ctx context.Context, email string) (Employee, error)
	List(ctx context.Context, filter Filter) ([]Employee, error)
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, e Employee) error
	Delete(ctx context.Context, id string) error
	// ExistsByBadgeOrEmail ignores the employee identified by excludeID.
	ExistsByBadgeOrEmail(ctx context.Context, badgeID, email, excludeID string) (badgeTaken, emailTaken bool, err error)
	DeductQuota(ctx context.Context, id string, d QuotaDeduction) error
}
