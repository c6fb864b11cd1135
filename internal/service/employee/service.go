package employee

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
)

// Quota is the leave entitlement granted to new employees.
type Quota struct {
	Sick     int
	Personal int
}

type EmployeeServiceImpl struct {
	employeeRepo employee.EmployeeRepository
	quota        Quota
}

func NewEmployeeService(employeeRepo employee.EmployeeRepository, quota Quota) employee.EmployeeService {
	return &EmployeeServiceImpl{
		employeeRepo: employeeRepo,
		quota:        quota,
	}
}

func (s *EmployeeServiceImpl) checkUnique(ctx context.Context, badgeID, email, excludeID string) error {
	badgeTaken, emailTaken, err := s.employeeRepo.ExistsByBadgeOrEmail(ctx, badgeID, email, excludeID)
	if err != nil {
		return fmt.Errorf("failed to check badge and email: %w", err)
	}
	if badgeTaken {
		return employee.ErrBadgeExists
	}
	if emailTaken {
		return employee.ErrEmailExists
	}
	return nil
}

// Create implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Create(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}
	if err := s.checkUnique(ctx, req.BadgeID, req.Email, ""); err != nil {
		return employee.EmployeeResponse{}, err
	}

	newEmployee := req.ToEntity()
	newEmployee.SickLeave = s.quota.Sick
	newEmployee.PersonalLeave = s.quota.Personal

	created, err := s.employeeRepo.Create(ctx, newEmployee)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	slog.Info("employee created", "employee_id", created.ID, "badge_id", created.BadgeID)
	return employee.NewEmployeeResponse(created), nil
}

// Get implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Get(ctx context.Context, id string) (employee.EmployeeResponse, error) {
	emp, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return employee.NewEmployeeResponse(emp), nil
}

// GetByBadge implements employee.EmployeeService.
func (s *EmployeeServiceImpl) GetByBadge(ctx context.Context, badgeID string) (employee.EmployeeResponse, error) {
	emp, err := s.employeeRepo.GetByBadge(ctx, badgeID)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return employee.NewEmployeeResponse(emp), nil
}

// List implements employee.EmployeeService.
func (s *EmployeeServiceImpl) List(ctx context.Context, filter employee.Filter) ([]employee.EmployeeResponse, error) {
	employees, err := s.employeeRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	out := make([]employee.EmployeeResponse, 0, len(employees))
	for _, e := range employees {
		out = append(out, employee.NewEmployeeResponse(e))
	}
	return out, nil
}

// Update implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Update(ctx context.Context, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	existing, err := s.employeeRepo.GetByID(ctx, req.ID)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	req.Apply(&existing)
	if req.BadgeID != nil || req.Email != nil {
		if err := s.checkUnique(ctx, existing.BadgeID, existing.Email, existing.ID); err != nil {
			return employee.EmployeeResponse{}, err
		}
	}

	if err := s.employeeRepo.Update(ctx, existing); err != nil {
		return employee.EmployeeResponse{}, err
	}

	updated, err := s.employeeRepo.GetByID(ctx, req.ID)
	if err != nil {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to get updated employee: %w", err)
	}
	return employee.NewEmployeeResponse(updated), nil
}

// Delete implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Delete(ctx context.Context, id string) error {
	if err := s.employeeRepo.Delete(ctx, id); err != nil {
		return err
	}
	slog.Info("employee deleted", "employee_id", id)
	return nil
}
