package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
)

type employeeRepository struct {
	s *Store
}

func NewEmployeeRepository(s *Store) employee.EmployeeRepository {
	return &employeeRepository{s: s}
}

func (r *employeeRepository) indexOf(id string) int {
	return slices.IndexFunc(r.s.data.employees, func(e employee.Employee) bool { return e.ID == id })
}

func (r *employeeRepository) conflict(badgeID, email, excludeID string) (badgeTaken, emailTaken bool) {
	for _, e := range r.s.data.employees {
		if e.ID == excludeID {
			continue
		}
		if badgeID != "" && e.BadgeID == badgeID {
			badgeTaken = true
		}
		if email != "" && strings.EqualFold(e.Email, email) {
			emailTaken = true
		}
	}
	return badgeTaken, emailTaken
}

func (r *employeeRepository) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	defer r.s.lockWrite(ctx)()

	badgeTaken, emailTaken := r.conflict(newEmployee.BadgeID, newEmployee.Email, "")
	if badgeTaken {
		return employee.Employee{}, employee.ErrBadgeExists
	}
	if emailTaken {
		return employee.Employee{}, employee.ErrEmailExists
	}

	now := r.s.now()
	newEmployee.ID = newID()
	newEmployee.CreatedAt = now
	newEmployee.UpdatedAt = now
	r.s.data.employees = append(r.s.data.employees, newEmployee)
	return newEmployee, nil
}

func (r *employeeRepository) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if i := r.indexOf(id); i >= 0 {
		return r.s.data.employees[i], nil
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (r *employeeRepository) GetByBadge(ctx context.Context, badgeID string) (employee.Employee, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, e := range r.s.data.employees {
		if e.BadgeID == badgeID {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (r *employeeRepository) GetByEmail(ctx context.Context, email string) (employee.Employee, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, e := range r.s.data.employees {
		if strings.EqualFold(e.Email, email) {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (r *employeeRepository) List(ctx context.Context, filter employee.Filter) ([]employee.Employee, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	search := strings.ToLower(strings.TrimSpace(filter.Search))
	out := make([]employee.Employee, 0, len(r.s.data.employees))
	for _, e := range r.s.data.employees {
		if filter.Department != "" && !strings.EqualFold(e.Department, filter.Department) {
			continue
		}
		if search != "" && !matchesSearch(e, search) {
			continue
		}
		out = append(out, e)
	}
	slices.SortStableFunc(out, func(a, b employee.Employee) int {
		return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.ID, b.ID))
	})
	return out, nil
}

func matchesSearch(e employee.Employee, search string) bool {
	for _, field := range []string{e.Name, e.Email, e.BadgeID, e.EmployeeCode} {
		if strings.Contains(strings.ToLower(field), search) {
			return true
		}
	}
	return false
}

func (r *employeeRepository) Count(ctx context.Context) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(r.s.data.employees)), nil
}

func (r *employeeRepository) Update(ctx context.Context, e employee.Employee) error {
	defer r.s.lockWrite(ctx)()

	i := r.indexOf(e.ID)
	if i < 0 {
		return employee.ErrEmployeeNotFound
	}
	badgeTaken, emailTaken := r.conflict(e.BadgeID, e.Email, e.ID)
	if badgeTaken {
		return employee.ErrBadgeExists
	}
	if emailTaken {
		return employee.ErrEmailExists
	}
	e.CreatedAt = r.s.data.employees[i].CreatedAt
	e.UpdatedAt = r.s.now()
	r.s.data.employees[i] = e
	return nil
}

func (r *employeeRepository) Delete(ctx context.Context, id string) error {
	defer r.s.lockWrite(ctx)()

	i := r.indexOf(id)
	if i < 0 {
		return employee.ErrEmployeeNotFound
	}
	r.s.data.employees = slices.Delete(r.s.data.employees, i, i+1)
	return nil
}

func (r *employeeRepository) ExistsByBadgeOrEmail(ctx context.Context, badgeID, email, excludeID string) (bool, bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	badgeTaken, emailTaken := r.conflict(badgeID, email, excludeID)
	return badgeTaken, emailTaken, nil
}

// DeductQuota never takes a counter below zero.
func (r *employeeRepository) DeductQuota(ctx context.Context, id string, d employee.QuotaDeduction) error {
	defer r.s.lockWrite(ctx)()

	i := r.indexOf(id)
	if i < 0 {
		return employee.ErrEmployeeNotFound
	}
	e := &r.s.data.employees[i]
	e.SickLeave = max(0, e.SickLeave-d.Sick)
	e.PersonalLeave = max(0, e.PersonalLeave-d.Personal)
	e.UpdatedAt = r.s.now()
	return nil
}
