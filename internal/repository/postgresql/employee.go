package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const employeeColumns = `id, badge_id, name, email, employee_code, designation, department, mobile, gender,
	marital_status, date_of_birth, joining_date, address, photo_url, sick_leave, personal_leave,
	created_at, updated_at`

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var e employee.Employee
	err := row.Scan(
		&e.ID, &e.BadgeID, &e.Name, &e.Email, &e.EmployeeCode, &e.Designation, &e.Department,
		&e.Mobile, &e.Gender, &e.MaritalStatus, &e.DateOfBirth, &e.JoiningDate, &e.Address,
		&e.PhotoURL, &e.SickLeave, &e.PersonalLeave, &e.CreatedAt, &e.UpdatedAt,
	)
	return e, err
}

func employeeConflict(err error) error {
	switch uniqueViolation(err) {
	case "employees_badge_id_key":
		return employee.ErrBadgeExists
	case "employees_email_key":
		return employee.ErrEmailExists
	}
	return nil
}

// Create implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO employees (
			id, badge_id, name, email, employee_code, designation, department, mobile, gender,
			marital_status, date_of_birth, joining_date, address, photo_url, sick_leave, personal_leave
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING ` + employeeColumns

	created, err := scanEmployee(q.QueryRow(ctx, query,
		uuid.New().String(), newEmployee.BadgeID, newEmployee.Name, newEmployee.Email, newEmployee.EmployeeCode,
		newEmployee.Designation, newEmployee.Department, newEmployee.Mobile, newEmployee.Gender,
		newEmployee.MaritalStatus, newEmployee.DateOfBirth, newEmployee.JoiningDate, newEmployee.Address,
		newEmployee.PhotoURL, newEmployee.SickLeave, newEmployee.PersonalLeave,
	))
	if err != nil {
		if conflict := employeeConflict(err); conflict != nil {
			return employee.Employee{}, conflict
		}
		return employee.Employee{}, fmt.Errorf("failed to insert employee: %w", err)
	}
	return created, nil
}

func (r *employeeRepositoryImpl) getOne(ctx context.Context, where string, arg any) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	e, err := scanEmployee(q.QueryRow(ctx, "SELECT "+employeeColumns+" FROM employees WHERE "+where, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}
	return e, nil
}

// GetByID implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	if uuid.Validate(id) != nil {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return r.getOne(ctx, "id = $1", id)
}

// GetByBadge implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByBadge(ctx context.Context, badgeID string) (employee.Employee, error) {
	return r.getOne(ctx, "badge_id = $1", badgeID)
}

// GetByEmail implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByEmail(ctx context.Context, email string) (employee.Employee, error) {
	return r.getOne(ctx, "LOWER(email) = LOWER($1)", email)
}

// List implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) List(ctx context.Context, filter employee.Filter) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	whereClause := "WHERE 1=1"
	args := []interface{}{}
	argIndex := 1

	if filter.Department != "" {
		whereClause += fmt.Sprintf(" AND LOWER(department) = LOWER($%d)", argIndex)
		args = append(args, filter.Department)
		argIndex++
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		whereClause += fmt.Sprintf(" AND (name ILIKE $%d OR email ILIKE $%d OR badge_id ILIKE $%d OR employee_code ILIKE $%d)",
			argIndex, argIndex, argIndex, argIndex)
		args = append(args, "%"+escapeLike(search)+"%")
		argIndex++
	}

	query := fmt.Sprintf("SELECT %s FROM employees %s ORDER BY name, id", employeeColumns, whereClause)
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	employees := make([]employee.Employee, 0)
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return employees, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// Count implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Count(ctx context.Context) (int64, error) {
	q := GetQuerier(ctx, r.db)
	var n int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM employees").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count employees: %w", err)
	}
	return n, nil
}

// Update implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Update(ctx context.Context, e employee.Employee) error {
	if uuid.Validate(e.ID) != nil {
		return employee.ErrEmployeeNotFound
	}
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE employees SET
			badge_id = $1, name = $2, email = $3, employee_code = $4, designation = $5, department = $6,
			mobile = $7, gender = $8, marital_status = $9, date_of_birth = $10, joining_date = $11,
			address = $12, photo_url = $13, sick_leave = $14, personal_leave = $15, updated_at = NOW()
		WHERE id = $16
	`
	tag, err := q.Exec(ctx, query,
		e.BadgeID, e.Name, e.Email, e.EmployeeCode, e.Designation, e.Department, e.Mobile, e.Gender,
		e.MaritalStatus, e.DateOfBirth, e.JoiningDate, e.Address, e.PhotoURL, e.SickLeave, e.PersonalLeave, e.ID,
	)
	if err != nil {
		if conflict := employeeConflict(err); conflict != nil {
			return conflict
		}
		return fmt.Errorf("failed to update employee with id %s: %w", e.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

// Delete implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Delete(ctx context.Context, id string) error {
	if uuid.Validate(id) != nil {
		return employee.ErrEmployeeNotFound
	}
	q := GetQuerier(ctx, r.db)
	tag, err := q.Exec(ctx, "DELETE FROM employees WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete employee with id %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

// ExistsByBadgeOrEmail implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) ExistsByBadgeOrEmail(ctx context.Context, badgeID, email, excludeID string) (bool, bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			COALESCE(BOOL_OR(badge_id = $1), FALSE),
			COALESCE(BOOL_OR(LOWER(email) = LOWER($2)), FALSE)
		FROM employees
		WHERE (badge_id = $1 OR LOWER(email) = LOWER($2)) AND id::text <> $3
	`
	var badgeTaken, emailTaken bool
	if err := q.QueryRow(ctx, query, badgeID, email, excludeID).Scan(&badgeTaken, &emailTaken); err != nil {
		return false, false, fmt.Errorf("failed to check employee uniqueness: %w", err)
	}
	return badgeTaken && badgeID != "", emailTaken && email != "", nil
}

// DeductQuota implements employee.EmployeeRepository. Counters stop at zero.
func (r *employeeRepositoryImpl) DeductQuota(ctx context.Context, id string, d employee.QuotaDeduction) error {
	if uuid.Validate(id) != nil {
		return employee.ErrEmployeeNotFound
	}
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE employees
		SET sick_leave = GREATEST(sick_leave - $1, 0),
			personal_leave = GREATEST(personal_leave - $2, 0),
			updated_at = NOW()
		WHERE id = $3
	`
	tag, err := q.Exec(ctx, query, d.Sick, d.Personal, id)
	if err != nil {
		return fmt.Errorf("failed to deduct quota for employee with id %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}
