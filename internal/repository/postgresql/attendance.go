package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const attendanceColumns = `id, employee_id, badge_id, date::text, check_in, check_out, status, was_late, created_at, updated_at`

type attendanceRepositoryImpl struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepositoryImpl{db: db}
}

func scanAttendance(row pgx.Row) (attendance.Attendance, error) {
	var a attendance.Attendance
	err := row.Scan(&a.ID, &a.EmployeeID, &a.BadgeID, &a.Date, &a.CheckIn, &a.CheckOut, &a.Status, &a.WasLate, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

// Create implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Create(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendances (id, employee_id, badge_id, date, check_in, check_out, status, was_late)
		VALUES ($1, $2, $3, $4::date, $5, $6, $7, $8)
		RETURNING ` + attendanceColumns

	created, err := scanAttendance(q.QueryRow(ctx, query,
		uuid.New().String(), a.EmployeeID, a.BadgeID, a.Date, a.CheckIn, a.CheckOut, a.Status, a.WasLate,
	))
	if err != nil {
		if uniqueViolation(err) != "" {
			return attendance.Attendance{}, attendance.ErrAttendanceExists
		}
		return attendance.Attendance{}, fmt.Errorf("failed to insert attendance: %w", err)
	}
	return created, nil
}

// Update implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Update(ctx context.Context, a attendance.Attendance) error {
	if uuid.Validate(a.ID) != nil {
		return attendance.ErrAttendanceNotFound
	}
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendances
		SET check_in = $1, check_out = $2, status = $3, was_late = $4, updated_at = NOW()
		WHERE id = $5
	`
	tag, err := q.Exec(ctx, query, a.CheckIn, a.CheckOut, a.Status, a.WasLate, a.ID)
	if err != nil {
		return fmt.Errorf("failed to update attendance with id %s: %w", a.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}
	return nil
}

// GetByBadgeAndDate implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) GetByBadgeAndDate(ctx context.Context, badgeID, date string) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := "SELECT " + attendanceColumns + " FROM attendances WHERE badge_id = $1 AND date = $2::date"
	a, err := scanAttendance(q.QueryRow(ctx, query, badgeID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance: %w", err)
	}
	return a, nil
}

// List implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) List(ctx context.Context, filter attendance.Filter) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	whereClause := "WHERE 1=1"
	args := []interface{}{}
	argIndex := 1

	if filter.From != "" {
		whereClause += fmt.Sprintf(" AND date >= $%d::date", argIndex)
		args = append(args, filter.From)
		argIndex++
	}
	if filter.To != "" {
		whereClause += fmt.Sprintf(" AND date <= $%d::date", argIndex)
		args = append(args, filter.To)
		argIndex++
	}
	if filter.BadgeID != "" {
		whereClause += fmt.Sprintf(" AND badge_id = $%d", argIndex)
		args = append(args, filter.BadgeID)
		argIndex++
	}

	query := fmt.Sprintf("SELECT %s FROM attendances %s ORDER BY date, created_at, id", attendanceColumns, whereClause)
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	defer rows.Close()

	records := make([]attendance.Attendance, 0)
	for rows.Next() {
		a, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		records = append(records, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}
