package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const leaveColumns = `id, employee_id, leave_type, from_date, to_date, reason, status, created_at, decided_at, decided_by`

type leaveRepositoryImpl struct {
	db *database.DB
}

func NewLeaveRepository(db *database.DB) leave.LeaveRepository {
	return &leaveRepositoryImpl{db: db}
}

func scanLeave(row pgx.Row) (leave.Leave, error) {
	var l leave.Leave
	err := row.Scan(&l.ID, &l.EmployeeID, &l.Type, &l.From, &l.To, &l.Reason, &l.Status, &l.CreatedAt, &l.DecidedAt, &l.DecidedBy)
	return l, err
}

// Create implements leave.LeaveRepository.
func (r *leaveRepositoryImpl) Create(ctx context.Context, l leave.Leave) (leave.Leave, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leaves (id, employee_id, leave_type, from_date, to_date, reason, status, created_at, decided_at, decided_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, COALESCE($8, NOW()), $9, $10)
		RETURNING ` + leaveColumns

	var createdAt interface{}
	if !l.CreatedAt.IsZero() {
		createdAt = l.CreatedAt
	}
	created, err := scanLeave(q.QueryRow(ctx, query,
		uuid.New().String(), l.EmployeeID, l.Type, l.From, l.To, l.Reason, l.Status, createdAt, l.DecidedAt, l.DecidedBy,
	))
	if err != nil {
		return leave.Leave{}, fmt.Errorf("failed to insert leave: %w", err)
	}
	return created, nil
}

// GetByID implements leave.LeaveRepository.
func (r *leaveRepositoryImpl) GetByID(ctx context.Context, id string) (leave.Leave, error) {
	if uuid.Validate(id) != nil {
		return leave.Leave{}, leave.ErrLeaveNotFound
	}
	q := GetQuerier(ctx, r.db)

	l, err := scanLeave(q.QueryRow(ctx, "SELECT "+leaveColumns+" FROM leaves WHERE id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.Leave{}, leave.ErrLeaveNotFound
		}
		return leave.Leave{}, fmt.Errorf("failed to get leave: %w", err)
	}
	return l, nil
}

// List implements leave.LeaveRepository.
func (r *leaveRepositoryImpl) List(ctx context.Context, filter leave.Filter) ([]leave.Leave, error) {
	q := GetQuerier(ctx, r.db)

	whereClause := "WHERE 1=1"
	args := []interface{}{}
	argIndex := 1

	if filter.EmployeeID != "" {
		whereClause += fmt.Sprintf(" AND employee_id = $%d", argIndex)
		args = append(args, filter.EmployeeID)
		argIndex++
	}
	if filter.Status != "" {
		whereClause += fmt.Sprintf(" AND status = $%d", argIndex)
		args = append(args, filter.Status)
		argIndex++
	}
	if filter.From != nil && filter.To != nil {
		whereClause += fmt.Sprintf(" AND from_date <= $%d AND COALESCE(to_date, from_date) >= $%d", argIndex, argIndex+1)
		args = append(args, *filter.To, *filter.From)
		argIndex += 2
	}
	if filter.CreatedFrom != nil {
		whereClause += fmt.Sprintf(" AND created_at >= $%d", argIndex)
		args = append(args, *filter.CreatedFrom)
		argIndex++
	}
	if filter.CreatedTo != nil {
		whereClause += fmt.Sprintf(" AND created_at <= $%d", argIndex)
		args = append(args, *filter.CreatedTo)
		argIndex++
	}

	query := fmt.Sprintf("SELECT %s FROM leaves %s ORDER BY created_at DESC, id", leaveColumns, whereClause)
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list leaves: %w", err)
	}
	defer rows.Close()

	leaves := make([]leave.Leave, 0)
	for rows.Next() {
		l, err := scanLeave(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave: %w", err)
		}
		leaves = append(leaves, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return leaves, nil
}

// UpdateDecision implements leave.LeaveRepository.
func (r *leaveRepositoryImpl) UpdateDecision(ctx context.Context, id string, d leave.Decision) error {
	if uuid.Validate(id) != nil {
		return leave.ErrLeaveNotFound
	}
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leaves
		SET status = $1, decided_at = $2, decided_by = $3
		WHERE id = $4 AND status = $5
	`
	tag, err := q.Exec(ctx, query, d.Status, d.DecidedAt, d.DecidedBy, id, leave.StatusPending)
	if err != nil {
		return fmt.Errorf("failed to update leave decision: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	return leave.ErrLeaveAlreadyDecided
}
