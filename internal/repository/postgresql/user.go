package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const userColumns = `id, name, email, password_hash, push_endpoint, push_p256dh, push_auth, created_at, updated_at`

type userRepositoryImpl struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) user.UserRepository {
	return &userRepositoryImpl{db: db}
}

func scanUser(row pgx.Row) (user.User, error) {
	var (
		u                      user.User
		endpoint, p256dh, auth *string
	)
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &endpoint, &p256dh, &auth, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return user.User{}, err
	}
	if endpoint != nil {
		u.Push = &user.PushSubscription{Endpoint: *endpoint}
		if p256dh != nil {
			u.Push.Keys.P256dh = *p256dh
		}
		if auth != nil {
			u.Push.Keys.Auth = *auth
		}
	}
	return u, nil
}

// Create implements user.UserRepository.
func (r *userRepositoryImpl) Create(ctx context.Context, u user.User) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO users (id, name, email, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + userColumns

	created, err := scanUser(q.QueryRow(ctx, query, uuid.New().String(), u.Name, u.Email, u.PasswordHash))
	if err != nil {
		if uniqueViolation(err) != "" {
			return user.User{}, user.ErrUserEmailExists
		}
		return user.User{}, fmt.Errorf("failed to insert user: %w", err)
	}
	return created, nil
}

func (r *userRepositoryImpl) getOne(ctx context.Context, where string, arg any) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	u, err := scanUser(q.QueryRow(ctx, "SELECT "+userColumns+" FROM users WHERE "+where, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

// GetByID implements user.UserRepository.
func (r *userRepositoryImpl) GetByID(ctx context.Context, id string) (user.User, error) {
	if uuid.Validate(id) != nil {
		return user.User{}, user.ErrUserNotFound
	}
	return r.getOne(ctx, "id = $1", id)
}

// GetByEmail implements user.UserRepository.
func (r *userRepositoryImpl) GetByEmail(ctx context.Context, email string) (user.User, error) {
	return r.getOne(ctx, "LOWER(email) = LOWER($1)", email)
}

// ListByIDs implements user.UserRepository.
func (r *userRepositoryImpl) ListByIDs(ctx context.Context, ids []string) ([]user.User, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, "SELECT "+userColumns+" FROM users WHERE id::text = ANY($1)", ids)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := make([]user.User, 0, len(ids))
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

// UpdatePushSubscription implements user.UserRepository. A nil sub clears it.
func (r *userRepositoryImpl) UpdatePushSubscription(ctx context.Context, id string, sub *user.PushSubscription) error {
	if uuid.Validate(id) != nil {
		return user.ErrUserNotFound
	}
	q := GetQuerier(ctx, r.db)

	var endpoint, p256dh, auth *string
	if sub != nil {
		endpoint, p256dh, auth = &sub.Endpoint, &sub.Keys.P256dh, &sub.Keys.Auth
	}

	query := `
		UPDATE users
		SET push_endpoint = $1, push_p256dh = $2, push_auth = $3, updated_at = NOW()
		WHERE id = $4
	`
	tag, err := q.Exec(ctx, query, endpoint, p256dh, auth, id)
	if err != nil {
		return fmt.Errorf("failed to update push subscription: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}
	return nil
}
