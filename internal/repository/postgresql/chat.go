package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/chat"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// groupSelect aggregates members in insertion order.
const groupSelect = `
	SELECT g.id, g.name, g.admin_id,
		COALESCE(ARRAY(SELECT m.user_id FROM chat_group_members m WHERE m.group_id = g.id ORDER BY m.position), '{}'),
		g.created_at, g.updated_at
	FROM chat_groups g`

type groupRepositoryImpl struct {
	db *database.DB
}

func NewGroupRepository(db *database.DB) chat.GroupRepository {
	return &groupRepositoryImpl{db: db}
}

func scanGroup(row pgx.Row) (chat.Group, error) {
	var g chat.Group
	err := row.Scan(&g.ID, &g.Name, &g.AdminID, &g.Members, &g.CreatedAt, &g.UpdatedAt)
	return g, err
}

// Create implements chat.GroupRepository.
func (r *groupRepositoryImpl) Create(ctx context.Context, g chat.Group) (chat.Group, error) {
	id := uuid.New().String()
	err := WithTransaction(ctx, r.db, func(ctx context.Context) error {
		q := GetQuerier(ctx, r.db)
		if _, err := q.Exec(ctx, "INSERT INTO chat_groups (id, name, admin_id) VALUES ($1, $2, $3)", id, g.Name, g.AdminID); err != nil {
			if uniqueViolation(err) != "" {
				return chat.ErrGroupExists
			}
			return fmt.Errorf("failed to insert group: %w", err)
		}
		for _, member := range g.Members {
			if _, err := q.Exec(ctx, "INSERT INTO chat_group_members (group_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING", id, member); err != nil {
				return fmt.Errorf("failed to insert group member: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return chat.Group{}, err
	}
	return r.GetByID(ctx, id)
}

// GetByID implements chat.GroupRepository.
func (r *groupRepositoryImpl) GetByID(ctx context.Context, id string) (chat.Group, error) {
	if uuid.Validate(id) != nil {
		return chat.Group{}, chat.ErrGroupNotFound
	}
	q := GetQuerier(ctx, r.db)

	g, err := scanGroup(q.QueryRow(ctx, groupSelect+" WHERE g.id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return chat.Group{}, chat.ErrGroupNotFound
		}
		return chat.Group{}, fmt.Errorf("failed to get group: %w", err)
	}
	return g, nil
}

// ListForUser implements chat.GroupRepository.
func (r *groupRepositoryImpl) ListForUser(ctx context.Context, userID string) ([]chat.Group, error) {
	q := GetQuerier(ctx, r.db)

	query := groupSelect + `
		WHERE g.admin_id = $1
			OR EXISTS (SELECT 1 FROM chat_group_members m WHERE m.group_id = g.id AND m.user_id = $1)
		ORDER BY g.created_at, g.id`
	rows, err := q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	groups := make([]chat.Group, 0)
	for rows.Next() {
		g, err := scanGroup(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return groups, nil
}

// Rename implements chat.GroupRepository.
func (r *groupRepositoryImpl) Rename(ctx context.Context, id, name string) error {
	if uuid.Validate(id) != nil {
		return chat.ErrGroupNotFound
	}
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, "UPDATE chat_groups SET name = $1, updated_at = NOW() WHERE id = $2", name, id)
	if err != nil {
		if uniqueViolation(err) != "" {
			return chat.ErrGroupExists
		}
		return fmt.Errorf("failed to rename group: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return chat.ErrGroupNotFound
	}
	return nil
}

// AddMember implements chat.GroupRepository.
func (r *groupRepositoryImpl) AddMember(ctx context.Context, id, userID string) error {
	g, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if g.HasMember(userID) {
		return chat.ErrAlreadyMember
	}

	q := GetQuerier(ctx, r.db)
	tag, err := q.Exec(ctx, "INSERT INTO chat_group_members (group_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING", id, userID)
	if err != nil {
		return fmt.Errorf("failed to add group member: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return chat.ErrAlreadyMember
	}
	_, err = q.Exec(ctx, "UPDATE chat_groups SET updated_at = NOW() WHERE id = $1", id)
	return err
}

// Delete implements chat.GroupRepository.
func (r *groupRepositoryImpl) Delete(ctx context.Context, id string) error {
	if uuid.Validate(id) != nil {
		return chat.ErrGroupNotFound
	}
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, "DELETE FROM chat_groups WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return chat.ErrGroupNotFound
	}
	return nil
}

const messageColumns = `id, group_id, sender_id, sender_name, content, file, temp_id, sent_at, seen_by`

type messageRepositoryImpl struct {
	db *database.DB
}

func NewMessageRepository(db *database.DB) chat.MessageRepository {
	return &messageRepositoryImpl{db: db}
}

func scanMessage(row pgx.Row) (chat.Message, error) {
	var m chat.Message
	err := row.Scan(&m.ID, &m.GroupID, &m.Sender.ID, &m.Sender.Name, &m.Content, &m.File, &m.TempID, &m.Timestamp, &m.SeenBy)
	return m, err
}

// Create implements chat.MessageRepository.
func (r *messageRepositoryImpl) Create(ctx context.Context, m chat.Message) (chat.Message, error) {
	q := GetQuerier(ctx, r.db)

	seen := m.SeenBy
	if seen == nil {
		seen = []string{}
	}
	query := `
		INSERT INTO chat_messages (id, group_id, sender_id, sender_name, content, file, temp_id, sent_at, seen_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, COALESCE($8, NOW()), $9)
		RETURNING ` + messageColumns

	var sentAt interface{}
	if !m.Timestamp.IsZero() {
		sentAt = m.Timestamp
	}
	created, err := scanMessage(q.QueryRow(ctx, query,
		uuid.New().String(), m.GroupID, m.Sender.ID, m.Sender.Name, m.Content, m.File, m.TempID, sentAt, seen,
	))
	if err != nil {
		return chat.Message{}, fmt.Errorf("failed to insert message: %w", err)
	}
	return created, nil
}

// ListByGroup implements chat.MessageRepository.
func (r *messageRepositoryImpl) ListByGroup(ctx context.Context, groupID string) ([]chat.Message, error) {
	if uuid.Validate(groupID) != nil {
		return []chat.Message{}, nil
	}
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, "SELECT "+messageColumns+" FROM chat_messages WHERE group_id = $1 ORDER BY sent_at, id", groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	messages := make([]chat.Message, 0)
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return messages, nil
}

// MarkSeen implements chat.MessageRepository.
func (r *messageRepositoryImpl) MarkSeen(ctx context.Context, groupID, userID string) error {
	if uuid.Validate(groupID) != nil {
		return nil
	}
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE chat_messages
		SET seen_by = array_append(seen_by, $2)
		WHERE group_id = $1 AND NOT ($2 = ANY(seen_by))
	`
	if _, err := q.Exec(ctx, query, groupID, userID); err != nil {
		return fmt.Errorf("failed to mark messages seen: %w", err)
	}
	return nil
}

// DeleteByGroup implements chat.MessageRepository.
func (r *messageRepositoryImpl) DeleteByGroup(ctx context.Context, groupID string) error {
	if uuid.Validate(groupID) != nil {
		return nil
	}
	q := GetQuerier(ctx, r.db)

	if _, err := q.Exec(ctx, "DELETE FROM chat_messages WHERE group_id = $1", groupID); err != nil {
		return fmt.Errorf("failed to delete group messages: %w", err)
	}
	return nil
}
