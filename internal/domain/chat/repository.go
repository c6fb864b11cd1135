package chat

import "context"

type GroupRepository interface {
	// Create fails with ErrGroupExists when the name is taken.
	Create(ctx context.Context, g Group) (Group, error)
	GetByID(ctx context.Context, id string) (Group, error)
	// ListForUser returns groups where userID is admin or member.
	ListForUser(ctx context.Context, userID string) ([]Group, error)
	Rename(ctx context.Context, id, name string) error
	AddMember(ctx context.Context, id, userID string) error
	Delete(ctx context.Context, id string) error
}

type MessageRepository interface {
	Create(ctx context.Context, m Message) (Message, error)
	// ListByGroup orders messages by Timestamp ascending.
	ListByGroup(ctx context.Context, groupID string) ([]Message, error)
	MarkSeen(ctx context.Context, groupID, userID string) error
	DeleteByGroup(ctx context.Context, groupID string) error
}
