package chat

import (
	"context"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
)

type ChatService interface {
	CreateGroup(ctx context.Context, principal auth.Principal, req CreateGroupRequest) (GroupResponse, error)
	ListGroups(ctx context.Context, principal auth.Principal) ([]GroupResponse, error)
	RenameGroup(ctx context.Context, principal auth.Principal, req RenameGroupRequest) (GroupResponse, error)
	DeleteGroup(ctx context.Context, principal auth.Principal, groupID string) error
	AddMember(ctx context.Context, principal auth.Principal, req AddMemberRequest) (GroupResponse, error)
	Messages(ctx context.Context, principal auth.Principal, groupID string) ([]MessageResponse, error)
	Send(ctx context.Context, principal auth.Principal, req SendMessageRequest) (MessageResponse, error)
	// Join checks membership before a socket subscribes to the group room.
	Join(ctx context.Context, principal auth.Principal, groupID string) error
	SaveSubscription(ctx context.Context, principal auth.Principal, req SubscribeRequest) error
}
