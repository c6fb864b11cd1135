package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"time"
	"unicode/utf8"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/chat"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-backend-go/internal/service/notification"
)

// previewRunes is how much of a message a push notification shows.
const previewRunes = 47

// Pusher queues a web push for background delivery.
type Pusher interface {
	Push(job notification.Job) bool
}

type ChatServiceImpl struct {
	tx database.Transactor
	chat.GroupRepository
	chat.MessageRepository
	user.UserRepository
	broker chat.Broker
	pusher Pusher
	now    func() time.Time
}

func NewChatService(
	tx database.Transactor,
	groupRepository chat.GroupRepository,
	messageRepository chat.MessageRepository,
	userRepository user.UserRepository,
	broker chat.Broker,
	pusher Pusher,
	now func() time.Time,
) chat.ChatService {
	if now == nil {
		now = time.Now
	}
	return &ChatServiceImpl{
		tx:                tx,
		GroupRepository:   groupRepository,
		MessageRepository: messageRepository,
		UserRepository:    userRepository,
		broker:            broker,
		pusher:            pusher,
		now:               now,
	}
}

func (s *ChatServiceImpl) memberGroup(ctx context.Context, principal auth.Principal, groupID string) (chat.Group, error) {
	g, err := s.GroupRepository.GetByID(ctx, groupID)
	if err != nil {
		return chat.Group{}, err
	}
	if !g.HasMember(principal.UserID) {
		return chat.Group{}, chat.ErrNotGroupMember
	}
	return g, nil
}

func (s *ChatServiceImpl) adminGroup(ctx context.Context, principal auth.Principal, groupID string) (chat.Group, error) {
	g, err := s.GroupRepository.GetByID(ctx, groupID)
	if err != nil {
		return chat.Group{}, err
	}
	if g.AdminID != principal.UserID {
		return chat.Group{}, chat.ErrNotGroupAdmin
	}
	return g, nil
}

// CreateGroup implements chat.ChatService.
func (s *ChatServiceImpl) CreateGroup(ctx context.Context, principal auth.Principal, req chat.CreateGroupRequest) (chat.GroupResponse, error) {
	if !principal.IsAdmin {
		return chat.GroupResponse{}, user.ErrAdminPrivilegeRequired
	}
	if err := req.Validate(); err != nil {
		return chat.GroupResponse{}, err
	}

	members := make([]string, 0, len(req.Members))
	for _, id := range req.Members {
		if id != principal.UserID && !slices.Contains(members, id) {
			members = append(members, id)
		}
	}
	if len(members) > 0 {
		found, err := s.UserRepository.ListByIDs(ctx, members)
		if err != nil {
			return chat.GroupResponse{}, fmt.Errorf("failed to load group members: %w", err)
		}
		if len(found) != len(members) {
			return chat.GroupResponse{}, user.ErrUserNotFound
		}
	}

	created, err := s.GroupRepository.Create(ctx, chat.Group{
		Name:    req.Name,
		AdminID: principal.UserID,
		Members: members,
	})
	if err != nil {
		return chat.GroupResponse{}, err
	}
	return chat.NewGroupResponse(created), nil
}

// ListGroups implements chat.ChatService.
func (s *ChatServiceImpl) ListGroups(ctx context.Context, principal auth.Principal) ([]chat.GroupResponse, error) {
	groups, err := s.GroupRepository.ListForUser(ctx, principal.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	out := make([]chat.GroupResponse, 0, len(groups))
	for _, g := range groups {
		out = append(out, chat.NewGroupResponse(g))
	}
	return out, nil
}

// RenameGroup implements chat.ChatService.
func (s *ChatServiceImpl) RenameGroup(ctx context.Context, principal auth.Principal, req chat.RenameGroupRequest) (chat.GroupResponse, error) {
	if err := req.Validate(); err != nil {
		return chat.GroupResponse{}, err
	}
	if _, err := s.adminGroup(ctx, principal, req.GroupID); err != nil {
		return chat.GroupResponse{}, err
	}
	if err := s.GroupRepository.Rename(ctx, req.GroupID, req.Name); err != nil {
		return chat.GroupResponse{}, err
	}
	g, err := s.GroupRepository.GetByID(ctx, req.GroupID)
	if err != nil {
		return chat.GroupResponse{}, err
	}
	return chat.NewGroupResponse(g), nil
}

// DeleteGroup implements chat.ChatService. Messages go with the group.
func (s *ChatServiceImpl) DeleteGroup(ctx context.Context, principal auth.Principal, groupID string) error {
	if _, err := s.adminGroup(ctx, principal, groupID); err != nil {
		return err
	}
	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.MessageRepository.DeleteByGroup(ctx, groupID); err != nil {
			return err
		}
		return s.GroupRepository.Delete(ctx, groupID)
	})
}

// AddMember implements chat.ChatService.
func (s *ChatServiceImpl) AddMember(ctx context.Context, principal auth.Principal, req chat.AddMemberRequest) (chat.GroupResponse, error) {
	if err := req.Validate(); err != nil {
		return chat.GroupResponse{}, err
	}
	if _, err := s.adminGroup(ctx, principal, req.GroupID); err != nil {
		return chat.GroupResponse{}, err
	}
	if _, err := s.UserRepository.GetByID(ctx, req.UserID); err != nil {
		return chat.GroupResponse{}, err
	}
	if err := s.GroupRepository.AddMember(ctx, req.GroupID, req.UserID); err != nil {
		return chat.GroupResponse{}, err
	}
	g, err := s.GroupRepository.GetByID(ctx, req.GroupID)
	if err != nil {
		return chat.GroupResponse{}, err
	}
	return chat.NewGroupResponse(g), nil
}

// Messages implements chat.ChatService. Reading a group marks its messages
// seen by the caller.
func (s *ChatServiceImpl) Messages(ctx context.Context, principal auth.Principal, groupID string) ([]chat.MessageResponse, error) {
	if _, err := s.memberGroup(ctx, principal, groupID); err != nil {
		return nil, err
	}
	if err := s.MessageRepository.MarkSeen(ctx, groupID, principal.UserID); err != nil {
		return nil, fmt.Errorf("failed to mark messages seen: %w", err)
	}
	messages, err := s.MessageRepository.ListByGroup(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	out := make([]chat.MessageResponse, 0, len(messages))
	for _, m := range messages {
		out = append(out, chat.NewMessageResponse(m))
	}
	return out, nil
}

// Send implements chat.ChatService.
func (s *ChatServiceImpl) Send(ctx context.Context, principal auth.Principal, req chat.SendMessageRequest) (chat.MessageResponse, error) {
	if err := req.Validate(); err != nil {
		return chat.MessageResponse{}, err
	}
	g, err := s.memberGroup(ctx, principal, req.GroupID)
	if err != nil {
		return chat.MessageResponse{}, err
	}

	msg, err := s.MessageRepository.Create(ctx, chat.Message{
		GroupID:   g.ID,
		Sender:    chat.Sender{ID: principal.UserID, Name: principal.Name},
		Content:   req.Content,
		File:      req.File,
		TempID:    req.TempID,
		Timestamp: s.now(),
		SeenBy:    []string{principal.UserID},
	})
	if err != nil {
		return chat.MessageResponse{}, fmt.Errorf("failed to save message: %w", err)
	}

	resp := chat.NewMessageResponse(msg)
	s.broker.Publish(chat.GroupRoom(g.ID), chat.Event{Name: chat.EventMessage, Data: resp})
	s.notifyMembers(ctx, g, msg)
	return resp, nil
}

// notifyMembers queues a push for every other participant with a subscription.
func (s *ChatServiceImpl) notifyMembers(ctx context.Context, g chat.Group, msg chat.Message) {
	recipients := g.Recipients(msg.Sender.ID)
	if len(recipients) == 0 || s.pusher == nil {
		return
	}

	users, err := s.UserRepository.ListByIDs(ctx, recipients)
	if err != nil {
		slog.Warn("failed to load push recipients", "group_id", g.ID, "error", err)
		return
	}

	payload, err := json.Marshal(PushPayload(msg))
	if err != nil {
		slog.Warn("failed to encode push payload", "message_id", msg.ID, "error", err)
		return
	}
	for _, u := range users {
		if u.Push == nil {
			continue
		}
		s.pusher.Push(notification.Job{UserID: u.ID, Subscription: *u.Push, Payload: payload})
	}
}

// PushPayload builds the notification shown for a new message.
func PushPayload(msg chat.Message) chat.PushPayload {
	body := msg.Content
	if body == "" && msg.File != "" {
		body = "Sent an attachment"
	}
	return chat.PushPayload{
		Title:     "New message from " + msg.Sender.Name,
		Body:      Preview(body),
		URL:       "/chat/" + msg.GroupID,
		GroupID:   msg.GroupID,
		MessageID: msg.ID,
	}
}

// Preview cuts s to previewRunes runes and marks the cut with "...".
func Preview(s string) string {
	if utf8.RuneCountInString(s) <= previewRunes {
		return s
	}
	return string([]rune(s)[:previewRunes]) + "..."
}

// Join implements chat.ChatService.
func (s *ChatServiceImpl) Join(ctx context.Context, principal auth.Principal, groupID string) error {
	_, err := s.memberGroup(ctx, principal, groupID)
	return err
}

// SaveSubscription implements chat.ChatService.
func (s *ChatServiceImpl) SaveSubscription(ctx context.Context, principal auth.Principal, req chat.SubscribeRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	sub := &user.PushSubscription{Endpoint: req.Endpoint}
	sub.Keys.P256dh = req.Keys.P256dh
	sub.Keys.Auth = req.Keys.Auth
	return s.UserRepository.UpdatePushSubscription(ctx, principal.UserID, sub)
}
