package memory

import (
	"context"
	"slices"
	"strings"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/chat"
)

type groupRepository struct {
	s *Store
}

func NewGroupRepository(s *Store) chat.GroupRepository {
	return &groupRepository{s: s}
}

func (r *groupRepository) indexOf(id string) int {
	return slices.IndexFunc(r.s.data.groups, func(g chat.Group) bool { return g.ID == id })
}

func (r *groupRepository) nameTaken(name, excludeID string) bool {
	return slices.ContainsFunc(r.s.data.groups, func(g chat.Group) bool {
		return g.ID != excludeID && strings.EqualFold(g.Name, name)
	})
}

func (r *groupRepository) Create(ctx context.Context, g chat.Group) (chat.Group, error) {
	defer r.s.lockWrite(ctx)()

	if r.nameTaken(g.Name, "") {
		return chat.Group{}, chat.ErrGroupExists
	}
	now := r.s.now()
	g.ID = newID()
	g.Members = slices.Clone(g.Members)
	g.CreatedAt = now
	g.UpdatedAt = now
	r.s.data.groups = append(r.s.data.groups, g)
	return g, nil
}

func (r *groupRepository) GetByID(ctx context.Context, id string) (chat.Group, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if i := r.indexOf(id); i >= 0 {
		g := r.s.data.groups[i]
		g.Members = slices.Clone(g.Members)
		return g, nil
	}
	return chat.Group{}, chat.ErrGroupNotFound
}

func (r *groupRepository) ListForUser(ctx context.Context, userID string) ([]chat.Group, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]chat.Group, 0)
	for _, g := range r.s.data.groups {
		if g.HasMember(userID) {
			g.Members = slices.Clone(g.Members)
			out = append(out, g)
		}
	}
	return out, nil
}

func (r *groupRepository) Rename(ctx context.Context, id, name string) error {
	defer r.s.lockWrite(ctx)()

	i := r.indexOf(id)
	if i < 0 {
		return chat.ErrGroupNotFound
	}
	if r.nameTaken(name, id) {
		return chat.ErrGroupExists
	}
	r.s.data.groups[i].Name = name
	r.s.data.groups[i].UpdatedAt = r.s.now()
	return nil
}

func (r *groupRepository) AddMember(ctx context.Context, id, userID string) error {
	defer r.s.lockWrite(ctx)()

	i := r.indexOf(id)
	if i < 0 {
		return chat.ErrGroupNotFound
	}
	g := &r.s.data.groups[i]
	if g.HasMember(userID) {
		return chat.ErrAlreadyMember
	}
	g.Members = append(slices.Clone(g.Members), userID)
	g.UpdatedAt = r.s.now()
	return nil
}

func (r *groupRepository) Delete(ctx context.Context, id string) error {
	defer r.s.lockWrite(ctx)()

	i := r.indexOf(id)
	if i < 0 {
		return chat.ErrGroupNotFound
	}
	r.s.data.groups = slices.Delete(r.s.data.groups, i, i+1)
	return nil
}

type messageRepository struct {
	s *Store
}

func NewMessageRepository(s *Store) chat.MessageRepository {
	return &messageRepository{s: s}
}

func (r *messageRepository) Create(ctx context.Context, m chat.Message) (chat.Message, error) {
	defer r.s.lockWrite(ctx)()

	m.ID = newID()
	if m.Timestamp.IsZero() {
		m.Timestamp = r.s.now()
	}
	m.SeenBy = slices.Clone(m.SeenBy)
	r.s.data.messages = append(r.s.data.messages, m)
	return m, nil
}

func (r *messageRepository) ListByGroup(ctx context.Context, groupID string) ([]chat.Message, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]chat.Message, 0)
	for _, m := range r.s.data.messages {
		if m.GroupID == groupID {
			m.SeenBy = slices.Clone(m.SeenBy)
			out = append(out, m)
		}
	}
	slices.SortStableFunc(out, func(a, b chat.Message) int {
		return a.Timestamp.Compare(b.Timestamp)
	})
	return out, nil
}

func (r *messageRepository) MarkSeen(ctx context.Context, groupID, userID string) error {
	defer r.s.lockWrite(ctx)()

	for i := range r.s.data.messages {
		m := &r.s.data.messages[i]
		if m.GroupID == groupID && !slices.Contains(m.SeenBy, userID) {
			m.SeenBy = append(slices.Clone(m.SeenBy), userID)
		}
	}
	return nil
}

func (r *messageRepository) DeleteByGroup(ctx context.Context, groupID string) error {
	defer r.s.lockWrite(ctx)()

	r.s.data.messages = slices.DeleteFunc(r.s.data.messages, func(m chat.Message) bool {
		return m.GroupID == groupID
	})
	return nil
}
