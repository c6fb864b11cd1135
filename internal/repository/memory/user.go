package memory

import (
	"context"
	"slices"
	"strings"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
)

type userRepository struct {
	s *Store
}

func NewUserRepository(s *Store) user.UserRepository {
	return &userRepository{s: s}
}

func (r *userRepository) Create(ctx context.Context, u user.User) (user.User, error) {
	defer r.s.lockWrite(ctx)()

	for _, existing := range r.s.data.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return user.User{}, user.ErrUserEmailExists
		}
	}
	now := r.s.now()
	u.ID = newID()
	u.CreatedAt = now
	u.UpdatedAt = now
	r.s.data.users = append(r.s.data.users, u)
	return u, nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (user.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.data.users {
		if u.ID == id {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (user.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.data.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (r *userRepository) ListByIDs(ctx context.Context, ids []string) ([]user.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]user.User, 0, len(ids))
	for _, u := range r.s.data.users {
		if slices.Contains(ids, u.ID) {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *userRepository) UpdatePushSubscription(ctx context.Context, id string, sub *user.PushSubscription) error {
	defer r.s.lockWrite(ctx)()

	i := slices.IndexFunc(r.s.data.users, func(u user.User) bool { return u.ID == id })
	if i < 0 {
		return user.ErrUserNotFound
	}
	if sub != nil {
		copied := *sub
		sub = &copied
	}
	r.s.data.users[i].Push = sub
	r.s.data.users[i].UpdatedAt = r.s.now()
	return nil
}
