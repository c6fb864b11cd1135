// Package memory is a process-local store for development and tests. All
// repositories share one Store, so a transaction spans every entity.
package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/chat"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/google/uuid"
)

type data struct {
	employees  []employee.Employee
	attendance []attendance.Attendance
	leaves     []leave.Leave
	users      []user.User
	groups     []chat.Group
	messages   []chat.Message
}

func (d data) clone() data {
	out := data{
		employees:  slices.Clone(d.employees),
		attendance: slices.Clone(d.attendance),
		leaves:     slices.Clone(d.leaves),
		users:      slices.Clone(d.users),
		groups:     slices.Clone(d.groups),
		messages:   slices.Clone(d.messages),
	}
	for i := range out.groups {
		out.groups[i].Members = slices.Clone(out.groups[i].Members)
	}
	for i := range out.messages {
		out.messages[i].SeenBy = slices.Clone(out.messages[i].SeenBy)
	}
	return out
}

type Store struct {
	mu   sync.RWMutex
	txMu sync.Mutex
	data data
	now  func() time.Time
}

func NewStore() *Store {
	return &Store{now: time.Now}
}

// SetClock replaces the clock used for CreatedAt and UpdatedAt.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

type txKey struct{}

// WithinTransaction runs fn and restores the pre-call snapshot if fn fails.
// Transactions are serialised; nested calls join the outer transaction.
// Writes outside a transaction wait for it to finish, so a rollback never
// discards them.
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	snapshot := s.data.clone()
	s.mu.RUnlock()

	defer func() {
		if p := recover(); p != nil {
			s.restore(snapshot)
			panic(p)
		}
		if err != nil {
			s.restore(snapshot)
		}
	}()

	return fn(context.WithValue(ctx, txKey{}, struct{}{}))
}

// lockWrite acquires the locks a mutator needs and returns the release func.
// Outside a transaction it also holds txMu so the write cannot interleave
// with an open transaction's snapshot.
func (s *Store) lockWrite(ctx context.Context) func() {
	if ctx.Value(txKey{}) != nil {
		s.mu.Lock()
		return s.mu.Unlock
	}
	s.txMu.Lock()
	s.mu.Lock()
	return func() {
		s.mu.Unlock()
		s.txMu.Unlock()
	}
}

func (s *Store) restore(snapshot data) {
	s.mu.Lock()
	s.data = snapshot
	s.mu.Unlock()
}

func newID() string {
	return uuid.New().String()
}
