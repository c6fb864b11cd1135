package leave

import (
	"context"
)

type LeaveRepository interface {
	Create(ctx context.Context, l Leave) (Leave, error)
	GetByID(ctx context.Context, id string) (Leave, error)
	// List orders results by CreatedAt descending.
	List(ctx context.Context, filter Filter) ([]Leave, error)
	// UpdateDecision only updates a leave still in Pending status and returns
	// ErrLeaveAlreadyDecided otherwise.
	UpdateDecision(ctx context.Context, id string, d Decision) error
}
