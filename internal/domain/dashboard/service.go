package dashboard

import "context"

type DashboardService interface {
	Today(ctx context.Context) (DashboardResponse, error)
	// Broadcast publishes the current snapshot to Room.
	Broadcast(ctx context.Context) error
}
