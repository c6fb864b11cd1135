package chat

import (
	"context"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
)

// Broker fans events out to the subscribers of a room.
type Broker interface {
	Publish(room string, event Event)
	// Subscribe calls handler for each event published to room until the
	// returned func is called.
	Subscribe(room string, handler func(Event)) (unsubscribe func())
}

// Notifier delivers a push payload to one browser subscription.
type Notifier interface {
	Notify(ctx context.Context, sub user.PushSubscription, payload []byte) error
}
