package realtime

import (
	"sync"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/chat"
)

// subscriberBuffer is how many events a slow subscriber may lag behind before
// further events are dropped for it.
const subscriberBuffer = 16

type subscriber struct {
	ch   chan chat.Event
	done chan struct{}
}

// Hub is an in-process room broker. Each subscriber gets its own delivery
// goroutine so a slow handler never blocks Publish.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*subscriber]struct{}
}

func NewHub() *Hub {
	return &Hub{
		rooms: make(map[string]map[*subscriber]struct{}),
	}
}

// Subscribe registers handler for room and returns the cleanup function.
func (h *Hub) Subscribe(room string, handler func(chat.Event)) func() {
	sub := &subscriber{
		ch:   make(chan chat.Event, subscriberBuffer),
		done: make(chan struct{}),
	}

	h.mu.Lock()
	if h.rooms[room] == nil {
		h.rooms[room] = make(map[*subscriber]struct{})
	}
	h.rooms[room][sub] = struct{}{}
	h.mu.Unlock()

	go func() {
		defer close(sub.done)
		for event := range sub.ch {
			handler(event)
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.rooms[room], sub)
			if len(h.rooms[room]) == 0 {
				delete(h.rooms, room)
			}
			close(sub.ch)
			h.mu.Unlock()
			<-sub.done
		})
	}
}

// Publish sends event to every subscriber of room
func (h *Hub) Publish(room string, event chat.Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for sub := range h.rooms[room] {
		select {
		case sub.ch <- event:
		default:
			// subscriber is full, drop
		}
	}
}

func (h *Hub) SubscriberCount(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

func (h *Hub) TotalSubscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	total := 0
	for _, subs := range h.rooms {
		total += len(subs)
	}
	return total
}

var _ chat.Broker = (*Hub)(nil)
