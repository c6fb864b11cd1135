package chat

import (
	"slices"
	"time"
)

type Group struct {
	ID        string
	Name      string
	AdminID   string
	Members   []string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasMember reports whether userID belongs to the group. The admin always does.
func (g Group) HasMember(userID string) bool {
	return g.AdminID == userID || slices.Contains(g.Members, userID)
}

// Recipients returns every participant except exclude, admin included.
func (g Group) Recipients(exclude string) []string {
	seen := map[string]struct{}{exclude: {}}
	out := make([]string, 0, len(g.Members)+1)
	for _, id := range append([]string{g.AdminID}, g.Members...) {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

type Sender struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Message struct {
	ID        string
	GroupID   string
	Sender    Sender
	Content   string
	File      string
	TempID    string
	Timestamp time.Time
	SeenBy    []string
}

// Event is what travels through a Broker room.
type Event struct {
	Name string `json:"event"`
	Data any    `json:"data"`
}

const EventMessage = "message"

// GroupRoom is the broker room carrying a group's events.
func GroupRoom(groupID string) string {
	return "group:" + groupID
}
