package chat

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/chat"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/repository/memory"
	"github.com/cmlabs-hris/attendance-backend-go/internal/service/notification"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingBroker struct {
	mu     sync.Mutex
	events map[string][]chat.Event
}

func (b *recordingBroker) Publish(room string, event chat.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.events == nil {
		b.events = make(map[string][]chat.Event)
	}
	b.events[room] = append(b.events[room], event)
}

func (b *recordingBroker) Subscribe(room string, handler func(chat.Event)) func() {
	return func() {}
}

type recordingPusher struct {
	jobs []notification.Job
}

func (p *recordingPusher) Push(job notification.Job) bool {
	p.jobs = append(p.jobs, job)
	return true
}

type chatEnv struct {
	svc    chat.ChatService
	users  user.UserRepository
	broker *recordingBroker
	pusher *recordingPusher
	admin  auth.Principal
	asha   auth.Principal
	bala   auth.Principal
}

func newChatEnv(t *testing.T) chatEnv {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	users := memory.NewUserRepository(store)

	principal := func(name string, admin bool) auth.Principal {
		u, err := users.Create(ctx, user.User{Name: name, Email: strings.ToLower(name) + "@example.com"})
		require.NoError(t, err)
		return auth.Principal{UserID: u.ID, Name: u.Name, IsAdmin: admin}
	}

	env := chatEnv{
		users:  users,
		broker: &recordingBroker{},
		pusher: &recordingPusher{},
		admin:  principal("Admin", true),
		asha:   principal("Asha", false),
		bala:   principal("Bala", false),
	}
	clock := time.Date(2024, 6, 5, 9, 0, 0, 0, time.UTC)
	env.svc = NewChatService(store, memory.NewGroupRepository(store), memory.NewMessageRepository(store), users, env.broker, env.pusher, func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	})
	return env
}

func TestGroupLifecycle(t *testing.T) {
	env := newChatEnv(t)
	ctx := context.Background()

	_, err := env.svc.CreateGroup(ctx, env.asha, chat.CreateGroupRequest{Name: "ops"})
	assert.ErrorIs(t, err, user.ErrAdminPrivilegeRequired)

	g, err := env.svc.CreateGroup(ctx, env.admin, chat.CreateGroupRequest{Name: "Ops", Members: []string{env.asha.UserID, env.asha.UserID, env.admin.UserID}})
	require.NoError(t, err)
	assert.Equal(t, []string{env.asha.UserID}, g.Members)

	_, err = env.svc.CreateGroup(ctx, env.admin, chat.CreateGroupRequest{Name: "ops"})
	assert.ErrorIs(t, err, chat.ErrGroupExists)

	_, err = env.svc.CreateGroup(ctx, env.admin, chat.CreateGroupRequest{Name: "ghosts", Members: []string{"nobody"}})
	assert.ErrorIs(t, err, user.ErrUserNotFound)

	mine, err := env.svc.ListGroups(ctx, env.asha)
	require.NoError(t, err)
	assert.Len(t, mine, 1)
	none, err := env.svc.ListGroups(ctx, env.bala)
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = env.svc.AddMember(ctx, env.asha, chat.AddMemberRequest{GroupID: g.ID, UserID: env.bala.UserID})
	assert.ErrorIs(t, err, chat.ErrNotGroupAdmin)

	g, err = env.svc.AddMember(ctx, env.admin, chat.AddMemberRequest{GroupID: g.ID, UserID: env.bala.UserID})
	require.NoError(t, err)
	assert.Equal(t, []string{env.asha.UserID, env.bala.UserID}, g.Members)

	_, err = env.svc.AddMember(ctx, env.admin, chat.AddMemberRequest{GroupID: g.ID, UserID: env.bala.UserID})
	assert.ErrorIs(t, err, chat.ErrAlreadyMember)

	renamed, err := env.svc.RenameGroup(ctx, env.admin, chat.RenameGroupRequest{GroupID: g.ID, Name: "Operations"})
	require.NoError(t, err)
	assert.Equal(t, "Operations", renamed.Name)

	_, err = env.svc.Send(ctx, env.asha, chat.SendMessageRequest{GroupID: g.ID, Content: "hi"})
	require.NoError(t, err)

	assert.ErrorIs(t, env.svc.DeleteGroup(ctx, env.asha, g.ID), chat.ErrNotGroupAdmin)
	require.NoError(t, env.svc.DeleteGroup(ctx, env.admin, g.ID))
	_, err = env.svc.Messages(ctx, env.admin, g.ID)
	assert.ErrorIs(t, err, chat.ErrGroupNotFound)
}

func TestSend_PublishesAndPushes(t *testing.T) {
	env := newChatEnv(t)
	ctx := context.Background()

	g, err := env.svc.CreateGroup(ctx, env.admin, chat.CreateGroupRequest{Name: "ops", Members: []string{env.asha.UserID}})
	require.NoError(t, err)
	require.NoError(t, env.svc.SaveSubscription(ctx, env.admin, chat.SubscribeRequest{
		Endpoint: "https://push.example/admin",
		Keys: struct {
			P256dh string `json:"p256dh"`
			Auth   string `json:"auth"`
		}{P256dh: "k", Auth: "a"},
	}))

	long := strings.Repeat("é", 60)
	sent, err := env.svc.Send(ctx, env.asha, chat.SendMessageRequest{GroupID: g.ID, Content: long, TempID: "tmp-1"})
	require.NoError(t, err)
	assert.Equal(t, "tmp-1", sent.TempID)
	assert.Equal(t, []string{env.asha.UserID}, sent.SeenBy)

	events := env.broker.events[chat.GroupRoom(g.ID)]
	require.Len(t, events, 1)
	assert.Equal(t, chat.EventMessage, events[0].Name)

	require.Len(t, env.pusher.jobs, 1, "only the admin has a subscription; the sender is skipped")
	job := env.pusher.jobs[0]
	assert.Equal(t, env.admin.UserID, job.UserID)

	var payload chat.PushPayload
	require.NoError(t, json.Unmarshal(job.Payload, &payload))
	assert.Equal(t, "New message from Asha", payload.Title)
	assert.Equal(t, strings.Repeat("é", 47)+"...", payload.Body)
	assert.Equal(t, "/chat/"+g.ID, payload.URL)
	assert.Equal(t, sent.ID, payload.MessageID)

	_, err = env.svc.Send(ctx, env.bala, chat.SendMessageRequest{GroupID: g.ID, Content: "let me in"})
	assert.ErrorIs(t, err, chat.ErrNotGroupMember)
	assert.ErrorIs(t, env.svc.Join(ctx, env.bala, g.ID), chat.ErrNotGroupMember)
	assert.NoError(t, env.svc.Join(ctx, env.admin, g.ID))
}

func TestMessages_OrderedAndMarkedSeen(t *testing.T) {
	env := newChatEnv(t)
	ctx := context.Background()

	g, err := env.svc.CreateGroup(ctx, env.admin, chat.CreateGroupRequest{Name: "ops", Members: []string{env.asha.UserID}})
	require.NoError(t, err)
	for _, text := range []string{"first", "second"} {
		_, err := env.svc.Send(ctx, env.admin, chat.SendMessageRequest{GroupID: g.ID, Content: text})
		require.NoError(t, err)
	}

	msgs, err := env.svc.Messages(ctx, env.asha, g.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "first", msgs[0].Content)
	assert.Equal(t, "second", msgs[1].Content)
	for _, m := range msgs {
		assert.ElementsMatch(t, []string{env.admin.UserID, env.asha.UserID}, m.SeenBy)
	}

	_, err = env.svc.Messages(ctx, env.bala, g.ID)
	assert.ErrorIs(t, err, chat.ErrNotGroupMember)
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "short", Preview("short"))
	exact := strings.Repeat("a", 47)
	assert.Equal(t, exact, Preview(exact))
	assert.Equal(t, exact+"...", Preview(exact+"b"))

	attachment := PushPayload(chat.Message{GroupID: "g1", Sender: chat.Sender{Name: "Asha"}, File: "/files/a.pdf"})
	assert.Equal(t, "Sent an attachment", attachment.Body)
}
