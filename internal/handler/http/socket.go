package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/chat"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	"github.com/olahol/melody"
)

const (
	sessionRoom        = "room"
	sessionPrincipal   = "principal"
	sessionGroupID     = "group_id"
	sessionUnsubscribe = "unsubscribe"

	eventError = "error"
)

// SocketHandler upgrades websocket connections and relays broker rooms to
// them. Browsers cannot set an Authorization header on an upgrade, so the
// caller passes a socket token in the "token" query parameter.
type SocketHandler interface {
	Group(w http.ResponseWriter, r *http.Request)
	Dashboard(w http.ResponseWriter, r *http.Request)
	Close() error
}

type SocketHandlerImpl struct {
	melody      *melody.Melody
	jwtService  jwt.Service
	authService auth.AuthService
	chatService chat.ChatService
	broker      chat.Broker
}

func NewSocketHandler(jwtService jwt.Service, authService auth.AuthService, chatService chat.ChatService, broker chat.Broker) SocketHandler {
	h := &SocketHandlerImpl{
		melody:      melody.New(),
		jwtService:  jwtService,
		authService: authService,
		chatService: chatService,
		broker:      broker,
	}
	h.melody.HandleConnect(h.onConnect)
	h.melody.HandleDisconnect(h.onDisconnect)
	h.melody.HandleMessage(h.onMessage)
	return h
}

func (h *SocketHandlerImpl) authenticate(r *http.Request) (auth.Principal, error) {
	token := r.URL.Query().Get("token")
	if token == "" {
		return auth.Principal{}, auth.ErrInvalidToken
	}
	userID, err := h.jwtService.ValidateSocketToken(token)
	if err != nil {
		return auth.Principal{}, auth.ErrInvalidToken
	}
	return h.authService.Authenticate(r.Context(), userID)
}

// Group implements SocketHandler.
func (h *SocketHandlerImpl) Group(w http.ResponseWriter, r *http.Request) {
	principal, err := h.authenticate(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	groupID := chi.URLParam(r, "id")
	if err := h.chatService.Join(r.Context(), principal, groupID); err != nil {
		response.HandleError(w, err)
		return
	}

	err = h.melody.HandleRequestWithKeys(w, r, map[string]any{
		sessionRoom:      chat.GroupRoom(groupID),
		sessionPrincipal: principal,
		sessionGroupID:   groupID,
	})
	if err != nil {
		slog.Error("Group socket upgrade failed", "group_id", groupID, "error", err)
	}
}

// Dashboard implements SocketHandler.
func (h *SocketHandlerImpl) Dashboard(w http.ResponseWriter, r *http.Request) {
	principal, err := h.authenticate(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	if !principal.IsAdmin {
		response.HandleError(w, user.ErrAdminPrivilegeRequired)
		return
	}

	err = h.melody.HandleRequestWithKeys(w, r, map[string]any{
		sessionRoom:      dashboard.Room,
		sessionPrincipal: principal,
	})
	if err != nil {
		slog.Error("Dashboard socket upgrade failed", "error", err)
	}
}

// Close disconnects every session.
func (h *SocketHandlerImpl) Close() error {
	return h.melody.Close()
}

func (h *SocketHandlerImpl) onConnect(s *melody.Session) {
	room, _ := s.MustGet(sessionRoom).(string)
	unsubscribe := h.broker.Subscribe(room, func(e chat.Event) {
		writeEvent(s, e)
	})
	s.Set(sessionUnsubscribe, unsubscribe)
}

func (h *SocketHandlerImpl) onDisconnect(s *melody.Session) {
	if v, ok := s.Get(sessionUnsubscribe); ok {
		if unsubscribe, ok := v.(func()); ok {
			unsubscribe()
		}
	}
}

// onMessage lets group members send over the socket instead of POSTing.
// Dashboard sockets are read-only.
func (h *SocketHandlerImpl) onMessage(s *melody.Session, raw []byte) {
	groupID, ok := s.Get(sessionGroupID)
	if !ok {
		return
	}
	principal, _ := s.MustGet(sessionPrincipal).(auth.Principal)

	var req chat.SendMessageRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		writeEvent(s, chat.Event{Name: eventError, Data: map[string]string{"message": "invalid message format"}})
		return
	}
	req.GroupID, _ = groupID.(string)

	if _, err := h.chatService.Send(s.Request.Context(), principal, req); err != nil {
		slog.Warn("Socket send failed", "group_id", req.GroupID, "user_id", principal.UserID, "error", err)
		writeEvent(s, chat.Event{Name: eventError, Data: map[string]string{
			"message": err.Error(),
			"temp_id": req.TempID,
		}})
	}
}

func writeEvent(s *melody.Session, e chat.Event) {
	payload, err := json.Marshal(e)
	if err != nil {
		slog.Error("Socket event encode failed", "event", e.Name, "error", err)
		return
	}
	if s.IsClosed() {
		return
	}
	if err := s.Write(payload); err != nil {
		slog.Debug("Socket write dropped", "event", e.Name, "error", err)
	}
}
