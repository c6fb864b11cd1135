package http

import (
	"net/http"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/chat"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/i18n"
)

type NotificationHandler interface {
	PublicKey(w http.ResponseWriter, r *http.Request)
	Subscribe(w http.ResponseWriter, r *http.Request)
}

type NotificationHandlerImpl struct {
	chatService    chat.ChatService
	vapidPublicKey string
	translator     *i18n.Translator
}

func NewNotificationHandler(chatService chat.ChatService, vapidPublicKey string, translator *i18n.Translator) NotificationHandler {
	return &NotificationHandlerImpl{
		chatService:    chatService,
		vapidPublicKey: vapidPublicKey,
		translator:     translator,
	}
}

// PublicKey returns the VAPID key browsers subscribe with. It is empty when
// push is disabled.
func (h *NotificationHandlerImpl) PublicKey(w http.ResponseWriter, r *http.Request) {
	response.Success(w, map[string]any{
		"public_key": h.vapidPublicKey,
		"enabled":    h.vapidPublicKey != "",
	})
}

// Subscribe implements NotificationHandler.
func (h *NotificationHandlerImpl) Subscribe(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(w, r)
	if !ok {
		return
	}
	var req chat.SubscribeRequest
	if !decodeJSON(w, r, &req, "Subscribe") {
		return
	}

	if err := h.chatService.SaveSubscription(r.Context(), principal, req); err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, h.translator.T(r.Context(), "notification.subscribed"), nil)
}
