package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/chat"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/i18n"
	"github.com/go-chi/chi/v5"
)

type ChatHandler interface {
	CreateGroup(w http.ResponseWriter, r *http.Request)
	ListGroups(w http.ResponseWriter, r *http.Request)
	RenameGroup(w http.ResponseWriter, r *http.Request)
	DeleteGroup(w http.ResponseWriter, r *http.Request)
	AddMember(w http.ResponseWriter, r *http.Request)
	Messages(w http.ResponseWriter, r *http.Request)
	Send(w http.ResponseWriter, r *http.Request)
}

type ChatHandlerImpl struct {
	chatService chat.ChatService
	translator  *i18n.Translator
}

func NewChatHandler(chatService chat.ChatService, translator *i18n.Translator) ChatHandler {
	return &ChatHandlerImpl{
		chatService: chatService,
		translator:  translator,
	}
}

// CreateGroup implements ChatHandler.
func (h *ChatHandlerImpl) CreateGroup(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(w, r)
	if !ok {
		return
	}
	var req chat.CreateGroupRequest
	if !decodeJSON(w, r, &req, "Create group") {
		return
	}

	group, err := h.chatService.CreateGroup(r.Context(), principal, req)
	if err != nil {
		slog.Error("Create group service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.Created(w, h.translator.T(r.Context(), "chat.group_created"), group)
}

// ListGroups implements ChatHandler.
func (h *ChatHandlerImpl) ListGroups(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(w, r)
	if !ok {
		return
	}

	groups, err := h.chatService.ListGroups(r.Context(), principal)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMeta(w, h.translator.T(r.Context(), "chat.groups_listed"), groups, &response.Meta{TotalItems: len(groups)})
}

// RenameGroup implements ChatHandler.
func (h *ChatHandlerImpl) RenameGroup(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(w, r)
	if !ok {
		return
	}
	var req chat.RenameGroupRequest
	if !decodeJSON(w, r, &req, "Rename group") {
		return
	}
	req.GroupID = chi.URLParam(r, "id")

	group, err := h.chatService.RenameGroup(r.Context(), principal, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, h.translator.T(r.Context(), "chat.group_renamed"), group)
}

// DeleteGroup implements ChatHandler.
func (h *ChatHandlerImpl) DeleteGroup(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(w, r)
	if !ok {
		return
	}

	groupID := chi.URLParam(r, "id")
	if err := h.chatService.DeleteGroup(r.Context(), principal, groupID); err != nil {
		response.HandleError(w, err)
		return
	}
	slog.Info("Group deleted", "group_id", groupID, "by", principal.UserID)
	response.SuccessWithMessage(w, h.translator.T(r.Context(), "chat.group_deleted"), nil)
}

// AddMember implements ChatHandler.
func (h *ChatHandlerImpl) AddMember(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(w, r)
	if !ok {
		return
	}
	var req chat.AddMemberRequest
	if !decodeJSON(w, r, &req, "Add member") {
		return
	}
	req.GroupID = chi.URLParam(r, "id")

	group, err := h.chatService.AddMember(r.Context(), principal, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, h.translator.T(r.Context(), "chat.member_added"), group)
}

// Messages implements ChatHandler.
func (h *ChatHandlerImpl) Messages(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(w, r)
	if !ok {
		return
	}

	messages, err := h.chatService.Messages(r.Context(), principal, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMeta(w, h.translator.T(r.Context(), "chat.messages_listed"), messages, &response.Meta{TotalItems: len(messages)})
}

// Send implements ChatHandler.
func (h *ChatHandlerImpl) Send(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(w, r)
	if !ok {
		return
	}
	var req chat.SendMessageRequest
	if !decodeJSON(w, r, &req, "Send message") {
		return
	}
	req.GroupID = chi.URLParam(r, "id")

	message, err := h.chatService.Send(r.Context(), principal, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, h.translator.T(r.Context(), "chat.message_sent"), message)
}
