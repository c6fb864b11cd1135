package chat

import (
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

type CreateGroupRequest struct {
	Name    string   `json:"name"`
	Members []string `json:"members"`
}

func (r *CreateGroupRequest) Validate() error {
	var errs validator.ValidationErrors
	errs.Required("name", r.Name)
	if len(r.Name) > 100 {
		errs.Add("name", "name must not exceed 100 characters")
	}
	return errs.Err()
}

type RenameGroupRequest struct {
	GroupID string `json:"-"`
	Name    string `json:"name"`
}

func (r *RenameGroupRequest) Validate() error {
	var errs validator.ValidationErrors
	errs.Required("group_id", r.GroupID)
	errs.Required("name", r.Name)
	return errs.Err()
}

type AddMemberRequest struct {
	GroupID string `json:"-"`
	UserID  string `json:"user_id"`
}

func (r *AddMemberRequest) Validate() error {
	var errs validator.ValidationErrors
	errs.Required("group_id", r.GroupID)
	errs.Required("user_id", r.UserID)
	return errs.Err()
}

type SendMessageRequest struct {
	GroupID string `json:"-"`
	Content string `json:"content"`
	File    string `json:"file,omitempty"`
	TempID  string `json:"temp_id,omitempty"`
}

func (r *SendMessageRequest) Validate() error {
	var errs validator.ValidationErrors
	errs.Required("group_id", r.GroupID)
	if validator.IsEmpty(r.Content) && validator.IsEmpty(r.File) {
		errs.Add("content", ErrEmptyMessage.Error())
	}
	return errs.Err()
}

type SubscribeRequest struct {
	Endpoint string `json:"endpoint"`
	Keys     struct {
		P256dh string `json:"p256dh"`
		Auth   string `json:"auth"`
	} `json:"keys"`
}

func (r *SubscribeRequest) Validate() error {
	var errs validator.ValidationErrors
	errs.Required("endpoint", r.Endpoint)
	errs.Required("keys.p256dh", r.Keys.P256dh)
	errs.Required("keys.auth", r.Keys.Auth)
	return errs.Err()
}

type GroupResponse struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	AdminID string   `json:"admin_id"`
	Members []string `json:"members"`
}

func NewGroupResponse(g Group) GroupResponse {
	members := g.Members
	if members == nil {
		members = []string{}
	}
	return GroupResponse{ID: g.ID, Name: g.Name, AdminID: g.AdminID, Members: members}
}

type MessageResponse struct {
	ID        string    `json:"id"`
	GroupID   string    `json:"group_id"`
	Sender    Sender    `json:"sender"`
	Content   string    `json:"content"`
	File      string    `json:"file,omitempty"`
	TempID    string    `json:"temp_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	SeenBy    []string  `json:"seen_by"`
}

func NewMessageResponse(m Message) MessageResponse {
	seen := m.SeenBy
	if seen == nil {
		seen = []string{}
	}
	return MessageResponse{
		ID:        m.ID,
		GroupID:   m.GroupID,
		Sender:    m.Sender,
		Content:   m.Content,
		File:      m.File,
		TempID:    m.TempID,
		Timestamp: m.Timestamp,
		SeenBy:    seen,
	}
}

// PushPayload is the JSON body of a new-message web push.
type PushPayload struct {
	Title     string `json:"title"`
	Body      string `json:"body"`
	URL       string `json:"url"`
	GroupID   string `json:"groupId"`
	MessageID string `json:"messageId"`
}
