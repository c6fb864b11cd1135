package auth

import (
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *RegisterRequest) Validate() error {
	var errs validator.ValidationErrors
	errs.Required("name", r.Name)
	errs.Required("email", r.Email)
	if !validator.IsEmpty(r.Email) && !validator.IsValidEmail(r.Email) {
		errs.Add("email", "email must be a valid email address")
	}
	if len(r.Password) < 8 {
		errs.Add("password", "password must be at least 8 characters")
	}
	return errs.Err()
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	var errs validator.ValidationErrors
	errs.Required("email", r.Email)
	errs.Required("password", r.Password)
	return errs.Err()
}

type UserResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	EmployeeID   string `json:"employee_id,omitempty"`
	BadgeID      string `json:"rfid_card_no,omitempty"`
	EmployeeCode string `json:"employee_code,omitempty"`
	Designation  string `json:"designation,omitempty"`
	IsAdmin      bool   `json:"is_admin"`
}

type LoginResponse struct {
	AccessToken string       `json:"access_token"`
	ExpiresAt   int64        `json:"expires_at"`
	User        UserResponse `json:"user"`
}

type SocketTokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
}
