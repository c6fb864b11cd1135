package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/i18n"
)

type AuthHandler interface {
	Register(w http.ResponseWriter, r *http.Request)
	Login(w http.ResponseWriter, r *http.Request)
	Verify(w http.ResponseWriter, r *http.Request)
	SocketToken(w http.ResponseWriter, r *http.Request)
}

type AuthHandlerImpl struct {
	authService auth.AuthService
	translator  *i18n.Translator
}

func NewAuthHandler(authService auth.AuthService, translator *i18n.Translator) AuthHandler {
	return &AuthHandlerImpl{
		authService: authService,
		translator:  translator,
	}
}

// Register implements AuthHandler.
func (a *AuthHandlerImpl) Register(w http.ResponseWriter, r *http.Request) {
	var registerReq auth.RegisterRequest
	if !decodeJSON(w, r, &registerReq, "Register") {
		return
	}

	if err := registerReq.Validate(); err != nil {
		slog.Error("Register validate error", "error", err)
		response.HandleError(w, err)
		return
	}

	userResponse, err := a.authService.Register(r.Context(), registerReq)
	if err != nil {
		slog.Error("Register service error", "error", err)
		response.HandleError(w, err)
		return
	}

	slog.Info("User registered", "user_id", userResponse.ID)
	response.Created(w, a.translator.T(r.Context(), "auth.registered"), userResponse)
}

// Login implements AuthHandler.
func (a *AuthHandlerImpl) Login(w http.ResponseWriter, r *http.Request) {
	var loginReq auth.LoginRequest
	if !decodeJSON(w, r, &loginReq, "Login") {
		return
	}

	if err := loginReq.Validate(); err != nil {
		slog.Error("Login validate error", "error", err)
		response.HandleError(w, err)
		return
	}

	loginResponse, err := a.authService.Login(r.Context(), loginReq)
	if err != nil {
		slog.Error("Login service error", "error", err)
		response.HandleError(w, err)
		return
	}

	slog.Info("User logged in successfully", "user_id", loginResponse.User.ID)
	response.SuccessWithMessage(w, a.translator.T(r.Context(), "auth.logged_in"), loginResponse)
}

// Verify implements AuthHandler.
func (a *AuthHandlerImpl) Verify(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(w, r)
	if !ok {
		return
	}

	userResponse, err := a.authService.Verify(r.Context(), principal)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, a.translator.T(r.Context(), "auth.verified"), userResponse)
}

// SocketToken implements AuthHandler.
func (a *AuthHandlerImpl) SocketToken(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(w, r)
	if !ok {
		return
	}

	tokenResponse, err := a.authService.SocketToken(r.Context(), principal)
	if err != nil {
		slog.Error("SocketToken service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, a.translator.T(r.Context(), "auth.socket_token"), tokenResponse)
}
