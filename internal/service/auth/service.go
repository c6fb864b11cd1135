package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

type AuthServiceImpl struct {
	user.UserRepository
	employee.EmployeeRepository
	jwt.Service
}

func NewAuthService(userRepository user.UserRepository, employeeRepository employee.EmployeeRepository, jwtService jwt.Service) auth.AuthService {
	return &AuthServiceImpl{
		UserRepository:     userRepository,
		EmployeeRepository: employeeRepository,
		Service:            jwtService,
	}
}

func (a *AuthServiceImpl) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// linkedEmployee finds the employee sharing the account's email. The bool is
// false when none exists.
func (a *AuthServiceImpl) linkedEmployee(ctx context.Context, email string) (employee.Employee, bool, error) {
	emp, err := a.EmployeeRepository.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.Employee{}, false, nil
		}
		return employee.Employee{}, false, fmt.Errorf("failed to get employee by email: %w", err)
	}
	return emp, true, nil
}

func userResponse(u user.User, emp employee.Employee, linked bool) auth.UserResponse {
	resp := auth.UserResponse{ID: u.ID, Name: u.Name, Email: u.Email}
	if linked {
		resp.EmployeeID = emp.ID
		resp.BadgeID = emp.BadgeID
		resp.EmployeeCode = emp.EmployeeCode
		resp.Designation = emp.Designation
		resp.IsAdmin = emp.IsAdmin()
	}
	return resp
}

// Register implements auth.AuthService.
func (a *AuthServiceImpl) Register(ctx context.Context, req auth.RegisterRequest) (auth.UserResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.UserResponse{}, err
	}

	hashed, err := a.hashPassword(req.Password)
	if err != nil {
		return auth.UserResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}

	created, err := a.UserRepository.Create(ctx, user.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hashed,
	})
	if err != nil {
		return auth.UserResponse{}, err
	}

	emp, linked, err := a.linkedEmployee(ctx, created.Email)
	if err != nil {
		return auth.UserResponse{}, err
	}
	slog.Info("user registered", "user_id", created.ID, "linked_employee", linked)
	return userResponse(created, emp, linked), nil
}

// Login implements auth.AuthService.
func (a *AuthServiceImpl) Login(ctx context.Context, req auth.LoginRequest) (auth.LoginResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.LoginResponse{}, err
	}

	userData, err := a.UserRepository.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.LoginResponse{}, auth.ErrInvalidCredentials
		}
		return auth.LoginResponse{}, fmt.Errorf("failed to get user by email: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(userData.PasswordHash), []byte(req.Password)); err != nil {
		return auth.LoginResponse{}, auth.ErrInvalidCredentials
	}

	emp, err := a.EmployeeRepository.GetByEmail(ctx, userData.Email)
	if err != nil {
		return auth.LoginResponse{}, err
	}

	token, expiresAt, err := a.Service.GenerateAccessToken(userData.ID, userData.Email, emp.ID, emp.IsAdmin())
	if err != nil {
		return auth.LoginResponse{}, fmt.Errorf("failed to generate access token: %w", err)
	}

	return auth.LoginResponse{
		AccessToken: token,
		ExpiresAt:   expiresAt,
		User:        userResponse(userData, emp, true),
	}, nil
}

// Verify implements auth.AuthService.
func (a *AuthServiceImpl) Verify(ctx context.Context, principal auth.Principal) (auth.UserResponse, error) {
	userData, err := a.UserRepository.GetByID(ctx, principal.UserID)
	if err != nil {
		return auth.UserResponse{}, err
	}
	emp, linked, err := a.linkedEmployee(ctx, userData.Email)
	if err != nil {
		return auth.UserResponse{}, err
	}
	return userResponse(userData, emp, linked), nil
}

// Authenticate implements auth.AuthService. Admin rights are read from the
// employee record on every request, so a designation change applies at once.
func (a *AuthServiceImpl) Authenticate(ctx context.Context, userID string) (auth.Principal, error) {
	userData, err := a.UserRepository.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.Principal{}, auth.ErrInvalidToken
		}
		return auth.Principal{}, fmt.Errorf("failed to get user: %w", err)
	}

	principal := auth.Principal{UserID: userData.ID, Name: userData.Name, Email: userData.Email}
	emp, linked, err := a.linkedEmployee(ctx, userData.Email)
	if err != nil {
		return auth.Principal{}, err
	}
	if linked {
		principal.EmployeeID = emp.ID
		principal.BadgeID = emp.BadgeID
		principal.IsAdmin = emp.IsAdmin()
	}
	return principal, nil
}

// SocketToken implements auth.AuthService.
func (a *AuthServiceImpl) SocketToken(ctx context.Context, principal auth.Principal) (auth.SocketTokenResponse, error) {
	token, expiresIn, err := a.Service.GenerateSocketToken(principal.UserID)
	if err != nil {
		return auth.SocketTokenResponse{}, fmt.Errorf("failed to generate socket token: %w", err)
	}
	return auth.SocketTokenResponse{Token: token, ExpiresIn: expiresIn}, nil
}
