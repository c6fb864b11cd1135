package auth

import "context"

type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (UserResponse, error)
	Login(ctx context.Context, req LoginRequest) (LoginResponse, error)
	// Verify reloads the principal's profile.
	Verify(ctx context.Context, principal Principal) (UserResponse, error)
	// Authenticate resolves a token's user id into a principal.
	Authenticate(ctx context.Context, userID string) (Principal, error)
	SocketToken(ctx context.Context, principal Principal) (SocketTokenResponse, error)
}
