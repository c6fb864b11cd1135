package jwt

import (
	"fmt"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const (
	TokenTypeAccess = "access"
	TokenTypeSocket = "socket"
)

type Service interface {
	GenerateAccessToken(userID string, email string, employeeID string, isAdmin bool) (token string, expiresAt int64, err error)
	GenerateSocketToken(userID string) (token string, expiresIn int, err error)
	ValidateSocketToken(tokenString string) (userID string, err error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	accessTokenExpiration time.Duration
	socketTokenExpiration time.Duration
	tokenAuth             *jwtauth.JWTAuth
	now                   func() time.Time
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string, accessTokenExpirationTime string, socketTokenExpirationTime string) (Service, error) {
	access, err := time.ParseDuration(accessTokenExpirationTime)
	if err != nil {
		return nil, fmt.Errorf("invalid access token expiration: %w", err)
	}
	socket, err := time.ParseDuration(socketTokenExpirationTime)
	if err != nil {
		return nil, fmt.Errorf("invalid socket token expiration: %w", err)
	}
	return &JWTService{
		accessTokenExpiration: access,
		socketTokenExpiration: socket,
		tokenAuth:             jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		now:                   time.Now,
	}, nil
}

func (j *JWTService) GenerateAccessToken(userID string, email string, employeeID string, isAdmin bool) (token string, expiresAt int64, err error) {
	expiresAt = j.now().Add(j.accessTokenExpiration).Unix()

	claims := map[string]interface{}{
		"user_id":     userID,
		"email":       email,
		"employee_id": employeeID,
		"is_admin":    isAdmin,
		"type":        TokenTypeAccess,
		"exp":         expiresAt,
	}

	_, tokenString, err := j.tokenAuth.Encode(claims)
	return tokenString, expiresAt, err
}

// GenerateSocketToken issues a short-lived token for websocket upgrades,
// which cannot carry an Authorization header from the browser.
func (j *JWTService) GenerateSocketToken(userID string) (token string, expiresIn int, err error) {
	expiresIn = int(j.socketTokenExpiration.Seconds())
	expiresAt := j.now().Add(j.socketTokenExpiration).Unix()

	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"user_id": userID,
		"type":    TokenTypeSocket,
		"exp":     expiresAt,
	})
	if err != nil {
		return "", 0, err
	}

	return tokenString, expiresIn, nil
}

func (j *JWTService) ValidateSocketToken(tokenString string) (userID string, err error) {
	token, err := j.tokenAuth.Decode(tokenString)
	if err != nil {
		return "", err
	}
	if err := jwt.Validate(token, jwt.WithAcceptableSkew(30*time.Second)); err != nil {
		return "", err
	}

	tokenType, ok := token.Get("type")
	if !ok || tokenType != TokenTypeSocket {
		return "", jwt.ErrInvalidJWT()
	}

	return StringClaim(token, "user_id")
}

// StringClaim reads a non-empty string claim from a verified token.
func StringClaim(token jwt.Token, name string) (string, error) {
	raw, ok := token.Get(name)
	if !ok {
		return "", jwt.ErrInvalidJWT()
	}
	value, ok := raw.(string)
	if !ok || value == "" {
		return "", jwt.ErrInvalidJWT()
	}
	return value, nil
}
