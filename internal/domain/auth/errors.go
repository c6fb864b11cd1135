package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrEmployeeNotLinked  = errors.New("no employee record linked to this account")
	ErrForbidden          = errors.New("not allowed to access this resource")
)
