package employee

import "errors"

var (
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrBadgeExists      = errors.New("rfid card already assigned to another employee")
	ErrEmailExists      = errors.New("email already registered to another employee")
)
