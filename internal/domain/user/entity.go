package user

import "time"

// User is a login account. It is linked to an employee record by email.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Push         *PushSubscription
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PushSubscription is a browser web-push endpoint.
type PushSubscription struct {
	Endpoint string `json:"endpoint"`
	Keys     struct {
		P256dh string `json:"p256dh"`
		Auth   string `json:"auth"`
	} `json:"keys"`
}
