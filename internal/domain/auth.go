package domain

import "time"

// Session binds a client token to the user that logged in with it.
type Session struct {
	ID        string
	UserID    string
	Token     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}
