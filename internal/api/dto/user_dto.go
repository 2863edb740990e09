package dto

import (
	"time"

	"github.com/spec-kit/repair-service/internal/domain"
)

// PinLoginRequest payload for PIN login.
type PinLoginRequest struct {
	PIN string `json:"pin"`
}

// BadgeLoginRequest payload for login with an already scanned badge id.
type BadgeLoginRequest struct {
	BadgeID string `json:"badgeId"`
}

// SimulateBadgeRequest carries badge text handed to a waiting scan.
type SimulateBadgeRequest struct {
	Text string `json:"text"`
}

// SessionResponse describes the issued session token.
type SessionResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// LoginResponse standard response for login endpoints.
type LoginResponse struct {
	User    UserResponse    `json:"user"`
	Session SessionResponse `json:"session"`
}

// UserResponse never carries the PIN.
type UserResponse struct {
	ID    string      `json:"id"`
	Name  string      `json:"name"`
	Role  domain.Role `json:"role"`
	NfcID *string     `json:"nfcId"`
}

// DashboardResponse is the whoami view.
type DashboardResponse struct {
	User      UserResponse `json:"user"`
	ShowAdmin bool         `json:"showAdmin"`
}

// CreateUserRequest payload for the admin user form.
type CreateUserRequest struct {
	Name string      `json:"name"`
	Role domain.Role `json:"role"`
	PIN  string      `json:"pin"`
}

// EnrollResponse reports the id written to the badge.
type EnrollResponse struct {
	UserID  string `json:"userId"`
	BadgeID string `json:"badgeId"`
}
