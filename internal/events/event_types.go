package events

import (
	"time"

	"github.com/spec-kit/repair-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated       EventType = "ticket_created"
	EventTicketStatusChanged EventType = "ticket_status_changed"
	EventUserAdded           EventType = "user_added"
	EventUserRemoved         EventType = "user_removed"
	EventBadgeEnrolled       EventType = "badge_enrolled"
	EventLogin               EventType = "login"
)

// Actor identifies the logged-in user behind an event, when known.
type Actor struct {
	UserID string `json:"user_id,omitempty"`
	Name   string `json:"name,omitempty"`
}

// ActorFor builds an Actor from a session user.
func ActorFor(user *domain.User) Actor {
	if user == nil {
		return Actor{}
	}
	return Actor{UserID: user.ID, Name: user.Name}
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	SubjectID string      `json:"subject_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	VIN      string `json:"vin"`
	Customer string `json:"customer"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
}

// UserChangedPayload is shared by user add/remove events.
type UserChangedPayload struct {
	Name string      `json:"name"`
	Role domain.Role `json:"role"`
}

// BadgeEnrolledPayload payload.
type BadgeEnrolledPayload struct {
	BadgeID string `json:"badge_id"`
}

// LoginPayload records how a user authenticated.
type LoginPayload struct {
	Method string `json:"method"`
}
