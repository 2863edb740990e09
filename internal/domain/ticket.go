package domain

import "time"

// TicketStatus enumerates the informal lifecycle of a repair ticket.
// Transitions are not enforced; any status may follow any other.
type TicketStatus string

const (
	TicketStatusReceived   TicketStatus = "Received"
	TicketStatusStarted    TicketStatus = "Started"
	TicketStatusInProgress TicketStatus = "In Progress"
	TicketStatusReady      TicketStatus = "Ready"
	TicketStatusDelivered  TicketStatus = "Delivered"
)

// TicketStatuses lists the known statuses in their suggested order.
var TicketStatuses = []TicketStatus{
	TicketStatusReceived,
	TicketStatusStarted,
	TicketStatusInProgress,
	TicketStatusReady,
	TicketStatusDelivered,
}

// Valid reports whether s is one of the known statuses.
func (s TicketStatus) Valid() bool {
	for _, known := range TicketStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Ticket is a vehicle repair intake record.
type Ticket struct {
	ID        string       `json:"id"`
	CreatedAt time.Time    `json:"createdAt"`
	Status    TicketStatus `json:"status"`
	VIN       string       `json:"vin"`
	Customer  string       `json:"customer"`
	Phone     string       `json:"phone"`
	Notes     string       `json:"notes"`
}
