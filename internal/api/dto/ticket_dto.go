package dto

import (
	"time"

	"github.com/spec-kit/repair-service/internal/domain"
)

// CreateTicketRequest payload for the intake form.
type CreateTicketRequest struct {
	VIN      string `json:"vin"`
	Customer string `json:"customer"`
	Phone    string `json:"phone"`
	Notes    string `json:"notes"`
}

// UpdateStatusRequest payload.
type UpdateStatusRequest struct {
	Status domain.TicketStatus `json:"status"`
}

// TicketResponse mirrors the stored ticket.
type TicketResponse struct {
	ID        string              `json:"id"`
	CreatedAt time.Time           `json:"createdAt"`
	Status    domain.TicketStatus `json:"status"`
	VIN       string              `json:"vin"`
	Customer  string              `json:"customer"`
	Phone     string              `json:"phone"`
	Notes     string              `json:"notes"`
}

// VINScanRequest carries raw scanner keystrokes.
type VINScanRequest struct {
	Text         string `json:"text"`
	AutoComplete bool   `json:"autocomplete"`
}

// VINScanResponse reports the normalized VIN and whether it is usable.
type VINScanResponse struct {
	VIN      string `json:"vin"`
	Length   int    `json:"length"`
	Complete bool   `json:"complete"`
	// Scanned is set once the scanner signalled the end of the scan, by a
	// terminator or by auto-complete.
	Scanned bool   `json:"scanned"`
	Message string `json:"message,omitempty"`
}
