package repository

import (
	"context"

	"github.com/spec-kit/repair-service/internal/domain"
	"github.com/spec-kit/repair-service/internal/persistence"
)

// TicketRepository defines whole-collection access to repair tickets.
// Stored order is newest first.
type TicketRepository interface {
	LoadAll(ctx context.Context) ([]domain.Ticket, error)
	SaveAll(ctx context.Context, tickets []domain.Ticket) error
}

type ticketRepository struct {
	tickets collection[domain.Ticket]
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(backend persistence.Backend) TicketRepository {
	return &ticketRepository{tickets: collection[domain.Ticket]{backend: backend, key: TicketsKey}}
}

func (r *ticketRepository) LoadAll(ctx context.Context) ([]domain.Ticket, error) {
	return r.tickets.loadAll(ctx)
}

func (r *ticketRepository) SaveAll(ctx context.Context, tickets []domain.Ticket) error {
	return r.tickets.saveAll(ctx, tickets)
}
