package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/repair-service/internal/domain"
	"github.com/spec-kit/repair-service/internal/events"
	"github.com/spec-kit/repair-service/internal/repository"
	"github.com/spec-kit/repair-service/internal/vin"
	apperrors "github.com/spec-kit/repair-service/pkg/util/errorutil"
)

// TicketService coordinates repair ticket workflows.
type TicketService struct {
	tickets repository.TicketRepository
	events  publisher
	logger  *zap.Logger
	now     func() time.Time
}

// TicketDependencies bundles collaborators for ticket service.
type TicketDependencies struct {
	TicketRepo repository.TicketRepository
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// TicketCreateInput describes an intake. VIN must already be sanitized and complete.
type TicketCreateInput struct {
	VIN      string
	Customer string
	Phone    string
	Notes    string
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	logger := orNop(deps.Logger)
	return &TicketService{
		tickets: deps.TicketRepo,
		events:  publisher{dispatcher: deps.Dispatcher, logger: logger, now: time.Now},
		logger:  logger,
		now:     time.Now,
	}
}

// ValidateIntake normalizes a submitted intake form: the VIN is sanitized and
// must be complete, the other fields are trimmed.
func ValidateIntake(input TicketCreateInput) (TicketCreateInput, error) {
	clean, err := vin.Validate(input.VIN)
	if err != nil {
		return input, err
	}
	return TicketCreateInput{
		VIN:      clean,
		Customer: strings.TrimSpace(input.Customer),
		Phone:    strings.TrimSpace(input.Phone),
		Notes:    strings.TrimSpace(input.Notes),
	}, nil
}

// Create records a new ticket in status Received at the head of the collection.
// The VIN is trusted as given; callers run ValidateIntake first.
func (s *TicketService) Create(ctx context.Context, input TicketCreateInput) (*domain.Ticket, error) {
	all, err := s.tickets.LoadAll(ctx)
	if err != nil {
		return nil, err
	}

	ticket := domain.Ticket{
		ID:        uuid.NewString(),
		CreatedAt: s.now().UTC(),
		Status:    domain.TicketStatusReceived,
		VIN:       input.VIN,
		Customer:  input.Customer,
		Phone:     input.Phone,
		Notes:     input.Notes,
	}

	all = append([]domain.Ticket{ticket}, all...)
	if err := s.tickets.SaveAll(ctx, all); err != nil {
		return nil, err
	}

	s.logger.Info("repair ticket created", zap.String("ticket_id", ticket.ID), zap.String("vin", ticket.VIN))
	s.events.publish(ctx, events.Event{
		Type:      events.EventTicketCreated,
		SubjectID: ticket.ID,
		Payload: events.TicketCreatedPayload{
			VIN:      ticket.VIN,
			Customer: ticket.Customer,
		},
	})
	return &ticket, nil
}

// SetStatus replaces a ticket's status. Any status may follow any other. An
// unknown id is ignored without error and without a write.
func (s *TicketService) SetStatus(ctx context.Context, id string, status domain.TicketStatus) error {
	all, err := s.tickets.LoadAll(ctx)
	if err != nil {
		return err
	}

	idx := -1
	for i := range all {
		if all[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.logger.Debug("status change for unknown ticket ignored", zap.String("ticket_id", id))
		return nil
	}

	old := all[idx].Status
	all[idx].Status = status
	if err := s.tickets.SaveAll(ctx, all); err != nil {
		return err
	}

	s.events.publish(ctx, events.Event{
		Type:      events.EventTicketStatusChanged,
		SubjectID: id,
		Payload: events.TicketStatusChangedPayload{
			OldStatus: old,
			NewStatus: status,
		},
	})
	return nil
}

// Search returns tickets whose VIN or customer name contains query, ignoring
// case and surrounding blanks. A blank query returns every ticket. Stored
// order is preserved.
func (s *TicketService) Search(ctx context.Context, query string) ([]domain.Ticket, error) {
	all, err := s.tickets.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	q := strings.ToUpper(strings.TrimSpace(query))
	if q == "" {
		return all, nil
	}

	matched := make([]domain.Ticket, 0, len(all))
	for _, t := range all {
		if strings.Contains(strings.ToUpper(t.VIN), q) || strings.Contains(strings.ToUpper(t.Customer), q) {
			matched = append(matched, t)
		}
	}
	return matched, nil
}

// List returns every ticket, newest first.
func (s *TicketService) List(ctx context.Context) ([]domain.Ticket, error) {
	return s.tickets.LoadAll(ctx)
}

// Get returns one ticket by id.
func (s *TicketService) Get(ctx context.Context, id string) (*domain.Ticket, error) {
	all, err := s.tickets.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].ID == id {
			return &all[i], nil
		}
	}
	return nil, apperrors.NewNotFound("ticket", map[string]any{"id": id})
}
