package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/repair-service/internal/auth"
	"github.com/spec-kit/repair-service/internal/badge"
	"github.com/spec-kit/repair-service/internal/domain"
	"github.com/spec-kit/repair-service/internal/events"
	"github.com/spec-kit/repair-service/internal/repository"
	apperrors "github.com/spec-kit/repair-service/pkg/util/errorutil"
)

// AdminService manages the user collection and badge enrollment.
type AdminService struct {
	users      repository.UserRepository
	transport  badge.Transport
	hashPINs   bool
	bcryptCost int
	events     publisher
	logger     *zap.Logger
}

// AdminDependencies bundles collaborators for admin service.
type AdminDependencies struct {
	UserRepo   repository.UserRepository
	Transport  badge.Transport
	HashPINs   bool
	BcryptCost int
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewAdminService constructs the service.
func NewAdminService(deps AdminDependencies) *AdminService {
	logger := orNop(deps.Logger)
	return &AdminService{
		users:      deps.UserRepo,
		transport:  deps.Transport,
		hashPINs:   deps.HashPINs,
		bcryptCost: deps.BcryptCost,
		events:     publisher{dispatcher: deps.Dispatcher, logger: logger, now: time.Now},
		logger:     logger,
	}
}

// ValidateNewUser trims a submitted user form and checks the required fields.
// An empty role defaults to tech.
func ValidateNewUser(name string, role domain.Role, pin string) (string, domain.Role, string, error) {
	name = strings.TrimSpace(name)
	pin = strings.TrimSpace(pin)
	role = domain.Role(strings.TrimSpace(string(role)))
	if name == "" || pin == "" {
		return name, role, pin, apperrors.NewValidationError("Name and PIN required", nil)
	}
	if role == "" {
		role = domain.RoleTech
	}
	return name, role, pin, nil
}

// ListUsers returns the user collection in stored order.
func (s *AdminService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.users.LoadAll(ctx)
}

// AddUser appends a user with no badge link. Callers validate name and PIN.
func (s *AdminService) AddUser(ctx context.Context, name string, role domain.Role, pin string) (*domain.User, error) {
	stored := pin
	if s.hashPINs {
		hashed, err := auth.HashPIN(pin, s.bcryptCost)
		if err != nil {
			return nil, apperrors.NewInternalError(err)
		}
		stored = hashed
	}

	all, err := s.users.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	user := domain.User{
		ID:   uuid.NewString(),
		Name: name,
		Role: role,
		PIN:  stored,
	}
	all = append(all, user)
	if err := s.users.SaveAll(ctx, all); err != nil {
		return nil, err
	}

	s.logger.Info("user added", zap.String("user_id", user.ID), zap.String("role", string(role)))
	s.events.publish(ctx, events.Event{
		Type:      events.EventUserAdded,
		SubjectID: user.ID,
		Payload:   events.UserChangedPayload{Name: user.Name, Role: user.Role},
	})
	return &user, nil
}

// RemoveUser drops the user with id. The filtered collection is written even
// when nothing matched, leaving its contents unchanged.
func (s *AdminService) RemoveUser(ctx context.Context, id string) error {
	all, err := s.users.LoadAll(ctx)
	if err != nil {
		return err
	}

	kept := make([]domain.User, 0, len(all))
	var removed *domain.User
	for i := range all {
		if all[i].ID == id {
			removed = &all[i]
			continue
		}
		kept = append(kept, all[i])
	}
	if err := s.users.SaveAll(ctx, kept); err != nil {
		return err
	}

	if removed != nil {
		s.logger.Info("user removed", zap.String("user_id", id))
		s.events.publish(ctx, events.Event{
			Type:      events.EventUserRemoved,
			SubjectID: id,
			Payload:   events.UserChangedPayload{Name: removed.Name, Role: removed.Role},
		})
	}
	return nil
}

// Enroll writes the user's id onto a presented badge and, only once the
// write succeeded, links that id to the user.
func (s *AdminService) Enroll(ctx context.Context, id string) (string, error) {
	if s.transport == nil {
		return "", apperrors.NewTransportError(errors.New("no badge writer configured"))
	}
	if _, err := s.find(ctx, id); err != nil {
		return "", err
	}

	if err := badge.Enroll(ctx, s.transport, id); err != nil {
		s.logger.Warn("badge write failed", zap.String("user_id", id), zap.Error(err))
		return "", badgeError(err)
	}

	if err := s.LinkBadge(ctx, id, id); err != nil {
		// The badge already carries the user's own id, which login accepts
		// without a link.
		s.logger.Error("badge written but link not saved", zap.String("user_id", id), zap.Error(err))
		return "", err
	}
	return id, nil
}

// LinkBadge sets the user's linked badge id.
func (s *AdminService) LinkBadge(ctx context.Context, id, badgeID string) error {
	badgeID = strings.TrimSpace(badgeID)
	if badgeID == "" {
		return apperrors.NewValidationError("badge id required", nil)
	}
	all, err := s.users.LoadAll(ctx)
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
		return apperrors.NewNotFound("user", map[string]any{"id": id})
	}

	all[idx].NfcID = &badgeID
	if err := s.users.SaveAll(ctx, all); err != nil {
		return err
	}

	s.logger.Info("badge linked", zap.String("user_id", id))
	s.events.publish(ctx, events.Event{
		Type:      events.EventBadgeEnrolled,
		SubjectID: id,
		Payload:   events.BadgeEnrolledPayload{BadgeID: badgeID},
	})
	return nil
}

func (s *AdminService) find(ctx context.Context, id string) (*domain.User, error) {
	all, err := s.users.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].ID == id {
			return &all[i], nil
		}
	}
	return nil, apperrors.NewNotFound("user", map[string]any{"id": id})
}
