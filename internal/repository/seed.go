package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/spec-kit/repair-service/internal/domain"
	"github.com/spec-kit/repair-service/internal/persistence"
)

// DefaultAdminPIN is the placeholder PIN of the seeded administrator.
// Operators are expected to change it after first login.
const DefaultAdminPIN = "1234"

// SeedResult reports which collections SeedIfEmpty created.
type SeedResult struct {
	Admin   *domain.User
	Tickets bool
}

// Seeded reports whether anything was written.
func (r SeedResult) Seeded() bool {
	return r.Admin != nil || r.Tickets
}

// SeedIfEmpty initializes a fresh store: an administrator when the user
// collection is absent and an empty ticket collection when that is absent.
// Existing collections, even empty ones, are left alone.
func SeedIfEmpty(ctx context.Context, backend persistence.Backend, adminPIN string) (SeedResult, error) {
	if adminPIN == "" {
		adminPIN = DefaultAdminPIN
	}
	var result SeedResult

	users := collection[domain.User]{backend: backend, key: UsersKey}
	ok, err := users.exists(ctx)
	if err != nil {
		return result, err
	}
	if !ok {
		admin := domain.User{
			ID:   uuid.NewString(),
			Name: "Administrator",
			Role: domain.RoleAdmin,
			PIN:  adminPIN,
		}
		if err := users.saveAll(ctx, []domain.User{admin}); err != nil {
			return result, err
		}
		result.Admin = &admin
	}

	tickets := collection[domain.Ticket]{backend: backend, key: TicketsKey}
	ok, err = tickets.exists(ctx)
	if err != nil {
		return result, err
	}
	if !ok {
		if err := tickets.saveAll(ctx, nil); err != nil {
			return result, err
		}
		result.Tickets = true
	}
	return result, nil
}
