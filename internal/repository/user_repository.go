package repository

import (
	"context"

	"github.com/spec-kit/repair-service/internal/domain"
	"github.com/spec-kit/repair-service/internal/persistence"
)

// UserRepository defines whole-collection access to shop users.
type UserRepository interface {
	LoadAll(ctx context.Context) ([]domain.User, error)
	SaveAll(ctx context.Context, users []domain.User) error
}

type userRepository struct {
	users collection[domain.User]
}

// NewUserRepository returns a repository over the given backend.
func NewUserRepository(backend persistence.Backend) UserRepository {
	return &userRepository{users: collection[domain.User]{backend: backend, key: UsersKey}}
}

func (r *userRepository) LoadAll(ctx context.Context) ([]domain.User, error) {
	return r.users.loadAll(ctx)
}

func (r *userRepository) SaveAll(ctx context.Context, users []domain.User) error {
	return r.users.saveAll(ctx, users)
}
