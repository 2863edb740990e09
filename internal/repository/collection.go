package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spec-kit/repair-service/internal/persistence"
)

// Storage keys. They match the names the handheld web client used for its
// local storage so exported data can be imported unchanged.
const (
	UsersKey         = "vrs_users"
	TicketsKey       = "vrs_repairs"
	SessionKeyPrefix = "vrs_session:"
)

// collection reads and writes one JSON array stored under a single key.
type collection[T any] struct {
	backend persistence.Backend
	key     string
}

func (c collection[T]) loadAll(ctx context.Context) ([]T, error) {
	raw, ok, err := c.backend.Get(ctx, c.key)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", c.key, err)
	}
	items := []T{}
	if !ok || len(raw) == 0 {
		return items, nil
	}
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode %s: %w", c.key, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func (c collection[T]) saveAll(ctx context.Context, items []T) error {
	if items == nil {
		items = []T{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode %s: %w", c.key, err)
	}
	if err := c.backend.Put(ctx, c.key, raw); err != nil {
		return fmt.Errorf("save %s: %w", c.key, err)
	}
	return nil
}

func (c collection[T]) exists(ctx context.Context) (bool, error) {
	_, ok, err := c.backend.Get(ctx, c.key)
	if err != nil {
		return false, fmt.Errorf("load %s: %w", c.key, err)
	}
	return ok, nil
}
