// Package persistence provides the key-value media the collection store is
// written to. Each value is one whole serialized collection or session slot.
package persistence

import (
	"context"
	"errors"
	"time"
)

// ErrNotConfigured is returned when a backend has no live connection.
var ErrNotConfigured = errors.New("storage backend not configured")

// Backend is a byte-level key-value medium. Put replaces the whole value in
// a single write; nothing coordinates a read with a later write.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close() error
}

// Expirer is implemented by backends that can expire keys natively.
type Expirer interface {
	PutWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}
