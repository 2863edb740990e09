// Package badge reads and writes the user id carried on NFC staff badges.
// The radio itself sits behind Transport; this package deals with the
// payload convention and read timeouts.
package badge

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// DefaultScanTimeout bounds how long a read waits for a tap.
const DefaultScanTimeout = 15 * time.Second

const payloadKey = "userid"

var (
	// ErrTimeout reports that no badge was presented in time.
	ErrTimeout = errors.New("badge read timed out")
	// ErrTransport wraps any failure reported by the transport.
	ErrTransport = errors.New("badge transport error")
	// ErrNoUserID reports a badge whose payload carries no user id.
	ErrNoUserID = errors.New("badge has no userid")
)

// Transport is the proximity radio. Scan blocks until a badge is read or
// ctx ends; Write blocks until the payload is written to a presented badge.
type Transport interface {
	Scan(ctx context.Context) (string, error)
	Write(ctx context.Context, payload string) error
}

// FormatPayload returns the badge text for a user id.
func FormatPayload(userID string) string {
	return payloadKey + "=" + userID
}

// ParsePayload extracts the user id from badge text of the form
// "userid=<id>". The key is matched case-insensitively and both sides are
// trimmed; text without a matching key yields ok=false.
func ParsePayload(text string) (string, bool) {
	key, value, found := strings.Cut(text, "=")
	if !found || !strings.EqualFold(strings.TrimSpace(key), payloadKey) {
		return "", false
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return "", false
	}
	return value, true
}

// Read waits up to timeout for a badge and returns its user id.
func Read(ctx context.Context, t Transport, timeout time.Duration) (string, error) {
	if timeout <= 0 {
		timeout = DefaultScanTimeout
	}
	scanCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	text, err := t.Scan(scanCtx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(scanCtx.Err(), context.DeadlineExceeded) {
			return "", ErrTimeout
		}
		if errors.Is(err, context.Canceled) {
			return "", err
		}
		return "", fmt.Errorf("%w: %v", ErrTransport, err)
	}
	id, ok := ParsePayload(text)
	if !ok {
		return "", ErrNoUserID
	}
	return id, nil
}

// Enroll writes userID onto the presented badge.
func Enroll(ctx context.Context, t Transport, userID string) error {
	if err := t.Write(ctx, FormatPayload(userID)); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return ErrTimeout
		}
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	return nil
}
