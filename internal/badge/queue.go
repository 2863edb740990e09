package badge

import (
	"context"
	"errors"
	"sync"
)

// ErrNoReader is returned by Present when no scan is waiting for a badge.
var ErrNoReader = errors.New("no badge scan in progress")

// Queue is an in-process Transport. Badge texts handed to Present go to the
// oldest waiting Scan, which is how the login screen's simulate field and a
// USB reader bridge feed the service. Writes are recorded and succeed.
type Queue struct {
	mu      sync.Mutex
	waiters []chan string
	written []string
}

// NewQueue returns an idle transport.
func NewQueue() *Queue {
	return &Queue{}
}

// Scan registers a listener and blocks until a badge is presented or ctx
// ends. The listener is removed on every exit path.
func (q *Queue) Scan(ctx context.Context) (string, error) {
	ch := make(chan string, 1)
	q.mu.Lock()
	q.waiters = append(q.waiters, ch)
	q.mu.Unlock()

	select {
	case text := <-ch:
		return text, nil
	case <-ctx.Done():
		if q.remove(ch) {
			return "", ctx.Err()
		}
		// Present already handed the badge to this listener.
		return <-ch, nil
	}
}

func (q *Queue) remove(ch chan string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i, w := range q.waiters {
		if w == ch {
			q.waiters = append(q.waiters[:i], q.waiters[i+1:]...)
			return true
		}
	}
	return false
}

// Present delivers badge text to the oldest pending Scan.
func (q *Queue) Present(text string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.waiters) == 0 {
		return ErrNoReader
	}
	ch := q.waiters[0]
	q.waiters = q.waiters[1:]
	ch <- text
	return nil
}

// Pending returns the number of scans waiting for a badge.
func (q *Queue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.waiters)
}

func (q *Queue) Write(ctx context.Context, payload string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	q.mu.Lock()
	q.written = append(q.written, payload)
	q.mu.Unlock()
	return nil
}

// Written returns the payloads written so far.
func (q *Queue) Written() []string {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]string(nil), q.written...)
}
