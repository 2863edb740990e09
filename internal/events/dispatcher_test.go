package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcherDeliversToSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher()
	var got []string
	d.Subscribe(EventTicketCreated, func(_ context.Context, e Event) error {
		got = append(got, "first:"+e.SubjectID)
		return errors.New("boom")
	})
	d.Subscribe(EventTicketCreated, func(_ context.Context, e Event) error {
		got = append(got, "second:"+e.SubjectID)
		return nil
	})
	d.Subscribe(EventUserAdded, func(context.Context, Event) error {
		got = append(got, "unexpected")
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventTicketCreated, SubjectID: "t1"})
	require.EqualError(t, err, "boom")
	assert.Equal(t, []string{"first:t1", "second:t1"}, got)
}

func TestDispatcherNoSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher()
	require.NoError(t, d.Publish(context.Background(), Event{Type: EventBadgeEnrolled}))
}

func TestDispatcherRecoversHandlerPanic(t *testing.T) {
	d := NewInMemoryDispatcher()
	called := false
	d.Subscribe(EventLogin, func(context.Context, Event) error { panic("audit sink closed") })
	d.Subscribe(EventLogin, func(context.Context, Event) error {
		called = true
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventLogin})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "audit sink closed")
	assert.True(t, called)
}

func TestActorContext(t *testing.T) {
	assert.Equal(t, Actor{}, ActorFromContext(context.Background()))
	ctx := ContextWithActor(context.Background(), Actor{UserID: "u1", Name: "Ann"})
	assert.Equal(t, "Ann", ActorFromContext(ctx).Name)
}
