package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcherDeliversToSubscribers(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()

	var seen []Event
	dispatcher.Subscribe(EventChecklistChanged, func(_ context.Context, event Event) error {
		seen = append(seen, event)
		return nil
	})

	event := Event{ID: "1", Type: EventChecklistChanged, Scope: ScopeAdminView, Timestamp: time.Now()}
	require.NoError(t, dispatcher.Publish(context.Background(), event))

	require.Len(t, seen, 1)
	assert.Equal(t, ScopeAdminView, seen[0].Scope)
}

func TestDispatcherIgnoresOtherEventTypes(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()

	called := false
	dispatcher.Subscribe(EventUserDirectoryChanged, func(context.Context, Event) error {
		called = true
		return nil
	})

	require.NoError(t, dispatcher.Publish(context.Background(), Event{Type: EventChecklistChanged}))
	assert.False(t, called)
}

func TestDispatcherContinuesPastFailingHandler(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()

	var order []string
	dispatcher.Subscribe(EventChecklistChanged, func(context.Context, Event) error {
		order = append(order, "first")
		return errors.New("boom")
	})
	dispatcher.Subscribe(EventChecklistChanged, func(context.Context, Event) error {
		order = append(order, "second")
		return nil
	})

	require.NoError(t, dispatcher.Publish(context.Background(), Event{Type: EventChecklistChanged}))
	assert.Equal(t, []string{"first", "second"}, order)
}
