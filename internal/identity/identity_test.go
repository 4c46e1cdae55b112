package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEstablishAndClear(t *testing.T) {
	p := NewProvider()

	_, ok := p.Current()
	assert.False(t, ok)

	var events []Event
	sub := p.Subscribe(func(e Event) { events = append(events, e) })
	defer sub.Cancel()

	p.Establish("user1")
	current, ok := p.Current()
	require.True(t, ok)
	assert.Equal(t, "user1", current)

	p.Clear()
	_, ok = p.Current()
	assert.False(t, ok)

	require.Len(t, events, 2)
	assert.Equal(t, EventEstablished, events[0].Type)
	assert.Equal(t, "user1", events[0].UserID)
	assert.Equal(t, EventCleared, events[1].Type)
	assert.Equal(t, "user1", events[1].UserID)
}

func TestClear_NoIdentityIsNoOp(t *testing.T) {
	p := NewProvider()

	var events []Event
	sub := p.Subscribe(func(e Event) { events = append(events, e) })
	defer sub.Cancel()

	p.Clear()
	assert.Empty(t, events)
}

func TestSubscription_CancelStopsDelivery(t *testing.T) {
	p := NewProvider()

	var count int
	sub := p.Subscribe(func(Event) { count++ })

	p.Establish("user1")
	assert.Equal(t, 1, count)

	sub.Cancel()
	sub.Cancel() // idempotent

	p.Clear()
	p.Establish("user2")
	assert.Equal(t, 1, count)
}

func TestMultipleSubscribers(t *testing.T) {
	p := NewProvider()

	var a, b int
	subA := p.Subscribe(func(Event) { a++ })
	defer subA.Cancel()
	subB := p.Subscribe(func(Event) { b++ })

	p.Establish("user1")
	subB.Cancel()
	p.Clear()

	assert.Equal(t, 2, a)
	assert.Equal(t, 1, b)
}
