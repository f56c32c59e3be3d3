package events

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroker_FanOut(t *testing.T) {
	b := NewBroker()
	ch1, cancel1 := b.Subscribe()
	ch2, cancel2 := b.Subscribe()
	defer cancel1()
	defer cancel2()

	assert.Equal(t, 2, b.SubscriberCount())

	b.Publish(Event{Name: EventNewOrder, Data: json.RawMessage(`{"tableId":3}`)})

	ev1 := <-ch1
	ev2 := <-ch2
	assert.Equal(t, EventNewOrder, ev1.Name)
	assert.JSONEq(t, `{"tableId":3}`, string(ev2.Data))
}

func TestBroker_CancelIsIdempotent(t *testing.T) {
	b := NewBroker()
	ch, cancel := b.Subscribe()

	cancel()
	cancel() // second call must not panic on the closed channel

	_, open := <-ch
	assert.False(t, open)
	assert.Zero(t, b.SubscriberCount())
}

func TestBroker_SlowSubscriberDropsInsteadOfBlocking(t *testing.T) {
	b := NewBroker()
	ch, cancel := b.Subscribe()
	defer cancel()

	// Fill the buffer and keep publishing; Publish must never block
	for i := 0; i < 100; i++ {
		b.Publish(Event{Name: EventKitchenUpdate})
	}

	// The subscriber still sees the buffered events
	require.Equal(t, 16, len(ch))
}
