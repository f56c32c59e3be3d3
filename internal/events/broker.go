// Package events carries the real-time kitchen/order notifications from the
// backend event stream to local subscribers: the table cache (which refreshes
// on order activity) and the UI relay endpoint.
package events

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog/log"
)

// Event names emitted by the backend stream.
const (
	EventConnected     = "connected"
	EventNewOrder      = "new_order"
	EventKitchenUpdate = "kitchen_update"
	EventOrderPaid     = "order_paid"
)

// Event is one named notification with its raw JSON payload.
type Event struct {
	Name string          `json:"name"`
	Data json.RawMessage `json:"data"`
}

// Broker fans events out to any number of subscribers. Slow subscribers drop
// events rather than blocking the publisher; these are refresh hints, not a
// durable feed.
type Broker struct {
	mu   sync.Mutex
	subs map[chan Event]struct{}
}

func NewBroker() *Broker {
	return &Broker{subs: make(map[chan Event]struct{})}
}

// Subscribe registers a new subscriber. The returned cancel func must be
// called when the consumer goes away (view unmount, client disconnect).
func (b *Broker) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 16)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		if _, ok := b.subs[ch]; ok {
			delete(b.subs, ch)
			close(ch)
		}
		b.mu.Unlock()
	}
	return ch, cancel
}

// Publish delivers the event to every live subscriber, dropping it for any
// whose buffer is full.
func (b *Broker) Publish(ev Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs {
		select {
		case ch <- ev:
		default:
			log.Debug().Str("event", ev.Name).Msg("events: subscriber buffer full, dropping")
		}
	}
}

// SubscriberCount returns the number of live subscribers (for the health endpoint).
func (b *Broker) SubscriberCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
