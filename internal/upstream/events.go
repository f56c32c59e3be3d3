package upstream

// events.go: Server-sent-events subscription for real-time kitchen/order
// notifications. Reconnection is exponential-backoff-bounded rather than an
// unbounded fixed loop, and teardown is tied to the passed context so no
// connection or timer outlives its owner.

import (
	"context"
	"encoding/json"
	"time"

	"posmorales/internal/events"

	"github.com/cenkalti/backoff/v4"
	"github.com/r3labs/sse/v2"
	"github.com/rs/zerolog/log"
)

// SubscribeEvents connects to the backend event stream and publishes every
// named event to the broker. It blocks until ctx is cancelled; run it on its
// own goroutine.
func (c *Client) SubscribeEvents(ctx context.Context, broker *events.Broker) {
	client := sse.NewClient(c.sseURL + "?token=" + c.token)

	// First retry after 5s, growing to a 1-minute ceiling. No elapsed-time cap:
	// the terminal keeps probing for as long as it runs.
	strategy := backoff.NewExponentialBackOff()
	strategy.InitialInterval = 5 * time.Second
	strategy.MaxInterval = time.Minute
	strategy.MaxElapsedTime = 0
	client.ReconnectStrategy = strategy
	client.ReconnectNotify = func(err error, wait time.Duration) {
		log.Warn().Err(err).Dur("retry_in", wait).Msg("events: stream lost, reconnecting")
	}

	err := client.SubscribeRawWithContext(ctx, func(msg *sse.Event) {
		name := string(msg.Event)
		if name == "" || name == events.EventConnected {
			return
		}
		broker.Publish(events.Event{Name: name, Data: json.RawMessage(msg.Data)})
	})
	if err != nil && ctx.Err() == nil {
		log.Error().Err(err).Msg("events: subscription ended")
	}
}
