package handler

import (
	"io"

	"posmorales/internal/events"

	"github.com/gin-gonic/gin"
)

type EventsHandler struct{ broker *events.Broker }

func NewEventsHandler(broker *events.Broker) *EventsHandler {
	return &EventsHandler{broker: broker}
}

// Stream relays broker events to the display layer as SSE. The subscription
// is dropped when the client disconnects.
func (h *EventsHandler) Stream(c *gin.Context) {
	ch, cancel := h.broker.Subscribe()
	defer cancel()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	// Let the client know the relay is up before the first real event
	c.SSEvent(events.EventConnected, gin.H{"ok": true})
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		select {
		case ev, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent(ev.Name, string(ev.Data))
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
