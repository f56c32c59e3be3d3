// Package upstream is the HTTP client for the remote restaurant-management
// API; the authoritative owner of all persistent state. Every response shape
// is normalized here, once, into the canonical internal types; nothing above
// this package ever sees a raw server payload.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"posmorales/internal/infra"
)

// Error is a server-side rejection (4xx): insufficient stock, invalid state
// transition, not-found. Message carries the server-provided text so the UI
// can surface it verbatim.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("el servidor rechazo la solicitud (%d)", e.Status)
}

// ServerMessage extracts the user-facing message from an upstream error, or
// returns the generic fallback for transport failures.
func ServerMessage(err error) string {
	var ue *Error
	if errors.As(err, &ue) {
		return ue.Error()
	}
	if errors.Is(err, infra.ErrCircuitOpen) {
		return "El servidor no responde. Intente nuevamente en unos segundos."
	}
	return "Error de comunicacion con el servidor"
}

// errorPayload covers the two envelope shapes the backend is known to emit.
type errorPayload struct {
	Message string `json:"message"`
	Detail  string `json:"detail"`
}

// Client talks to the backend REST API. All calls honour the passed context
// and run through the circuit breaker; timeouts beyond that are delegated to
// the transport default below.
type Client struct {
	baseURL    string
	sseURL     string
	token      string
	httpClient *http.Client
	cb         *infra.CircuitBreaker
}

// NewClient builds the backend client. baseURL includes the /api prefix;
// sseURL is the absolute event-stream URL without the token query parameter.
func NewClient(baseURL, sseURL, token string, cb *infra.CircuitBreaker) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		sseURL:     sseURL,
		token:      token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		cb:         cb,
	}
}

// do performs one JSON request/response round-trip. Transport failures and
// 5xx responses count against the circuit breaker; 4xx rejections do not -
// a server that answers "insufficient stock" is healthy.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("upstream: marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	var rejection *Error
	cbErr := c.cb.Execute(func() error {
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
		if err != nil {
			return fmt.Errorf("upstream: create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		if c.token != "" {
			req.Header.Set("Authorization", "Bearer "+c.token)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("upstream: backend unreachable: %w", err)
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode >= 500:
			return fmt.Errorf("upstream: backend returned %d", resp.StatusCode)
		case resp.StatusCode >= 400:
			var payload errorPayload
			_ = json.NewDecoder(resp.Body).Decode(&payload)
			msg := payload.Message
			if msg == "" {
				msg = payload.Detail
			}
			rejection = &Error{Status: resp.StatusCode, Message: msg}
			return nil
		}

		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("upstream: decode response: %w", err)
		}
		return nil
	})
	if cbErr != nil {
		return cbErr
	}
	if rejection != nil {
		return rejection
	}
	return nil
}
