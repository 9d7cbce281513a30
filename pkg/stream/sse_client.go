package stream

import (
	"context"
	"net/http"

	"github.com/r3labs/sse/v2"
	backoff "gopkg.in/cenkalti/backoff.v1"
)

// DefaultEventType is the type of events sent without an explicit "event:" line.
const DefaultEventType = "message"

// Event is one decoded server-sent event.
type Event struct {
	Type string
	ID   string
	Data []byte
}

// Config describes a single subscription.
type Config struct {
	URL        string
	Headers    map[string]string
	HTTPClient *http.Client
}

// Client consumes a server-sent event stream. It never reconnects on its own;
// a failed or finished stream ends Subscribe and the caller decides what next.
type Client struct {
	raw *sse.Client
}

// NewClient builds a client for cfg.
func NewClient(cfg Config) *Client {
	raw := sse.NewClient(cfg.URL)
	for key, value := range cfg.Headers {
		raw.Headers[key] = value
	}
	if cfg.HTTPClient != nil {
		raw.Connection = cfg.HTTPClient
	}
	raw.ReconnectStrategy = &backoff.StopBackOff{}
	return &Client{raw: raw}
}

// Subscribe blocks and hands every event to handler, in arrival order, until
// ctx is cancelled (nil error), the server ends the stream (nil error) or the
// transport fails (non-nil error).
func (c *Client) Subscribe(ctx context.Context, handler func(Event)) error {
	err := c.raw.SubscribeRawWithContext(ctx, func(msg *sse.Event) {
		if ctx.Err() != nil {
			return
		}
		event := Event{
			Type: string(msg.Event),
			ID:   string(msg.ID),
			Data: append([]byte(nil), msg.Data...),
		}
		if event.Type == "" {
			event.Type = DefaultEventType
		}
		handler(event)
	})
	if ctx.Err() != nil {
		return nil
	}
	return err
}
