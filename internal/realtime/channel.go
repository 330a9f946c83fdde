package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"mesadoc.org/internal/obs"
)

// State of the realtime channel.
type State int32

const (
	Disconnected State = iota
	Connecting
	Connected
)

func (s State) String() string {
	switch s {
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	}
	return "disconnected"
}

// ErrRetriesExhausted signals the bounded reconnection budget ran out. The
// consumer degrades to fetch-only mode; nothing else stops working.
var ErrRetriesExhausted = errors.New("realtime: reconnection attempts exhausted")

const (
	defaultMaxRetries = 5
	defaultRetryDelay = 3 * time.Second
	eventBuffer       = 16
)

// Channel maintains the push connection keyed by the user id. It only
// produces events; a single consumer loop (Dispatcher) turns them into store
// mutations.
type Channel struct {
	wsURL      string
	userID     string
	dialer     *websocket.Dialer
	maxRetries int
	retryDelay time.Duration

	state  atomic.Int32
	events chan Event
}

// ChannelOption configures Channel behavior.
type ChannelOption func(*Channel)

// WithMaxRetries bounds consecutive reconnection attempts.
func WithMaxRetries(n int) ChannelOption {
	return func(c *Channel) {
		if n > 0 {
			c.maxRetries = n
		}
	}
}

// WithRetryDelay sets the fixed delay between attempts.
func WithRetryDelay(d time.Duration) ChannelOption {
	return func(c *Channel) {
		if d > 0 {
			c.retryDelay = d
		}
	}
}

// WithDialer swaps the websocket dialer (useful for tests).
func WithDialer(d *websocket.Dialer) ChannelOption {
	return func(c *Channel) {
		if d != nil {
			c.dialer = d
		}
	}
}

// NewChannel constructs a channel for the given endpoint and user.
func NewChannel(wsURL, userID string, opts ...ChannelOption) *Channel {
	c := &Channel{
		wsURL:      wsURL,
		userID:     userID,
		dialer:     websocket.DefaultDialer,
		maxRetries: defaultMaxRetries,
		retryDelay: defaultRetryDelay,
		events:     make(chan Event, eventBuffer),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Events is the stream of inbound events. Closed when Run returns.
func (c *Channel) Events() <-chan Event { return c.events }

// State reports the current connection state.
func (c *Channel) State() State { return State(c.state.Load()) }

func (c *Channel) setState(s State) { c.state.Store(int32(s)) }

func (c *Channel) endpoint() (string, error) {
	u, err := url.Parse(c.wsURL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("user_id", c.userID)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Run maintains the connection until ctx ends. Transport errors trigger
// automatic reconnects with a fixed delay, bounded by the retry budget;
// after the budget is spent Run returns ErrRetriesExhausted and the caller
// relies on periodic fetches. Returns nil when ctx is done.
func (c *Channel) Run(ctx context.Context) error {
	defer close(c.events)
	defer c.setState(Disconnected)

	endpoint, err := c.endpoint()
	if err != nil {
		return err
	}

	failures := 0
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		c.setState(Connecting)
		if failures > 0 {
			obs.ObserveRealtimeReconnect()
		}

		conn, resp, err := c.dialer.DialContext(ctx, endpoint, nil)
		if resp != nil && resp.Body != nil {
			resp.Body.Close()
		}
		if err != nil {
			c.setState(Disconnected)
			failures++
			if failures > c.maxRetries {
				return ErrRetriesExhausted
			}
			if !c.sleep(ctx) {
				return nil
			}
			continue
		}

		c.setState(Connected)
		failures = 0
		obs.Info("realtime channel connected", map[string]any{"user_id": c.userID})

		if done := c.readLoop(ctx, conn); done {
			return nil
		}
		c.setState(Disconnected)
		failures++
		if failures > c.maxRetries {
			return ErrRetriesExhausted
		}
		if !c.sleep(ctx) {
			return nil
		}
	}
}

// readLoop pumps frames until the connection breaks or ctx ends. Reports
// true when ctx ended.
func (c *Channel) readLoop(ctx context.Context, conn *websocket.Conn) bool {
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()
	defer conn.Close()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return true
			}
			var closeErr *websocket.CloseError
			if errors.As(err, &closeErr) &&
				(closeErr.Code == websocket.CloseNormalClosure || closeErr.Code == websocket.CloseGoingAway) {
				obs.Info("realtime channel closed by server", nil)
			} else {
				obs.Warn("realtime read failed", map[string]any{"error": err.Error()})
			}
			return false
		}
		// A frame the client cannot decode is discarded; only transport
		// errors tear the connection down.
		var ev Event
		if err := json.Unmarshal(data, &ev); err != nil {
			obs.Warn("realtime frame discarded", map[string]any{"error": err.Error()})
			continue
		}
		if ev.Name == "" {
			continue
		}
		obs.ObserveRealtimeEvent(ev.Name)
		select {
		case c.events <- ev:
		case <-ctx.Done():
			return true
		}
	}
}

func (c *Channel) sleep(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(c.retryDelay):
		return true
	}
}
