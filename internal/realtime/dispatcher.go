package realtime

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"mesadoc.org/internal/ids"
	"mesadoc.org/internal/obs"
)

// Toast is a de-duplicated user-facing notice derived from a push event.
type Toast struct {
	ID      string
	Key     string
	Event   string
	Message string
	At      time.Time
}

// Notifier renders toasts; the CLI prints them, tests record them.
type Notifier interface {
	Toast(t Toast)
}

// Store is the slice of the notification store the dispatcher drives: an
// optimistic counter bump plus a reconciling re-load.
type Store interface {
	BumpUnread()
	Load(ctx context.Context) error
}

const (
	dedupTTL   = 2 * time.Minute
	dedupSweep = 5 * time.Minute
)

// Dispatcher is the single consumer loop of the channel. It owns every store
// mutation that a push event causes; the channel itself stays a pure event
// producer.
type Dispatcher struct {
	events   <-chan Event
	store    Store
	notifier Notifier
	seen     *cache.Cache
	reloads  *rate.Limiter
	now      func() time.Time
}

// DispatcherOption configures the dispatch loop.
type DispatcherOption func(*Dispatcher)

// WithReloadLimit overrides the re-fetch coalescing limiter.
func WithReloadLimit(l *rate.Limiter) DispatcherOption {
	return func(d *Dispatcher) {
		if l != nil {
			d.reloads = l
		}
	}
}

// WithDispatcherClock overrides the time source (useful for tests).
func WithDispatcherClock(fn func() time.Time) DispatcherOption {
	return func(d *Dispatcher) {
		if fn != nil {
			d.now = fn
		}
	}
}

// NewDispatcher wires a channel's event stream to the notification store.
func NewDispatcher(events <-chan Event, store Store, notifier Notifier, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		events:   events,
		store:    store,
		notifier: notifier,
		seen:     cache.New(dedupTTL, dedupSweep),
		// One reload per two seconds absorbs event bursts; the periodic
		// load is the safety net for anything coalesced away.
		reloads: rate.NewLimiter(rate.Every(2*time.Second), 1),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Run consumes events until the stream closes or ctx ends. Per event:
// optimistic counter bump, one de-duplicated toast, and a rate-limited full
// re-load to reconcile with server truth.
func (d *Dispatcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-d.events:
			if !ok {
				return
			}
			d.handle(ctx, ev)
		}
	}
}

func (d *Dispatcher) handle(ctx context.Context, ev Event) {
	key := DedupKey(ev)
	if _, dup := d.seen.Get(key); dup {
		obs.ObserveRealtimeDedupDrop()
		return
	}
	d.seen.SetDefault(key, struct{}{})

	d.store.BumpUnread()
	d.notifier.Toast(Toast{
		ID:      ids.New(),
		Key:     key,
		Event:   ev.Name,
		Message: MessageFor(ev),
		At:      d.now().UTC(),
	})

	if d.reloads.Allow() {
		if err := d.store.Load(ctx); err != nil {
			obs.Warn("reload after realtime event failed", map[string]any{"error": err.Error()})
		}
	}
}
