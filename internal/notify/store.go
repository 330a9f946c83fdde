package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"mesadoc.org/internal/obs"
)

// API is the slice of the remote API the store depends on.
type API interface {
	UnseenNotifications(ctx context.Context) ([]Notification, error)
	UnreadCount(ctx context.Context) (int, error)
	MarkNotificationRead(ctx context.Context, id string) error
	MarkAllNotificationsRead(ctx context.Context) error
}

// Store is the client's single source of truth for the notification list and
// the unread counter. It reconciles three inputs: the initial load, triggered
// re-loads, and local mark-read mutations. Single writer; the realtime
// channel only asks for a re-load, it never mutates the store.
type Store struct {
	api API
	now func() time.Time

	mu     sync.RWMutex
	items  []Notification
	unread int
}

// StoreOption configures Store behavior.
type StoreOption func(*Store)

// WithClock overrides the time source (useful for tests).
func WithClock(fn func() time.Time) StoreOption {
	return func(s *Store) {
		if fn != nil {
			s.now = fn
		}
	}
}

// NewStore constructs a Store over the given API.
func NewStore(api API, opts ...StoreOption) *Store {
	s := &Store{api: api, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load fetches the unseen notifications and the authoritative unread count in
// parallel and replaces the local state with the result. Replace, never
// append: calling it repeatedly is safe and is how optimistic divergence
// heals. On any fetch error the previous state is kept untouched.
func (s *Store) Load(ctx context.Context) error {
	var (
		wg       sync.WaitGroup
		items    []Notification
		count    int
		itemsErr error
		countErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		items, itemsErr = s.api.UnseenNotifications(ctx)
	}()
	go func() {
		defer wg.Done()
		count, countErr = s.api.UnreadCount(ctx)
	}()
	wg.Wait()

	if itemsErr != nil {
		return fmt.Errorf("notify: load list: %w", itemsErr)
	}
	if countErr != nil {
		return fmt.Errorf("notify: load count: %w", countErr)
	}
	if count < 0 {
		count = 0
	}

	s.mu.Lock()
	s.items = items
	s.unread = count
	s.mu.Unlock()
	obs.SetUnreadCount(count)
	return nil
}

// MarkAsRead optimistically marks the entry seen, floors the counter at zero,
// then confirms with the server. A failed confirmation is returned to the
// caller but the optimistic state stands; the next Load reconciles.
func (s *Store) MarkAsRead(ctx context.Context, id string) error {
	s.mu.Lock()
	for i := range s.items {
		if s.items[i].ID != id || s.items[i].Seen {
			continue
		}
		seenAt := s.now().UTC()
		s.items[i].Seen = true
		s.items[i].SeenAt = &seenAt
		if s.unread > 0 {
			s.unread--
		}
		break
	}
	unread := s.unread
	s.mu.Unlock()
	obs.SetUnreadCount(unread)

	if err := s.api.MarkNotificationRead(ctx, id); err != nil {
		return fmt.Errorf("notify: mark read %s: %w", id, err)
	}
	return nil
}

// MarkAllAsRead optimistically marks every entry seen and zeroes the counter,
// then confirms with the server. The failure is loud: it zeroed everything
// locally, so callers must surface it instead of retrying silently.
func (s *Store) MarkAllAsRead(ctx context.Context) error {
	s.mu.Lock()
	seenAt := s.now().UTC()
	for i := range s.items {
		if !s.items[i].Seen {
			s.items[i].Seen = true
			s.items[i].SeenAt = &seenAt
		}
	}
	s.unread = 0
	s.mu.Unlock()
	obs.SetUnreadCount(0)

	if err := s.api.MarkAllNotificationsRead(ctx); err != nil {
		return fmt.Errorf("notify: mark all read: %w", err)
	}
	return nil
}

// BumpUnread optimistically increments the unread counter on behalf of the
// realtime dispatch loop. The re-load that the loop triggers right after
// reconciles the counter with server truth.
func (s *Store) BumpUnread() {
	s.mu.Lock()
	s.unread++
	unread := s.unread
	s.mu.Unlock()
	obs.SetUnreadCount(unread)
}

// Snapshot returns a copy of the current list and counter. The list keeps
// the server's most-recent-first order.
func (s *Store) Snapshot() ([]Notification, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]Notification, len(s.items))
	copy(items, s.items)
	return items, s.unread
}

// Unread returns the current unread counter.
func (s *Store) Unread() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.unread
}
