package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type fakeAPI struct {
	mu          sync.Mutex
	unseen      []Notification
	count       int
	listErr     error
	countErr    error
	markErr     error
	markAllErr  error
	markedIDs   []string
	markAllHits int
}

func (f *fakeAPI) UnseenNotifications(ctx context.Context) ([]Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]Notification, len(f.unseen))
	copy(out, f.unseen)
	return out, nil
}

func (f *fakeAPI) UnreadCount(ctx context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.countErr != nil {
		return 0, f.countErr
	}
	return f.count, nil
}

func (f *fakeAPI) MarkNotificationRead(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.markErr != nil {
		return f.markErr
	}
	f.markedIDs = append(f.markedIDs, id)
	return nil
}

func (f *fakeAPI) MarkAllNotificationsRead(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.markAllHits++
	return f.markAllErr
}

func sampleNotifications() []Notification {
	base := time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)
	return []Notification{
		{ID: "n-3", Type: TypeSignatureRequired, Title: "Firma pendiente", CreatedAt: base.Add(2 * time.Hour)},
		{ID: "n-2", Type: TypeObservationCreated, Title: "Nueva observacion", CreatedAt: base.Add(time.Hour)},
		{ID: "n-1", Type: TypeDocumentReceived, Title: "Documento recibido", CreatedAt: base},
	}
}

func TestLoadReplacesState(t *testing.T) {
	api := &fakeAPI{unseen: sampleNotifications(), count: 3}
	store := NewStore(api)

	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	items, unread := store.Snapshot()
	if len(items) != 3 || unread != 3 {
		t.Fatalf("unexpected state: %d items, %d unread", len(items), unread)
	}

	// Idempotent replace: a second load with no server-side change yields
	// the same state, no duplication.
	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("second Load: %v", err)
	}
	items, unread = store.Snapshot()
	if len(items) != 3 || unread != 3 {
		t.Fatalf("load is not idempotent: %d items, %d unread", len(items), unread)
	}
	// Server ordering is preserved as-is.
	if items[0].ID != "n-3" || items[2].ID != "n-1" {
		t.Fatalf("server order not preserved: %v", []string{items[0].ID, items[1].ID, items[2].ID})
	}
}

func TestLoadErrorKeepsState(t *testing.T) {
	api := &fakeAPI{unseen: sampleNotifications(), count: 3}
	store := NewStore(api)
	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	api.mu.Lock()
	api.countErr = errors.New("mal gateway")
	api.mu.Unlock()
	if err := store.Load(context.Background()); err == nil {
		t.Fatal("expected load error")
	}
	if _, unread := store.Snapshot(); unread != 3 {
		t.Fatalf("failed load must not touch state, unread=%d", unread)
	}
}

func TestMarkAsReadOptimistic(t *testing.T) {
	now := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)
	api := &fakeAPI{unseen: sampleNotifications(), count: 3}
	store := NewStore(api, WithClock(func() time.Time { return now }))
	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if err := store.MarkAsRead(context.Background(), "n-2"); err != nil {
		t.Fatalf("MarkAsRead: %v", err)
	}
	items, unread := store.Snapshot()
	if unread != 2 {
		t.Fatalf("unread=%d, want 2", unread)
	}
	for _, n := range items {
		if n.ID == "n-2" {
			if !n.Seen || n.SeenAt == nil || !n.SeenAt.Equal(now) {
				t.Fatalf("entry not stamped seen: %+v", n)
			}
		}
	}
	if len(api.markedIDs) != 1 || api.markedIDs[0] != "n-2" {
		t.Fatalf("server mutation not issued: %v", api.markedIDs)
	}
}

func TestMarkAsReadCounterFloor(t *testing.T) {
	api := &fakeAPI{unseen: sampleNotifications(), count: 1}
	store := NewStore(api)
	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	// Repeated marks on the same (then already seen) entry never push the
	// counter below zero.
	for i := 0; i < 4; i++ {
		if err := store.MarkAsRead(context.Background(), "n-1"); err != nil {
			t.Fatalf("MarkAsRead #%d: %v", i, err)
		}
		if store.Unread() < 0 {
			t.Fatalf("counter went negative on iteration %d", i)
		}
	}
	if store.Unread() != 0 {
		t.Fatalf("unread=%d, want 0", store.Unread())
	}
}

func TestMarkAsReadFailureDoesNotRollBack(t *testing.T) {
	api := &fakeAPI{unseen: sampleNotifications(), count: 3, markErr: errors.New("rechazado")}
	store := NewStore(api)
	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	err := store.MarkAsRead(context.Background(), "n-1")
	if err == nil {
		t.Fatal("expected mutation error to surface")
	}
	// Optimistic state stands; the next Load reconciles.
	if store.Unread() != 2 {
		t.Fatalf("unread=%d, want optimistic 2", store.Unread())
	}
}

func TestMarkAllAsRead(t *testing.T) {
	api := &fakeAPI{unseen: sampleNotifications(), count: 3}
	store := NewStore(api)
	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if err := store.MarkAllAsRead(context.Background()); err != nil {
		t.Fatalf("MarkAllAsRead: %v", err)
	}
	items, unread := store.Snapshot()
	if unread != 0 {
		t.Fatalf("unread=%d, want 0", unread)
	}
	for _, n := range items {
		if !n.Seen || n.SeenAt == nil {
			t.Fatalf("entry left unseen: %+v", n)
		}
	}
	if api.markAllHits != 1 {
		t.Fatalf("server mutation hits=%d, want 1", api.markAllHits)
	}
}

func TestMarkAllAsReadFailureIsLoudAndSticky(t *testing.T) {
	api := &fakeAPI{unseen: sampleNotifications(), count: 3, markAllErr: errors.New("rechazado")}
	store := NewStore(api)
	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if err := store.MarkAllAsRead(context.Background()); err == nil {
		t.Fatal("mark-all failure must surface")
	}
	// Locally the count stays zeroed; no automatic rollback.
	if store.Unread() != 0 {
		t.Fatalf("unread=%d, want 0", store.Unread())
	}
}

func TestConcurrentLoadsAreSafe(t *testing.T) {
	api := &fakeAPI{unseen: sampleNotifications(), count: 3}
	store := NewStore(api)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.Load(context.Background())
		}()
	}
	wg.Wait()
	items, unread := store.Snapshot()
	if len(items) != 3 || unread != 3 {
		t.Fatalf("unexpected state after concurrent loads: %d items, %d unread", len(items), unread)
	}
}
