package tramites

import (
	"context"
	"fmt"
	"sync"
)

// Fetcher requests one page of procedures from the server.
type Fetcher interface {
	Tramites(ctx context.Context, f Filters) (Page, error)
}

// View is a read-only consumer of paginated procedure collections. It keeps
// the local filter state and fetches only when the serialized filter set
// actually changed, so unrelated refreshes stay free of network traffic.
type View struct {
	api Fetcher

	mu      sync.Mutex
	filters Filters
	fetched string // canonical form of the last completed fetch
	page    Page
}

// NewView constructs a view over the given fetcher.
func NewView(api Fetcher) *View {
	return &View{api: api}
}

// Apply updates the filter criteria. Changing any non-pagination criterion
// resets the view to the first page. The returned bool reports whether a
// fetch was actually issued; re-applying an identical filter set returns the
// cached page without touching the network.
func (v *View) Apply(ctx context.Context, f Filters) (Page, bool, error) {
	v.mu.Lock()
	if !f.sameCriteria(v.filters) {
		f.Page = 1
	}
	f = f.Normalize()
	canonical := f.Canonical()
	if canonical == v.fetched {
		page := v.page
		v.mu.Unlock()
		return page, false, nil
	}
	v.filters = f
	v.mu.Unlock()

	page, err := v.api.Tramites(ctx, f)
	if err != nil {
		return Page{}, true, fmt.Errorf("tramites: fetch: %w", err)
	}

	v.mu.Lock()
	v.page = page
	v.fetched = canonical
	v.mu.Unlock()
	return page, true, nil
}

// SetPage moves the pagination cursor while keeping the criteria.
func (v *View) SetPage(ctx context.Context, page int) (Page, bool, error) {
	v.mu.Lock()
	f := v.filters
	v.mu.Unlock()
	f.Page = page
	return v.Apply(ctx, f)
}

// Refresh re-fetches the current filter set unconditionally, used by the
// manual retry affordance after a failed fetch.
func (v *View) Refresh(ctx context.Context) (Page, error) {
	v.mu.Lock()
	f := v.filters.Normalize()
	v.fetched = ""
	v.mu.Unlock()
	page, _, err := v.Apply(ctx, f)
	return page, err
}

// Current returns the last fetched page.
func (v *View) Current() Page {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.page
}
