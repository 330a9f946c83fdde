package tramites

import (
	"context"
	"errors"
	"sync"
	"testing"
)

type fakeFetcher struct {
	mu    sync.Mutex
	calls []Filters
	err   error
	page  Page
}

func (f *fakeFetcher) Tramites(ctx context.Context, filters Filters) (Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, filters)
	if f.err != nil {
		return Page{}, f.err
	}
	p := f.page
	p.PageNumber = filters.Page
	return p, nil
}

func (f *fakeFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func TestApplyFetchesOnce(t *testing.T) {
	api := &fakeFetcher{page: Page{Total: 2, Data: []Tramite{{ID: "t-1"}, {ID: "t-2"}}}}
	view := NewView(api)

	f := Filters{Estado: EstadoFirmado}
	if _, fetched, err := view.Apply(context.Background(), f); err != nil || !fetched {
		t.Fatalf("first apply should fetch: fetched=%v err=%v", fetched, err)
	}
	// Identical filter set: no redundant request.
	if _, fetched, err := view.Apply(context.Background(), f); err != nil || fetched {
		t.Fatalf("identical apply must not fetch: fetched=%v err=%v", fetched, err)
	}
	if api.callCount() != 1 {
		t.Fatalf("expected exactly one fetch, got %d", api.callCount())
	}
}

func TestApplyNewCriteriaResetsPage(t *testing.T) {
	api := &fakeFetcher{page: Page{}}
	view := NewView(api)

	if _, _, err := view.Apply(context.Background(), Filters{Page: 1}); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if _, fetched, err := view.SetPage(context.Background(), 4); err != nil || !fetched {
		t.Fatalf("page change should fetch: %v", err)
	}

	// Switching the state filter from "all" to FIRMADO lands back on page 1.
	page, fetched, err := view.Apply(context.Background(), Filters{Estado: EstadoFirmado, Page: 4})
	if err != nil || !fetched {
		t.Fatalf("criteria change should fetch: %v", err)
	}
	if page.PageNumber != 1 {
		t.Fatalf("page=%d, want reset to 1", page.PageNumber)
	}
	last := api.calls[len(api.calls)-1]
	if last.Page != 1 || last.Estado != EstadoFirmado {
		t.Fatalf("unexpected fetch filters: %+v", last)
	}
}

func TestApplyErrorAllowsRetry(t *testing.T) {
	api := &fakeFetcher{err: errors.New("gateway caido")}
	view := NewView(api)

	if _, _, err := view.Apply(context.Background(), Filters{Search: "memo"}); err == nil {
		t.Fatal("expected fetch error")
	}
	api.mu.Lock()
	api.err = nil
	api.page = Page{Total: 1, Data: []Tramite{{ID: "t-9"}}}
	api.mu.Unlock()

	page, err := view.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if page.Total != 1 {
		t.Fatalf("unexpected page after retry: %+v", page)
	}
}

func TestFiltersCanonical(t *testing.T) {
	yes := true
	a := Filters{Search: " memo ", Estado: EstadoEnviado, RequiereFirma: &yes, Page: 0, Limit: 0}
	b := Filters{Search: "memo", Estado: EstadoEnviado, RequiereFirma: &yes, Page: 1, Limit: defaultLimit}
	if a.Canonical() != b.Canonical() {
		t.Fatalf("normalization should converge: %q vs %q", a.Canonical(), b.Canonical())
	}
	c := Filters{Search: "memo", Estado: EstadoAnulado, RequiereFirma: &yes}
	if a.Canonical() == c.Canonical() {
		t.Fatal("different criteria must differ canonically")
	}
}
