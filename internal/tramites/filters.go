package tramites

import (
	"net/url"
	"strconv"
	"strings"
)

const (
	defaultLimit = 10
	maxLimit     = 100
)

// Filters is the local filter state of a procedure view: free text search,
// state filter, signature-required filter and the pagination cursor.
type Filters struct {
	Search        string
	Estado        Estado // empty means all states
	RequiereFirma *bool  // nil means both
	Page          int
	Limit         int
}

// Normalize clamps pagination to sane values.
func (f Filters) Normalize() Filters {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit <= 0 {
		f.Limit = defaultLimit
	}
	if f.Limit > maxLimit {
		f.Limit = maxLimit
	}
	f.Search = strings.TrimSpace(f.Search)
	return f
}

// Query renders the filter set as request parameters.
func (f Filters) Query() url.Values {
	f = f.Normalize()
	q := url.Values{}
	if f.Search != "" {
		q.Set("buscar", f.Search)
	}
	if f.Estado != "" {
		q.Set("estado", string(f.Estado))
	}
	if f.RequiereFirma != nil {
		q.Set("requiere_firma", strconv.FormatBool(*f.RequiereFirma))
	}
	q.Set("pagina", strconv.Itoa(f.Page))
	q.Set("limite", strconv.Itoa(f.Limit))
	return q
}

// Canonical is a stable serialization of the whole filter set. Two filter
// states with equal canonical forms must not trigger a second fetch.
func (f Filters) Canonical() string {
	return f.Query().Encode()
}

// sameCriteria reports whether the non-pagination criteria match.
func (f Filters) sameCriteria(other Filters) bool {
	a, b := f.Normalize(), other.Normalize()
	if a.Search != b.Search || a.Estado != b.Estado {
		return false
	}
	switch {
	case a.RequiereFirma == nil && b.RequiereFirma == nil:
		return true
	case a.RequiereFirma == nil || b.RequiereFirma == nil:
		return false
	}
	return *a.RequiereFirma == *b.RequiereFirma
}
