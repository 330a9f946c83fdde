package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"mesadoc.org/internal/audit"
	"mesadoc.org/internal/obs"
	"mesadoc.org/internal/session"
)

const (
	defaultTimeout  = 10 * time.Second
	catalogTTL      = 10 * time.Minute
	catalogSweepTTL = 15 * time.Minute
)

// TokenSource provides the current bearer token, if a session is active.
// *session.Store satisfies it.
type TokenSource interface {
	Token() (string, bool)
}

// Client wraps the document-routing REST API. Every call carries an explicit
// timeout, a correlation id and the bearer token when one is available.
type Client struct {
	base      *url.URL
	http      *http.Client
	tokens    TokenSource
	userAgent string
	catalogs  *cache.Cache
}

// Option configures Client behavior.
type Option func(*Client)

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithHTTPClient swaps the underlying HTTP client (useful for tests).
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// WithTokenSource attaches the session store providing bearer tokens.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua = strings.TrimSpace(ua); ua != "" {
			c.userAgent = ua
		}
	}
}

// New constructs a client for the given base URL.
func New(baseURL string, opts ...Option) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, err
	}
	c := &Client{
		base:      base,
		http:      &http.Client{Timeout: defaultTimeout},
		userAgent: "mesadoc-cli",
		catalogs:  cache.New(catalogTTL, catalogSweepTTL),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// endpoint joins the base URL with an already-escaped path. RawPath is kept
// in sync with Path so escaped segments survive String() without being
// encoded a second time.
func (c *Client) endpoint(path string) (*url.URL, error) {
	u := *c.base
	raw := strings.TrimRight(u.EscapedPath(), "/") + path
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return nil, err
	}
	u.Path = decoded
	u.RawPath = raw
	return &u, nil
}

// requestID returns the command-scoped correlation id when one was attached,
// falling back to a fresh one per request.
func requestID(ctx context.Context) string {
	if rid, ok := audit.RequestIDFromContext(ctx); ok {
		return rid
	}
	return uuid.NewString()
}

// bearerToken resolves the token source first and falls back to a token
// carried by the context.
func (c *Client) bearerToken(ctx context.Context) (string, bool) {
	if c.tokens != nil {
		if token, ok := c.tokens.Token(); ok {
			return token, true
		}
	}
	return session.TokenFromContext(ctx)
}

// do performs one API call and decodes the JSON response into out (when out
// is non-nil). All failures leave as *Error.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	endpoint, err := c.endpoint(path)
	if err != nil {
		return &Error{Message: "No se pudo preparar la solicitud", Err: err}
	}
	if query != nil {
		endpoint.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return &Error{Message: "No se pudo preparar la solicitud", Err: err}
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), reader)
	if err != nil {
		return &Error{Message: "No se pudo preparar la solicitud", Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID(ctx))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token, ok := c.bearerToken(ctx); ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		obs.ObserveAPIRequest(method, obs.CanonicalPath(path), "error", time.Since(start))
		return normalizeTransport(err)
	}
	defer resp.Body.Close()
	obs.ObserveAPIRequest(method, obs.CanonicalPath(path), strconv.Itoa(resp.StatusCode), time.Since(start))

	if resp.StatusCode >= 400 {
		var serverErr struct {
			Message string `json:"mensaje"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&serverErr)
		return normalizeStatus(resp.StatusCode, serverErr.Message)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Error{Message: "El servidor devolvió una respuesta inválida", Err: err}
	}
	return nil
}

// download streams a binary endpoint into w. Used for document content.
func (c *Client) download(ctx context.Context, path string, w io.Writer) error {
	endpoint, err := c.endpoint(path)
	if err != nil {
		return &Error{Message: "No se pudo preparar la solicitud", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return &Error{Message: "No se pudo preparar la solicitud", Err: err}
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID(ctx))
	if token, ok := c.bearerToken(ctx); ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		obs.ObserveAPIRequest(http.MethodGet, obs.CanonicalPath(path), "error", time.Since(start))
		return normalizeTransport(err)
	}
	defer resp.Body.Close()
	obs.ObserveAPIRequest(http.MethodGet, obs.CanonicalPath(path), strconv.Itoa(resp.StatusCode), time.Since(start))

	if resp.StatusCode >= 400 {
		return normalizeStatus(resp.StatusCode, "")
	}
	if _, err := io.Copy(w, resp.Body); err != nil {
		return &Error{Message: "La descarga del documento falló", Err: err}
	}
	return nil
}
