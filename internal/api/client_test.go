package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"mesadoc.org/internal/audit"
	"mesadoc.org/internal/session"
	"mesadoc.org/internal/tramites"
)

type staticTokens string

func (s staticTokens) Token() (string, bool) { return string(s), s != "" }

func newTestClient(t *testing.T, handler http.Handler, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := New(srv.URL, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestLoginDecodesSession(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/login" || r.Method != http.MethodPost {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Fatal("missing X-Request-ID")
		}
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if req.Email != "mquispe@unas.edu.pe" {
			t.Fatalf("unexpected email: %s", req.Email)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"token": "tok-abc",
			"usuario": map[string]any{
				"id": "u-1", "nombres": "Maria", "email": req.Email, "roles": []string{"RESP"},
			},
		})
	})
	c := newTestClient(t, handler)

	sess, err := c.Login(context.Background(), "mquispe@unas.edu.pe", "secreto")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if sess.Credential.AccessToken != "tok-abc" || sess.Identity.ID != "u-1" {
		t.Fatalf("unexpected session: %+v", sess)
	}
	if len(sess.Identity.Roles) != 1 || sess.Identity.Roles[0] != "RESP" {
		t.Fatalf("roles not decoded: %v", sess.Identity.Roles)
	}
}

func TestUnauthorizedIsNormalized(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"mensaje": "Credenciales incorrectas"})
	})
	c := newTestClient(t, handler)

	_, err := c.Login(context.Background(), "x", "y")
	if err == nil {
		t.Fatal("expected error")
	}
	if !IsUnauthorized(err) {
		t.Fatalf("expected unauthorized classification, got %v", err)
	}
	if UserMessage(err) != "Credenciales incorrectas" {
		t.Fatalf("server message not surfaced: %q", UserMessage(err))
	}
}

func TestTransportErrorIsNormalized(t *testing.T) {
	c, err := New("http://127.0.0.1:1")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	c.http.Timeout = 200 * time.Millisecond

	_, err = c.Profile(context.Background())
	if err == nil {
		t.Fatal("expected transport error")
	}
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("raw transport error leaked: %v", err)
	}
	if apiErr.Message == "" {
		t.Fatal("normalized error has no user message")
	}
}

func TestBearerTokenAttached(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok-abc" {
			t.Fatalf("unexpected Authorization header: %q", got)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"total": 4})
	})
	c := newTestClient(t, handler, WithTokenSource(staticTokens("tok-abc")))

	count, err := c.UnreadCount(context.Background())
	if err != nil {
		t.Fatalf("UnreadCount: %v", err)
	}
	if count != 4 {
		t.Fatalf("count=%d, want 4", count)
	}
}

func TestTramitesQueryParameters(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("estado") != "FIRMADO" || q.Get("buscar") != "memo" {
			t.Fatalf("unexpected query: %v", q)
		}
		if q.Get("pagina") != "2" || q.Get("limite") != "20" {
			t.Fatalf("pagination not forwarded: %v", q)
		}
		_ = json.NewEncoder(w).Encode(tramites.Page{PageNumber: 2, Limit: 20})
	})
	c := newTestClient(t, handler)

	page, err := c.Tramites(context.Background(), tramites.Filters{
		Search: "memo",
		Estado: tramites.EstadoFirmado,
		Page:   2,
		Limit:  20,
	})
	if err != nil {
		t.Fatalf("Tramites: %v", err)
	}
	if page.PageNumber != 2 {
		t.Fatalf("unexpected page: %+v", page)
	}
}

func TestAreasCached(t *testing.T) {
	var hits int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		_ = json.NewEncoder(w).Encode([]Area{{ID: "a-1", Name: "Mesa de Partes"}})
	})
	c := newTestClient(t, handler)

	for i := 0; i < 3; i++ {
		areas, err := c.Areas(context.Background())
		if err != nil {
			t.Fatalf("Areas #%d: %v", i, err)
		}
		if len(areas) != 1 || areas[0].Name != "Mesa de Partes" {
			t.Fatalf("unexpected areas: %+v", areas)
		}
	}
	if got := atomic.LoadInt32(&hits); got != 1 {
		t.Fatalf("catalog not cached: %d server hits", got)
	}
}

func TestContextTokenFallback(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok-ctx" {
			t.Fatalf("context token not attached: %q", got)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"total": 0})
	})
	// No token source configured: the token travels with the context.
	c := newTestClient(t, handler)

	ctx := session.ContextWithToken(context.Background(), "tok-ctx")
	if _, err := c.UnreadCount(ctx); err != nil {
		t.Fatalf("UnreadCount: %v", err)
	}
}

func TestTokenSourceWinsOverContext(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok-fuente" {
			t.Fatalf("token source should win: %q", got)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"total": 0})
	})
	c := newTestClient(t, handler, WithTokenSource(staticTokens("tok-fuente")))

	ctx := session.ContextWithToken(context.Background(), "tok-ctx")
	if _, err := c.UnreadCount(ctx); err != nil {
		t.Fatalf("UnreadCount: %v", err)
	}
}

func TestRequestIDFromContextIsForwarded(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-Request-ID"); got != "01HZXCMD000000000000000000" {
			t.Fatalf("command correlation id not forwarded: %q", got)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"total": 0})
	})
	c := newTestClient(t, handler)

	ctx := audit.WithRequestID(context.Background(), "01HZXCMD000000000000000000")
	if _, err := c.UnreadCount(ctx); err != nil {
		t.Fatalf("UnreadCount: %v", err)
	}
}

func TestEscapedIDSegmentNotDoubleEncoded(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.EscapedPath(); got != "/notificaciones/n%2F7/read" {
			t.Fatalf("id segment re-encoded: %q", got)
		}
		if r.URL.Path != "/notificaciones/n/7/read" {
			t.Fatalf("unexpected decoded path: %q", r.URL.Path)
		}
		w.WriteHeader(http.StatusNoContent)
	})
	c := newTestClient(t, handler)

	if err := c.MarkNotificationRead(context.Background(), "n/7"); err != nil {
		t.Fatalf("MarkNotificationRead: %v", err)
	}
}

func TestMarkNotificationReadPath(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/notificaciones/n-7/read" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusNoContent)
	})
	c := newTestClient(t, handler)

	if err := c.MarkNotificationRead(context.Background(), "n-7"); err != nil {
		t.Fatalf("MarkNotificationRead: %v", err)
	}
}
