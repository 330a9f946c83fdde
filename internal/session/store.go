package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"mesadoc.org/internal/obs"
	"mesadoc.org/internal/role"
)

// AuthAPI is the slice of the remote API the store depends on.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (Session, error)
	Profile(ctx context.Context) (Identity, error)
}

// Store owns the authenticated identity and credential for the lifetime of
// the process. Single writer, multiple readers; durable across restarts via
// the dual mirror.
type Store struct {
	api    AuthAPI
	mirror *Mirror
	now    func() time.Time

	mu      sync.RWMutex
	current *Session
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

// NewStore constructs a Store over the given API and mirror.
func NewStore(api AuthAPI, mirror *Mirror, opts ...StoreOption) *Store {
	s := &Store{api: api, mirror: mirror, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Login authenticates against the server and, on success, persists the
// session into both mirrors and returns the effective role's default route.
// An identity without a valid role fails with ErrInvalidRole before anything
// is persisted.
func (s *Store) Login(ctx context.Context, email, password string) (string, error) {
	sess, err := s.api.Login(ctx, email, password)
	if err != nil {
		return "", err
	}
	effective, err := role.Effective(sess.Identity.Roles)
	if err != nil {
		return "", ErrInvalidRole
	}
	if err := s.mirror.Write(sess); err != nil {
		_ = s.mirror.Clear()
		return "", fmt.Errorf("session: persist: %w", err)
	}
	s.mu.Lock()
	s.current = &sess
	s.mu.Unlock()
	return role.DefaultRoute(effective), nil
}

// Logout clears both mirrors and the in-memory session. Memory is always
// cleared even when removing the mirror files fails.
func (s *Store) Logout() error {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()
	return s.mirror.Clear()
}

// RefreshUser re-fetches the identity and overwrites the stored one. A
// failed refresh invalidates the whole session.
func (s *Store) RefreshUser(ctx context.Context) error {
	s.mu.RLock()
	active := s.current != nil
	s.mu.RUnlock()
	if !active {
		return ErrNotLoggedIn
	}
	identity, err := s.api.Profile(ctx)
	if err != nil {
		_ = s.Logout()
		return fmt.Errorf("session: refresh: %w", err)
	}
	s.mu.Lock()
	if s.current == nil {
		s.mu.Unlock()
		return ErrNotLoggedIn
	}
	s.current.Identity = identity
	sess := *s.current
	s.mu.Unlock()
	if err := s.mirror.Write(sess); err != nil {
		_ = s.Logout()
		return fmt.Errorf("session: persist: %w", err)
	}
	return nil
}

// Hydrate attempts to restore the session from the mirrors. Any mismatch or
// parse failure clears both defensively and reports logged-out.
func (s *Store) Hydrate() bool {
	sess, err := s.mirror.Read()
	if err != nil {
		if !errors.Is(err, ErrNotLoggedIn) {
			obs.Warn("session mirrors inconsistent, clearing", map[string]any{"error": err.Error()})
		}
		_ = s.mirror.Clear()
		return false
	}
	if sess.Identity.ID == "" || sess.Credential.AccessToken == "" {
		_ = s.mirror.Clear()
		return false
	}
	s.mu.Lock()
	s.current = &sess
	s.mu.Unlock()
	return true
}

// Identity returns the active identity, if any.
func (s *Store) Identity() (Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return Identity{}, false
	}
	return s.current.Identity, true
}

// Token returns the active access token, if any. Satisfies the API client's
// token source.
func (s *Store) Token() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return "", false
	}
	return s.current.Credential.AccessToken, true
}

// Role resolves the effective role of the active identity.
func (s *Store) Role() (role.Role, error) {
	identity, ok := s.Identity()
	if !ok {
		return "", ErrNotLoggedIn
	}
	return role.Effective(identity.Roles)
}

// ExpiresWithin reports whether the access token expires inside the given
// window. The token is parsed without signature verification: the server is
// the authority, the client only schedules refreshes. Opaque tokens report
// false.
func (s *Store) ExpiresWithin(d time.Duration) bool {
	token, ok := s.Token()
	if !ok {
		return false
	}
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return claims.ExpiresAt.Time.Before(s.now().Add(d))
}
