package session

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const (
	storeFile  = "session.json"
	cookieFile = "token.cookie"
)

// Mirror persists the session in two places: a durable JSON store holding
// identity plus credential, and a token-only cookie file consumed by the
// command guard. The two must never disagree; Write updates both inside one
// synchronous call and rolls the durable store back when the cookie write
// fails.
type Mirror struct {
	dir string
}

// NewMirror creates a mirror rooted at the given state directory.
func NewMirror(dir string) *Mirror {
	return &Mirror{dir: dir}
}

func (m *Mirror) storePath() string  { return filepath.Join(m.dir, storeFile) }
func (m *Mirror) cookiePath() string { return filepath.Join(m.dir, cookieFile) }

// Write persists both mirrors.
func (m *Mirror) Write(s Session) error {
	if err := os.MkdirAll(m.dir, 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(m.storePath(), data, 0o600); err != nil {
		return err
	}
	if err := os.WriteFile(m.cookiePath(), []byte(s.Credential.AccessToken+"\n"), 0o600); err != nil {
		_ = os.Remove(m.storePath())
		return err
	}
	return nil
}

// Read loads the persisted session. Both mirrors absent means logged out
// (ErrNotLoggedIn). One-sided presence, a parse failure or a token mismatch
// yields ErrMirrorMismatch; callers must clear both and treat the user as
// logged out.
func (m *Mirror) Read() (Session, error) {
	storeBytes, storeErr := os.ReadFile(m.storePath())
	cookieBytes, cookieErr := os.ReadFile(m.cookiePath())

	storeMissing := errors.Is(storeErr, fs.ErrNotExist)
	cookieMissing := errors.Is(cookieErr, fs.ErrNotExist)
	if storeMissing && cookieMissing {
		return Session{}, ErrNotLoggedIn
	}
	if storeErr != nil || cookieErr != nil {
		return Session{}, ErrMirrorMismatch
	}

	var s Session
	if err := json.Unmarshal(storeBytes, &s); err != nil {
		return Session{}, ErrMirrorMismatch
	}
	token := strings.TrimSpace(string(cookieBytes))
	if s.Credential.AccessToken == "" || token == "" || s.Credential.AccessToken != token {
		return Session{}, ErrMirrorMismatch
	}
	return s, nil
}

// Cookie returns the token mirror alone. The command guard reads only this.
func (m *Mirror) Cookie() (string, error) {
	data, err := os.ReadFile(m.cookiePath())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", ErrNotLoggedIn
		}
		return "", err
	}
	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", ErrNotLoggedIn
	}
	return token, nil
}

// Clear removes both mirrors. Missing files are not an error.
func (m *Mirror) Clear() error {
	var firstErr error
	for _, path := range []string{m.storePath(), m.cookiePath()} {
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
