package session

import "errors"

var (
	ErrInvalidRole    = errors.New("session: identity has no valid role")
	ErrNotLoggedIn    = errors.New("session: not authenticated")
	ErrMirrorMismatch = errors.New("session: storage mirrors disagree")
)
