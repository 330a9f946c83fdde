package role

import (
	"errors"
	"strings"
)

// Role is the closed set of roles known to the client.
type Role string

const (
	Admin       Role = "ADMIN"
	Responsable Role = "RESP"
	Trabajador  Role = "TRAB"
)

// ErrInvalidRole indicates the identity carries no usable role.
var ErrInvalidRole = errors.New("role: invalid role")

// Effective derives the effective role from an identity's role list: the
// first entry wins. An empty list or an entry outside the closed set fails.
func Effective(roles []string) (Role, error) {
	if len(roles) == 0 {
		return "", ErrInvalidRole
	}
	r := Role(strings.ToUpper(strings.TrimSpace(roles[0])))
	switch r {
	case Admin, Responsable, Trabajador:
		return r, nil
	}
	return "", ErrInvalidRole
}

// DefaultRoute maps each valid role to its landing route. Total over the
// three roles; anything else lands on the login route.
func DefaultRoute(r Role) string {
	switch r {
	case Admin:
		return "/admin"
	case Responsable:
		return "/resp/tramites"
	case Trabajador:
		return "/trab/bandeja"
	}
	return "/login"
}

// Per-role allowed path prefixes. Rendering hint only: the server remains
// the authority on every operation.
var allowedPrefixes = map[Role][]string{
	Admin:       {"/admin", "/usuarios", "/areas", "/tipos-documento", "/estadisticas", "/notificaciones"},
	Responsable: {"/resp", "/tramites", "/documentos", "/notificaciones"},
	Trabajador:  {"/trab", "/tramites", "/documentos", "/notificaciones"},
}

// IsPermitted reports whether the path falls under one of the role's
// allowed prefixes.
func IsPermitted(r Role, path string) bool {
	for _, prefix := range allowedPrefixes[r] {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}
