package main

import (
	"context"
	"errors"
	"fmt"

	"mesadoc.org/internal/api"
	"mesadoc.org/internal/audit"
	"mesadoc.org/internal/config"
	"mesadoc.org/internal/ids"
	"mesadoc.org/internal/role"
	"mesadoc.org/internal/session"
)

// errNoSession is what every authenticated command prints when the guard
// finds no cookie mirror.
var errNoSession = errors.New("no ha iniciado sesión; ejecute 'mesadoc login'")

// commandContext roots a command invocation. The correlation id travels into
// every API request header and audit entry the command produces.
func commandContext() context.Context {
	return audit.WithRequestID(context.Background(), ids.New())
}

// app bundles the wired components every command needs.
type app struct {
	cfg    config.Config
	client *api.Client
	store  *session.Store
	mirror *session.Mirror
}

// tokenSourceFunc adapts a closure to the api.TokenSource interface, which
// breaks the construction cycle between client and session store.
type tokenSourceFunc func() (string, bool)

func (f tokenSourceFunc) Token() (string, bool) { return f() }

func newApp() (*app, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}

	mirror := session.NewMirror(cfg.StateDir)

	var store *session.Store
	client, err := api.New(cfg.ServerURL,
		api.WithTimeout(cfg.RequestTimeout()),
		api.WithTokenSource(tokenSourceFunc(func() (string, bool) {
			return store.Token()
		})),
	)
	if err != nil {
		return nil, err
	}
	store = session.NewStore(client, mirror)

	return &app{cfg: cfg, client: client, store: store, mirror: mirror}, nil
}

// requireSession is the command guard. Like the web edge guard it consults
// only the cookie mirror first; full hydration then verifies both mirrors
// agree and clears them when they do not.
func (a *app) requireSession() error {
	if _, err := a.mirror.Cookie(); err != nil {
		return errNoSession
	}
	if !a.store.Hydrate() {
		return errNoSession
	}
	return nil
}

// requireRoute additionally checks the effective role may see the given
// route prefix. Rendering-level gate only; the server still authorizes every
// call.
func (a *app) requireRoute(path string) error {
	if err := a.requireSession(); err != nil {
		return err
	}
	r, err := a.store.Role()
	if err != nil {
		return err
	}
	if !role.IsPermitted(r, path) {
		return fmt.Errorf("su rol %s no tiene acceso a %s", r, path)
	}
	return nil
}
