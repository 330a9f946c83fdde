package api

import (
	"context"
	"net/http"

	"mesadoc.org/internal/session"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token        string           `json:"token"`
	RefreshToken string           `json:"refresh_token,omitempty"`
	Identity     session.Identity `json:"usuario"`
}

// Login exchanges credentials for a token and identity.
func (c *Client) Login(ctx context.Context, email, password string) (session.Session, error) {
	var resp loginResponse
	err := c.do(ctx, http.MethodPost, "/auth/login", nil, loginRequest{Email: email, Password: password}, &resp)
	if err != nil {
		return session.Session{}, err
	}
	return session.Session{
		Identity: resp.Identity,
		Credential: session.Credential{
			AccessToken:  resp.Token,
			RefreshToken: resp.RefreshToken,
		},
	}, nil
}

// Profile re-fetches the authenticated identity.
func (c *Client) Profile(ctx context.Context) (session.Identity, error) {
	var identity session.Identity
	if err := c.do(ctx, http.MethodGet, "/auth/profile", nil, nil, &identity); err != nil {
		return session.Identity{}, err
	}
	return identity, nil
}
