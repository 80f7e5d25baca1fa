package api

import (
	"context"
	"fmt"

	"github.com/oox/furniture-console/internal/model"
)

// LoginResponse is the backend reply to a successful login.
type LoginResponse struct {
	Token string     `json:"token"`
	User  model.User `json:"user"`
}

// Login exchanges credentials for a bearer token. The token is not stored
// on the client; callers decide whether to persist and apply it.
func (c *Client) Login(ctx context.Context, creds model.Credentials) (*LoginResponse, error) {
	var out LoginResponse
	if err := c.Post(ctx, "/api/auth/login/", creds, &out); err != nil {
		return nil, fmt.Errorf("logging in: %w", err)
	}
	if out.Token == "" {
		return nil, fmt.Errorf("logging in: backend returned no token")
	}
	return &out, nil
}

// CurrentUser returns the account owning the current token.
func (c *Client) CurrentUser(ctx context.Context) (*model.User, error) {
	var u model.User
	if err := c.Get(ctx, "/api/auth/me/", &u); err != nil {
		return nil, fmt.Errorf("loading current user: %w", err)
	}
	return &u, nil
}
