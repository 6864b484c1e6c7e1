package gateway

import (
	"context"
	"net/http"

	"boardsync/domain"
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login establishes a session. The gateway answers with a token cookie which
// the client's jar retains for subsequent calls.
func (c *Client) Login(ctx context.Context, email, password string) error {
	_, err := doJSON[struct{}](ctx, c, http.MethodPost, "/login", credentials{Email: email, Password: password},
		"Login failed. Please check your credentials.")
	return err
}

// Register creates an account.
func (c *Client) Register(ctx context.Context, email, password string) error {
	_, err := doJSON[struct{}](ctx, c, http.MethodPost, "/register", credentials{Email: email, Password: password},
		"Registration failed. Please try again.")
	return err
}

// Logout ends the session.
func (c *Client) Logout(ctx context.Context) error {
	_, err := doJSON[struct{}](ctx, c, http.MethodPost, "/logout", nil, "Logout failed.")
	return err
}

// Me returns the user behind the current session.
func (c *Client) Me(ctx context.Context) (domain.User, error) {
	return doJSON[domain.User](ctx, c, http.MethodGet, "/me", nil, "Failed to fetch current user.")
}
