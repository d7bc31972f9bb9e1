package apiclient

import (
	"context"
	"fmt"
	"net/http"

	"github.com/linemk/impnet/internal/domain/models"
)

// Login - POST /auth/login
func (c *Client) Login(ctx context.Context, creds models.Credentials) (*models.AuthToken, error) {
	const op = "apiclient.Login"
	if err := Validate(creds); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var token models.AuthToken
	if err := c.doJSON(ctx, http.MethodPost, "/auth/login", Anonymous, creds, &token); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &token, nil
}

// Register - POST /auth/register
func (c *Client) Register(ctx context.Context, user models.NewUser) (*models.AuthToken, error) {
	const op = "apiclient.Register"
	if err := Validate(user); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var token models.AuthToken
	if err := c.doJSON(ctx, http.MethodPost, "/auth/register", Anonymous, user, &token); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &token, nil
}

// Me - GET /auth/me
func (c *Client) Me(ctx context.Context, creds Credentials) (*models.User, error) {
	const op = "apiclient.Me"

	var user models.User
	if err := c.doJSON(ctx, http.MethodGet, "/auth/me", creds, nil, &user); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &user, nil
}
