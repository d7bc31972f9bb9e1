package apiclient

import (
	"context"
	"fmt"
	"net/http"

	"github.com/linemk/impnet/internal/domain/models"
)

func (c *Client) ListRoles(ctx context.Context, creds Credentials) ([]models.Role, error) {
	const op = "apiclient.ListRoles"

	var roles []models.Role
	if err := c.doJSON(ctx, http.MethodGet, "/roles", creds, nil, &roles); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return roles, nil
}

// CreateRole доступен только пользователю с правом admin
func (c *Client) CreateRole(ctx context.Context, creds Credentials, role models.NewRole) (*models.Role, error) {
	const op = "apiclient.CreateRole"
	if err := Validate(role); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var created models.Role
	if err := c.doJSON(ctx, http.MethodPost, "/roles", creds, role, &created); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &created, nil
}

// ListUsers доступен только пользователю с правом admin
func (c *Client) ListUsers(ctx context.Context, creds Credentials) ([]models.User, error) {
	const op = "apiclient.ListUsers"

	var users []models.User
	if err := c.doJSON(ctx, http.MethodGet, "/users", creds, nil, &users); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return users, nil
}

// Version - GET /api/, баннер версии бэкенда
func (c *Client) Version(ctx context.Context) (string, error) {
	const op = "apiclient.Version"

	var resp struct {
		Message string `json:"message"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/", Anonymous, nil, &resp); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return resp.Message, nil
}
