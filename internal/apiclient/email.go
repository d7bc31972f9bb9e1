package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/linemk/impnet/internal/domain/models"
)

func (c *Client) Inbox(ctx context.Context, creds Credentials) ([]models.Email, error) {
	const op = "apiclient.Inbox"

	var emails []models.Email
	if err := c.doJSON(ctx, http.MethodGet, "/email/inbox", creds, nil, &emails); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return emails, nil
}

func (c *Client) Sent(ctx context.Context, creds Credentials) ([]models.Email, error) {
	const op = "apiclient.Sent"

	var emails []models.Email
	if err := c.doJSON(ctx, http.MethodGet, "/email/sent", creds, nil, &emails); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return emails, nil
}

func (c *Client) SendEmail(ctx context.Context, creds Credentials, email models.NewEmail) (*models.Email, error) {
	const op = "apiclient.SendEmail"
	if err := Validate(email); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var sent models.Email
	if err := c.doJSON(ctx, http.MethodPost, "/email/send", creds, email, &sent); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &sent, nil
}

// MarkRead - PUT /email/{id}/read. Повторный вызов для прочитанного письма не ошибка.
func (c *Client) MarkRead(ctx context.Context, creds Credentials, id string) error {
	const op = "apiclient.MarkRead"
	if id == "" {
		return fmt.Errorf("%s: %w", op, &ValidationError{Fields: []FieldError{{Field: "ID", Message: "This field is required"}}})
	}

	if err := c.doJSON(ctx, http.MethodPut, "/email/"+url.PathEscape(id)+"/read", creds, nil, nil); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
