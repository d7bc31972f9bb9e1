package apiclient

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/linemk/impnet/internal/domain/models"
)

// GetPassport - GET /passport. Если паспорта нет, ошибка оборачивает ErrNotFound.
func (c *Client) GetPassport(ctx context.Context, creds Credentials) (*models.Passport, error) {
	const op = "apiclient.GetPassport"

	var passport models.Passport
	if err := c.doJSON(ctx, http.MethodGet, "/passport", creds, nil, &passport); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &passport, nil
}

// CreatePassport - POST /passport, первый выпуск паспорта
func (c *Client) CreatePassport(ctx context.Context, creds Credentials, form models.PassportForm) (*models.Passport, error) {
	return c.writePassport(ctx, "apiclient.CreatePassport", http.MethodPost, creds, form)
}

// ReplacePassport - PUT /passport, запись заменяется целиком
func (c *Client) ReplacePassport(ctx context.Context, creds Credentials, form models.PassportForm) (*models.Passport, error) {
	return c.writePassport(ctx, "apiclient.ReplacePassport", http.MethodPut, creds, form)
}

func (c *Client) writePassport(ctx context.Context, op, method string, creds Credentials, form models.PassportForm) (*models.Passport, error) {
	if err := Validate(form); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var passport models.Passport
	if err := c.doJSON(ctx, method, "/passport", creds, form, &passport); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &passport, nil
}

// SetPassportPhoto - POST /passport/photo с полем document_id (multipart)
func (c *Client) SetPassportPhoto(ctx context.Context, creds Credentials, documentID string) error {
	const op = "apiclient.SetPassportPhoto"
	if documentID == "" {
		return fmt.Errorf("%s: %w", op, &ValidationError{Fields: []FieldError{{Field: "DocumentID", Message: "This field is required"}}})
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.WriteField("document_id", documentID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/passport/photo", creds, &buf, mw.FormDataContentType())
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := c.send(req, nil); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
