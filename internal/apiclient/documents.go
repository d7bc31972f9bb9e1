package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/linemk/impnet/internal/domain/models"
)

// Типы документов, которые использует клиент
const (
	DocumentTypeDocument      = "document"
	DocumentTypePassportPhoto = "passport_photo"
)

func (c *Client) ListDocuments(ctx context.Context, creds Credentials) ([]models.Document, error) {
	const op = "apiclient.ListDocuments"

	var docs []models.Document
	if err := c.doJSON(ctx, http.MethodGet, "/documents", creds, nil, &docs); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return docs, nil
}

// UploadDocument - POST /documents/upload (multipart: file, document_type, description)
func (c *Client) UploadDocument(ctx context.Context, creds Credentials, up Upload, docType, description string, progress ProgressFunc) (*models.Document, error) {
	const op = "apiclient.UploadDocument"
	if docType == "" {
		docType = DocumentTypeDocument
	}
	if description == "" {
		description = docType + " - " + up.Name
	}

	var doc models.Document
	fields := map[string]string{
		"document_type": docType,
		"description":   description,
	}
	if err := c.uploadMultipart(ctx, "/documents/upload", creds, up, fields, progress, &doc); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &doc, nil
}

func (c *Client) DeleteDocument(ctx context.Context, creds Credentials, id string) error {
	const op = "apiclient.DeleteDocument"
	if id == "" {
		return fmt.Errorf("%s: %w", op, &ValidationError{Fields: []FieldError{{Field: "ID", Message: "This field is required"}}})
	}

	if err := c.doJSON(ctx, http.MethodDelete, "/documents/"+url.PathEscape(id), creds, nil, nil); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
