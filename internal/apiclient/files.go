package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/linemk/impnet/internal/domain/models"
)

func (c *Client) ListFiles(ctx context.Context, creds Credentials) ([]models.File, error) {
	const op = "apiclient.ListFiles"

	var files []models.File
	if err := c.doJSON(ctx, http.MethodGet, "/files/list", creds, nil, &files); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return files, nil
}

// UploadFile - POST /files/upload (multipart, поля file и is_public)
func (c *Client) UploadFile(ctx context.Context, creds Credentials, up Upload, isPublic bool, progress ProgressFunc) (*models.File, error) {
	const op = "apiclient.UploadFile"

	var file models.File
	fields := map[string]string{"is_public": strconv.FormatBool(isPublic)}
	if err := c.uploadMultipart(ctx, "/files/upload", creds, up, fields, progress, &file); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &file, nil
}
