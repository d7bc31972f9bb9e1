package apiclient

import (
	"context"
	"fmt"
	"net/http"

	"github.com/linemk/impnet/internal/domain/models"
)

// Search - POST /search. Пустой тип поиска означает "all".
func (c *Client) Search(ctx context.Context, creds Credentials, query models.SearchQuery) (*models.SearchResult, error) {
	const op = "apiclient.Search"
	if query.SearchType == "" {
		query.SearchType = models.SearchAll
	}
	if err := Validate(query); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var result models.SearchResult
	if err := c.doJSON(ctx, http.MethodPost, "/search", creds, query, &result); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &result, nil
}
