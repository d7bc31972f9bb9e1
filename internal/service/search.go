package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/linemk/impnet/internal/apiclient"
	"github.com/linemk/impnet/internal/domain/models"
)

type SearchAPI interface {
	Search(ctx context.Context, creds apiclient.Credentials, query models.SearchQuery) (*models.SearchResult, error)
}

type SearchService struct {
	log   *slog.Logger
	api   SearchAPI
	creds apiclient.Credentials
}

func NewSearchService(log *slog.Logger, api SearchAPI, creds apiclient.Credentials) *SearchService {
	return &SearchService{log: log, api: api, creds: creds}
}

// Search ничего не запрашивает для пустой строки: performed = false, прежние результаты остаются у вызывающего
func (s *SearchService) Search(ctx context.Context, query, searchType string) (result *models.SearchResult, performed bool, err error) {
	const op = "service.Search"

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, false, nil
	}

	result, err = s.api.Search(ctx, s.creds, models.SearchQuery{Query: query, SearchType: searchType})
	if err != nil {
		s.log.Warn("search failed", slog.String("op", op), slog.Any("error", err))
		return nil, true, fmt.Errorf("%s: %w", op, err)
	}
	return result, true, nil
}
