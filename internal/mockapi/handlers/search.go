package handlers

import (
	"log/slog"
	"net/http"

	"github.com/linemk/impnet/internal/domain/models"
)

type SearchService interface {
	Search(userID string, q models.SearchQuery) models.SearchResult
}

// SearchHandler обрабатывает POST /api/search
func SearchHandler(log *slog.Logger, search SearchService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.SearchHandler"
		logger := log.With(slog.String("op", op))

		userID, ok := currentUser(logger, w, r)
		if !ok {
			return
		}

		req := models.SearchQuery{SearchType: models.SearchAll}
		if !decodeJSON(logger, w, r, &req) {
			return
		}
		writeJSON(logger, w, http.StatusOK, search.Search(userID, req))
	}
}
