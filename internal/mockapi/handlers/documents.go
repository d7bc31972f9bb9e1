package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/linemk/impnet/internal/domain/models"
)

const defaultDocumentType = "document"

type DocumentService interface {
	AddDocument(userID, docType, name, mimeType, description string, content []byte) models.Document
	Documents(userID string) []models.Document
	DeleteDocument(userID, docID string) error
}

// ListDocumentsHandler обрабатывает GET /api/documents
func ListDocumentsHandler(log *slog.Logger, docs DocumentService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ListDocumentsHandler"
		logger := log.With(slog.String("op", op))

		userID, ok := currentUser(logger, w, r)
		if !ok {
			return
		}
		writeJSON(logger, w, http.StatusOK, docs.Documents(userID))
	}
}

// UploadDocumentHandler обрабатывает POST /api/documents/upload (поля file, document_type, description)
func UploadDocumentHandler(log *slog.Logger, docs DocumentService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.UploadDocumentHandler"
		logger := log.With(slog.String("op", op))

		userID, ok := currentUser(logger, w, r)
		if !ok {
			return
		}

		up, ok := readUpload(logger, w, r)
		if !ok {
			return
		}
		docType := r.FormValue("document_type")
		if docType == "" {
			docType = defaultDocumentType
		}

		doc := docs.AddDocument(userID, docType, up.name, up.mimeType, r.FormValue("description"), up.content)
		logger.Info("document uploaded", slog.String("document_id", doc.ID), slog.String("type", doc.Type))
		writeJSON(logger, w, http.StatusOK, doc)
	}
}

// DeleteDocumentHandler обрабатывает DELETE /api/documents/{id}
func DeleteDocumentHandler(log *slog.Logger, docs DocumentService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.DeleteDocumentHandler"
		logger := log.With(slog.String("op", op))

		userID, ok := currentUser(logger, w, r)
		if !ok {
			return
		}

		if err := docs.DeleteDocument(userID, chi.URLParam(r, "id")); err != nil {
			writeStoreError(logger, w, err)
			return
		}
		writeJSON(logger, w, http.StatusOK, messageResponse{Message: "Document deleted"})
	}
}
