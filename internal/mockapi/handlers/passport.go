package handlers

import (
	"log/slog"
	"net/http"

	"github.com/linemk/impnet/internal/domain/models"
)

type PassportService interface {
	Passport(userID string) (models.Passport, error)
	CreatePassport(userID string, form models.PassportForm) (models.Passport, error)
	ReplacePassport(userID string, form models.PassportForm) (models.Passport, error)
	SetPassportPhoto(userID, docID string) error
}

// GetPassportHandler обрабатывает GET /api/passport; 404, если паспорт не выпущен
func GetPassportHandler(log *slog.Logger, passports PassportService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.GetPassportHandler"
		logger := log.With(slog.String("op", op))

		userID, ok := currentUser(logger, w, r)
		if !ok {
			return
		}
		passport, err := passports.Passport(userID)
		if err != nil {
			writeStoreError(logger, w, err)
			return
		}
		writeJSON(logger, w, http.StatusOK, passport)
	}
}

// CreatePassportHandler обрабатывает POST /api/passport
func CreatePassportHandler(log *slog.Logger, passports PassportService) http.HandlerFunc {
	return writePassportHandler(log, "handlers.CreatePassportHandler", passports.CreatePassport)
}

// ReplacePassportHandler обрабатывает PUT /api/passport
func ReplacePassportHandler(log *slog.Logger, passports PassportService) http.HandlerFunc {
	return writePassportHandler(log, "handlers.ReplacePassportHandler", passports.ReplacePassport)
}

func writePassportHandler(log *slog.Logger, op string, save func(string, models.PassportForm) (models.Passport, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(slog.String("op", op))

		userID, ok := currentUser(logger, w, r)
		if !ok {
			return
		}

		var req models.PassportForm
		if !decodeJSON(logger, w, r, &req) {
			return
		}

		passport, err := save(userID, req)
		if err != nil {
			writeStoreError(logger, w, err)
			return
		}
		writeJSON(logger, w, http.StatusOK, passport)
	}
}

// SetPassportPhotoHandler обрабатывает POST /api/passport/photo (multipart, поле document_id)
func SetPassportPhotoHandler(log *slog.Logger, passports PassportService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.SetPassportPhotoHandler"
		logger := log.With(slog.String("op", op))

		userID, ok := currentUser(logger, w, r)
		if !ok {
			return
		}

		if err := r.ParseMultipartForm(maxUploadSize); err != nil {
			logger.Error("invalid request: multipart error", slog.Any("error", err))
			writeError(logger, w, http.StatusUnprocessableEntity, "invalid multipart form")
			return
		}
		docID := r.FormValue("document_id")
		if docID == "" {
			writeError(logger, w, http.StatusUnprocessableEntity, "document_id: field required")
			return
		}

		if err := passports.SetPassportPhoto(userID, docID); err != nil {
			writeStoreError(logger, w, err)
			return
		}
		writeJSON(logger, w, http.StatusOK, messageResponse{Message: "Passport photo updated"})
	}
}
