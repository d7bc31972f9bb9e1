package handlers

import (
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/linemk/impnet/internal/domain/models"
)

const maxUploadSize = 32 << 20

type FileService interface {
	AddFile(userID, name, mimeType string, content []byte, isPublic bool) models.File
	Files(userID string) []models.File
}

// BlobSource отдаёт содержимое загруженного файла по его url
type BlobSource interface {
	Blob(url string) (string, []byte, bool)
}

type uploadedFile struct {
	name     string
	mimeType string
	content  []byte
}

// readUpload разбирает multipart-форму и читает поле file целиком
func readUpload(logger *slog.Logger, w http.ResponseWriter, r *http.Request) (uploadedFile, bool) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		logger.Error("invalid request: multipart error", slog.Any("error", err))
		writeError(logger, w, http.StatusUnprocessableEntity, "invalid multipart form")
		return uploadedFile{}, false
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		logger.Error("invalid request: no file", slog.Any("error", err))
		writeError(logger, w, http.StatusUnprocessableEntity, "file: field required")
		return uploadedFile{}, false
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		logger.Error("failed to read upload", slog.Any("error", err))
		writeError(logger, w, http.StatusBadRequest, "failed to read file")
		return uploadedFile{}, false
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	return uploadedFile{name: header.Filename, mimeType: mimeType, content: content}, true
}

// ListFilesHandler обрабатывает GET /api/files/list
func ListFilesHandler(log *slog.Logger, files FileService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ListFilesHandler"
		logger := log.With(slog.String("op", op))

		userID, ok := currentUser(logger, w, r)
		if !ok {
			return
		}
		writeJSON(logger, w, http.StatusOK, files.Files(userID))
	}
}

// UploadFileHandler обрабатывает POST /api/files/upload (поля file, is_public)
func UploadFileHandler(log *slog.Logger, files FileService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.UploadFileHandler"
		logger := log.With(slog.String("op", op))

		userID, ok := currentUser(logger, w, r)
		if !ok {
			return
		}

		up, ok := readUpload(logger, w, r)
		if !ok {
			return
		}
		isPublic, _ := strconv.ParseBool(r.FormValue("is_public"))

		file := files.AddFile(userID, up.name, up.mimeType, up.content, isPublic)
		logger.Info("file uploaded", slog.String("file_id", file.ID), slog.Int64("size", file.FileSize))
		writeJSON(logger, w, http.StatusOK, file)
	}
}

// ServeUploadHandler отдаёт содержимое по адресу /uploads/...
func ServeUploadHandler(log *slog.Logger, blobs BlobSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ServeUploadHandler"
		logger := log.With(slog.String("op", op))

		mimeType, content, ok := blobs.Blob(r.URL.Path)
		if !ok {
			writeError(logger, w, http.StatusNotFound, "Not Found")
			return
		}
		w.Header().Set("Content-Type", mimeType)
		w.Header().Set("Content-Length", strconv.Itoa(len(content)))
		if _, err := w.Write(content); err != nil {
			logger.Error("failed to write upload", slog.Any("error", err))
		}
	}
}
