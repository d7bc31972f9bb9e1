package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/linemk/impnet/internal/apiclient"
	"github.com/linemk/impnet/internal/domain/models"
)

type DocumentsAPI interface {
	ListDocuments(ctx context.Context, creds apiclient.Credentials) ([]models.Document, error)
	UploadDocument(ctx context.Context, creds apiclient.Credentials, up apiclient.Upload, docType, description string, progress apiclient.ProgressFunc) (*models.Document, error)
	DeleteDocument(ctx context.Context, creds apiclient.Credentials, id string) error
}

// BatchProgress получает номер файла в пакете (с нуля) и процент его отправки
type BatchProgress func(index, percent int)

type DocumentsService struct {
	log   *slog.Logger
	api   DocumentsAPI
	creds apiclient.Credentials
}

func NewDocumentsService(log *slog.Logger, api DocumentsAPI, creds apiclient.Credentials) *DocumentsService {
	return &DocumentsService{log: log, api: api, creds: creds}
}

func (s *DocumentsService) Load(ctx context.Context) ([]models.Document, error) {
	const op = "service.Documents.Load"

	docs, err := s.api.ListDocuments(ctx, s.creds)
	if err != nil {
		s.log.Error("failed to load documents", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return docs, nil
}

// Upload отправляет файлы по одному запросу на файл, затем перечитывает список.
// Ошибка файла не прерывает пакет: остальные файлы отправляются, список
// перечитывается всегда, ошибки возвращаются вместе со списком.
func (s *DocumentsService) Upload(ctx context.Context, uploads []apiclient.Upload, docType, description string, progress BatchProgress) ([]models.Document, error) {
	const op = "service.Documents.Upload"
	logger := s.log.With(slog.String("op", op))

	var failed []error
	for i, up := range uploads {
		var fileProgress apiclient.ProgressFunc
		if progress != nil {
			index := i
			fileProgress = func(percent int) { progress(index, percent) }
		}
		doc, err := s.api.UploadDocument(ctx, s.creds, up, docType, description, fileProgress)
		if err != nil {
			logger.Warn("upload failed", slog.String("name", up.Name), slog.Any("error", err))
			failed = append(failed, fmt.Errorf("%s: %s: %w", op, up.Name, err))
			continue
		}
		logger.Info("document uploaded", slog.String("document_id", doc.ID))
	}

	docs, err := s.Load(ctx)
	if err != nil {
		failed = append(failed, err)
	}
	return docs, errors.Join(failed...)
}

func (s *DocumentsService) Delete(ctx context.Context, id string) ([]models.Document, error) {
	const op = "service.Documents.Delete"

	if err := s.api.DeleteDocument(ctx, s.creds, id); err != nil {
		s.log.Warn("failed to delete document", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s.Load(ctx)
}

// Images оставляет только документы-изображения
func Images(docs []models.Document) []models.Document {
	out := []models.Document{}
	for _, d := range docs {
		if IsImage(d.MimeType) {
			out = append(out, d)
		}
	}
	return out
}
