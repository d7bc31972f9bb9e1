package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/linemk/impnet/internal/apiclient"
	"github.com/linemk/impnet/internal/domain/models"
)

type FilesAPI interface {
	ListFiles(ctx context.Context, creds apiclient.Credentials) ([]models.File, error)
	UploadFile(ctx context.Context, creds apiclient.Credentials, up apiclient.Upload, isPublic bool, progress apiclient.ProgressFunc) (*models.File, error)
}

type FilesService struct {
	log   *slog.Logger
	api   FilesAPI
	creds apiclient.Credentials
}

func NewFilesService(log *slog.Logger, api FilesAPI, creds apiclient.Credentials) *FilesService {
	return &FilesService{log: log, api: api, creds: creds}
}

func (s *FilesService) Load(ctx context.Context) ([]models.File, error) {
	const op = "service.Files.Load"

	files, err := s.api.ListFiles(ctx, s.creds)
	if err != nil {
		s.log.Error("failed to load files", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return files, nil
}

// Upload загружает файл с прогрессом и перечитывает список
func (s *FilesService) Upload(ctx context.Context, up apiclient.Upload, isPublic bool, progress apiclient.ProgressFunc) ([]models.File, error) {
	const op = "service.Files.Upload"

	file, err := s.api.UploadFile(ctx, s.creds, up, isPublic, progress)
	if err != nil {
		s.log.Warn("upload failed", slog.String("op", op), slog.String("name", up.Name), slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("file uploaded", slog.String("op", op), slog.String("file_id", file.ID))
	return s.Load(ctx)
}
