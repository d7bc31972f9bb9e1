package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/linemk/impnet/internal/apiclient"
	"github.com/linemk/impnet/internal/domain/models"
	"golang.org/x/sync/errgroup"
)

type PassportAPI interface {
	GetPassport(ctx context.Context, creds apiclient.Credentials) (*models.Passport, error)
	CreatePassport(ctx context.Context, creds apiclient.Credentials, form models.PassportForm) (*models.Passport, error)
	ReplacePassport(ctx context.Context, creds apiclient.Credentials, form models.PassportForm) (*models.Passport, error)
	SetPassportPhoto(ctx context.Context, creds apiclient.Credentials, documentID string) error
	ListDocuments(ctx context.Context, creds apiclient.Credentials) ([]models.Document, error)
	UploadDocument(ctx context.Context, creds apiclient.Credentials, up apiclient.Upload, docType, description string, progress apiclient.ProgressFunc) (*models.Document, error)
}

// photoDescription - описание документа, загруженного как фото паспорта
const photoDescription = "Фото для паспорта"

// PassportPage - паспорт (nil, если не выпущен) и фото, доступные для выбора
type PassportPage struct {
	Passport *models.Passport
	Photos   []models.Document
}

type PassportService struct {
	log   *slog.Logger
	api   PassportAPI
	creds apiclient.Credentials
}

func NewPassportService(log *slog.Logger, api PassportAPI, creds apiclient.Credentials) *PassportService {
	return &PassportService{log: log, api: api, creds: creds}
}

// Load запрашивает паспорт и документы одновременно; 404 по паспорту означает, что его нет
func (s *PassportService) Load(ctx context.Context) (*PassportPage, error) {
	const op = "service.Passport.Load"

	var p PassportPage
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		passport, err := s.api.GetPassport(gctx, s.creds)
		if errors.Is(err, apiclient.ErrNotFound) {
			return nil
		}
		p.Passport = passport
		return err
	})
	g.Go(func() error {
		docs, err := s.api.ListDocuments(gctx, s.creds)
		p.Photos = Images(docs)
		return err
	})
	if err := g.Wait(); err != nil {
		s.log.Error("failed to load passport", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &p, nil
}

// Save выпускает паспорт (POST), если его ещё нет, иначе заменяет (PUT)
func (s *PassportService) Save(ctx context.Context, current *models.Passport, form models.PassportForm) (*PassportPage, error) {
	const op = "service.Passport.Save"
	logger := s.log.With(slog.String("op", op))

	var err error
	if current == nil {
		_, err = s.api.CreatePassport(ctx, s.creds, form)
	} else {
		_, err = s.api.ReplacePassport(ctx, s.creds, form)
	}
	if err != nil {
		logger.Warn("failed to save passport", slog.Bool("create", current == nil), slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s.Load(ctx)
}

// UploadPhoto строго по порядку: загрузка документа, назначение фото, перечитывание
func (s *PassportService) UploadPhoto(ctx context.Context, up apiclient.Upload, progress apiclient.ProgressFunc) (*PassportPage, error) {
	const op = "service.Passport.UploadPhoto"

	if !IsImage(up.ContentType) && !IsImage(apiclient.DetectContentType(up.Name)) {
		return nil, fmt.Errorf("%s: %w", op, &apiclient.ValidationError{
			Fields: []apiclient.FieldError{{Field: "File", Message: "Photo must be an image"}},
		})
	}

	doc, err := s.api.UploadDocument(ctx, s.creds, up, apiclient.DocumentTypePassportPhoto, photoDescription, progress)
	if err != nil {
		s.log.Warn("photo upload failed", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s.UsePhoto(ctx, doc.ID)
}

// UsePhoto назначает фото паспорта из уже загруженного документа
func (s *PassportService) UsePhoto(ctx context.Context, documentID string) (*PassportPage, error) {
	const op = "service.Passport.UsePhoto"

	if err := s.api.SetPassportPhoto(ctx, s.creds, documentID); err != nil {
		s.log.Warn("failed to set photo", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s.Load(ctx)
}
