package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/linemk/impnet/internal/apiclient"
	"github.com/linemk/impnet/internal/domain/models"
	"golang.org/x/sync/errgroup"
)

type EmailAPI interface {
	Inbox(ctx context.Context, creds apiclient.Credentials) ([]models.Email, error)
	Sent(ctx context.Context, creds apiclient.Credentials) ([]models.Email, error)
	SendEmail(ctx context.Context, creds apiclient.Credentials, email models.NewEmail) (*models.Email, error)
	MarkRead(ctx context.Context, creds apiclient.Credentials, id string) error
}

type Mailbox struct {
	Inbox []models.Email
	Sent  []models.Email
}

type EmailService struct {
	log   *slog.Logger
	api   EmailAPI
	creds apiclient.Credentials
}

func NewEmailService(log *slog.Logger, api EmailAPI, creds apiclient.Credentials) *EmailService {
	return &EmailService{log: log, api: api, creds: creds}
}

func (s *EmailService) Load(ctx context.Context) (*Mailbox, error) {
	const op = "service.Email.Load"

	var m Mailbox
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		inbox, err := s.api.Inbox(gctx, s.creds)
		m.Inbox = inbox
		return err
	})
	g.Go(func() error {
		sent, err := s.api.Sent(gctx, s.creds)
		m.Sent = sent
		return err
	})
	if err := g.Wait(); err != nil {
		s.log.Error("failed to load mailbox", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &m, nil
}

// Open отмечает входящее письмо прочитанным сразу при открытии и перечитывает ящик
func (s *EmailService) Open(ctx context.Context, id string) (*Mailbox, error) {
	const op = "service.Email.Open"

	if err := s.api.MarkRead(ctx, s.creds, id); err != nil {
		s.log.Warn("failed to mark email as read", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s.Load(ctx)
}

func (s *EmailService) Send(ctx context.Context, email models.NewEmail) (*Mailbox, error) {
	const op = "service.Email.Send"

	if _, err := s.api.SendEmail(ctx, s.creds, email); err != nil {
		s.log.Warn("failed to send email", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s.Load(ctx)
}
