package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/linemk/impnet/internal/apiclient"
	"github.com/linemk/impnet/internal/domain/models"
)

type ChatAPI interface {
	Messages(ctx context.Context, creds apiclient.Credentials) ([]models.Message, error)
	SendMessage(ctx context.Context, creds apiclient.Credentials, text string) (*models.Message, error)
}

type ChatService struct {
	log   *slog.Logger
	api   ChatAPI
	creds apiclient.Credentials
}

func NewChatService(log *slog.Logger, api ChatAPI, creds apiclient.Credentials) *ChatService {
	return &ChatService{log: log, api: api, creds: creds}
}

// Load возвращает сообщения от старых к новым (сервер отдаёт новые первыми)
func (s *ChatService) Load(ctx context.Context) ([]models.Message, error) {
	const op = "service.Chat.Load"

	msgs, err := s.api.Messages(ctx, s.creds)
	if err != nil {
		s.log.Error("failed to load messages", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := make([]models.Message, len(msgs))
	for i, m := range msgs {
		out[len(msgs)-1-i] = m
	}
	return out, nil
}

// Send отправляет сообщение и перечитывает ленту целиком
func (s *ChatService) Send(ctx context.Context, text string) ([]models.Message, error) {
	const op = "service.Chat.Send"

	if _, err := s.api.SendMessage(ctx, s.creds, text); err != nil {
		s.log.Warn("failed to send message", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s.Load(ctx)
}
