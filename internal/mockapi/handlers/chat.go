package handlers

import (
	"log/slog"
	"net/http"

	"github.com/linemk/impnet/internal/domain/models"
)

type ChatService interface {
	AddMessage(userID, text string) (models.Message, error)
	Messages() []models.Message
}

// MessagesHandler обрабатывает GET /api/chat/messages, новые сообщения первыми
func MessagesHandler(log *slog.Logger, chat ChatService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.MessagesHandler"
		logger := log.With(slog.String("op", op))

		if _, ok := currentUser(logger, w, r); !ok {
			return
		}
		writeJSON(logger, w, http.StatusOK, chat.Messages())
	}
}

// SendMessageHandler обрабатывает POST /api/chat/message
func SendMessageHandler(log *slog.Logger, chat ChatService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.SendMessageHandler"
		logger := log.With(slog.String("op", op))

		userID, ok := currentUser(logger, w, r)
		if !ok {
			return
		}

		var req models.NewMessage
		if !decodeJSON(logger, w, r, &req) {
			return
		}

		msg, err := chat.AddMessage(userID, req.Message)
		if err != nil {
			writeStoreError(logger, w, err)
			return
		}
		writeJSON(logger, w, http.StatusOK, msg)
	}
}
