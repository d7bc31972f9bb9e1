package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/linemk/impnet/internal/domain/models"
)

type EmailService interface {
	SendEmail(fromID string, ne models.NewEmail) (models.Email, error)
	Inbox(userID string) ([]models.Email, error)
	Sent(userID string) ([]models.Email, error)
	MarkRead(userID, emailID string) error
}

// InboxHandler обрабатывает GET /api/email/inbox
func InboxHandler(log *slog.Logger, mail EmailService) http.HandlerFunc {
	return mailboxHandler(log, "handlers.InboxHandler", mail.Inbox)
}

// SentHandler обрабатывает GET /api/email/sent
func SentHandler(log *slog.Logger, mail EmailService) http.HandlerFunc {
	return mailboxHandler(log, "handlers.SentHandler", mail.Sent)
}

func mailboxHandler(log *slog.Logger, op string, list func(userID string) ([]models.Email, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(slog.String("op", op))

		userID, ok := currentUser(logger, w, r)
		if !ok {
			return
		}
		emails, err := list(userID)
		if err != nil {
			writeStoreError(logger, w, err)
			return
		}
		writeJSON(logger, w, http.StatusOK, emails)
	}
}

// SendEmailHandler обрабатывает POST /api/email/send
func SendEmailHandler(log *slog.Logger, mail EmailService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.SendEmailHandler"
		logger := log.With(slog.String("op", op))

		userID, ok := currentUser(logger, w, r)
		if !ok {
			return
		}

		var req models.NewEmail
		if !decodeJSON(logger, w, r, &req) {
			return
		}

		email, err := mail.SendEmail(userID, req)
		if err != nil {
			writeStoreError(logger, w, err)
			return
		}
		writeJSON(logger, w, http.StatusOK, email)
	}
}

// MarkReadHandler обрабатывает PUT /api/email/{id}/read
func MarkReadHandler(log *slog.Logger, mail EmailService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.MarkReadHandler"
		logger := log.With(slog.String("op", op))

		userID, ok := currentUser(logger, w, r)
		if !ok {
			return
		}

		if err := mail.MarkRead(userID, chi.URLParam(r, "id")); err != nil {
			writeStoreError(logger, w, err)
			return
		}
		writeJSON(logger, w, http.StatusOK, messageResponse{Message: "Email marked as read"})
	}
}
