package handlers

import (
	"log/slog"
	"net/http"

	"github.com/linemk/impnet/internal/domain/models"
)

// AuthService - операции с учётными записями, которые нужны обработчикам /auth
type AuthService interface {
	CreateUser(nu models.NewUser) (models.User, error)
	Authenticate(email, password string) (models.User, error)
	User(id string) (models.User, error)
}

// TokenIssuer выпускает JWT для пользователя
type TokenIssuer func(user models.User) (string, error)

func writeToken(logger *slog.Logger, w http.ResponseWriter, issue TokenIssuer, user models.User) {
	token, err := issue(user)
	if err != nil {
		logger.Error("failed to issue token", slog.Any("error", err))
		writeError(logger, w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(logger, w, http.StatusOK, models.AuthToken{
		AccessToken: token,
		TokenType:   "bearer",
		User:        user,
	})
}

// RegisterHandler обрабатывает POST /api/auth/register: создаёт пользователя и сразу выдаёт токен
func RegisterHandler(log *slog.Logger, authService AuthService, issue TokenIssuer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.RegisterHandler"
		logger := log.With(slog.String("op", op))

		var req models.NewUser
		if !decodeJSON(logger, w, r, &req) {
			return
		}

		user, err := authService.CreateUser(req)
		if err != nil {
			writeStoreError(logger, w, err)
			return
		}

		logger.Info("user registered", slog.String("user_id", user.ID))
		writeToken(logger, w, issue, user)
	}
}

// LoginHandler обрабатывает POST /api/auth/login
func LoginHandler(log *slog.Logger, authService AuthService, issue TokenIssuer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.LoginHandler"
		logger := log.With(slog.String("op", op))

		var req models.Credentials
		if !decodeJSON(logger, w, r, &req) {
			return
		}

		user, err := authService.Authenticate(req.Email, req.Password)
		if err != nil {
			writeStoreError(logger, w, err)
			return
		}
		writeToken(logger, w, issue, user)
	}
}

// MeHandler обрабатывает GET /api/auth/me
func MeHandler(log *slog.Logger, authService AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.MeHandler"
		logger := log.With(slog.String("op", op))

		userID, ok := currentUser(logger, w, r)
		if !ok {
			return
		}

		user, err := authService.User(userID)
		if err != nil {
			writeStoreError(logger, w, err)
			return
		}
		writeJSON(logger, w, http.StatusOK, user)
	}
}
