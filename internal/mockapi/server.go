// Package mockapi - бэкенд impNet в памяти для локального запуска и тестов клиента.
package mockapi

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/linemk/impnet/internal/domain/models"
	"github.com/linemk/impnet/internal/lib/logger/handlers/urllog"
	"github.com/linemk/impnet/internal/mockapi/handlers"
	"github.com/linemk/impnet/internal/mockapi/jwtauth"
	"github.com/linemk/impnet/internal/mockapi/memstore"
)

// Version - баннер GET /api/
const Version = "impNet API v1.0.0"

type Options struct {
	Secret   []byte
	TokenTTL time.Duration
	// BcryptCost = 0 означает bcrypt.DefaultCost; в тестах ставится bcrypt.MinCost
	BcryptCost int
}

// Server - http.Handler тестового бэкенда
type Server struct {
	http.Handler
	Store *memstore.Store
}

// New собирает роутер со всеми эндпоинтами под префиксом /api и раздачей /uploads
func New(log *slog.Logger, opts Options) (*Server, error) {
	if len(opts.Secret) == 0 {
		return nil, errors.New("mockapi: jwt secret is not set")
	}
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = 30 * time.Minute
	}

	store, err := memstore.NewStore(opts.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("mockapi: %w", err)
	}

	issue := func(user models.User) (string, error) {
		return jwtauth.NewToken(user.ID, user.Email, opts.Secret, opts.TokenTTL)
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(urllog.CustomLoggerMiddleware(log))
	router.Use(middleware.Recoverer)

	router.Route("/api", func(r chi.Router) {
		r.Get("/", handlers.VersionHandler(log, Version))
		r.Post("/auth/register", handlers.RegisterHandler(log, store, issue))
		r.Post("/auth/login", handlers.LoginHandler(log, store, issue))

		r.Group(func(r chi.Router) {
			r.Use(jwtauth.NewMiddleware(opts.Secret))

			r.Get("/auth/me", handlers.MeHandler(log, store))

			r.Get("/roles", handlers.ListRolesHandler(log, store))
			r.Post("/roles", handlers.CreateRoleHandler(log, store))
			r.Get("/users", handlers.ListUsersHandler(log, store))

			r.Get("/banking/balance", handlers.BalanceHandler(log, store))
			r.Get("/banking/transactions", handlers.TransactionsHandler(log, store))
			r.Get("/banking/users", handlers.BankingUsersHandler(log, store))
			r.Post("/banking/transfer", handlers.TransferHandler(log, store))

			r.Get("/chat/messages", handlers.MessagesHandler(log, store))
			r.Post("/chat/message", handlers.SendMessageHandler(log, store))

			r.Get("/email/inbox", handlers.InboxHandler(log, store))
			r.Get("/email/sent", handlers.SentHandler(log, store))
			r.Post("/email/send", handlers.SendEmailHandler(log, store))
			r.Put("/email/{id}/read", handlers.MarkReadHandler(log, store))

			r.Get("/files/list", handlers.ListFilesHandler(log, store))
			r.Post("/files/upload", handlers.UploadFileHandler(log, store))

			r.Get("/documents", handlers.ListDocumentsHandler(log, store))
			r.Post("/documents/upload", handlers.UploadDocumentHandler(log, store))
			r.Delete("/documents/{id}", handlers.DeleteDocumentHandler(log, store))

			r.Get("/passport", handlers.GetPassportHandler(log, store))
			r.Post("/passport", handlers.CreatePassportHandler(log, store))
			r.Put("/passport", handlers.ReplacePassportHandler(log, store))
			r.Post("/passport/photo", handlers.SetPassportPhotoHandler(log, store))

			r.Post("/search", handlers.SearchHandler(log, store))
		})
	})

	router.Get("/uploads/*", handlers.ServeUploadHandler(log, store))

	return &Server{Handler: router, Store: store}, nil
}
