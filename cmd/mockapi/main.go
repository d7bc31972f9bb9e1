package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/linemk/impnet/internal/config"
	"github.com/linemk/impnet/internal/lib/logger"
	"github.com/linemk/impnet/internal/mockapi"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	var address string
	pflag.String("config", "", "path to config file")
	pflag.StringVar(&address, "address", "", "listen address (overrides mock_server.address)")
	pflag.Parse()

	// загрузка конфигурации
	cfg := config.MustLoad()
	if address != "" {
		cfg.MockServer.Address = address
	}

	// инициализация логгера, зависит от настройки окружения
	log := logger.SetupLogger(cfg.Env, os.Stdout)
	log.Info("starting mock api", slog.String("env", cfg.Env))

	server, err := mockapi.New(log, mockapi.Options{
		Secret:     []byte(cfg.MockServer.JWTSecret),
		TokenTTL:   time.Duration(cfg.MockServer.TokenTTL) * time.Minute,
		BcryptCost: bcrypt.DefaultCost,
	})
	if err != nil {
		log.Error("failed to initialize mock api", slog.Any("error", err))
		panic(errors.Wrap(err, "failed to initialize mock api"))
	}

	srv := &http.Server{
		Addr:         cfg.MockServer.Address,
		Handler:      server,
		ReadTimeout:  cfg.MockServer.Timeout,
		WriteTimeout: cfg.MockServer.Timeout,
		IdleTimeout:  cfg.MockServer.IdleTimeout,
	}

	go func() {
		log.Info("starting server", slog.String("address", cfg.MockServer.Address))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", slog.Any("error", err))
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	stopSign := <-stop
	log.Info("received shutdown signal", slog.String("signal", stopSign.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server shutdown failed", slog.Any("error", err))
	}
	log.Info("server gracefully stopped")
}
