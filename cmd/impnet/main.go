package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/linemk/impnet/internal/app"
	"github.com/linemk/impnet/internal/config"
	"github.com/linemk/impnet/internal/lib/logger"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	var (
		backend string
		theme   string
	)
	pflag.String("config", "", "path to config file")
	pflag.StringVar(&backend, "backend", "", "backend base url (overrides api.base_url)")
	pflag.StringVar(&theme, "theme", "", "initial theme when none is saved: dark|light")
	pflag.Parse()

	// загрузка конфигурации
	cfg := config.MustLoad()
	if backend != "" {
		cfg.API.BaseURL = backend
	}
	if theme != "" {
		cfg.UI.Theme = theme
	}

	// терминал занят интерфейсом, поэтому логи пишутся в файл
	logFile, err := os.OpenFile(cfg.LogPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return errors.Wrap(err, "failed to open log file")
	}
	defer logFile.Close()

	log := logger.SetupLogger(cfg.Env, logFile)
	log.Info("starting impnet", slog.String("env", cfg.Env), slog.String("backend", cfg.API.BaseURL))

	application, err := app.NewApp(context.Background(), log, cfg)
	if err != nil {
		log.Error("failed to initialize app", slog.Any("error", err))
		return errors.Wrap(err, "failed to initialize app")
	}
	defer application.Close()

	if _, err := application.Program(tea.WithAltScreen()).Run(); err != nil {
		log.Error("ui stopped with error", slog.Any("error", err))
		return errors.Wrap(err, "ui failed")
	}
	log.Info("impnet stopped")
	return nil
}
