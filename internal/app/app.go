package app

import (
	"context"
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/linemk/impnet/internal/apiclient"
	"github.com/linemk/impnet/internal/config"
	"github.com/linemk/impnet/internal/session"
	"github.com/linemk/impnet/internal/storage"
	"github.com/linemk/impnet/internal/tui"
)

type App struct {
	Config  *config.Config
	Logger  *slog.Logger
	Storage storage.Storage
	Client  *apiclient.Client
	Session *session.Store

	closeStorage func() error
}

// NewApp создаёт новый экземпляр App: хранилище состояния, клиент API и сессию
func NewApp(ctx context.Context, log *slog.Logger, cfg *config.Config) (*App, error) {
	const op = "app.NewApp"

	mode, err := session.ParseRegisterMode(cfg.Session.RegisterMode)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	st, closeStorage, err := storage.Open(ctx, cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to open storage: %w", op, err)
	}

	client := apiclient.New(log, cfg.API.BaseURL, cfg.API.Timeout)

	app := &App{
		Config:       cfg,
		Logger:       log,
		Storage:      st,
		Client:       client,
		Session:      session.New(log, client, st, mode),
		closeStorage: closeStorage,
	}

	return app, nil
}

// Program собирает интерфейс; сообщения о прогрессе загрузок идут в цикл событий программы
func (a *App) Program(opts ...tea.ProgramOption) *tea.Program {
	notifier := &tui.Notifier{}
	model := tui.New(tui.Options{
		Log:        a.Logger,
		Session:    a.Session,
		Services:   tui.NewServices(a.Logger, a.Client, a.Session),
		ResolveURL: a.Client.ResolveURL,
		Theme:      a.Config.UI.Theme,
		Notifier:   notifier,
	})
	p := tea.NewProgram(model, opts...)
	notifier.Bind(p.Send)
	return p
}

func (a *App) Close() error {
	if a.closeStorage == nil {
		return nil
	}
	return a.closeStorage()
}
