package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/linemk/impnet/internal/apiclient"
	"github.com/linemk/impnet/internal/domain/models"
	"golang.org/x/sync/errgroup"
)

type DashboardAPI interface {
	ListRoles(ctx context.Context, creds apiclient.Credentials) ([]models.Role, error)
	Balance(ctx context.Context, creds apiclient.Credentials) (float64, error)
	Inbox(ctx context.Context, creds apiclient.Credentials) ([]models.Email, error)
	Version(ctx context.Context) (string, error)
}

// Dashboard - данные главной страницы
type Dashboard struct {
	Roles   []models.Role
	Balance float64
	Inbox   []models.Email
}

// RoleLabel - название роли пользователя
func (d *Dashboard) RoleLabel(user *models.User) string {
	if d == nil || user == nil {
		return RoleLoadingLabel
	}
	return RoleLabel(d.Roles, user.RoleID)
}

func (d *Dashboard) UnreadCount() int {
	if d == nil {
		return 0
	}
	n := 0
	for _, e := range d.Inbox {
		if !e.IsRead {
			n++
		}
	}
	return n
}

type DashboardService struct {
	log   *slog.Logger
	api   DashboardAPI
	creds apiclient.Credentials
}

func NewDashboardService(log *slog.Logger, api DashboardAPI, creds apiclient.Credentials) *DashboardService {
	return &DashboardService{log: log, api: api, creds: creds}
}

// Load запрашивает роли, баланс и входящие одновременно. Если хоть один запрос
// завершился ошибкой, частичный результат не возвращается.
func (s *DashboardService) Load(ctx context.Context) (*Dashboard, error) {
	const op = "service.Dashboard.Load"
	logger := s.log.With(slog.String("op", op))

	var d Dashboard
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		roles, err := s.api.ListRoles(gctx, s.creds)
		d.Roles = roles
		return err
	})
	g.Go(func() error {
		balance, err := s.api.Balance(gctx, s.creds)
		d.Balance = balance
		return err
	})
	g.Go(func() error {
		inbox, err := s.api.Inbox(gctx, s.creds)
		d.Inbox = inbox
		return err
	})
	if err := g.Wait(); err != nil {
		logger.Error("failed to load dashboard", slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &d, nil
}

// Version - баннер версии бэкенда; ошибка не мешает остальной странице
func (s *DashboardService) Version(ctx context.Context) (string, error) {
	const op = "service.Dashboard.Version"

	v, err := s.api.Version(ctx)
	if err != nil {
		s.log.Warn("failed to fetch version", slog.String("op", op), slog.Any("error", err))
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return v, nil
}
