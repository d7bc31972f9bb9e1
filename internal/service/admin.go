package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/linemk/impnet/internal/apiclient"
	"github.com/linemk/impnet/internal/domain/models"
	"golang.org/x/sync/errgroup"
)

// PermissionAdmin открывает раздел администрирования
const PermissionAdmin = "admin"

type AdminAPI interface {
	ListRoles(ctx context.Context, creds apiclient.Credentials) ([]models.Role, error)
	CreateRole(ctx context.Context, creds apiclient.Credentials, role models.NewRole) (*models.Role, error)
	ListUsers(ctx context.Context, creds apiclient.Credentials) ([]models.User, error)
}

type Directory struct {
	Roles []models.Role
	Users []models.User
}

type AdminService struct {
	log   *slog.Logger
	api   AdminAPI
	creds apiclient.Credentials
}

func NewAdminService(log *slog.Logger, api AdminAPI, creds apiclient.Credentials) *AdminService {
	return &AdminService{log: log, api: api, creds: creds}
}

// IsAdmin проверяет право admin у роли пользователя
func IsAdmin(roles []models.Role, user *models.User) bool {
	if user == nil {
		return false
	}
	for _, r := range roles {
		if r.ID == user.RoleID {
			return r.HasPermission(PermissionAdmin)
		}
	}
	return false
}

func (s *AdminService) Load(ctx context.Context) (*Directory, error) {
	const op = "service.Admin.Load"

	var d Directory
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		roles, err := s.api.ListRoles(gctx, s.creds)
		d.Roles = roles
		return err
	})
	g.Go(func() error {
		users, err := s.api.ListUsers(gctx, s.creds)
		d.Users = users
		return err
	})
	if err := g.Wait(); err != nil {
		s.log.Error("failed to load directory", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &d, nil
}

// CreateRole создаёт роль и перечитывает справочник
func (s *AdminService) CreateRole(ctx context.Context, role models.NewRole) (*Directory, error) {
	const op = "service.Admin.CreateRole"

	if _, err := s.api.CreateRole(ctx, s.creds, role); err != nil {
		s.log.Warn("failed to create role", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s.Load(ctx)
}
