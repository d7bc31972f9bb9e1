package handlers

import (
	"log/slog"
	"net/http"

	"github.com/linemk/impnet/internal/domain/models"
)

const permissionAdmin = "admin"

type RoleService interface {
	Roles() []models.Role
	CreateRole(nr models.NewRole, createdBy string) (models.Role, error)
	Users() []models.User
	HasPermission(userID, permission string) bool
}

// requireAdmin отвечает 403, если у пользователя нет права admin
func requireAdmin(logger *slog.Logger, w http.ResponseWriter, r *http.Request, roles RoleService) (string, bool) {
	userID, ok := currentUser(logger, w, r)
	if !ok {
		return "", false
	}
	if !roles.HasPermission(userID, permissionAdmin) {
		logger.Warn("permission denied", slog.String("user_id", userID))
		writeError(logger, w, http.StatusForbidden, "Not enough permissions")
		return "", false
	}
	return userID, true
}

func ListRolesHandler(log *slog.Logger, roles RoleService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ListRolesHandler"
		logger := log.With(slog.String("op", op))

		if _, ok := currentUser(logger, w, r); !ok {
			return
		}
		writeJSON(logger, w, http.StatusOK, roles.Roles())
	}
}

// CreateRoleHandler обрабатывает POST /api/roles (только admin)
func CreateRoleHandler(log *slog.Logger, roles RoleService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.CreateRoleHandler"
		logger := log.With(slog.String("op", op))

		userID, ok := requireAdmin(logger, w, r, roles)
		if !ok {
			return
		}

		var req models.NewRole
		if !decodeJSON(logger, w, r, &req) {
			return
		}

		role, err := roles.CreateRole(req, userID)
		if err != nil {
			writeStoreError(logger, w, err)
			return
		}
		writeJSON(logger, w, http.StatusOK, role)
	}
}

// ListUsersHandler обрабатывает GET /api/users (только admin)
func ListUsersHandler(log *slog.Logger, roles RoleService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ListUsersHandler"
		logger := log.With(slog.String("op", op))

		if _, ok := requireAdmin(logger, w, r, roles); !ok {
			return
		}
		writeJSON(logger, w, http.StatusOK, roles.Users())
	}
}

// VersionHandler обрабатывает GET /api/
func VersionHandler(log *slog.Logger, version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(slog.String("op", "handlers.VersionHandler"))
		writeJSON(logger, w, http.StatusOK, messageResponse{Message: version})
	}
}
