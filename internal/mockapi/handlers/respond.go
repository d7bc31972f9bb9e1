package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/linemk/impnet/internal/mockapi/jwtauth"
	"github.com/linemk/impnet/internal/mockapi/memstore"
)

var validate = validator.New()

// errorResponse - тело ошибки в формате FastAPI
type errorResponse struct {
	Detail string `json:"detail"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(logger *slog.Logger, w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to encode response", slog.Any("error", err))
	}
}

func writeError(logger *slog.Logger, w http.ResponseWriter, status int, detail string) {
	writeJSON(logger, w, status, errorResponse{Detail: detail})
}

// decodeJSON читает тело запроса и проверяет теги validate; при ошибке ответ уже отправлен
func decodeJSON(logger *slog.Logger, w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		logger.Error("invalid request: decoding error", slog.Any("error", err))
		writeError(logger, w, http.StatusUnprocessableEntity, "invalid request body")
		return false
	}
	if err := validate.Struct(v); err != nil {
		logger.Error("invalid request: validation error", slog.Any("error", err))
		writeError(logger, w, http.StatusUnprocessableEntity, validationDetail(err))
		return false
	}
	return true
}

func validationDetail(err error) string {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return fe.Field() + ": failed on " + fe.Tag()
	}
	return "validation error"
}

// currentUser достаёт userID, установленный JWT middleware
func currentUser(logger *slog.Logger, w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := jwtauth.FromContext(r.Context())
	if !ok {
		logger.Error("userID not found in context")
		writeError(logger, w, http.StatusUnauthorized, "Not authenticated")
		return "", false
	}
	return userID, true
}

// writeStoreError переводит ошибку хранилища в HTTP-статус
func writeStoreError(logger *slog.Logger, w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	detail := "internal server error"

	switch {
	case errors.Is(err, memstore.ErrInvalidCreds):
		status, detail = http.StatusUnauthorized, "Incorrect email or password"
	case errors.Is(err, memstore.ErrInactiveUser):
		status, detail = http.StatusBadRequest, "Inactive user"
	case errors.Is(err, memstore.ErrEmailTaken):
		status, detail = http.StatusBadRequest, "Email already registered"
	case errors.Is(err, memstore.ErrUsernameTaken):
		status, detail = http.StatusBadRequest, "Username already taken"
	case errors.Is(err, memstore.ErrRoleExists):
		status, detail = http.StatusBadRequest, "Role name already exists"
	case errors.Is(err, memstore.ErrRoleNotFound):
		status, detail = http.StatusBadRequest, "Role not found"
	case errors.Is(err, memstore.ErrInvalidAmount):
		status, detail = http.StatusBadRequest, "Amount must be positive"
	case errors.Is(err, memstore.ErrSelfTransfer):
		status, detail = http.StatusBadRequest, "Cannot transfer to yourself"
	case errors.Is(err, memstore.ErrInsufficientFunds):
		status, detail = http.StatusBadRequest, "Insufficient funds"
	case errors.Is(err, memstore.ErrPassportExists):
		status, detail = http.StatusBadRequest, "Passport already exists"
	case errors.Is(err, memstore.ErrNotAnImage):
		status, detail = http.StatusBadRequest, "Document is not an image"
	case errors.Is(err, memstore.ErrRecipientNotFound):
		status, detail = http.StatusNotFound, "Recipient not found"
	case errors.Is(err, memstore.ErrUserNotFound):
		status, detail = http.StatusUnauthorized, "Could not validate credentials"
	case errors.Is(err, memstore.ErrEmailNotFound):
		status, detail = http.StatusNotFound, "Email not found"
	case errors.Is(err, memstore.ErrDocumentNotFound):
		status, detail = http.StatusNotFound, "Document not found"
	case errors.Is(err, memstore.ErrFileNotFound):
		status, detail = http.StatusNotFound, "File not found"
	case errors.Is(err, memstore.ErrPassportNotFound):
		status, detail = http.StatusNotFound, "Passport not found"
	}

	if status >= http.StatusInternalServerError {
		logger.Error("request failed", slog.Any("error", err))
	} else {
		logger.Warn("request rejected", slog.Any("error", err))
	}
	writeError(logger, w, status, detail)
}
