package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Классы ошибок. Любая ошибка клиента оборачивает ровно один из них.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("not found")
	ErrServer       = errors.New("server error")
	ErrTransport    = errors.New("transport error")
)

// Error - ответ бэкенда со статусом не 2xx
type Error struct {
	StatusCode int
	Detail     string
	kind       error
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("api error %d", e.StatusCode)
}

func (e *Error) Unwrap() error {
	return e.kind
}

func newError(status int, body []byte) *Error {
	return &Error{
		StatusCode: status,
		Detail:     parseDetail(body),
		kind:       kindForStatus(status),
	}
}

func kindForStatus(status int) error {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return ErrUnauthorized
	case status == http.StatusNotFound:
		return ErrNotFound
	case status >= 400 && status < 500:
		return ErrValidation
	default:
		return ErrServer
	}
}

// parseDetail достаёт поле detail: строку или первый элемент списка ошибок валидации FastAPI
func parseDetail(body []byte) string {
	var payload struct {
		Detail  json.RawMessage `json:"detail"`
		Message string          `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if len(payload.Detail) == 0 {
		return payload.Message
	}

	var detail string
	if err := json.Unmarshal(payload.Detail, &detail); err == nil {
		return detail
	}

	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(payload.Detail, &items); err == nil && len(items) > 0 {
		return items[0].Msg
	}
	return ""
}

// FieldError - ошибка одного поля формы
type FieldError struct {
	Field   string
	Message string
}

// ValidationError - форма не прошла проверку на стороне клиента, запрос не отправлялся
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// Message возвращает текст для пользователя: detail от сервера или текст проверки формы,
// иначе fallback
func Message(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return vErr.Error()
	}
	return fallback
}
