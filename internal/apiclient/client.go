package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Credentials - источник bearer-токена. Передаётся в каждый вызов явно,
// глобального заголовка по умолчанию нет.
type Credentials interface {
	BearerToken() string
}

// Token - готовый токен как Credentials
type Token string

func (t Token) BearerToken() string {
	return string(t)
}

// Anonymous - запрос без авторизации (вход, регистрация)
const Anonymous = Token("")

// Client - тонкая обёртка над REST API impNet. Ничего не кэширует и не повторяет.
type Client struct {
	log     *slog.Logger
	root    string
	baseURL string
	http    *http.Client
}

// New создаёт клиента для бэкенда по адресу root; префикс /api добавляется автоматически.
// timeout = 0 оставляет таймаут транспорта по умолчанию.
func New(log *slog.Logger, root string, timeout time.Duration) *Client {
	return NewWithHTTPClient(log, root, &http.Client{Timeout: timeout})
}

func NewWithHTTPClient(log *slog.Logger, root string, httpClient *http.Client) *Client {
	root = strings.TrimRight(root, "/")
	return &Client{
		log:     log,
		root:    root,
		baseURL: root + "/api",
		http:    httpClient,
	}
}

// ResolveURL превращает относительный url документа или фото (/uploads/...) в полный адрес
func (c *Client) ResolveURL(path string) string {
	if path == "" || strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return c.root + path
}

// doJSON отправляет body как JSON (если он не nil) и декодирует ответ в out (если он не nil)
func (c *Client) doJSON(ctx context.Context, method, path string, creds Credentials, body, out interface{}) error {
	var reader io.Reader
	contentType := ""
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
		contentType = "application/json"
	}

	req, err := c.newRequest(ctx, method, path, creds, reader, contentType)
	if err != nil {
		return err
	}
	return c.send(req, out)
}

func (c *Client) newRequest(ctx context.Context, method, path string, creds Credentials, body io.Reader, contentType string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	if creds != nil {
		if token := creds.BearerToken(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	return req, nil
}

func (c *Client) send(req *http.Request, out interface{}) error {
	const op = "apiclient.send"
	logger := c.log.With(
		slog.String("op", op),
		slog.String("method", req.Method),
		slog.String("path", req.URL.Path),
	)

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		logger.Error("request failed", slog.Any("error", err))
		return fmt.Errorf("%s %s: %w: %w", req.Method, req.URL.Path, ErrTransport, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		logger.Error("failed to read response", slog.Any("error", err))
		return fmt.Errorf("%s %s: %w: %w", req.Method, req.URL.Path, ErrTransport, err)
	}

	logger.Debug("response received",
		slog.Int("status", resp.StatusCode),
		slog.Duration("elapsed", time.Since(started)),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := newError(resp.StatusCode, body)
		logger.Warn("request rejected", slog.Int("status", resp.StatusCode), slog.String("detail", apiErr.Detail))
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		logger.Error("failed to decode response", slog.Any("error", err))
		return fmt.Errorf("%s %s: failed to decode response: %w", req.Method, req.URL.Path, err)
	}
	return nil
}
