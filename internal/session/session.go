// Package session хранит текущий токен и профиль пользователя и отвечает за вход, регистрацию и выход.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/linemk/impnet/internal/apiclient"
	"github.com/linemk/impnet/internal/domain/models"
	"github.com/linemk/impnet/internal/storage"
)

type State int

const (
	StateUnauthenticated State = iota
	StateLoading
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unauthenticated"
	}
}

// RegisterMode определяет, что происходит с токеном из ответа регистрации
type RegisterMode string

const (
	// RegisterAutoLogin - токен регистрации принимается как при входе
	RegisterAutoLogin RegisterMode = "auto_login"
	// RegisterThenLogin - аккаунт создаётся, токен отбрасывается, нужен явный вход
	RegisterThenLogin RegisterMode = "then_login"
)

var ErrUnknownRegisterMode = errors.New("unknown register mode")

func ParseRegisterMode(s string) (RegisterMode, error) {
	switch RegisterMode(s) {
	case RegisterAutoLogin, "":
		return RegisterAutoLogin, nil
	case RegisterThenLogin:
		return RegisterThenLogin, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownRegisterMode, s)
	}
}

// AuthAPI - часть клиента API, нужная сессии
type AuthAPI interface {
	Login(ctx context.Context, creds models.Credentials) (*models.AuthToken, error)
	Register(ctx context.Context, user models.NewUser) (*models.AuthToken, error)
	Me(ctx context.Context, creds apiclient.Credentials) (*models.User, error)
}

// Store - единственный владелец токена и профиля. Реализует apiclient.Credentials,
// поэтому передаётся в клиентов ресурсов как есть.
type Store struct {
	log     *slog.Logger
	api     AuthAPI
	storage storage.Storage
	mode    RegisterMode
	now     func() time.Time

	mu       sync.RWMutex
	token    string
	identity *models.User
	loading  bool
}

// New создаёт сессию в состоянии загрузки; оно снимается в Bootstrap
func New(log *slog.Logger, api AuthAPI, st storage.Storage, mode RegisterMode) *Store {
	return &Store{
		log:     log,
		api:     api,
		storage: st,
		mode:    mode,
		now:     time.Now,
		loading: true,
	}
}

func (s *Store) BearerToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// CurrentIdentity возвращает копию профиля или nil
func (s *Store) CurrentIdentity() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return nil
	}
	u := *s.identity
	return &u
}

func (s *Store) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	switch {
	case s.loading:
		return StateLoading
	case s.token != "" && s.identity != nil:
		return StateAuthenticated
	default:
		return StateUnauthenticated
	}
}

func (s *Store) RegisterMode() RegisterMode {
	return s.mode
}

// Bootstrap восстанавливает сессию из сохранённого токена. Если токен просрочен
// или /auth/me не ответил профилем, сессия сбрасывается.
func (s *Store) Bootstrap(ctx context.Context) error {
	const op = "session.Bootstrap"
	logger := s.log.With(slog.String("op", op))

	defer func() {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
	}()

	token, err := s.storage.Get(ctx, storage.KeyToken)
	if errors.Is(err, storage.ErrNotFound) || (err == nil && token == "") {
		logger.Debug("no saved token")
		return nil
	}
	if err != nil {
		logger.Error("failed to read saved token", slog.Any("error", err))
		return fmt.Errorf("%s: %w", op, err)
	}

	if tokenExpired(token, s.now()) {
		logger.Info("saved token expired")
		s.Logout(ctx)
		return nil
	}

	user, err := s.api.Me(ctx, apiclient.Token(token))
	if err != nil {
		logger.Warn("identity fetch failed, logging out", slog.Any("error", err))
		s.Logout(ctx)
		return fmt.Errorf("%s: %w", op, err)
	}

	s.adopt(token, user)
	logger.Info("session restored", slog.String("user_id", user.ID))
	return nil
}

// Login выполняет вход. При ошибке состояние не меняется.
func (s *Store) Login(ctx context.Context, email, password string) (*models.User, error) {
	const op = "session.Login"
	logger := s.log.With(slog.String("op", op))

	tok, err := s.api.Login(ctx, models.Credentials{Email: email, Password: password})
	if err != nil {
		logger.Warn("login failed", slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.persist(ctx, tok.AccessToken)
	user := tok.User
	s.adopt(tok.AccessToken, &user)
	logger.Info("logged in", slog.String("user_id", user.ID))
	return s.CurrentIdentity(), nil
}

// Register создаёт аккаунт. В режиме RegisterThenLogin возвращает nil-профиль
// и оставляет сессию неавторизованной.
func (s *Store) Register(ctx context.Context, nu models.NewUser) (*models.User, error) {
	const op = "session.Register"
	logger := s.log.With(slog.String("op", op), slog.String("mode", string(s.mode)))

	tok, err := s.api.Register(ctx, nu)
	if err != nil {
		logger.Warn("registration failed", slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if s.mode == RegisterThenLogin {
		logger.Info("registered, explicit login required", slog.String("user_id", tok.User.ID))
		return nil, nil
	}

	s.persist(ctx, tok.AccessToken)
	user := tok.User
	s.adopt(tok.AccessToken, &user)
	logger.Info("registered and logged in", slog.String("user_id", user.ID))
	return s.CurrentIdentity(), nil
}

// Logout сбрасывает токен и профиль. Никогда не возвращает ошибку, повторный вызов безопасен.
func (s *Store) Logout(ctx context.Context) {
	const op = "session.Logout"

	s.mu.Lock()
	s.token = ""
	s.identity = nil
	s.mu.Unlock()

	if err := s.storage.Delete(ctx, storage.KeyToken); err != nil {
		s.log.With(slog.String("op", op)).Error("failed to delete saved token", slog.Any("error", err))
	}
}

// Theme возвращает сохранённую тему или fallback
func (s *Store) Theme(ctx context.Context, fallback string) string {
	theme, err := s.storage.Get(ctx, storage.KeyTheme)
	if err != nil || theme == "" {
		return fallback
	}
	return theme
}

func (s *Store) SetTheme(ctx context.Context, theme string) error {
	const op = "session.SetTheme"
	if err := s.storage.Set(ctx, storage.KeyTheme, theme); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Store) adopt(token string, user *models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.identity = user
}

// persist сохраняет токен; сбой хранилища не мешает работать в текущем запуске
func (s *Store) persist(ctx context.Context, token string) {
	if err := s.storage.Set(ctx, storage.KeyToken, token); err != nil {
		s.log.Error("failed to save token", slog.String("op", "session.persist"), slog.Any("error", err))
	}
}
