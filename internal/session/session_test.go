package session_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/linemk/impnet/internal/apiclient"
	"github.com/linemk/impnet/internal/domain/models"
	"github.com/linemk/impnet/internal/mockapi"
	"github.com/linemk/impnet/internal/mockapi/jwtauth"
	"github.com/linemk/impnet/internal/session"
	"github.com/linemk/impnet/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var logger = slog.New(slog.NewTextHandler(io.Discard, nil))

func newClient(t *testing.T) *apiclient.Client {
	srv, err := mockapi.New(logger, mockapi.Options{
		Secret:     []byte("test-secret"),
		TokenTTL:   time.Minute,
		BcryptCost: bcrypt.MinCost,
	})
	require.NoError(t, err)
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)
	return apiclient.New(logger, ts.URL, 0)
}

func newFileStorage(t *testing.T) *storage.FileStorage {
	st, err := storage.NewFileStorage(filepath.Join(t.TempDir(), "state.yaml"))
	require.NoError(t, err)
	return st
}

// fakeAuthAPI считает обращения к /auth/me
type fakeAuthAPI struct {
	meCalls int
	user    *models.User
	err     error
}

func (f *fakeAuthAPI) Login(ctx context.Context, creds models.Credentials) (*models.AuthToken, error) {
	return nil, f.err
}

func (f *fakeAuthAPI) Register(ctx context.Context, user models.NewUser) (*models.AuthToken, error) {
	return nil, f.err
}

func (f *fakeAuthAPI) Me(ctx context.Context, creds apiclient.Credentials) (*models.User, error) {
	f.meCalls++
	return f.user, f.err
}

// brokenStorage отказывает на любой операции
type brokenStorage struct{}

func (brokenStorage) Get(ctx context.Context, key string) (string, error) {
	return "", errors.New("disk failure")
}
func (brokenStorage) Set(ctx context.Context, key, value string) error { return errors.New("disk failure") }
func (brokenStorage) Delete(ctx context.Context, key string) error     { return errors.New("disk failure") }

func TestParseRegisterMode(t *testing.T) {
	mode, err := session.ParseRegisterMode("then_login")
	require.NoError(t, err)
	assert.Equal(t, session.RegisterThenLogin, mode)

	mode, err = session.ParseRegisterMode("")
	require.NoError(t, err)
	assert.Equal(t, session.RegisterAutoLogin, mode)

	_, err = session.ParseRegisterMode("sometimes")
	assert.ErrorIs(t, err, session.ErrUnknownRegisterMode)
}

func TestLogin_PersistsToken(t *testing.T) {
	ctx := context.Background()
	st := newFileStorage(t)
	s := session.New(logger, newClient(t), st, session.RegisterAutoLogin)
	require.NoError(t, s.Bootstrap(ctx))
	assert.Equal(t, session.StateUnauthenticated, s.State())

	user, err := s.Login(ctx, "admin@impnet.ru", "admin123")
	require.NoError(t, err)
	assert.Equal(t, "admin@impnet.ru", user.Email)
	assert.Equal(t, session.StateAuthenticated, s.State())
	assert.Equal(t, "admin@impnet.ru", s.CurrentIdentity().Email)

	saved, err := st.Get(ctx, storage.KeyToken)
	require.NoError(t, err)
	assert.Equal(t, s.BearerToken(), saved)
	assert.NotEmpty(t, saved)
}

func TestLogin_FailureLeavesStateUntouched(t *testing.T) {
	ctx := context.Background()
	st := newFileStorage(t)
	s := session.New(logger, newClient(t), st, session.RegisterAutoLogin)
	require.NoError(t, s.Bootstrap(ctx))

	_, err := s.Login(ctx, "admin@impnet.ru", "wrong")
	require.Error(t, err)
	assert.ErrorIs(t, err, apiclient.ErrUnauthorized)
	assert.Equal(t, "Incorrect email or password", apiclient.Message(err, ""))

	assert.Nil(t, s.CurrentIdentity())
	assert.Empty(t, s.BearerToken())
	_, err = st.Get(ctx, storage.KeyToken)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestLogout_Idempotent(t *testing.T) {
	ctx := context.Background()
	st := newFileStorage(t)
	s := session.New(logger, newClient(t), st, session.RegisterAutoLogin)
	require.NoError(t, s.Bootstrap(ctx))
	_, err := s.Login(ctx, "admin@impnet.ru", "admin123")
	require.NoError(t, err)

	s.Logout(ctx)
	s.Logout(ctx)

	assert.Equal(t, session.StateUnauthenticated, s.State())
	assert.Nil(t, s.CurrentIdentity())
	assert.Empty(t, s.BearerToken())
	_, err = st.Get(ctx, storage.KeyToken)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestLogout_StorageErrorIsSwallowed(t *testing.T) {
	s := session.New(logger, &fakeAuthAPI{}, brokenStorage{}, session.RegisterAutoLogin)
	assert.NotPanics(t, func() { s.Logout(context.Background()) })
}

func TestRegister_AutoLogin(t *testing.T) {
	ctx := context.Background()
	s := session.New(logger, newClient(t), newFileStorage(t), session.RegisterAutoLogin)
	require.NoError(t, s.Bootstrap(ctx))

	user, err := s.Register(ctx, models.NewUser{
		Email: "new@impnet.ru", Username: "new", FullName: "New User", Password: "password",
	})
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, float64(1000), user.Balance)
	assert.Equal(t, session.StateAuthenticated, s.State())
}

func TestRegister_ThenLogin(t *testing.T) {
	ctx := context.Background()
	st := newFileStorage(t)
	s := session.New(logger, newClient(t), st, session.RegisterThenLogin)
	require.NoError(t, s.Bootstrap(ctx))

	user, err := s.Register(ctx, models.NewUser{
		Email: "new@impnet.ru", Username: "new", FullName: "New User", Password: "password",
	})
	require.NoError(t, err)
	assert.Nil(t, user)
	assert.Equal(t, session.StateUnauthenticated, s.State())
	_, err = st.Get(ctx, storage.KeyToken)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	user, err = s.Login(ctx, "new@impnet.ru", "password")
	require.NoError(t, err)
	assert.Equal(t, "new", user.Username)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	s := session.New(logger, newClient(t), newFileStorage(t), session.RegisterAutoLogin)

	_, err := s.Register(ctx, models.NewUser{
		Email: "admin@impnet.ru", Username: "other", FullName: "Other", Password: "password",
	})
	assert.ErrorIs(t, err, apiclient.ErrValidation)
	assert.Equal(t, "Email already registered", apiclient.Message(err, ""))
}

func TestBootstrap_RestoresSession(t *testing.T) {
	ctx := context.Background()
	client := newClient(t)
	st := newFileStorage(t)

	first := session.New(logger, client, st, session.RegisterAutoLogin)
	_, err := first.Login(ctx, "admin@impnet.ru", "admin123")
	require.NoError(t, err)

	second := session.New(logger, client, st, session.RegisterAutoLogin)
	assert.True(t, second.IsLoading())
	assert.Equal(t, session.StateLoading, second.State())

	require.NoError(t, second.Bootstrap(ctx))
	assert.False(t, second.IsLoading())
	assert.Equal(t, session.StateAuthenticated, second.State())
	assert.Equal(t, "admin@impnet.ru", second.CurrentIdentity().Email)
}

func TestBootstrap_InvalidTokenLogsOut(t *testing.T) {
	ctx := context.Background()
	st := newFileStorage(t)
	require.NoError(t, st.Set(ctx, storage.KeyToken, "garbage"))

	s := session.New(logger, newClient(t), st, session.RegisterAutoLogin)
	err := s.Bootstrap(ctx)
	assert.ErrorIs(t, err, apiclient.ErrUnauthorized)

	assert.False(t, s.IsLoading())
	assert.Equal(t, session.StateUnauthenticated, s.State())
	_, err = st.Get(ctx, storage.KeyToken)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestBootstrap_ExpiredTokenSkipsRequest(t *testing.T) {
	ctx := context.Background()
	st := newFileStorage(t)
	stale, err := jwtauth.NewToken("u1", "u1@impnet.ru", []byte("whatever"), -time.Minute)
	require.NoError(t, err)
	require.NoError(t, st.Set(ctx, storage.KeyToken, stale))

	api := &fakeAuthAPI{user: &models.User{ID: "u1"}}
	s := session.New(logger, api, st, session.RegisterAutoLogin)
	require.NoError(t, s.Bootstrap(ctx))

	assert.Equal(t, 0, api.meCalls)
	assert.Equal(t, session.StateUnauthenticated, s.State())
	_, err = st.Get(ctx, storage.KeyToken)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestBootstrap_NoToken(t *testing.T) {
	api := &fakeAuthAPI{}
	s := session.New(logger, api, newFileStorage(t), session.RegisterAutoLogin)
	require.NoError(t, s.Bootstrap(context.Background()))
	assert.Equal(t, 0, api.meCalls)
	assert.Equal(t, session.StateUnauthenticated, s.State())
}

func TestTheme(t *testing.T) {
	ctx := context.Background()
	s := session.New(logger, &fakeAuthAPI{}, newFileStorage(t), session.RegisterAutoLogin)

	assert.Equal(t, "dark", s.Theme(ctx, "dark"))
	require.NoError(t, s.SetTheme(ctx, "light"))
	assert.Equal(t, "light", s.Theme(ctx, "dark"))

	broken := session.New(logger, &fakeAuthAPI{}, brokenStorage{}, session.RegisterAutoLogin)
	assert.Equal(t, "dark", broken.Theme(ctx, "dark"))
	assert.Error(t, broken.SetTheme(ctx, "light"))
}
