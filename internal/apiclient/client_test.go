package apiclient_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/linemk/impnet/internal/apiclient"
	"github.com/linemk/impnet/internal/domain/models"
	"github.com/linemk/impnet/internal/mockapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var logger = slog.New(slog.NewTextHandler(io.Discard, nil))

func newBackend(t *testing.T) (*apiclient.Client, *httptest.Server) {
	srv, err := mockapi.New(logger, mockapi.Options{
		Secret:     []byte("test-secret"),
		TokenTTL:   time.Minute,
		BcryptCost: bcrypt.MinCost,
	})
	require.NoError(t, err)
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)
	return apiclient.New(logger, ts.URL, 0), ts
}

func loginAdmin(t *testing.T, c *apiclient.Client) apiclient.Token {
	tok, err := c.Login(context.Background(), models.Credentials{Email: "admin@impnet.ru", Password: "admin123"})
	require.NoError(t, err)
	return apiclient.Token(tok.AccessToken)
}

func registerUser(t *testing.T, c *apiclient.Client, username string) (apiclient.Token, models.User) {
	tok, err := c.Register(context.Background(), models.NewUser{
		Email:    username + "@impnet.ru",
		Username: username,
		FullName: "User " + username,
		Password: "password",
	})
	require.NoError(t, err)
	return apiclient.Token(tok.AccessToken), tok.User
}

func passportForm() models.PassportForm {
	return models.PassportForm{
		FirstName: "Иван", LastName: "Иванов", BirthDate: "1990-05-17",
		BirthPlace: "Москва", Gender: "М", IssuePlace: "МФЦ",
	}
}

func TestLogin_Success(t *testing.T) {
	c, _ := newBackend(t)

	tok, err := c.Login(context.Background(), models.Credentials{Email: "admin@impnet.ru", Password: "admin123"})
	require.NoError(t, err)
	assert.NotEmpty(t, tok.AccessToken)
	assert.Equal(t, "bearer", tok.TokenType)
	assert.Equal(t, "admin@impnet.ru", tok.User.Email)

	me, err := c.Me(context.Background(), apiclient.Token(tok.AccessToken))
	require.NoError(t, err)
	assert.Equal(t, tok.User.ID, me.ID)
}

func TestLogin_WrongPassword(t *testing.T) {
	c, _ := newBackend(t)

	_, err := c.Login(context.Background(), models.Credentials{Email: "admin@impnet.ru", Password: "wrong"})
	require.Error(t, err)
	assert.ErrorIs(t, err, apiclient.ErrUnauthorized)

	var apiErr *apiclient.Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "Incorrect email or password", apiclient.Message(err, "fallback"))
}

func TestLogin_ValidationBeforeRequest(t *testing.T) {
	var hits int
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { hits++ }))
	defer ts.Close()
	c := apiclient.New(logger, ts.URL, 0)

	_, err := c.Login(context.Background(), models.Credentials{Email: "", Password: ""})
	assert.ErrorIs(t, err, apiclient.ErrValidation)
	assert.Equal(t, 0, hits)
}

func TestMe_WithoutToken(t *testing.T) {
	c, _ := newBackend(t)
	_, err := c.Me(context.Background(), apiclient.Anonymous)
	assert.ErrorIs(t, err, apiclient.ErrUnauthorized)
}

func TestBearerHeaderIsPerRequest(t *testing.T) {
	var (
		mu   sync.Mutex
		seen []string
	)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		seen = append(seen, r.Header.Get("Authorization"))
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"balance": 1}`))
	}))
	defer ts.Close()
	c := apiclient.New(logger, ts.URL, 0)

	_, err := c.Balance(context.Background(), apiclient.Token("first"))
	require.NoError(t, err)
	_, err = c.Balance(context.Background(), apiclient.Anonymous)
	require.NoError(t, err)
	_, err = c.Balance(context.Background(), nil)
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"Bearer first", "", ""}, seen)
}

func TestServerErrorDetail(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"detail": "db is down"}`))
	}))
	defer ts.Close()
	c := apiclient.New(logger, ts.URL, 0)

	_, err := c.Inbox(context.Background(), apiclient.Token("t"))
	assert.ErrorIs(t, err, apiclient.ErrServer)
	assert.Equal(t, "db is down", apiclient.Message(err, "fallback"))
}

func TestValidationListDetail(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"detail": [{"loc": ["body", "email"], "msg": "field required"}]}`))
	}))
	defer ts.Close()
	c := apiclient.New(logger, ts.URL, 0)

	_, err := c.Messages(context.Background(), apiclient.Token("t"))
	assert.ErrorIs(t, err, apiclient.ErrValidation)
	assert.Equal(t, "field required", apiclient.Message(err, "fallback"))
}

func TestTransportError(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()
	c := apiclient.New(logger, url, 0)

	_, err := c.ListRoles(context.Background(), apiclient.Token("t"))
	assert.ErrorIs(t, err, apiclient.ErrTransport)
	assert.Equal(t, "Ошибка сети", apiclient.Message(err, "Ошибка сети"))
}

func TestVersion(t *testing.T) {
	c, _ := newBackend(t)
	v, err := c.Version(context.Background())
	require.NoError(t, err)
	assert.Equal(t, mockapi.Version, v)
}

func TestRolesAndUsers(t *testing.T) {
	c, _ := newBackend(t)
	admin := loginAdmin(t, c)
	user, _ := registerUser(t, c, "plain")

	roles, err := c.ListRoles(context.Background(), user)
	require.NoError(t, err)
	assert.Len(t, roles, 4)

	_, err = c.ListUsers(context.Background(), user)
	assert.ErrorIs(t, err, apiclient.ErrUnauthorized)
	users, err := c.ListUsers(context.Background(), admin)
	require.NoError(t, err)
	assert.Len(t, users, 2)

	created, err := c.CreateRole(context.Background(), admin, models.NewRole{
		Name: "auditor", DisplayName: "Аудитор", Permissions: []string{"user"},
	})
	require.NoError(t, err)
	assert.Equal(t, "auditor", created.Name)

	_, err = c.CreateRole(context.Background(), admin, models.NewRole{Name: "auditor", DisplayName: "Аудитор"})
	assert.ErrorIs(t, err, apiclient.ErrValidation)
	assert.Equal(t, "Role name already exists", apiclient.Message(err, ""))
}

func TestTransfer(t *testing.T) {
	ctx := context.Background()
	c, _ := newBackend(t)
	alice, _ := registerUser(t, c, "alice")
	_, bob := registerUser(t, c, "bob")

	recipients, err := c.BankingUsers(ctx, alice)
	require.NoError(t, err)
	ids := make([]string, 0, len(recipients))
	for _, u := range recipients {
		ids = append(ids, u.ID)
	}
	assert.Contains(t, ids, bob.ID)

	// сумма <= 0 отклоняется до запроса
	_, err = c.Transfer(ctx, alice, models.Transfer{ToUserID: bob.ID, Amount: 0})
	assert.ErrorIs(t, err, apiclient.ErrValidation)
	var vErr *apiclient.ValidationError
	assert.True(t, errors.As(err, &vErr))

	_, err = c.Transfer(ctx, alice, models.Transfer{ToUserID: "ghost", Amount: 10})
	assert.ErrorIs(t, err, apiclient.ErrNotFound)

	balance, err := c.Balance(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, float64(1000), balance)

	tx, err := c.Transfer(ctx, alice, models.Transfer{ToUserID: bob.ID, Amount: 100, Description: "кофе"})
	require.NoError(t, err)
	assert.Equal(t, float64(100), tx.Amount)

	balance, err = c.Balance(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, float64(900), balance)

	txs, err := c.Transactions(ctx, alice)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, "transfer_sent", txs[0].TransactionType)
}

func TestChat(t *testing.T) {
	ctx := context.Background()
	c, _ := newBackend(t)
	tok, _ := registerUser(t, c, "talker")

	_, err := c.SendMessage(ctx, tok, "")
	assert.ErrorIs(t, err, apiclient.ErrValidation)

	_, err = c.SendMessage(ctx, tok, "первое")
	require.NoError(t, err)
	_, err = c.SendMessage(ctx, tok, "второе")
	require.NoError(t, err)

	msgs, err := c.Messages(ctx, tok)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "второе", msgs[0].Message)
	assert.Equal(t, "talker", msgs[0].Username)
}

func TestEmail(t *testing.T) {
	ctx := context.Background()
	c, _ := newBackend(t)
	alice, _ := registerUser(t, c, "alice")
	bob, _ := registerUser(t, c, "bob")

	_, err := c.SendEmail(ctx, alice, models.NewEmail{ToEmail: "not-an-email", Subject: "x"})
	assert.ErrorIs(t, err, apiclient.ErrValidation)

	sent, err := c.SendEmail(ctx, alice, models.NewEmail{ToEmail: "bob@impnet.ru", Subject: "Тема", Body: "Текст"})
	require.NoError(t, err)

	inbox, err := c.Inbox(ctx, bob)
	require.NoError(t, err)
	require.Len(t, inbox, 1)
	assert.False(t, inbox[0].IsRead)

	outbox, err := c.Sent(ctx, alice)
	require.NoError(t, err)
	assert.Len(t, outbox, 1)

	// повторная отметка не ошибка
	require.NoError(t, c.MarkRead(ctx, bob, sent.ID))
	require.NoError(t, c.MarkRead(ctx, bob, sent.ID))

	inbox, err = c.Inbox(ctx, bob)
	require.NoError(t, err)
	assert.True(t, inbox[0].IsRead)

	assert.ErrorIs(t, c.MarkRead(ctx, bob, ""), apiclient.ErrValidation)
}

func TestPassport(t *testing.T) {
	ctx := context.Background()
	c, _ := newBackend(t)
	tok, _ := registerUser(t, c, "citizen")

	_, err := c.GetPassport(ctx, tok)
	assert.ErrorIs(t, err, apiclient.ErrNotFound)

	form := passportForm()
	bad := form
	bad.Gender = "X"
	_, err = c.CreatePassport(ctx, tok, bad)
	assert.ErrorIs(t, err, apiclient.ErrValidation)

	created, err := c.CreatePassport(ctx, tok, form)
	require.NoError(t, err)
	assert.Len(t, created.Series, 4)
	assert.Len(t, created.Number, 6)

	form.IssuePlace = "ОВД"
	replaced, err := c.ReplacePassport(ctx, tok, form)
	require.NoError(t, err)
	assert.Equal(t, "ОВД", replaced.IssuePlace)
	assert.Equal(t, created.Number, replaced.Number)

	assert.ErrorIs(t, c.SetPassportPhoto(ctx, tok, "missing"), apiclient.ErrNotFound)
}

func TestSearch_DefaultsToAll(t *testing.T) {
	ctx := context.Background()
	c, _ := newBackend(t)
	tok, _ := registerUser(t, c, "seeker")
	_, err := c.SendMessage(ctx, tok, "ищу seeker")
	require.NoError(t, err)

	res, err := c.Search(ctx, tok, models.SearchQuery{Query: "seeker"})
	require.NoError(t, err)
	assert.Len(t, res.Messages, 1)
	assert.Len(t, res.Users, 1)
	assert.Equal(t, 2, res.Total())

	_, err = c.Search(ctx, tok, models.SearchQuery{Query: "x", SearchType: "bogus"})
	assert.ErrorIs(t, err, apiclient.ErrValidation)
}

func TestResolveURL(t *testing.T) {
	c := apiclient.New(logger, "http://host:8001/", 0)
	assert.Equal(t, "http://host:8001/uploads/documents/1", c.ResolveURL("/uploads/documents/1"))
	assert.Equal(t, "https://cdn/x.png", c.ResolveURL("https://cdn/x.png"))
	assert.Equal(t, "", c.ResolveURL(""))
}
