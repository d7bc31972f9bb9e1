package service_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/linemk/impnet/internal/apiclient"
	"github.com/linemk/impnet/internal/domain/models"
	"github.com/linemk/impnet/internal/mockapi"
	"github.com/linemk/impnet/internal/service"
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

func login(t *testing.T, c *apiclient.Client, email, password string) (apiclient.Token, models.User) {
	tok, err := c.Login(context.Background(), models.Credentials{Email: email, Password: password})
	require.NoError(t, err)
	return apiclient.Token(tok.AccessToken), tok.User
}

func register(t *testing.T, c *apiclient.Client, username string) (apiclient.Token, models.User) {
	tok, err := c.Register(context.Background(), models.NewUser{
		Email: username + "@impnet.ru", Username: username, FullName: "User " + username, Password: "password",
	})
	require.NoError(t, err)
	return apiclient.Token(tok.AccessToken), tok.User
}

func TestDashboard_AdminRoleLabel(t *testing.T) {
	c := newClient(t)
	tok, admin := login(t, c, "admin@impnet.ru", "admin123")

	svc := service.NewDashboardService(logger, c, tok)
	d, err := svc.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Супер Администратор", d.RoleLabel(&admin))
	assert.Equal(t, float64(100000), d.Balance)
	assert.Equal(t, 0, d.UnreadCount())
	assert.True(t, service.IsAdmin(d.Roles, &admin))

	var empty *service.Dashboard
	assert.Equal(t, service.RoleLoadingLabel, empty.RoleLabel(&admin))

	v, err := svc.Version(context.Background())
	require.NoError(t, err)
	assert.Equal(t, mockapi.Version, v)
}

func TestDashboard_UnreadCount(t *testing.T) {
	ctx := context.Background()
	c := newClient(t)
	alice, _ := register(t, c, "alice")
	bob, bobUser := register(t, c, "bob")

	_, err := c.SendEmail(ctx, alice, models.NewEmail{ToEmail: bobUser.Email, Subject: "1"})
	require.NoError(t, err)
	_, err = c.SendEmail(ctx, alice, models.NewEmail{ToEmail: bobUser.Email, Subject: "2"})
	require.NoError(t, err)

	d, err := service.NewDashboardService(logger, c, bob).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, d.UnreadCount())
	assert.Equal(t, "Гражданин", d.RoleLabel(&bobUser))
	assert.False(t, service.IsAdmin(d.Roles, &bobUser))
}

func TestDashboard_JoinedFetchFailsWhole(t *testing.T) {
	c := newClient(t)
	d, err := service.NewDashboardService(logger, c, apiclient.Token("bad")).Load(context.Background())
	assert.Nil(t, d, "no partial result")
	assert.ErrorIs(t, err, apiclient.ErrUnauthorized)
}

func TestAdmin_CreateRoleRefetches(t *testing.T) {
	c := newClient(t)
	tok, _ := login(t, c, "admin@impnet.ru", "admin123")
	svc := service.NewAdminService(logger, c, tok)

	dir, err := svc.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, dir.Roles, 4)
	assert.Len(t, dir.Users, 1)

	dir, err = svc.CreateRole(context.Background(), models.NewRole{Name: "auditor", DisplayName: "Аудитор"})
	require.NoError(t, err)
	assert.Len(t, dir.Roles, 5)
}

func TestBanking_RejectedTransferKeepsBalance(t *testing.T) {
	ctx := context.Background()
	c := newClient(t)
	alice, _ := register(t, c, "alice")
	_, bob := register(t, c, "bob")
	svc := service.NewBankingService(logger, c, alice)

	before, err := svc.Load(ctx)
	require.NoError(t, err)
	_, ok := before.Recipient(bob.ID)
	assert.True(t, ok)

	for _, tr := range []models.Transfer{
		{ToUserID: bob.ID, Amount: 0},
		{ToUserID: bob.ID, Amount: -10},
		{ToUserID: "ghost", Amount: 10},
		{ToUserID: "", Amount: 10},
		{ToUserID: bob.ID, Amount: 5000},
	} {
		acc, err := svc.Transfer(ctx, tr)
		assert.Error(t, err)
		assert.Nil(t, acc)
	}

	after, err := svc.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, before.Balance, after.Balance)
	assert.Empty(t, after.Transactions)

	acc, err := svc.Transfer(ctx, models.Transfer{ToUserID: bob.ID, Amount: 99.5, Description: "чай"})
	require.NoError(t, err)
	assert.Equal(t, 900.5, acc.Balance)
	assert.Len(t, acc.Transactions, 1)
}

func TestParseAmount(t *testing.T) {
	v, err := service.ParseAmount(" 100,50 ")
	require.NoError(t, err)
	assert.Equal(t, 100.5, v)

	_, err = service.ParseAmount("")
	assert.ErrorIs(t, err, apiclient.ErrValidation)
	_, err = service.ParseAmount("сто")
	assert.ErrorIs(t, err, apiclient.ErrValidation)

	for _, text := range []string{"Inf", "+Inf", "-inf", "NaN", "1e400"} {
		_, err = service.ParseAmount(text)
		var vErr *apiclient.ValidationError
		require.ErrorAs(t, err, &vErr, text)
		assert.Equal(t, "Invalid value", vErr.Fields[0].Message, text)
	}
}

func TestChat_SendAppearsOnceOldestFirst(t *testing.T) {
	ctx := context.Background()
	c := newClient(t)
	tok, _ := register(t, c, "talker")
	svc := service.NewChatService(logger, c, tok)

	_, err := svc.Send(ctx, "первое")
	require.NoError(t, err)
	msgs, err := svc.Send(ctx, "второе")
	require.NoError(t, err)

	require.Len(t, msgs, 2)
	assert.Equal(t, "первое", msgs[0].Message)
	assert.Equal(t, "второе", msgs[1].Message)

	count := 0
	for _, m := range msgs {
		if m.Message == "второе" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestEmail_OpenMarksReadIdempotent(t *testing.T) {
	ctx := context.Background()
	c := newClient(t)
	alice, _ := register(t, c, "alice")
	bob, bobUser := register(t, c, "bob")

	_, err := service.NewEmailService(logger, c, alice).Send(ctx, models.NewEmail{ToEmail: bobUser.Email, Subject: "Тема"})
	require.NoError(t, err)

	svc := service.NewEmailService(logger, c, bob)
	box, err := svc.Load(ctx)
	require.NoError(t, err)
	require.Len(t, box.Inbox, 1)
	assert.Empty(t, box.Sent)
	id := box.Inbox[0].ID

	box, err = svc.Open(ctx, id)
	require.NoError(t, err)
	assert.True(t, box.Inbox[0].IsRead)

	box, err = svc.Open(ctx, id)
	require.NoError(t, err)
	assert.True(t, box.Inbox[0].IsRead)
}

func TestFiles_UploadRefetches(t *testing.T) {
	ctx := context.Background()
	c := newClient(t)
	tok, _ := register(t, c, "sharer")
	svc := service.NewFilesService(logger, c, tok)

	var last int
	files, err := svc.Upload(ctx, apiclient.Upload{
		Name: "a.txt", ContentType: "text/plain", Size: 5, Body: strings.NewReader("hello"),
	}, true, func(p int) { last = p })
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "a.txt", files[0].DisplayName())
	assert.Equal(t, 100, last)
}

func TestDocuments_ReportPDF(t *testing.T) {
	ctx := context.Background()
	c := newClient(t)
	tok, _ := register(t, c, "docs")
	svc := service.NewDocumentsService(logger, c, tok)

	progress := map[int]int{}
	docs, err := svc.Upload(ctx, []apiclient.Upload{
		{Name: "report.pdf", ContentType: "application/pdf", Size: 2048, Body: bytes.NewReader(make([]byte, 2048))},
		{Name: "scan.png", Size: 3, Body: strings.NewReader("png")},
	}, "", "", func(i, p int) { progress[i] = p })
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, map[int]int{0: 100, 1: 100}, progress)

	report := docs[0]
	assert.Equal(t, "report.pdf", report.OriginalName)
	assert.Equal(t, "📄", service.FileIcon(report.MimeType))
	assert.Equal(t, "2.00 KB", service.FormatSize(report.FileSize))
	assert.Len(t, service.Images(docs), 1)

	docs, err = svc.Delete(ctx, report.ID)
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}

func TestPassport_CreateReplaceAndPhoto(t *testing.T) {
	ctx := context.Background()
	c := newClient(t)
	tok, _ := register(t, c, "citizen")
	svc := service.NewPassportService(logger, c, tok)

	page, err := svc.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, page.Passport, "404 means no passport")

	form := models.PassportForm{
		FirstName: "Анна", LastName: "Петрова", BirthDate: "1995-03-08",
		BirthPlace: "Казань", Gender: "Ж", IssuePlace: "МФЦ",
	}
	page, err = svc.Save(ctx, page.Passport, form)
	require.NoError(t, err)
	require.NotNil(t, page.Passport)
	series := page.Passport.Series

	form.BirthPlace = "Самара"
	page, err = svc.Save(ctx, page.Passport, form)
	require.NoError(t, err)
	assert.Equal(t, "Самара", page.Passport.BirthPlace)
	assert.Equal(t, series, page.Passport.Series)

	_, err = svc.UploadPhoto(ctx, apiclient.Upload{Name: "cv.pdf", Size: 1, Body: strings.NewReader("x")}, nil)
	assert.ErrorIs(t, err, apiclient.ErrValidation)

	page, err = svc.UploadPhoto(ctx, apiclient.Upload{Name: "me.jpg", Size: 3, Body: strings.NewReader("jpg")}, nil)
	require.NoError(t, err)
	require.Len(t, page.Photos, 1)
	assert.Equal(t, page.Photos[0].URL, page.Passport.PhotoURL)
}

// recordingPassportAPI записывает порядок вызовов
type recordingPassportAPI struct {
	calls        []string
	descriptions []string
}

func (r *recordingPassportAPI) GetPassport(ctx context.Context, creds apiclient.Credentials) (*models.Passport, error) {
	r.calls = append(r.calls, "get")
	return &models.Passport{ID: "p1"}, nil
}
func (r *recordingPassportAPI) CreatePassport(ctx context.Context, creds apiclient.Credentials, form models.PassportForm) (*models.Passport, error) {
	r.calls = append(r.calls, "create")
	return &models.Passport{}, nil
}
func (r *recordingPassportAPI) ReplacePassport(ctx context.Context, creds apiclient.Credentials, form models.PassportForm) (*models.Passport, error) {
	r.calls = append(r.calls, "replace")
	return &models.Passport{}, nil
}
func (r *recordingPassportAPI) SetPassportPhoto(ctx context.Context, creds apiclient.Credentials, documentID string) error {
	r.calls = append(r.calls, "photo:"+documentID)
	return nil
}
func (r *recordingPassportAPI) ListDocuments(ctx context.Context, creds apiclient.Credentials) ([]models.Document, error) {
	return nil, nil
}
func (r *recordingPassportAPI) UploadDocument(ctx context.Context, creds apiclient.Credentials, up apiclient.Upload, docType, description string, progress apiclient.ProgressFunc) (*models.Document, error) {
	r.calls = append(r.calls, "upload:"+docType)
	r.descriptions = append(r.descriptions, description)
	return &models.Document{ID: "d1"}, nil
}

func TestPassport_PhotoStepsInOrder(t *testing.T) {
	api := &recordingPassportAPI{}
	svc := service.NewPassportService(logger, api, apiclient.Token("t"))

	_, err := svc.UploadPhoto(context.Background(), apiclient.Upload{Name: "me.png", Body: strings.NewReader("x")}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"upload:passport_photo", "photo:d1", "get"}, api.calls)
	assert.Equal(t, []string{"Фото для паспорта"}, api.descriptions)
}

func TestPassport_SaveChoosesMethod(t *testing.T) {
	api := &recordingPassportAPI{}
	svc := service.NewPassportService(logger, api, apiclient.Token("t"))

	_, err := svc.Save(context.Background(), nil, models.PassportForm{})
	require.NoError(t, err)
	_, err = svc.Save(context.Background(), &models.Passport{ID: "p1"}, models.PassportForm{})
	require.NoError(t, err)
	assert.Equal(t, []string{"create", "get", "replace", "get"}, api.calls)
}

var errBoom = errors.New("boom")

// flakyDocumentsAPI хранит загруженные документы и отказывает файлам из failOn
type flakyDocumentsAPI struct {
	failOn map[string]bool
	stored []models.Document
	lists  int
}

func (f *flakyDocumentsAPI) ListDocuments(ctx context.Context, creds apiclient.Credentials) ([]models.Document, error) {
	f.lists++
	return append([]models.Document{}, f.stored...), nil
}
func (f *flakyDocumentsAPI) UploadDocument(ctx context.Context, creds apiclient.Credentials, up apiclient.Upload, docType, description string, progress apiclient.ProgressFunc) (*models.Document, error) {
	if f.failOn[up.Name] {
		return nil, errBoom
	}
	doc := models.Document{ID: up.Name, OriginalName: up.Name}
	f.stored = append(f.stored, doc)
	return &doc, nil
}
func (f *flakyDocumentsAPI) DeleteDocument(ctx context.Context, creds apiclient.Credentials, id string) error {
	return nil
}

func TestDocuments_PartialBatchStillRefetches(t *testing.T) {
	api := &flakyDocumentsAPI{failOn: map[string]bool{"bad.pdf": true}}
	svc := service.NewDocumentsService(logger, api, apiclient.Token("t"))

	docs, err := svc.Upload(context.Background(), []apiclient.Upload{
		{Name: "good.pdf", Body: strings.NewReader("a")},
		{Name: "bad.pdf", Body: strings.NewReader("b")},
		{Name: "late.pdf", Body: strings.NewReader("c")},
	}, "", "", nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, errBoom)
	assert.Contains(t, err.Error(), "bad.pdf")
	assert.Equal(t, 1, api.lists)
	require.Len(t, docs, 2)
	assert.Equal(t, "good.pdf", docs[0].OriginalName)
	assert.Equal(t, "late.pdf", docs[1].OriginalName)
}

// countingSearchAPI считает обращения к /search
type countingSearchAPI struct {
	calls int
}

func (c *countingSearchAPI) Search(ctx context.Context, creds apiclient.Credentials, q models.SearchQuery) (*models.SearchResult, error) {
	c.calls++
	return &models.SearchResult{}, nil
}

func TestSearch_EmptyQueryNoRequest(t *testing.T) {
	api := &countingSearchAPI{}
	svc := service.NewSearchService(logger, api, apiclient.Token("t"))

	for _, q := range []string{"", "   ", "\t\n"} {
		res, performed, err := svc.Search(context.Background(), q, models.SearchAll)
		assert.NoError(t, err)
		assert.False(t, performed)
		assert.Nil(t, res)
	}
	assert.Equal(t, 0, api.calls)

	_, performed, err := svc.Search(context.Background(), "x", models.SearchAll)
	assert.NoError(t, err)
	assert.True(t, performed)
	assert.Equal(t, 1, api.calls)
}

func TestSearch_AgainstBackend(t *testing.T) {
	ctx := context.Background()
	c := newClient(t)
	tok, _ := register(t, c, "needle")
	svc := service.NewSearchService(logger, c, tok)

	res, performed, err := svc.Search(ctx, " needle ", models.SearchUsers)
	require.NoError(t, err)
	assert.True(t, performed)
	require.Len(t, res.Users, 1)
	assert.Equal(t, 1, res.Total())
}
