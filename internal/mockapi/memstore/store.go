package memstore

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/linemk/impnet/internal/domain/models"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrInvalidCreds      = errors.New("incorrect email or password")
	ErrInactiveUser      = errors.New("inactive user")
	ErrEmailTaken        = errors.New("email already registered")
	ErrUsernameTaken     = errors.New("username already taken")
	ErrRoleExists        = errors.New("role name already exists")
	ErrRoleNotFound      = errors.New("role not found")
	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrRecipientNotFound = errors.New("recipient not found")
	ErrSelfTransfer      = errors.New("cannot transfer to yourself")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrEmailNotFound     = errors.New("email not found")
	ErrDocumentNotFound  = errors.New("document not found")
	ErrFileNotFound      = errors.New("file not found")
	ErrPassportExists    = errors.New("passport already exists")
	ErrPassportNotFound  = errors.New("passport not found")
	ErrNotAnImage        = errors.New("document is not an image")
)

const (
	AdminEmail    = "admin@impnet.ru"
	AdminPassword = "admin123"

	initialBalance = 1000
	adminBalance   = 100000
	chatHistory    = 50
)

type userRecord struct {
	models.User
	passHash []byte
}

type blob struct {
	mimeType string
	content  []byte
}

// Store - состояние тестового бэкенда в памяти. Все методы потокобезопасны.
type Store struct {
	mu         sync.Mutex
	bcryptCost int

	roles     []models.Role
	users     []*userRecord
	txs       map[string][]models.Transaction // ключ: userID
	messages  []models.Message
	emails    []*models.Email
	files     []models.File
	fileOwner map[string]string // fileID -> userID
	docs      map[string][]models.Document
	passports map[string]*models.Passport
	photoDocs map[string]string // userID -> documentID
	blobs     map[string]blob   // url -> содержимое
}

// NewStore создаёт хранилище с ролями по умолчанию и учётной записью администратора
func NewStore(bcryptCost int) (*Store, error) {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	s := &Store{
		bcryptCost: bcryptCost,
		txs:        make(map[string][]models.Transaction),
		fileOwner:  make(map[string]string),
		docs:       make(map[string][]models.Document),
		passports:  make(map[string]*models.Passport),
		photoDocs:  make(map[string]string),
		blobs:      make(map[string]blob),
	}
	s.seedRoles()

	admin, err := s.CreateUser(models.NewUser{
		Email:    AdminEmail,
		Username: "admin",
		FullName: "Администратор Системы",
		Password: AdminPassword,
		RoleID:   s.roleByName("super_admin").ID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to seed admin: %w", err)
	}
	s.mu.Lock()
	s.userByID(admin.ID).Balance = adminBalance
	s.mu.Unlock()
	return s, nil
}

func (s *Store) seedRoles() {
	now := models.Timestamp{Time: time.Now().UTC()}
	defaults := []models.Role{
		{Name: "super_admin", DisplayName: "Супер Администратор", Description: "Полный доступ к системе",
			Permissions: []string{"admin", "create_roles", "manage_users", "manage_services"}},
		{Name: "citizen", DisplayName: "Гражданин", Description: "Базовый пользователь системы",
			Permissions: []string{"user", "view_services", "create_applications"}},
		{Name: "bank_employee", DisplayName: "Сотрудник ЦБ", Description: "Сотрудник Центрального Банка",
			Permissions: []string{"user", "bank_operations", "view_applications"}},
		{Name: "mfc_employee", DisplayName: "Сотрудник МФЦ", Description: "Сотрудник Многофункционального Центра",
			Permissions: []string{"user", "mfc_operations", "process_applications"}},
	}
	for _, role := range defaults {
		role.ID = uuid.NewString()
		role.CreatedAt = now
		role.CreatedBy = "system"
		s.roles = append(s.roles, role)
	}
}

func (s *Store) roleByName(name string) *models.Role {
	for i := range s.roles {
		if s.roles[i].Name == name {
			return &s.roles[i]
		}
	}
	return nil
}

func (s *Store) roleByID(id string) *models.Role {
	for i := range s.roles {
		if s.roles[i].ID == id {
			return &s.roles[i]
		}
	}
	return nil
}

func (s *Store) userByID(id string) *userRecord {
	for _, u := range s.users {
		if u.ID == id {
			return u
		}
	}
	return nil
}

func (s *Store) userByEmail(email string) *userRecord {
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return u
		}
	}
	return nil
}

// CreateUser регистрирует пользователя; без role_id назначается роль citizen
func (s *Store) CreateUser(nu models.NewUser) (models.User, error) {
	passHash, err := bcrypt.GenerateFromPassword([]byte(nu.Password), s.bcryptCost)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.userByEmail(nu.Email) != nil {
		return models.User{}, ErrEmailTaken
	}
	for _, u := range s.users {
		if u.Username == nu.Username {
			return models.User{}, ErrUsernameTaken
		}
	}

	roleID := nu.RoleID
	if roleID == "" {
		roleID = s.roleByName("citizen").ID
	} else if s.roleByID(roleID) == nil {
		return models.User{}, ErrRoleNotFound
	}

	u := &userRecord{
		User: models.User{
			ID:        uuid.NewString(),
			Email:     nu.Email,
			Username:  nu.Username,
			FullName:  nu.FullName,
			RoleID:    roleID,
			IsActive:  true,
			Balance:   initialBalance,
			CreatedAt: models.Timestamp{Time: time.Now().UTC()},
		},
		passHash: passHash,
	}
	s.users = append(s.users, u)
	return u.User, nil
}

// Authenticate проверяет пароль и отмечает время входа
func (s *Store) Authenticate(email, password string) (models.User, error) {
	s.mu.Lock()
	u := s.userByEmail(email)
	s.mu.Unlock()

	if u == nil {
		return models.User{}, ErrInvalidCreds
	}
	if err := bcrypt.CompareHashAndPassword(u.passHash, []byte(password)); err != nil {
		return models.User{}, ErrInvalidCreds
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !u.IsActive {
		return models.User{}, ErrInactiveUser
	}
	now := models.Timestamp{Time: time.Now().UTC()}
	u.LastLogin = &now
	return u.User, nil
}

func (s *Store) User(id string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.userByID(id)
	if u == nil {
		return models.User{}, ErrUserNotFound
	}
	return u.User, nil
}

func (s *Store) Users() []models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u.User)
	}
	return out
}

// HasPermission проверяет право через роль пользователя
func (s *Store) HasPermission(userID, permission string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.userByID(userID)
	if u == nil {
		return false
	}
	role := s.roleByID(u.RoleID)
	return role != nil && role.HasPermission(permission)
}

func (s *Store) Roles() []models.Role {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Role(nil), s.roles...)
}

func (s *Store) CreateRole(nr models.NewRole, createdBy string) (models.Role, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.roleByName(nr.Name) != nil {
		return models.Role{}, ErrRoleExists
	}
	role := models.Role{
		ID:          uuid.NewString(),
		Name:        nr.Name,
		DisplayName: nr.DisplayName,
		Description: nr.Description,
		Permissions: append([]string{}, nr.Permissions...),
		CreatedAt:   models.Timestamp{Time: time.Now().UTC()},
		CreatedBy:   createdBy,
	}
	s.roles = append(s.roles, role)
	return role, nil
}

// Transfer списывает средства у отправителя и зачисляет получателю, записывая две транзакции
func (s *Store) Transfer(fromID string, t models.Transfer) (models.Transaction, error) {
	if t.Amount <= 0 {
		return models.Transaction{}, ErrInvalidAmount
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sender := s.userByID(fromID)
	if sender == nil {
		return models.Transaction{}, ErrUserNotFound
	}
	receiver := s.userByID(t.ToUserID)
	if receiver == nil {
		return models.Transaction{}, ErrRecipientNotFound
	}
	if sender.ID == receiver.ID {
		return models.Transaction{}, ErrSelfTransfer
	}
	if sender.Balance < t.Amount {
		return models.Transaction{}, ErrInsufficientFunds
	}

	sender.Balance -= t.Amount
	receiver.Balance += t.Amount

	now := models.Timestamp{Time: time.Now().UTC()}
	sent := models.Transaction{
		ID: uuid.NewString(), Amount: t.Amount, Description: t.Description,
		TransactionType: "transfer_sent", FromUserID: sender.ID, ToUserID: receiver.ID, CreatedAt: now,
	}
	received := sent
	received.ID = uuid.NewString()
	received.TransactionType = "transfer_received"

	s.txs[sender.ID] = append(s.txs[sender.ID], sent)
	s.txs[receiver.ID] = append(s.txs[receiver.ID], received)
	return sent, nil
}

// Transactions возвращает операции пользователя, новые первыми
func (s *Store) Transactions(userID string) []models.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.txs[userID]
	out := make([]models.Transaction, 0, len(list))
	for i := len(list) - 1; i >= 0; i-- {
		out = append(out, list[i])
	}
	return out
}

func (s *Store) AddMessage(userID, text string) (models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.userByID(userID)
	if u == nil {
		return models.Message{}, ErrUserNotFound
	}
	msg := models.Message{
		ID:        uuid.NewString(),
		UserID:    u.ID,
		Username:  u.Username,
		Message:   text,
		CreatedAt: models.Timestamp{Time: time.Now().UTC()},
	}
	s.messages = append(s.messages, msg)
	return msg, nil
}

// Messages возвращает последние сообщения чата, новые первыми
func (s *Store) Messages() []models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Message, 0, chatHistory)
	for i := len(s.messages) - 1; i >= 0 && len(out) < chatHistory; i-- {
		out = append(out, s.messages[i])
	}
	return out
}

func (s *Store) SendEmail(fromID string, ne models.NewEmail) (models.Email, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	from := s.userByID(fromID)
	if from == nil {
		return models.Email{}, ErrUserNotFound
	}
	if s.userByEmail(ne.ToEmail) == nil {
		return models.Email{}, ErrRecipientNotFound
	}
	e := &models.Email{
		ID:        uuid.NewString(),
		FromEmail: from.Email,
		ToEmail:   ne.ToEmail,
		Subject:   ne.Subject,
		Body:      ne.Body,
		CreatedAt: models.Timestamp{Time: time.Now().UTC()},
	}
	s.emails = append(s.emails, e)
	return *e, nil
}

func (s *Store) mailbox(userID string, inbox bool) ([]models.Email, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.userByID(userID)
	if u == nil {
		return nil, ErrUserNotFound
	}
	out := []models.Email{}
	for i := len(s.emails) - 1; i >= 0; i-- {
		e := s.emails[i]
		if (inbox && strings.EqualFold(e.ToEmail, u.Email)) || (!inbox && strings.EqualFold(e.FromEmail, u.Email)) {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (s *Store) Inbox(userID string) ([]models.Email, error) {
	return s.mailbox(userID, true)
}

func (s *Store) Sent(userID string) ([]models.Email, error) {
	return s.mailbox(userID, false)
}

// MarkRead идемпотентна: повторная отметка прочитанного письма не ошибка
func (s *Store) MarkRead(userID, emailID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.userByID(userID)
	if u == nil {
		return ErrUserNotFound
	}
	for _, e := range s.emails {
		if e.ID == emailID && strings.EqualFold(e.ToEmail, u.Email) {
			e.IsRead = true
			return nil
		}
	}
	return ErrEmailNotFound
}

func (s *Store) AddFile(userID, name, mimeType string, content []byte, isPublic bool) models.File {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.NewString()
	f := models.File{
		ID:           id,
		Filename:     storedName(userID, name),
		OriginalName: name,
		MimeType:     mimeType,
		FileSize:     int64(len(content)),
		URL:          "/uploads/files/" + id,
		IsPublic:     isPublic,
		CreatedAt:    models.Timestamp{Time: time.Now().UTC()},
	}
	s.files = append(s.files, f)
	s.fileOwner[id] = userID
	s.blobs[f.URL] = blob{mimeType: mimeType, content: content}
	return f
}

// Files - публичные файлы и собственные файлы пользователя
func (s *Store) Files(userID string) []models.File {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.File{}
	for _, f := range s.files {
		if f.IsPublic || s.fileOwner[f.ID] == userID {
			out = append(out, f)
		}
	}
	return out
}

func (s *Store) AddDocument(userID, docType, name, mimeType, description string, content []byte) models.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.NewString()
	d := models.Document{
		ID:           id,
		Type:         docType,
		Filename:     storedName(userID, name),
		OriginalName: name,
		FileSize:     int64(len(content)),
		MimeType:     mimeType,
		URL:          "/uploads/documents/" + id,
		Description:  description,
		CreatedAt:    models.Timestamp{Time: time.Now().UTC()},
	}
	s.docs[userID] = append(s.docs[userID], d)
	s.blobs[d.URL] = blob{mimeType: mimeType, content: content}
	return d
}

func (s *Store) Documents(userID string) []models.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Document{}, s.docs[userID]...)
}

func (s *Store) DeleteDocument(userID, docID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	docs := s.docs[userID]
	for i, d := range docs {
		if d.ID == docID {
			s.docs[userID] = append(docs[:i], docs[i+1:]...)
			delete(s.blobs, d.URL)
			if s.photoDocs[userID] == docID {
				delete(s.photoDocs, userID)
			}
			return nil
		}
	}
	return ErrDocumentNotFound
}

func (s *Store) Blob(url string) (string, []byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.blobs[url]
	return b.mimeType, b.content, ok
}

func (s *Store) passportView(userID string) models.Passport {
	p := *s.passports[userID]
	p.PhotoURL = ""
	if docID, ok := s.photoDocs[userID]; ok {
		for _, d := range s.docs[userID] {
			if d.ID == docID {
				p.PhotoURL = d.URL
			}
		}
	}
	return p
}

func (s *Store) Passport(userID string) (models.Passport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.passports[userID]; !ok {
		return models.Passport{}, ErrPassportNotFound
	}
	return s.passportView(userID), nil
}

// CreatePassport выпускает паспорт: серия из 4 цифр, номер из 6 цифр, дата выдачи - сегодня
func (s *Store) CreatePassport(userID string, form models.PassportForm) (models.Passport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.passports[userID]; ok {
		return models.Passport{}, ErrPassportExists
	}
	now := time.Now().UTC()
	p := &models.Passport{
		ID:        uuid.NewString(),
		Series:    randomDigits(4),
		Number:    randomDigits(6),
		IssueDate: now.Format("2006-01-02"),
		CreatedAt: models.Timestamp{Time: now},
	}
	applyPassportForm(p, form)
	s.passports[userID] = p
	return s.passportView(userID), nil
}

// ReplacePassport заменяет данные формы целиком, серия и номер сохраняются
func (s *Store) ReplacePassport(userID string, form models.PassportForm) (models.Passport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.passports[userID]
	if !ok {
		return models.Passport{}, ErrPassportNotFound
	}
	applyPassportForm(p, form)
	return s.passportView(userID), nil
}

func (s *Store) SetPassportPhoto(userID, docID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.passports[userID]; !ok {
		return ErrPassportNotFound
	}
	for _, d := range s.docs[userID] {
		if d.ID == docID {
			if !strings.HasPrefix(d.MimeType, "image/") {
				return ErrNotAnImage
			}
			s.photoDocs[userID] = docID
			s.passports[userID].UpdatedAt = models.Timestamp{Time: time.Now().UTC()}
			return nil
		}
	}
	return ErrDocumentNotFound
}

func applyPassportForm(p *models.Passport, form models.PassportForm) {
	p.FirstName = form.FirstName
	p.LastName = form.LastName
	p.MiddleName = form.MiddleName
	p.BirthDate = form.BirthDate
	p.BirthPlace = form.BirthPlace
	p.Gender = form.Gender
	p.IssuePlace = form.IssuePlace
	p.UpdatedAt = models.Timestamp{Time: time.Now().UTC()}
}

// Search ищет подстроку без учёта регистра в сообщениях, видимых файлах и пользователях
func (s *Store) Search(userID string, q models.SearchQuery) models.SearchResult {
	needle := strings.ToLower(strings.TrimSpace(q.Query))
	want := func(kind string) bool {
		return q.SearchType == "" || q.SearchType == models.SearchAll || q.SearchType == kind
	}
	contains := func(values ...string) bool {
		for _, v := range values {
			if strings.Contains(strings.ToLower(v), needle) {
				return true
			}
		}
		return false
	}

	result := models.SearchResult{Messages: []models.Message{}, Files: []models.File{}, Users: []models.User{}}
	if want(models.SearchFiles) {
		for _, f := range s.Files(userID) {
			if contains(f.OriginalName, f.Filename) {
				result.Files = append(result.Files, f)
			}
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if want(models.SearchMessages) {
		for _, m := range s.messages {
			if contains(m.Message) {
				result.Messages = append(result.Messages, m)
			}
		}
	}
	if want(models.SearchUsers) {
		for _, u := range s.users {
			if contains(u.Username, u.FullName, u.Email) {
				result.Users = append(result.Users, u.User)
			}
		}
		sort.Slice(result.Users, func(i, j int) bool { return result.Users[i].Username < result.Users[j].Username })
	}
	return result
}

func storedName(userID, name string) string {
	ext := ""
	if i := strings.LastIndex(name, "."); i >= 0 {
		ext = name[i:]
	}
	return userID + "_" + strings.ReplaceAll(uuid.NewString(), "-", "") + ext
}

func randomDigits(n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		d, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			d = big.NewInt(int64(time.Now().UnixNano() % 10))
		}
		b.WriteByte(byte('0' + d.Int64()))
	}
	return b.String()
}
