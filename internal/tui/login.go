package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/linemk/impnet/internal/apiclient"
	"github.com/linemk/impnet/internal/domain/models"
	"github.com/linemk/impnet/internal/session"
)

const (
	loginEmail = iota
	loginPassword
)

const (
	regEmail = iota
	regUsername
	regFullName
	regPassword
)

type loginResultMsg struct {
	register bool
	user     *models.User
	err      error
}

type loginModel struct {
	session  *session.Store
	theme    *Theme
	register bool
	login    form
	signup   form
	pending  bool
	err      string
	info     string
}

func newLogin(store *session.Store, theme *Theme) loginModel {
	return loginModel{
		session: store,
		theme:   theme,
		login: newForm(
			field{label: "Email", placeholder: "admin@impnet.ru"},
			field{label: "Пароль", secret: true},
		),
		signup: newForm(
			field{label: "Email"},
			field{label: "Логин"},
			field{label: "ФИО"},
			field{label: "Пароль", secret: true},
		),
	}
}

func (m loginModel) Init() tea.Cmd {
	return nil
}

func (m loginModel) Busy() bool {
	return m.pending
}

func (m loginModel) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loginResultMsg:
		m.pending = false
		if msg.err != nil {
			m.err = apiclient.Message(msg.err, failText(msg.register))
			return m, nil
		}
		if msg.user == nil {
			// регистрация без автоматического входа
			m.register = false
			m.err = ""
			m.info = "Регистрация прошла успешно, войдите"
			m.login.SetValue(loginEmail, m.signup.Value(regEmail))
			m.signup = m.signup.Reset()
			return m, nil
		}
		return m, func() tea.Msg { return authenticatedMsg{} }
	case tea.KeyMsg:
		if m.pending {
			return m, nil
		}
		switch {
		case key.Matches(msg, keys.Register):
			m.register = !m.register
			m.err, m.info = "", ""
			return m, nil
		case key.Matches(msg, keys.Submit):
			return m.submit()
		}
	}

	var cmd tea.Cmd
	if m.register {
		m.signup, cmd = m.signup.Update(msg)
	} else {
		m.login, cmd = m.login.Update(msg)
	}
	return m, cmd
}

func failText(register bool) string {
	if register {
		return "Ошибка регистрации"
	}
	return "Ошибка входа"
}

func (m loginModel) submit() (screen, tea.Cmd) {
	m.err, m.info = "", ""
	m.pending = true
	store := m.session
	if m.register {
		nu := models.NewUser{
			Email:    m.signup.Value(regEmail),
			Username: m.signup.Value(regUsername),
			FullName: m.signup.Value(regFullName),
			Password: m.signup.Raw(regPassword),
		}
		return m, func() tea.Msg {
			user, err := store.Register(context.Background(), nu)
			return loginResultMsg{register: true, user: user, err: err}
		}
	}
	email, password := m.login.Value(loginEmail), m.login.Raw(loginPassword)
	return m, func() tea.Msg {
		user, err := store.Login(context.Background(), email, password)
		return loginResultMsg{user: user, err: err}
	}
}

func (m loginModel) View() string {
	t := m.theme
	var b strings.Builder
	if m.register {
		b.WriteString(t.Subtitle.Render("Регистрация в impNet") + "\n\n")
		b.WriteString(m.signup.View(t))
	} else {
		b.WriteString(t.Subtitle.Render("Вход в impNet") + "\n\n")
		b.WriteString(m.login.View(t))
	}
	b.WriteString("\n\n")
	switch {
	case m.pending:
		b.WriteString(t.Muted.Render("Подождите..."))
	case m.err != "":
		b.WriteString(t.Error.Render(m.err))
	case m.info != "":
		b.WriteString(t.Info.Render(m.info))
	}
	return t.Box.Render(b.String())
}
