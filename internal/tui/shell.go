package tui

import (
	"context"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/linemk/impnet/internal/apiclient"
	"github.com/linemk/impnet/internal/service"
	"github.com/linemk/impnet/internal/session"
)

// screen - экран раздела. Состояние меняется только в Update.
type screen interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (screen, tea.Cmd)
	View() string
}

// busyScreen - экран, который сообщает о выполняющемся запросе
type busyScreen interface {
	Busy() bool
}

// Services - контроллеры разделов; все получают учётные данные из одной сессии
type Services struct {
	Dashboard *service.DashboardService
	Banking   *service.BankingService
	Chat      *service.ChatService
	Email     *service.EmailService
	Files     *service.FilesService
	Documents *service.DocumentsService
	Passport  *service.PassportService
	Search    *service.SearchService
	Admin     *service.AdminService
}

// NewServices собирает контроллеры разделов поверх одного клиента
func NewServices(log *slog.Logger, api *apiclient.Client, creds apiclient.Credentials) Services {
	return Services{
		Dashboard: service.NewDashboardService(log, api, creds),
		Banking:   service.NewBankingService(log, api, creds),
		Chat:      service.NewChatService(log, api, creds),
		Email:     service.NewEmailService(log, api, creds),
		Files:     service.NewFilesService(log, api, creds),
		Documents: service.NewDocumentsService(log, api, creds),
		Passport:  service.NewPassportService(log, api, creds),
		Search:    service.NewSearchService(log, api, creds),
		Admin:     service.NewAdminService(log, api, creds),
	}
}

type Options struct {
	Log        *slog.Logger
	Session    *session.Store
	Services   Services
	ResolveURL func(path string) string
	Theme      string
	Notifier   *Notifier
}

type feature struct {
	title string
	open  func() screen
}

type bootstrapMsg struct {
	theme string
	err   error
}

// authenticatedMsg - экран входа получил сессию
type authenticatedMsg struct{}

type themeSavedMsg struct {
	err error
}

// Model - оболочка: пока сессия не загружена, показывает индикатор, без сессии
// показывает вход, иначе разделы.
type Model struct {
	log      *slog.Logger
	session  *session.Store
	theme    *Theme
	fallback string
	spinner  spinner.Model
	features []feature
	active   int
	current  screen
	booting  bool
	width    int
}

func New(opts Options) Model {
	theme := ThemeByName(opts.Theme)
	m := Model{
		log:      opts.Log,
		session:  opts.Session,
		theme:    &theme,
		fallback: theme.Name,
		booting:  true,
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
	m.spinner.Style = lipgloss.NewStyle().Foreground(theme.Accent)

	s := opts.Services
	t := m.theme
	resolve := opts.ResolveURL
	if resolve == nil {
		resolve = func(path string) string { return path }
	}
	m.features = []feature{
		{title: "Главная", open: func() screen { return newDashboard(s.Dashboard, opts.Session, t) }},
		{title: "Банк", open: func() screen { return newBanking(s.Banking, t) }},
		{title: "Чат", open: func() screen { return newChat(s.Chat, t) }},
		{title: "Почта", open: func() screen { return newEmail(s.Email, t) }},
		{title: "Файлы", open: func() screen { return newFiles(s.Files, opts.Notifier, t) }},
		{title: "Документы", open: func() screen { return newDocuments(s.Documents, opts.Notifier, t) }},
		{title: "Паспорт", open: func() screen { return newPassport(s.Passport, opts.Notifier, resolve, t) }},
		{title: "Поиск", open: func() screen { return newSearch(s.Search, t) }},
		{title: "Админ", open: func() screen { return newAdmin(s.Admin, opts.Session, t) }},
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.bootstrap())
}

func (m Model) bootstrap() tea.Cmd {
	store, fallback := m.session, m.fallback
	return func() tea.Msg {
		ctx := context.Background()
		err := store.Bootstrap(ctx)
		return bootstrapMsg{theme: store.Theme(ctx, fallback), err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case bootstrapMsg:
		m.booting = false
		if msg.err != nil {
			m.log.Warn("saved session rejected", slog.Any("error", msg.err))
		}
		if msg.theme != m.theme.Name {
			*m.theme = ThemeByName(msg.theme)
		}
		if m.session.State() == session.StateAuthenticated {
			return m.open(0)
		}
		return m.showLogin()
	case authenticatedMsg:
		return m.open(0)
	case themeSavedMsg:
		if msg.err != nil {
			m.log.Warn("failed to save theme", slog.Any("error", msg.err))
		}
		return m, nil
	case tea.KeyMsg:
		if key.Matches(msg, keys.Quit) {
			return m, tea.Quit
		}
		if m.booting {
			return m, nil
		}
		if key.Matches(msg, keys.Theme) {
			return m.toggleTheme()
		}
		if m.session.State() == session.StateAuthenticated {
			switch {
			case key.Matches(msg, keys.Next):
				return m.open((m.active + 1) % len(m.features))
			case key.Matches(msg, keys.Prev):
				return m.open((m.active - 1 + len(m.features)) % len(m.features))
			case key.Matches(msg, keys.Logout):
				m.session.Logout(context.Background())
				return m.showLogin()
			}
		}
	}

	if m.current == nil {
		return m, nil
	}
	var cmd tea.Cmd
	m.current, cmd = m.current.Update(msg)
	return m, cmd
}

func (m Model) open(i int) (tea.Model, tea.Cmd) {
	m.active = i
	m.current = m.features[i].open()
	return m, m.current.Init()
}

func (m Model) showLogin() (tea.Model, tea.Cmd) {
	m.active = 0
	m.current = newLogin(m.session, m.theme)
	return m, m.current.Init()
}

func (m Model) toggleTheme() (tea.Model, tea.Cmd) {
	m.theme.Toggle()
	m.spinner.Style = lipgloss.NewStyle().Foreground(m.theme.Accent)
	store, name := m.session, m.theme.Name
	return m, func() tea.Msg {
		return themeSavedMsg{err: store.SetTheme(context.Background(), name)}
	}
}

func (m Model) View() string {
	t := m.theme
	if m.booting {
		return "\n  " + m.spinner.View() + " " + t.Muted.Render("Загрузка сессии...") + "\n"
	}

	var b strings.Builder
	b.WriteString(t.Title.Render("impNet"))
	if user := m.session.CurrentIdentity(); user != nil {
		b.WriteString(t.Muted.Render("  " + user.FullName + " <" + user.Email + ">"))
	}
	b.WriteString("\n")

	authed := m.session.State() == session.StateAuthenticated
	if authed {
		tabs := make([]string, len(m.features))
		for i, f := range m.features {
			if i == m.active {
				tabs[i] = t.TabOn.Render(f.title)
			} else {
				tabs[i] = t.Tab.Render(f.title)
			}
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
		b.WriteString("\n\n")
	}

	if m.current != nil {
		b.WriteString(m.current.View())
	}
	b.WriteString("\n\n")
	if bs, ok := m.current.(busyScreen); ok && bs.Busy() {
		b.WriteString(m.spinner.View() + " ")
	}
	if authed {
		b.WriteString(helpLine(t, keys.Next, keys.Prev, keys.Refresh, keys.Theme, keys.Logout, keys.Quit))
	} else {
		b.WriteString(helpLine(t, keys.Register, keys.Theme, keys.Quit))
	}
	return b.String()
}
