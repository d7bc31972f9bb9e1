package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/linemk/impnet/internal/apiclient"
	"github.com/linemk/impnet/internal/domain/models"
	"github.com/linemk/impnet/internal/service"
	"github.com/linemk/impnet/internal/session"
)

type dashboardLoadedMsg struct {
	data *service.Dashboard
	err  error
}

type versionMsg struct {
	version string
	err     error
}

type dashboardModel struct {
	svc     *service.DashboardService
	user    *models.User
	theme   *Theme
	data    *service.Dashboard
	version string
	loading bool
	err     string
}

func newDashboard(svc *service.DashboardService, store *session.Store, theme *Theme) dashboardModel {
	return dashboardModel{svc: svc, user: store.CurrentIdentity(), theme: theme}
}

func (m dashboardModel) Init() tea.Cmd {
	svc := m.svc
	return tea.Batch(m.load(), func() tea.Msg {
		v, err := svc.Version(context.Background())
		return versionMsg{version: v, err: err}
	})
}

func (m dashboardModel) load() tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		data, err := svc.Load(context.Background())
		return dashboardLoadedMsg{data: data, err: err}
	}
}

func (m dashboardModel) Busy() bool {
	return m.loading || (m.data == nil && m.err == "")
}

func (m dashboardModel) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = apiclient.Message(msg.err, "Не удалось загрузить данные")
			return m, nil
		}
		m.data, m.err = msg.data, ""
	case versionMsg:
		if msg.err == nil {
			m.version = msg.version
		}
	case tea.KeyMsg:
		if key.Matches(msg, keys.Refresh) && !m.loading {
			m.loading = true
			return m, m.load()
		}
	}
	return m, nil
}

func (m dashboardModel) View() string {
	t := m.theme
	var b strings.Builder
	name := ""
	if m.user != nil {
		name = m.user.FullName
	}
	b.WriteString(t.Subtitle.Render(fmt.Sprintf("Добро пожаловать, %s!", name)) + "\n\n")

	row := func(label, value string) {
		b.WriteString(t.Muted.Width(22).Render(label) + t.Normal.Render(value) + "\n")
	}
	row("Роль", m.data.RoleLabel(m.user))
	if m.user != nil {
		row("Email", m.user.Email)
		row("Логин", m.user.Username)
		row("Зарегистрирован", service.FormatDate(m.user.CreatedAt))
	}
	if m.data != nil {
		row("Баланс", service.FormatAmount(m.data.Balance))
		row("Непрочитанных писем", fmt.Sprint(m.data.UnreadCount()))
	}
	if m.err != "" {
		b.WriteString("\n" + t.Error.Render(m.err) + "\n")
	}
	if m.version != "" {
		b.WriteString("\n" + t.Muted.Render(m.version))
	}
	return b.String()
}
