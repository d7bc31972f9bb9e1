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

const (
	roleName = iota
	roleDisplayName
	roleDescription
	rolePermissions
)

type directoryMsg struct {
	dir     *service.Directory
	created bool
	err     error
}

type adminModel struct {
	svc     *service.AdminService
	user    *models.User
	theme   *Theme
	dir     *service.Directory
	form    form
	loading bool
	err     string
	info    string
}

func newAdmin(svc *service.AdminService, store *session.Store, theme *Theme) adminModel {
	return adminModel{
		svc:   svc,
		user:  store.CurrentIdentity(),
		theme: theme,
		form: newForm(
			field{label: "Код роли", placeholder: "auditor"},
			field{label: "Название"},
			field{label: "Описание"},
			field{label: "Права", placeholder: "read, write"},
		),
		loading: true,
	}
}

func (m adminModel) Init() tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		dir, err := svc.Load(context.Background())
		return directoryMsg{dir: dir, err: err}
	}
}

func (m adminModel) Busy() bool {
	return m.loading
}

func (m adminModel) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case directoryMsg:
		m.loading = false
		if msg.err != nil {
			m.err = apiclient.Message(msg.err, "Ошибка администрирования")
			return m, nil
		}
		m.dir, m.err = msg.dir, ""
		if msg.created {
			m.info = "Роль создана"
			m.form = m.form.Reset()
		}
		return m, nil
	case tea.KeyMsg:
		if m.loading {
			return m, nil
		}
		switch {
		case key.Matches(msg, keys.Refresh):
			m.loading = true
			return m, m.Init()
		case key.Matches(msg, keys.Submit):
			return m.createRole()
		}
	}
	var cmd tea.Cmd
	m.form, cmd = m.form.Update(msg)
	return m, cmd
}

func (m adminModel) createRole() (screen, tea.Cmd) {
	m.err, m.info = "", ""
	role := models.NewRole{
		Name:        m.form.Value(roleName),
		DisplayName: m.form.Value(roleDisplayName),
		Description: m.form.Value(roleDescription),
		Permissions: splitPaths(m.form.Value(rolePermissions)),
	}
	m.loading = true
	svc := m.svc
	return m, func() tea.Msg {
		dir, err := svc.CreateRole(context.Background(), role)
		return directoryMsg{dir: dir, created: true, err: err}
	}
}

func (m adminModel) View() string {
	t := m.theme
	var b strings.Builder
	b.WriteString(t.Subtitle.Render("Администрирование") + "\n\n")

	if m.dir != nil {
		if !service.IsAdmin(m.dir.Roles, m.user) {
			b.WriteString(t.Error.Render("Недостаточно прав") + "\n")
			return b.String()
		}
		b.WriteString(t.Subtitle.Render("Роли") + "\n")
		for _, r := range m.dir.Roles {
			b.WriteString("  " + t.Normal.Render(fmt.Sprintf("%-16s %s", r.Name, r.DisplayName)) +
				t.Muted.Render("  "+strings.Join(r.Permissions, ", ")) + "\n")
		}
		b.WriteString("\n" + t.Subtitle.Render(fmt.Sprintf("Пользователи (%d)", len(m.dir.Users))) + "\n")
		for _, u := range m.dir.Users {
			status := ""
			if !u.IsActive {
				status = " (заблокирован)"
			}
			b.WriteString("  " + t.Normal.Render(u.FullName) +
				t.Muted.Render(fmt.Sprintf("  %s  %s%s", u.Email, service.RoleLabel(m.dir.Roles, u.RoleID), status)) + "\n")
		}
		b.WriteString("\n" + t.Subtitle.Render("Новая роль") + "\n")
		b.WriteString(m.form.View(t) + "\n")
	}
	if m.err != "" {
		b.WriteString(t.Error.Render(m.err) + "\n")
	}
	if m.info != "" {
		b.WriteString(t.Info.Render(m.info) + "\n")
	}
	return b.String()
}
