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
)

const (
	mailTo = iota
	mailSubject
	mailBody
)

type mailboxMsg struct {
	mailbox *service.Mailbox
	opened  string
	sent    bool
	err     error
}

type emailModel struct {
	svc       *service.EmailService
	theme     *Theme
	mailbox   *service.Mailbox
	showSent  bool
	cursor    int
	opened    string
	composing bool
	compose   form
	loading   bool
	err       string
	info      string
}

func newEmail(svc *service.EmailService, theme *Theme) emailModel {
	return emailModel{
		svc:   svc,
		theme: theme,
		compose: newForm(
			field{label: "Кому", placeholder: "user@impnet.ru"},
			field{label: "Тема"},
			field{label: "Текст"},
		),
		loading: true,
	}
}

func (m emailModel) Init() tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		mb, err := svc.Load(context.Background())
		return mailboxMsg{mailbox: mb, err: err}
	}
}

func (m emailModel) Busy() bool {
	return m.loading
}

func (m emailModel) list() []models.Email {
	if m.mailbox == nil {
		return nil
	}
	if m.showSent {
		return m.mailbox.Sent
	}
	return m.mailbox.Inbox
}

func (m emailModel) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case mailboxMsg:
		m.loading = false
		if msg.err != nil {
			m.err = apiclient.Message(msg.err, "Ошибка почты")
			return m, nil
		}
		m.mailbox, m.err = msg.mailbox, ""
		m.cursor = clamp(m.cursor, len(m.list()))
		if msg.opened != "" {
			m.opened = msg.opened
		}
		if msg.sent {
			m.info = "Письмо отправлено"
			m.composing = false
			m.compose = m.compose.Reset()
		}
		return m, nil
	case tea.KeyMsg:
		if m.loading {
			return m, nil
		}
		if m.composing {
			return m.updateCompose(msg)
		}
		switch {
		case key.Matches(msg, keys.Refresh):
			m.loading = true
			return m, m.Init()
		case key.Matches(msg, keys.Compose):
			m.composing = true
			m.err, m.info = "", ""
			return m, nil
		case key.Matches(msg, keys.SwitchTab):
			m.showSent = !m.showSent
			m.cursor, m.opened = 0, ""
			return m, nil
		case key.Matches(msg, keys.Submit):
			return m.open()
		}
		if c, ok := moveCursor(msg, m.cursor, len(m.list())); ok {
			m.cursor = c
		}
	}
	return m, nil
}

// open показывает письмо; входящее сразу помечается прочитанным
func (m emailModel) open() (screen, tea.Cmd) {
	list := m.list()
	if len(list) == 0 {
		return m, nil
	}
	e := list[m.cursor]
	m.opened = e.ID
	if m.showSent {
		return m, nil
	}
	m.loading = true
	svc, id := m.svc, e.ID
	return m, func() tea.Msg {
		mb, err := svc.Open(context.Background(), id)
		return mailboxMsg{mailbox: mb, opened: id, err: err}
	}
}

func (m emailModel) updateCompose(msg tea.KeyMsg) (screen, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Cancel):
		m.composing = false
		m.err = ""
		return m, nil
	case key.Matches(msg, keys.Submit):
		e := models.NewEmail{
			ToEmail: m.compose.Value(mailTo),
			Subject: m.compose.Value(mailSubject),
			Body:    m.compose.Value(mailBody),
		}
		m.loading = true
		m.err = ""
		svc := m.svc
		return m, func() tea.Msg {
			mb, err := svc.Send(context.Background(), e)
			return mailboxMsg{mailbox: mb, sent: true, err: err}
		}
	}
	var cmd tea.Cmd
	m.compose, cmd = m.compose.Update(msg)
	return m, cmd
}

func (m emailModel) View() string {
	t := m.theme
	var b strings.Builder

	if m.composing {
		b.WriteString(t.Subtitle.Render("Новое письмо") + "\n\n")
		b.WriteString(m.compose.View(t) + "\n\n")
		b.WriteString(helpLine(t, keys.Submit, keys.NextField, keys.Cancel))
		if m.err != "" {
			b.WriteString("\n" + t.Error.Render(m.err))
		}
		return b.String()
	}

	inbox, sent := t.TabOn, t.Tab
	if m.showSent {
		inbox, sent = t.Tab, t.TabOn
	}
	unread := 0
	if m.mailbox != nil {
		for _, e := range m.mailbox.Inbox {
			if !e.IsRead {
				unread++
			}
		}
	}
	b.WriteString(inbox.Render(fmt.Sprintf("Входящие (%d)", unread)) + sent.Render("Отправленные") + "\n\n")

	list := m.list()
	if len(list) == 0 && !m.loading {
		b.WriteString(t.Muted.Render("Писем нет") + "\n")
	}
	var opened *models.Email
	for i, e := range list {
		who := e.FromEmail
		if m.showSent {
			who = e.ToEmail
		}
		flag := "  "
		if !m.showSent && !e.IsRead {
			flag = "● "
		}
		b.WriteString(marker(t, i == m.cursor, fmt.Sprintf("%s%-24s %s  %s", flag, who, e.Subject, service.FormatDateTime(e.CreatedAt))) + "\n")
		if e.ID == m.opened {
			opened = &list[i]
		}
	}
	if opened != nil {
		body := t.Subtitle.Render(opened.Subject) + "\n" +
			t.Muted.Render("От: "+opened.FromEmail+"  Кому: "+opened.ToEmail) + "\n\n" +
			t.Normal.Render(opened.Body)
		b.WriteString("\n" + t.Box.Render(body) + "\n")
	}
	if m.err != "" {
		b.WriteString("\n" + t.Error.Render(m.err))
	}
	if m.info != "" {
		b.WriteString("\n" + t.Info.Render(m.info))
	}
	b.WriteString("\n" + helpLine(t, keys.Submit, keys.Compose, keys.SwitchTab))
	return b.String()
}
