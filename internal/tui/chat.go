package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/linemk/impnet/internal/apiclient"
	"github.com/linemk/impnet/internal/domain/models"
	"github.com/linemk/impnet/internal/service"
)

// сколько последних сообщений помещается на экран
const chatVisible = 15

type chatMsg struct {
	messages []models.Message
	sent     bool
	err      error
}

type chatModel struct {
	svc      *service.ChatService
	theme    *Theme
	messages []models.Message
	input    form
	loading  bool
	err      string
}

func newChat(svc *service.ChatService, theme *Theme) chatModel {
	return chatModel{
		svc:     svc,
		theme:   theme,
		input:   newForm(field{label: "›", placeholder: "Сообщение"}),
		loading: true,
	}
}

func (m chatModel) Init() tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		msgs, err := svc.Load(context.Background())
		return chatMsg{messages: msgs, err: err}
	}
}

func (m chatModel) Busy() bool {
	return m.loading
}

func (m chatModel) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case chatMsg:
		m.loading = false
		if msg.err != nil {
			m.err = apiclient.Message(msg.err, "Не удалось получить сообщения")
			return m, nil
		}
		m.messages, m.err = msg.messages, ""
		if msg.sent {
			m.input = m.input.Reset()
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
			text := m.input.Value(0)
			if text == "" {
				return m, nil
			}
			m.loading = true
			svc := m.svc
			return m, func() tea.Msg {
				msgs, err := svc.Send(context.Background(), text)
				return chatMsg{messages: msgs, sent: true, err: err}
			}
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m chatModel) View() string {
	t := m.theme
	var b strings.Builder
	b.WriteString(t.Subtitle.Render("Общий чат") + "\n\n")

	msgs := m.messages
	if len(msgs) > chatVisible {
		msgs = msgs[len(msgs)-chatVisible:]
	}
	if len(msgs) == 0 && !m.loading {
		b.WriteString(t.Muted.Render("Сообщений пока нет") + "\n")
	}
	for _, msg := range msgs {
		b.WriteString(t.Muted.Render(service.FormatDateTime(msg.CreatedAt)+" ") +
			t.Title.Render(msg.Username+": ") +
			t.Normal.Render(msg.Message) + "\n")
	}
	b.WriteString("\n" + m.input.View(t))
	if m.err != "" {
		b.WriteString("\n" + t.Error.Render(m.err))
	}
	return b.String()
}
