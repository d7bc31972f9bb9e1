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

var searchTypes = []string{models.SearchAll, models.SearchMessages, models.SearchFiles, models.SearchUsers}

var searchTypeLabels = map[string]string{
	models.SearchAll:      "везде",
	models.SearchMessages: "сообщения",
	models.SearchFiles:    "файлы",
	models.SearchUsers:    "пользователи",
}

type searchMsg struct {
	result    *models.SearchResult
	performed bool
	err       error
}

type searchModel struct {
	svc     *service.SearchService
	theme   *Theme
	query   form
	kind    int
	result  *models.SearchResult
	loading bool
	err     string
}

func newSearch(svc *service.SearchService, theme *Theme) searchModel {
	return searchModel{
		svc:   svc,
		theme: theme,
		query: newForm(field{label: "Запрос", placeholder: "что ищем?"}),
	}
}

func (m searchModel) Init() tea.Cmd {
	return nil
}

func (m searchModel) Busy() bool {
	return m.loading
}

func (m searchModel) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case searchMsg:
		m.loading = false
		if msg.err != nil {
			m.err = apiclient.Message(msg.err, "Ошибка поиска")
			return m, nil
		}
		if msg.performed {
			m.result, m.err = msg.result, ""
		}
		return m, nil
	case tea.KeyMsg:
		if m.loading {
			return m, nil
		}
		switch {
		case key.Matches(msg, keys.Toggle):
			m.kind = (m.kind + 1) % len(searchTypes)
			return m, nil
		case key.Matches(msg, keys.Submit):
			query := m.query.Value(0)
			if query == "" {
				// пустой запрос не отправляется, прежние результаты остаются
				return m, nil
			}
			m.loading = true
			svc, kind := m.svc, searchTypes[m.kind]
			return m, func() tea.Msg {
				res, performed, err := svc.Search(context.Background(), query, kind)
				return searchMsg{result: res, performed: performed, err: err}
			}
		}
	}
	var cmd tea.Cmd
	m.query, cmd = m.query.Update(msg)
	return m, cmd
}

func (m searchModel) View() string {
	t := m.theme
	var b strings.Builder
	b.WriteString(t.Subtitle.Render("Поиск") + "\n\n")
	b.WriteString(m.query.View(t) + "\n")
	b.WriteString(t.Muted.Render("Где искать: "+searchTypeLabels[searchTypes[m.kind]]) + "  " + helpLine(t, keys.Toggle) + "\n\n")

	if m.err != "" {
		b.WriteString(t.Error.Render(m.err) + "\n")
	}
	if m.result == nil {
		return b.String()
	}
	if m.result.Total() == 0 {
		b.WriteString(t.Muted.Render("Ничего не найдено"))
		return b.String()
	}
	if len(m.result.Messages) > 0 {
		b.WriteString(t.Subtitle.Render(fmt.Sprintf("Сообщения (%d)", len(m.result.Messages))) + "\n")
		for _, msg := range m.result.Messages {
			b.WriteString("  " + t.Title.Render(msg.Username+": ") + t.Normal.Render(msg.Message) + "\n")
		}
	}
	if len(m.result.Files) > 0 {
		b.WriteString(t.Subtitle.Render(fmt.Sprintf("Файлы (%d)", len(m.result.Files))) + "\n")
		for _, f := range m.result.Files {
			b.WriteString("  " + service.FileIcon(f.MimeType) + " " + t.Normal.Render(f.DisplayName()) + t.Muted.Render("  "+service.FormatSize(f.FileSize)) + "\n")
		}
	}
	if len(m.result.Users) > 0 {
		b.WriteString(t.Subtitle.Render(fmt.Sprintf("Пользователи (%d)", len(m.result.Users))) + "\n")
		for _, u := range m.result.Users {
			b.WriteString("  " + t.Normal.Render(u.FullName) + t.Muted.Render(" @"+u.Username+" "+u.Email) + "\n")
		}
	}
	return b.String()
}
