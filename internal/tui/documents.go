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
	docPaths = iota
	docType
	docDescription
)

type documentsMsg struct {
	docs     []models.Document
	uploaded int
	deleted  bool
	err      error
}

type documentsModel struct {
	svc      *service.DocumentsService
	notifier *Notifier
	theme    *Theme
	docs     []models.Document
	cursor   int
	confirm  bool
	form     form
	upload   uploadBar
	loading  bool
	err      string
	info     string
}

func newDocuments(svc *service.DocumentsService, notifier *Notifier, theme *Theme) documentsModel {
	return documentsModel{
		svc:      svc,
		notifier: notifier,
		theme:    theme,
		form: newForm(
			field{label: "Файлы", placeholder: "скан.pdf, фото.jpg"},
			field{label: "Тип", placeholder: apiclient.DocumentTypeDocument},
			field{label: "Описание"},
		),
		upload:  newUploadBar(),
		loading: true,
	}
}

func (m documentsModel) Init() tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		docs, err := svc.Load(context.Background())
		return documentsMsg{docs: docs, err: err}
	}
}

func (m documentsModel) Busy() bool {
	return m.loading
}

func (m documentsModel) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case progressMsg:
		m.upload = m.upload.apply(msg)
		return m, nil
	case documentsMsg:
		m.loading = false
		m.upload = m.upload.stop()
		// при частичной ошибке пакета список всё равно перечитан
		if msg.err == nil || msg.docs != nil {
			m.docs = msg.docs
			m.cursor = clamp(m.cursor, len(m.docs))
		}
		if msg.err != nil {
			m.err = apiclient.Message(msg.err, "Ошибка работы с документами")
			return m, nil
		}
		m.err = ""
		switch {
		case msg.uploaded > 0:
			m.info = fmt.Sprintf("Загружено документов: %d", msg.uploaded)
			m.form = m.form.Reset()
		case msg.deleted:
			m.info = "Документ удалён"
		}
		return m, nil
	case tea.KeyMsg:
		if m.loading {
			return m, nil
		}
		if m.confirm {
			return m.confirmDelete(msg)
		}
		switch {
		case key.Matches(msg, keys.Refresh):
			m.loading = true
			return m, m.Init()
		case key.Matches(msg, keys.Delete):
			if len(m.docs) > 0 {
				m.confirm = true
				m.err, m.info = "", ""
			}
			return m, nil
		case key.Matches(msg, keys.Submit):
			return m.send()
		}
		if c, ok := moveCursor(msg, m.cursor, len(m.docs)); ok {
			m.cursor = c
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.form, cmd = m.form.Update(msg)
	return m, cmd
}

func (m documentsModel) confirmDelete(msg tea.KeyMsg) (screen, tea.Cmd) {
	m.confirm = false
	if !key.Matches(msg, keys.Confirm) {
		return m, nil
	}
	m.loading = true
	svc, id := m.svc, m.docs[m.cursor].ID
	return m, func() tea.Msg {
		docs, err := svc.Delete(context.Background(), id)
		return documentsMsg{docs: docs, deleted: true, err: err}
	}
}

func (m documentsModel) send() (screen, tea.Cmd) {
	m.err, m.info = "", ""
	paths := splitPaths(m.form.Value(docPaths))
	if len(paths) == 0 {
		m.err = "Выберите файлы"
		return m, nil
	}
	m.loading = true
	m.upload = m.upload.start(len(paths))
	svc, notifier := m.svc, m.notifier
	kind, description := m.form.Value(docType), m.form.Value(docDescription)
	return m, func() tea.Msg {
		uploads, closeAll, err := openUploads(paths)
		if err != nil {
			return documentsMsg{err: err}
		}
		defer closeAll()
		docs, err := svc.Upload(context.Background(), uploads, kind, description, func(index, percent int) {
			notifier.Send(progressMsg{index: index, percent: percent})
		})
		return documentsMsg{docs: docs, uploaded: len(uploads), err: err}
	}
}

func (m documentsModel) View() string {
	t := m.theme
	var b strings.Builder
	b.WriteString(t.Subtitle.Render("Мои документы") + "\n\n")

	if len(m.docs) == 0 && !m.loading {
		b.WriteString(t.Muted.Render("Документов пока нет") + "\n")
	}
	for i, d := range m.docs {
		line := fmt.Sprintf("%s %s  %s  %s  %s", service.FileIcon(d.MimeType), d.OriginalName, d.Type,
			service.FormatSize(d.FileSize), service.FormatDate(d.CreatedAt))
		b.WriteString(marker(t, i == m.cursor, line) + "\n")
		if i == m.cursor && d.Description != "" {
			b.WriteString(t.Muted.Render("    "+d.Description) + "\n")
		}
	}
	if m.confirm {
		b.WriteString("\n" + t.Error.Render(fmt.Sprintf("Удалить «%s»? (y/n)", m.docs[m.cursor].OriginalName)) + "\n")
	}

	b.WriteString("\n" + m.form.View(t) + "\n")
	if bar := m.upload.View(t); bar != "" {
		b.WriteString(bar + "\n")
	}
	if m.err != "" {
		b.WriteString(t.Error.Render(m.err) + "\n")
	}
	if m.info != "" {
		b.WriteString(t.Info.Render(m.info) + "\n")
	}
	b.WriteString(helpLine(t, keys.Submit, keys.Up, keys.Down, keys.Delete))
	return b.String()
}
