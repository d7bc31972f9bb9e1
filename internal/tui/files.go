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

type filesMsg struct {
	files    []models.File
	uploaded bool
	err      error
}

type filesModel struct {
	svc      *service.FilesService
	notifier *Notifier
	theme    *Theme
	files    []models.File
	path     form
	public   bool
	upload   uploadBar
	loading  bool
	err      string
	info     string
}

func newFiles(svc *service.FilesService, notifier *Notifier, theme *Theme) filesModel {
	return filesModel{
		svc:      svc,
		notifier: notifier,
		theme:    theme,
		path:     newForm(field{label: "Файл", placeholder: "/путь/к/файлу"}),
		upload:   newUploadBar(),
		loading:  true,
	}
}

func (m filesModel) Init() tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		files, err := svc.Load(context.Background())
		return filesMsg{files: files, err: err}
	}
}

func (m filesModel) Busy() bool {
	return m.loading
}

func (m filesModel) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case progressMsg:
		m.upload = m.upload.apply(msg)
		return m, nil
	case filesMsg:
		m.loading = false
		m.upload = m.upload.stop()
		if msg.err != nil {
			m.err = apiclient.Message(msg.err, "Ошибка загрузки файла")
			return m, nil
		}
		m.files, m.err = msg.files, ""
		if msg.uploaded {
			m.info = "Файл загружен"
			m.path = m.path.Reset()
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
		case key.Matches(msg, keys.Toggle):
			m.public = !m.public
			return m, nil
		case key.Matches(msg, keys.Submit):
			return m.send()
		}
	}
	var cmd tea.Cmd
	m.path, cmd = m.path.Update(msg)
	return m, cmd
}

func (m filesModel) send() (screen, tea.Cmd) {
	m.err, m.info = "", ""
	path := m.path.Value(0)
	if path == "" {
		m.err = "Выберите файл"
		return m, nil
	}
	m.loading = true
	m.upload = m.upload.start(1)
	svc, public, progress := m.svc, m.public, m.notifier.progress(0)
	return m, func() tea.Msg {
		up, closer, err := apiclient.OpenUpload(path)
		if err != nil {
			return filesMsg{err: err}
		}
		defer closer.Close()
		files, err := svc.Upload(context.Background(), up, public, progress)
		return filesMsg{files: files, uploaded: true, err: err}
	}
}

func (m filesModel) View() string {
	t := m.theme
	var b strings.Builder
	b.WriteString(t.Subtitle.Render("Файлообменник") + "\n\n")

	if len(m.files) == 0 && !m.loading {
		b.WriteString(t.Muted.Render("Файлов пока нет") + "\n")
	}
	for _, f := range m.files {
		access := "личный"
		if f.IsPublic {
			access = "общий"
		}
		b.WriteString(fmt.Sprintf("%s %s  %s  %s  %s\n",
			service.FileIcon(f.MimeType),
			t.Normal.Render(f.DisplayName()),
			t.Muted.Render(service.FormatSize(f.FileSize)),
			t.Muted.Render(service.FormatDate(f.CreatedAt)),
			t.Muted.Render(access)))
	}

	b.WriteString("\n" + m.path.View(t) + "\n")
	public := "[ ] общий доступ"
	if m.public {
		public = "[x] общий доступ"
	}
	b.WriteString(t.Normal.Render(public) + "  " + helpLine(t, keys.Toggle) + "\n")
	if bar := m.upload.View(t); bar != "" {
		b.WriteString(bar + "\n")
	}
	if m.err != "" {
		b.WriteString(t.Error.Render(m.err) + "\n")
	}
	if m.info != "" {
		b.WriteString(t.Info.Render(m.info) + "\n")
	}
	return b.String()
}
