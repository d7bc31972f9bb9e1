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
	ppLastName = iota
	ppFirstName
	ppMiddleName
	ppBirthDate
	ppBirthPlace
	ppGender
	ppIssuePlace
	ppPhoto
)

type passportMsg struct {
	page   *service.PassportPage
	action string
	err    error
}

type passportModel struct {
	svc      *service.PassportService
	notifier *Notifier
	resolve  func(string) string
	theme    *Theme
	page     *service.PassportPage
	form     form
	cursor   int
	upload   uploadBar
	loading  bool
	err      string
	info     string
}

func newPassport(svc *service.PassportService, notifier *Notifier, resolve func(string) string, theme *Theme) passportModel {
	return passportModel{
		svc:      svc,
		notifier: notifier,
		resolve:  resolve,
		theme:    theme,
		form: newForm(
			field{label: "Фамилия"},
			field{label: "Имя"},
			field{label: "Отчество"},
			field{label: "Дата рождения", placeholder: "1990-01-31"},
			field{label: "Место рождения"},
			field{label: "Пол", placeholder: "М или Ж"},
			field{label: "Место выдачи"},
			field{label: "Фото (файл)", placeholder: "/путь/к/фото.jpg"},
		),
		upload:  newUploadBar(),
		loading: true,
	}
}

func (m passportModel) Init() tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		page, err := svc.Load(context.Background())
		return passportMsg{page: page, err: err}
	}
}

func (m passportModel) Busy() bool {
	return m.loading
}

func (m passportModel) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case progressMsg:
		m.upload = m.upload.apply(msg)
		return m, nil
	case passportMsg:
		m.loading = false
		m.upload = m.upload.stop()
		if msg.err != nil {
			m.err = apiclient.Message(msg.err, "Ошибка работы с паспортом")
			return m, nil
		}
		m.page, m.err = msg.page, ""
		m.cursor = clamp(m.cursor, len(m.page.Photos))
		m.fill()
		m.info = msg.action
		return m, nil
	case tea.KeyMsg:
		if m.loading {
			return m, nil
		}
		switch {
		case key.Matches(msg, keys.Refresh):
			m.loading = true
			return m, m.Init()
		case key.Matches(msg, keys.UsePhoto):
			return m.usePhoto()
		case key.Matches(msg, keys.Submit):
			if m.form.Focused() == ppPhoto {
				return m.uploadPhoto()
			}
			return m.save()
		}
		if m.page != nil {
			if c, ok := moveCursor(msg, m.cursor, len(m.page.Photos)); ok {
				m.cursor = c
				return m, nil
			}
		}
	}
	var cmd tea.Cmd
	m.form, cmd = m.form.Update(msg)
	return m, cmd
}

// fill переносит данные выпущенного паспорта в форму
func (m passportModel) fill() {
	if m.page == nil || m.page.Passport == nil {
		return
	}
	f := m.page.Passport.Form()
	for i, v := range []string{f.LastName, f.FirstName, f.MiddleName, f.BirthDate, f.BirthPlace, f.Gender, f.IssuePlace} {
		m.form.SetValue(i, v)
	}
	m.form.SetValue(ppPhoto, "")
}

func (m passportModel) save() (screen, tea.Cmd) {
	m.err, m.info = "", ""
	var current *models.Passport
	if m.page != nil {
		current = m.page.Passport
	}
	f := models.PassportForm{
		FirstName:  m.form.Value(ppFirstName),
		LastName:   m.form.Value(ppLastName),
		MiddleName: m.form.Value(ppMiddleName),
		BirthDate:  m.form.Value(ppBirthDate),
		BirthPlace: m.form.Value(ppBirthPlace),
		Gender:     strings.ToUpper(m.form.Value(ppGender)),
		IssuePlace: m.form.Value(ppIssuePlace),
	}
	action := "Паспорт обновлён"
	if current == nil {
		action = "Паспорт выпущен"
	}
	m.loading = true
	svc := m.svc
	return m, func() tea.Msg {
		page, err := svc.Save(context.Background(), current, f)
		return passportMsg{page: page, action: action, err: err}
	}
}

func (m passportModel) uploadPhoto() (screen, tea.Cmd) {
	m.err, m.info = "", ""
	path := m.form.Value(ppPhoto)
	if path == "" {
		m.err = "Выберите файл с фото"
		return m, nil
	}
	m.loading = true
	m.upload = m.upload.start(1)
	svc, progress := m.svc, m.notifier.progress(0)
	return m, func() tea.Msg {
		up, closer, err := apiclient.OpenUpload(path)
		if err != nil {
			return passportMsg{err: err}
		}
		defer closer.Close()
		page, err := svc.UploadPhoto(context.Background(), up, progress)
		return passportMsg{page: page, action: "Фото загружено", err: err}
	}
}

func (m passportModel) usePhoto() (screen, tea.Cmd) {
	if m.page == nil || len(m.page.Photos) == 0 {
		return m, nil
	}
	m.err, m.info = "", ""
	m.loading = true
	svc, id := m.svc, m.page.Photos[m.cursor].ID
	return m, func() tea.Msg {
		page, err := svc.UsePhoto(context.Background(), id)
		return passportMsg{page: page, action: "Фото установлено", err: err}
	}
}

func (m passportModel) View() string {
	t := m.theme
	var b strings.Builder
	b.WriteString(t.Subtitle.Render("Виртуальный паспорт") + "\n\n")

	switch {
	case m.page == nil:
		b.WriteString(t.Muted.Render("Загрузка...") + "\n")
	case m.page.Passport == nil:
		b.WriteString(t.Muted.Render("Паспорт ещё не выпущен. Заполните форму и нажмите enter.") + "\n")
	default:
		p := m.page.Passport
		card := []string{
			t.Title.Render(fmt.Sprintf("Серия %s № %s", p.Series, p.Number)),
			t.Normal.Render(strings.TrimSpace(p.LastName + " " + p.FirstName + " " + p.MiddleName)),
			t.Muted.Render("Дата рождения: " + p.BirthDate + ", " + p.BirthPlace),
			t.Muted.Render("Пол: " + p.Gender),
			t.Muted.Render("Выдан: " + p.IssueDate + ", " + p.IssuePlace),
		}
		if p.PhotoURL != "" {
			card = append(card, t.Muted.Render("Фото: "+m.resolve(p.PhotoURL)))
		} else {
			card = append(card, t.Muted.Render("Фото не установлено"))
		}
		b.WriteString(t.Box.Render(strings.Join(card, "\n")) + "\n")
	}

	b.WriteString("\n" + m.form.View(t) + "\n")
	if bar := m.upload.View(t); bar != "" {
		b.WriteString(bar + "\n")
	}

	if m.page != nil && len(m.page.Photos) > 0 {
		b.WriteString("\n" + t.Subtitle.Render("Загруженные изображения") + "\n")
		for i, d := range m.page.Photos {
			b.WriteString(marker(t, i == m.cursor, fmt.Sprintf("%s %s  %s", service.FileIcon(d.MimeType), d.OriginalName, service.FormatSize(d.FileSize))) + "\n")
		}
	}
	if m.err != "" {
		b.WriteString(t.Error.Render(m.err) + "\n")
	}
	if m.info != "" {
		b.WriteString(t.Info.Render(m.info) + "\n")
	}
	b.WriteString(helpLine(t, keys.Submit, keys.NextField, keys.UsePhoto))
	return b.String()
}
