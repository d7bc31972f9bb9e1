package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type field struct {
	label       string
	placeholder string
	secret      bool
}

// form - набор полей ввода с переходом по tab/shift+tab
type form struct {
	labels []string
	inputs []textinput.Model
	focus  int
}

func newForm(fields ...field) form {
	f := form{
		labels: make([]string, len(fields)),
		inputs: make([]textinput.Model, len(fields)),
	}
	for i, fl := range fields {
		ti := textinput.New()
		ti.Placeholder = fl.placeholder
		ti.CharLimit = 512
		ti.Width = 40
		ti.Prompt = ""
		if fl.secret {
			ti.EchoMode = textinput.EchoPassword
			ti.EchoCharacter = '•'
		}
		f.labels[i] = fl.label
		f.inputs[i] = ti
	}
	if len(f.inputs) > 0 {
		f.inputs[0].Focus()
	}
	return f
}

func (f form) Update(msg tea.Msg) (form, tea.Cmd) {
	if len(f.inputs) == 0 {
		return f, nil
	}
	if km, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(km, keys.NextField):
			return f.moveFocus(1), nil
		case key.Matches(km, keys.PrevField):
			return f.moveFocus(-1), nil
		}
	}
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, cmd
}

func (f form) moveFocus(delta int) form {
	f.inputs[f.focus].Blur()
	n := len(f.inputs)
	f.focus = ((f.focus+delta)%n + n) % n
	f.inputs[f.focus].Focus()
	return f
}

func (f form) Focused() int {
	return f.focus
}

// Value - значение поля без пробелов по краям. Пароли берутся через Raw.
func (f form) Value(i int) string {
	return strings.TrimSpace(f.inputs[i].Value())
}

func (f form) Raw(i int) string {
	return f.inputs[i].Value()
}

func (f form) SetValue(i int, v string) {
	f.inputs[i].SetValue(v)
}

// Reset очищает поля и возвращает фокус на первое
func (f form) Reset() form {
	for i := range f.inputs {
		f.inputs[i].SetValue("")
	}
	if len(f.inputs) > 0 && f.focus != 0 {
		return f.moveFocus(-f.focus)
	}
	return f
}

func (f form) View(t *Theme) string {
	width := 0
	for _, l := range f.labels {
		if w := lipgloss.Width(l); w > width {
			width = w
		}
	}
	label := t.Muted.Width(width + 2)
	lines := make([]string, len(f.inputs))
	for i, in := range f.inputs {
		l := label.Render(f.labels[i])
		if i == f.focus {
			l = t.Title.Width(width + 2).Render(f.labels[i])
		}
		lines[i] = l + in.View()
	}
	return strings.Join(lines, "\n")
}
