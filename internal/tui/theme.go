package tui

import "github.com/charmbracelet/lipgloss"

const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// Theme - палитра и готовые стили. Экраны держат указатель, поэтому
// переключение темы применяется сразу ко всем.
type Theme struct {
	Name string

	Accent   lipgloss.Color
	Text     lipgloss.Color
	Faint    lipgloss.Color
	ErrorFg  lipgloss.Color
	Success  lipgloss.Color
	Selected lipgloss.Color
	Border   lipgloss.Color

	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Normal   lipgloss.Style
	Muted    lipgloss.Style
	Error    lipgloss.Style
	Info     lipgloss.Style
	Cursor   lipgloss.Style
	Tab      lipgloss.Style
	TabOn    lipgloss.Style
	Box      lipgloss.Style
	Help     lipgloss.Style
}

func DarkTheme() Theme {
	return newTheme(ThemeDark, Theme{
		Accent:   lipgloss.Color("39"),
		Text:     lipgloss.Color("252"),
		Faint:    lipgloss.Color("243"),
		ErrorFg:  lipgloss.Color("203"),
		Success:  lipgloss.Color("78"),
		Selected: lipgloss.Color("236"),
		Border:   lipgloss.Color("240"),
	})
}

func LightTheme() Theme {
	return newTheme(ThemeLight, Theme{
		Accent:   lipgloss.Color("25"),
		Text:     lipgloss.Color("235"),
		Faint:    lipgloss.Color("245"),
		ErrorFg:  lipgloss.Color("160"),
		Success:  lipgloss.Color("28"),
		Selected: lipgloss.Color("254"),
		Border:   lipgloss.Color("250"),
	})
}

// ThemeByName возвращает тёмную тему для любого неизвестного имени
func ThemeByName(name string) Theme {
	if name == ThemeLight {
		return LightTheme()
	}
	return DarkTheme()
}

func newTheme(name string, t Theme) Theme {
	t.Name = name
	t.Title = lipgloss.NewStyle().Bold(true).Foreground(t.Accent)
	t.Subtitle = lipgloss.NewStyle().Bold(true).Foreground(t.Text)
	t.Normal = lipgloss.NewStyle().Foreground(t.Text)
	t.Muted = lipgloss.NewStyle().Foreground(t.Faint)
	t.Error = lipgloss.NewStyle().Foreground(t.ErrorFg)
	t.Info = lipgloss.NewStyle().Foreground(t.Success)
	t.Cursor = lipgloss.NewStyle().Bold(true).Foreground(t.Accent).Background(t.Selected)
	t.Tab = lipgloss.NewStyle().Padding(0, 1).Foreground(t.Faint)
	t.TabOn = lipgloss.NewStyle().Padding(0, 1).Bold(true).Foreground(t.Accent).Underline(true)
	t.Box = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(t.Border).Padding(0, 1)
	t.Help = lipgloss.NewStyle().Foreground(t.Faint).Italic(true)
	return t
}

// Toggle переключает тёмную и светлую тему
func (t *Theme) Toggle() {
	if t.Name == ThemeDark {
		*t = LightTheme()
	} else {
		*t = DarkTheme()
	}
}
