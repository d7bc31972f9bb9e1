package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap - клавиши оболочки и общие клавиши экранов. Буквы без модификаторов
// оставлены полям ввода.
type keyMap struct {
	Quit      key.Binding
	Next      key.Binding
	Prev      key.Binding
	Theme     key.Binding
	Logout    key.Binding
	Refresh   key.Binding
	Submit    key.Binding
	NextField key.Binding
	PrevField key.Binding
	Up        key.Binding
	Down      key.Binding
	Cancel    key.Binding
	Delete    key.Binding
	Confirm   key.Binding
	Compose   key.Binding
	SwitchTab key.Binding
	Toggle    key.Binding
	UsePhoto  key.Binding
	Register  key.Binding
}

var keys = keyMap{
	Quit:      key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "выход")),
	Next:      key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "следующий раздел")),
	Prev:      key.NewBinding(key.WithKeys("ctrl+b"), key.WithHelp("ctrl+b", "предыдущий раздел")),
	Theme:     key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "тема")),
	Logout:    key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("ctrl+o", "выйти")),
	Refresh:   key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "обновить")),
	Submit:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "отправить")),
	NextField: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "след. поле")),
	PrevField: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "пред. поле")),
	Up:        key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "вверх")),
	Down:      key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "вниз")),
	Cancel:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "отмена")),
	Delete:    key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", "удалить")),
	Confirm:   key.NewBinding(key.WithKeys("y", "Y", "д", "Д"), key.WithHelp("y", "подтвердить")),
	Compose:   key.NewBinding(key.WithKeys("ctrl+e"), key.WithHelp("ctrl+e", "новое письмо")),
	SwitchTab: key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "входящие/отправленные")),
	Toggle:    key.NewBinding(key.WithKeys("ctrl+a"), key.WithHelp("ctrl+a", "переключить")),
	UsePhoto:  key.NewBinding(key.WithKeys("ctrl+f"), key.WithHelp("ctrl+f", "сделать фото паспорта")),
	Register:  key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "вход/регистрация")),
}

// helpLine собирает строку подсказки из привязок
func helpLine(t *Theme, bindings ...key.Binding) string {
	out := ""
	for i, b := range bindings {
		if i > 0 {
			out += " • "
		}
		h := b.Help()
		out += h.Key + " " + h.Desc
	}
	return t.Help.Render(out)
}
