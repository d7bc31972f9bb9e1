package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// moveCursor сдвигает курсор списка из n элементов по ↑/↓
func moveCursor(msg tea.KeyMsg, cursor, n int) (int, bool) {
	switch {
	case key.Matches(msg, keys.Up):
		return clamp(cursor-1, n), true
	case key.Matches(msg, keys.Down):
		return clamp(cursor+1, n), true
	}
	return cursor, false
}

func clamp(cursor, n int) int {
	if n == 0 || cursor < 0 {
		return 0
	}
	if cursor >= n {
		return n - 1
	}
	return cursor
}

// marker рисует указатель выбранной строки
func marker(t *Theme, selected bool, line string) string {
	if selected {
		return t.Cursor.Render("› " + line)
	}
	return "  " + t.Normal.Render(line)
}
