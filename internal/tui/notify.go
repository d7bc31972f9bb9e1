package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// Notifier доставляет в цикл событий сообщения из горутин загрузки (прогресс).
// До Bind сообщения отбрасываются.
type Notifier struct {
	mu   sync.RWMutex
	send func(tea.Msg)
}

func (n *Notifier) Bind(send func(tea.Msg)) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.send = send
}

func (n *Notifier) Send(msg tea.Msg) {
	if n == nil {
		return
	}
	n.mu.RLock()
	send := n.send
	n.mu.RUnlock()
	if send != nil {
		send(msg)
	}
}

// progressMsg - процент отправки файла с номером index в пакете
type progressMsg struct {
	index   int
	percent int
}

func (n *Notifier) progress(index int) func(int) {
	return func(percent int) {
		n.Send(progressMsg{index: index, percent: percent})
	}
}
