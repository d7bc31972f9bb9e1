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
	bankAmount = iota
	bankDescription
)

// сколько последних операций показывать
const bankHistory = 10

type accountMsg struct {
	account  *service.Account
	transfer bool
	err      error
}

type bankingModel struct {
	svc     *service.BankingService
	theme   *Theme
	account *service.Account
	cursor  int
	form    form
	loading bool
	err     string
	info    string
}

func newBanking(svc *service.BankingService, theme *Theme) bankingModel {
	return bankingModel{
		svc:   svc,
		theme: theme,
		form: newForm(
			field{label: "Сумма", placeholder: "100.00"},
			field{label: "Комментарий"},
		),
		loading: true,
	}
}

func (m bankingModel) Init() tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		a, err := svc.Load(context.Background())
		return accountMsg{account: a, err: err}
	}
}

func (m bankingModel) Busy() bool {
	return m.loading
}

func (m bankingModel) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case accountMsg:
		m.loading = false
		if msg.err != nil {
			fallback := "Не удалось загрузить счёт"
			if msg.transfer {
				fallback = "Ошибка перевода"
			}
			m.err = apiclient.Message(msg.err, fallback)
			return m, nil
		}
		m.account, m.err = msg.account, ""
		m.cursor = clamp(m.cursor, len(m.account.Recipients))
		if msg.transfer {
			m.info = "Перевод выполнен"
			m.form = m.form.Reset()
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
			return m.transfer()
		}
		if m.account != nil {
			if c, ok := moveCursor(msg, m.cursor, len(m.account.Recipients)); ok {
				m.cursor = c
				return m, nil
			}
		}
	}
	var cmd tea.Cmd
	m.form, cmd = m.form.Update(msg)
	return m, cmd
}

func (m bankingModel) selected() string {
	if m.account == nil || len(m.account.Recipients) == 0 {
		return ""
	}
	return m.account.Recipients[m.cursor].ID
}

func (m bankingModel) transfer() (screen, tea.Cmd) {
	m.err, m.info = "", ""
	amount, err := service.ParseAmount(m.form.Value(bankAmount))
	if err != nil {
		m.err = apiclient.Message(err, "Неверная сумма")
		return m, nil
	}
	t := models.Transfer{
		ToUserID:    m.selected(),
		Amount:      amount,
		Description: m.form.Value(bankDescription),
	}
	m.loading = true
	svc := m.svc
	return m, func() tea.Msg {
		a, err := svc.Transfer(context.Background(), t)
		return accountMsg{account: a, transfer: true, err: err}
	}
}

func (m bankingModel) View() string {
	t := m.theme
	var b strings.Builder
	if m.account == nil {
		b.WriteString(t.Muted.Render("Загрузка счёта..."))
		if m.err != "" {
			b.WriteString("\n" + t.Error.Render(m.err))
		}
		return b.String()
	}

	b.WriteString(t.Subtitle.Render("Баланс: "+service.FormatAmount(m.account.Balance)) + "\n\n")

	b.WriteString(t.Subtitle.Render("Получатель") + "\n")
	if len(m.account.Recipients) == 0 {
		b.WriteString(t.Muted.Render("  Нет доступных получателей") + "\n")
	}
	for i, u := range m.account.Recipients {
		b.WriteString(marker(t, i == m.cursor, fmt.Sprintf("%s (%s)", u.FullName, u.Email)) + "\n")
	}
	b.WriteString("\n" + m.form.View(t) + "\n")
	if m.err != "" {
		b.WriteString(t.Error.Render(m.err) + "\n")
	}
	if m.info != "" {
		b.WriteString(t.Info.Render(m.info) + "\n")
	}

	b.WriteString("\n" + t.Subtitle.Render("История операций") + "\n")
	if len(m.account.Transactions) == 0 {
		b.WriteString(t.Muted.Render("Операций пока нет"))
	}
	for i, tx := range m.account.Transactions {
		if i == bankHistory {
			break
		}
		b.WriteString(m.txLine(tx) + "\n")
	}
	return b.String()
}

func (m bankingModel) txLine(tx models.Transaction) string {
	t := m.theme
	sign, style := "-", t.Error
	if tx.TransactionType == "transfer_received" {
		sign, style = "+", t.Info
	}
	return t.Muted.Render(service.FormatDateTime(tx.CreatedAt)+"  ") +
		style.Render(sign+service.FormatAmount(tx.Amount)) +
		t.Normal.Render("  "+tx.Description)
}
