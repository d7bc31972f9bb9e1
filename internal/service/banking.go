package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/linemk/impnet/internal/apiclient"
	"github.com/linemk/impnet/internal/domain/models"
	"golang.org/x/sync/errgroup"
)

type BankingAPI interface {
	Balance(ctx context.Context, creds apiclient.Credentials) (float64, error)
	Transactions(ctx context.Context, creds apiclient.Credentials) ([]models.Transaction, error)
	BankingUsers(ctx context.Context, creds apiclient.Credentials) ([]models.User, error)
	Transfer(ctx context.Context, creds apiclient.Credentials, transfer models.Transfer) (*models.Transaction, error)
}

type Account struct {
	Balance      float64
	Transactions []models.Transaction
	Recipients   []models.User
}

// Recipient находит получателя по id
func (a *Account) Recipient(id string) (models.User, bool) {
	if a == nil {
		return models.User{}, false
	}
	for _, u := range a.Recipients {
		if u.ID == id {
			return u, true
		}
	}
	return models.User{}, false
}

type BankingService struct {
	log   *slog.Logger
	api   BankingAPI
	creds apiclient.Credentials
}

func NewBankingService(log *slog.Logger, api BankingAPI, creds apiclient.Credentials) *BankingService {
	return &BankingService{log: log, api: api, creds: creds}
}

// Load запрашивает баланс, историю и список получателей одновременно
func (s *BankingService) Load(ctx context.Context) (*Account, error) {
	const op = "service.Banking.Load"

	var a Account
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		balance, err := s.api.Balance(gctx, s.creds)
		a.Balance = balance
		return err
	})
	g.Go(func() error {
		txs, err := s.api.Transactions(gctx, s.creds)
		a.Transactions = txs
		return err
	})
	g.Go(func() error {
		users, err := s.api.BankingUsers(gctx, s.creds)
		a.Recipients = users
		return err
	})
	if err := g.Wait(); err != nil {
		s.log.Error("failed to load account", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &a, nil
}

// Transfer проверяет форму, отправляет перевод и перечитывает счёт
func (s *BankingService) Transfer(ctx context.Context, transfer models.Transfer) (*Account, error) {
	const op = "service.Banking.Transfer"
	logger := s.log.With(slog.String("op", op))

	if _, err := s.api.Transfer(ctx, s.creds, transfer); err != nil {
		logger.Warn("transfer rejected", slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	logger.Info("transfer sent", slog.String("to", transfer.ToUserID), slog.Float64("amount", transfer.Amount))
	return s.Load(ctx)
}

// ParseAmount разбирает сумму из поля формы; допускается запятая как разделитель
func ParseAmount(text string) (float64, error) {
	text = strings.ReplaceAll(strings.TrimSpace(text), ",", ".")
	if text == "" {
		return 0, &apiclient.ValidationError{Fields: []apiclient.FieldError{{Field: "Amount", Message: "This field is required"}}}
	}
	amount, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsInf(amount, 0) || math.IsNaN(amount) {
		return 0, &apiclient.ValidationError{Fields: []apiclient.FieldError{{Field: "Amount", Message: "Invalid value"}}}
	}
	return amount, nil
}
