package apiclient

import (
	"context"
	"fmt"
	"net/http"

	"github.com/linemk/impnet/internal/domain/models"
)

func (c *Client) Balance(ctx context.Context, creds Credentials) (float64, error) {
	const op = "apiclient.Balance"

	var resp models.Balance
	if err := c.doJSON(ctx, http.MethodGet, "/banking/balance", creds, nil, &resp); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return resp.Balance, nil
}

func (c *Client) Transactions(ctx context.Context, creds Credentials) ([]models.Transaction, error) {
	const op = "apiclient.Transactions"

	var txs []models.Transaction
	if err := c.doJSON(ctx, http.MethodGet, "/banking/transactions", creds, nil, &txs); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return txs, nil
}

// BankingUsers - список возможных получателей перевода
func (c *Client) BankingUsers(ctx context.Context, creds Credentials) ([]models.User, error) {
	const op = "apiclient.BankingUsers"

	var users []models.User
	if err := c.doJSON(ctx, http.MethodGet, "/banking/users", creds, nil, &users); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return users, nil
}

// Transfer переводит средства. Сумма <= 0 и пустой получатель отклоняются до отправки запроса.
func (c *Client) Transfer(ctx context.Context, creds Credentials, transfer models.Transfer) (*models.Transaction, error) {
	const op = "apiclient.Transfer"
	if err := Validate(transfer); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var tx models.Transaction
	if err := c.doJSON(ctx, http.MethodPost, "/banking/transfer", creds, transfer, &tx); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &tx, nil
}
