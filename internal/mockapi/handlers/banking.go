package handlers

import (
	"log/slog"
	"net/http"

	"github.com/linemk/impnet/internal/domain/models"
)

type BankingService interface {
	User(id string) (models.User, error)
	Users() []models.User
	Transactions(userID string) []models.Transaction
	Transfer(fromID string, t models.Transfer) (models.Transaction, error)
}

// BalanceHandler обрабатывает GET /api/banking/balance
func BalanceHandler(log *slog.Logger, banking BankingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.BalanceHandler"
		logger := log.With(slog.String("op", op))

		userID, ok := currentUser(logger, w, r)
		if !ok {
			return
		}
		user, err := banking.User(userID)
		if err != nil {
			writeStoreError(logger, w, err)
			return
		}
		writeJSON(logger, w, http.StatusOK, models.Balance{Balance: user.Balance})
	}
}

// TransactionsHandler обрабатывает GET /api/banking/transactions
func TransactionsHandler(log *slog.Logger, banking BankingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.TransactionsHandler"
		logger := log.With(slog.String("op", op))

		userID, ok := currentUser(logger, w, r)
		if !ok {
			return
		}
		writeJSON(logger, w, http.StatusOK, banking.Transactions(userID))
	}
}

// BankingUsersHandler обрабатывает GET /api/banking/users: все получатели, кроме самого пользователя
func BankingUsersHandler(log *slog.Logger, banking BankingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.BankingUsersHandler"
		logger := log.With(slog.String("op", op))

		userID, ok := currentUser(logger, w, r)
		if !ok {
			return
		}

		users := []models.User{}
		for _, u := range banking.Users() {
			if u.ID != userID && u.IsActive {
				users = append(users, u)
			}
		}
		writeJSON(logger, w, http.StatusOK, users)
	}
}

// TransferHandler обрабатывает POST /api/banking/transfer
func TransferHandler(log *slog.Logger, banking BankingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.TransferHandler"
		logger := log.With(slog.String("op", op))

		userID, ok := currentUser(logger, w, r)
		if !ok {
			return
		}

		var req models.Transfer
		if !decodeJSON(logger, w, r, &req) {
			return
		}

		tx, err := banking.Transfer(userID, req)
		if err != nil {
			writeStoreError(logger, w, err)
			return
		}

		logger.Info("transfer completed",
			slog.String("from", userID),
			slog.String("to", req.ToUserID),
			slog.Float64("amount", req.Amount),
		)
		writeJSON(logger, w, http.StatusOK, tx)
	}
}
