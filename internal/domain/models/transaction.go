package models

// Transaction представляет банковскую операцию. С точки зрения клиента записи только добавляются.
type Transaction struct {
	ID              string    `json:"id"`
	Amount          float64   `json:"amount"`
	Description     string    `json:"description"`
	TransactionType string    `json:"transaction_type"` // например, "transfer_sent" или "transfer_received"
	FromUserID      string    `json:"from_user_id,omitempty"`
	ToUserID        string    `json:"to_user_id,omitempty"`
	CreatedAt       Timestamp `json:"created_at"`
}

// Transfer - запрос на перевод средств
type Transfer struct {
	ToUserID    string  `json:"to_user_id" validate:"required"`
	Amount      float64 `json:"amount" validate:"gt=0"`
	Description string  `json:"description"`
}

// Balance - ответ /banking/balance
type Balance struct {
	Balance float64 `json:"balance"`
}
