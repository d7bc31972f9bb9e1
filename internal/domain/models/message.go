package models

// Message - сообщение общего чата
type Message struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id,omitempty"`
	Username  string    `json:"username"`
	Message   string    `json:"message"`
	CreatedAt Timestamp `json:"created_at"`
}

type NewMessage struct {
	Message string `json:"message" validate:"required"`
}
