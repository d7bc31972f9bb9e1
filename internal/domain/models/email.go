package models

// Email - письмо внутренней почты. Изменяемое поле одно: IsRead.
type Email struct {
	ID        string    `json:"id"`
	FromEmail string    `json:"from_email"`
	ToEmail   string    `json:"to_email"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	IsRead    bool      `json:"is_read"`
	CreatedAt Timestamp `json:"created_at"`
}

type NewEmail struct {
	ToEmail string `json:"to_email" validate:"required,email"`
	Subject string `json:"subject" validate:"required"`
	Body    string `json:"body"`
}
