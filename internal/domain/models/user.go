package models

// User представляет учётную запись в сети impNet
type User struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	Username  string     `json:"username"`
	FullName  string     `json:"full_name"`
	RoleID    string     `json:"role_id"`
	IsActive  bool       `json:"is_active"`
	Balance   float64    `json:"balance"`
	AvatarURL string     `json:"avatar_url,omitempty"`
	CreatedAt Timestamp  `json:"created_at"`
	LastLogin *Timestamp `json:"last_login,omitempty"`
}

// NewUser - данные формы регистрации
type NewUser struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required"`
	FullName string `json:"full_name" validate:"required"`
	Password string `json:"password" validate:"required"`
	RoleID   string `json:"role_id,omitempty"`
}

// Credentials - данные формы входа
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthToken - ответ /auth/login и /auth/register
type AuthToken struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	User        User   `json:"user"`
}
