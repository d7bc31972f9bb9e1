package models

// Role - роль пользователя (гражданин, сотрудник ЦБ и т.д.)
type Role struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	DisplayName string    `json:"display_name"`
	Description string    `json:"description,omitempty"`
	Permissions []string  `json:"permissions"`
	CreatedAt   Timestamp `json:"created_at"`
	CreatedBy   string    `json:"created_by"`
}

// NewRole - запрос на создание роли (только для администратора)
type NewRole struct {
	Name        string   `json:"name" validate:"required"`
	DisplayName string   `json:"display_name" validate:"required"`
	Description string   `json:"description,omitempty"`
	Permissions []string `json:"permissions"`
}

// HasPermission проверяет наличие права у роли
func (r Role) HasPermission(permission string) bool {
	for _, p := range r.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}
