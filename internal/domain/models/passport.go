package models

// Passport - виртуальный паспорт. Не больше одного на пользователя.
type Passport struct {
	ID         string    `json:"id"`
	Series     string    `json:"series"`
	Number     string    `json:"number"`
	IssueDate  string    `json:"issue_date"`
	IssuePlace string    `json:"issue_place"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	MiddleName string    `json:"middle_name,omitempty"`
	BirthDate  string    `json:"birth_date"`
	BirthPlace string    `json:"birth_place"`
	Gender     string    `json:"gender"`
	PhotoURL   string    `json:"photo_url,omitempty"`
	CreatedAt  Timestamp `json:"created_at"`
	UpdatedAt  Timestamp `json:"updated_at"`
}

// PassportForm - данные формы паспорта, отправляются целиком при создании и замене
type PassportForm struct {
	FirstName  string `json:"first_name" validate:"required"`
	LastName   string `json:"last_name" validate:"required"`
	MiddleName string `json:"middle_name,omitempty"`
	BirthDate  string `json:"birth_date" validate:"required,datetime=2006-01-02"`
	BirthPlace string `json:"birth_place" validate:"required"`
	Gender     string `json:"gender" validate:"required,oneof=М Ж"`
	IssuePlace string `json:"issue_place" validate:"required"`
}

// Form возвращает редактируемую часть паспорта
func (p Passport) Form() PassportForm {
	return PassportForm{
		FirstName:  p.FirstName,
		LastName:   p.LastName,
		MiddleName: p.MiddleName,
		BirthDate:  p.BirthDate,
		BirthPlace: p.BirthPlace,
		Gender:     p.Gender,
		IssuePlace: p.IssuePlace,
	}
}
