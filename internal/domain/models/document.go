package models

// Document - личный документ пользователя (скан паспорта, фото, справка)
type Document struct {
	ID           string    `json:"id"`
	Type         string    `json:"type"`
	Filename     string    `json:"filename"`
	OriginalName string    `json:"original_name"`
	FileSize     int64     `json:"file_size"`
	MimeType     string    `json:"mime_type"`
	URL          string    `json:"url"`
	Description  string    `json:"description,omitempty"`
	CreatedAt    Timestamp `json:"created_at"`
}
