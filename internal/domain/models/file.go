package models

// File - файл из общего файлообменника
type File struct {
	ID           string    `json:"id"`
	Filename     string    `json:"filename"`
	OriginalName string    `json:"original_name,omitempty"`
	MimeType     string    `json:"mime_type"`
	FileSize     int64     `json:"file_size"`
	URL          string    `json:"url"`
	IsPublic     bool      `json:"is_public"`
	CreatedAt    Timestamp `json:"created_at"`
}

// DisplayName возвращает исходное имя файла, если оно известно
func (f File) DisplayName() string {
	if f.OriginalName != "" {
		return f.OriginalName
	}
	return f.Filename
}
