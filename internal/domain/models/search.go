package models

const (
	SearchAll      = "all"
	SearchMessages = "messages"
	SearchFiles    = "files"
	SearchUsers    = "users"
)

type SearchQuery struct {
	Query      string `json:"query" validate:"required"`
	SearchType string `json:"search_type" validate:"oneof=all messages files users"`
}

// SearchResult - ответ /search
type SearchResult struct {
	Messages []Message `json:"messages"`
	Files    []File    `json:"files"`
	Users    []User    `json:"users"`
}

// Total - общее число найденных записей
func (r SearchResult) Total() int {
	return len(r.Messages) + len(r.Files) + len(r.Users)
}
