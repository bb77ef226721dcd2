package domain

import "encoding/json"

const (
	DefaultPage    = 1
	DefaultPerPage = 10
	MaxPerPage     = 30
)

// SearchRequest описывает один запрос поиска фотографий.
// Значения уже провалидированы на входе в handler.
type SearchRequest struct {
	Query   string
	Page    int
	PerPage int
}

// SearchResponse содержит нормализованный ответ поиска.
// Results передаются клиенту без изменений, в том виде, в каком их вернул Unsplash.
type SearchResponse struct {
	Results    []json.RawMessage `json:"results"`
	Total      int               `json:"total"`
	Page       int               `json:"page"`
	TotalPages int               `json:"total_pages"`
}
