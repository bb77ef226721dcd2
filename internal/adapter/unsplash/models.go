package unsplash

import "encoding/json"

// searchEnvelope описывает тело ответа /search/photos.
// Фото не разбираем: клиенту они уходят как есть.
type searchEnvelope struct {
	Results []json.RawMessage `json:"results"`
}

// errorEnvelope описывает тело ошибки Unsplash, например {"errors":["OAuth error: The access token is invalid"]}
type errorEnvelope struct {
	Errors []string `json:"errors"`
}

const (
	headerTotal      = "X-Total"
	headerTotalPages = "X-Total-Pages"
)
