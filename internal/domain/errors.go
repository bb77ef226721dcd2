package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrAPIKeyNotConfigured возвращается, когда ключ Unsplash не задан в конфигурации.
var ErrAPIKeyNotConfigured = errors.New("unsplash API key not configured")

// FieldError описывает одну ошибку валидации параметра запроса.
type FieldError struct {
	Loc   []string `json:"loc"`
	Msg   string   `json:"msg"`
	Type  string   `json:"type"`
	Input any      `json:"input,omitempty"`
}

// ValidationError собирает все ошибки валидации входного запроса.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", strings.Join(f.Loc, "."), f.Msg))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Has сообщает, есть ли ошибка для параметра с указанным именем.
// Сравнивается последний элемент Loc: первый всегда указывает место параметра ("query").
func (e *ValidationError) Has(field string) bool {
	for _, f := range e.Fields {
		if len(f.Loc) > 0 && f.Loc[len(f.Loc)-1] == field {
			return true
		}
	}
	return false
}

// UpstreamError означает, что Unsplash ответил статусом, отличным от 2xx.
type UpstreamError struct {
	StatusCode int
	Message    string
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("Unsplash API returned status %d: %s", e.StatusCode, e.Message)
}
