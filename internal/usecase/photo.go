package usecase

import (
	"context"

	"github.com/GoArmGo/PhotoRelay/internal/domain"
)

// PhotoSearcher определяет интерфейс поиска фотографий во внешнем источнике (Unsplash API).
// Реализация делает ровно один исходящий запрос и возвращает нормализованный ответ.
type PhotoSearcher interface {
	SearchPhotos(ctx context.Context, req domain.SearchRequest) (*domain.SearchResponse, error)
}

// PhotoUseCase определяет бизнес-логику поиска фотографий для HTTP-слоя.
type PhotoUseCase interface {
	// SearchPhotos принимает уже провалидированный запрос.
	// Ошибки: domain.ErrAPIKeyNotConfigured, *domain.UpstreamError или любая другая (внутренняя).
	SearchPhotos(ctx context.Context, req domain.SearchRequest) (*domain.SearchResponse, error)
}
