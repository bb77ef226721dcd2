package usecase

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/GoArmGo/PhotoRelay/internal/core/ports"
	"github.com/GoArmGo/PhotoRelay/internal/domain"
	"github.com/GoArmGo/PhotoRelay/internal/messaging/payloads"
	"github.com/google/uuid"
)

// photoUseCase implements PhotoUseCase
type photoUseCase struct {
	photoSearcher  PhotoSearcher
	eventPublisher ports.SearchEventPublisher
	logger         *slog.Logger
	now            func() time.Time
}

// NewPhotoUseCase создает новый экземпляр PhotoUseCase.
// publisher может быть nil, тогда события поиска не публикуются.
func NewPhotoUseCase(
	photoSearcher PhotoSearcher,
	publisher ports.SearchEventPublisher,
	logger *slog.Logger,
) PhotoUseCase {
	return &photoUseCase{
		photoSearcher:  photoSearcher,
		eventPublisher: publisher,
		logger:         logger,
		now:            time.Now,
	}
}

// SearchPhotos ищет фото во внешнем API и классифицирует результат.
func (uc *photoUseCase) SearchPhotos(ctx context.Context, req domain.SearchRequest) (*domain.SearchResponse, error) {
	start := uc.now()
	uc.logger.Debug("searching photos", "query", req.Query, "page", req.Page, "per_page", req.PerPage)

	resp, err := uc.photoSearcher.SearchPhotos(ctx, req)

	event := payloads.SearchEventPayload{
		ID:         uuid.New(),
		Query:      req.Query,
		Page:       req.Page,
		PerPage:    req.PerPage,
		OccurredAt: start.UTC(),
	}

	var upErr *domain.UpstreamError
	switch {
	case err == nil:
		event.Outcome = payloads.OutcomeOK
		event.Status = http.StatusOK
		event.Total = resp.Total
		event.ResultCount = len(resp.Results)
		uc.logger.Info("search completed",
			"query", req.Query,
			"page", req.Page,
			"results", len(resp.Results),
			"total", resp.Total,
			"total_pages", resp.TotalPages,
		)

	case errors.Is(err, domain.ErrAPIKeyNotConfigured):
		event.Outcome = payloads.OutcomeConfigError
		event.Status = http.StatusInternalServerError
		uc.logger.Error("Unsplash API key not found in configuration")

	case errors.As(err, &upErr):
		event.Outcome = payloads.OutcomeUpstreamError
		event.Status = upErr.StatusCode
		uc.logger.Error("unsplash returned an error status",
			"query", req.Query,
			"status", upErr.StatusCode,
			"response_body", upErr.Body,
		)

	case errors.Is(err, context.Canceled):
		// клиент ушёл, сбоем сервера это не считаем
		event.Outcome = payloads.OutcomeCanceled
		event.Status = payloads.StatusClientClosedRequest
		uc.logger.Warn("search cancelled by client", "query", req.Query)

	default:
		event.Outcome = payloads.OutcomeInternalError
		event.Status = http.StatusInternalServerError
		uc.logger.Error("unexpected error during photo search", "query", req.Query, "error", err)
	}

	event.DurationMS = uc.now().Sub(start).Milliseconds()
	uc.publish(ctx, event)

	if err != nil {
		return nil, err
	}
	return resp, nil
}

// publish отправляет событие, ошибка публикации на ответ клиенту не влияет.
func (uc *photoUseCase) publish(ctx context.Context, event payloads.SearchEventPayload) {
	if uc.eventPublisher == nil {
		return
	}
	if err := uc.eventPublisher.PublishSearchEvent(context.WithoutCancel(ctx), event); err != nil {
		uc.logger.Warn("failed to publish search event", "event_id", event.ID, "error", err)
	}
}
