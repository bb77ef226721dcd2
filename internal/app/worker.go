package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/GoArmGo/PhotoRelay/internal/handler"
	"github.com/GoArmGo/PhotoRelay/internal/messaging/payloads"
)

var errWorkerDisabled = errors.New("worker mode requires RABBITMQ_URL")

// runWorker запускает потребителя событий поиска
func (a *App) runWorker(ctx context.Context) error {
	if a.searchEventConsumer == nil {
		return errWorkerDisabled
	}

	if err := a.searchEventConsumer.StartConsumingSearchEvents(ctx, a.handleSearchEvent); err != nil {
		return fmt.Errorf("failed to start RabbitMQ consumer: %w", err)
	}
	a.logger.Info("worker started, waiting for search events")

	// воркер отдаёт только /healthz и /metrics
	return a.serve(ctx, handler.NewWorkerRouter(a.metrics))
}

// handleSearchEvent логирует событие и учитывает его в метриках.
func (a *App) handleSearchEvent(ctx context.Context, event payloads.SearchEventPayload) error {
	a.logger.Info("search event",
		"event_id", event.ID,
		"query", event.Query,
		"page", event.Page,
		"per_page", event.PerPage,
		"outcome", event.Outcome,
		"status", event.Status,
		"total", event.Total,
		"result_count", event.ResultCount,
		"duration_ms", event.DurationMS,
	)
	a.metrics.RecordSearchEvent(string(event.Outcome))
	return nil
}
