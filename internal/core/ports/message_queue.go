package ports

import (
	"context"

	"github.com/GoArmGo/PhotoRelay/internal/messaging/payloads"
)

// SearchEventPublisher публикует события о выполненных поисках.
// Используется use case'ом после каждого обращения к Unsplash.
type SearchEventPublisher interface {
	PublishSearchEvent(ctx context.Context, event payloads.SearchEventPayload) error
}

// SearchEventConsumer читает события из очереди, используется воркером.
type SearchEventConsumer interface {
	// StartConsumingSearchEvents начинает прослушивание очереди,
	// handler вызывается для каждого полученного сообщения
	StartConsumingSearchEvents(ctx context.Context, handler func(context.Context, payloads.SearchEventPayload) error) error
}
