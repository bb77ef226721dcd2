package payloads

import (
	"time"

	"github.com/google/uuid"
)

// SearchOutcome описывает итог обработки поискового запроса.
type SearchOutcome string

// StatusClientClosedRequest — статус для поиска, прерванного клиентом (как в nginx).
const StatusClientClosedRequest = 499

const (
	OutcomeOK            SearchOutcome = "ok"
	OutcomeUpstreamError SearchOutcome = "upstream_error"
	OutcomeConfigError   SearchOutcome = "config_error"
	OutcomeInternalError SearchOutcome = "internal_error"
	OutcomeCanceled      SearchOutcome = "canceled"
)

// SearchEventPayload описывает выполненный поиск и публикуется в RabbitMQ.
// Ничего не хранится: воркер только логирует и считает события.
type SearchEventPayload struct {
	ID          uuid.UUID     `json:"id"`
	Query       string        `json:"query"`
	Page        int           `json:"page"`
	PerPage     int           `json:"per_page"`
	Outcome     SearchOutcome `json:"outcome"`
	Status      int           `json:"status"`
	Total       int           `json:"total"`
	ResultCount int           `json:"result_count"`
	DurationMS  int64         `json:"duration_ms"`
	OccurredAt  time.Time     `json:"occurred_at"`
}
