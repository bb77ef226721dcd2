package unsplash

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/GoArmGo/PhotoRelay/internal/config"
	"github.com/GoArmGo/PhotoRelay/internal/domain"
	"github.com/GoArmGo/PhotoRelay/internal/logger"
	"github.com/GoArmGo/PhotoRelay/internal/metrics"
)

const (
	apiName       = "unsplash"
	searchPath    = "/search/photos"
	maxErrorBody  = 64 << 10
	acceptVersion = "v1"
	authPrefix    = "Client-ID "
)

// UnsplashAPIClient представляет клиент для взаимодействия с Unsplash API.
type UnsplashAPIClient struct {
	httpClient *http.Client
	baseURL    string
	accessKey  string
	logger     *slog.Logger
	metrics    *metrics.Metrics
}

// NewUnsplashAPIClient создает новый экземпляр UnsplashAPIClient.
// Ключ читается один раз из конфигурации и дальше не меняется.
func NewUnsplashAPIClient(cfg *config.Config, logger *slog.Logger, m *metrics.Metrics) *UnsplashAPIClient {
	return &UnsplashAPIClient{
		httpClient: &http.Client{Timeout: cfg.UnsplashTimeout},
		baseURL:    strings.TrimRight(cfg.UnsplashAPIURL, "/"),
		accessKey:  cfg.UnsplashAPIKey,
		logger:     logger,
		metrics:    m,
	}
}

// SearchPhotos выполняет ровно один GET к /search/photos и нормализует ответ.
//
// Возможные ошибки:
//   - domain.ErrAPIKeyNotConfigured, если ключ пуст (запрос не отправляется);
//   - *domain.UpstreamError, если Unsplash ответил не 2xx;
//   - любая другая ошибка для транспорта и некорректного JSON.
func (c *UnsplashAPIClient) SearchPhotos(ctx context.Context, req domain.SearchRequest) (*domain.SearchResponse, error) {
	if c.accessKey == "" {
		return nil, domain.ErrAPIKeyNotConfigured
	}

	params := url.Values{}
	params.Set("query", req.Query)
	params.Set("page", strconv.Itoa(req.Page))
	params.Set("per_page", strconv.Itoa(req.PerPage))

	endpoint := fmt.Sprintf("%s%s?%s", c.baseURL, searchPath, params.Encode())

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build unsplash search request: %w", err)
	}
	httpReq.Header.Set("Authorization", authPrefix+c.accessKey)
	httpReq.Header.Set("Accept-Version", acceptVersion)

	c.logger.Debug("sending unsplash search request",
		"query", req.Query,
		"page", req.Page,
		"per_page", req.PerPage,
		"api_key", logger.MaskSecret(c.accessKey),
	)

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.recordCall(0, start)
		return nil, fmt.Errorf("unsplash search request failed: %w", err)
	}
	defer resp.Body.Close()

	c.recordCall(resp.StatusCode, start)
	c.logger.Debug("unsplash responded",
		"status", resp.StatusCode,
		"x_total", resp.Header.Get(headerTotal),
		"x_total_pages", resp.Header.Get(headerTotalPages),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newUpstreamError(resp)
	}

	var envelope searchEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("failed to decode unsplash search response: %w", err)
	}

	results := envelope.Results
	if results == nil {
		results = []json.RawMessage{}
	}

	return &domain.SearchResponse{
		Results:    results,
		Total:      parseCountHeader(resp.Header.Get(headerTotal)),
		Page:       req.Page,
		TotalPages: parseCountHeader(resp.Header.Get(headerTotalPages)),
	}, nil
}

func (c *UnsplashAPIClient) recordCall(status int, start time.Time) {
	if c.metrics != nil {
		c.metrics.RecordAPICall(apiName, status, time.Since(start))
	}
}

// newUpstreamError читает тело ошибки и собирает из него понятное сообщение.
func newUpstreamError(resp *http.Response) *domain.UpstreamError {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	trimmed := strings.TrimSpace(string(body))

	message := http.StatusText(resp.StatusCode)
	var envelope errorEnvelope
	if err := json.Unmarshal(body, &envelope); err == nil && len(envelope.Errors) > 0 {
		message = strings.Join(envelope.Errors, "; ")
	} else if trimmed != "" {
		message = trimmed
	}

	return &domain.UpstreamError{
		StatusCode: resp.StatusCode,
		Message:    message,
		Body:       trimmed,
	}
}

// parseCountHeader приводит значение заголовка к неотрицательному числу, иначе 0.
func parseCountHeader(value string) int {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
