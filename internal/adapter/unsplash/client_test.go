package unsplash

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/GoArmGo/PhotoRelay/internal/config"
	"github.com/GoArmGo/PhotoRelay/internal/domain"
	"github.com/GoArmGo/PhotoRelay/internal/logger"
	"github.com/GoArmGo/PhotoRelay/internal/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, baseURL, key string) (*UnsplashAPIClient, *metrics.Metrics) {
	t.Helper()
	cfg := &config.Config{
		UnsplashAPIKey:  key,
		UnsplashAPIURL:  baseURL,
		UnsplashTimeout: 2 * time.Second,
	}
	m := metrics.New()
	return NewUnsplashAPIClient(cfg, logger.Discard(), m), m
}

func TestSearchPhotos_Success(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/search/photos", r.URL.Path)
		assert.Equal(t, "Client-ID test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "v1", r.Header.Get("Accept-Version"))
		assert.Equal(t, "red cats", r.URL.Query().Get("query"))
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "15", r.URL.Query().Get("per_page"))

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Total", "30")
		w.Header().Set("X-Total-Pages", "3")
		_, _ = w.Write([]byte(`{"total":999,"total_pages":999,"results":[{"id":"1","urls":{"small":"http://example.com/1.jpg"}},{"id":"2"}]}`))
	}))
	defer upstream.Close()

	client, m := newTestClient(t, upstream.URL, "test-key")

	resp, err := client.SearchPhotos(context.Background(), domain.SearchRequest{Query: "red cats", Page: 2, PerPage: 15})
	require.NoError(t, err)

	assert.Len(t, resp.Results, 2)
	assert.JSONEq(t, `{"id":"1","urls":{"small":"http://example.com/1.jpg"}}`, string(resp.Results[0]))
	assert.Equal(t, 30, resp.Total)
	assert.Equal(t, 3, resp.TotalPages)
	assert.Equal(t, 2, resp.Page)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.APICallCounter.WithLabelValues("unsplash", "success")))
}

func TestSearchPhotos_MissingResultsAndHeaders(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Total", "abc")
		w.Header().Set("X-Total-Pages", "-4")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer upstream.Close()

	client, _ := newTestClient(t, upstream.URL, "test-key")

	resp, err := client.SearchPhotos(context.Background(), domain.SearchRequest{Query: "x", Page: 1, PerPage: 10})
	require.NoError(t, err)

	assert.NotNil(t, resp.Results)
	assert.Empty(t, resp.Results)
	assert.Equal(t, 0, resp.Total)
	assert.Equal(t, 0, resp.TotalPages)
}

func TestSearchPhotos_MissingAPIKey(t *testing.T) {
	var calls atomic.Int32
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer upstream.Close()

	client, _ := newTestClient(t, upstream.URL, "")

	_, err := client.SearchPhotos(context.Background(), domain.SearchRequest{Query: "x", Page: 1, PerPage: 10})
	assert.ErrorIs(t, err, domain.ErrAPIKeyNotConfigured)
	assert.Zero(t, calls.Load())
}

func TestSearchPhotos_UpstreamError(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantMessage string
	}{
		{
			name:        "errors envelope",
			status:      http.StatusBadRequest,
			body:        `{"errors":["API Error","query is missing"]}`,
			wantMessage: "API Error; query is missing",
		},
		{
			name:        "plain text body",
			status:      http.StatusForbidden,
			body:        "Rate Limit Exceeded\n",
			wantMessage: "Rate Limit Exceeded",
		},
		{
			name:        "empty body",
			status:      http.StatusServiceUnavailable,
			body:        "",
			wantMessage: "Service Unavailable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer upstream.Close()

			client, m := newTestClient(t, upstream.URL, "test-key")

			_, err := client.SearchPhotos(context.Background(), domain.SearchRequest{Query: "x", Page: 1, PerPage: 10})

			var upErr *domain.UpstreamError
			require.True(t, errors.As(err, &upErr))
			assert.Equal(t, tt.status, upErr.StatusCode)
			assert.Equal(t, tt.wantMessage, upErr.Message)
			assert.Contains(t, upErr.Error(), tt.wantMessage)
			assert.Equal(t, 1.0, testutil.ToFloat64(m.APICallCounter.WithLabelValues("unsplash", "error")))
		})
	}
}

func TestSearchPhotos_MalformedJSON(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results": [`))
	}))
	defer upstream.Close()

	client, _ := newTestClient(t, upstream.URL, "test-key")

	_, err := client.SearchPhotos(context.Background(), domain.SearchRequest{Query: "x", Page: 1, PerPage: 10})
	require.Error(t, err)

	var upErr *domain.UpstreamError
	assert.False(t, errors.As(err, &upErr))
	assert.NotErrorIs(t, err, domain.ErrAPIKeyNotConfigured)
}

func TestSearchPhotos_TransportError(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	baseURL := upstream.URL
	upstream.Close()

	client, m := newTestClient(t, baseURL, "test-key")

	_, err := client.SearchPhotos(context.Background(), domain.SearchRequest{Query: "x", Page: 1, PerPage: 10})
	require.Error(t, err)

	var upErr *domain.UpstreamError
	assert.False(t, errors.As(err, &upErr))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.APICallCounter.WithLabelValues("unsplash", "error")))
}

func TestParseCountHeader(t *testing.T) {
	assert.Equal(t, 30, parseCountHeader("30"))
	assert.Equal(t, 7, parseCountHeader(" 7 "))
	assert.Equal(t, 0, parseCountHeader(""))
	assert.Equal(t, 0, parseCountHeader("1.5"))
	assert.Equal(t, 0, parseCountHeader("-1"))
}
