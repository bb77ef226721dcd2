package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordAPICall(t *testing.T) {
	m := New()

	m.RecordAPICall("unsplash", http.StatusOK, 10*time.Millisecond)
	m.RecordAPICall("unsplash", http.StatusBadRequest, 10*time.Millisecond)
	m.RecordAPICall("unsplash", 0, time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.APICallCounter.WithLabelValues("unsplash", "success")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.APICallCounter.WithLabelValues("unsplash", "error")))
}

func TestRecordRequest(t *testing.T) {
	m := New()

	m.RecordRequest(http.MethodGet, "/search", http.StatusUnprocessableEntity, time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestCounter.WithLabelValues("GET", "/search", "422")))
}

func TestHandler_ExposesRegisteredMetrics(t *testing.T) {
	m := New()
	m.RecordSearchEvent("ok")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `photorelay_search_events_total{outcome="ok"} 1`)
}

func TestRegistry_GathersAllCollectors(t *testing.T) {
	m := New()
	m.RecordRequest(http.MethodGet, "/", http.StatusOK, time.Millisecond)
	m.RecordAPICall("unsplash", http.StatusOK, time.Millisecond)
	m.RecordSearchEvent("ok")

	count, err := testutil.GatherAndCount(m.Registry(),
		"photorelay_http_requests_total",
		"photorelay_api_calls_total",
		"photorelay_search_events_total",
	)
	assert.NoError(t, err)
	assert.Equal(t, 3, count)
}
