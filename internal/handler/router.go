package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/GoArmGo/PhotoRelay/internal/metrics"
	"github.com/GoArmGo/PhotoRelay/internal/web"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter собирает все маршруты фронт-сервера.
func NewRouter(photoHandler *PhotoHandler, m *metrics.Metrics, logger *slog.Logger, requestTimeout time.Duration) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(logger))
	r.Use(Metrics(m))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))

	r.Get("/", photoHandler.Index)
	r.Get("/search", photoHandler.SearchPhotos)
	r.Get("/healthz", photoHandler.Health)
	r.Method(http.MethodGet, "/metrics", m.Handler())
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(web.Static())))

	return r
}

// NewWorkerRouter собирает маршруты служебного сервера воркера.
func NewWorkerRouter(m *metrics.Metrics) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Method(http.MethodGet, "/metrics", m.Handler())

	return r
}
