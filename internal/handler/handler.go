package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/GoArmGo/PhotoRelay/internal/domain"
	"github.com/GoArmGo/PhotoRelay/internal/messaging/payloads"
	"github.com/GoArmGo/PhotoRelay/internal/usecase"
)

const (
	pageTitle = "Cyberpunk Photo Search"

	msgAPIKeyNotConfigured = "Unsplash API key not configured"
	msgInternalError       = "Internal server error"
)

// PhotoHandler — обработчик HTTP-запросов для поиска фотографий.
type PhotoHandler struct {
	photoUseCase usecase.PhotoUseCase
	templates    *template.Template
	logger       *slog.Logger
}

// NewPhotoHandler создаёт новый экземпляр PhotoHandler.
func NewPhotoHandler(
	uc usecase.PhotoUseCase,
	templates *template.Template,
	logger *slog.Logger,
) *PhotoHandler {
	return &PhotoHandler{
		photoUseCase: uc,
		templates:    templates,
		logger:       logger,
	}
}

// respondWithJSON — отправляет JSON-ответ клиенту.
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}, logger *slog.Logger) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		logger.Error("failed to marshal JSON response", "error", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err = w.Write(response); err != nil {
		logger.Error("failed to write HTTP response", "error", err)
	}
}

// respondWithError — отправляет JSON-ответ с ошибкой в виде {"detail": "..."}.
func respondWithError(w http.ResponseWriter, code int, message string, logger *slog.Logger) {
	respondWithJSON(w, code, map[string]string{"detail": message}, logger)
}

// Index — отдаёт стартовую страницу.
func (h *PhotoHandler) Index(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.templates.ExecuteTemplate(&buf, "index.html", map[string]string{"Title": pageTitle}); err != nil {
		h.logger.Error("failed to render index template", "error", err)
		respondWithError(w, http.StatusInternalServerError, msgInternalError, h.logger)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.Error("failed to write HTTP response", "error", err)
	}
}

// SearchPhotos — валидирует параметры, ищет фото в Unsplash и возвращает нормализованный ответ.
func (h *PhotoHandler) SearchPhotos(w http.ResponseWriter, r *http.Request) {
	req, err := parseSearchRequest(r.URL.Query())
	if err != nil {
		var vErr *domain.ValidationError
		if errors.As(err, &vErr) {
			h.logger.Warn("invalid search parameters", "error", vErr.Error())
			respondWithJSON(w, http.StatusUnprocessableEntity, map[string]any{"detail": vErr.Fields}, h.logger)
			return
		}
		h.logger.Error("failed to parse search parameters", "error", err)
		respondWithError(w, http.StatusInternalServerError, msgInternalError, h.logger)
		return
	}

	resp, err := h.photoUseCase.SearchPhotos(r.Context(), req)
	if err != nil {
		var upErr *domain.UpstreamError
		switch {
		case errors.Is(err, domain.ErrAPIKeyNotConfigured):
			respondWithError(w, http.StatusInternalServerError, msgAPIKeyNotConfigured, h.logger)
		case errors.As(err, &upErr):
			respondWithError(w, upErr.StatusCode, upErr.Error(), h.logger)
		case errors.Is(err, context.Canceled):
			// тело уже никто не прочитает, статус нужен логам и метрикам
			w.WriteHeader(payloads.StatusClientClosedRequest)
		default:
			respondWithError(w, http.StatusInternalServerError, msgInternalError, h.logger)
		}
		return
	}

	respondWithJSON(w, http.StatusOK, resp, h.logger)
}

// Health — проверка живости процесса.
func (h *PhotoHandler) Health(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"}, h.logger)
}
