package di

import (
	"fmt"

	"github.com/GoArmGo/PhotoRelay/internal/adapter/unsplash"
	"github.com/GoArmGo/PhotoRelay/internal/app"
	"github.com/GoArmGo/PhotoRelay/internal/config"
	"github.com/GoArmGo/PhotoRelay/internal/core/ports"
	"github.com/GoArmGo/PhotoRelay/internal/handler"
	"github.com/GoArmGo/PhotoRelay/internal/logger"
	"github.com/GoArmGo/PhotoRelay/internal/metrics"
	"github.com/GoArmGo/PhotoRelay/internal/rabbitmq"
	"github.com/GoArmGo/PhotoRelay/internal/usecase"
	"github.com/GoArmGo/PhotoRelay/internal/web"
)

// BuildApp инициализирует все зависимости и возвращает готовый объект App.
func BuildApp() (*app.App, error) {
	// 1. Загрузка конфигурации
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	return Build(cfg)
}

// Build собирает приложение из уже готовой конфигурации.
func Build(cfg *config.Config) (*app.App, error) {
	// 2. Логгер
	slogger := logger.NewSlog(logger.SlogConfig{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})
	slogger.Info("logger initialized", "level", cfg.LogLevel, "format", cfg.LogFormat)

	if cfg.UnsplashAPIKey == "" {
		// не фатально: /search будет отвечать 500, пока ключ не задан
		slogger.Error("UNSPLASH_API_KEY is not set, search requests will fail")
	} else {
		slogger.Debug("Unsplash API key loaded", "api_key", logger.MaskSecret(cfg.UnsplashAPIKey))
	}

	// 3. Метрики
	m := metrics.New()

	// 4. Клиент внешнего сервиса
	unsplashClient := unsplash.NewUnsplashAPIClient(cfg, slogger, m)

	// 5. RabbitMQ (опционально)
	var (
		publisher ports.SearchEventPublisher
		consumer  ports.SearchEventConsumer
		closers   []func() error
	)
	if cfg.RabbitMQEnabled() {
		rabbitMQClient, err := rabbitmq.NewClient(cfg, slogger)
		if err != nil {
			return nil, err
		}
		publisher = rabbitMQClient
		consumer = rabbitMQClient
		closers = append(closers, rabbitMQClient.Close)
	} else {
		slogger.Info("RABBITMQ_URL is not set, search events are disabled")
	}

	// 6. Бизнес-логика
	photoUseCase := usecase.NewPhotoUseCase(unsplashClient, publisher, slogger)

	// 7. HTTP слой
	templates, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	photoHandler := handler.NewPhotoHandler(photoUseCase, templates, slogger)

	// 8. Сборка итогового приложения
	application := app.NewApp(cfg, slogger, m, photoHandler, consumer, closers...)

	slogger.Info("all dependencies initialized")
	return application, nil
}
