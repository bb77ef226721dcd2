package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Config хранит все конфигурационные параметры приложения.
type Config struct {
	ServerPort      string        `env:"SERVER_PORT" envDefault:"8080"`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`

	// Ключ не обязателен: без него сервер стартует, а /search отвечает 500
	UnsplashAPIKey  string        `env:"UNSPLASH_API_KEY"`
	UnsplashAPIURL  string        `env:"UNSPLASH_API_URL" envDefault:"https://api.unsplash.com"`
	UnsplashTimeout time.Duration `env:"UNSPLASH_TIMEOUT" envDefault:"10s"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Пустой RABBITMQ_URL отключает публикацию событий поиска
	RabbitMQ struct {
		RabbitMQURL       string        `env:"RABBITMQ_URL"`
		RabbitMQQueueName string        `env:"RABBITMQ_QUEUE_NAME" envDefault:"photo_search_events"`
		PublishTimeout    time.Duration `env:"RABBITMQ_PUBLISH_TIMEOUT" envDefault:"5s"`
		PublishBuffer     int           `env:"RABBITMQ_PUBLISH_BUFFER" envDefault:"256"`
	}
}

// RabbitMQEnabled сообщает, настроена ли очередь событий.
func (c *Config) RabbitMQEnabled() bool {
	return c.RabbitMQ.RabbitMQURL != ""
}

// LoadConfig загружает конфигурацию из переменных окружения.
// В режиме разработки пытается загрузить .env файл.
func LoadConfig() (*Config, error) {
	if _, err := os.Stat(".env"); !os.IsNotExist(err) {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
	}

	return Parse()
}

// Parse читает конфигурацию только из окружения, без .env.
func Parse() (*Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config from environment: %w", err)
	}

	if cfg.ServerPort == "" {
		cfg.ServerPort = "8080"
	}

	return &cfg, nil
}
