package logger

import (
	"io"
	"log/slog"
	"os"
	"time"
)

// SlogConfig описывает параметры логгера
type SlogConfig struct {
	Level  string // "debug", "info", "warn", "error"
	Format string // "json" или "text"
	// Output по умолчанию os.Stdout
	Output io.Writer
}

// ParseLevel переводит строковый уровень в slog.Level, неизвестные значения дают info.
func ParseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewSlog создаёт и настраивает slog.Logger
func NewSlog(cfg SlogConfig) *slog.Logger {
	lvl := ParseLevel(cfg.Level)

	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}

	var handler slog.Handler

	// Выбираем формат вывода
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(out, &slog.HandlerOptions{Level: lvl})
	} else {
		handler = slog.NewJSONHandler(out, &slog.HandlerOptions{
			Level: lvl,
			// timestamp в человекочитаемом виде
			ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
				if a.Key == slog.TimeKey {
					a.Value = slog.StringValue(a.Value.Time().Format(time.RFC3339))
				}
				return a
			},
		})
	}

	return slog.New(handler)
}

// Discard возвращает логгер, который ничего не пишет. Удобен в тестах.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// MaskSecret оставляет видимыми только первые и последние пять символов секрета.
func MaskSecret(secret string) string {
	if len(secret) <= 10 {
		return "*****"
	}
	return secret[:5] + "..." + secret[len(secret)-5:]
}
