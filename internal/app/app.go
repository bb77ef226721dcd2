package app

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/GoArmGo/PhotoRelay/internal/config"
	"github.com/GoArmGo/PhotoRelay/internal/core/ports"
	"github.com/GoArmGo/PhotoRelay/internal/handler"
	"github.com/GoArmGo/PhotoRelay/internal/metrics"
)

const (
	ModeServer = "server"
	ModeWorker = "worker"
)

type App struct {
	Config              *config.Config
	logger              *slog.Logger
	metrics             *metrics.Metrics
	photoHandler        *handler.PhotoHandler
	searchEventConsumer ports.SearchEventConsumer
	closers             []func() error
}

func NewApp(cfg *config.Config,
	logger *slog.Logger,
	m *metrics.Metrics,
	photoHandler *handler.PhotoHandler,
	searchEventConsumer ports.SearchEventConsumer,
	closers ...func() error) *App {
	return &App{
		Config:              cfg,
		logger:              logger,
		metrics:             m,
		photoHandler:        photoHandler,
		searchEventConsumer: searchEventConsumer,
		closers:             closers,
	}
}

// LoggerIns возвращает основной логгер приложения.
func (a *App) LoggerIns() *slog.Logger {
	return a.logger
}

// Run запускает приложение в выбранном режиме и блокируется до SIGINT/SIGTERM.
func (a *App) Run(ctx context.Context, mode string) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a.logger.Info("starting", "mode", mode)

	var err error
	switch mode {
	case ModeServer:
		err = a.runServer(ctx)
	case ModeWorker:
		err = a.runWorker(ctx)
	default:
		err = fmt.Errorf("unknown mode: %s (use '%s' or '%s')", mode, ModeServer, ModeWorker)
	}

	if closeErr := a.Shutdown(); closeErr != nil {
		a.logger.Error("failed to release resources", "error", closeErr)
	}

	return err
}

// Shutdown закрывает все ресурсы приложения
func (a *App) Shutdown() error {
	for _, closeFn := range a.closers {
		if err := closeFn(); err != nil {
			return err
		}
	}
	return nil
}
