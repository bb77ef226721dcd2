package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/GoArmGo/PhotoRelay/internal/handler"
)

// runServer запускает фронт-сервер с поиском фото
func (a *App) runServer(ctx context.Context) error {
	router := handler.NewRouter(a.photoHandler, a.metrics, a.logger, a.Config.RequestTimeout)
	return a.serve(ctx, router)
}

// serve держит HTTP сервер до отмены контекста, затем выполняет graceful shutdown
func (a *App) serve(ctx context.Context, h http.Handler) error {
	serverAddr := fmt.Sprintf(":%s", a.Config.ServerPort)
	server := &http.Server{
		Addr:    serverAddr,
		Handler: h,
	}

	serverErr := make(chan error, 1)
	go func() {
		a.logger.Info("http server listening", "addr", serverAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.logger.Info("shutdown signal received, stopping http server")

	// ctx уже отменён, поэтому таймаут считаем от свежего контекста
	ctxServer, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.Config.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctxServer); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	a.logger.Info("http server stopped")
	return nil
}
