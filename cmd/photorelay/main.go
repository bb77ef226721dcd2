package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/GoArmGo/PhotoRelay/internal/app"
	"github.com/GoArmGo/PhotoRelay/internal/di"
)

func main() {
	mode := flag.String("mode", app.ModeServer, "run mode: server or worker")
	flag.Parse()

	// bootstrap-логгер нужен только до того, как собран основной
	bootstrapLogger := slog.New(
		slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
	)
	bootstrapLogger.Info("starting application", "mode", *mode)

	application, err := di.BuildApp()
	if err != nil {
		bootstrapLogger.Error("failed to build app", "error", err)
		os.Exit(1)
	}

	log := application.LoggerIns()

	if err := application.Run(context.Background(), *mode); err != nil {
		log.Error("application run failed", "error", err)
		os.Exit(1)
	}

	log.Info("application stopped gracefully")
}
