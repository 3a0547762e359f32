package main

import (
	"context"
	"log"
	"os"
	"syscall"
	"time"

	"github.com/honeycarbs/startsmart/internal/app"
	"github.com/honeycarbs/startsmart/internal/config"
	"github.com/honeycarbs/startsmart/pkg/logging"
	"github.com/honeycarbs/startsmart/pkg/shutdown"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := logging.New(cfg.LogLevel)
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	application, cleanup, err := app.InitializeApp(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize application", "err", err)
		os.Exit(1)
	}
	defer cleanup()

	if len(cfg.Ingest.Queries) > 0 {
		if err := application.Scheduler.Start(ctx); err != nil {
			logger.Error("failed to start ingest scheduler", "err", err)
			os.Exit(1)
		}
	} else {
		logger.Info("INGEST_QUERIES empty, ingest scheduler disabled")
	}

	go shutdown.Graceful(
		[]os.Signal{os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT, syscall.SIGHUP},
		shutdown.Chain(application.Server, application.Scheduler, shutdown.Func(func(context.Context) error {
			cancel()
			return nil
		})),
		10*time.Second,
		logger,
	)

	logger.Info("server initialized and starting", "addr", cfg.Addr(), "store", cfg.StoreBackend)

	if err := application.Server.Run(); err != nil {
		logger.Error("server exited with error", "err", err)
	} else {
		logger.Info("server stopped")
	}
}
