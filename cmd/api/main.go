package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/isurusajith68/pos-system-multi-tenant-postgress-sync-sub001/internal/app"
	"github.com/isurusajith68/pos-system-multi-tenant-postgress-sync-sub001/internal/config"
	"github.com/isurusajith68/pos-system-multi-tenant-postgress-sync-sub001/internal/logger"
)

func main() {
	cfg := config.Load()

	zl, err := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Environment: cfg.Env,
		ServiceName: "pos-terminal",
	})
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, zl)
	if err != nil {
		zl.Fatal("startup failed", zap.Error(err))
	}
	defer a.Close()

	if err := a.Run(ctx); err != nil {
		zl.Error("server stopped", zap.Error(err))
	}
}
