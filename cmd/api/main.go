package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"

	"github.com/caseyos/caseyos/config"
	"github.com/caseyos/caseyos/internal/app"
	"github.com/caseyos/caseyos/pkg/logger"
)

func main() {
	log := logger.NewLogger()

	cfg, err := config.Load()
	if err != nil {
		log.WithField("error", err.Error()).Fatal("Failed to load configuration")
	}

	instance := app.NewApp(cfg, log)
	if err := instance.Initialize(); err != nil {
		log.WithField("error", err.Error()).Fatal("Failed to initialize")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := instance.Start(ctx); err != nil {
		log.WithField("error", err.Error()).Fatal("Server exited with error")
	}
}
