package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/oakwellhq/webstarter/internal/app"
	"github.com/oakwellhq/webstarter/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	a, err := app.New(cfg)
	if err != nil {
		log.Fatalf("startup: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := a.Run(ctx); err != nil {
		log.Fatalf("server: %v", err)
	}
}
