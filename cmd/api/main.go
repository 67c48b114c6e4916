package main

import (
	"context"
	"log"
	"net/http"

	"go.uber.org/zap"

	"orders-backend/infrastructure/config"
	"orders-backend/infrastructure/di"
	"orders-backend/interfaces/http/rest"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	container, err := di.NewContainer(context.Background(), cfg)
	if err != nil {
		log.Fatalf("failed to initialize container: %v", err)
	}
	defer func() { _ = container.Logger.Sync() }()

	router := rest.NewRouter(container.Handler, container.Logger)

	container.Logger.Info("starting local API server",
		zap.String("address", cfg.ServerAddress),
		zap.String("table", cfg.TableName),
	)
	if err := http.ListenAndServe(cfg.ServerAddress, router); err != nil {
		container.Logger.Fatal("server stopped", zap.Error(err))
	}
}
