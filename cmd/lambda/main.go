package main

import (
	"context"
	"log"

	"github.com/aws/aws-lambda-go/lambda"

	"orders-backend/infrastructure/config"
	"orders-backend/infrastructure/di"
)

// container is built once per cold start and reused across invocations.
var container *di.Container

func init() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	container, err = di.NewContainer(context.Background(), cfg)
	if err != nil {
		log.Fatalf("failed to initialize container: %v", err)
	}
}

func main() {
	lambda.Start(container.Handler.Handle)
}
