// Package di assembles the process-scoped object graph. Every client handle
// here is stateless and shared: it is built once at startup and reused for
// the lifetime of the process.
package di

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awscloudwatch "github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"go.uber.org/zap"

	"orders-backend/application/ports"
	"orders-backend/infrastructure/config"
	"orders-backend/infrastructure/messaging/eventbridge"
	"orders-backend/infrastructure/observability"
	"orders-backend/infrastructure/persistence/dynamodb"
	"orders-backend/interfaces/apigateway"
)

// Container holds the wired application components.
type Container struct {
	Config     *config.Config
	Logger     *zap.Logger
	Repository ports.OrderRepository
	Handler    *apigateway.Handler
}

// NewContainer builds the full object graph from configuration.
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	logger, err := provideLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	awsCfg, err := provideAWSConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	reporter := provideCapacityReporter(awsCfg, cfg, logger)
	repo := dynamodb.NewOrderRepository(
		awsdynamodb.NewFromConfig(awsCfg),
		cfg.TableName,
		reporter,
		logger,
	)
	publisher := providePublisher(awsCfg, cfg, logger)

	return &Container{
		Config:     cfg,
		Logger:     logger,
		Repository: repo,
		Handler:    apigateway.NewHandler(repo, publisher, logger),
	}, nil
}

func provideLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func provideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
}

func provideCapacityReporter(awsCfg aws.Config, cfg *config.Config, logger *zap.Logger) observability.CapacityReporter {
	if !cfg.EnableMetrics {
		return observability.NoopReporter{}
	}
	return observability.NewCloudWatchReporter(
		awscloudwatch.NewFromConfig(awsCfg),
		cfg.MetricsNamespace,
		logger,
	)
}

func providePublisher(awsCfg aws.Config, cfg *config.Config, logger *zap.Logger) eventbridge.Publisher {
	if cfg.EventBusName == "" {
		return eventbridge.NoopPublisher{}
	}
	return eventbridge.NewEventBridgePublisher(
		awseventbridge.NewFromConfig(awsCfg),
		cfg.EventBusName,
		logger,
	)
}
