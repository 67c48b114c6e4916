// Package config loads process configuration from the environment.
package config

import (
	"fmt"
	"os"
)

// Config holds all application configuration.
type Config struct {
	Environment string

	// AWS configuration
	AWSRegion string
	TableName string

	// Optional capacity metrics publishing
	EnableMetrics    bool
	MetricsNamespace string

	// Optional order-created event publishing
	EventBusName string

	// Local server
	ServerAddress string

	LogLevel string
}

// Load reads configuration from environment variables. A missing TABLE_NAME
// is a startup failure: the process must refuse to serve rather than degrade
// per request.
func Load() (*Config, error) {
	cfg := &Config{
		Environment:      getEnv("ENVIRONMENT", "development"),
		AWSRegion:        getEnv("AWS_REGION", "us-east-1"),
		TableName:        getEnv("TABLE_NAME", ""),
		EnableMetrics:    getEnvBool("ENABLE_METRICS", false),
		MetricsNamespace: getEnv("METRICS_NAMESPACE", "Orders/Storage"),
		EventBusName:     getEnv("EVENT_BUS_NAME", ""),
		ServerAddress:    getEnv("SERVER_ADDRESS", ":8080"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.TableName == "" {
		return fmt.Errorf("TABLE_NAME is required")
	}
	return nil
}

// IsProduction checks if running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}
