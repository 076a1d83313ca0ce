package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
)

type Config struct {
	DatabaseURL          string `envconfig:"DATABASE_URL"            required:"true"`
	NatsURL              string `envconfig:"NATS_URL"                default:"nats://localhost:4222"`
	HealthPort           string `envconfig:"HEALTH_PORT"             default:":8082"`
	LogLevel             string `envconfig:"LOG_LEVEL"               default:"info"`
	ProductsSubject      string `envconfig:"PRODUCTS_SUBJECT"        default:"products.validate"`
	NatsRequestTimeoutMS int    `envconfig:"NATS_REQUEST_TIMEOUT_MS" default:"5000"`
}

func LoadConfig(logger *logrus.Logger) (*Config, error) {
	err := godotenv.Load()
	if err != nil && !os.IsNotExist(err) {
		logger.Warnf("Error loading .env file (but continuing): %v", err)
	} else if err == nil {
		logger.Info("Loaded configuration from .env file")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	// envconfig accepts a set-but-empty value as satisfying required.
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}

	logger.Infof("Configuration loaded: NATS=%s, HealthPort=%s, LogLevel=%s", cfg.NatsURL, cfg.HealthPort, cfg.LogLevel)
	return &cfg, nil
}
