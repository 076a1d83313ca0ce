package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	natsio "github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"

	"github.com/wilmangio/orders-ms/config"
	"github.com/wilmangio/orders-ms/internal/clients"
	"github.com/wilmangio/orders-ms/internal/delivery"
	natsdelivery "github.com/wilmangio/orders-ms/internal/delivery/nats"
	"github.com/wilmangio/orders-ms/internal/repository"
	"github.com/wilmangio/orders-ms/internal/usecase"
	"github.com/wilmangio/orders-ms/pkg/db"
)

func main() {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	logger.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.LoadConfig(logger)
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	logLevel, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logLevel = logrus.InfoLevel
		logger.Warnf("Invalid LOG_LEVEL '%s', using default: %s", cfg.LogLevel, logLevel.String())
	}
	logger.SetLevel(logLevel)
	logger.Info("Starting Orders Service...")

	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()
	logger.Info("Database connection established.")

	nc, err := natsio.Connect(cfg.NatsURL,
		natsio.Name("orders-ms"),
		natsio.MaxReconnects(-1),
		natsio.ReconnectWait(2*time.Second),
	)
	if err != nil {
		logger.Fatalf("Failed to connect to NATS at %s: %v", cfg.NatsURL, err)
	}
	defer nc.Close()
	logger.Infof("NATS connection established to %s", cfg.NatsURL)

	productsClient := clients.NewNatsProductsClient(
		nc,
		cfg.ProductsSubject,
		time.Duration(cfg.NatsRequestTimeoutMS)*time.Millisecond,
		logger,
	)

	orderRepo := repository.NewPostgresOrderRepository(database, logger)
	orderUseCase := usecase.NewOrderUseCase(orderRepo, productsClient, logger)
	orderHandler := natsdelivery.NewOrderHandler(orderUseCase, logger)

	if err := orderHandler.Subscribe(nc); err != nil {
		logger.Fatalf("Failed to register subscriptions: %v", err)
	}
	logger.Info("Order subscriptions registered.")

	healthRouter := delivery.NewHealthRouter(database, nc)
	go func() {
		logger.Infof("Health endpoint listening on %s", cfg.HealthPort)
		if err := healthRouter.Run(cfg.HealthPort); err != nil {
			logger.Errorf("Health listener stopped: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down, draining NATS subscriptions...")
	if err := nc.Drain(); err != nil {
		logger.Errorf("Failed to drain NATS connection: %v", err)
	}
	logger.Info("Orders Service stopped.")
}
