package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/leshley-eatery/silogan/internal/adapter/logger"
	"github.com/leshley-eatery/silogan/internal/adapter/postgres"
	"github.com/leshley-eatery/silogan/internal/adapter/rabbitmq"
	"github.com/leshley-eatery/silogan/internal/app/account"
	"github.com/leshley-eatery/silogan/internal/app/fulfillment"
	"github.com/leshley-eatery/silogan/internal/app/order"
	"github.com/leshley-eatery/silogan/internal/app/reporting"
	"github.com/leshley-eatery/silogan/internal/config"
	"github.com/leshley-eatery/silogan/internal/domain"

	amqpAdapter "github.com/leshley-eatery/silogan/internal/adapter/amqp"
	httpAdapter "github.com/leshley-eatery/silogan/internal/adapter/http"
)

func main() {
	mode := flag.String("mode", "", "Service mode: api, notification-subscriber")
	port := flag.Int("port", 0, "HTTP port (overrides config)")
	flag.Parse()

	if *mode == "" {
		log.Fatal("--mode flag is required")
	}

	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}

	ctx := context.Background()

	lgr := logger.New(*mode)

	catalog := domain.DefaultCatalog()
	if err := catalog.Validate(); err != nil {
		log.Fatalf("Invalid catalog: %v", err)
	}

	db, err := postgres.Connect(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	defer db.Close()

	lgr.Info("db_connected", "Connected to PostgreSQL database", "startup", map[string]interface{}{
		"host": cfg.Database.Host,
		"db":   cfg.Database.Database,
	})

	mqConn, err := rabbitmq.Connect(cfg.RabbitMQ)
	if err != nil {
		log.Fatalf("Failed to connect to RabbitMQ: %v", err)
	}
	defer mqConn.Close()

	lgr.Info("rabbitmq_connected", "Connected to RabbitMQ", "startup", map[string]interface{}{
		"host": cfg.RabbitMQ.Host,
	})

	switch *mode {
	case "api":
		runAPI(ctx, cfg, db, mqConn, catalog, lgr)

	case "notification-subscriber":
		runNotificationSubscriber(ctx, mqConn, lgr)

	default:
		log.Fatalf("Invalid mode: %s", *mode)
	}
}

func runAPI(ctx context.Context, cfg *config.Config, db postgres.DB, mqConn rabbitmq.Connection, catalog *domain.Catalog, lgr logger.Logger) {
	if err := postgres.EnsureSchema(ctx, db, catalog, cfg.Auth.AdminPassword); err != nil {
		log.Fatalf("Failed to prepare schema: %v", err)
	}

	ledgerRepo := postgres.NewLedgerRepository()
	orderRepo := postgres.NewOrderRepository()
	userRepo := postgres.NewUserRepository()
	notificationRepo := postgres.NewNotificationRepository()
	ratingRepo := postgres.NewRatingRepository()

	publisher := rabbitmq.NewPublisher(mqConn)

	accountService := account.NewService(db, userRepo, cfg.Auth, lgr)
	fulfillmentService := fulfillment.NewService(db, ledgerRepo, catalog, lgr)
	orderService := order.NewService(db, orderRepo, ledgerRepo, userRepo, notificationRepo, publisher, catalog, lgr)
	reportingService := reporting.NewService(db, orderRepo, ledgerRepo, ratingRepo, catalog, lgr)

	handler := httpAdapter.NewRouter(accountService, orderService, fulfillmentService, reportingService, lgr)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	lgr.Info("service_started", fmt.Sprintf("API started on port %d", cfg.Server.Port), "startup", map[string]interface{}{
		"port": cfg.Server.Port,
	})

	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
		<-sigint

		lgr.Info("shutdown_initiated", "Shutting down API", "shutdown", nil)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			lgr.Error("shutdown_error", "Error during shutdown", "shutdown", nil, err)
		}
	}()

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		lgr.Error("server_error", "Server error", "runtime", nil, err)
	}
}

func runNotificationSubscriber(ctx context.Context, mqConn rabbitmq.Connection, lgr logger.Logger) {
	consumer := rabbitmq.NewConsumer(mqConn)
	notificationHandler := amqpAdapter.NewNotificationHandler(lgr)

	lgr.Info("service_started", "Notification Subscriber started", "startup", nil)

	go func() {
		if err := consumer.ConsumeNotifications(ctx, notificationHandler.HandleNotification); err != nil {
			lgr.Error("consumer_error", "Error consuming notifications", "runtime", nil, err)
		}
	}()

	sigint := make(chan os.Signal, 1)
	signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
	<-sigint

	lgr.Info("shutdown_initiated", "Shutting down Notification Subscriber", "shutdown", nil)
}
