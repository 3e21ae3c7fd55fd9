package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/rafaelleal24/stockledger/docs"
	"github.com/rafaelleal24/stockledger/internal/adapters/config"
	"github.com/rafaelleal24/stockledger/internal/adapters/http"
	"github.com/rafaelleal24/stockledger/internal/adapters/http/controllers"
	"github.com/rafaelleal24/stockledger/internal/adapters/http/middleware"
	"github.com/rafaelleal24/stockledger/internal/adapters/outbox"
	"github.com/rafaelleal24/stockledger/internal/adapters/rabbitmq"
	"github.com/rafaelleal24/stockledger/internal/adapters/redis"
	"github.com/rafaelleal24/stockledger/internal/adapters/scheduler"
	"github.com/rafaelleal24/stockledger/internal/adapters/storage"
	"github.com/rafaelleal24/stockledger/internal/core/domain"
	"github.com/rafaelleal24/stockledger/internal/core/logger"
	"github.com/rafaelleal24/stockledger/internal/core/port"
	"github.com/rafaelleal24/stockledger/internal/core/service"
)

// @title       Stock Ledger API
// @version     1.0
// @description Inventory ledger: products, stock movements and reports

// @host     localhost:8080
// @BasePath /

//go:generate swag init -d ../.. -g cmd/http/main.go -o ../../docs --parseInternal

func main() {
	// initialize config and logger
	cfg := config.NewConfig()
	if err := logger.Initialize(logger.Options{
		Endpoint:     cfg.Logger.Endpoint,
		ServiceName:  cfg.Logger.ServiceName,
		IsProduction: cfg.Logger.IsProduction,
		Level:        logger.ParseLevel(cfg.Logger.Level),
		JSON:         cfg.Logger.JSON,
	}); err != nil {
		// logger not available yet, fall back to stderr
		fmt.Fprintln(os.Stderr, "failed to initialize logger: "+err.Error())
		os.Exit(1)
	}

	// cancellable context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := cfg.Validate(); err != nil {
		logger.Fatal(ctx, "Invalid configuration", err, nil)
	}

	// storage driver with its transaction manager and outbox
	backend, err := storage.Open(ctx, cfg)
	if err != nil {
		logger.Fatal(ctx, "Failed to open storage", err, map[string]any{"driver": string(cfg.Storage.Driver)})
	}
	defer backend.Close()
	logger.Info(ctx, "Storage opened", map[string]any{"driver": string(backend.Driver)})

	checkers := []controllers.HealthChecker{
		{Name: string(backend.Driver), Check: backend.Ping},
	}
	ledgerOpts := []service.LedgerOption{
		service.WithLowStockThreshold(cfg.Ledger.LowStockThreshold),
	}

	// optional redis: idempotency keys and rate limiting
	var rateLimiter middleware.RateLimiter
	if cfg.Redis.URL != "" {
		redisClient, err := redis.NewConnection(cfg.Redis)
		if err != nil {
			logger.Fatal(ctx, "Failed to connect to Redis", err, nil)
		}
		defer redisClient.Close()
		logger.Info(ctx, "Connected to Redis", nil)

		idempotencyCache := redis.NewCache[service.IdempotencyEntry[domain.Product]](redisClient, "idempotency")
		idempotencyService := service.NewIdempotencyService(idempotencyCache, cfg.Ledger.IdempotencyTTL, 1*time.Second, 10*time.Second)
		ledgerOpts = append(ledgerOpts, service.WithIdempotency(idempotencyService))
		rateLimiter = redis.NewRateLimiter(redisClient)
		checkers = append(checkers, controllers.HealthChecker{Name: "redis", Check: redisClient.Ping})
	} else {
		logger.Warn(ctx, "REDIS_URL not set: idempotency keys and rate limiting disabled", nil)
	}

	// optional rabbitmq: events go through the outbox to the broker
	var broker port.BrokerPort
	var outboxHandler *outbox.Handler
	if cfg.RabbitMQ.URL != "" {
		publisher, err := rabbitmq.NewPublisher(cfg.RabbitMQ)
		if err != nil {
			logger.Fatal(ctx, "Failed to connect to RabbitMQ", err, nil)
		}
		defer publisher.Close()
		logger.Info(ctx, "Connected to RabbitMQ", nil)
		broker = publisher

		ledgerOpts = append(ledgerOpts, service.WithOutbox(outbox.NewEnqueuer(backend.Outbox)))
		outboxHandler = outbox.NewHandler(backend.Outbox, publisher, cfg.Outbox)
		go outboxHandler.Start(ctx)
		logger.Info(ctx, "Outbox handler started", map[string]any{"interval": cfg.Outbox.Interval.String(), "batch_size": cfg.Outbox.BatchSize})
		checkers = append(checkers, controllers.HealthChecker{Name: "rabbitmq", Check: func(ctx context.Context) error { return publisher.HealthCheck() }})
	} else {
		logger.Warn(ctx, "RABBITMQ_URL not set: ledger events are not published", nil)
	}

	// services
	ledger := service.NewLedgerService(backend.Persistence, backend.TxManager, ledgerOpts...)
	if err := ledger.Load(ctx); err != nil {
		logger.Fatal(ctx, "Failed to load ledger", err, nil)
	}
	reports := service.NewReportService(ledger)

	// periodic audits
	sched := scheduler.NewScheduler(cfg.Scheduler, reports, broker)
	if err := sched.Start(); err != nil {
		logger.Fatal(ctx, "Failed to start scheduler", err, nil)
	}

	// controllers and router
	router := http.NewRouter(
		controllers.NewHealthController(checkers),
		controllers.NewProductController(ledger),
		controllers.NewTransactionController(ledger, cfg.Ledger.RecentLimit),
		controllers.NewReportController(reports),
		rateLimiter,
		cfg.HTTP,
	)

	// graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info(ctx, "Received shutdown signal", map[string]any{"signal": sig.String()})
		cancel()
	}()

	logger.Info(ctx, "Starting HTTP server", map[string]any{"addr": cfg.HTTP.BindInterface + ":" + cfg.HTTP.Port})
	if err := router.ListenAndServe(ctx); err != nil {
		logger.Fatal(ctx, "Failed to start HTTP server", err, nil)
	}

	sched.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if outboxHandler != nil {
		published := outboxHandler.Flush(shutdownCtx)
		logger.Info(shutdownCtx, "Outbox flushed", map[string]any{"published": published})
	}
	if err := logger.Shutdown(shutdownCtx); err != nil {
		fmt.Fprintln(os.Stderr, "logger shutdown error: "+err.Error())
	}
}
