package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"senepay/config"
	httpHandler "senepay/internal/adapter/http/handler"
	"senepay/internal/adapter/provider"
	pgStorage "senepay/internal/adapter/storage/postgres"
	redisStorage "senepay/internal/adapter/storage/redis"
	"senepay/internal/core/ports"
	"senepay/internal/metrics"
	"senepay/internal/service"
	"senepay/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Msg("Starting SenePay API")

	metrics.RegisterDefault()

	ctx := context.Background()

	// Initialize PostgreSQL pool
	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// Initialize Redis client
	rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// Initialize repositories
	merchantRepo := pgStorage.NewMerchantRepo(pool)
	paymentRepo := pgStorage.NewPaymentRepo(pool)
	eventRepo := pgStorage.NewWebhookEventRepo(pool)
	auditRepo := pgStorage.NewAuditRepo(pool)
	transactor := pgStorage.NewTransactor(pool)
	leaseStore := redisStorage.NewDeliveryLeaseStore(rdb)

	// Initialize provider clients
	providers := provider.NewRegistry(
		provider.NewWaveClient(cfg.Providers.Wave.BaseURL, cfg.Providers.Wave.APIKey,
			&http.Client{Timeout: cfg.Providers.Wave.Timeout}),
		provider.NewOrangeMoneyClient(cfg.Providers.OrangeMoney.BaseURL, cfg.Providers.OrangeMoney.APIKey,
			&http.Client{Timeout: cfg.Providers.OrangeMoney.Timeout}),
	)

	// Initialize services
	sigSvc := service.NewHMACSignatureService()
	auditSvc := service.NewAuditService(auditRepo, log)
	enqueuer := service.NewWebhookService(eventRepo, cfg.Webhook.MaxAttempts, log)
	paymentSvc := service.NewPaymentService(paymentRepo, merchantRepo, enqueuer, providers, transactor, log)
	deliverySvc := service.NewDeliveryService(
		eventRepo, sigSvc, auditSvc, leaseStore,
		&http.Client{Timeout: cfg.Webhook.RequestTimeout},
		service.DeliveryConfig{
			SigningSecret:  cfg.Webhook.SigningSecret,
			BatchSize:      cfg.Webhook.BatchSize,
			RequestTimeout: cfg.Webhook.RequestTimeout,
			LeaseTTL:       cfg.Webhook.LeaseTTL,
		},
		log,
	)

	// Initialize health checkers
	pgHealth := pgStorage.NewHealthCheck(pool)
	redisHealth := redisStorage.NewHealthCheck(rdb)

	// Setup Gin router with all routes
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		PaymentSvc:     paymentSvc,
		DeliverySvc:    deliverySvc,
		EventRepo:      eventRepo,
		HealthCheckers: []ports.HealthChecker{pgHealth, redisHealth},
		InternalToken:  cfg.Webhook.InternalToken,
		Logger:         log,
	})

	// HTTP Server with graceful shutdown
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
