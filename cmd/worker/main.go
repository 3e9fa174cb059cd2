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
	pgStorage "senepay/internal/adapter/storage/postgres"
	redisStorage "senepay/internal/adapter/storage/redis"
	"senepay/internal/metrics"
	"senepay/internal/service"
	"senepay/pkg/logger"
)

// The worker runs delivery passes on a fixed interval. Each pass is a
// complete, stateless unit of work; the interval is an operational
// parameter (webhook.poll_interval), not part of the delivery logic.
func main() {
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	if cfg.Webhook.SigningSecret == "" {
		log.Fatal().Msg("webhook.signing_secret is required: refusing to send unsigned webhooks")
	}

	log.Info().
		Dur("poll_interval", cfg.Webhook.PollInterval).
		Int("batch_size", cfg.Webhook.BatchSize).
		Msg("Starting SenePay webhook delivery worker")

	metrics.RegisterDefault()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	eventRepo := pgStorage.NewWebhookEventRepo(pool)
	auditRepo := pgStorage.NewAuditRepo(pool)
	leaseStore := redisStorage.NewDeliveryLeaseStore(rdb)

	sigSvc := service.NewHMACSignatureService()
	auditSvc := service.NewAuditService(auditRepo, log)
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

	ticker := time.NewTicker(cfg.Webhook.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Worker stopped")
			return
		case <-ticker.C:
			if _, err := deliverySvc.RunPass(ctx); err != nil {
				// The next tick retries; state was not advanced.
				log.Error().Err(err).Msg("delivery pass failed")
			}
		}
	}
}
