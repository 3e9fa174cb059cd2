package handler

import (
	"senepay/internal/adapter/http/middleware"
	"senepay/internal/core/ports"
	"senepay/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	PaymentSvc     ports.PaymentService
	DeliverySvc    ports.DeliveryService
	EventRepo      ports.WebhookEventRepository
	HealthCheckers []ports.HealthChecker
	InternalToken  string
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.Metrics())
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	// Health check (deep: verifies PostgreSQL + Redis)
	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	// Prometheus metrics
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))

	// API v1 routes
	v1 := r.Group("/api/v1")

	paymentHandler := NewPaymentHandler(deps.PaymentSvc)
	payments := v1.Group("/payments")
	{
		payments.POST("", paymentHandler.InitiatePayment)
		payments.POST("/callback/:provider", paymentHandler.ProviderCallback)
		payments.GET("/:id", paymentHandler.GetPayment)
	}

	// Operational endpoints: batch trigger + delivery-state inspection.
	webhookHandler := NewWebhookHandler(deps.DeliverySvc, deps.EventRepo)
	internal := r.Group("/internal/v1", middleware.InternalAuth(deps.InternalToken))
	{
		internal.POST("/webhooks/run", webhookHandler.RunDeliveryPass)
		internal.GET("/webhooks", webhookHandler.ListEvents)
		internal.GET("/webhooks/:id", webhookHandler.GetEvent)
	}

	return r
}
