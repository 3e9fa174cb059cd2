package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"senepay/internal/core/domain"
	"senepay/internal/core/ports"
	"senepay/internal/metrics"
	"senepay/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Headers attached to every outbound webhook request.
const (
	HeaderSignature  = "X-SenePay-Signature"
	HeaderEvent      = "X-SenePay-Event"
	webhookUserAgent = "SenePay-Webhooks/1.0"
)

// HTTPClient interface for testability.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// DeliveryConfig holds the worker's operational parameters, passed in
// explicitly at construction time instead of read from ambient state.
type DeliveryConfig struct {
	SigningSecret  string
	BatchSize      int
	RequestTimeout time.Duration
	LeaseTTL       time.Duration
}

// deliveryService implements ports.DeliveryService.
type deliveryService struct {
	eventRepo  ports.WebhookEventRepository
	sigSvc     ports.SignatureService
	auditSvc   ports.AuditService
	leaseStore ports.DeliveryLeaseStore // nil = lease claiming disabled
	httpClient HTTPClient
	cfg        DeliveryConfig
	log        zerolog.Logger
	now        func() time.Time
}

// NewDeliveryService creates the webhook delivery worker.
func NewDeliveryService(
	eventRepo ports.WebhookEventRepository,
	sigSvc ports.SignatureService,
	auditSvc ports.AuditService,
	leaseStore ports.DeliveryLeaseStore,
	httpClient HTTPClient,
	cfg DeliveryConfig,
	log zerolog.Logger,
) ports.DeliveryService {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 10
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 15 * time.Second
	}
	if cfg.LeaseTTL <= 0 {
		cfg.LeaseTTL = 2 * time.Minute
	}
	return &deliveryService{
		eventRepo:  eventRepo,
		sigSvc:     sigSvc,
		auditSvc:   auditSvc,
		leaseStore: leaseStore,
		httpClient: httpClient,
		cfg:        cfg,
		log:        log,
		now:        time.Now,
	}
}

// RunPass selects due events and attempts delivery for each, independently.
// Each invocation is stateless: interrupted passes leave records unadvanced
// and the next pass picks them up again (at-least-once delivery).
func (s *deliveryService) RunPass(ctx context.Context) (*ports.PassSummary, error) {
	if s.cfg.SigningSecret == "" {
		return nil, apperror.ErrMissingSigningSecret()
	}

	now := s.now().UTC()
	events, err := s.eventRepo.SelectDue(ctx, s.cfg.BatchSize, now)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("select due webhook events: %w", err))
	}

	// Records are independent entities; deliver them concurrently, bounded
	// by the batch size. A nil slot means the record was skipped because
	// another pass holds its lease.
	results := make([]*ports.DeliveryResult, len(events))
	var wg sync.WaitGroup
	for i := range events {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = s.deliverOne(ctx, &events[i])
		}(i)
	}
	wg.Wait()

	summary := &ports.PassSummary{Results: make([]ports.DeliveryResult, 0, len(events))}
	for _, res := range results {
		if res == nil {
			continue
		}
		summary.Processed++
		if res.Success {
			summary.Successful++
		} else {
			summary.Failed++
		}
		summary.Results = append(summary.Results, *res)
	}

	s.log.Info().
		Int("processed", summary.Processed).
		Int("successful", summary.Successful).
		Int("failed", summary.Failed).
		Msg("webhook: delivery pass complete")

	return summary, nil
}

// deliverOne attempts delivery for a single event and persists the outcome.
// Returns nil if the record is leased by a concurrent pass.
func (s *deliveryService) deliverOne(ctx context.Context, event *domain.WebhookEvent) *ports.DeliveryResult {
	if s.leaseStore != nil {
		acquired, err := s.leaseStore.Acquire(ctx, event.ID, s.cfg.LeaseTTL)
		if err != nil {
			// Lease store down: fall back to the timer interval guarding
			// against overlap rather than stalling deliveries.
			s.log.Warn().Err(err).Str("event_id", event.ID.String()).Msg("webhook: lease store error, proceeding without claim")
		} else if !acquired {
			s.log.Debug().Str("event_id", event.ID.String()).Msg("webhook: record leased by concurrent pass, skipping")
			return nil
		} else {
			defer func() {
				if err := s.leaseStore.Release(context.WithoutCancel(ctx), event.ID); err != nil {
					s.log.Warn().Err(err).Str("event_id", event.ID.String()).Msg("webhook: lease release failed")
				}
			}()
		}
	}

	attempt := event.Attempts + 1
	start := time.Now()
	httpStatus, attemptErr := s.attempt(ctx, event)
	latency := time.Since(start)
	success := attemptErr == nil

	now := s.now().UTC()
	event.Attempts = attempt
	event.LastAttemptAt = &now
	event.UpdatedAt = now
	switch {
	case success:
		event.Delivered = true
		event.NextRetryAt = nil
	case attempt < event.MaxAttempts:
		next := NextRetryAt(now, attempt)
		event.NextRetryAt = &next
	default:
		// Attempts exhausted: the record goes dormant. Abandoned events
		// stay inspectable via the audit trail and the webhook query API,
		// and merchants can poll payment status.
		event.NextRetryAt = nil
	}

	result := &ports.DeliveryResult{
		EventID:    event.ID,
		MerchantID: event.MerchantID,
		Attempt:    attempt,
		Success:    success,
		HTTPStatus: httpStatus,
		Abandoned:  !success && attempt >= event.MaxAttempts,
	}
	if attemptErr != nil {
		result.Error = attemptErr.Error()
	}

	if err := s.eventRepo.Update(ctx, event); err != nil {
		// State not advanced; the record is retried on the next pass.
		s.log.Error().Err(err).Str("event_id", event.ID.String()).Msg("webhook: failed to persist attempt outcome")
		result.Success = false
		result.Error = fmt.Sprintf("update webhook event: %v", err)
		return result
	}

	s.audit(ctx, event, result)
	s.observe(event, result, latency)

	logEvent := s.log.Info()
	if !success {
		logEvent = s.log.Warn()
	}
	logEvent.
		Str("event_id", event.ID.String()).
		Str("event_type", string(event.EventType)).
		Int("attempt", attempt).
		Bool("delivered", event.Delivered).
		Msg("webhook: delivery attempt recorded")

	return result
}

// attempt signs the stored payload bytes and POSTs them to the receiver.
// Any 2xx response is success; everything else is an error to be retried.
func (s *deliveryService) attempt(ctx context.Context, event *domain.WebhookEvent) (*int, error) {
	reqCtx, cancel := context.WithTimeout(ctx, s.cfg.RequestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, event.WebhookURL, bytes.NewReader(event.Payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(HeaderSignature, s.sigSvc.Sign(s.cfg.SigningSecret, event.Payload))
	req.Header.Set(HeaderEvent, string(event.EventType))
	req.Header.Set("User-Agent", webhookUserAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("deliver webhook: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	status := resp.StatusCode
	if status < 200 || status >= 300 {
		return &status, fmt.Errorf("receiver returned status %d", status)
	}
	return &status, nil
}

func (s *deliveryService) audit(ctx context.Context, event *domain.WebhookEvent, result *ports.DeliveryResult) {
	if s.auditSvc == nil {
		return
	}
	entry := &domain.WebhookAuditEntry{
		ID:         uuid.New(),
		MerchantID: event.MerchantID,
		EventID:    event.ID,
		Attempt:    result.Attempt,
		Success:    result.Success,
		HTTPStatus: result.HTTPStatus,
		CreatedAt:  s.now().UTC(),
	}
	if result.Error != "" {
		errMsg := result.Error
		entry.Error = &errMsg
	}
	s.auditSvc.Record(ctx, entry)
}

func (s *deliveryService) observe(event *domain.WebhookEvent, result *ports.DeliveryResult, latency time.Duration) {
	outcome := "failed"
	if result.Success {
		outcome = "delivered"
	} else if result.Abandoned {
		outcome = "abandoned"
	}
	metrics.WebhookDeliveries.WithLabelValues(string(event.EventType), outcome).Inc()
	metrics.WebhookLatency.WithLabelValues(string(event.EventType), outcome).Observe(float64(latency.Milliseconds()))
}
