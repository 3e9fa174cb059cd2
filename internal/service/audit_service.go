package service

import (
	"context"

	"senepay/internal/core/domain"
	"senepay/internal/core/ports"

	"github.com/rs/zerolog"
)

type auditService struct {
	repo ports.WebhookAuditRepository
	log  zerolog.Logger
}

// NewAuditService creates a new audit service.
// If repo is nil, audit entries are only written to the logger.
func NewAuditService(repo ports.WebhookAuditRepository, log zerolog.Logger) ports.AuditService {
	return &auditService{repo: repo, log: log}
}

// Record persists one delivery attempt outcome. A persistence failure is
// logged and swallowed: the attempt it audits has already been recorded on
// the event itself.
func (s *auditService) Record(ctx context.Context, entry *domain.WebhookAuditEntry) {
	log := s.log.Info()
	if !entry.Success {
		log = s.log.Warn()
	}
	log.
		Str("event_id", entry.EventID.String()).
		Str("merchant_id", entry.MerchantID.String()).
		Int("attempt", entry.Attempt).
		Bool("success", entry.Success).
		Msg("webhook audit")

	if s.repo == nil {
		return
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		s.log.Warn().Err(err).Str("event_id", entry.EventID.String()).Msg("failed to persist webhook audit entry")
	}
}
