package event

import (
	"context"

	"go.uber.org/zap"

	"github.com/paydesk/backend/internal/domain/shared"
)

// AuditLogHandler records every domain event in the activity log. It
// subscribes as a catch-all so new event types show up without extra
// wiring.
type AuditLogHandler struct {
	logger *zap.Logger
}

var _ shared.EventHandler = (*AuditLogHandler)(nil)

// NewAuditLogHandler creates an audit log handler
func NewAuditLogHandler(logger *zap.Logger) *AuditLogHandler {
	return &AuditLogHandler{logger: logger.Named("audit")}
}

// Handle writes one log entry per event
func (h *AuditLogHandler) Handle(ctx context.Context, evt shared.DomainEvent) error {
	h.logger.Info("domain event",
		zap.String("event_type", evt.EventType()),
		zap.String("event_id", evt.EventID().String()),
		zap.String("aggregate_type", evt.AggregateType()),
		zap.String("aggregate_id", evt.AggregateID().String()),
		zap.String("company_id", evt.CompanyID().String()),
		zap.Time("occurred_at", evt.OccurredAt()),
	)
	return nil
}

// EventTypes returns nil so the handler receives every event
func (h *AuditLogHandler) EventTypes() []string { return nil }
