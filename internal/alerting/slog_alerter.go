// Package alerting delivers corruption and recovery notifications.
package alerting

import (
	"context"
	"log/slog"

	integrityDomain "github.com/MASITH-developpement/Azalscore-sub013/internal/integrity/domain"
)

// SlogAlerter emits alerts as structured log records. It is the default
// notification channel; operators route the records to their paging system
// through the log pipeline.
type SlogAlerter struct {
	logger *slog.Logger
}

// NewSlogAlerter creates a SlogAlerter.
func NewSlogAlerter(logger *slog.Logger) *SlogAlerter {
	return &SlogAlerter{logger: logger}
}

// Notify emits one alert record. Delivery never fails and never blocks the
// caller beyond the log write.
func (a *SlogAlerter) Notify(
	ctx context.Context,
	kind string,
	severity integrityDomain.Severity,
	message, tenantID string,
	details map[string]any,
) {
	level := slog.LevelWarn
	if severity == integrityDomain.SeverityCritical {
		level = slog.LevelError
	}

	a.logger.Log(ctx, level, message,
		slog.String("alert_kind", kind),
		slog.String("severity", string(severity)),
		slog.String("tenant_id", tenantID),
		slog.Any("details", details),
	)
}
