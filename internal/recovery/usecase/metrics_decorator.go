package usecase

import (
	"context"
	"time"

	integrityDomain "github.com/MASITH-developpement/Azalscore-sub013/internal/integrity/domain"
	"github.com/MASITH-developpement/Azalscore-sub013/internal/metrics"
)

// recoveryUseCaseWithMetrics decorates RecoveryUseCase with metrics instrumentation.
type recoveryUseCaseWithMetrics struct {
	next    RecoveryUseCase
	metrics metrics.BusinessMetrics
}

// NewRecoveryUseCaseWithMetrics wraps a RecoveryUseCase with metrics recording.
func NewRecoveryUseCaseWithMetrics(useCase RecoveryUseCase, m metrics.BusinessMetrics) RecoveryUseCase {
	return &recoveryUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// HandleCorruption records metrics for recovery attempts. The status label
// reflects the recovery outcome, not just the error return, so a FAILED
// report counts as an error even though the call itself returned nil.
func (r *recoveryUseCaseWithMetrics) HandleCorruption(
	ctx context.Context,
	report *integrityDomain.CorruptionReport,
	storage StorageHandle,
	autoRecover bool,
) (*integrityDomain.RecoveryReport, error) {
	r.metrics.RecordCorruption(ctx, string(report.Kind), string(report.Severity))

	start := time.Now()
	recovery, err := r.next.HandleCorruption(ctx, report, storage, autoRecover)

	status := recoveryStatusLabel(recovery, err)
	r.metrics.RecordOperation(ctx, "recovery", "handle_corruption", status)
	r.metrics.RecordDuration(ctx, "recovery", "handle_corruption", time.Since(start), status)

	return recovery, err
}

// ContinueRecovery records metrics for operator-triggered recovery resumption.
func (r *recoveryUseCaseWithMetrics) ContinueRecovery(
	ctx context.Context,
	report *integrityDomain.CorruptionReport,
	storage StorageHandle,
) (*integrityDomain.RecoveryReport, error) {
	start := time.Now()
	recovery, err := r.next.ContinueRecovery(ctx, report, storage)

	status := recoveryStatusLabel(recovery, err)
	r.metrics.RecordOperation(ctx, "recovery", "continue_recovery", status)
	r.metrics.RecordDuration(ctx, "recovery", "continue_recovery", time.Since(start), status)

	return recovery, err
}

func recoveryStatusLabel(recovery *integrityDomain.RecoveryReport, err error) string {
	if err != nil || recovery == nil {
		return "error"
	}
	switch recovery.Status {
	case integrityDomain.RecoverySuccess:
		return "success"
	case integrityDomain.RecoveryPartial:
		return "partial"
	case integrityDomain.RecoveryPending:
		return "pending"
	default:
		return "error"
	}
}
