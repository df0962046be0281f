package domain

import (
	"time"

	"github.com/google/uuid"
)

// RecoveryStatus is the state of a recovery attempt.
//
// Transitions: Pending → InProgress → {Success, Partial, Failed};
// Failed may move to RolledBack when a half-applied reintegration is undone.
type RecoveryStatus string

const (
	// RecoveryPending: tenant isolated, waiting for an operator to trigger recovery.
	RecoveryPending RecoveryStatus = "pending"
	// RecoveryInProgress: a recovery attempt is executing.
	RecoveryInProgress RecoveryStatus = "in_progress"
	// RecoverySuccess: all tables reintegrated, post-check clean, isolation released.
	RecoverySuccess RecoveryStatus = "success"
	// RecoveryPartial: some tables reintegrated; residual corruption remains.
	// Isolation is released - partial data beats no data - but operators are alerted.
	RecoveryPartial RecoveryStatus = "partial"
	// RecoveryFailed: the attempt failed; the tenant stays isolated until an
	// operator intervenes. Hard safety invariant, not an oversight.
	RecoveryFailed RecoveryStatus = "failed"
	// RecoveryRolledBack: a failed attempt's partial writes were undone.
	RecoveryRolledBack RecoveryStatus = "rolled_back"
)

// RecoveryReport is the full record of one recovery attempt.
// Owned and mutated exclusively by the recovery orchestrator.
type RecoveryReport struct {
	ID              uuid.UUID
	TenantID        string
	StartedAt       time.Time
	CompletedAt     time.Time
	Status          RecoveryStatus
	BackupDate      time.Time
	TablesRecovered []string
	TablesFailed    []string
	RowsRecovered   int
	ErrorMessage    string
	Corruption      *CorruptionReport
}

// NewRecoveryReport constructs a report in the Pending state.
func NewRecoveryReport(corruption *CorruptionReport) *RecoveryReport {
	return &RecoveryReport{
		ID:         uuid.Must(uuid.NewV7()),
		TenantID:   corruption.TenantID,
		StartedAt:  time.Now().UTC(),
		Status:     RecoveryPending,
		Corruption: corruption,
	}
}
