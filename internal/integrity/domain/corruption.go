// Package domain defines corruption reports, recovery reports, and their
// lifecycle states for the tenant data-integrity pipeline.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// CorruptionKind classifies what kind of damage a detector found.
type CorruptionKind string

const (
	// DecryptionFailed: ciphertext failed AEAD authentication.
	DecryptionFailed CorruptionKind = "decryption_failed"
	// ChecksumMismatch: stored checksum does not match recomputed SHA-256.
	ChecksumMismatch CorruptionKind = "checksum_mismatch"
	// DataFormatInvalid: payload failed structural parsing.
	DataFormatInvalid CorruptionKind = "data_format_invalid"
	// ForeignKeyViolation: row references a nonexistent parent.
	ForeignKeyViolation CorruptionKind = "foreign_key_violation"
	// SchemaMismatch: table shape diverges from the expected schema.
	SchemaMismatch CorruptionKind = "schema_mismatch"
	// BackupCorrupted: a backup failed its own integrity verification.
	BackupCorrupted CorruptionKind = "backup_corrupted"
)

// Severity grades a corruption event for alerting and triage.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// CorruptionReport describes one detected corruption event for one tenant.
//
// Reports are immutable once constructed; the recovery orchestrator embeds
// the triggering report in its RecoveryReport but never mutates it.
type CorruptionReport struct {
	ID                uuid.UUID
	TenantID          string
	Kind              CorruptionKind
	DetectedAt        time.Time
	AffectedTables    []string
	AffectedRowsCount int
	Details           string
	Severity          Severity
}

// NewCorruptionReport constructs a report stamped with the current time.
func NewCorruptionReport(
	tenantID string,
	kind CorruptionKind,
	severity Severity,
	details string,
	affectedTables ...string,
) *CorruptionReport {
	return &CorruptionReport{
		ID:             uuid.Must(uuid.NewV7()),
		TenantID:       tenantID,
		Kind:           kind,
		DetectedAt:     time.Now().UTC(),
		AffectedTables: affectedTables,
		Details:        details,
		Severity:       severity,
	}
}
