// Package usecase implements the tenant corruption-recovery orchestrator.
package usecase

import (
	"context"
	"time"

	integrityDomain "github.com/MASITH-developpement/Azalscore-sub013/internal/integrity/domain"
)

// Row is one restored storage row, keyed by column name.
type Row map[string]any

// Backup references one stored backup of a tenant's data.
type Backup struct {
	TenantID    string
	Date        time.Time
	LocationRef string
}

// BackupService is the external backup-storage collaborator. Listing order is
// not guaranteed by the contract; the orchestrator sorts newest first itself.
type BackupService interface {
	// ListBackups returns every known backup for the tenant.
	ListBackups(ctx context.Context, tenantID string) ([]Backup, error)

	// VerifyBackupIntegrity checks one backup without restoring it. The
	// message explains a negative verdict.
	VerifyBackupIntegrity(ctx context.Context, tenantID string, backupDate time.Time) (valid bool, message string, err error)

	// RestoreBackup fetches the backup and decrypts it through decryptFn.
	// The decrypted payload stays in memory; implementations must never
	// write it to durable storage.
	RestoreBackup(ctx context.Context, tenantID string, backupDate time.Time, decryptFn func(ciphertext string) ([]byte, error)) (map[string][]Row, error)
}

// Alerter is the fire-and-forget notification collaborator. Implementations
// must not block recovery on delivery.
type Alerter interface {
	Notify(ctx context.Context, kind string, severity integrityDomain.Severity, message, tenantID string, details map[string]any)
}

// StorageHandle opens per-table transactions against the primary data store.
type StorageHandle interface {
	BeginTx(ctx context.Context) (StorageTx, error)
}

// StorageTx is one reintegration transaction. The orchestrator opens one per
// table so a failed table never aborts the others.
type StorageTx interface {
	// DeleteTenantRows removes the tenant's existing rows from the table.
	DeleteTenantRows(ctx context.Context, table, tenantID string) error

	// BulkInsert writes restored rows into the table.
	BulkInsert(ctx context.Context, table string, rows []Row) error

	Commit() error
	Rollback() error
}

// Isolator abstracts isolation bookkeeping so a bookkeeping failure can be
// surfaced; the in-process registry never fails, an external one might.
type Isolator interface {
	Isolate(tenantID, reason string) error
	Release(tenantID string)
	IsIsolated(tenantID string) bool
}

// SaltProvider yields the tenant's key-derivation salt.
type SaltProvider interface {
	GetSalt(ctx context.Context, tenantID string) ([]byte, error)
}

// Decryptor decrypts tenant ciphertext during in-memory backup restoration.
type Decryptor interface {
	Decrypt(tenantID string, salt []byte, ciphertext string) ([]byte, error)
}

// RecoveryUseCase runs the corruption-to-recovery state machine.
type RecoveryUseCase interface {
	// HandleCorruption isolates the tenant and, when autoRecover is true,
	// attempts a full restore from backup. The returned report carries the
	// outcome; a FAILED status leaves the tenant isolated. Returns
	// integrityDomain.ErrRecoveryInProgress if another attempt for the same
	// tenant is running.
	HandleCorruption(ctx context.Context, report *integrityDomain.CorruptionReport, storage StorageHandle, autoRecover bool) (*integrityDomain.RecoveryReport, error)

	// ContinueRecovery resumes a PENDING recovery after operator approval.
	ContinueRecovery(ctx context.Context, report *integrityDomain.CorruptionReport, storage StorageHandle) (*integrityDomain.RecoveryReport, error)
}
