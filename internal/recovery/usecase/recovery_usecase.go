package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/MASITH-developpement/Azalscore-sub013/internal/errors"
	integrityDomain "github.com/MASITH-developpement/Azalscore-sub013/internal/integrity/domain"
	integrityService "github.com/MASITH-developpement/Azalscore-sub013/internal/integrity/service"
	"github.com/MASITH-developpement/Azalscore-sub013/internal/isolation"
)

const (
	alertKindCorruptionDetected = "corruption_detected"
	alertKindRecoveryCompleted  = "recovery_completed"
	alertKindRecoveryFailed     = "recovery_failed"
)

// RecoveryUseCaseService orchestrates tenant data recovery.
//
// One recovery per tenant runs at a time; a second HandleCorruption call for
// the same tenant is rejected with ErrRecoveryInProgress instead of racing
// the first. Different tenants recover concurrently.
type RecoveryUseCaseService struct {
	backups   BackupService
	alerter   Alerter
	isolator  Isolator
	salts     SaltProvider
	decryptor Decryptor
	detector  *integrityService.CorruptionDetector
	checker   integrityService.IntegrityChecker
	logger    *slog.Logger

	mu       sync.Mutex
	inFlight map[string]struct{}
}

// NewRecoveryUseCase creates a RecoveryUseCaseService.
func NewRecoveryUseCase(
	backups BackupService,
	alerter Alerter,
	isolator Isolator,
	salts SaltProvider,
	decryptor Decryptor,
	detector *integrityService.CorruptionDetector,
	checker integrityService.IntegrityChecker,
	logger *slog.Logger,
) *RecoveryUseCaseService {
	return &RecoveryUseCaseService{
		backups:   backups,
		alerter:   alerter,
		isolator:  isolator,
		salts:     salts,
		decryptor: decryptor,
		detector:  detector,
		checker:   checker,
		logger:    logger,
		inFlight:  make(map[string]struct{}),
	}
}

// HandleCorruption isolates the tenant and optionally runs the full recovery
// pipeline. The isolation happens before anything else; a tenant whose data
// is suspect must stop serving traffic immediately.
func (r *RecoveryUseCaseService) HandleCorruption(
	ctx context.Context,
	report *integrityDomain.CorruptionReport,
	storage StorageHandle,
	autoRecover bool,
) (*integrityDomain.RecoveryReport, error) {
	tenantID := report.TenantID

	if !r.acquireTenantLock(tenantID) {
		return nil, errors.Wrapf(integrityDomain.ErrRecoveryInProgress, "tenant %s", tenantID)
	}
	defer r.releaseTenantLock(tenantID)

	recovery := integrityDomain.NewRecoveryReport(report)

	r.alerter.Notify(ctx, alertKindCorruptionDetected, report.Severity,
		fmt.Sprintf("corruption detected: %s", report.Kind),
		tenantID,
		map[string]any{
			"corruption_id":   report.ID.String(),
			"affected_tables": report.AffectedTables,
			"details":         report.Details,
		},
	)

	if err := r.isolator.Isolate(tenantID, fmt.Sprintf("Corruption: %s", report.Kind)); err != nil {
		recovery.Status = integrityDomain.RecoveryFailed
		recovery.ErrorMessage = err.Error()
		recovery.CompletedAt = time.Now().UTC()
		r.logger.Error("tenant isolation failed, aborting recovery",
			slog.String("tenant_id", tenantID),
			slog.Any("error", err),
		)
		return recovery, errors.Wrapf(integrityDomain.ErrTenantIsolation, "tenant %s: %v", tenantID, err)
	}

	if !autoRecover {
		r.logger.Info("tenant isolated, recovery pending operator approval",
			slog.String("tenant_id", tenantID),
			slog.String("corruption_kind", string(report.Kind)),
		)
		return recovery, nil
	}

	r.runRecovery(ctx, recovery, storage)
	return recovery, nil
}

// ContinueRecovery resumes a PENDING recovery after operator approval. The
// tenant is re-isolated (a no-op overwrite when already isolated) and the
// full pipeline runs.
func (r *RecoveryUseCaseService) ContinueRecovery(
	ctx context.Context,
	report *integrityDomain.CorruptionReport,
	storage StorageHandle,
) (*integrityDomain.RecoveryReport, error) {
	return r.HandleCorruption(ctx, report, storage, true)
}

// runRecovery executes the restore and settles the report's final status,
// releasing isolation on SUCCESS or PARTIAL. A FAILED attempt leaves the
// tenant isolated until an operator intervenes.
func (r *RecoveryUseCaseService) runRecovery(
	ctx context.Context,
	recovery *integrityDomain.RecoveryReport,
	storage StorageHandle,
) {
	tenantID := recovery.TenantID
	recovery.Status = integrityDomain.RecoveryInProgress

	err := r.performRecovery(ctx, recovery, storage)
	if err != nil {
		recovery.Status = integrityDomain.RecoveryFailed
		recovery.ErrorMessage = err.Error()
	}
	recovery.CompletedAt = time.Now().UTC()

	switch recovery.Status {
	case integrityDomain.RecoverySuccess, integrityDomain.RecoveryPartial:
		r.isolator.Release(tenantID)
		r.logger.Info("tenant recovery completed",
			slog.String("tenant_id", tenantID),
			slog.String("status", string(recovery.Status)),
			slog.Int("rows_recovered", recovery.RowsRecovered),
			slog.Int("tables_failed", len(recovery.TablesFailed)),
		)
		r.alerter.Notify(ctx, alertKindRecoveryCompleted, severityFor(recovery.Status),
			fmt.Sprintf("recovery completed with status %s", recovery.Status),
			tenantID,
			map[string]any{
				"recovery_id":      recovery.ID.String(),
				"backup_date":      recovery.BackupDate,
				"tables_recovered": recovery.TablesRecovered,
				"tables_failed":    recovery.TablesFailed,
				"rows_recovered":   recovery.RowsRecovered,
			},
		)
	default:
		r.logger.Error("tenant recovery failed, tenant remains isolated",
			slog.String("tenant_id", tenantID),
			slog.String("error", recovery.ErrorMessage),
		)
		r.alerter.Notify(ctx, alertKindRecoveryFailed, integrityDomain.SeverityCritical,
			"recovery failed, tenant remains isolated pending operator action",
			tenantID,
			map[string]any{
				"recovery_id": recovery.ID.String(),
				"error":       recovery.ErrorMessage,
			},
		)
	}
}

// performRecovery restores the newest verified backup and reintegrates it
// table by table. On a nil return the report status is settled to SUCCESS or
// PARTIAL by the post-reintegration integrity check.
func (r *RecoveryUseCaseService) performRecovery(
	ctx context.Context,
	recovery *integrityDomain.RecoveryReport,
	storage StorageHandle,
) error {
	tenantID := recovery.TenantID

	backup, err := r.selectBackup(ctx, tenantID)
	if err != nil {
		return err
	}
	recovery.BackupDate = backup.Date

	salt, err := r.salts.GetSalt(ctx, tenantID)
	if err != nil {
		return errors.Wrapf(integrityDomain.ErrRecoveryFailed, "get salt for tenant %s: %v", tenantID, err)
	}

	// The restored payload is decrypted in memory only and never written
	// back to durable storage unencrypted.
	decryptFn := func(ciphertext string) ([]byte, error) {
		return r.decryptor.Decrypt(tenantID, salt, ciphertext)
	}

	tables, err := r.backups.RestoreBackup(ctx, tenantID, backup.Date, decryptFn)
	if err != nil {
		return errors.Wrapf(integrityDomain.ErrRecoveryFailed, "restore backup: %v", err)
	}
	if err := validateRestoredTables(tables); err != nil {
		return err
	}

	r.reintegrate(ctx, recovery, storage, tables)
	if len(recovery.TablesRecovered) == 0 {
		return errors.Wrap(integrityDomain.ErrRecoveryFailed, "no table could be reintegrated")
	}

	remaining, err := r.detector.RunIntegrityCheck(ctx, tenantID, r.checker)
	if err != nil {
		return errors.Wrapf(integrityDomain.ErrRecoveryFailed, "post-recovery integrity check: %v", err)
	}
	if len(remaining) == 0 {
		recovery.Status = integrityDomain.RecoverySuccess
	} else {
		recovery.Status = integrityDomain.RecoveryPartial
		r.logger.Warn("residual corruption after reintegration",
			slog.String("tenant_id", tenantID),
			slog.Int("remaining_reports", len(remaining)),
		)
	}
	return nil
}

// selectBackup returns the newest backup that passes integrity verification.
func (r *RecoveryUseCaseService) selectBackup(ctx context.Context, tenantID string) (*Backup, error) {
	backups, err := r.backups.ListBackups(ctx, tenantID)
	if err != nil {
		return nil, errors.Wrapf(integrityDomain.ErrRecoveryFailed, "list backups: %v", err)
	}

	sort.Slice(backups, func(i, j int) bool {
		return backups[i].Date.After(backups[j].Date)
	})

	for i := range backups {
		valid, message, err := r.backups.VerifyBackupIntegrity(ctx, tenantID, backups[i].Date)
		if err != nil {
			r.logger.Warn("backup verification errored, trying older backup",
				slog.String("tenant_id", tenantID),
				slog.Time("backup_date", backups[i].Date),
				slog.Any("error", err),
			)
			continue
		}
		if !valid {
			r.logger.Warn("backup failed verification, trying older backup",
				slog.String("tenant_id", tenantID),
				slog.Time("backup_date", backups[i].Date),
				slog.String("message", message),
			)
			continue
		}
		return &backups[i], nil
	}
	return nil, errors.Wrapf(integrityDomain.ErrNoValidBackup, "tenant %s", tenantID)
}

// reintegrate writes restored rows back table by table, one transaction per
// table. A failed table is recorded and skipped; losing recoverable tables
// because one table is broken would be worse than a partial recovery.
func (r *RecoveryUseCaseService) reintegrate(
	ctx context.Context,
	recovery *integrityDomain.RecoveryReport,
	storage StorageHandle,
	tables map[string][]Row,
) {
	tenantID := recovery.TenantID

	names := make([]string, 0, len(tables))
	for name := range tables {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, table := range names {
		rows := tables[table]
		if err := r.reintegrateTable(ctx, storage, tenantID, table, rows); err != nil {
			recovery.TablesFailed = append(recovery.TablesFailed, table)
			r.logger.Error("table reintegration failed",
				slog.String("tenant_id", tenantID),
				slog.String("table", table),
				slog.Any("error", err),
			)
			continue
		}
		recovery.TablesRecovered = append(recovery.TablesRecovered, table)
		recovery.RowsRecovered += len(rows)
	}
}

func (r *RecoveryUseCaseService) reintegrateTable(
	ctx context.Context,
	storage StorageHandle,
	tenantID, table string,
	rows []Row,
) error {
	tx, err := storage.BeginTx(ctx)
	if err != nil {
		return errors.Wrapf(err, "begin transaction for table %s", table)
	}

	if err := tx.DeleteTenantRows(ctx, table, tenantID); err != nil {
		_ = tx.Rollback()
		return errors.Wrapf(err, "delete tenant rows from %s", table)
	}
	if err := tx.BulkInsert(ctx, table, rows); err != nil {
		_ = tx.Rollback()
		return errors.Wrapf(err, "bulk insert into %s", table)
	}
	if err := tx.Commit(); err != nil {
		return errors.Wrapf(err, "commit reintegration of %s", table)
	}
	return nil
}

func (r *RecoveryUseCaseService) acquireTenantLock(tenantID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, busy := r.inFlight[tenantID]; busy {
		return false
	}
	r.inFlight[tenantID] = struct{}{}
	return true
}

func (r *RecoveryUseCaseService) releaseTenantLock(tenantID string) {
	r.mu.Lock()
	delete(r.inFlight, tenantID)
	r.mu.Unlock()
}

// validateRestoredTables rejects payloads that are not a non-empty mapping of
// table name to row list.
func validateRestoredTables(tables map[string][]Row) error {
	if len(tables) == 0 {
		return errors.Wrap(integrityDomain.ErrMalformedBackup, "no tables in restored payload")
	}
	for name, rows := range tables {
		if name == "" {
			return errors.Wrap(integrityDomain.ErrMalformedBackup, "empty table name")
		}
		for i, row := range rows {
			if row == nil {
				return errors.Wrapf(integrityDomain.ErrMalformedBackup, "table %s row %d is nil", name, i)
			}
		}
	}
	return nil
}

func severityFor(status integrityDomain.RecoveryStatus) integrityDomain.Severity {
	if status == integrityDomain.RecoverySuccess {
		return integrityDomain.SeverityLow
	}
	return integrityDomain.SeverityHigh
}

// registryIsolator adapts the in-process isolation registry to the Isolator
// contract. Isolate never fails for the in-process registry.
type registryIsolator struct {
	registry *isolation.Registry
}

// NewRegistryIsolator wraps an isolation.Registry as an Isolator.
func NewRegistryIsolator(registry *isolation.Registry) Isolator {
	return &registryIsolator{registry: registry}
}

func (a *registryIsolator) Isolate(tenantID, reason string) error {
	a.registry.Isolate(tenantID, reason)
	return nil
}

func (a *registryIsolator) Release(tenantID string) {
	a.registry.Release(tenantID)
}

func (a *registryIsolator) IsIsolated(tenantID string) bool {
	return a.registry.IsIsolated(tenantID)
}
