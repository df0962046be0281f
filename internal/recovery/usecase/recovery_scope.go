package usecase

import (
	"context"

	"github.com/MASITH-developpement/Azalscore-sub013/internal/errors"
	integrityDomain "github.com/MASITH-developpement/Azalscore-sub013/internal/integrity/domain"
)

// WithRecoveryScope isolates the tenant for the duration of fn and runs it
// inside one storage transaction. Normal completion commits; an error or a
// panic rolls back before propagating. Isolation is released on every exit
// path, unlike the FAILED branch of HandleCorruption which deliberately
// leaves the tenant isolated.
func (r *RecoveryUseCaseService) WithRecoveryScope(
	ctx context.Context,
	tenantID, reason string,
	storage StorageHandle,
	fn func(tx StorageTx) error,
) error {
	if err := r.isolator.Isolate(tenantID, reason); err != nil {
		return errors.Wrapf(integrityDomain.ErrTenantIsolation, "tenant %s: %v", tenantID, err)
	}
	defer r.isolator.Release(tenantID)

	tx, err := storage.BeginTx(ctx)
	if err != nil {
		return errors.Wrap(err, "begin recovery scope transaction")
	}

	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "commit recovery scope transaction")
	}
	committed = true
	return nil
}
