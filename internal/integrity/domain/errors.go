package domain

import (
	"github.com/MASITH-developpement/Azalscore-sub013/internal/errors"
)

// Recovery pipeline error definitions.
//
// Recovery-layer failures are terminal for the attempt: the system never
// auto-retries a failed recovery, since repeated attempts against the same
// bad backup would burn the isolation window with no benefit.
var (
	// ErrRecoveryFailed is the base error for recovery-pipeline failures.
	ErrRecoveryFailed = errors.New("recovery failed")

	// ErrNoValidBackup indicates no backup passed integrity verification.
	ErrNoValidBackup = errors.Wrap(ErrRecoveryFailed, "no valid backup found")

	// ErrMalformedBackup indicates the restored payload is not the expected
	// table-name to row-list mapping.
	ErrMalformedBackup = errors.Wrap(ErrRecoveryFailed, "restored backup has malformed structure")

	// ErrRecoveryInProgress indicates another recovery attempt already holds
	// the tenant's recovery lock.
	ErrRecoveryInProgress = errors.Wrap(errors.ErrConflict, "recovery already in progress for tenant")

	// ErrTenantIsolation indicates the isolation bookkeeping itself failed.
	// Fatal to the recovery attempt: a tenant that cannot be isolated must
	// not be touched further.
	ErrTenantIsolation = errors.New("tenant isolation failed")
)
