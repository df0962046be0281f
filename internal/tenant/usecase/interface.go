// Package usecase implements business logic for tenant salt management.
package usecase

import (
	"context"

	tenantDomain "github.com/MASITH-developpement/Azalscore-sub013/internal/tenant/domain"
)

// SaltRepository defines the persistence contract for tenant salts.
type SaltRepository interface {
	// Create inserts a new salt record; ErrTenantSaltExists on duplicate.
	Create(ctx context.Context, salt *tenantDomain.TenantSalt) error

	// Get returns the salt record; ErrTenantSaltNotFound if absent.
	Get(ctx context.Context, tenantID string) (*tenantDomain.TenantSalt, error)

	// UpdateSalt replaces the salt during rotation and stamps rotated_at.
	UpdateSalt(ctx context.Context, tenantID string, newSalt []byte) error

	// ListTenantIDs enumerates all tenants with a salt record.
	ListTenantIDs(ctx context.Context) ([]string, error)
}

// SaltUseCase manages the tenant salt lifecycle.
type SaltUseCase interface {
	// GetSalt returns the tenant's key-derivation salt. When the store is
	// unreachable and degraded fallback is enabled, a deterministic salt is
	// derived from the tenant ID and flagged as reduced security in logs.
	GetSalt(ctx context.Context, tenantID string) ([]byte, error)

	// CreateTenant generates and persists a fresh random salt for a new tenant.
	CreateTenant(ctx context.Context, tenantID string) (*tenantDomain.TenantSalt, error)

	// RotateSalt swaps the tenant's salt for a new random one and invalidates
	// any cached ciphers. Returns the old and new salts so the caller can run
	// the re-encryption campaign over existing ciphertext.
	RotateSalt(ctx context.Context, tenantID string) (oldSalt, newSalt []byte, err error)

	// ListTenantIDs enumerates all known tenants (integrity sweep input).
	ListTenantIDs(ctx context.Context) ([]string, error)
}
