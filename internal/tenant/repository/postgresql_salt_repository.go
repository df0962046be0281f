// Package repository implements persistence for tenant key-derivation salts.
//
// The salt is the only state this subsystem persists: an opaque 32-byte value
// stored alongside each tenant record. PostgreSQL uses BYTEA for the salt and
// timestamptz for dates; MySQL uses VARBINARY and DATETIME. Both repositories
// are transaction-aware via database.GetTx, so salt rotation can share a
// transaction with the re-encryption campaign bookkeeping.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/MASITH-developpement/Azalscore-sub013/internal/database"
	tenantDomain "github.com/MASITH-developpement/Azalscore-sub013/internal/tenant/domain"
)

// PostgreSQLSaltRepository implements salt persistence for PostgreSQL databases.
type PostgreSQLSaltRepository struct {
	db *sql.DB
}

// NewPostgreSQLSaltRepository creates a new PostgreSQLSaltRepository.
func NewPostgreSQLSaltRepository(db *sql.DB) *PostgreSQLSaltRepository {
	return &PostgreSQLSaltRepository{db: db}
}

// Create inserts a new tenant salt record.
// Returns ErrTenantSaltExists if the tenant already has one.
func (r *PostgreSQLSaltRepository) Create(ctx context.Context, salt *tenantDomain.TenantSalt) error {
	querier := database.GetTx(ctx, r.db)

	query := `
		INSERT INTO tenant_salts (tenant_id, salt, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (tenant_id) DO NOTHING
	`

	result, err := querier.ExecContext(ctx, query, salt.TenantID, salt.Salt, salt.CreatedAt)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return tenantDomain.ErrTenantSaltExists
	}

	return nil
}

// Get returns the salt record for tenantID.
// Returns ErrTenantSaltNotFound if no record exists.
func (r *PostgreSQLSaltRepository) Get(ctx context.Context, tenantID string) (*tenantDomain.TenantSalt, error) {
	querier := database.GetTx(ctx, r.db)

	query := `
		SELECT tenant_id, salt, created_at, rotated_at
		FROM tenant_salts
		WHERE tenant_id = $1
	`

	var record tenantDomain.TenantSalt
	err := querier.QueryRowContext(ctx, query, tenantID).Scan(
		&record.TenantID,
		&record.Salt,
		&record.CreatedAt,
		&record.RotatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, tenantDomain.ErrTenantSaltNotFound
		}
		return nil, err
	}

	return &record, nil
}

// UpdateSalt replaces the tenant's salt during a key rotation and stamps rotated_at.
// Returns ErrTenantSaltNotFound if no record exists.
func (r *PostgreSQLSaltRepository) UpdateSalt(ctx context.Context, tenantID string, newSalt []byte) error {
	querier := database.GetTx(ctx, r.db)

	query := `
		UPDATE tenant_salts
		SET salt = $1, rotated_at = $2
		WHERE tenant_id = $3
	`

	result, err := querier.ExecContext(ctx, query, newSalt, time.Now().UTC(), tenantID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return tenantDomain.ErrTenantSaltNotFound
	}

	return nil
}

// ListTenantIDs returns all tenant IDs with a salt record, ordered by tenant ID.
// Used by the integrity sweep to enumerate tenants.
func (r *PostgreSQLSaltRepository) ListTenantIDs(ctx context.Context) ([]string, error) {
	querier := database.GetTx(ctx, r.db)

	rows, err := querier.QueryContext(ctx, `SELECT tenant_id FROM tenant_salts ORDER BY tenant_id`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}
