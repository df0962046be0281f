package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/MASITH-developpement/Azalscore-sub013/internal/database"
	tenantDomain "github.com/MASITH-developpement/Azalscore-sub013/internal/tenant/domain"
)

// mysqlDuplicateEntryCode is MySQL error 1062 (duplicate key).
const mysqlDuplicateEntryCode = 1062

// MySQLSaltRepository implements salt persistence for MySQL databases.
type MySQLSaltRepository struct {
	db *sql.DB
}

// NewMySQLSaltRepository creates a new MySQLSaltRepository.
func NewMySQLSaltRepository(db *sql.DB) *MySQLSaltRepository {
	return &MySQLSaltRepository{db: db}
}

// Create inserts a new tenant salt record.
// Returns ErrTenantSaltExists if the tenant already has one.
func (r *MySQLSaltRepository) Create(ctx context.Context, salt *tenantDomain.TenantSalt) error {
	querier := database.GetTx(ctx, r.db)

	query := `
		INSERT INTO tenant_salts (tenant_id, salt, created_at)
		VALUES (?, ?, ?)
	`

	_, err := querier.ExecContext(ctx, query, salt.TenantID, salt.Salt, salt.CreatedAt)
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntryCode {
			return tenantDomain.ErrTenantSaltExists
		}
		return err
	}

	return nil
}

// Get returns the salt record for tenantID.
// Returns ErrTenantSaltNotFound if no record exists.
func (r *MySQLSaltRepository) Get(ctx context.Context, tenantID string) (*tenantDomain.TenantSalt, error) {
	querier := database.GetTx(ctx, r.db)

	query := `
		SELECT tenant_id, salt, created_at, rotated_at
		FROM tenant_salts
		WHERE tenant_id = ?
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
func (r *MySQLSaltRepository) UpdateSalt(ctx context.Context, tenantID string, newSalt []byte) error {
	querier := database.GetTx(ctx, r.db)

	query := `
		UPDATE tenant_salts
		SET salt = ?, rotated_at = ?
		WHERE tenant_id = ?
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
func (r *MySQLSaltRepository) ListTenantIDs(ctx context.Context) ([]string, error) {
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
