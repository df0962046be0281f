package database

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"sort"
	"strings"

	recoveryUsecase "github.com/MASITH-developpement/Azalscore-sub013/internal/recovery/usecase"
)

// identPattern restricts table and column names to plain identifiers. Table
// names arrive from restored backup payloads and are interpolated into SQL,
// so anything else is rejected outright.
var identPattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// TenantStorage implements the recovery storage contract over database/sql.
// One value serves all tenants; each BeginTx opens an independent transaction.
type TenantStorage struct {
	db     *sql.DB
	driver string
}

// NewTenantStorage creates a TenantStorage for the given driver
// ("postgres" or "mysql").
func NewTenantStorage(db *sql.DB, driver string) *TenantStorage {
	return &TenantStorage{db: db, driver: driver}
}

// BeginTx opens one reintegration transaction.
func (s *TenantStorage) BeginTx(ctx context.Context) (recoveryUsecase.StorageTx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &tenantStorageTx{tx: tx, driver: s.driver}, nil
}

type tenantStorageTx struct {
	tx     *sql.Tx
	driver string
}

// DeleteTenantRows removes the tenant's rows from the table.
func (t *tenantStorageTx) DeleteTenantRows(ctx context.Context, table, tenantID string) error {
	if !identPattern.MatchString(table) {
		return fmt.Errorf("invalid table name %q", table)
	}

	query := fmt.Sprintf("DELETE FROM %s WHERE tenant_id = %s", table, t.placeholder(1))
	if _, err := t.tx.ExecContext(ctx, query, tenantID); err != nil {
		return fmt.Errorf("failed to delete tenant rows from %s: %w", table, err)
	}
	return nil
}

// BulkInsert writes restored rows into the table. Column order is derived
// from the first row's sorted keys; every row must carry the same columns.
func (t *tenantStorageTx) BulkInsert(ctx context.Context, table string, rows []recoveryUsecase.Row) error {
	if !identPattern.MatchString(table) {
		return fmt.Errorf("invalid table name %q", table)
	}
	if len(rows) == 0 {
		return nil
	}

	columns := make([]string, 0, len(rows[0]))
	for column := range rows[0] {
		if !identPattern.MatchString(column) {
			return fmt.Errorf("invalid column name %q in table %s", column, table)
		}
		columns = append(columns, column)
	}
	sort.Strings(columns)

	placeholders := make([]string, len(columns))
	for _, row := range rows {
		if len(row) != len(columns) {
			return fmt.Errorf("inconsistent column set in table %s", table)
		}

		args := make([]any, len(columns))
		for i, column := range columns {
			value, ok := row[column]
			if !ok {
				return fmt.Errorf("row missing column %s in table %s", column, table)
			}
			args[i] = value
			placeholders[i] = t.placeholder(i + 1)
		}

		query := fmt.Sprintf(
			"INSERT INTO %s (%s) VALUES (%s)",
			table,
			strings.Join(columns, ", "),
			strings.Join(placeholders, ", "),
		)
		if _, err := t.tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("failed to insert row into %s: %w", table, err)
		}
	}
	return nil
}

func (t *tenantStorageTx) Commit() error {
	return t.tx.Commit()
}

func (t *tenantStorageTx) Rollback() error {
	return t.tx.Rollback()
}

func (t *tenantStorageTx) placeholder(n int) string {
	if t.driver == "postgres" {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}
