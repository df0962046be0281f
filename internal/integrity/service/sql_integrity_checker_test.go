package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	integrityDomain "github.com/MASITH-developpement/Azalscore-sub013/internal/integrity/domain"
)

func newCheckerFixture(t *testing.T, targets []CheckTarget, decryptFn DecryptFunc) (*SQLIntegrityChecker, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	provider := func(context.Context, string) (DecryptFunc, error) {
		return decryptFn, nil
	}
	checker := NewSQLIntegrityChecker(db, "postgres", targets, NewCorruptionDetector(), provider, logger)
	return checker, mock
}

func okDecrypt(ciphertext string) ([]byte, error) {
	return []byte(strings.TrimPrefix(ciphertext, "v1:")), nil
}

func TestSQLIntegrityChecker_CheckTenant(t *testing.T) {
	targets := []CheckTarget{{
		Table:            "orders",
		KeyColumn:        "id",
		CiphertextColumn: "payload",
	}}

	t.Run("clean tenant", func(t *testing.T) {
		checker, mock := newCheckerFixture(t, targets, okDecrypt)
		mock.ExpectQuery(`SELECT id, payload FROM orders WHERE tenant_id = \$1`).
			WithArgs("tenant-1").
			WillReturnRows(sqlmock.NewRows([]string{"id", "payload"}).
				AddRow("o1", "v1:aaa").
				AddRow("o2", "v1:bbb"))

		reports, err := checker.CheckTenant(context.Background(), "tenant-1")
		require.NoError(t, err)
		assert.Empty(t, reports)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("aggregates decryption failures into one report", func(t *testing.T) {
		failing := func(ciphertext string) ([]byte, error) {
			if strings.Contains(ciphertext, "bad") {
				return nil, assert.AnError
			}
			return okDecrypt(ciphertext)
		}
		checker, mock := newCheckerFixture(t, targets, failing)
		mock.ExpectQuery(`SELECT id, payload FROM orders`).
			WithArgs("tenant-1").
			WillReturnRows(sqlmock.NewRows([]string{"id", "payload"}).
				AddRow("o1", "v1:bad-1").
				AddRow("o2", "v1:fine").
				AddRow("o3", "v1:bad-2"))

		reports, err := checker.CheckTenant(context.Background(), "tenant-1")
		require.NoError(t, err)
		require.Len(t, reports, 1)
		assert.Equal(t, integrityDomain.DecryptionFailed, reports[0].Kind)
		assert.Equal(t, integrityDomain.SeverityCritical, reports[0].Severity)
		assert.Equal(t, 2, reports[0].AffectedRowsCount)
		assert.Equal(t, []string{"orders"}, reports[0].AffectedTables)
	})

	t.Run("null and empty ciphertexts are skipped", func(t *testing.T) {
		checker, mock := newCheckerFixture(t, targets, func(string) ([]byte, error) {
			t.Fatal("decrypt should not be called")
			return nil, nil
		})
		mock.ExpectQuery(`SELECT id, payload FROM orders`).
			WithArgs("tenant-1").
			WillReturnRows(sqlmock.NewRows([]string{"id", "payload"}).
				AddRow("o1", nil).
				AddRow("o2", ""))

		reports, err := checker.CheckTenant(context.Background(), "tenant-1")
		require.NoError(t, err)
		assert.Empty(t, reports)
	})

	t.Run("checksum and format columns", func(t *testing.T) {
		fullTargets := []CheckTarget{{
			Table:            "documents",
			KeyColumn:        "id",
			CiphertextColumn: "payload",
			ChecksumColumn:   "checksum",
			FormatColumn:     "format",
		}}
		checker, mock := newCheckerFixture(t, fullTargets, okDecrypt)

		goodPlain := []byte(`{"ok":true}`)
		goodSum := sha256.Sum256(goodPlain)
		mock.ExpectQuery(`SELECT id, payload, checksum, format FROM documents WHERE tenant_id = \$1`).
			WithArgs("tenant-1").
			WillReturnRows(sqlmock.NewRows([]string{"id", "payload", "checksum", "format"}).
				AddRow("d1", `v1:{"ok":true}`, hex.EncodeToString(goodSum[:]), "json").
				AddRow("d2", `v1:{"ok":true}`, "deadbeef", "json").
				AddRow("d3", `v1:{broken`, hex.EncodeToString(sha256Of(`{broken`)), "json"))

		reports, err := checker.CheckTenant(context.Background(), "tenant-1")
		require.NoError(t, err)
		require.Len(t, reports, 2)

		kinds := map[integrityDomain.CorruptionKind]int{}
		for _, report := range reports {
			kinds[report.Kind] = report.AffectedRowsCount
		}
		assert.Equal(t, 1, kinds[integrityDomain.ChecksumMismatch])
		assert.Equal(t, 1, kinds[integrityDomain.DataFormatInvalid])
	})

	t.Run("query failure", func(t *testing.T) {
		checker, mock := newCheckerFixture(t, targets, okDecrypt)
		mock.ExpectQuery(`SELECT id, payload FROM orders`).
			WithArgs("tenant-1").
			WillReturnError(assert.AnError)

		_, err := checker.CheckTenant(context.Background(), "tenant-1")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "orders")
	})

	t.Run("rejects unsafe table name", func(t *testing.T) {
		bad := []CheckTarget{{
			Table:            "orders; drop table orders",
			KeyColumn:        "id",
			CiphertextColumn: "payload",
		}}
		checker, _ := newCheckerFixture(t, bad, okDecrypt)

		_, err := checker.CheckTenant(context.Background(), "tenant-1")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid SQL identifier")
	})

	t.Run("mysql placeholder", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		provider := func(context.Context, string) (DecryptFunc, error) { return okDecrypt, nil }
		checker := NewSQLIntegrityChecker(db, "mysql", targets, NewCorruptionDetector(), provider, logger)

		mock.ExpectQuery(`SELECT id, payload FROM orders WHERE tenant_id = \?`).
			WithArgs("tenant-1").
			WillReturnRows(sqlmock.NewRows([]string{"id", "payload"}))

		_, err = checker.CheckTenant(context.Background(), "tenant-1")
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func sha256Of(s string) []byte {
	sum := sha256.Sum256([]byte(s))
	return sum[:]
}
