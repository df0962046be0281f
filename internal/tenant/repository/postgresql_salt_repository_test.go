package repository

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tenantDomain "github.com/MASITH-developpement/Azalscore-sub013/internal/tenant/domain"
)

func newMockDB(t *testing.T) (*PostgreSQLSaltRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgreSQLSaltRepository(db), mock
}

func TestPostgreSQLSaltRepository_Create(t *testing.T) {
	ctx := context.Background()
	salt := &tenantDomain.TenantSalt{
		TenantID:  "tenant-1",
		Salt:      bytes.Repeat([]byte{0x01}, 32),
		CreatedAt: time.Now().UTC(),
	}

	t.Run("success", func(t *testing.T) {
		repo, mock := newMockDB(t)

		mock.ExpectExec("INSERT INTO tenant_salts").
			WithArgs(salt.TenantID, salt.Salt, salt.CreatedAt).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.Create(ctx, salt))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate tenant", func(t *testing.T) {
		repo, mock := newMockDB(t)

		mock.ExpectExec("INSERT INTO tenant_salts").
			WithArgs(salt.TenantID, salt.Salt, salt.CreatedAt).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Create(ctx, salt)
		assert.ErrorIs(t, err, tenantDomain.ErrTenantSaltExists)
	})
}

func TestPostgreSQLSaltRepository_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		repo, mock := newMockDB(t)
		saltBytes := bytes.Repeat([]byte{0x02}, 32)
		createdAt := time.Now().UTC()

		rows := sqlmock.NewRows([]string{"tenant_id", "salt", "created_at", "rotated_at"}).
			AddRow("tenant-1", saltBytes, createdAt, nil)
		mock.ExpectQuery("SELECT tenant_id, salt, created_at, rotated_at").
			WithArgs("tenant-1").
			WillReturnRows(rows)

		record, err := repo.Get(ctx, "tenant-1")
		require.NoError(t, err)
		assert.Equal(t, "tenant-1", record.TenantID)
		assert.Equal(t, saltBytes, record.Salt)
		assert.Nil(t, record.RotatedAt)
	})

	t.Run("missing", func(t *testing.T) {
		repo, mock := newMockDB(t)

		mock.ExpectQuery("SELECT tenant_id, salt, created_at, rotated_at").
			WithArgs("ghost").
			WillReturnRows(sqlmock.NewRows([]string{"tenant_id", "salt", "created_at", "rotated_at"}))

		_, err := repo.Get(ctx, "ghost")
		assert.ErrorIs(t, err, tenantDomain.ErrTenantSaltNotFound)
	})
}

func TestPostgreSQLSaltRepository_UpdateSalt(t *testing.T) {
	ctx := context.Background()
	newSalt := bytes.Repeat([]byte{0x03}, 32)

	t.Run("success", func(t *testing.T) {
		repo, mock := newMockDB(t)

		mock.ExpectExec("UPDATE tenant_salts").
			WithArgs(newSalt, sqlmock.AnyArg(), "tenant-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.UpdateSalt(ctx, "tenant-1", newSalt))
	})

	t.Run("missing tenant", func(t *testing.T) {
		repo, mock := newMockDB(t)

		mock.ExpectExec("UPDATE tenant_salts").
			WithArgs(newSalt, sqlmock.AnyArg(), "ghost").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.UpdateSalt(ctx, "ghost", newSalt)
		assert.ErrorIs(t, err, tenantDomain.ErrTenantSaltNotFound)
	})
}

func TestPostgreSQLSaltRepository_ListTenantIDs(t *testing.T) {
	repo, mock := newMockDB(t)

	rows := sqlmock.NewRows([]string{"tenant_id"}).
		AddRow("tenant-1").
		AddRow("tenant-2")
	mock.ExpectQuery("SELECT tenant_id FROM tenant_salts").WillReturnRows(rows)

	ids, err := repo.ListTenantIDs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"tenant-1", "tenant-2"}, ids)
}
