package usecase_test

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	apperrors "github.com/MASITH-developpement/Azalscore-sub013/internal/errors"
	integrityDomain "github.com/MASITH-developpement/Azalscore-sub013/internal/integrity/domain"
	integrityService "github.com/MASITH-developpement/Azalscore-sub013/internal/integrity/service"
	"github.com/MASITH-developpement/Azalscore-sub013/internal/isolation"
	recoveryUsecase "github.com/MASITH-developpement/Azalscore-sub013/internal/recovery/usecase"
	"github.com/MASITH-developpement/Azalscore-sub013/internal/recovery/usecase/mocks"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// staticSaltProvider returns one fixed salt for every tenant.
type staticSaltProvider struct {
	salt []byte
	err  error
}

func (s *staticSaltProvider) GetSalt(_ context.Context, _ string) ([]byte, error) {
	return s.salt, s.err
}

// recordingDecryptor returns a fixed payload and records what it was asked
// to decrypt.
type recordingDecryptor struct {
	mu          sync.Mutex
	payload     []byte
	tenantIDs   []string
	salts       [][]byte
	ciphertexts []string
}

func (d *recordingDecryptor) Decrypt(tenantID string, salt []byte, ciphertext string) ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.tenantIDs = append(d.tenantIDs, tenantID)
	d.salts = append(d.salts, salt)
	d.ciphertexts = append(d.ciphertexts, ciphertext)
	return d.payload, nil
}

type recoveryFixture struct {
	backups   *mocks.MockBackupService
	alerter   *mocks.MockAlerter
	registry  *isolation.Registry
	salts     *staticSaltProvider
	decryptor *recordingDecryptor
	checker   *mocks.MockIntegrityChecker
	storage   *mocks.MockStorageHandle
	tx        *mocks.MockStorageTx
	useCase   *recoveryUsecase.RecoveryUseCaseService
}

func newRecoveryFixture(t *testing.T) *recoveryFixture {
	t.Helper()

	f := &recoveryFixture{
		backups:   &mocks.MockBackupService{},
		alerter:   &mocks.MockAlerter{},
		registry:  isolation.NewRegistry(slog.Default()),
		salts:     &staticSaltProvider{salt: []byte("0123456789abcdef0123456789abcdef")},
		decryptor: &recordingDecryptor{payload: []byte("{}")},
		checker:   &mocks.MockIntegrityChecker{},
		storage:   &mocks.MockStorageHandle{},
		tx:        &mocks.MockStorageTx{},
	}
	f.alerter.On("Notify", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Maybe()
	f.storage.On("BeginTx", mock.Anything).Return(f.tx, nil).Maybe()

	f.useCase = recoveryUsecase.NewRecoveryUseCase(
		f.backups,
		f.alerter,
		recoveryUsecase.NewRegistryIsolator(f.registry),
		f.salts,
		f.decryptor,
		integrityService.NewCorruptionDetector(),
		f.checker,
		slog.Default(),
	)
	return f
}

func corruptionReport(tenantID string, tables ...string) *integrityDomain.CorruptionReport {
	return integrityDomain.NewCorruptionReport(
		tenantID,
		integrityDomain.DecryptionFailed,
		integrityDomain.SeverityCritical,
		"ciphertext failed authentication",
		tables...,
	)
}

func TestRecoveryUseCase_HandleCorruption_Success(t *testing.T) {
	ctx := context.Background()
	f := newRecoveryFixture(t)

	older := recoveryUsecase.Backup{TenantID: "t1", Date: time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)}
	newest := recoveryUsecase.Backup{TenantID: "t1", Date: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}

	// Listed oldest first: the orchestrator must sort and pick the newest.
	f.backups.On("ListBackups", ctx, "t1").Return([]recoveryUsecase.Backup{older, newest}, nil)
	f.backups.On("VerifyBackupIntegrity", ctx, "t1", newest.Date).Return(true, "", nil)
	f.backups.On("RestoreBackup", ctx, "t1", newest.Date, mock.Anything).Return(map[string][]recoveryUsecase.Row{
		"orders": {
			{"id": 1}, {"id": 2}, {"id": 3}, {"id": 4}, {"id": 5},
			{"id": 6}, {"id": 7}, {"id": 8}, {"id": 9}, {"id": 10},
		},
		"invoices": {{"id": 1}, {"id": 2}, {"id": 3}, {"id": 4}, {"id": 5}},
	}, nil)

	f.tx.On("DeleteTenantRows", mock.Anything, mock.Anything, "t1").Return(nil)
	f.tx.On("BulkInsert", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.tx.On("Commit").Return(nil)

	f.checker.On("CheckTenant", mock.Anything, "t1").Return([]*integrityDomain.CorruptionReport{}, nil)

	report, err := f.useCase.HandleCorruption(ctx, corruptionReport("t1", "orders"), f.storage, true)
	require.NoError(t, err)

	assert.Equal(t, integrityDomain.RecoverySuccess, report.Status)
	assert.Equal(t, newest.Date, report.BackupDate)
	assert.ElementsMatch(t, []string{"orders", "invoices"}, report.TablesRecovered)
	assert.Empty(t, report.TablesFailed)
	assert.Equal(t, 15, report.RowsRecovered)
	assert.False(t, report.CompletedAt.IsZero())
	assert.False(t, f.registry.IsIsolated("t1"))

	f.backups.AssertNotCalled(t, "VerifyBackupIntegrity", ctx, "t1", older.Date)
}

func TestRecoveryUseCase_HandleCorruption_SkipsUnverifiableBackups(t *testing.T) {
	ctx := context.Background()
	f := newRecoveryFixture(t)

	older := recoveryUsecase.Backup{TenantID: "t1", Date: time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)}
	newest := recoveryUsecase.Backup{TenantID: "t1", Date: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}

	f.backups.On("ListBackups", ctx, "t1").Return([]recoveryUsecase.Backup{newest, older}, nil)
	f.backups.On("VerifyBackupIntegrity", ctx, "t1", newest.Date).Return(false, "checksum mismatch", nil)
	f.backups.On("VerifyBackupIntegrity", ctx, "t1", older.Date).Return(true, "", nil)
	f.backups.On("RestoreBackup", ctx, "t1", older.Date, mock.Anything).Return(map[string][]recoveryUsecase.Row{
		"orders": {{"id": 1}},
	}, nil)

	f.tx.On("DeleteTenantRows", mock.Anything, "orders", "t1").Return(nil)
	f.tx.On("BulkInsert", mock.Anything, "orders", mock.Anything).Return(nil)
	f.tx.On("Commit").Return(nil)
	f.checker.On("CheckTenant", mock.Anything, "t1").Return([]*integrityDomain.CorruptionReport{}, nil)

	report, err := f.useCase.HandleCorruption(ctx, corruptionReport("t1"), f.storage, true)
	require.NoError(t, err)
	assert.Equal(t, integrityDomain.RecoverySuccess, report.Status)
	assert.Equal(t, older.Date, report.BackupDate)
}

func TestRecoveryUseCase_HandleCorruption_NoValidBackup(t *testing.T) {
	ctx := context.Background()
	f := newRecoveryFixture(t)

	backup := recoveryUsecase.Backup{TenantID: "t1", Date: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	f.backups.On("ListBackups", ctx, "t1").Return([]recoveryUsecase.Backup{backup}, nil)
	f.backups.On("VerifyBackupIntegrity", ctx, "t1", backup.Date).Return(false, "corrupted archive", nil)

	report, err := f.useCase.HandleCorruption(ctx, corruptionReport("t1", "orders"), f.storage, true)
	require.NoError(t, err)

	assert.Equal(t, integrityDomain.RecoveryFailed, report.Status)
	assert.Contains(t, report.ErrorMessage, "no valid backup")
	assert.True(t, f.registry.IsIsolated("t1"), "failed recovery must leave the tenant isolated")
}

func TestRecoveryUseCase_HandleCorruption_PartialReintegration(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T, f *recoveryFixture) {
		backup := recoveryUsecase.Backup{TenantID: "t1", Date: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
		f.backups.On("ListBackups", ctx, "t1").Return([]recoveryUsecase.Backup{backup}, nil)
		f.backups.On("VerifyBackupIntegrity", ctx, "t1", backup.Date).Return(true, "", nil)
		f.backups.On("RestoreBackup", ctx, "t1", backup.Date, mock.Anything).Return(map[string][]recoveryUsecase.Row{
			"orders":   {{"id": 1}, {"id": 2}},
			"invoices": {{"id": 1}},
		}, nil)

		f.tx.On("DeleteTenantRows", mock.Anything, "invoices", "t1").Return(errors.New("deadlock"))
		f.tx.On("Rollback").Return(nil)
		f.tx.On("DeleteTenantRows", mock.Anything, "orders", "t1").Return(nil)
		f.tx.On("BulkInsert", mock.Anything, "orders", mock.Anything).Return(nil)
		f.tx.On("Commit").Return(nil)
	}

	t.Run("residual corruption yields PARTIAL", func(t *testing.T) {
		f := newRecoveryFixture(t)
		setup(t, f)
		residual := []*integrityDomain.CorruptionReport{corruptionReport("t1", "invoices")}
		f.checker.On("CheckTenant", mock.Anything, "t1").Return(residual, nil)

		report, err := f.useCase.HandleCorruption(ctx, corruptionReport("t1"), f.storage, true)
		require.NoError(t, err)

		assert.Equal(t, integrityDomain.RecoveryPartial, report.Status)
		assert.Equal(t, []string{"orders"}, report.TablesRecovered)
		assert.Equal(t, []string{"invoices"}, report.TablesFailed)
		assert.Equal(t, 2, report.RowsRecovered)
		assert.False(t, f.registry.IsIsolated("t1"), "partial recovery still releases isolation")
	})

	t.Run("clean post-check yields SUCCESS despite failed table", func(t *testing.T) {
		f := newRecoveryFixture(t)
		setup(t, f)
		f.checker.On("CheckTenant", mock.Anything, "t1").Return([]*integrityDomain.CorruptionReport{}, nil)

		report, err := f.useCase.HandleCorruption(ctx, corruptionReport("t1"), f.storage, true)
		require.NoError(t, err)

		assert.Equal(t, integrityDomain.RecoverySuccess, report.Status)
		assert.Equal(t, []string{"invoices"}, report.TablesFailed)
	})
}

func TestRecoveryUseCase_HandleCorruption_AllTablesFail(t *testing.T) {
	ctx := context.Background()
	f := newRecoveryFixture(t)

	backup := recoveryUsecase.Backup{TenantID: "t1", Date: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	f.backups.On("ListBackups", ctx, "t1").Return([]recoveryUsecase.Backup{backup}, nil)
	f.backups.On("VerifyBackupIntegrity", ctx, "t1", backup.Date).Return(true, "", nil)
	f.backups.On("RestoreBackup", ctx, "t1", backup.Date, mock.Anything).Return(map[string][]recoveryUsecase.Row{
		"orders": {{"id": 1}},
	}, nil)

	f.tx.On("DeleteTenantRows", mock.Anything, "orders", "t1").Return(errors.New("disk full"))
	f.tx.On("Rollback").Return(nil)

	report, err := f.useCase.HandleCorruption(ctx, corruptionReport("t1"), f.storage, true)
	require.NoError(t, err)

	assert.Equal(t, integrityDomain.RecoveryFailed, report.Status)
	assert.True(t, f.registry.IsIsolated("t1"))
	f.checker.AssertNotCalled(t, "CheckTenant", mock.Anything, mock.Anything)
}

func TestRecoveryUseCase_HandleCorruption_MalformedBackup(t *testing.T) {
	ctx := context.Background()
	f := newRecoveryFixture(t)

	backup := recoveryUsecase.Backup{TenantID: "t1", Date: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	f.backups.On("ListBackups", ctx, "t1").Return([]recoveryUsecase.Backup{backup}, nil)
	f.backups.On("VerifyBackupIntegrity", ctx, "t1", backup.Date).Return(true, "", nil)
	f.backups.On("RestoreBackup", ctx, "t1", backup.Date, mock.Anything).Return(map[string][]recoveryUsecase.Row{}, nil)

	report, err := f.useCase.HandleCorruption(ctx, corruptionReport("t1"), f.storage, true)
	require.NoError(t, err)

	assert.Equal(t, integrityDomain.RecoveryFailed, report.Status)
	assert.Contains(t, report.ErrorMessage, "malformed")
	assert.True(t, f.registry.IsIsolated("t1"))
}

func TestRecoveryUseCase_HandleCorruption_AutoRecoverDisabled(t *testing.T) {
	ctx := context.Background()
	f := newRecoveryFixture(t)

	report, err := f.useCase.HandleCorruption(ctx, corruptionReport("t1", "orders"), f.storage, false)
	require.NoError(t, err)

	assert.Equal(t, integrityDomain.RecoveryPending, report.Status)
	assert.True(t, f.registry.IsIsolated("t1"))

	reason, ok := f.registry.ReasonFor("t1")
	require.True(t, ok)
	assert.Contains(t, reason, "decryption_failed")

	f.backups.AssertNotCalled(t, "ListBackups", mock.Anything, mock.Anything)
}

func TestRecoveryUseCase_HandleCorruption_IsolationFailure(t *testing.T) {
	ctx := context.Background()
	f := newRecoveryFixture(t)

	isolator := &mocks.MockIsolator{}
	isolator.On("Isolate", "t1", mock.Anything).Return(errors.New("registry unavailable"))

	useCase := recoveryUsecase.NewRecoveryUseCase(
		f.backups,
		f.alerter,
		isolator,
		f.salts,
		f.decryptor,
		integrityService.NewCorruptionDetector(),
		f.checker,
		slog.Default(),
	)

	report, err := useCase.HandleCorruption(ctx, corruptionReport("t1"), f.storage, true)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, integrityDomain.ErrTenantIsolation))

	require.NotNil(t, report)
	assert.Equal(t, integrityDomain.RecoveryFailed, report.Status)
	f.backups.AssertNotCalled(t, "ListBackups", mock.Anything, mock.Anything)
}

func TestRecoveryUseCase_HandleCorruption_ConcurrentSameTenant(t *testing.T) {
	ctx := context.Background()
	f := newRecoveryFixture(t)

	firstStarted := make(chan struct{})
	releaseFirst := make(chan struct{})

	f.backups.On("ListBackups", ctx, "t1").Run(func(_ mock.Arguments) {
		close(firstStarted)
		<-releaseFirst
	}).Return(nil, errors.New("backup store unreachable"))

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = f.useCase.HandleCorruption(ctx, corruptionReport("t1"), f.storage, true)
	}()

	<-firstStarted
	_, err := f.useCase.HandleCorruption(ctx, corruptionReport("t1"), f.storage, true)
	assert.True(t, apperrors.Is(err, integrityDomain.ErrRecoveryInProgress))

	close(releaseFirst)
	<-done

	// A different tenant is not blocked by t1's lock.
	f.backups.On("ListBackups", ctx, "t2").Return(nil, errors.New("backup store unreachable"))
	report, err := f.useCase.HandleCorruption(ctx, corruptionReport("t2"), f.storage, true)
	require.NoError(t, err)
	assert.Equal(t, integrityDomain.RecoveryFailed, report.Status)
}

func TestRecoveryUseCase_HandleCorruption_DecryptsInMemory(t *testing.T) {
	ctx := context.Background()
	f := newRecoveryFixture(t)

	backup := recoveryUsecase.Backup{TenantID: "t1", Date: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	f.backups.On("ListBackups", ctx, "t1").Return([]recoveryUsecase.Backup{backup}, nil)
	f.backups.On("VerifyBackupIntegrity", ctx, "t1", backup.Date).Return(true, "", nil)
	f.backups.On("RestoreBackup", ctx, "t1", backup.Date, mock.Anything).Run(func(args mock.Arguments) {
		decryptFn := args.Get(3).(func(ciphertext string) ([]byte, error))
		plaintext, err := decryptFn("v1:payload")
		require.NoError(t, err)
		assert.Equal(t, []byte("{}"), plaintext)
	}).Return(map[string][]recoveryUsecase.Row{"orders": {{"id": 1}}}, nil)

	f.tx.On("DeleteTenantRows", mock.Anything, "orders", "t1").Return(nil)
	f.tx.On("BulkInsert", mock.Anything, "orders", mock.Anything).Return(nil)
	f.tx.On("Commit").Return(nil)
	f.checker.On("CheckTenant", mock.Anything, "t1").Return([]*integrityDomain.CorruptionReport{}, nil)

	_, err := f.useCase.HandleCorruption(ctx, corruptionReport("t1"), f.storage, true)
	require.NoError(t, err)

	// The decrypt callback carries the tenant's identity and salt.
	require.Len(t, f.decryptor.tenantIDs, 1)
	assert.Equal(t, "t1", f.decryptor.tenantIDs[0])
	assert.Equal(t, f.salts.salt, f.decryptor.salts[0])
	assert.Equal(t, "v1:payload", f.decryptor.ciphertexts[0])
}

func TestRecoveryUseCase_ContinueRecovery(t *testing.T) {
	ctx := context.Background()
	f := newRecoveryFixture(t)

	// Tenant already isolated from a PENDING attempt.
	f.registry.Isolate("t1", "Corruption: decryption_failed")

	backup := recoveryUsecase.Backup{TenantID: "t1", Date: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	f.backups.On("ListBackups", ctx, "t1").Return([]recoveryUsecase.Backup{backup}, nil)
	f.backups.On("VerifyBackupIntegrity", ctx, "t1", backup.Date).Return(true, "", nil)
	f.backups.On("RestoreBackup", ctx, "t1", backup.Date, mock.Anything).Return(map[string][]recoveryUsecase.Row{
		"orders": {{"id": 1}},
	}, nil)

	f.tx.On("DeleteTenantRows", mock.Anything, "orders", "t1").Return(nil)
	f.tx.On("BulkInsert", mock.Anything, "orders", mock.Anything).Return(nil)
	f.tx.On("Commit").Return(nil)
	f.checker.On("CheckTenant", mock.Anything, "t1").Return([]*integrityDomain.CorruptionReport{}, nil)

	report, err := f.useCase.ContinueRecovery(ctx, corruptionReport("t1"), f.storage)
	require.NoError(t, err)

	assert.Equal(t, integrityDomain.RecoverySuccess, report.Status)
	assert.False(t, f.registry.IsIsolated("t1"))
}

func TestRecoveryUseCase_WithRecoveryScope(t *testing.T) {
	ctx := context.Background()

	t.Run("commit and release on success", func(t *testing.T) {
		f := newRecoveryFixture(t)
		f.tx.On("Commit").Return(nil)

		var sawIsolated bool
		err := f.useCase.WithRecoveryScope(ctx, "t1", "manual maintenance", f.storage, func(tx recoveryUsecase.StorageTx) error {
			sawIsolated = f.registry.IsIsolated("t1")
			return nil
		})
		require.NoError(t, err)
		assert.True(t, sawIsolated, "tenant is isolated while the scope runs")
		assert.False(t, f.registry.IsIsolated("t1"))
		f.tx.AssertCalled(t, "Commit")
	})

	t.Run("rollback and release on error", func(t *testing.T) {
		f := newRecoveryFixture(t)
		f.tx.On("Rollback").Return(nil)

		wantErr := errors.New("reintegration failed")
		err := f.useCase.WithRecoveryScope(ctx, "t1", "manual maintenance", f.storage, func(recoveryUsecase.StorageTx) error {
			return wantErr
		})
		require.ErrorIs(t, err, wantErr)
		assert.False(t, f.registry.IsIsolated("t1"), "isolation released even on failure")
		f.tx.AssertCalled(t, "Rollback")
		f.tx.AssertNotCalled(t, "Commit")
	})

	t.Run("rollback and release on panic", func(t *testing.T) {
		f := newRecoveryFixture(t)
		f.tx.On("Rollback").Return(nil)

		assert.Panics(t, func() {
			_ = f.useCase.WithRecoveryScope(ctx, "t1", "manual maintenance", f.storage, func(recoveryUsecase.StorageTx) error {
				panic("boom")
			})
		})
		assert.False(t, f.registry.IsIsolated("t1"))
		f.tx.AssertCalled(t, "Rollback")
	})
}
