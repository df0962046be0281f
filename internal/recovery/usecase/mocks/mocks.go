// Package mocks provides mock implementations of the recovery collaborators.
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	integrityDomain "github.com/MASITH-developpement/Azalscore-sub013/internal/integrity/domain"
	recoveryUsecase "github.com/MASITH-developpement/Azalscore-sub013/internal/recovery/usecase"
)

// MockBackupService is a mock implementation of BackupService for testing.
type MockBackupService struct {
	mock.Mock
}

// ListBackups mocks the ListBackups method of BackupService.
func (m *MockBackupService) ListBackups(ctx context.Context, tenantID string) ([]recoveryUsecase.Backup, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]recoveryUsecase.Backup), args.Error(1)
}

// VerifyBackupIntegrity mocks the VerifyBackupIntegrity method of BackupService.
func (m *MockBackupService) VerifyBackupIntegrity(
	ctx context.Context,
	tenantID string,
	backupDate time.Time,
) (bool, string, error) {
	args := m.Called(ctx, tenantID, backupDate)
	return args.Bool(0), args.String(1), args.Error(2)
}

// RestoreBackup mocks the RestoreBackup method of BackupService.
func (m *MockBackupService) RestoreBackup(
	ctx context.Context,
	tenantID string,
	backupDate time.Time,
	decryptFn func(ciphertext string) ([]byte, error),
) (map[string][]recoveryUsecase.Row, error) {
	args := m.Called(ctx, tenantID, backupDate, decryptFn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string][]recoveryUsecase.Row), args.Error(1)
}

// MockAlerter is a mock implementation of Alerter for testing.
type MockAlerter struct {
	mock.Mock
}

// Notify mocks the Notify method of Alerter.
func (m *MockAlerter) Notify(
	ctx context.Context,
	kind string,
	severity integrityDomain.Severity,
	message, tenantID string,
	details map[string]any,
) {
	m.Called(ctx, kind, severity, message, tenantID, details)
}

// MockStorageHandle is a mock implementation of StorageHandle for testing.
type MockStorageHandle struct {
	mock.Mock
}

// BeginTx mocks the BeginTx method of StorageHandle.
func (m *MockStorageHandle) BeginTx(ctx context.Context) (recoveryUsecase.StorageTx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(recoveryUsecase.StorageTx), args.Error(1)
}

// MockStorageTx is a mock implementation of StorageTx for testing.
type MockStorageTx struct {
	mock.Mock
}

// DeleteTenantRows mocks the DeleteTenantRows method of StorageTx.
func (m *MockStorageTx) DeleteTenantRows(ctx context.Context, table, tenantID string) error {
	args := m.Called(ctx, table, tenantID)
	return args.Error(0)
}

// BulkInsert mocks the BulkInsert method of StorageTx.
func (m *MockStorageTx) BulkInsert(ctx context.Context, table string, rows []recoveryUsecase.Row) error {
	args := m.Called(ctx, table, rows)
	return args.Error(0)
}

// Commit mocks the Commit method of StorageTx.
func (m *MockStorageTx) Commit() error {
	args := m.Called()
	return args.Error(0)
}

// Rollback mocks the Rollback method of StorageTx.
func (m *MockStorageTx) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

// MockIsolator is a mock implementation of Isolator for testing.
type MockIsolator struct {
	mock.Mock
}

// Isolate mocks the Isolate method of Isolator.
func (m *MockIsolator) Isolate(tenantID, reason string) error {
	args := m.Called(tenantID, reason)
	return args.Error(0)
}

// Release mocks the Release method of Isolator.
func (m *MockIsolator) Release(tenantID string) {
	m.Called(tenantID)
}

// IsIsolated mocks the IsIsolated method of Isolator.
func (m *MockIsolator) IsIsolated(tenantID string) bool {
	args := m.Called(tenantID)
	return args.Bool(0)
}

// MockIntegrityChecker is a mock implementation of the integrity sweep hook.
type MockIntegrityChecker struct {
	mock.Mock
}

// CheckTenant mocks the CheckTenant method of IntegrityChecker.
func (m *MockIntegrityChecker) CheckTenant(
	ctx context.Context,
	tenantID string,
) ([]*integrityDomain.CorruptionReport, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*integrityDomain.CorruptionReport), args.Error(1)
}
