// Package mocks provides mock implementations for testing.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	integrityDomain "github.com/MASITH-developpement/Azalscore-sub013/internal/integrity/domain"
	recoveryUsecase "github.com/MASITH-developpement/Azalscore-sub013/internal/recovery/usecase"
)

// MockRecoveryUseCase is a mock implementation of the recovery use case.
type MockRecoveryUseCase struct {
	mock.Mock
}

func (m *MockRecoveryUseCase) HandleCorruption(
	ctx context.Context,
	report *integrityDomain.CorruptionReport,
	storage recoveryUsecase.StorageHandle,
	autoRecover bool,
) (*integrityDomain.RecoveryReport, error) {
	args := m.Called(ctx, report, storage, autoRecover)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integrityDomain.RecoveryReport), args.Error(1)
}

func (m *MockRecoveryUseCase) ContinueRecovery(
	ctx context.Context,
	report *integrityDomain.CorruptionReport,
	storage recoveryUsecase.StorageHandle,
) (*integrityDomain.RecoveryReport, error) {
	args := m.Called(ctx, report, storage)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integrityDomain.RecoveryReport), args.Error(1)
}
