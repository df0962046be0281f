// Package mocks provides mock implementations for testing.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	tenantDomain "github.com/MASITH-developpement/Azalscore-sub013/internal/tenant/domain"
)

// MockSaltUseCase is a mock implementation of the salt use case.
type MockSaltUseCase struct {
	mock.Mock
}

func (m *MockSaltUseCase) GetSalt(ctx context.Context, tenantID string) ([]byte, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockSaltUseCase) CreateTenant(ctx context.Context, tenantID string) (*tenantDomain.TenantSalt, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tenantDomain.TenantSalt), args.Error(1)
}

func (m *MockSaltUseCase) RotateSalt(ctx context.Context, tenantID string) ([]byte, []byte, error) {
	args := m.Called(ctx, tenantID)
	var oldSalt, newSalt []byte
	if args.Get(0) != nil {
		oldSalt = args.Get(0).([]byte)
	}
	if args.Get(1) != nil {
		newSalt = args.Get(1).([]byte)
	}
	return oldSalt, newSalt, args.Error(2)
}

func (m *MockSaltUseCase) ListTenantIDs(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}
