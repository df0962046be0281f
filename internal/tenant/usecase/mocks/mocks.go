// Package mocks provides mock implementations for tenant use case testing.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	tenantDomain "github.com/MASITH-developpement/Azalscore-sub013/internal/tenant/domain"
)

// MockSaltRepository is a mock implementation of SaltRepository for testing.
type MockSaltRepository struct {
	mock.Mock
}

// Create mocks the Create method of SaltRepository.
func (m *MockSaltRepository) Create(ctx context.Context, salt *tenantDomain.TenantSalt) error {
	args := m.Called(ctx, salt)
	return args.Error(0)
}

// Get mocks the Get method of SaltRepository.
func (m *MockSaltRepository) Get(ctx context.Context, tenantID string) (*tenantDomain.TenantSalt, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tenantDomain.TenantSalt), args.Error(1)
}

// UpdateSalt mocks the UpdateSalt method of SaltRepository.
func (m *MockSaltRepository) UpdateSalt(ctx context.Context, tenantID string, newSalt []byte) error {
	args := m.Called(ctx, tenantID, newSalt)
	return args.Error(0)
}

// ListTenantIDs mocks the ListTenantIDs method of SaltRepository.
func (m *MockSaltRepository) ListTenantIDs(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}
