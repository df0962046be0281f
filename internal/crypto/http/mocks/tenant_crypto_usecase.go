// Package mocks provides mock implementations for testing HTTP handlers.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockTenantCryptoUseCase is a mock implementation of TenantCryptoUseCase for testing.
type MockTenantCryptoUseCase struct {
	mock.Mock
}

// Encrypt mocks the Encrypt method of TenantCryptoUseCase.
func (m *MockTenantCryptoUseCase) Encrypt(ctx context.Context, tenantID string, plaintext []byte) (string, error) {
	args := m.Called(ctx, tenantID, plaintext)
	return args.String(0), args.Error(1)
}

// Decrypt mocks the Decrypt method of TenantCryptoUseCase.
func (m *MockTenantCryptoUseCase) Decrypt(ctx context.Context, tenantID, ciphertext string) ([]byte, error) {
	args := m.Called(ctx, tenantID, ciphertext)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// EncryptStructured mocks the EncryptStructured method of TenantCryptoUseCase.
func (m *MockTenantCryptoUseCase) EncryptStructured(ctx context.Context, tenantID string, record any) (string, error) {
	args := m.Called(ctx, tenantID, record)
	return args.String(0), args.Error(1)
}

// DecryptStructured mocks the DecryptStructured method of TenantCryptoUseCase.
func (m *MockTenantCryptoUseCase) DecryptStructured(ctx context.Context, tenantID, ciphertext string, out any) error {
	args := m.Called(ctx, tenantID, ciphertext, out)
	return args.Error(0)
}

// VerifyIntegrity mocks the VerifyIntegrity method of TenantCryptoUseCase.
func (m *MockTenantCryptoUseCase) VerifyIntegrity(ctx context.Context, tenantID, ciphertext string) (bool, error) {
	args := m.Called(ctx, tenantID, ciphertext)
	return args.Bool(0), args.Error(1)
}

// RotateTenantKey mocks the RotateTenantKey method of TenantCryptoUseCase.
func (m *MockTenantCryptoUseCase) RotateTenantKey(ctx context.Context, tenantID string, ciphertexts []string) ([]string, error) {
	args := m.Called(ctx, tenantID, ciphertexts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}
