package usecase

import (
	"context"
	"time"

	"github.com/MASITH-developpement/Azalscore-sub013/internal/metrics"
)

// tenantCryptoUseCaseWithMetrics decorates TenantCryptoUseCase with metrics instrumentation.
type tenantCryptoUseCaseWithMetrics struct {
	next    TenantCryptoUseCase
	metrics metrics.BusinessMetrics
}

// NewTenantCryptoUseCaseWithMetrics wraps a TenantCryptoUseCase with metrics recording.
func NewTenantCryptoUseCaseWithMetrics(useCase TenantCryptoUseCase, m metrics.BusinessMetrics) TenantCryptoUseCase {
	return &tenantCryptoUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (u *tenantCryptoUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	u.metrics.RecordOperation(ctx, "crypto", operation, status)
	u.metrics.RecordDuration(ctx, "crypto", operation, time.Since(start), status)
}

// Encrypt records metrics for encryption operations.
func (u *tenantCryptoUseCaseWithMetrics) Encrypt(ctx context.Context, tenantID string, plaintext []byte) (string, error) {
	start := time.Now()
	ciphertext, err := u.next.Encrypt(ctx, tenantID, plaintext)
	u.record(ctx, "encrypt", start, err)
	return ciphertext, err
}

// Decrypt records metrics for decryption operations.
func (u *tenantCryptoUseCaseWithMetrics) Decrypt(ctx context.Context, tenantID, ciphertext string) ([]byte, error) {
	start := time.Now()
	plaintext, err := u.next.Decrypt(ctx, tenantID, ciphertext)
	u.record(ctx, "decrypt", start, err)
	return plaintext, err
}

// EncryptStructured records metrics for structured encryption operations.
func (u *tenantCryptoUseCaseWithMetrics) EncryptStructured(ctx context.Context, tenantID string, record any) (string, error) {
	start := time.Now()
	ciphertext, err := u.next.EncryptStructured(ctx, tenantID, record)
	u.record(ctx, "encrypt_structured", start, err)
	return ciphertext, err
}

// DecryptStructured records metrics for structured decryption operations.
func (u *tenantCryptoUseCaseWithMetrics) DecryptStructured(ctx context.Context, tenantID, ciphertext string, out any) error {
	start := time.Now()
	err := u.next.DecryptStructured(ctx, tenantID, ciphertext, out)
	u.record(ctx, "decrypt_structured", start, err)
	return err
}

// VerifyIntegrity records metrics for integrity verification operations.
func (u *tenantCryptoUseCaseWithMetrics) VerifyIntegrity(ctx context.Context, tenantID, ciphertext string) (bool, error) {
	start := time.Now()
	valid, err := u.next.VerifyIntegrity(ctx, tenantID, ciphertext)
	u.record(ctx, "verify_integrity", start, err)
	return valid, err
}

// RotateTenantKey records metrics for key rotation operations.
func (u *tenantCryptoUseCaseWithMetrics) RotateTenantKey(ctx context.Context, tenantID string, ciphertexts []string) ([]string, error) {
	start := time.Now()
	rotated, err := u.next.RotateTenantKey(ctx, tenantID, ciphertexts)
	u.record(ctx, "rotate_tenant_key", start, err)
	return rotated, err
}
