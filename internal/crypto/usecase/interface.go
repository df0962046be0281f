// Package usecase implements tenant-scoped encryption business logic.
package usecase

import (
	"context"

	integrityDomain "github.com/MASITH-developpement/Azalscore-sub013/internal/integrity/domain"
	recoveryUsecase "github.com/MASITH-developpement/Azalscore-sub013/internal/recovery/usecase"
)

// CorruptionSink receives corruption reports raised by decrypt failures.
// Implemented by the recovery orchestrator.
type CorruptionSink interface {
	HandleCorruption(ctx context.Context, report *integrityDomain.CorruptionReport, storage recoveryUsecase.StorageHandle, autoRecover bool) (*integrityDomain.RecoveryReport, error)
}

// TenantCryptoUseCase is the tenant-facing encryption surface. Callers never
// see salts or keys; they supply a tenant ID and data.
//
// A decrypt that fails AEAD authentication does two things: raises a
// corruption report into the recovery pipeline and returns
// cryptoDomain.ErrDataCorruption to the caller.
type TenantCryptoUseCase interface {
	// Encrypt encrypts plaintext under the tenant's derived key.
	Encrypt(ctx context.Context, tenantID string, plaintext []byte) (string, error)

	// Decrypt reverses Encrypt.
	Decrypt(ctx context.Context, tenantID, ciphertext string) ([]byte, error)

	// EncryptStructured serializes record as JSON and encrypts it.
	EncryptStructured(ctx context.Context, tenantID string, record any) (string, error)

	// DecryptStructured decrypts and deserializes into out.
	DecryptStructured(ctx context.Context, tenantID, ciphertext string, out any) error

	// VerifyIntegrity reports whether ciphertext authenticates, without
	// raising a corruption report.
	VerifyIntegrity(ctx context.Context, tenantID, ciphertext string) (bool, error)

	// RotateTenantKey rotates the tenant's salt and re-encrypts the given
	// ciphertexts under the new key. Returns the re-encrypted values in
	// input order.
	RotateTenantKey(ctx context.Context, tenantID string, ciphertexts []string) ([]string, error)
}
