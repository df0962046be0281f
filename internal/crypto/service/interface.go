// Package service provides the per-tenant cryptographic services: key
// derivation from the master secret, memoized AEAD cipher handles, and the
// encryption service used by every caller that reads or writes tenant data.
package service

import (
	cryptoDomain "github.com/MASITH-developpement/Azalscore-sub013/internal/crypto/domain"
)

// AEAD defines the interface for Authenticated Encryption with Associated Data.
type AEAD interface {
	// Encrypt encrypts plaintext with optional AAD and returns ciphertext and nonce.
	Encrypt(plaintext, aad []byte) (ciphertext, nonce []byte, err error)

	// Decrypt decrypts ciphertext using the provided nonce and AAD.
	Decrypt(ciphertext, nonce, aad []byte) ([]byte, error)
}

// AEADManager defines the interface for creating AEAD cipher instances.
type AEADManager interface {
	// CreateCipher creates an AEAD cipher instance for the specified algorithm.
	CreateCipher(key []byte, alg cryptoDomain.Algorithm) (AEAD, error)
}

// KeyDeriver derives a tenant-specific symmetric key from the master secret,
// the tenant identifier, and the tenant's salt.
//
// Derivation is deterministic and intentionally expensive (hundreds of
// milliseconds at production iteration counts); callers must go through
// CipherCache rather than deriving per operation.
type KeyDeriver interface {
	// Derive returns the 32-byte tenant key. Returns
	// cryptoDomain.ErrKeyDerivation if tenantID is empty or salt is shorter
	// than cryptoDomain.MinSaltSize.
	Derive(tenantID string, salt []byte) ([]byte, error)
}

// CipherCache memoizes ready-to-use AEAD handles per (tenant, salt) pair.
type CipherCache interface {
	// GetCipher returns the cached cipher for (tenantID, salt), deriving the
	// key on a miss. Concurrent callers for the same pair share one derivation.
	GetCipher(tenantID string, salt []byte) (AEAD, error)

	// ClearTenant drops the entries for a single tenant (after key rotation).
	ClearTenant(tenantID string)

	// Clear wipes the entire cache (on suspected key compromise).
	Clear()
}

// Encryptor is the public encrypt/decrypt surface for tenant data.
//
// The API deliberately accepts only (tenantID, salt), never a raw key, so that
// handing one tenant's key to another tenant's data is impossible for callers
// at the type level.
type Encryptor interface {
	// Encrypt authenticated-encrypts plaintext under the tenant's derived key.
	// Empty plaintext returns an empty ciphertext (no-op fast path).
	Encrypt(tenantID string, salt, plaintext []byte) (string, error)

	// Decrypt reverses Encrypt. Empty ciphertext returns nil. An
	// authentication failure returns cryptoDomain.ErrDataCorruption, distinct
	// from the generic cryptoDomain.ErrEncryptionFailed.
	Decrypt(tenantID string, salt []byte, ciphertext string) ([]byte, error)

	// EncryptStructured serializes record as JSON and encrypts it.
	EncryptStructured(tenantID string, salt []byte, record any) (string, error)

	// DecryptStructured decrypts ciphertext and deserializes it into out.
	DecryptStructured(tenantID string, salt []byte, ciphertext string, out any) error

	// RotateKey re-encrypts a single ciphertext from oldSalt to newSalt and
	// invalidates the tenant's cached ciphers. Must be called once per
	// ciphertext during a rotation campaign; tracking partially rotated data
	// is the caller's responsibility.
	RotateKey(tenantID string, oldSalt, newSalt []byte, ciphertext string) (string, error)

	// VerifyIntegrity attempts a decrypt, mapping ErrDataCorruption to false.
	// Any other error kind is returned as-is.
	VerifyIntegrity(tenantID string, salt []byte, ciphertext string) (bool, error)
}
