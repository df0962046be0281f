package service

import (
	"crypto/sha256"
	"fmt"

	"golang.org/x/crypto/pbkdf2"

	cryptoDomain "github.com/MASITH-developpement/Azalscore-sub013/internal/crypto/domain"
)

// KeyDerivationService implements KeyDeriver using PBKDF2-HMAC-SHA256.
//
// The key material fed to the KDF is masterSecret || ":" || tenantID, with the
// tenant's persisted salt as the KDF salt and a 256-bit output. Two tenants
// therefore never share a key even under the shared master secret: the tenant
// ID is mixed into the password side and the per-tenant salt into the salt
// side.
//
// Derivation is deterministic - identical (masterSecret, tenantID, salt)
// always yields the identical key - which is what keeps previously written
// ciphertext decryptable. It is also intentionally expensive as a brute-force
// defense if the master secret were partially compromised, so callers must
// cache the result (see CipherCacheService).
type KeyDerivationService struct {
	masterSecret *cryptoDomain.MasterSecret
	iterations   int
}

// NewKeyDerivation creates a KeyDerivationService.
//
// iterations below cryptoDomain.MinKDFIterations are raised to the floor
// rather than accepted: a lowered count would be a silent security downgrade
// and would break decryption of data derived under the higher count.
func NewKeyDerivation(masterSecret *cryptoDomain.MasterSecret, iterations int) *KeyDerivationService {
	if iterations < cryptoDomain.MinKDFIterations {
		iterations = cryptoDomain.MinKDFIterations
	}
	return &KeyDerivationService{
		masterSecret: masterSecret,
		iterations:   iterations,
	}
}

// Derive returns the tenant's 32-byte symmetric key.
// Returns ErrKeyDerivation if tenantID is empty or salt is shorter than 16 bytes.
func (k *KeyDerivationService) Derive(tenantID string, salt []byte) ([]byte, error) {
	if tenantID == "" {
		return nil, fmt.Errorf("%w: empty tenant id", cryptoDomain.ErrKeyDerivation)
	}
	if len(salt) < cryptoDomain.MinSaltSize {
		return nil, fmt.Errorf(
			"%w: salt must be at least %d bytes, got %d",
			cryptoDomain.ErrKeyDerivation,
			cryptoDomain.MinSaltSize,
			len(salt),
		)
	}

	material := make([]byte, 0, len(k.masterSecret.Bytes())+1+len(tenantID))
	material = append(material, k.masterSecret.Bytes()...)
	material = append(material, ':')
	material = append(material, tenantID...)

	key := pbkdf2.Key(material, salt, k.iterations, cryptoDomain.KeySize, sha256.New)
	cryptoDomain.Zero(material)

	return key, nil
}
