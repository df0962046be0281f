// Package domain defines the tenant salt record and its lifecycle rules.
package domain

import (
	"crypto/rand"
	"fmt"
	"time"

	cryptoDomain "github.com/MASITH-developpement/Azalscore-sub013/internal/crypto/domain"
)

// TenantSalt is the persisted per-tenant key-derivation salt.
//
// The salt is not secret - it is stored in clear alongside the tenant record -
// but it must be unique and non-guessable. It is generated once at tenant
// creation and immutable afterwards; the only way it changes is an explicit
// key rotation, which also re-encrypts all ciphertext written under the old
// salt.
type TenantSalt struct {
	TenantID  string
	Salt      []byte
	CreatedAt time.Time
	RotatedAt *time.Time
}

// GenerateSalt returns a fresh 32-byte random salt.
func GenerateSalt() ([]byte, error) {
	salt := make([]byte, cryptoDomain.SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	return salt, nil
}
