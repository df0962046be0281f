package domain

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
)

// MasterSecret is the process-wide secret that every tenant key is derived from.
//
// It is loaded once at startup and never persisted in derived form. Loss of the
// master secret makes all tenant data permanently unrecoverable; that is a
// design property, not a failure mode. Treat backups of the secret itself as an
// operational concern outside this process.
//
// The secret is at least 32 bytes. It never appears in logs, in cache keys, or
// in the ciphertext envelope.
type MasterSecret struct {
	secret []byte
}

// NewMasterSecret wraps raw secret bytes. The caller must not reuse or zero the
// slice afterwards; the MasterSecret owns it until Close.
func NewMasterSecret(secret []byte) (*MasterSecret, error) {
	if len(secret) < KeySize {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidMasterSecretSize, len(secret))
	}
	return &MasterSecret{secret: secret}, nil
}

// Bytes returns the raw secret for key derivation. The returned slice is the
// internal buffer: read-only, never log, never persist.
func (m *MasterSecret) Bytes() []byte {
	return m.secret
}

// Close zeroes the secret material. The MasterSecret is unusable afterwards.
func (m *MasterSecret) Close() {
	Zero(m.secret)
	m.secret = nil
}

// SecretUnwrapper decrypts a wrapped master secret, typically backed by a KMS
// keeper. Implemented by gocloud.dev/secrets.Keeper.
type SecretUnwrapper interface {
	Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error)
}

// LoadMasterSecretFromEnv loads the master secret from the MASTER_SECRET
// environment variable (standard base64, at least 32 bytes decoded).
//
// When unwrapper is non-nil the decoded value is treated as a KMS-wrapped
// ciphertext and unwrapped before use, so the plaintext secret never appears
// in the process environment. In development the variable may hold the secret
// directly (unwrapper nil).
func LoadMasterSecretFromEnv(ctx context.Context, unwrapper SecretUnwrapper) (*MasterSecret, error) {
	raw := os.Getenv("MASTER_SECRET")
	if raw == "" {
		return nil, ErrMasterSecretNotSet
	}

	decoded, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMasterSecretBase64, err)
	}

	if unwrapper != nil {
		plaintext, err := unwrapper.Decrypt(ctx, decoded)
		Zero(decoded)
		if err != nil {
			return nil, fmt.Errorf("failed to unwrap master secret: %w", err)
		}
		decoded = plaintext
	}

	ms, err := NewMasterSecret(decoded)
	if err != nil {
		Zero(decoded)
		return nil, err
	}
	return ms, nil
}
