package service

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	cryptoDomain "github.com/MASITH-developpement/Azalscore-sub013/internal/crypto/domain"
)

// envelopePrefix versions the ciphertext wire shape so the envelope can evolve
// without breaking stored data.
const envelopePrefix = "v1:"

// envelopeNonceSize is the AEAD nonce length packed into the envelope.
// Both supported algorithms use 96-bit nonces.
const envelopeNonceSize = 12

// EncryptionService implements Encryptor on top of the cipher cache.
//
// Ciphertexts are opaque strings of the form "v1:<base64(nonce || ct || tag)>".
// The tenant ID is bound as additional authenticated data, so decrypting one
// tenant's ciphertext under another tenant's identity fails authentication
// even before the independent salts are considered.
//
// The service distinguishes two failure kinds, and the distinction is the
// trigger condition for the recovery pipeline: ErrDataCorruption for
// authentication failures (tampering, wrong tenant, corrupted storage) and
// ErrEncryptionFailed for everything else (malformed envelope, encoding
// problems). Callers receiving ErrDataCorruption should raise a corruption
// report, not retry.
type EncryptionService struct {
	cache CipherCache
}

// NewEncryptionService creates an EncryptionService backed by the given cache.
func NewEncryptionService(cache CipherCache) *EncryptionService {
	return &EncryptionService{cache: cache}
}

// Encrypt authenticated-encrypts plaintext under the tenant's derived key.
// Empty plaintext returns an empty string without touching the cipher.
func (e *EncryptionService) Encrypt(tenantID string, salt, plaintext []byte) (string, error) {
	if len(plaintext) == 0 {
		return "", nil
	}

	aead, err := e.cache.GetCipher(tenantID, salt)
	if err != nil {
		return "", err
	}

	ciphertext, nonce, err := aead.Encrypt(plaintext, []byte(tenantID))
	if err != nil {
		return "", fmt.Errorf("%w: %v", cryptoDomain.ErrEncryptionFailed, err)
	}

	blob := make([]byte, 0, len(nonce)+len(ciphertext))
	blob = append(blob, nonce...)
	blob = append(blob, ciphertext...)

	return envelopePrefix + base64.StdEncoding.EncodeToString(blob), nil
}

// Decrypt reverses Encrypt. Empty ciphertext returns nil.
//
// An authentication failure of the underlying AEAD is reported as
// cryptoDomain.ErrDataCorruption; a malformed envelope (bad prefix, bad
// base64, truncated blob) is the generic cryptoDomain.ErrEncryptionFailed.
func (e *EncryptionService) Decrypt(tenantID string, salt []byte, ciphertext string) ([]byte, error) {
	if ciphertext == "" {
		return nil, nil
	}

	encoded, ok := strings.CutPrefix(ciphertext, envelopePrefix)
	if !ok {
		return nil, fmt.Errorf("%w: unknown ciphertext envelope", cryptoDomain.ErrEncryptionFailed)
	}

	blob, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid base64: %v", cryptoDomain.ErrEncryptionFailed, err)
	}
	if len(blob) <= envelopeNonceSize {
		return nil, fmt.Errorf("%w: ciphertext too short", cryptoDomain.ErrEncryptionFailed)
	}

	aead, err := e.cache.GetCipher(tenantID, salt)
	if err != nil {
		return nil, err
	}

	plaintext, err := aead.Decrypt(blob[envelopeNonceSize:], blob[:envelopeNonceSize], []byte(tenantID))
	if err != nil {
		return nil, fmt.Errorf("%w: tenant %s", cryptoDomain.ErrDataCorruption, tenantID)
	}

	return plaintext, nil
}

// EncryptStructured serializes record as JSON and encrypts the result.
func (e *EncryptionService) EncryptStructured(tenantID string, salt []byte, record any) (string, error) {
	payload, err := json.Marshal(record)
	if err != nil {
		return "", fmt.Errorf("%w: marshal: %v", cryptoDomain.ErrEncryptionFailed, err)
	}
	return e.Encrypt(tenantID, salt, payload)
}

// DecryptStructured decrypts ciphertext and deserializes the JSON payload into out.
//
// A payload that decrypts cleanly but fails to parse is reported as
// ErrDataCorruption: the authentication tag guarantees we wrote it, so a
// non-JSON payload means the stored record family is structurally damaged.
func (e *EncryptionService) DecryptStructured(tenantID string, salt []byte, ciphertext string, out any) error {
	plaintext, err := e.Decrypt(tenantID, salt, ciphertext)
	if err != nil {
		return err
	}
	if plaintext == nil {
		return fmt.Errorf("%w: empty ciphertext for structured record", cryptoDomain.ErrEncryptionFailed)
	}

	if err := json.Unmarshal(plaintext, out); err != nil {
		return fmt.Errorf("%w: malformed structured payload: %v", cryptoDomain.ErrDataCorruption, err)
	}
	return nil
}

// RotateKey decrypts ciphertext under oldSalt and re-encrypts it under newSalt.
//
// The tenant's cached ciphers are invalidated in between so later operations
// cannot pick up a handle derived from the retired salt. During a rotation
// campaign old and new ciphertexts coexist; the campaign driver tracks which
// rows are rotated.
func (e *EncryptionService) RotateKey(tenantID string, oldSalt, newSalt []byte, ciphertext string) (string, error) {
	plaintext, err := e.Decrypt(tenantID, oldSalt, ciphertext)
	if err != nil {
		return "", err
	}

	e.cache.ClearTenant(tenantID)

	rotated, err := e.Encrypt(tenantID, newSalt, plaintext)
	cryptoDomain.Zero(plaintext)
	if err != nil {
		return "", err
	}
	return rotated, nil
}

// VerifyIntegrity attempts a decrypt and reports whether the ciphertext is intact.
// ErrDataCorruption is swallowed into false; any other error is re-raised.
func (e *EncryptionService) VerifyIntegrity(tenantID string, salt []byte, ciphertext string) (bool, error) {
	plaintext, err := e.Decrypt(tenantID, salt, ciphertext)
	if err != nil {
		if isCorruption(err) {
			return false, nil
		}
		return false, err
	}
	cryptoDomain.Zero(plaintext)
	return true, nil
}

// isCorruption reports whether err carries the corruption sentinel.
func isCorruption(err error) bool {
	return errors.Is(err, cryptoDomain.ErrDataCorruption)
}
