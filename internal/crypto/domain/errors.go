package domain

import (
	"github.com/MASITH-developpement/Azalscore-sub013/internal/errors"
)

// Cryptographic operation error definitions.
//
// The split between ErrEncryptionFailed and ErrDataCorruption is load-bearing:
// callers match on ErrDataCorruption with errors.Is to decide whether a failed
// decrypt should raise a corruption report and enter the recovery pipeline,
// instead of inspecting a crypto library's internal error types.
var (
	// ErrUnsupportedAlgorithm indicates the requested encryption algorithm is not supported.
	//
	// Supported algorithms: AESGCM (AES-256-GCM), ChaCha20 (ChaCha20-Poly1305)
	ErrUnsupportedAlgorithm = errors.Wrap(errors.ErrInvalidInput, "unsupported algorithm")

	// ErrInvalidKeySize indicates the cryptographic key size is invalid.
	// All derived keys must be exactly 32 bytes (256 bits).
	ErrInvalidKeySize = errors.Wrap(errors.ErrInvalidInput, "invalid key size")

	// ErrKeyDerivation indicates the key-derivation inputs are invalid:
	// an empty tenant ID or a salt shorter than MinSaltSize bytes.
	ErrKeyDerivation = errors.Wrap(errors.ErrInvalidInput, "key derivation failed")

	// ErrEncryptionFailed indicates a generic encryption/decryption failure not
	// attributable to tampering (e.g., a malformed ciphertext envelope or an
	// encoding error). Surfaced to the caller as-is; it never triggers recovery.
	ErrEncryptionFailed = errors.New("encryption operation failed")

	// ErrDataCorruption indicates an authentication failure while decrypting
	// tenant data: the ciphertext was tampered with, encrypted under a
	// different tenant's key, or corrupted at rest. Callers receiving this
	// error should construct a corruption report and hand off to the recovery
	// orchestrator rather than retrying - a tampered decrypt never succeeds.
	ErrDataCorruption = errors.New("tenant data corruption detected")

	// ErrMasterSecretNotSet indicates the MASTER_SECRET environment variable is missing.
	ErrMasterSecretNotSet = errors.New("MASTER_SECRET is not set")

	// ErrInvalidMasterSecretBase64 indicates the master secret is not valid base64.
	ErrInvalidMasterSecretBase64 = errors.New("MASTER_SECRET is not valid base64")

	// ErrInvalidMasterSecretSize indicates the decoded master secret is too short.
	ErrInvalidMasterSecretSize = errors.New("master secret must be at least 32 bytes")
)
