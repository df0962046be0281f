package domain

// Algorithm represents the authenticated-encryption algorithm used for tenant data.
//
// All supported algorithms provide Authenticated Encryption with Associated Data
// (AEAD), ensuring both confidentiality and authenticity: a tampered ciphertext
// fails decryption loudly instead of returning corrupted plaintext. That failure
// mode is what the corruption-detection pipeline keys off.
type Algorithm string

const (
	// AESGCM represents the AES-256-GCM authenticated encryption algorithm.
	// Preferred on CPUs with AES-NI hardware acceleration.
	AESGCM Algorithm = "aes-gcm"

	// ChaCha20 represents the ChaCha20-Poly1305 authenticated encryption algorithm.
	// Constant-time in software; preferred on platforms without AES-NI.
	ChaCha20 Algorithm = "chacha20-poly1305"
)

const (
	// KeySize is the derived-key size in bytes (256 bits).
	KeySize = 32

	// SaltSize is the size of a freshly generated tenant salt in bytes.
	SaltSize = 32

	// MinSaltSize is the minimum salt length accepted by key derivation.
	// Shorter salts are rejected rather than silently padded.
	MinSaltSize = 16

	// MinKDFIterations is the floor for the PBKDF2 iteration count. The count
	// is tunable up but never below this value: lowering it would break
	// decryption of data encrypted under the higher count.
	MinKDFIterations = 600000
)
