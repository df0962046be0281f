package dto

// EncryptResponse contains the encrypted envelope.
type EncryptResponse struct {
	Ciphertext string `json:"ciphertext"`
}

// DecryptResponse contains the decrypted plaintext.
type DecryptResponse struct {
	Plaintext string `json:"plaintext"` // Base64-encoded plaintext
}

// VerifyIntegrityResponse reports whether a ciphertext authenticates.
type VerifyIntegrityResponse struct {
	Valid bool `json:"valid"`
}

// RotateKeyResponse contains re-encrypted ciphertexts in input order.
type RotateKeyResponse struct {
	Ciphertexts []string `json:"ciphertexts"`
}
