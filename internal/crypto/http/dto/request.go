// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/MASITH-developpement/Azalscore-sub013/internal/validation"
)

// EncryptRequest contains the parameters for encrypting tenant data.
type EncryptRequest struct {
	Plaintext string `json:"plaintext"` // Base64-encoded plaintext
}

// Validate checks if the encrypt request is valid.
func (r *EncryptRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Plaintext,
			validation.Required,
			customValidation.NotBlank,
			customValidation.Base64,
		),
	)
}

// DecryptRequest contains the parameters for decrypting tenant data.
type DecryptRequest struct {
	Ciphertext string `json:"ciphertext"` // Format: "v1:base64-ciphertext"
}

// Validate checks if the decrypt request is valid.
func (r *DecryptRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Ciphertext,
			validation.Required,
			customValidation.NotBlank,
			customValidation.CiphertextEnvelope,
		),
	)
}

// VerifyIntegrityRequest contains the parameters for verifying ciphertext.
type VerifyIntegrityRequest struct {
	Ciphertext string `json:"ciphertext"`
}

// Validate checks if the verify request is valid.
func (r *VerifyIntegrityRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Ciphertext,
			validation.Required,
			customValidation.NotBlank,
			customValidation.CiphertextEnvelope,
		),
	)
}

// RotateKeyRequest contains the ciphertexts to re-encrypt during rotation.
type RotateKeyRequest struct {
	Ciphertexts []string `json:"ciphertexts"`
}

// Validate checks if the rotate key request is valid.
func (r *RotateKeyRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Ciphertexts,
			validation.Each(customValidation.CiphertextEnvelope),
		),
	)
}
