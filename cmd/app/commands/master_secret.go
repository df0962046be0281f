package commands

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"

	cryptoService "github.com/MASITH-developpement/Azalscore-sub013/internal/crypto/service"
)

// RunGenerateMasterSecret generates a cryptographically secure 32-byte master
// secret for tenant key derivation. The secret material is zeroed from memory
// after encoding.
//
// With kmsKeyURI empty the secret is printed base64-encoded for direct use in
// MASTER_SECRET (development only). With kmsKeyURI set the secret is wrapped
// through the KMS keeper first, so the plaintext never reaches the
// environment. For local development use kmsKeyURI="base64key://<32-byte-base64-key>".
func RunGenerateMasterSecret(ctx context.Context, kmsService cryptoService.KMSService, kmsKeyURI string, io IOTuple) error {
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return fmt.Errorf("failed to generate master secret: %w", err)
	}
	defer func() {
		for i := range secret {
			secret[i] = 0
		}
	}()

	output := secret
	if kmsKeyURI != "" {
		keeper, err := kmsService.OpenKeeper(ctx, kmsKeyURI)
		if err != nil {
			return fmt.Errorf("failed to open KMS keeper: %w", err)
		}
		defer func() {
			if closeErr := keeper.Close(); closeErr != nil {
				fmt.Fprintf(io.Writer, "# warning: failed to close KMS keeper: %v\n", closeErr)
			}
		}()

		wrapped, err := keeper.Encrypt(ctx, secret)
		if err != nil {
			return fmt.Errorf("failed to wrap master secret with KMS: %w", err)
		}
		output = wrapped
	}

	fmt.Fprintln(io.Writer, "# Master Secret Configuration")
	fmt.Fprintln(io.Writer, "# Copy these environment variables to your .env file or secrets manager")
	fmt.Fprintln(io.Writer)
	if kmsKeyURI != "" {
		fmt.Fprintf(io.Writer, "KMS_KEY_URI=%q\n", kmsKeyURI)
	} else {
		fmt.Fprintln(io.Writer, "# WARNING: unwrapped secret, development use only")
	}
	fmt.Fprintf(io.Writer, "MASTER_SECRET=%q\n", base64.StdEncoding.EncodeToString(output))

	return nil
}
