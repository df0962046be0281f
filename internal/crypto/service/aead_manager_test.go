package service

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/MASITH-developpement/Azalscore-sub013/internal/crypto/domain"
)

func TestAEADManager_CreateCipher(t *testing.T) {
	manager := NewAEADManager()
	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)

	t.Run("invalid key size", func(t *testing.T) {
		_, err := manager.CreateCipher(make([]byte, 16), cryptoDomain.AESGCM)
		assert.ErrorIs(t, err, cryptoDomain.ErrInvalidKeySize)
	})

	t.Run("unsupported algorithm", func(t *testing.T) {
		_, err := manager.CreateCipher(key, cryptoDomain.Algorithm("des"))
		assert.ErrorIs(t, err, cryptoDomain.ErrUnsupportedAlgorithm)
	})

	for _, alg := range []cryptoDomain.Algorithm{cryptoDomain.AESGCM, cryptoDomain.ChaCha20} {
		t.Run(string(alg)+" round trip", func(t *testing.T) {
			aead, err := manager.CreateCipher(key, alg)
			require.NoError(t, err)

			plaintext := []byte("per-tenant payload")
			aad := []byte("tenant-1")

			ciphertext, nonce, err := aead.Encrypt(plaintext, aad)
			require.NoError(t, err)
			assert.Len(t, nonce, 12)

			decrypted, err := aead.Decrypt(ciphertext, nonce, aad)
			require.NoError(t, err)
			assert.Equal(t, plaintext, decrypted)
		})

		t.Run(string(alg)+" aad mismatch fails", func(t *testing.T) {
			aead, err := manager.CreateCipher(key, alg)
			require.NoError(t, err)

			ciphertext, nonce, err := aead.Encrypt([]byte("payload"), []byte("tenant-1"))
			require.NoError(t, err)

			_, err = aead.Decrypt(ciphertext, nonce, []byte("tenant-2"))
			assert.Error(t, err)
		})

		t.Run(string(alg)+" unique nonces", func(t *testing.T) {
			aead, err := manager.CreateCipher(key, alg)
			require.NoError(t, err)

			_, nonce1, err := aead.Encrypt([]byte("payload"), nil)
			require.NoError(t, err)
			_, nonce2, err := aead.Encrypt([]byte("payload"), nil)
			require.NoError(t, err)

			assert.NotEqual(t, nonce1, nonce2)
		})
	}
}
