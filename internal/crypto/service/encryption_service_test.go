package service

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/MASITH-developpement/Azalscore-sub013/internal/crypto/domain"
)

func newTestEncryptionService(alg cryptoDomain.Algorithm) *EncryptionService {
	cache := NewCipherCache(&countingDeriver{}, NewAEADManager(), alg, 0)
	return NewEncryptionService(cache)
}

func TestEncryptionService_RoundTrip(t *testing.T) {
	for _, alg := range []cryptoDomain.Algorithm{cryptoDomain.AESGCM, cryptoDomain.ChaCha20} {
		t.Run(string(alg), func(t *testing.T) {
			svc := newTestEncryptionService(alg)

			plaintext := []byte(`{"customer":"acme","amount":1299}`)
			ciphertext, err := svc.Encrypt("tenant-1", testSalt(1), plaintext)
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(ciphertext, "v1:"))

			decrypted, err := svc.Decrypt("tenant-1", testSalt(1), ciphertext)
			require.NoError(t, err)
			assert.Equal(t, plaintext, decrypted)
		})
	}
}

func TestEncryptionService_EmptyFastPaths(t *testing.T) {
	svc := newTestEncryptionService(cryptoDomain.AESGCM)

	ciphertext, err := svc.Encrypt("tenant-1", testSalt(1), nil)
	require.NoError(t, err)
	assert.Empty(t, ciphertext)

	plaintext, err := svc.Decrypt("tenant-1", testSalt(1), "")
	require.NoError(t, err)
	assert.Nil(t, plaintext)
}

func TestEncryptionService_TenantIsolation(t *testing.T) {
	svc := newTestEncryptionService(cryptoDomain.AESGCM)

	ciphertext, err := svc.Encrypt("tenant-1", testSalt(1), []byte("tenant-1 data"))
	require.NoError(t, err)

	// A different tenant, even reusing the same salt bytes, must fail loudly
	// with the corruption sentinel - never decrypt to garbage-but-valid data.
	_, err = svc.Decrypt("tenant-2", testSalt(1), ciphertext)
	assert.ErrorIs(t, err, cryptoDomain.ErrDataCorruption)

	// Same tenant under a different salt also fails authentication.
	_, err = svc.Decrypt("tenant-1", testSalt(2), ciphertext)
	assert.ErrorIs(t, err, cryptoDomain.ErrDataCorruption)
}

func TestEncryptionService_TamperDetection(t *testing.T) {
	svc := newTestEncryptionService(cryptoDomain.AESGCM)

	ciphertext, err := svc.Encrypt("tenant-1", testSalt(1), []byte("sensitive payload"))
	require.NoError(t, err)

	blob, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(ciphertext, "v1:"))
	require.NoError(t, err)

	// Flip one bit anywhere in the envelope; decryption must fail with the
	// corruption sentinel rather than return a silently wrong plaintext.
	for _, idx := range []int{0, len(blob) / 2, len(blob) - 1} {
		tampered := make([]byte, len(blob))
		copy(tampered, blob)
		tampered[idx] ^= 0x01

		_, err := svc.Decrypt("tenant-1", testSalt(1), "v1:"+base64.StdEncoding.EncodeToString(tampered))
		assert.ErrorIs(t, err, cryptoDomain.ErrDataCorruption, "bit flip at index %d", idx)
	}
}

func TestEncryptionService_MalformedEnvelope(t *testing.T) {
	svc := newTestEncryptionService(cryptoDomain.AESGCM)

	tests := []struct {
		name       string
		ciphertext string
	}{
		{"missing prefix", base64.StdEncoding.EncodeToString([]byte("no prefix here"))},
		{"bad base64", "v1:!!!not-base64!!!"},
		{"truncated blob", "v1:" + base64.StdEncoding.EncodeToString([]byte("short"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Decrypt("tenant-1", testSalt(1), tt.ciphertext)
			// Envelope problems are generic failures, not corruption triggers.
			assert.ErrorIs(t, err, cryptoDomain.ErrEncryptionFailed)
			assert.NotErrorIs(t, err, cryptoDomain.ErrDataCorruption)
		})
	}
}

func TestEncryptionService_Structured(t *testing.T) {
	svc := newTestEncryptionService(cryptoDomain.AESGCM)

	type invoice struct {
		Number string  `json:"number"`
		Total  float64 `json:"total"`
	}

	ciphertext, err := svc.EncryptStructured("tenant-1", testSalt(1), invoice{Number: "INV-42", Total: 99.5})
	require.NoError(t, err)

	var out invoice
	require.NoError(t, svc.DecryptStructured("tenant-1", testSalt(1), ciphertext, &out))
	assert.Equal(t, "INV-42", out.Number)
	assert.Equal(t, 99.5, out.Total)

	t.Run("non-json payload is corruption", func(t *testing.T) {
		raw, err := svc.Encrypt("tenant-1", testSalt(1), []byte("not json"))
		require.NoError(t, err)

		var out invoice
		err = svc.DecryptStructured("tenant-1", testSalt(1), raw, &out)
		assert.ErrorIs(t, err, cryptoDomain.ErrDataCorruption)
	})
}

func TestEncryptionService_RotateKey(t *testing.T) {
	svc := newTestEncryptionService(cryptoDomain.AESGCM)
	plaintext := []byte("long-lived record")

	original, err := svc.Encrypt("tenant-1", testSalt(1), plaintext)
	require.NoError(t, err)

	rotated, err := svc.RotateKey("tenant-1", testSalt(1), testSalt(2), original)
	require.NoError(t, err)
	assert.NotEqual(t, original, rotated)

	// Rotation preserves meaning under the new salt.
	decrypted, err := svc.Decrypt("tenant-1", testSalt(2), rotated)
	require.NoError(t, err)
	assert.Equal(t, plaintext, decrypted)

	// The rotated ciphertext is not valid under the old salt.
	_, err = svc.Decrypt("tenant-1", testSalt(1), rotated)
	assert.ErrorIs(t, err, cryptoDomain.ErrDataCorruption)
}

func TestEncryptionService_VerifyIntegrity(t *testing.T) {
	svc := newTestEncryptionService(cryptoDomain.AESGCM)

	ciphertext, err := svc.Encrypt("tenant-1", testSalt(1), []byte("payload"))
	require.NoError(t, err)

	t.Run("intact", func(t *testing.T) {
		ok, err := svc.VerifyIntegrity("tenant-1", testSalt(1), ciphertext)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("corrupted swallowed into false", func(t *testing.T) {
		ok, err := svc.VerifyIntegrity("tenant-2", testSalt(1), ciphertext)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("non-corruption errors re-raised", func(t *testing.T) {
		_, err := svc.VerifyIntegrity("tenant-1", testSalt(1), "v1:!!!bad!!!")
		assert.ErrorIs(t, err, cryptoDomain.ErrEncryptionFailed)
	})
}
