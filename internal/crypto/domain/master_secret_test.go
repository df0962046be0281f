package domain

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// staticUnwrapper returns a fixed plaintext for any ciphertext.
type staticUnwrapper struct {
	plaintext []byte
	err       error
}

func (s *staticUnwrapper) Decrypt(_ context.Context, _ []byte) ([]byte, error) {
	return s.plaintext, s.err
}

func TestNewMasterSecret(t *testing.T) {
	t.Run("valid secret", func(t *testing.T) {
		secret := make([]byte, 32)
		ms, err := NewMasterSecret(secret)
		require.NoError(t, err)
		assert.Len(t, ms.Bytes(), 32)
	})

	t.Run("too short", func(t *testing.T) {
		_, err := NewMasterSecret(make([]byte, 16))
		assert.ErrorIs(t, err, ErrInvalidMasterSecretSize)
	})
}

func TestMasterSecret_Close(t *testing.T) {
	secret := []byte("0123456789abcdef0123456789abcdef")
	ms, err := NewMasterSecret(secret)
	require.NoError(t, err)

	ms.Close()

	assert.Nil(t, ms.Bytes())
	// The original buffer must be wiped, not just dereferenced.
	for _, b := range secret {
		assert.Zero(t, b)
	}
}

func TestLoadMasterSecretFromEnv(t *testing.T) {
	ctx := context.Background()

	t.Run("not set", func(t *testing.T) {
		t.Setenv("MASTER_SECRET", "")
		_, err := LoadMasterSecretFromEnv(ctx, nil)
		assert.ErrorIs(t, err, ErrMasterSecretNotSet)
	})

	t.Run("invalid base64", func(t *testing.T) {
		t.Setenv("MASTER_SECRET", "not-base64!!!")
		_, err := LoadMasterSecretFromEnv(ctx, nil)
		assert.ErrorIs(t, err, ErrInvalidMasterSecretBase64)
	})

	t.Run("too short after decode", func(t *testing.T) {
		t.Setenv("MASTER_SECRET", base64.StdEncoding.EncodeToString(make([]byte, 8)))
		_, err := LoadMasterSecretFromEnv(ctx, nil)
		assert.ErrorIs(t, err, ErrInvalidMasterSecretSize)
	})

	t.Run("direct secret", func(t *testing.T) {
		raw := []byte("0123456789abcdef0123456789abcdef")
		t.Setenv("MASTER_SECRET", base64.StdEncoding.EncodeToString(raw))

		ms, err := LoadMasterSecretFromEnv(ctx, nil)
		require.NoError(t, err)
		defer ms.Close()

		assert.Equal(t, raw, ms.Bytes())
	})

	t.Run("kms wrapped secret", func(t *testing.T) {
		unwrapped := []byte("fedcba9876543210fedcba9876543210")
		t.Setenv("MASTER_SECRET", base64.StdEncoding.EncodeToString([]byte("wrapped-ciphertext-bytes")))

		ms, err := LoadMasterSecretFromEnv(ctx, &staticUnwrapper{plaintext: unwrapped})
		require.NoError(t, err)
		defer ms.Close()

		assert.Equal(t, unwrapped, ms.Bytes())
	})

	t.Run("kms unwrap failure", func(t *testing.T) {
		t.Setenv("MASTER_SECRET", base64.StdEncoding.EncodeToString([]byte("wrapped-ciphertext-bytes")))

		_, err := LoadMasterSecretFromEnv(ctx, &staticUnwrapper{err: errors.New("kms unavailable")})
		assert.Error(t, err)
	})
}
