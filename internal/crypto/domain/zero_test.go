package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestZero(t *testing.T) {
	t.Run("zero derived key material", func(t *testing.T) {
		key := []byte{0xde, 0xad, 0xbe, 0xef, 0x42}
		Zero(key)
		for _, v := range key {
			assert.Equal(t, byte(0), v)
		}
	})

	t.Run("zero empty slice", func(t *testing.T) {
		b := []byte{}
		Zero(b)
		assert.Equal(t, 0, len(b))
	})

	t.Run("zero nil slice", func(t *testing.T) {
		var b []byte
		assert.NotPanics(t, func() { Zero(b) })
	})

	t.Run("zero key-sized slice", func(t *testing.T) {
		b := make([]byte, KeySize)
		for i := range b {
			b[i] = byte(i + 1)
		}
		Zero(b)
		for _, v := range b {
			assert.Equal(t, byte(0), v)
		}
	})
}
