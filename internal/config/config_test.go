package config

import (
	"crypto/sha256"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSigningKey_ShortSecretIsStretched(t *testing.T) {
	secret := "short-secret"
	key := SigningKey(secret)

	assert.Len(t, key, sha256.Size)
	assert.NotEqual(t, []byte(secret), key)

	// Deterministic: the same secret always derives the same key.
	assert.Equal(t, key, SigningKey(secret))
}

func TestSigningKey_LongSecretUsedAsIs(t *testing.T) {
	secret := "this-secret-is-at-least-thirty-two-bytes-long"
	key := SigningKey(secret)

	assert.Equal(t, []byte(secret), key)
}

func TestSplitOrigins(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want []string
	}{
		{"single", "http://localhost:4200", []string{"http://localhost:4200"}},
		{"multiple with spaces", "http://a.test, http://b.test ,http://c.test", []string{"http://a.test", "http://b.test", "http://c.test"}},
		{"empty entries dropped", ",, http://a.test ,", []string{"http://a.test"}},
		{"blank", "   ", nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, splitOrigins(tc.raw))
		})
	}
}
