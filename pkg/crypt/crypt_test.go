package crypt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/travlrgetaways/travlr/pkg/crypt"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	plain := "the quick brown fox"

	sealed, err := crypt.Encrypt(plain)
	require.NoError(t, err)
	assert.NotEqual(t, plain, sealed)

	got, err := crypt.Decrypt(sealed)
	require.NoError(t, err)
	assert.Equal(t, plain, got)
}

func TestEncryptIsNonDeterministic(t *testing.T) {
	a, err := crypt.Encrypt("same input")
	require.NoError(t, err)
	b, err := crypt.Encrypt("same input")
	require.NoError(t, err)

	assert.NotEqual(t, a, b, "a fresh nonce must make every ciphertext unique")
}

func TestDecryptRejectsTampering(t *testing.T) {
	sealed, err := crypt.Encrypt("payload")
	require.NoError(t, err)

	mutated := []byte(sealed)
	mutated[len(mutated)-1] ^= 1

	_, err = crypt.Decrypt(string(mutated))
	assert.ErrorIs(t, err, crypt.ErrDecrypt)
}

func TestDecryptRejectsGarbage(t *testing.T) {
	_, err := crypt.Decrypt("not base64 at all!!!")
	assert.Error(t, err)
}

func TestEncryptJSONRoundTrip(t *testing.T) {
	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	sealed, err := crypt.EncryptJSON(payload{Name: "cart", Count: 3})
	require.NoError(t, err)

	var got payload
	require.NoError(t, crypt.DecryptJSON(sealed, &got))
	assert.Equal(t, payload{Name: "cart", Count: 3}, got)
}
