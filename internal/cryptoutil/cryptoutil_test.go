package cryptoutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey() []byte {
	key := make([]byte, 32)
	for i := range key {
		key[i] = byte(i)
	}
	return key
}

func TestAESGCMEncryptor_RoundTrip(t *testing.T) {
	enc, err := NewAESGCMEncryptor(testKey())
	require.NoError(t, err)

	sealed, err := enc.Encrypt("refresh-token-value")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(sealed, "v1:"))
	assert.NotContains(t, sealed, "refresh-token-value")

	again, err := enc.Encrypt("refresh-token-value")
	require.NoError(t, err)
	assert.NotEqual(t, sealed, again, "nonce is random")

	opened, err := enc.Decrypt(sealed)
	require.NoError(t, err)
	assert.Equal(t, "refresh-token-value", opened)
}

func TestAESGCMEncryptor_AcceptsPlainValues(t *testing.T) {
	enc, err := NewAESGCMEncryptor(testKey())
	require.NoError(t, err)

	plain, err := PlainEncryptor{}.Encrypt("legacy")
	require.NoError(t, err)

	opened, err := enc.Decrypt(plain)
	require.NoError(t, err)
	assert.Equal(t, "legacy", opened)
}

func TestAESGCMEncryptor_Rejects(t *testing.T) {
	enc, err := NewAESGCMEncryptor(testKey())
	require.NoError(t, err)

	_, err = enc.Decrypt("raw-token")
	require.ErrorIs(t, err, ErrUnknownCiphertext)

	_, err = enc.Decrypt("v1:AAAA")
	require.Error(t, err)

	other, err := NewEncryptorFromKey("another passphrase")
	require.NoError(t, err)
	sealed, err := other.Encrypt("x")
	require.NoError(t, err)
	_, err = enc.Decrypt(sealed)
	require.Error(t, err, "wrong key fails authentication")
}

func TestNewEncryptorFromKey(t *testing.T) {
	_, err := NewEncryptorFromKey("  ")
	require.Error(t, err)

	hexKey := strings.Repeat("ab", 32)
	a, err := NewEncryptorFromKey(hexKey)
	require.NoError(t, err)
	b, err := NewAESGCMEncryptor([]byte(strings.Repeat("\xab", 32)))
	require.NoError(t, err)

	sealed, err := a.Encrypt("same key")
	require.NoError(t, err)
	opened, err := b.Decrypt(sealed)
	require.NoError(t, err)
	assert.Equal(t, "same key", opened)

	p1, err := NewEncryptorFromKey("correct horse battery staple")
	require.NoError(t, err)
	p2, err := NewEncryptorFromKey("correct horse battery staple")
	require.NoError(t, err)
	sealed, err = p1.Encrypt("derived")
	require.NoError(t, err)
	opened, err = p2.Decrypt(sealed)
	require.NoError(t, err, "passphrase derivation is deterministic")
	assert.Equal(t, "derived", opened)

	_, err = NewAESGCMEncryptor([]byte("short"))
	require.Error(t, err)
}

func TestPlainEncryptor(t *testing.T) {
	v, err := PlainEncryptor{}.Encrypt("abc")
	require.NoError(t, err)
	assert.Equal(t, "plain:YWJj", v)

	_, err = PlainEncryptor{}.Decrypt("v1:abc")
	require.ErrorIs(t, err, ErrUnknownCiphertext)
}
