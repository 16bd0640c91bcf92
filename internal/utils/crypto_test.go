// internal/utils/crypto_test.go
package utils

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentHashHex(t *testing.T) {
	// sha256("hello"), cross-checked with sha256sum
	hash := ContentHashHex([]byte("hello"))
	assert.Equal(t, "0x2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824", hash)
	assert.Len(t, hash, 66)

	assert.Equal(t, hash, ContentHash([]byte("hello")).Hex())
}

func TestValidateFileHash(t *testing.T) {
	data := []byte("some uploaded work")
	assert.True(t, ValidateFileHash(data, ContentHashHex(data)))
	assert.False(t, ValidateFileHash(data, ContentHashHex([]byte("other"))))
}

func TestGenerateLoginNonce(t *testing.T) {
	first, err := GenerateLoginNonce()
	require.NoError(t, err)
	second, err := GenerateLoginNonce()
	require.NoError(t, err)

	assert.Len(t, first, 32)
	assert.NotEqual(t, first, second)
}

func TestParseAddress(t *testing.T) {
	addr, err := ParseAddress("0x000000000000000000000000000000000000dEaD")
	require.NoError(t, err)
	assert.Equal(t, "0x000000000000000000000000000000000000dEaD", addr.Hex())

	_, err = ParseAddress("not-an-address")
	assert.Error(t, err)
	_, err = ParseAddress("0x1234")
	assert.Error(t, err)
}

func TestParseWei(t *testing.T) {
	v, err := ParseWei("1000000000000000000")
	require.NoError(t, err)
	assert.Equal(t, "1000000000000000000", v.String())

	v, err = ParseWei("0")
	require.NoError(t, err)
	assert.Equal(t, int64(0), v.Int64())

	for _, bad := range []string{"", "-1", "1.5", "0x10", "one"} {
		_, err := ParseWei(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestFormatWei(t *testing.T) {
	assert.Equal(t, "0", FormatWei(nil))
	assert.Equal(t, "250", FormatWei(big.NewInt(250)))
}
