// internal/utils/crypto.go
package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

func GenerateRandomString(length int) (string, error) {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	b := make([]byte, length)

	for i := range b {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		b[i] = charset[n.Int64()]
	}

	return string(b), nil
}

// GenerateLoginNonce produces the random challenge a wallet signs to prove
// ownership of its address.
func GenerateLoginNonce() (string, error) {
	return GenerateRandomString(32)
}

// ContentHash computes the 0x-prefixed sha-256 digest used as a work's
// on-chain fingerprint.
func ContentHash(data []byte) common.Hash {
	return common.Hash(sha256.Sum256(data))
}

// ContentHashHex is ContentHash rendered as the 66-char string stored in the
// index database.
func ContentHashHex(data []byte) string {
	sum := sha256.Sum256(data)
	return "0x" + hex.EncodeToString(sum[:])
}

func ValidateFileHash(fileData []byte, expectedHash string) bool {
	return ContentHashHex(fileData) == expectedHash
}

// ParseAddress validates and normalizes a 0x-prefixed hex address.
func ParseAddress(s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, errors.New("invalid address")
	}
	return common.HexToAddress(s), nil
}

// ParseWei parses a non-negative base-10 wei amount.
func ParseWei(s string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok || v.Sign() < 0 {
		return nil, errors.New("invalid wei amount")
	}
	return v, nil
}

// FormatWei renders a wei amount as the decimal string stored in numeric
// columns. Nil is treated as zero.
func FormatWei(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}
