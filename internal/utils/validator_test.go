// internal/utils/validator_test.go
package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type validatedRequest struct {
	Address     string `validate:"required,eth_address"`
	ContentHash string `validate:"required,content_hash"`
	PriceWei    string `validate:"required,wei"`
}

func validRequest() validatedRequest {
	return validatedRequest{
		Address:     "0x0000000000000000000000000000000000000a11",
		ContentHash: "0x2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824",
		PriceWei:    "1000000000000000000",
	}
}

func TestValidateStructAcceptsValidRequest(t *testing.T) {
	req := validRequest()
	assert.NoError(t, ValidateStruct(&req))
}

func TestEthAddressValidator(t *testing.T) {
	for _, bad := range []string{"", "0x1234", "not-an-address", "0xZZ00000000000000000000000000000000000a11"} {
		req := validRequest()
		req.Address = bad
		assert.Error(t, ValidateStruct(&req), "address %q", bad)
	}
}

func TestContentHashValidator(t *testing.T) {
	for _, bad := range []string{"2cf24dba", "0x2cf2", "0xZZf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"} {
		req := validRequest()
		req.ContentHash = bad
		assert.Error(t, ValidateStruct(&req), "hash %q", bad)
	}
}

func TestWeiValidator(t *testing.T) {
	for _, bad := range []string{"-1", "1.5", "1e18", "0x10"} {
		req := validRequest()
		req.PriceWei = bad
		assert.Error(t, ValidateStruct(&req), "wei %q", bad)
	}
}

func TestGetValidationErrors(t *testing.T) {
	req := validatedRequest{}
	err := ValidateStruct(&req)
	require.Error(t, err)

	errs := GetValidationErrors(err)
	require.Len(t, errs, 3)
	assert.Equal(t, "address", errs[0].Field)
	assert.Equal(t, "required", errs[0].Tag)
	assert.Contains(t, errs[0].Message, "required")
}
