// internal/utils/validator.go
package utils

import (
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

var contentHashPattern = regexp.MustCompile("^0x[0-9a-fA-F]{64}$")
var weiPattern = regexp.MustCompile("^[0-9]+$")

func init() {
	validate = validator.New()
	validate.RegisterValidation("eth_address", validateEthAddress)
	validate.RegisterValidation("content_hash", validateContentHash)
	validate.RegisterValidation("wei", validateWei)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

func validateEthAddress(fl validator.FieldLevel) bool {
	return common.IsHexAddress(fl.Field().String())
}

func validateContentHash(fl validator.FieldLevel) bool {
	return contentHashPattern.MatchString(fl.Field().String())
}

func validateWei(fl validator.FieldLevel) bool {
	return weiPattern.MatchString(fl.Field().String())
}

// Validation tags for common fields
type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

func GetValidationErrors(err error) []ValidationError {
	var validationErrors []ValidationError

	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrs {
			validationErrors = append(validationErrors, ValidationError{
				Field:   strings.ToLower(e.Field()),
				Tag:     e.Tag(),
				Message: getValidationMessage(e),
			})
		}
	}

	return validationErrors
}

func getValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "min":
		return e.Field() + " must be at least " + e.Param() + " characters"
	case "max":
		return e.Field() + " must be at most " + e.Param() + " characters"
	case "eth_address":
		return e.Field() + " must be a 0x-prefixed hex address"
	case "content_hash":
		return e.Field() + " must be a 0x-prefixed 32-byte hex digest"
	case "wei":
		return e.Field() + " must be a non-negative integer wei amount"
	default:
		return e.Field() + " is invalid"
	}
}
