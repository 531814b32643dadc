// internal/utils/validator.go
package utils

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/guanl20/Blocktrust/internal/models"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterValidation("ledger_role", validateLedgerRole)
	validate.RegisterValidation("account", validateAccount)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

func validateLedgerRole(fl validator.FieldLevel) bool {
	return models.Role(fl.Field().String()).Valid()
}

// Accounts are opaque identifiers but must be printable and free of
// whitespace so they survive URLs and log lines.
func validateAccount(fl validator.FieldLevel) bool {
	account := fl.Field().String()
	if account == "" {
		return false
	}
	for _, r := range account {
		if r <= ' ' || r == 0x7f {
			return false
		}
	}
	return true
}

// Validation tags for common fields
type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

func GetValidationErrors(err error) []ValidationError {
	var validationErrors []ValidationError

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
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
	case "oneof":
		return e.Field() + " must be one of: " + e.Param()
	case "ledger_role":
		return e.Field() + " must be one of: manufacturer, distributor, retailer, admin"
	case "account":
		return e.Field() + " must not contain whitespace or control characters"
	default:
		return e.Field() + " is invalid"
	}
}
