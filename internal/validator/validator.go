package validator

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// New creates a validator with the custom rules used by the request DTOs.
func New() *validator.Validate {
	v := validator.New()

	// notblank rejects whitespace-only strings such as a name of "   ".
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		str, ok := fl.Field().Interface().(string)
		if !ok {
			return true
		}
		return strings.TrimSpace(str) != ""
	})

	// currency accepts a three-letter ISO 4217 style code in either case.
	_ = v.RegisterValidation("currency", func(fl validator.FieldLevel) bool {
		str, ok := fl.Field().Interface().(string)
		if !ok {
			return true
		}
		if len(str) != 3 {
			return false
		}
		for _, r := range str {
			if (r < 'A' || r > 'Z') && (r < 'a' || r > 'z') {
				return false
			}
		}
		return true
	})

	return v
}
