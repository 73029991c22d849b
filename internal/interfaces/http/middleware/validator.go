package middleware

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	// Indian postal codes: six digits, no leading zero
	pincodeRegex = regexp.MustCompile(`^[1-9][0-9]{5}$`)
	// E.164-ish phone numbers with optional leading +
	phoneRegex = regexp.MustCompile(`^\+?[0-9]{10,15}$`)
)

// SetupValidator registers custom validation tags with gin's binding
// validator. Safe to call more than once.
func SetupValidator() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	_ = v.RegisterValidation("pincode", func(fl validator.FieldLevel) bool {
		return pincodeRegex.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phoneRegex.MatchString(fl.Field().String())
	})
}
