// Package validation owns the validator rules shared by request binding and
// the stored-document checks that run after an update is merged.
package validation

import (
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// EmailTag is the rule name used by every entity that carries an email.
const EmailTag = "emailaddr"

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var (
	once     sync.Once
	validate *validator.Validate
)

func init() {
	// gin's binding engine validates the `binding` tags on request structs
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		register(v)
	}
}

func register(v *validator.Validate) {
	_ = v.RegisterValidation(EmailTag, func(fl validator.FieldLevel) bool {
		return IsEmail(fl.Field().String())
	})
}

func IsEmail(s string) bool {
	return emailPattern.MatchString(strings.TrimSpace(s))
}

// NormalizeEmail trims and lowercases an address before it is stored.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Struct validates the `validate` tags of a stored document.
func Struct(v any) error {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		register(validate)
	})
	return validate.Struct(v)
}
