package validation

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Regex patterns
var (
	// Permissive mobile phone: optional +, digits with common separators, 7-15 digits total
	phoneRegex = regexp.MustCompile(`^\+?[0-9][0-9 ().-]{5,18}[0-9]$`)

	digitRegex = regexp.MustCompile(`[0-9]`)
)

// RegisterValidators registers custom validators to the validator instance
func RegisterValidators(v *validator.Validate) {
	_ = v.RegisterValidation("valid_phone", ValidPhone)
}

// ValidPhone validates a phone number structure. Deliberately permissive
// across locales: it checks shape and digit count, not carrier reality.
func ValidPhone(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	if val == "" {
		return true // pair with required
	}
	if !phoneRegex.MatchString(val) {
		return false
	}
	digits := len(digitRegex.FindAllString(val, -1))
	return digits >= 7 && digits <= 15
}

// NormalizeEmail returns the canonical form of an email address:
// trimmed and lowercased so the mailbox sees one spelling per sender.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
