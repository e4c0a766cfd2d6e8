package loginflow

import (
	"fmt"
	"regexp"
	"strings"
)

// Password length policy: logins accept what the service historically
// allowed, registrations enforce the stricter current policy.
const (
	MinLoginPasswordLength    = 6
	MinRegisterPasswordLength = 8
	SecondFactorCodeLength    = 6
)

// emailPattern checks the local@domain.tld shape. Deliverability is the
// server's problem; this gate only stops obviously malformed input before a
// network call is issued.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidationError is a recoverable, field-level input failure raised before
// any network call. It is surfaced inline and never logged as a fault.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateEmail checks the email shape.
func ValidateEmail(email string) error {
	if !emailPattern.MatchString(strings.TrimSpace(email)) {
		return &ValidationError{Field: "email", Message: "enter a valid email address"}
	}
	return nil
}

// ValidatePassword checks the minimum length for the given policy.
func ValidatePassword(password string, minLength int) error {
	if len(password) < minLength {
		return &ValidationError{
			Field:   "password",
			Message: fmt.Sprintf("password must be at least %d characters", minLength),
		}
	}
	return nil
}

// ValidateRegistration applies the registration gates: email shape and the
// stricter password policy.
func ValidateRegistration(email, password string) error {
	if err := ValidateEmail(email); err != nil {
		return err
	}
	return ValidatePassword(password, MinRegisterPasswordLength)
}

// SanitizeCode strips non-digits and truncates to the second-factor code
// length, mirroring what the reference input mask does as the user types.
// Sanitization is not validation; a short result is caught at submission.
func SanitizeCode(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r < '0' || r > '9' {
			continue
		}
		b.WriteRune(r)
		if b.Len() == SecondFactorCodeLength {
			break
		}
	}
	return b.String()
}
