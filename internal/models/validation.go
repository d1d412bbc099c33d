package models

import (
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/formrelay/formrelay-api/pkg/errors"
)

var validate = validator.New()

// Known fake, test, and disposable domains rejected outright.
var rejectedDomains = map[string]bool{
	"inspectgmail.com": true,
	"example.com":      true,
	"test.com":         true,
	"fake.com":         true,
	"invalid.com":      true,
	"testemail.com":    true,
	"dummy.com":        true,
	"sample.com":       true,
	"mailinator.com":   true,
	"10minutemail.com": true,
	"tempmail.com":     true,
	"throwaway.email":  true,
}

// Validate checks the submission's single schema requirement: a present,
// well-formed email on a real-looking domain. All other fields pass
// through untouched.
func (s Submission) Validate() error {
	return ValidateEmailAddress(s.Email())
}

// ValidateEmailAddress applies format validation plus a disposable-domain
// rejection list. The returned error always wraps ErrValidation and names
// the email field.
func ValidateEmailAddress(email string) error {
	if email == "" {
		return apperrors.ValidationError("email", "Email is required")
	}

	if err := validate.Var(email, "required,email"); err != nil {
		return apperrors.ValidationError("email", "Please provide a valid email address (e.g., user@gmail.com)")
	}

	at := strings.LastIndex(email, "@")
	domain := strings.ToLower(email[at+1:])

	if rejectedDomains[domain] {
		return apperrors.ValidationError("email", "Invalid email domain. Please use a valid email address (e.g., gmail.com, yahoo.com, outlook.com)")
	}

	// Domain must carry a TLD of at least two characters and no stray dots.
	parts := strings.Split(domain, ".")
	if len(parts) < 2 || len(parts[len(parts)-1]) < 2 ||
		strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") || strings.Contains(domain, "..") {
		return apperrors.ValidationError("email", "Please provide a valid email address (e.g., user@gmail.com)")
	}

	return nil
}
