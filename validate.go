package authcore

import (
	"regexp"
	"strings"
)

// Validation rule bounds. Message strings are part of the public contract;
// the UI displays them verbatim.
const (
	maxEmailLength    = 254
	minPasswordLength = 8
	maxPasswordLength = 128
	minFullNameLength = 2
	maxFullNameLength = 100
)

var (
	// local@domain.tld: at least one @, a dot after it, no embedded whitespace.
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

	// ASCII letters, whitespace, hyphens, apostrophes. Unicode letters are
	// rejected; the rule set predates internationalized names.
	fullNamePattern = regexp.MustCompile(`^[a-zA-Z\s\-']+$`)

	passwordUpperPattern = regexp.MustCompile(`[A-Z]`)
	passwordLowerPattern = regexp.MustCompile(`[a-z]`)
	passwordDigitPattern = regexp.MustCompile(`[0-9]`)
)

func valid() ValidationResult {
	return ValidationResult{IsValid: true}
}

func invalid(message string) ValidationResult {
	return ValidationResult{IsValid: false, Error: message}
}

// ValidateEmail checks a single email field. Checks run in a fixed order
// and the first failure wins: required, format, length.
func ValidateEmail(email string) ValidationResult {
	trimmed := strings.TrimSpace(email)
	if trimmed == "" {
		return invalid("Email is required")
	}
	if !emailPattern.MatchString(trimmed) {
		return invalid("Please enter a valid email address")
	}
	if len(email) > maxEmailLength {
		return invalid("Email address is too long")
	}
	return valid()
}

// ValidatePassword checks a single password field. Checks run in a fixed
// order and the first failure wins: required, min length, max length,
// uppercase, lowercase, digit. A password violating several rules reports
// only the first.
func ValidatePassword(password string) ValidationResult {
	if password == "" {
		return invalid("Password is required")
	}
	if len(password) < minPasswordLength {
		return invalid("Password must be at least 8 characters long")
	}
	if len(password) > maxPasswordLength {
		return invalid("Password is too long")
	}
	if !passwordUpperPattern.MatchString(password) {
		return invalid("Password must contain at least one uppercase letter")
	}
	if !passwordLowerPattern.MatchString(password) {
		return invalid("Password must contain at least one lowercase letter")
	}
	if !passwordDigitPattern.MatchString(password) {
		return invalid("Password must contain at least one number")
	}
	return valid()
}

// ValidateFullName checks a single full-name field. Internal whitespace
// runs are permitted; the length checks use the trimmed value for the
// minimum and the raw value for the maximum.
func ValidateFullName(fullName string) ValidationResult {
	trimmed := strings.TrimSpace(fullName)
	if trimmed == "" {
		return invalid("Full name is required")
	}
	if len(trimmed) < minFullNameLength {
		return invalid("Full name must be at least 2 characters long")
	}
	if len(fullName) > maxFullNameLength {
		return invalid("Full name is too long")
	}
	if !fullNamePattern.MatchString(trimmed) {
		return invalid("Full name can only contain letters, spaces, hyphens, and apostrophes")
	}
	return valid()
}

// ValidateLoginForm runs the login form kind: email and password. Each
// failed field contributes one entry to Errors under its field name.
func ValidateLoginForm(creds Credentials) FormValidationResult {
	errs := map[string]string{}

	if res := ValidateEmail(creds.Email); !res.IsValid {
		errs["email"] = res.Error
	}
	if res := ValidatePassword(creds.Password); !res.IsValid {
		errs["password"] = res.Error
	}

	return FormValidationResult{
		IsValid: len(errs) == 0,
		Errors:  errs,
	}
}

// ValidateRegisterForm runs the register form kind: email, password, and
// full name. There are no cross-field rules.
func ValidateRegisterForm(creds Credentials) FormValidationResult {
	errs := map[string]string{}

	if res := ValidateEmail(creds.Email); !res.IsValid {
		errs["email"] = res.Error
	}
	if res := ValidatePassword(creds.Password); !res.IsValid {
		errs["password"] = res.Error
	}
	if res := ValidateFullName(creds.FullName); !res.IsValid {
		errs["fullName"] = res.Error
	}

	return FormValidationResult{
		IsValid: len(errs) == 0,
		Errors:  errs,
	}
}
