package authcore

import "strings"

// Fallback shown for any provider failure that matches no redaction rule.
const genericErrorMessage = "Something went wrong. Please try again."

// redactionRule maps a known provider error phrase to its user-safe
// replacement. Matching is case-insensitive substring containment.
type redactionRule struct {
	contains string
	message  string
}

// Rules are checked in order and the first match wins. Current phrases do
// not overlap, but the fixed order keeps the table deterministic if they
// ever do.
var redactionRules = []redactionRule{
	{contains: "invalid login credentials", message: "Invalid email or password"},
	{contains: "user already registered", message: "An account with this email already exists"},
	{contains: "password should be at least", message: "Password does not meet security requirements"},
	{contains: "invalid email", message: "Please enter a valid email address"},
}

// SecureErrorMessage translates a provider error into one of a fixed set of
// user-safe messages. Internal error detail never reaches the UI; callers
// that need the original for logging keep the error value itself.
func SecureErrorMessage(err error) string {
	if err == nil {
		return genericErrorMessage
	}

	message := strings.ToLower(err.Error())
	for _, rule := range redactionRules {
		if strings.Contains(message, rule.contains) {
			return rule.message
		}
	}
	return genericErrorMessage
}

// ProviderError wraps a provider failure for display: Error returns the
// redacted message while Unwrap preserves the original cause for logs and
// errors.Is matching.
type ProviderError struct {
	Message string
	cause   error
}

func newProviderError(cause error) *ProviderError {
	return &ProviderError{
		Message: SecureErrorMessage(cause),
		cause:   cause,
	}
}

// Error describes the error operation and its observable behavior.
func (e *ProviderError) Error() string {
	return e.Message
}

// Unwrap describes the unwrap operation and its observable behavior.
func (e *ProviderError) Unwrap() error {
	return e.cause
}
