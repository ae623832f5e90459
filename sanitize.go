package authcore

import "strings"

// SanitizeInput removes every '<' and '>' character and trims surrounding
// whitespace. It is a minimal injection-character filter applied to each
// field before submission to the identity provider, not an HTML sanitizer.
//
// Stripping happens before trimming so whitespace exposed by a removed
// bracket is also trimmed; this makes the function idempotent.
func SanitizeInput(input string) string {
	stripped := strings.Map(func(r rune) rune {
		if r == '<' || r == '>' {
			return -1
		}
		return r
	}, input)
	return strings.TrimSpace(stripped)
}
