// Package redact provides utilities for scrubbing sensitive information
// from strings before they are logged. Error text can embed connection
// strings, tokens, or file paths; everything that leaves the handler
// boundary as a log line goes through here first.
package redact

import "regexp"

// Redaction placeholders
const (
	CredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	KeyPlaceholder        = "[REDACTED_KEY]"
	PathPlaceholder       = "[REDACTED_PATH]"
)

// Precompiled patterns. Order matters: connection strings are matched
// before the generic path pattern so the whole URL is scrubbed at once.
var rules = []struct {
	pattern     *regexp.Regexp
	placeholder string
}{
	// Database connection strings with inline credentials
	{regexp.MustCompile(`(?i)(postgres|postgresql|mysql)://[^@\s]+@[^\s]+`), CredentialPlaceholder},

	// password=..., secret: ... style fragments
	{regexp.MustCompile(`(?i)(password|passwd|secret|token)([=:]\s*)\S+`), CredentialPlaceholder},

	// JWTs: three dot-separated base64url segments starting with eyJ
	{regexp.MustCompile(`eyJ[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+`), "[REDACTED_JWT]"},

	// API keys and similar long opaque values after a key-ish label
	{regexp.MustCompile(`(?i)(api[_-]?key|auth)(['"\s:=]+)[A-Za-z0-9_\-.~+/]{8,}`), KeyPlaceholder},

	// Absolute file paths
	{regexp.MustCompile(`(/[\w.-]+){3,}`), PathPlaceholder},

	// Email addresses
	{regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`), "[REDACTED_EMAIL]"},
}

// String redacts sensitive information from the input string.
func String(input string) string {
	if input == "" {
		return input
	}

	result := input
	for _, rule := range rules {
		result = rule.pattern.ReplaceAllString(result, rule.placeholder)
	}
	return result
}

// Error redacts sensitive information from an error's Error() output.
// Returns the empty string for a nil error.
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}
