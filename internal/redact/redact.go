// Package redact scrubs sensitive values from strings before they reach the
// logs. Error chains in this service can carry database DSNs (config and pgx
// errors), member emails (lookup failures), credentials from rejected auth
// payloads, raw SQL from failed queries and filesystem paths from migration
// errors; none of those belong in log output.
package redact

import "regexp"

// rule pairs a pattern with the placeholder that replaces its matches.
type rule struct {
	re          *regexp.Regexp
	placeholder string
}

// Rules are applied in order; earlier rules see the raw input, later rules
// see prior replacements. Connection strings go first so their embedded
// passwords and hosts never reach the narrower patterns.
var rules = []rule{
	{regexp.MustCompile(`(?i)(postgresql|postgres|mysql)://[^@\s]+@[^\s]+`), "[REDACTED_DSN]"},
	{regexp.MustCompile(`eyJ[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+`), "[REDACTED_TOKEN]"},
	{regexp.MustCompile(`(?i)(jwt_secret|secret|api[_-]?key|token)['"\s:=]+[A-Za-z0-9_\-.~+/]{8,}`), "[REDACTED_KEY]"},
	{regexp.MustCompile(`(?i)(password|passwd|pwd)['"]?\s*[=:]\s*['"]?\S+`), "[REDACTED_CREDENTIAL]"},
	{regexp.MustCompile(`\b[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}\b`), "[REDACTED_ID]"},
	{regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`), "[REDACTED_EMAIL]"},
	{regexp.MustCompile(`(?i)\b(SELECT|INSERT|UPDATE|DELETE)\b[^;]*\b(FROM|INTO|SET)\b[^;]*`), "[REDACTED_SQL]"},
	{regexp.MustCompile(`(/[\w.-]+){2,}`), "[REDACTED_PATH]"},
}

// String redacts sensitive values from the input string.
func String(input string) string {
	if input == "" {
		return input
	}

	result := input
	for _, r := range rules {
		result = r.re.ReplaceAllString(result, r.placeholder)
	}
	return result
}

// Error redacts sensitive values from an error's Error() output.
// A nil error yields the empty string.
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}
