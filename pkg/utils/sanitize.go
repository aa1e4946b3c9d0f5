package utils

import (
	"html"
	"strings"
)

// SanitizeFields returns a copy of fields in which every value is trimmed and
// HTML-escaped. Callers flatten raw input to strings first so that no value
// reaches a template unescaped.
func SanitizeFields(fields map[string]string) map[string]string {
	out := make(map[string]string, len(fields))
	for k, v := range fields {
		out[k] = SanitizeString(v)
	}
	return out
}

// SanitizeString trims s and escapes <, >, &, ' and ". Re-applying it to
// escaped text double-escapes ampersands, which still displays as the
// original entity.
func SanitizeString(s string) string {
	return html.EscapeString(strings.TrimSpace(s))
}
