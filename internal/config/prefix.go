package config

import (
	"strings"
)

// NormalizePrefix reduces a configured log prefix to clean "a/b" form:
// separators collapsed, no leading or trailing slash, backslashes treated
// as separators. A prefix of only separators normalizes to "".
func NormalizePrefix(prefix string) string {
	segments := strings.FieldsFunc(prefix, func(r rune) bool {
		return r == '/' || r == '\\'
	})
	return strings.Join(segments, "/")
}
