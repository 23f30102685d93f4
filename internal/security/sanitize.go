package security

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strictPolicy = bluemonday.StrictPolicy()

// SanitizeInput strips all markup from untrusted input and escapes
// HTML-significant characters in the remaining text. Applied to every
// string field before it reaches validation or storage.
func SanitizeInput(s string) string {
	return strictPolicy.Sanitize(strings.TrimSpace(s))
}
