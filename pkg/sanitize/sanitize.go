package sanitize

import (
	"regexp"
	"strings"
)

var (
	scriptBlockRe = regexp.MustCompile(`(?is)<script\b[^>]*>.*?</script\s*>`)
	scriptTagRe   = regexp.MustCompile(`(?i)</?script\b[^>]*>`)
)

// Clean trims surrounding whitespace and removes script tag sequences from
// user supplied text. Applied to every free-text field before persistence.
func Clean(s string) string {
	s = scriptBlockRe.ReplaceAllString(s, "")
	s = scriptTagRe.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// CleanPtr cleans the pointed-to string in place, tolerating nil. The same
// pointer comes back so optional fields can be cleaned on assignment.
func CleanPtr(s *string) *string {
	if s == nil {
		return nil
	}
	*s = Clean(*s)
	return s
}
