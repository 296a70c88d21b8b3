// Package sanitize strips markup from free-text fields before they are stored.
package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

type TextSanitizer interface {
	Clean(text string) string
}

type strictSanitizer struct {
	policy *bluemonday.Policy
}

// NewTextSanitizer returns a sanitizer that removes every HTML element and
// keeps only the text content.
func NewTextSanitizer() TextSanitizer {
	return &strictSanitizer{policy: bluemonday.StrictPolicy()}
}

func (s *strictSanitizer) Clean(text string) string {
	cleaned := s.policy.Sanitize(text)
	// StrictPolicy escapes entities; descriptions are stored as plain text.
	cleaned = html.UnescapeString(cleaned)
	return strings.Join(strings.Fields(cleaned), " ")
}
