package validate

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Rune ceilings per free-text field. They bound downstream storage and
// display size; model output has no length discipline of its own.
const (
	maxJustificationRunes = 600
	maxImprovementRunes   = 400
)

// tagPolicy strips every HTML element; only text nodes survive.
var tagPolicy = bluemonday.StrictPolicy()

// sanitizeText decodes escaped markup, strips embedded tags, collapses
// surrounding whitespace, and caps the text at maxRunes.
func sanitizeText(s string, maxRunes int) string {
	if s == "" {
		return ""
	}
	// First pass decodes entity-escaped markup (&lt;b&gt;) into real tags so
	// the policy can see them; the second decodes entities the sanitizer
	// re-escaped, leaving plain text.
	s = html.UnescapeString(s)
	s = tagPolicy.Sanitize(s)
	s = html.UnescapeString(s)
	s = strings.TrimSpace(s)

	runes := []rune(s)
	if len(runes) > maxRunes {
		s = string(runes[:maxRunes])
	}
	return s
}
