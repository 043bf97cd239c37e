package content

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
)

// DefaultMinLength is the shortest body worth sending to the summarizer
const DefaultMinLength = 50

// ErrTooShort is returned when the cleaned text is below the minimum length
var ErrTooShort = errors.New("text too short")

// Cleaner converts feed markup to plain text
type Cleaner struct {
	policy    *bluemonday.Policy
	minLength int
}

// NewCleaner creates a cleaner rejecting texts shorter than minLength runes
func NewCleaner(minLength int) *Cleaner {
	if minLength <= 0 {
		minLength = DefaultMinLength
	}
	policy := bluemonday.StrictPolicy()
	policy.AddSpaceWhenStrippingTag(true)
	return &Cleaner{policy: policy, minLength: minLength}
}

// Clean strips all markup, unescapes entities and collapses whitespace.
// The cleaned text is always returned, the error is ErrTooShort when it is below the floor.
func (c *Cleaner) Clean(raw string) (string, error) {
	text := c.plainText(raw)
	if n := utf8.RuneCountInString(text); n < c.minLength {
		return text, fmt.Errorf("%w: %d < %d", ErrTooShort, n, c.minLength)
	}
	return text, nil
}

// plainText returns the text of raw without any length check
func (c *Cleaner) plainText(raw string) string {
	stripped := c.policy.Sanitize(raw)
	// sanitizer output is escaped html
	return strings.Join(strings.Fields(html.UnescapeString(stripped)), " ")
}
