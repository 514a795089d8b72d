// Package sanitizer cleans user supplied text before it is stored or mailed.
package sanitizer

import (
	"regexp"
	"strings"
)

// Maximum lengths, in characters, for each sanitized field.
const (
	MaxName        = 100
	MaxEmail       = 255
	MaxCompany     = 100
	MaxProjectType = 50
	MaxBudget      = 50
	MaxTimeline    = 50
	MaxMessage     = 2000
	MaxEventType   = 50
)

var (
	tagPattern        = regexp.MustCompile(`<[^>]*>`)
	javascriptPattern = regexp.MustCompile(`(?i)javascript:`)
)

// Text strips markup tags and "javascript:" schemes from s, trims surrounding
// whitespace and truncates the result to max characters. A max of zero or less
// disables truncation.
//
// Removal repeats until neither pattern matches, so stripping one fragment can
// never assemble a new tag or scheme out of the remaining pieces. The result is
// therefore stable: Text(Text(s, n), n) == Text(s, n).
func Text(s string, max int) string {
	if s == "" {
		return ""
	}

	s = StripMarkup(s)
	s = strings.TrimSpace(s)
	s = Truncate(s, max)
	// Truncation may leave whitespace at the new end.
	return strings.TrimSpace(s)
}

// StripMarkup removes every tag and "javascript:" occurrence from s.
func StripMarkup(s string) string {
	for {
		next := tagPattern.ReplaceAllString(s, "")
		next = javascriptPattern.ReplaceAllString(next, "")
		if next == s {
			return s
		}
		s = next
	}
}

// Truncate shortens s to at most max runes.
func Truncate(s string, max int) string {
	if max <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
