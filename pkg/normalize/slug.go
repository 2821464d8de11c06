package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const slugMaxLen = 80

var (
	deaccent   = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	nonAlnumRe = regexp.MustCompile(`[^a-z0-9]+`)
)

// Slug derives a URL-safe identifier from a title: lowercased, diacritics
// stripped, non-alphanumeric runs collapsed to single hyphens, trimmed and
// length-capped. Derived once from the original title; global uniqueness is
// someone else's problem.
func Slug(title string) string {
	s, _, err := transform.String(deaccent, strings.ToLower(title))
	if err != nil {
		s = strings.ToLower(title)
	}
	s = nonAlnumRe.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if len(s) > slugMaxLen {
		s = s[:slugMaxLen]
		// Avoid ending mid-word when there is a hyphen to cut at.
		if i := strings.LastIndex(s, "-"); i > 0 {
			s = s[:i]
		}
		s = strings.Trim(s, "-")
	}
	return s
}
