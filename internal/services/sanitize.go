package services

import (
	"html"
	"strings"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
)

var textPolicy = bluemonday.StrictPolicy()

// sanitizePasses bounds how many layers of entity encoding are peeled off.
const sanitizePasses = 5

// sanitizeText strips markup from user supplied free text. Entities are
// decoded so the stored text is plain, and the result is sanitized again
// until decoding no longer reveals new markup. Input still changing after
// sanitizePasses keeps its escaped form.
func sanitizeText(s string) string {
	for i := 0; i < sanitizePasses; i++ {
		next := html.UnescapeString(textPolicy.Sanitize(s))
		if next == s {
			return strings.TrimSpace(s)
		}
		s = next
	}
	return strings.TrimSpace(textPolicy.Sanitize(s))
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// phoneMatches compares two phone numbers ignoring formatting and, for
// numbers long enough to carry one, the country or trunk prefix.
func phoneMatches(a, b string) bool {
	da, db := digitsOnly(a), digitsOnly(b)
	if da == "" || db == "" {
		return false
	}
	const significant = 9
	if len(da) < significant || len(db) < significant {
		return da == db
	}
	return da[len(da)-significant:] == db[len(db)-significant:]
}
