package naming

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// fold returns s decomposed with combining marks removed, so "Café"
// becomes "Cafe". On a transform failure s is returned unchanged.
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Slug lowercases s and joins its ASCII letter and digit runs with single
// hyphens. It returns "" when nothing survives.
// Example: "Orders / Created!" -> "orders-created"
// Example: "Événements" -> "evenements"
func Slug(s string) string {
	var b strings.Builder
	pendingHyphen := false
	for _, r := range strings.ToLower(fold(s)) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}
	return b.String()
}

// ToTitleCase upper-cases the first letter of every word.
// Example: "publish" -> "Publish"
func ToTitleCase(s string) string {
	if s == "" {
		return ""
	}
	return cases.Title(language.Und, cases.NoLower).String(s)
}
