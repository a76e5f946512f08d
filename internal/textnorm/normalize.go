// Package textnorm builds canonical keys for fuzzy matching of free-text names.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// đ has no canonical decomposition, so it survives mark stripping.
var strokeReplacer = strings.NewReplacer("đ", "d", "Đ", "d")

// Normalize folds s into a join key: diacritics stripped, lowercased, every
// non-alphanumeric run collapsed to one space, trimmed. Blank input yields "".
// The result is never shown to users.
func Normalize(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	// transform.Chain keeps state, so build one per call.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	folded = strokeReplacer.Replace(folded)

	var b strings.Builder
	b.Grow(len(folded))
	pendingSpace := false
	for _, r := range folded {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingSpace && b.Len() > 0 {
				b.WriteByte(' ')
			}
			pendingSpace = false
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		pendingSpace = true
	}
	return b.String()
}

// Contains reports whether needle occurs in haystack after both are normalized.
// An empty needle never matches.
func Contains(haystack, needle string) bool {
	n := Normalize(needle)
	if n == "" {
		return false
	}
	return strings.Contains(Normalize(haystack), n)
}
