package utils

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	nonHandleChars = regexp.MustCompile(`[^a-z0-9_]+`)
	repeatedUnders = regexp.MustCompile(`_+`)
)

// RemoveDiacritics folds accented letters to ASCII ("Zoë" -> "Zoe").
func RemoveDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// GenerateHandle turns a display name into a username candidate:
// lowercase ASCII, digits and underscores, at most maxLen runes.
func GenerateHandle(input string, maxLen int) string {
	h := strings.ToLower(RemoveDiacritics(input))
	h = strings.ReplaceAll(h, " ", "_")
	h = nonHandleChars.ReplaceAllString(h, "")
	h = repeatedUnders.ReplaceAllString(h, "_")
	h = strings.Trim(h, "_")

	if maxLen > 0 && len(h) > maxLen {
		h = strings.TrimRight(h[:maxLen], "_")
	}
	return h
}
