package normalize

import (
	"strings"
	"unicode"

	"github.com/mozillazg/go-unidecode"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// explicitMap holds the Vietnamese letters that do not decompose under
// Unicode NFD (đ/Đ have no combining-mark form to strip), grounded on
// original_source/src/utils/text_utils.py's VIETNAMESE_MAP. The original
// accents.go used NFD+Mn-removal alone, which silently leaves "đ" in place;
// this map is applied first so the two strategies agree on every letter.
var explicitMap = map[rune]rune{
	'đ': 'd',
	'Đ': 'D',
}

func isMn(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}

// StripDiacritics removes Vietnamese diacritics via NFD decomposition and
// combining-mark removal (the original approach), preceded by the
// explicit map for letters NFD cannot decompose.
func StripDiacritics(s string) string {
	s = applyExplicitMap(s)
	t := transform.Chain(norm.NFD, transform.RemoveFunc(isMn), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return unidecodeFallback(s)
	}
	return out
}

func applyExplicitMap(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if repl, ok := explicitMap[r]; ok {
			b.WriteRune(repl)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// unidecodeFallback transliterates the whole string with unidecode. It runs
// only when the NFD transform returns an error; runes that merely do not
// decompose under NFD pass through StripDiacritics unchanged.
func unidecodeFallback(s string) string {
	return unidecode.Unidecode(s)
}

// RemoveAccentsAndLowercase strips diacritics and lowercases.
func RemoveAccentsAndLowercase(s string) string {
	return strings.ToLower(StripDiacritics(s))
}
