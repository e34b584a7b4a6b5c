// Package normalize implements the text utilities: Unicode
// normalization, diacritic stripping, abbreviation expansion, prefix
// stripping, and the delimiter-aware tokenizer used by the Preprocessor.
package normalize

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/text/unicode/norm"
)

var whitespacePattern = regexp.MustCompile(`\s+`)

// NFC applies Unicode canonical composition.
func NFC(s string) string {
	return norm.NFC.String(s)
}

// patternRewrite is a hardcoded abbreviation rewrite applied before any
// database-driven expansion.
type patternRewrite struct {
	pattern *regexp.Regexp
	replace string
}

var hardcodedPatterns = []patternRewrite{
	{regexp.MustCompile(`(?i)\bP\.\s*(\d+)`), "phuong $1"},
	{regexp.MustCompile(`(?i)\bQ\.\s*(\d+)`), "quan $1"},
	{regexp.MustCompile(`(?i)\bTP\.?\s+`), "thanh pho "},
	{regexp.MustCompile(`(?i)\bTX\.?\s+`), "thi xa "},
	{regexp.MustCompile(`(?i)\bP\.\s*`), "phuong "},
	{regexp.MustCompile(`(?i)\bQ\.\s*`), "quan "},
	{regexp.MustCompile(`(?i)\bH\.\s*`), "huyen "},
	{regexp.MustCompile(`(?i)\bX\.\s*`), "xa "},
}

// AbbreviationLookup resolves a single expansion key at the most-specific
// matching scope. Implemented by the Reference Store
// expand_abbreviation).
type AbbreviationLookup func(key string) (word string, ok bool)

// ExpandAbbreviations applies the hardcoded pattern pass, then database
// abbreviations: multi-word keys first (longest first), then single-word
// keys matched at word boundary. lookup may be nil, in which case only the
// hardcoded pass runs ("abbreviation expansion unavailable" degrades
// silently).
func ExpandAbbreviations(s string, keys []string, lookup AbbreviationLookup) string {
	for _, pr := range hardcodedPatterns {
		s = pr.pattern.ReplaceAllString(s, pr.replace)
	}
	if lookup == nil || len(keys) == 0 {
		return s
	}

	multiWord := make([]string, 0, len(keys))
	singleWord := make([]string, 0, len(keys))
	for _, k := range keys {
		if strings.Contains(strings.TrimSpace(k), " ") {
			multiWord = append(multiWord, k)
		} else {
			singleWord = append(singleWord, k)
		}
	}
	sort.Slice(multiWord, func(i, j int) bool { return len(multiWord[i]) > len(multiWord[j]) })

	lower := strings.ToLower(s)
	for _, k := range multiWord {
		word, ok := lookup(k)
		if !ok {
			continue
		}
		lk := strings.ToLower(k)
		if strings.Contains(lower, lk) {
			re := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(k))
			s = re.ReplaceAllString(s, word)
			lower = strings.ToLower(s)
		}
	}
	for _, k := range singleWord {
		word, ok := lookup(k)
		if !ok {
			continue
		}
		re := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(k) + `\b`)
		s = re.ReplaceAllString(s, word)
	}
	return s
}

// FinalizeNormalization replaces {,,-,_} with space, drops remaining
// non-word/space runes, lowercases, and collapses whitespace.
func FinalizeNormalization(s string) string {
	s = strings.NewReplacer(",", " ", "-", " ", "_", " ").Replace(s)
	s = dropNonWordSpace(s)
	s = strings.ToLower(strings.TrimSpace(s))
	return whitespacePattern.ReplaceAllString(s, " ")
}

func dropNonWordSpace(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r == ' ' || r == '\t' || r == '\n' ||
			(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// adminPrefixPatterns strips administrative prefixes, longest-first
// (province prefixes before district before ward).
var adminPrefixPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^thanh\s*pho\s+`),
	regexp.MustCompile(`^tinh\s+`),
	regexp.MustCompile(`^thi\s*xa\s+`),
	regexp.MustCompile(`^thi\s*tran\s+`),
	regexp.MustCompile(`^quan\s+`),
	regexp.MustCompile(`^huyen\s+`),
	regexp.MustCompile(`^phuong\s+`),
	regexp.MustCompile(`^xa\s+`),
}

// StripAdminPrefixes removes a leading administrative prefix, idempotently.
func StripAdminPrefixes(s string) string {
	result := strings.TrimSpace(s)
	for _, p := range adminPrefixPatterns {
		result = p.ReplaceAllString(result, "")
	}
	return strings.TrimSpace(result)
}

// NormalizeAdminNumber strips leading zeros from a pure 1-2 digit numeric
// string; text-based names pass through unchanged ("06"->"6", "10"->"10").
func NormalizeAdminNumber(s string) string {
	if s == "" {
		return s
	}
	if len(s) >= 1 && len(s) <= 2 && isAllDigits(s) {
		n, err := strconv.Atoi(s)
		if err == nil {
			return strconv.Itoa(n)
		}
	}
	return s
}

func isAllDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

// NormalizeHint normalizes an upstream province/district hint: full
// normalization, then admin-prefix stripping.
func NormalizeHint(s string, keys []string, lookup AbbreviationLookup) string {
	if s == "" {
		return ""
	}
	n := NFC(s)
	n = ExpandAbbreviations(n, keys, lookup)
	n = StripDiacritics(n)
	n = FinalizeNormalization(n)
	return StripAdminPrefixes(n)
}

// memoTable is a process-wide memoization table for a string->string
// function, used so repeated FinalizeNormalization calls on the same
// input avoid redoing the same regex passes.
type memoTable struct {
	mu sync.RWMutex
	m  map[string]string
}

func newMemoTable() *memoTable {
	return &memoTable{m: make(map[string]string)}
}

func (t *memoTable) get(key string) (string, bool) {
	t.mu.RLock()
	v, ok := t.m[key]
	t.mu.RUnlock()
	return v, ok
}

func (t *memoTable) set(key, value string) {
	t.mu.Lock()
	t.m[key] = value
	t.mu.Unlock()
}

var finalizeCache = newMemoTable()

// FinalizeNormalizationCached is the memoized entry point used by hot
// pipeline paths; FinalizeNormalization itself stays allocation-simple for
// direct/testing use.
func FinalizeNormalizationCached(s string) string {
	if v, ok := finalizeCache.get(s); ok {
		return v
	}
	v := FinalizeNormalization(s)
	finalizeCache.set(s, v)
	return v
}
