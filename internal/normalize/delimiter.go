package normalize

import (
	"regexp"
	"strings"
)

// slashNumberPattern protects address numbers like "55/2" from being split
// on their internal '/' during delimiter extraction.
var slashNumberPattern = regexp.MustCompile(`\d+/\d+`)

var defaultDelimiterChars = []rune{',', '-', '_', '/'}

// Segment is a token-index range delimited by a structural boundary.
type Segment struct {
	StartToken int
	EndToken   int
}

// DelimiterInfo is the result of delimiter-aware tokenization.
type DelimiterInfo struct {
	Tokens          []string
	NormalizedText  string
	Segments        []Segment
	NumberTokens    map[int]bool
	HasDelimiters   bool
}

// TokenizeWithDelimiterInfo splits text on delimiter characters while
// protecting number/slash patterns, returning both the token list and the
// segment boundaries those delimiters imply. text should already have had
// diacritics stripped (delimiter extraction runs before full finalize per
// but may still contain the original punctuation.
func TokenizeWithDelimiterInfo(text string) DelimiterInfo {
	if text == "" {
		return DelimiterInfo{NumberTokens: map[int]bool{}}
	}

	placeholders := map[string]string{}
	counter := 0
	protectedText := slashNumberPattern.ReplaceAllStringFunc(text, func(m string) string {
		ph := placeholderFor(counter)
		placeholders[ph] = m
		counter++
		return ph
	})

	hasDelimiters := false
	for _, r := range text {
		if isDelimiterChar(r) && !withinProtected(text, r) {
			hasDelimiters = true
			break
		}
	}

	normalized := protectedText
	for _, d := range defaultDelimiterChars {
		normalized = replaceRune(normalized, d, ' ')
	}
	normalized = whitespacePattern.ReplaceAllString(normalized, " ")
	rawTokens := splitFields(normalized)

	numberTokens := map[int]bool{}
	finalTokens := make([]string, 0, len(rawTokens))
	for i, tok := range rawTokens {
		if orig, ok := placeholders[tok]; ok {
			finalTokens = append(finalTokens, orig)
			numberTokens[i] = true
		} else {
			finalTokens = append(finalTokens, tok)
		}
	}

	segments := buildSegments(text, finalTokens, hasDelimiters)

	return DelimiterInfo{
		Tokens:         finalTokens,
		NormalizedText: joinSpace(finalTokens),
		Segments:       segments,
		NumberTokens:   numberTokens,
		HasDelimiters:  hasDelimiters,
	}
}

// CheckNgramCrossesDelimiter reports whether the token range [start,end)
// spans more than one segment.
func CheckNgramCrossesDelimiter(start, end int, segments []Segment) bool {
	if len(segments) <= 1 {
		return false
	}
	overlapping := 0
	for _, seg := range segments {
		if start < seg.EndToken && end > seg.StartToken {
			overlapping++
		}
	}
	return overlapping > 1
}

// DelimiterScore returns the delimiter-aware score multiplier for an
// n-gram range.
func DelimiterScore(start, end int, info DelimiterInfo, enabled bool, crossPenalty, withinBonus float64) float64 {
	if !enabled || !info.HasDelimiters {
		return 1.0
	}
	if CheckNgramCrossesDelimiter(start, end, info.Segments) {
		return crossPenalty
	}
	return withinBonus
}

// placeholderFor builds a substitution token for a protected slash-number
// match. It must contain none of defaultDelimiterChars, or the very loop
// that replaces those chars with spaces would split the placeholder apart
// before it can be matched back up.
func placeholderFor(i int) string {
	return "zznumslashzz" + itoa(i) + "zz"
}

// ProtectSlashNumbers substitutes digit/digit address-number patterns
// (e.g. "55/2") with opaque placeholder tokens, returning the substituted
// text and a restore table keyed by placeholder. Callers that run further
// punctuation-stripping passes over the result (which would otherwise
// split "55/2" into "55" and "2") can later call RestoreSlashNumbers to
// put the original text back once those passes have run.
func ProtectSlashNumbers(s string) (string, map[string]string) {
	placeholders := map[string]string{}
	counter := 0
	protected := slashNumberPattern.ReplaceAllStringFunc(s, func(m string) string {
		ph := placeholderFor(counter)
		placeholders[ph] = m
		counter++
		return ph
	})
	return protected, placeholders
}

// RestoreSlashNumbers replaces placeholder tokens produced by
// ProtectSlashNumbers with the original text they stood in for. Matching
// is done word-by-word so it still works after the placeholder's
// surrounding text has been lowercased or had whitespace collapsed.
func RestoreSlashNumbers(s string, placeholders map[string]string) string {
	if len(placeholders) == 0 {
		return s
	}
	words := strings.Fields(s)
	for i, w := range words {
		if orig, ok := placeholders[w]; ok {
			words[i] = orig
		}
	}
	return strings.Join(words, " ")
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	digits := []byte{}
	for i > 0 {
		digits = append([]byte{byte('0' + i%10)}, digits...)
		i /= 10
	}
	return string(digits)
}

func isDelimiterChar(r rune) bool {
	for _, d := range defaultDelimiterChars {
		if r == d {
			return true
		}
	}
	return false
}

// withinProtected is a conservative check: a delimiter char that is '/'
// and appears as part of a digit/digit pattern is considered protected.
func withinProtected(text string, r rune) bool {
	return r == '/' && slashNumberPattern.MatchString(text)
}

func replaceRune(s string, from, to rune) string {
	out := []rune(s)
	for i, r := range out {
		if r == from {
			out[i] = to
		}
	}
	return string(out)
}

func splitFields(s string) []string {
	var tokens []string
	var cur []rune
	for _, r := range s {
		if r == ' ' {
			if len(cur) > 0 {
				tokens = append(tokens, string(cur))
				cur = cur[:0]
			}
			continue
		}
		cur = append(cur, r)
	}
	if len(cur) > 0 {
		tokens = append(tokens, string(cur))
	}
	return tokens
}

func joinSpace(tokens []string) string {
	out := ""
	for i, t := range tokens {
		if i > 0 {
			out += " "
		}
		out += t
	}
	return out
}

// buildSegments maps delimiter positions in the original text onto token
// boundaries, grounded on original_source's tokenize_with_delimiter_info.
func buildSegments(original string, tokens []string, hasDelimiters bool) []Segment {
	if !hasDelimiters || len(tokens) == 0 {
		if len(tokens) == 0 {
			return nil
		}
		return []Segment{{StartToken: 0, EndToken: len(tokens)}}
	}

	var delimPositions []int
	runes := []rune(original)
	for i, r := range runes {
		if isDelimiterChar(r) && !withinProtected(original, r) {
			delimPositions = append(delimPositions, i)
		}
	}

	var segments []Segment
	currentStart := 0
	for _, pos := range delimPositions {
		cumulative := 0
		endToken := 0
		for idx, tok := range tokens {
			cumulative += len([]rune(tok))
			if cumulative >= pos {
				endToken = idx + 1
				break
			}
			cumulative++
		}
		if endToken > currentStart {
			segments = append(segments, Segment{StartToken: currentStart, EndToken: endToken})
			currentStart = endToken
		}
	}
	if currentStart < len(tokens) {
		segments = append(segments, Segment{StartToken: currentStart, EndToken: len(tokens)})
	}
	return segments
}
