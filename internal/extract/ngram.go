// Package extract implements the Extractor (P3): n-gram
// enumeration, explicit-pattern detection, per-level potential matches,
// and candidate combination with proximity/order/adjacency scoring.
package extract

import "github.com/vnaddress/parser/internal/model"

var adminKeywords = map[string]bool{
	"phuong": true, "xa": true, "quan": true, "huyen": true, "thi": true,
	"tran": true, "thanh": true, "pho": true, "tp": true, "tx": true,
	"p": true, "q": true, "h": true, "x": true,
}

// EnumerateNgrams emits all contiguous token slices of length 1..maxLen
// (clamped to 4 and to len(tokens); a non-positive maxLen means 4),
// longest first, each carrying its range and has_keyword flag.
func EnumerateNgrams(tokens []string, maxLen int) []model.Ngram {
	n := len(tokens)
	if maxLen <= 0 || maxLen > 4 {
		maxLen = 4
	}
	if maxLen > n {
		maxLen = n
	}
	var out []model.Ngram
	for length := maxLen; length >= 1; length-- {
		for start := 0; start+length <= n; start++ {
			end := start + length
			text := joinRange(tokens, start, end)
			hasKeyword := start > 0 && adminKeywords[tokens[start-1]]
			out = append(out, model.Ngram{
				Text:       text,
				Range:      model.TokenRange{Start: start, End: end},
				HasKeyword: hasKeyword,
			})
		}
	}
	return out
}

func joinRange(tokens []string, start, end int) string {
	out := ""
	for i := start; i < end; i++ {
		if i > start {
			out += " "
		}
		out += tokens[i]
	}
	return out
}

// IsAdminKeyword reports whether tok is one of the administrative keyword
// tokens recognized by n-gram enumeration and explicit-pattern detection.
func IsAdminKeyword(tok string) bool {
	return adminKeywords[tok]
}
