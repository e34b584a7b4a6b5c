package extract

import (
	"github.com/vnaddress/parser/internal/model"
	"github.com/vnaddress/parser/internal/normalize"
)

// noiseWords is the fixed institutional vocabulary that disqualifies an
// explicit-pattern span, grounded on
// original_source/src/utils/extraction_utils.py's has_noise_word.
var noiseWords = map[string]bool{
	"ubnd": true, "cong": true, "ty": true, "chi": true, "nhanh": true,
	"van": true, "phong": true, "truong": true, "benh": true, "vien": true,
	"ngan": true, "hang": true, "cua": true, "sieu": true, "thi": false, // "thi" alone is legitimate (thi tran/thi xa)
	"trung": true, "tam": true, "tnhh": true,
}

var districtLeadKeywords = map[string]bool{"quan": true, "huyen": true, "thi xa": true, "thanh pho": true, "tp": true, "tx": true, "h": true}
var wardLeadKeywords = map[string]bool{"phuong": true, "xa": true, "p": true, "x": true}

// ExplicitMatch is a forced candidate produced by keyword+name scanning,
// always score 1.0, never dropped by the fuzzy thresholds.
type ExplicitMatch struct {
	Level string // "district" or "ward"
	Name  string // normalized, numeric-normalized
	Range model.TokenRange
}

// DetectExplicitPatterns scans tokens left-to-right; whenever an
// administrative keyword is found, it consumes up to the next 3
// non-keyword tokens as a forced candidate at the corresponding level.
func DetectExplicitPatterns(tokens []string) []ExplicitMatch {
	var out []ExplicitMatch
	for i := 0; i < len(tokens); i++ {
		kw := tokens[i]
		level := ""
		switch {
		case districtLeadKeywords[kw]:
			level = "district"
		case wardLeadKeywords[kw]:
			level = "ward"
		default:
			continue
		}

		end := i + 1
		for end < len(tokens) && end < i+1+3 && !IsAdminKeyword(tokens[end]) {
			end++
		}
		if end == i+1 {
			continue
		}
		span := tokens[i+1 : end]
		if hasNoiseWord(span) {
			continue
		}
		name := joinRange(tokens, i+1, end)
		if len(span) == 1 {
			name = normalize.NormalizeAdminNumber(name)
		}
		out = append(out, ExplicitMatch{
			Level: level,
			Name:  name,
			Range: model.TokenRange{Start: i + 1, End: end},
		})
	}
	return out
}

func hasNoiseWord(span []string) bool {
	for _, tok := range span {
		if noiseWords[tok] {
			return true
		}
	}
	return false
}
