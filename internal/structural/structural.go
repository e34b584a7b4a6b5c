// Package structural implements the Structural Parser (P2): a
// high-confidence parse attempt exploiting explicit comma/dash
// segmentation and administrative keywords, before falling back to the
// Extractor.
package structural

import (
	"strings"

	"github.com/vnaddress/parser/internal/matching"
	"github.com/vnaddress/parser/internal/model"
	"github.com/vnaddress/parser/internal/normalize"
)

// Level names a resolved segment's administrative level.
type Level int

const (
	LevelNone Level = iota
	LevelWard
	LevelDistrict
	LevelProvince
)

var wardKeywords = map[string]bool{"xa": true, "phuong": true, "thi": true}
var districtKeywords = map[string]bool{"quan": true, "huyen": true, "tp": true, "tx": true, "h": true}
var provinceKeywords = map[string]bool{"tinh": true, "thanh": true}

// Result is P2's output: resolved names per level (normalized), the token
// ranges those names were read from (so a short-circuit candidate's
// remainder can still be computed by subtraction), and a fixed confidence
// per tier (0.90 for Tier 1, 0.75 for Tier 2, 0 for Tier 3).
type Result struct {
	Tier                      int // 1, 2, or 3 (no structure)
	Province, District, Ward  string
	ProvinceTokens, DistrictTokens, WardTokens model.TokenRange
	Confidence                float64
}

// Store is the subset of the Reference Store the Structural Parser needs
// to validate resolved names before acceptance.
type Store interface {
	HierarchyValid(provinceNorm, districtNorm, wardNorm string) bool
}

// Scorer resolves a structural-parser-extracted name against the
// reference store's exact/fuzzy match, reusing the Extractor's ensemble.
type Scorer interface {
	BestMatch(level string, name string) (normalized string, score float64, ok bool)
}

// Parse attempts Tier 1 (comma/dash + keyword) then Tier 2 (keyword scan
// without reliable delimiters); Tier 3 means no structure was found.
func Parse(normalized string, segments []normalize.Segment, tokens []string, scorer Scorer) Result {
	if r, ok := parseTier1(segments, tokens, scorer); ok {
		return r
	}
	if r, ok := parseTier2(tokens, scorer); ok {
		return r
	}
	return Result{Tier: 3, Confidence: 0}
}

func parseTier1(segments []normalize.Segment, tokens []string, scorer Scorer) (Result, bool) {
	if len(segments) < 2 {
		return Result{}, false
	}
	res := Result{Tier: 1, ProvinceTokens: model.NoPosition, DistrictTokens: model.NoPosition, WardTokens: model.NoPosition}
	resolvedAny := false
	for i, seg := range segments {
		if seg.StartToken >= len(tokens) {
			continue
		}
		first := tokens[seg.StartToken]
		restStart := seg.StartToken + 1
		if first == "thanh" && restStart < seg.EndToken && tokens[restStart] == "pho" {
			restStart++
		}
		rest := strings.Join(tokens[restStart:seg.EndToken], " ")
		if rest == "" {
			continue
		}
		segRange := model.TokenRange{Start: seg.StartToken, End: seg.EndToken}
		// "thanh pho" opens a district segment unless it is the outermost one.
		cityAsDistrict := first == "thanh" && i < len(segments)-1
		switch {
		case wardKeywords[first]:
			if norm, score, ok := scorer.BestMatch("ward", rest); ok && score > 0 {
				res.Ward = norm
				res.WardTokens = segRange
				resolvedAny = true
			}
		case districtKeywords[first] || cityAsDistrict:
			if norm, score, ok := scorer.BestMatch("district", rest); ok && score > 0 {
				res.District = norm
				res.DistrictTokens = segRange
				resolvedAny = true
			}
		case provinceKeywords[first]:
			if norm, score, ok := scorer.BestMatch("province", rest); ok && score > 0 {
				res.Province = norm
				res.ProvinceTokens = segRange
				resolvedAny = true
			}
		}
	}
	if !resolvedAny {
		return Result{}, false
	}
	res.Confidence = 0.90
	return res, true
}

func parseTier2(tokens []string, scorer Scorer) (Result, bool) {
	res := Result{Tier: 2, ProvinceTokens: model.NoPosition, DistrictTokens: model.NoPosition, WardTokens: model.NoPosition}
	resolvedAny := false
	for i := 0; i < len(tokens); i++ {
		kw := tokens[i]
		var level string
		switch {
		case wardKeywords[kw]:
			level = "ward"
		case districtKeywords[kw]:
			level = "district"
		case provinceKeywords[kw]:
			level = "province"
		default:
			continue
		}
		end := i + 1
		for end < len(tokens) && end < i+4 {
			if wardKeywords[tokens[end]] || districtKeywords[tokens[end]] || provinceKeywords[tokens[end]] {
				break
			}
			end++
		}
		if end == i+1 {
			continue
		}
		name := strings.Join(tokens[i+1:end], " ")
		if norm, score, ok := scorer.BestMatch(level, name); ok && score > 0 {
			span := model.TokenRange{Start: i, End: end}
			switch level {
			case "ward":
				res.Ward = norm
				res.WardTokens = span
			case "district":
				res.District = norm
				res.DistrictTokens = span
			case "province":
				res.Province = norm
				res.ProvinceTokens = span
			}
			resolvedAny = true
		}
		i = end - 1
	}
	if !resolvedAny {
		return Result{}, false
	}
	res.Confidence = 0.75
	return res, true
}

// ShouldShortCircuit reports whether r is confident and valid enough to
// skip P3 extraction entirely.
func ShouldShortCircuit(r Result, store Store, threshold float64) bool {
	if r.Confidence < threshold {
		return false
	}
	if r.Province == "" {
		return false
	}
	return store.HierarchyValid(r.Province, r.District, r.Ward)
}

// BuildShortCircuitCandidate produces the single short-circuit candidate:
// component score 0.95 for each resolved level, source structural_tier1 or
// structural_tier2.
func BuildShortCircuitCandidate(r Result, tokens []model.Token) model.Candidate {
	matchLevel := 1
	if r.District != "" {
		matchLevel = 2
	}
	if r.Ward != "" {
		matchLevel = 3
	}
	source := model.SourceStructuralTier1
	if r.Tier == 2 {
		source = model.SourceStructuralTier2
	}
	c := model.Candidate{
		Province: r.Province, District: r.District, Ward: r.Ward,
		ProvinceScore: scoreIfSet(r.Province), DistrictScore: scoreIfSet(r.District), WardScore: scoreIfSet(r.Ward),
		ProvinceTokens: r.ProvinceTokens, DistrictTokens: r.DistrictTokens, WardTokens: r.WardTokens,
		CombinedScore: r.Confidence, MatchLevel: matchLevel, HierarchyValid: true,
		Source: source, NormalizedTokens: tokens, Confidence: r.Confidence,
	}
	return c
}

func scoreIfSet(name string) float64 {
	if name == "" {
		return 0
	}
	return 0.95
}

// ensemble-backed Scorer adapter for callers wiring a matching.Scorer.
// The per-level thresholds mirror the Extractor's own fuzzy acceptance
// bands (config.Config.FuzzyThreshold) so a Tier 1/Tier 2 short-circuit
// candidate can never be built from a match P3 would have rejected.
type EnsembleStoreScorer struct {
	Ensemble     *matching.Scorer
	ProvinceSet  map[string]bool
	DistrictSet  map[string]bool
	WardSet      map[string]bool

	ProvinceThreshold float64
	DistrictThreshold float64
	WardThreshold     float64
}

func (s EnsembleStoreScorer) BestMatch(level, name string) (string, float64, bool) {
	var set map[string]bool
	var threshold float64
	switch level {
	case "province":
		set, threshold = s.ProvinceSet, s.ProvinceThreshold
	case "district":
		set, threshold = s.DistrictSet, s.DistrictThreshold
	case "ward":
		set, threshold = s.WardSet, s.WardThreshold
	}
	best := ""
	bestScore := 0.0
	for candidate := range set {
		sc := s.Ensemble.EnsembleFuzzy(name, candidate)
		if sc > bestScore {
			bestScore = sc
			best = candidate
		}
	}
	if best == "" || bestScore < threshold {
		return "", 0, false
	}
	return best, bestScore, true
}
