package extract

import (
	"sort"
	"strings"

	"github.com/vnaddress/parser/internal/config"
	"github.com/vnaddress/parser/internal/matching"
	"github.com/vnaddress/parser/internal/model"
	"github.com/vnaddress/parser/internal/normalize"
)

// CombineStore is the subset of the Reference Store the candidate
// combination step needs.
type CombineStore interface {
	HierarchyValid(provinceNorm, districtNorm, wardNorm string) bool
	InferDistrictFromWard(provinceNorm, wardNorm string) (string, bool)
	DistrictsOf(provinceNorm string) []model.District
	StreetsOf(provinceNorm, districtNorm string) []model.Street
}

const (
	topProvinces = 3
	topDistricts = 5
	topWards     = 3
)

// Combine builds full candidates as a cartesian product of the top provinces,
// districts, and wards (+ a None ward sentinel), hierarchy-validated,
// scored by proximity/order/adjacency/direct-match/delimiter-aware bonuses,
// plus street-based fallback candidates. Returns candidates sorted by
// (combined_score desc, match_level desc), capped to cfg.MaxCandidates.
func Combine(pot Potentials, cfg config.Config, store CombineStore, scorer *matching.Scorer, tokens []model.Token, preAbbrevText string, delimInfo normalize.DelimiterInfo) []model.Candidate {
	provinces := truncate(dedupeBestPerName(pot.Province), topProvinces)
	districts := truncate(dedupeBestPerName(pot.District), topDistricts)
	wards := truncate(dedupeBestPerName(pot.Ward), topWards)
	wards = append(wards, model.PotentialMatch{NameNormalized: "", Range: model.NoPosition})

	var out []model.Candidate
	anyWard := false

	for _, p := range provinces {
		for _, d := range districts {
			for _, w := range wards {
				c, ok := buildCombination(p, d, w, cfg, store, tokens, preAbbrevText, delimInfo)
				if !ok {
					continue
				}
				if c.Ward != "" {
					anyWard = true
				}
				out = append(out, c)
			}
		}
		// Province with no district candidates at all is combined with
		// each ward potential and with the no-ward sentinel.
		if len(districts) == 0 {
			for _, w := range wards {
				c, ok := buildCombination(p, model.PotentialMatch{Range: model.NoPosition}, w, cfg, store, tokens, preAbbrevText, delimInfo)
				if ok {
					if c.Ward != "" {
						anyWard = true
					}
					out = append(out, c)
				}
			}
		}
	}

	if !anyWard {
		out = append(out, streetFallback(provinces, cfg, store, scorer, tokens, preAbbrevText)...)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CombinedScore != out[j].CombinedScore {
			return out[i].CombinedScore > out[j].CombinedScore
		}
		return out[i].MatchLevel > out[j].MatchLevel
	})

	maxN := cfg.MaxCandidates
	if maxN <= 0 {
		maxN = 5
	}
	if len(out) > maxN {
		out = out[:maxN]
	}
	return out
}

func buildCombination(p, d, w model.PotentialMatch, cfg config.Config, store CombineStore, tokens []model.Token, preAbbrevText string, delimInfo normalize.DelimiterInfo) (model.Candidate, bool) {
	if p.NameNormalized == "" {
		return model.Candidate{}, false
	}

	district := d
	inferredDistrict := false
	if w.NameNormalized != "" && district.NameNormalized == "" {
		if inferred, ok := store.InferDistrictFromWard(p.NameNormalized, w.NameNormalized); ok {
			district = model.PotentialMatch{NameNormalized: inferred, Score: 1.0, Range: model.NoPosition}
			inferredDistrict = true
		}
	}

	if !store.HierarchyValid(p.NameNormalized, district.NameNormalized, w.NameNormalized) {
		return model.Candidate{}, false
	}

	hasDistrict := district.NameNormalized != ""
	hasWard := w.NameNormalized != ""

	proximity := ProximityScore(p.Range, district.Range, w.Range, true, hasDistrict, hasWard)
	orderBonus := 1.0
	if InGeographicOrder(p.Range, district.Range, w.Range, true, hasDistrict, hasWard) {
		orderBonus = cfg.Bonuses.Order
	}
	adjacencyBonus := 1.0
	if hasDistrict && hasWard && w.Range.HasPosition() && district.Range.HasPosition() && w.Range.End == district.Range.Start {
		adjacencyBonus = cfg.Bonuses.Adjacency
	}

	matchLevel := 1
	completeness := 0.4
	if hasDistrict {
		matchLevel = 2
		completeness = 0.7
	}
	if hasWard {
		matchLevel = 3
		completeness = 1.0
	}

	scores := []float64{p.Score}
	if hasDistrict {
		scores = append(scores, district.Score)
	}
	if hasWard {
		scores = append(scores, w.Score)
	}
	baseFuzzy := mean(scores)

	directMatchBonus := 1.0
	if hasDistrict && strings.Contains(preAbbrevText, district.NameNormalized) {
		directMatchBonus *= cfg.Bonuses.DirectMatchDistrict
	}
	if hasWard && strings.Contains(preAbbrevText, w.NameNormalized) {
		directMatchBonus *= cfg.Bonuses.DirectMatchWard
	}

	delimiterBonus := delimiterMultiplier(p.Range, cfg, delimInfo) *
		delimiterMultiplier(district.Range, cfg, delimInfo) *
		delimiterMultiplier(w.Range, cfg, delimInfo)

	sw := cfg.ScoringWeights
	combined := (proximity*sw.Proximity + baseFuzzy*sw.BaseFuzzy + completeness*sw.Completeness + 1.0*sw.Hierarchy) *
		orderBonus * adjacencyBonus * directMatchBonus * delimiterBonus

	source := model.SourceDBExact
	if inferredDistrict {
		source = model.SourceMultiCandidateInferredDistrict
	}

	return model.Candidate{
		Province: p.NameNormalized, District: district.NameNormalized, Ward: w.NameNormalized,
		ProvinceScore: p.Score, DistrictScore: district.Score, WardScore: w.Score,
		ProvinceTokens: p.Range, DistrictTokens: district.Range, WardTokens: w.Range,
		CombinedScore: combined, ProximityScore: proximity, OrderBonus: orderBonus,
		AdjacencyBonus: adjacencyBonus, DirectMatchBonus: directMatchBonus,
		MatchLevel: matchLevel, HierarchyValid: true, Source: source,
		NormalizedTokens: tokens, Confidence: combined,
	}, true
}

// streetFallback generates candidates when no
// ward was found: a street match in some district of a candidate province,
// penalized 0.75x (and a further 0.3x when the district name is absent
// from the input text).
func streetFallback(provinces []model.PotentialMatch, cfg config.Config, store CombineStore, scorer *matching.Scorer, tokens []model.Token, preAbbrevText string) []model.Candidate {
	var out []model.Candidate
	words := strings.Fields(preAbbrevText)
	for _, p := range provinces {
		for _, d := range store.DistrictsOf(p.NameNormalized) {
			streets := store.StreetsOf(p.NameNormalized, d.Normalized)
			if len(streets) == 0 {
				continue
			}
			bestScore := 0.0
			for _, st := range streets {
				for _, tok := range words {
					sc := scorer.EnsembleFuzzy(tok, st.Normalized)
					if sc > bestScore {
						bestScore = sc
					}
				}
			}
			if bestScore < cfg.FuzzyThreshold.Ward {
				continue
			}
			penalty := cfg.StreetFallback.BasePenalty
			if !strings.Contains(preAbbrevText, d.Normalized) {
				penalty *= cfg.StreetFallback.DistrictAbsentPenalty
			}
			sw := cfg.ScoringWeights
			baseFuzzy := mean([]float64{p.Score, bestScore})
			combined := (0.5*sw.Proximity + baseFuzzy*sw.BaseFuzzy + 0.7*sw.Completeness + sw.Hierarchy) * penalty
			out = append(out, model.Candidate{
				Province: p.NameNormalized, District: d.Normalized,
				ProvinceScore: p.Score, DistrictScore: bestScore,
				ProvinceTokens: p.Range, DistrictTokens: model.NoPosition, WardTokens: model.NoPosition,
				CombinedScore: combined, MatchLevel: 2, HierarchyValid: true,
				Source: model.SourceStreetBased, NormalizedTokens: tokens, Confidence: combined,
			})
		}
	}
	return out
}

// delimiterMultiplier applies the delimiter-aware n-gram score to a single
// component's match range: a range that spans more than one delimited
// segment (e.g. a ward n-gram that bleeds across a comma into the next
// segment) is penalized, one that stays within its segment is bonused.
// A match with no token position (a hint or an inferred value) is neutral.
func delimiterMultiplier(r model.TokenRange, cfg config.Config, delimInfo normalize.DelimiterInfo) float64 {
	if !r.HasPosition() {
		return 1.0
	}
	return normalize.DelimiterScore(r.Start, r.End, delimInfo, cfg.Delimiter.Enabled, cfg.Delimiter.CrossPenalty, cfg.Delimiter.WithinBonus)
}

func dedupeBestPerName(matches []model.PotentialMatch) []model.PotentialMatch {
	best := map[string]model.PotentialMatch{}
	order := []string{}
	for _, m := range matches {
		if m.NameNormalized == "" {
			continue
		}
		if existing, ok := best[m.NameNormalized]; !ok || m.Score > existing.Score {
			if !ok {
				order = append(order, m.NameNormalized)
			}
			best[m.NameNormalized] = m
		}
	}
	out := make([]model.PotentialMatch, 0, len(order))
	for _, name := range order {
		out = append(out, best[name])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

func truncate(matches []model.PotentialMatch, n int) []model.PotentialMatch {
	if len(matches) > n {
		return matches[:n]
	}
	return matches
}

func mean(vals []float64) float64 {
	nonZero := make([]float64, 0, len(vals))
	for _, v := range vals {
		if v != 0 {
			nonZero = append(nonZero, v)
		}
	}
	if len(nonZero) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range nonZero {
		sum += v
	}
	return sum / float64(len(nonZero))
}
