// Package validate implements the Validator & Ranker (P5):
// confidence recomputation, hierarchy validation, and final sorting.
package validate

import (
	"sort"

	"github.com/vnaddress/parser/internal/config"
	"github.com/vnaddress/parser/internal/model"
)

// Store is the subset of the Reference Store needed for hierarchy
// validation during P5.
type Store interface {
	HierarchyValid(provinceNorm, districtNorm, wardNorm string) bool
}

func sourceMultiplier(sm config.SourceMultipliers, source model.MatchSource) float64 {
	switch source {
	case model.SourceDBExact:
		return sm.DBExactMatch
	case model.SourceDisambiguationAsWard:
		return sm.DisambiguationAsWard
	case model.SourceDisambiguationAsDistrict:
		return sm.DisambiguationAsDistrict
	case model.SourceOSMNominatimBBox:
		return sm.OSMNominatimBBox
	case model.SourceOSMNominatimQuery:
		return sm.OSMNominatimQuery
	case model.SourceStreetBased:
		return sm.StreetBased
	case model.SourceProvinceOnlyNoDB:
		return sm.ProvinceOnlyNoDB
	default:
		return sm.Default
	}
}

func isExternalSource(source model.MatchSource) bool {
	return source == model.SourceOSMNominatimBBox || source == model.SourceOSMNominatimQuery || source == model.SourceGoongGeocode
}

// matchTypePriority ranks exact > fuzzy > hierarchical_fallback for the
// final sort's tiebreak.
func matchTypePriority(c model.Candidate) int {
	switch {
	case c.ProvinceScore == 1.0 && (c.District == "" || c.DistrictScore == 1.0) && (c.Ward == "" || c.WardScore == 1.0):
		return 2 // exact
	case c.Source == model.SourceStreetBased || c.Source == model.SourceMultiCandidateInferredDistrict:
		return 0 // hierarchical_fallback
	default:
		return 1 // fuzzy
	}
}

// Validate recomputes final confidence for every candidate, applies the
// district-mismatch penalty, validates hierarchy (external sources are
// exempt), and returns candidates sorted by
// (final_confidence desc, match_type_priority desc, match_level desc).
func Validate(candidates []model.Candidate, store Store, cfg config.Config) []model.Candidate {
	out := make([]model.Candidate, len(candidates))
	for i, c := range candidates {
		final := c.CombinedScore
		if c.CombinedScore != 0 || c.ProximityScore != 0 {
			final = c.CombinedScore * sourceMultiplier(cfg.SourceMultipliers, c.Source)
		} else {
			vf := cfg.ValidatorFallback
			proximityHeuristic := 0.5
			switch c.MatchLevel {
			case 3:
				proximityHeuristic = 0.9
			case 2:
				proximityHeuristic = 0.7
			}
			hierarchyIndicator := 0.0
			if c.HierarchyValid {
				hierarchyIndicator = 1.0
			}
			baseFuzzy := mean3(c.ProvinceScore, c.DistrictScore, c.WardScore)
			completeness := completenessFor(c.MatchLevel)
			final = vf.BaseFuzzy*baseFuzzy + vf.Proximity*proximityHeuristic + vf.Completeness*completeness + vf.Hierarchy*hierarchyIndicator
		}

		if c.DistrictMismatch {
			final *= 0.30
		}

		valid := c.HierarchyValid
		if !isExternalSource(c.Source) {
			valid = store.HierarchyValid(c.Province, c.District, c.Ward)
		} else {
			valid = true
		}

		c.HierarchyValid = valid
		c.FinalConfidence = final
		out[i] = c
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].FinalConfidence != out[j].FinalConfidence {
			return out[i].FinalConfidence > out[j].FinalConfidence
		}
		pi, pj := matchTypePriority(out[i]), matchTypePriority(out[j])
		if pi != pj {
			return pi > pj
		}
		return out[i].MatchLevel > out[j].MatchLevel
	})
	return out
}

func mean3(vals ...float64) float64 {
	sum := 0.0
	n := 0
	for _, v := range vals {
		if v != 0 {
			sum += v
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

func completenessFor(matchLevel int) float64 {
	switch matchLevel {
	case 3:
		return 1.0
	case 2:
		return 0.7
	default:
		return 0.4
	}
}
