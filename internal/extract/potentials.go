package extract

import (
	"github.com/vnaddress/parser/internal/matching"
	"github.com/vnaddress/parser/internal/model"
)

// Index is the subset of the Token Index's contract the Extractor
// needs for per-level candidate pre-filtering.
type Index interface {
	ProvinceCandidates(query string, minOverlap int) []model.Province
	DistrictCandidates(query, provinceFilter string, minOverlap int) []model.District
	WardCandidates(query, provinceFilter, districtFilter string, minOverlap int) []model.Ward
}

// Thresholds names the per-level fuzzy acceptance threshold.
type Thresholds struct {
	Province, District, Ward float64
}

// Potentials holds the per-level Potential Match lists.
type Potentials struct {
	Province []model.PotentialMatch
	District []model.PotentialMatch
	Ward     []model.PotentialMatch
}

// ExtractPotentials runs a per-n-gram, per-level fuzzy search:
// every n-gram is looked up in the token index at the appropriate level,
// scored by the ensemble, and kept if it reaches the level's threshold —
// with all top-scoring ties retained (ties matter for ambiguity).
func ExtractPotentials(ngrams []model.Ngram, idx Index, scorer *matching.Scorer, th Thresholds, provinceFilter, districtFilter string) Potentials {
	var pot Potentials
	for _, ng := range ngrams {
		pot.Province = append(pot.Province, scoreLevelProvince(ng, idx, scorer, th.Province)...)
		pot.District = append(pot.District, scoreLevelDistrict(ng, idx, scorer, th.District, provinceFilter)...)
		pot.Ward = append(pot.Ward, scoreLevelWard(ng, idx, scorer, th.Ward, provinceFilter, districtFilter)...)
	}
	return pot
}

func scoreLevelProvince(ng model.Ngram, idx Index, scorer *matching.Scorer, threshold float64) []model.PotentialMatch {
	candidates := idx.ProvinceCandidates(ng.Text, 0)
	return topScoring(ng, threshold, scorer, func() []string {
		names := make([]string, len(candidates))
		for i, c := range candidates {
			names[i] = c.Normalized
		}
		return names
	}())
}

func scoreLevelDistrict(ng model.Ngram, idx Index, scorer *matching.Scorer, threshold float64, provinceFilter string) []model.PotentialMatch {
	candidates := idx.DistrictCandidates(ng.Text, provinceFilter, 0)
	names := make([]string, len(candidates))
	for i, c := range candidates {
		names[i] = c.Normalized
	}
	return topScoring(ng, threshold, scorer, names)
}

func scoreLevelWard(ng model.Ngram, idx Index, scorer *matching.Scorer, threshold float64, provinceFilter, districtFilter string) []model.PotentialMatch {
	candidates := idx.WardCandidates(ng.Text, provinceFilter, districtFilter, 0)
	names := make([]string, len(candidates))
	for i, c := range candidates {
		names[i] = c.Normalized
	}
	return topScoring(ng, threshold, scorer, names)
}

// topScoring: exact match scores 1.0, otherwise threshold
// by level; all candidates achieving the top score (ties included) are
// retained.
func topScoring(ng model.Ngram, threshold float64, scorer *matching.Scorer, candidateNames []string) []model.PotentialMatch {
	if len(candidateNames) == 0 {
		return nil
	}
	type scored struct {
		name  string
		score float64
	}
	var scoredList []scored
	best := 0.0
	for _, name := range candidateNames {
		var sc float64
		if ng.Text == name {
			sc = 1.0
		} else {
			sc = scorer.EnsembleFuzzy(ng.Text, name)
		}
		if sc < threshold {
			continue
		}
		scoredList = append(scoredList, scored{name, sc})
		if sc > best {
			best = sc
		}
	}
	var out []model.PotentialMatch
	for _, s := range scoredList {
		if s.score == best {
			out = append(out, model.PotentialMatch{NameNormalized: s.name, Score: s.score, Range: ng.Range})
		}
	}
	return out
}
