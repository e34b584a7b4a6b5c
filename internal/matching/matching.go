// Package matching implements the fuzzy-matching primitives: an
// ensemble of token-sort, Levenshtein, and Jaccard similarity, plus the
// original Jaro-Winkler component kept available as an optional fourth
// weight (see DESIGN.md). EnsembleFuzzy results are memoized per Scorer in
// a bounded LRU, grounded on the golang-lru dependency; the individual
// primitives (LevenshteinNormalized, Jaccard, TokenSortRatio, JaroWinkler)
// are not memoized and are recomputed on every call.
package matching

import (
	"sort"
	"strings"

	levenshtein "github.com/agnivade/levenshtein"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/xrash/smetrics"

	"github.com/vnaddress/parser/internal/config"
)

// Scorer bundles the ensemble weights with a bounded memoization cache so
// call sites don't need to thread individual primitive caches around.
type Scorer struct {
	weights config.EnsembleWeights
	cache   *lru.Cache[string, float64]
}

// NewScorer builds a Scorer with the given ensemble weights and an LRU
// cache sized per config.Config.PrimitiveCacheSize.
func NewScorer(weights config.EnsembleWeights, cacheSize int) *Scorer {
	if cacheSize <= 0 {
		cacheSize = 50_000
	}
	c, _ := lru.New[string, float64](cacheSize)
	return &Scorer{weights: weights, cache: c}
}

// LevenshteinNormalized returns 1 - dist(a,b)/max(|a|,|b|).
func LevenshteinNormalized(a, b string) float64 {
	if a == "" && b == "" {
		return 1.0
	}
	maxLen := len([]rune(a))
	if bl := len([]rune(b)); bl > maxLen {
		maxLen = bl
	}
	if maxLen == 0 {
		return 1.0
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 1.0 - float64(dist)/float64(maxLen)
}

// Jaccard computes Jaccard similarity over whitespace-split tokens.
func Jaccard(a, b string) float64 {
	setA := tokenSet(a)
	setB := tokenSet(b)
	if len(setA) == 0 && len(setB) == 0 {
		return 1.0
	}
	inter := 0
	for t := range setA {
		if setB[t] {
			inter++
		}
	}
	union := len(setA) + len(setB) - inter
	if union == 0 {
		return 1.0
	}
	return float64(inter) / float64(union)
}

func tokenSet(s string) map[string]bool {
	fields := strings.Fields(s)
	set := make(map[string]bool, len(fields))
	for _, f := range fields {
		set[f] = true
	}
	return set
}

// TokenSortRatio sorts each string's whitespace tokens, re-joins them, and
// returns a normalized-Levenshtein similarity between the results.
func TokenSortRatio(a, b string) float64 {
	return LevenshteinNormalized(sortedJoin(a), sortedJoin(b))
}

func sortedJoin(s string) string {
	fields := strings.Fields(s)
	sort.Strings(fields)
	return strings.Join(fields, " ")
}

// JaroWinkler is the original similarity component, kept
// available at configurable weight 0 by default (see DESIGN.md).
func JaroWinkler(a, b string) float64 {
	return smetrics.JaroWinkler(a, b, 0.7, 4)
}

// EnsembleFuzzy computes the weighted ensemble score:
// 0.5*token_sort + 0.3*levenshtein + 0.2*jaccard (weights configurable),
// plus an optional Jaro-Winkler term at configurable weight.
func (s *Scorer) EnsembleFuzzy(a, b string) float64 {
	key := a + "\x00" + b
	if v, ok := s.cache.Get(key); ok {
		return v
	}
	score := s.weights.TokenSort*TokenSortRatio(a, b) +
		s.weights.Levenshtein*LevenshteinNormalized(a, b) +
		s.weights.Jaccard*Jaccard(a, b)
	if s.weights.JaroWinkler > 0 {
		score += s.weights.JaroWinkler * JaroWinkler(a, b)
	}
	s.cache.Add(key, score)
	return score
}

// ExactMatch returns text if it is present verbatim in set, else "".
func ExactMatch(text string, set map[string]bool) (string, bool) {
	if set[text] {
		return text, true
	}
	return "", false
}

// SubstringMatch reports whether a appears as a substring of b.
func SubstringMatch(a, b string) bool {
	if a == "" {
		return false
	}
	return strings.Contains(b, a)
}
