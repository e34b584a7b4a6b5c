package structural

import (
	"testing"

	"github.com/vnaddress/parser/internal/model"
	"github.com/vnaddress/parser/internal/normalize"
)

type fakeScorer struct {
	matches map[string]map[string]float64 // level -> name -> score
}

func (f fakeScorer) BestMatch(level, name string) (string, float64, bool) {
	m, ok := f.matches[level]
	if !ok {
		return "", 0, false
	}
	sc, ok := m[name]
	if !ok {
		return "", 0, false
	}
	return name, sc, true
}

type fakeStore struct {
	valid bool
}

func (f fakeStore) HierarchyValid(provinceNorm, districtNorm, wardNorm string) bool {
	return f.valid
}

func TestParse_Tier1_KeywordSegmentsResolve(t *testing.T) {
	tokens := []string{"phuong", "phuc", "xa", "quan", "ba", "dinh", "thanh", "ha", "noi"}
	segments := []normalize.Segment{
		{StartToken: 0, EndToken: 3},
		{StartToken: 3, EndToken: 6},
		{StartToken: 6, EndToken: 9},
	}
	scorer := fakeScorer{matches: map[string]map[string]float64{
		"ward":     {"phuc xa": 1.0},
		"district": {"ba dinh": 1.0},
		"province": {"ha noi": 1.0},
	}}

	got := Parse("", segments, tokens, scorer)
	ok := got.Tier != 3
	if !ok {
		t.Fatal("Parse() tier 1 should resolve")
	}
	if got.Tier != 1 || got.Ward != "phuc xa" || got.District != "ba dinh" || got.Province != "ha noi" {
		t.Errorf("Parse() = %+v, want full tier-1 resolution", got)
	}
	if got.Confidence != 0.90 {
		t.Errorf("Parse() tier 1 Confidence = %v, want 0.90", got.Confidence)
	}
}

func TestParse_Tier2_FallsBackWithoutSegments(t *testing.T) {
	tokens := []string{"quan", "ba", "dinh"}
	scorer := fakeScorer{matches: map[string]map[string]float64{
		"district": {"ba dinh": 1.0},
	}}

	got := Parse("", nil, tokens, scorer)
	ok := got.Tier != 3
	if !ok {
		t.Fatal("Parse() tier 2 should resolve")
	}
	if got.Tier != 2 || got.District != "ba dinh" {
		t.Errorf("Parse() = %+v, want tier-2 district resolution", got)
	}
	if got.Confidence != 0.75 {
		t.Errorf("Parse() tier 2 Confidence = %v, want 0.75", got.Confidence)
	}
}

func TestParse_NoStructureFallsToTier3(t *testing.T) {
	tokens := []string{"khong", "co", "gi"}
	scorer := fakeScorer{}
	got := Parse("", nil, tokens, scorer)
	ok := got.Tier != 3
	if ok {
		t.Error("Parse() should report tier 3 (no structure) as not-ok")
	}
	if got.Tier != 3 || got.Confidence != 0 {
		t.Errorf("Parse() = %+v, want Tier=3, Confidence=0", got)
	}
}

func TestShouldShortCircuit(t *testing.T) {
	r := Result{Province: "ha noi", District: "ba dinh", Confidence: 0.9}
	if !ShouldShortCircuit(r, fakeStore{valid: true}, 0.8) {
		t.Error("ShouldShortCircuit should be true for a confident, hierarchy-valid result")
	}
	if ShouldShortCircuit(r, fakeStore{valid: false}, 0.8) {
		t.Error("ShouldShortCircuit should be false when the hierarchy is invalid")
	}
	if ShouldShortCircuit(r, fakeStore{valid: true}, 0.95) {
		t.Error("ShouldShortCircuit should be false below the confidence threshold")
	}
	empty := Result{Confidence: 0.9}
	if ShouldShortCircuit(empty, fakeStore{valid: true}, 0.8) {
		t.Error("ShouldShortCircuit should be false without a resolved province")
	}
}

func TestBuildShortCircuitCandidate(t *testing.T) {
	r := Result{Tier: 1, Province: "ha noi", District: "ba dinh", Ward: "phuc xa", Confidence: 0.9}
	c := BuildShortCircuitCandidate(r, nil)
	if c.MatchLevel != 3 {
		t.Errorf("MatchLevel = %d, want 3 for a full hierarchy", c.MatchLevel)
	}
	if c.ProvinceScore != 0.95 || c.DistrictScore != 0.95 || c.WardScore != 0.95 {
		t.Errorf("component scores = %+v, want 0.95 each", c)
	}
	if c.Source != "structural_tier1" {
		t.Errorf("Source = %q, want structural_tier1", c.Source)
	}
}

func TestBuildShortCircuitCandidate_TokenRangesCoverMatchedSegments(t *testing.T) {
	tokens := []string{"phuong", "phuc", "xa", "quan", "ba", "dinh", "thanh", "ha", "noi"}
	segments := []normalize.Segment{
		{StartToken: 0, EndToken: 3},
		{StartToken: 3, EndToken: 6},
		{StartToken: 6, EndToken: 9},
	}
	scorer := fakeScorer{matches: map[string]map[string]float64{
		"ward":     {"phuc xa": 1.0},
		"district": {"ba dinh": 1.0},
		"province": {"ha noi": 1.0},
	}}

	r := Parse("", segments, tokens, scorer)
	ok := r.Tier != 3
	if !ok {
		t.Fatal("Parse() should resolve via tier 1")
	}
	c := BuildShortCircuitCandidate(r, nil)

	// A short-circuit candidate's token ranges must cover the actual
	// matched segments, not the NoPosition sentinel, or remainder
	// subtraction downstream has nothing to subtract and keeps the whole
	// input as leftover text.
	if !c.WardTokens.HasPosition() || c.WardTokens != (model.TokenRange{Start: 0, End: 3}) {
		t.Errorf("WardTokens = %+v, want {0,3}", c.WardTokens)
	}
	if !c.DistrictTokens.HasPosition() || c.DistrictTokens != (model.TokenRange{Start: 3, End: 6}) {
		t.Errorf("DistrictTokens = %+v, want {3,6}", c.DistrictTokens)
	}
	if !c.ProvinceTokens.HasPosition() || c.ProvinceTokens != (model.TokenRange{Start: 6, End: 9}) {
		t.Errorf("ProvinceTokens = %+v, want {6,9}", c.ProvinceTokens)
	}
}
