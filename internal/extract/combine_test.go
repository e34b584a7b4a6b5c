package extract

import (
	"testing"

	"github.com/vnaddress/parser/internal/config"
	"github.com/vnaddress/parser/internal/matching"
	"github.com/vnaddress/parser/internal/model"
	"github.com/vnaddress/parser/internal/normalize"
)

type fakeCombineStore struct {
	validHierarchies map[[3]string]bool
	districts        map[string][]model.District
	streets          map[[2]string][]model.Street
}

func (f fakeCombineStore) HierarchyValid(provinceNorm, districtNorm, wardNorm string) bool {
	return f.validHierarchies[[3]string{provinceNorm, districtNorm, wardNorm}]
}

func (f fakeCombineStore) InferDistrictFromWard(provinceNorm, wardNorm string) (string, bool) {
	return "", false
}

func (f fakeCombineStore) DistrictsOf(provinceNorm string) []model.District {
	return f.districts[provinceNorm]
}

func (f fakeCombineStore) StreetsOf(provinceNorm, districtNorm string) []model.Street {
	return f.streets[[2]string{provinceNorm, districtNorm}]
}

func TestCombine_ProvinceDistrictWardCandidate(t *testing.T) {
	pot := Potentials{
		Province: []model.PotentialMatch{{NameNormalized: "ha noi", Score: 1.0, Range: model.TokenRange{Start: 2, End: 4}}},
		District: []model.PotentialMatch{{NameNormalized: "ba dinh", Score: 1.0, Range: model.TokenRange{Start: 1, End: 3}}},
		Ward:     []model.PotentialMatch{{NameNormalized: "phuc xa", Score: 1.0, Range: model.TokenRange{Start: 0, End: 1}}},
	}
	store := fakeCombineStore{validHierarchies: map[[3]string]bool{
		{"ha noi", "ba dinh", "phuc xa"}: true,
		{"ha noi", "ba dinh", ""}:        true,
		{"ha noi", "", ""}:               true,
	}}
	cfg := config.Default()
	scorer := matching.NewScorer(cfg.EnsembleWeights, 100)

	out := Combine(pot, cfg, store, scorer, nil, "phuc xa ba dinh ha noi", normalize.DelimiterInfo{})

	if len(out) == 0 {
		t.Fatal("Combine() returned no candidates")
	}
	found := false
	for _, c := range out {
		if c.Province == "ha noi" && c.District == "ba dinh" && c.Ward == "phuc xa" {
			found = true
			if c.MatchLevel != 3 {
				t.Errorf("full hierarchy candidate MatchLevel = %d, want 3", c.MatchLevel)
			}
		}
	}
	if !found {
		t.Errorf("expected a full province/district/ward candidate among %+v", out)
	}
}

func TestCombine_InvalidHierarchyExcluded(t *testing.T) {
	pot := Potentials{
		Province: []model.PotentialMatch{{NameNormalized: "ha noi", Score: 1.0, Range: model.TokenRange{Start: 0, End: 1}}},
		District: []model.PotentialMatch{{NameNormalized: "some other district", Score: 1.0, Range: model.TokenRange{Start: 1, End: 2}}},
	}
	store := fakeCombineStore{validHierarchies: map[[3]string]bool{}}
	cfg := config.Default()
	scorer := matching.NewScorer(cfg.EnsembleWeights, 100)

	out := Combine(pot, cfg, store, scorer, nil, "ha noi some other district", normalize.DelimiterInfo{})
	for _, c := range out {
		if c.District == "some other district" {
			t.Errorf("an invalid hierarchy should never surface as a candidate, got %+v", c)
		}
	}
}

func TestCombine_CapsAtMaxCandidates(t *testing.T) {
	cfg := config.Default()
	cfg.MaxCandidates = 1
	pot := Potentials{
		Province: []model.PotentialMatch{{NameNormalized: "ha noi", Score: 1.0, Range: model.TokenRange{Start: 0, End: 1}}},
	}
	store := fakeCombineStore{validHierarchies: map[[3]string]bool{
		{"ha noi", "", ""}: true,
	}}
	scorer := matching.NewScorer(cfg.EnsembleWeights, 100)

	out := Combine(pot, cfg, store, scorer, nil, "ha noi", normalize.DelimiterInfo{})
	if len(out) > 1 {
		t.Errorf("Combine() returned %d candidates, want at most cfg.MaxCandidates=1", len(out))
	}
}

func TestCombine_DelimiterCrossingRangeScoresLowerThanWithinSegment(t *testing.T) {
	// "quan 1 , tp hcm" tokenizes to ["quan","1","tp","hcm"] with a
	// delimiter segment boundary between token 1 ("1") and token 2 ("tp"):
	// segment 0 = [0,2) ("quan 1"), segment 1 = [2,4) ("tp hcm").
	delimInfo := normalize.DelimiterInfo{
		HasDelimiters: true,
		Segments:      []normalize.Segment{{StartToken: 0, EndToken: 2}, {StartToken: 2, EndToken: 4}},
	}
	store := fakeCombineStore{validHierarchies: map[[3]string]bool{
		{"ho chi minh", "1", ""}: true,
	}}
	cfg := config.Default()
	scorer := matching.NewScorer(cfg.EnsembleWeights, 100)

	withinPot := Potentials{
		Province: []model.PotentialMatch{{NameNormalized: "ho chi minh", Score: 1.0, Range: model.TokenRange{Start: 2, End: 4}}},
		District: []model.PotentialMatch{{NameNormalized: "1", Score: 1.0, Range: model.TokenRange{Start: 1, End: 2}}},
	}
	within := Combine(withinPot, cfg, store, scorer, nil, "quan 1 tp hcm", delimInfo)

	crossingPot := Potentials{
		Province: []model.PotentialMatch{{NameNormalized: "ho chi minh", Score: 1.0, Range: model.TokenRange{Start: 2, End: 4}}},
		District: []model.PotentialMatch{{NameNormalized: "1", Score: 1.0, Range: model.TokenRange{Start: 1, End: 3}}},
	}
	crossing := Combine(crossingPot, cfg, store, scorer, nil, "quan 1 tp hcm", delimInfo)

	if len(within) == 0 || len(crossing) == 0 {
		t.Fatalf("expected both scenarios to produce a candidate; within=%+v crossing=%+v", within, crossing)
	}
	if crossing[0].CombinedScore >= within[0].CombinedScore {
		t.Errorf("a district range crossing a delimiter segment should score lower than one that stays within its segment: crossing=%v within=%v",
			crossing[0].CombinedScore, within[0].CombinedScore)
	}
}

func TestCombine_SortedByCombinedScoreDescending(t *testing.T) {
	pot := Potentials{
		Province: []model.PotentialMatch{
			{NameNormalized: "ha noi", Score: 1.0, Range: model.TokenRange{Start: 0, End: 1}},
			{NameNormalized: "bac ninh", Score: 0.5, Range: model.TokenRange{Start: 0, End: 1}},
		},
	}
	store := fakeCombineStore{validHierarchies: map[[3]string]bool{
		{"ha noi", "", ""}:    true,
		{"bac ninh", "", ""}:  true,
	}}
	cfg := config.Default()
	scorer := matching.NewScorer(cfg.EnsembleWeights, 100)

	out := Combine(pot, cfg, store, scorer, nil, "ha noi bac ninh", normalize.DelimiterInfo{})
	for i := 1; i < len(out); i++ {
		if out[i].CombinedScore > out[i-1].CombinedScore {
			t.Errorf("candidates not sorted by descending combined score: %+v", out)
		}
	}
}
