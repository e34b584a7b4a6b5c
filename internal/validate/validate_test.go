package validate

import (
	"testing"

	"github.com/vnaddress/parser/internal/config"
	"github.com/vnaddress/parser/internal/model"
)

type fakeStore struct {
	valid bool
}

func (f fakeStore) HierarchyValid(province, district, ward string) bool {
	return f.valid
}

func TestValidate_SourceMultiplierApplied(t *testing.T) {
	cfg := config.Default()
	cands := []model.Candidate{
		{Province: "ha noi", CombinedScore: 0.9, Source: model.SourceDBExact, MatchLevel: 1, HierarchyValid: true},
		{Province: "ha noi", CombinedScore: 0.9, Source: model.SourceProvinceOnlyNoDB, MatchLevel: 1, HierarchyValid: true},
	}
	out := Validate(cands, fakeStore{valid: true}, cfg)
	if out[0].FinalConfidence <= out[1].FinalConfidence {
		t.Fatalf("expected db_exact_match candidate to outrank province_only_no_db: %+v", out)
	}
}

func TestValidate_DistrictMismatchPenalty(t *testing.T) {
	cfg := config.Default()
	cands := []model.Candidate{
		{Province: "ha noi", District: "ba dinh", CombinedScore: 0.8, Source: model.SourceDBExact, MatchLevel: 2, HierarchyValid: true, DistrictMismatch: true},
	}
	out := Validate(cands, fakeStore{valid: true}, cfg)
	want := 0.8 * cfg.SourceMultipliers.DBExactMatch * 0.30
	if diff := out[0].FinalConfidence - want; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("final confidence = %v, want %v", out[0].FinalConfidence, want)
	}
}

func TestValidate_ExternalSourceBypassesHierarchyCheck(t *testing.T) {
	cfg := config.Default()
	cands := []model.Candidate{
		{Province: "ha noi", District: "ba dinh", CombinedScore: 0.7, Source: model.SourceOSMNominatimQuery, MatchLevel: 2},
	}
	out := Validate(cands, fakeStore{valid: false}, cfg)
	if !out[0].HierarchyValid {
		t.Fatalf("expected external source to bypass DB hierarchy check")
	}
}

func TestValidate_SortOrder(t *testing.T) {
	cfg := config.Default()
	cands := []model.Candidate{
		{Province: "a", CombinedScore: 0.5, Source: model.SourceDBExact, MatchLevel: 1, HierarchyValid: true},
		{Province: "b", CombinedScore: 0.9, Source: model.SourceDBExact, MatchLevel: 3, HierarchyValid: true},
		{Province: "c", CombinedScore: 0.9, Source: model.SourceDBExact, MatchLevel: 1, HierarchyValid: true},
	}
	out := Validate(cands, fakeStore{valid: true}, cfg)
	if out[0].Province != "b" {
		t.Fatalf("expected highest confidence+match level first, got %+v", out)
	}
}

func TestValidate_FallbackFormulaWhenNoCombinedScore(t *testing.T) {
	cfg := config.Default()
	cands := []model.Candidate{
		{Province: "ha noi", ProvinceScore: 0.9, MatchLevel: 1, HierarchyValid: true, Source: model.SourceDBExact},
	}
	out := Validate(cands, fakeStore{valid: true}, cfg)
	if out[0].FinalConfidence <= 0 {
		t.Fatalf("expected nonzero fallback confidence, got %v", out[0].FinalConfidence)
	}
}
