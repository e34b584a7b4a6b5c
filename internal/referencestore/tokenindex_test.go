package referencestore

import "testing"

func TestTokenIndex_ProvinceCandidates(t *testing.T) {
	store := NewInMemoryStore(fixtureSource())
	idx := NewTokenIndex(store)

	got := idx.ProvinceCandidates("ha noi", 0)
	if len(got) != 1 || got[0].Normalized != "ha noi" {
		t.Fatalf("ProvinceCandidates(\"ha noi\") = %+v, want [ha noi]", got)
	}

	if got := idx.ProvinceCandidates("bac ninh", 0); len(got) != 1 || got[0].Normalized != "bac ninh" {
		t.Errorf("ProvinceCandidates(\"bac ninh\") = %+v, want [bac ninh]", got)
	}
}

func TestTokenIndex_DistrictCandidates_ProvinceFiltered(t *testing.T) {
	store := NewInMemoryStore(fixtureSource())
	idx := NewTokenIndex(store)

	got := idx.DistrictCandidates("ba dinh", "ha noi", 0)
	if len(got) != 1 || got[0].Normalized != "ba dinh" {
		t.Fatalf("DistrictCandidates(\"ba dinh\", \"ha noi\") = %+v, want [ba dinh]", got)
	}

	// Filtering by an unrelated province should exclude it.
	if got := idx.DistrictCandidates("ba dinh", "bac ninh", 0); len(got) != 0 {
		t.Errorf("DistrictCandidates with a mismatched province filter = %+v, want empty", got)
	}
}

func TestTokenIndex_WardCandidates_ScopedToProvinceAndDistrict(t *testing.T) {
	store := NewInMemoryStore(fixtureSource())
	idx := NewTokenIndex(store)

	got := idx.WardCandidates("phuc xa", "ha noi", "ba dinh", 0)
	if len(got) != 1 || got[0].Normalized != "phuc xa" {
		t.Fatalf("WardCandidates(\"phuc xa\") = %+v, want [phuc xa]", got)
	}
}

func TestAdaptiveMinOverlap(t *testing.T) {
	if got := adaptiveMinOverlap("ba dinh", 0); got != 2 {
		t.Errorf("adaptiveMinOverlap with 2 query tokens = %v, want 2", got)
	}
	if got := adaptiveMinOverlap("hanoi", 0); got != 1 {
		t.Errorf("adaptiveMinOverlap with 1 query token = %v, want 1", got)
	}
	if got := adaptiveMinOverlap("hanoi", 3); got != 3 {
		t.Errorf("adaptiveMinOverlap with an explicit minOverlap should not be overridden, got %v", got)
	}
}
