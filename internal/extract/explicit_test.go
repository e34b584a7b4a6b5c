package extract

import "testing"

func TestDetectExplicitPatterns_DistrictAndWard(t *testing.T) {
	tokens := []string{"phuong", "ben", "thanh", "quan", "1"}
	got := DetectExplicitPatterns(tokens)

	var ward, district *ExplicitMatch
	for i := range got {
		switch got[i].Level {
		case "ward":
			ward = &got[i]
		case "district":
			district = &got[i]
		}
	}
	if ward == nil || ward.Name != "ben thanh" {
		t.Fatalf("expected a ward match \"ben thanh\", got %+v", got)
	}
	if district == nil || district.Name != "1" {
		t.Fatalf("expected a district match \"1\" (numeric-normalized), got %+v", got)
	}
}

func TestDetectExplicitPatterns_NoiseWordDisqualifies(t *testing.T) {
	tokens := []string{"quan", "ubnd", "thanh", "pho"}
	got := DetectExplicitPatterns(tokens)
	for _, m := range got {
		if m.Level == "district" {
			t.Errorf("a span containing a noise word should be discarded, got %+v", m)
		}
	}
}

func TestDetectExplicitPatterns_StopsAtNextKeyword(t *testing.T) {
	tokens := []string{"quan", "1", "phuong", "ben", "thanh"}
	got := DetectExplicitPatterns(tokens)
	for _, m := range got {
		if m.Level == "district" && m.Name != "1" {
			t.Errorf("district span should stop before the next admin keyword, got %+v", m)
		}
	}
}

func TestDetectExplicitPatterns_NoSpanAfterKeyword(t *testing.T) {
	tokens := []string{"quan"}
	got := DetectExplicitPatterns(tokens)
	if len(got) != 0 {
		t.Errorf("a keyword with nothing following should produce no match, got %+v", got)
	}
}
