package postprocess

import (
	"strings"
	"testing"

	"github.com/vnaddress/parser/internal/config"
	"github.com/vnaddress/parser/internal/model"
)

func tokens(words ...string) []model.Token {
	out := make([]model.Token, len(words))
	for i, w := range words {
		out[i] = model.Token{Text: w, Index: i}
	}
	return out
}

func TestRun_EmptyCandidatesYieldsFailed(t *testing.T) {
	out, q := Run(nil, nil, config.Default())
	if q != model.QualityFailed {
		t.Fatalf("quality = %v, want failed", q)
	}
	if out.Province != "" || out.District != "" {
		t.Fatalf("expected all-null formatted output, got %+v", out)
	}
}

func TestRun_RemainderByTokenSubtraction(t *testing.T) {
	toks := tokens("19", "hoang", "dieu", "ba", "dinh", "ha", "noi")
	cands := []model.Candidate{
		{
			Province: "ha noi", District: "ba dinh",
			ProvinceFull: "Thành phố Hà Nội", DistrictFull: "Quận Ba Đình",
			ProvinceTokens: model.TokenRange{Start: 5, End: 7},
			DistrictTokens: model.TokenRange{Start: 3, End: 5},
			WardTokens:     model.NoPosition,
			MatchLevel:     2, FinalConfidence: 0.9,
			NormalizedTokens: toks,
		},
	}
	out, q := Run(cands, nil, config.Default())
	if q != model.QualityPartialAddress {
		t.Fatalf("quality = %v, want partial_address", q)
	}
	if !strings.Contains(out.Remaining1, "HOANG") || !strings.Contains(out.Remaining1, "19") {
		t.Fatalf("remaining1 = %q, expected it to retain unmatched tokens", out.Remaining1)
	}
	if strings.Contains(out.Remaining1, "DINH") {
		t.Fatalf("remaining1 = %q, should not contain matched district tokens", out.Remaining1)
	}
	if out.Province != "Thành Phố Hà Nội" {
		t.Fatalf("province = %q, want capitalized full name", out.Province)
	}
}

func TestRun_LongRemainderSplitsIntoThreeChunks(t *testing.T) {
	words := make([]string, 0, 30)
	for i := 0; i < 30; i++ {
		words = append(words, "tu")
	}
	toks := tokens(words...)
	cands := []model.Candidate{
		{
			Province: "ha noi", ProvinceFull: "THÀNH PHỐ HÀ NỘI",
			ProvinceTokens: model.NoPosition, DistrictTokens: model.NoPosition, WardTokens: model.NoPosition,
			MatchLevel: 1, FinalConfidence: 0.65, NormalizedTokens: toks,
		},
	}
	out, q := Run(cands, nil, config.Default())
	if q != model.QualityProvinceOnly {
		t.Fatalf("quality = %v, want province_only", q)
	}
	if out.Remaining2 == "" {
		t.Fatalf("expected remaining2 to be populated for a long remainder")
	}
	if out.Remaining1 != strings.ToUpper(out.Remaining1) {
		t.Fatalf("remaining chunks should be uppercase, got %q", out.Remaining1)
	}
}

func TestRun_FailedBelowThreshold(t *testing.T) {
	cands := []model.Candidate{
		{Province: "ha noi", MatchLevel: 1, FinalConfidence: 0.3, NormalizedTokens: tokens("ha", "noi")},
	}
	_, q := Run(cands, nil, config.Default())
	if q != model.QualityFailed {
		t.Fatalf("quality = %v, want failed", q)
	}
}
