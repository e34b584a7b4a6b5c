package preprocess

import (
	"strings"
	"testing"

	"github.com/vnaddress/parser/internal/config"
)

type fakeStore struct {
	provinces map[string]bool
	abbrevs   map[string]string
}

func (f fakeStore) ExpandAbbreviation(key, provinceCtx, districtCtx string) (string, bool) {
	v, ok := f.abbrevs[key]
	return v, ok
}

func (f fakeStore) ProvinceSet() map[string]bool {
	return f.provinces
}

func TestPreprocessor_Run_EmptyInput(t *testing.T) {
	p := New(fakeStore{provinces: map[string]bool{}}, config.Default())
	got := p.Run("", "", "")
	if got.Normalized != "" {
		t.Errorf("Run(\"\") Normalized = %q, want empty", got.Normalized)
	}
	if got.Delimiter.NumberTokens == nil {
		t.Error("Run(\"\") should still return a usable Delimiter.NumberTokens map")
	}
}

func TestPreprocessor_Run_BasicNormalization(t *testing.T) {
	p := New(fakeStore{provinces: map[string]bool{}}, config.Default())
	got := p.Run("123 Đường Láng, Hà Nội", "", "")
	if got.Normalized == "" {
		t.Fatal("Run() returned an empty Normalized string for non-empty input")
	}
	if got.Original != "123 Đường Láng, Hà Nội" {
		t.Errorf("Run() Original = %q, want the raw input preserved", got.Original)
	}
}

func TestPreprocessor_Run_HintsDriveContext(t *testing.T) {
	p := New(fakeStore{provinces: map[string]bool{}}, config.Default())
	got := p.Run("quan 1", "Thành Phố Hồ Chí Minh", "Quận 1")
	if got.ProvinceContext != "ho chi minh" {
		t.Errorf("ProvinceContext = %q, want %q", got.ProvinceContext, "ho chi minh")
	}
	if got.DistrictContext != "1" {
		t.Errorf("DistrictContext = %q, want %q", got.DistrictContext, "1")
	}
}

func TestPreprocessor_Run_IterativeProvinceDiscovery(t *testing.T) {
	store := fakeStore{
		provinces: map[string]bool{"ha noi": true},
		abbrevs: map[string]string{
			"hn": "ha noi",
		},
	}
	p := New(store, config.Default())
	got := p.Run("P.5 Q.10 HN", "", "")
	if got.ProvinceContext != "ha noi" {
		t.Errorf("expected iterative discovery to set ProvinceContext to %q, got %q", "ha noi", got.ProvinceContext)
	}
}

func TestPreprocessor_Run_NoAbbreviationTokensSkipsDiscovery(t *testing.T) {
	store := fakeStore{provinces: map[string]bool{"ha noi": true}}
	p := New(store, config.Default())
	got := p.Run("phuong ben thanh quan 1", "", "")
	if got.ProvinceContext != "" {
		t.Errorf("without likely abbreviation tokens, discovery should not run; got ProvinceContext=%q", got.ProvinceContext)
	}
}

func TestPreprocessor_Run_SlashNumberSurvivesFinalization(t *testing.T) {
	p := New(fakeStore{provinces: map[string]bool{}}, config.Default())
	got := p.Run("55/2 Nguyen Trai", "", "")
	if !strings.Contains(got.Normalized, "55/2") {
		t.Errorf("Normalized = %q, want it to still contain the address number %q instead of collapsing it", got.Normalized, "55/2")
	}
	if strings.Contains(got.Normalized, "552") {
		t.Errorf("Normalized = %q, slash-number %q should not collapse into %q", got.Normalized, "55/2", "552")
	}
}
