package extract

import (
	"testing"

	"github.com/vnaddress/parser/internal/model"
)

func TestProximityScore_AdjacentTokensScoreHigh(t *testing.T) {
	ward := model.TokenRange{Start: 0, End: 1}
	district := model.TokenRange{Start: 1, End: 2}
	province := model.TokenRange{Start: 2, End: 3}

	got := ProximityScore(province, district, ward, true, true, true)
	if got != 1.0 {
		t.Errorf("ProximityScore for all-adjacent tokens = %v, want 1.0", got)
	}
}

func TestProximityScore_NoPositionsDefaultsToHalf(t *testing.T) {
	got := ProximityScore(model.NoPosition, model.NoPosition, model.NoPosition, true, true, true)
	if got != 0.5 {
		t.Errorf("ProximityScore with no positions = %v, want 0.5", got)
	}
}

func TestProximityScore_WardProvinceOnlyWhenNoDistrict(t *testing.T) {
	ward := model.TokenRange{Start: 0, End: 1}
	province := model.TokenRange{Start: 1, End: 2}
	got := ProximityScore(province, model.NoPosition, ward, true, false, true)
	if got != 1.0 {
		t.Errorf("ProximityScore(ward<->province, no district) = %v, want 1.0", got)
	}
}

func TestInGeographicOrder(t *testing.T) {
	ward := model.TokenRange{Start: 0, End: 1}
	district := model.TokenRange{Start: 1, End: 2}
	province := model.TokenRange{Start: 2, End: 3}
	if !InGeographicOrder(province, district, ward, true, true, true) {
		t.Error("ward < district < province should be in geographic order")
	}

	reversedProvince := model.TokenRange{Start: 0, End: 1}
	reversedWard := model.TokenRange{Start: 2, End: 3}
	if InGeographicOrder(reversedProvince, district, reversedWard, true, true, true) {
		t.Error("province before ward should not be in geographic order")
	}
}

func TestInGeographicOrder_FewerThanTwoLevelsIsFalse(t *testing.T) {
	ward := model.TokenRange{Start: 0, End: 1}
	if InGeographicOrder(model.NoPosition, model.NoPosition, ward, false, false, true) {
		t.Error("a single present level cannot be \"in order\"")
	}
}
