package extract

import "github.com/vnaddress/parser/internal/model"

// gapScore maps a token gap to a proximity contribution.
func gapScore(gap int) float64 {
	switch {
	case gap <= 1:
		return 1.0
	case gap <= 3:
		return 0.6
	case gap <= 5:
		return 0.3
	default:
		return 0.1
	}
}

// ProximityScore computes the pairwise token-gap proximity: the
// average of (ward<->district, district<->province) when a district is
// present, or (ward<->province) otherwise. Levels whose range carries no
// position (hint/inferred) do not contribute a pair. Defaults to 0.5 when
// no pairs are available.
func ProximityScore(provinceTokens, districtTokens, wardTokens model.TokenRange, hasProvince, hasDistrict, hasWard bool) float64 {
	var scores []float64

	if hasWard && hasDistrict && wardTokens.HasPosition() && districtTokens.HasPosition() {
		scores = append(scores, gapScore(gap(wardTokens, districtTokens)))
	}
	if hasDistrict && hasProvince && districtTokens.HasPosition() && provinceTokens.HasPosition() {
		scores = append(scores, gapScore(gap(districtTokens, provinceTokens)))
	}
	if !hasDistrict && hasWard && hasProvince && wardTokens.HasPosition() && provinceTokens.HasPosition() {
		scores = append(scores, gapScore(gap(wardTokens, provinceTokens)))
	}

	if len(scores) == 0 {
		return 0.5
	}
	sum := 0.0
	for _, s := range scores {
		sum += s
	}
	return sum / float64(len(scores))
}

// gap returns the number of tokens between the two ranges in text order
// (later start minus earlier end, whichever range starts first);
// overlapping ranges give 0.
func gap(a, b model.TokenRange) int {
	lo, hi := a, b
	if hi.Start < lo.Start {
		lo, hi = hi, lo
	}
	g := hi.Start - lo.End
	if g < 0 {
		g = 0
	}
	return g
}

// InGeographicOrder reports whether the present levels' token ranges start
// in the order ward, district, province from left to right in the source
// text.
func InGeographicOrder(provinceTokens, districtTokens, wardTokens model.TokenRange, hasProvince, hasDistrict, hasWard bool) bool {
	type lvl struct {
		r      model.TokenRange
		weight int // ward=0, district=1, province=2 -- must appear in increasing start order
	}
	var present []lvl
	if hasWard && wardTokens.HasPosition() {
		present = append(present, lvl{wardTokens, 0})
	}
	if hasDistrict && districtTokens.HasPosition() {
		present = append(present, lvl{districtTokens, 1})
	}
	if hasProvince && provinceTokens.HasPosition() {
		present = append(present, lvl{provinceTokens, 2})
	}
	if len(present) < 2 {
		return false
	}
	for i := 1; i < len(present); i++ {
		if present[i].weight <= present[i-1].weight {
			continue
		}
		if present[i].r.Start < present[i-1].r.Start {
			return false
		}
	}
	return true
}
