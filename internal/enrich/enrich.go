// Package enrich implements the Candidate Enricher (P4): a
// pass-through component that deduplicates by (province, district, ward)
// and populates original-case full names from the Reference Store.
package enrich

import (
	"github.com/vnaddress/parser/internal/config"
	"github.com/vnaddress/parser/internal/model"
)

// Store is the subset of the Reference Store the Enricher needs to look
// up original-case full names, one level at a time so a province-only
// candidate never borrows district/ward strings from an arbitrary row.
type Store interface {
	FindAdminProvinceOnly(provinceNorm string) (full string, ok bool)
	FindAdminDistrictOnly(provinceNorm, districtNorm string) (full string, ok bool)
	FindAdminWardOnly(provinceNorm, districtNorm, wardNorm string) (full string, ok bool)
}

func sourceWeight(sm config.SourceMultipliers, source model.MatchSource) float64 {
	switch source {
	case model.SourceDBExact:
		return sm.DBExactMatch
	case model.SourceDisambiguationAsWard:
		return sm.DisambiguationAsWard
	case model.SourceDisambiguationAsDistrict:
		return sm.DisambiguationAsDistrict
	case model.SourceOSMNominatimBBox:
		return sm.OSMNominatimBBox
	case model.SourceOSMNominatimQuery:
		return sm.OSMNominatimQuery
	case model.SourceStreetBased:
		return sm.StreetBased
	case model.SourceProvinceOnlyNoDB:
		return sm.ProvinceOnlyNoDB
	default:
		return sm.Default
	}
}

// Enrich deduplicates candidates by (province, district, ward), keeping
// the one with the highest confidence*source_weight, then populates full
// names from store.
func Enrich(candidates []model.Candidate, store Store, sm config.SourceMultipliers) []model.Candidate {
	type key struct{ p, d, w string }
	best := map[key]model.Candidate{}
	order := []key{}
	for _, c := range candidates {
		k := key{c.Province, c.District, c.Ward}
		weighted := c.Confidence * sourceWeight(sm, c.Source)
		if existing, ok := best[k]; !ok {
			order = append(order, k)
			best[k] = c
		} else if weighted > existing.Confidence*sourceWeight(sm, existing.Source) {
			best[k] = c
		}
	}

	out := make([]model.Candidate, 0, len(order))
	for _, k := range order {
		c := best[k]
		if c.Province != "" {
			if full, ok := store.FindAdminProvinceOnly(c.Province); ok {
				c.ProvinceFull = full
			}
		}
		if c.District != "" {
			if full, ok := store.FindAdminDistrictOnly(c.Province, c.District); ok {
				c.DistrictFull = full
			}
		}
		if c.Ward != "" {
			if full, ok := store.FindAdminWardOnly(c.Province, c.District, c.Ward); ok {
				c.WardFull = full
			}
		}
		out = append(out, c)
	}
	return out
}
