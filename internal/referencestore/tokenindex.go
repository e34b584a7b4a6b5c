package referencestore

import (
	"strings"
	"sync"

	"github.com/vnaddress/parser/internal/model"
)

// TokenIndex is the inverted index from a single normalized token to
// the set of administrative records whose normalized name contains it,
// kept per level. Built once, lazily, from a Store (single-flighted via
// sync.Once), grounded on original_source/src/utils/token_index.py.
type TokenIndex struct {
	store Store

	once sync.Once
	err  error

	provinceTok map[string][]model.Province
	districtTok map[string][]model.District
	wardTok     map[string][]model.Ward
}

// NewTokenIndex builds an index over store; nothing is read from store
// until the first lookup.
func NewTokenIndex(store Store) *TokenIndex {
	return &TokenIndex{store: store}
}

func (idx *TokenIndex) ensureBuilt() {
	idx.once.Do(func() {
		idx.provinceTok = map[string][]model.Province{}
		idx.districtTok = map[string][]model.District{}
		idx.wardTok = map[string][]model.Ward{}

		for _, p := range idx.store.AllProvinces() {
			for _, tok := range strings.Fields(p.Normalized) {
				idx.provinceTok[tok] = append(idx.provinceTok[tok], p)
			}
		}
		for _, d := range idx.store.AllDistricts() {
			for _, tok := range strings.Fields(d.Normalized) {
				idx.districtTok[tok] = append(idx.districtTok[tok], d)
			}
		}
		for _, w := range idx.store.AllWards() {
			for _, tok := range strings.Fields(w.Normalized) {
				idx.wardTok[tok] = append(idx.wardTok[tok], w)
			}
		}
	})
}

// adaptiveMinOverlap implements the rule "≥2 tokens in query -> min_overlap=2,
// else 1" policy when the caller passes minOverlap<=0.
func adaptiveMinOverlap(query string, minOverlap int) int {
	if minOverlap > 0 {
		return minOverlap
	}
	if len(strings.Fields(query)) >= 2 {
		return 2
	}
	return 1
}

// ProvinceCandidates returns provinces sharing >= minOverlap tokens with
// query (minOverlap<=0 selects the adaptive policy).
func (idx *TokenIndex) ProvinceCandidates(query string, minOverlap int) []model.Province {
	idx.ensureBuilt()
	minOverlap = adaptiveMinOverlap(query, minOverlap)
	counts := map[string]int{}
	seen := map[string]model.Province{}
	for _, tok := range strings.Fields(query) {
		for _, p := range idx.provinceTok[tok] {
			counts[p.Normalized]++
			seen[p.Normalized] = p
		}
	}
	var out []model.Province
	for norm, c := range counts {
		if c >= minOverlap {
			out = append(out, seen[norm])
		}
	}
	return out
}

// DistrictCandidates returns districts sharing >= minOverlap tokens with
// query, optionally filtered to a province.
func (idx *TokenIndex) DistrictCandidates(query, provinceFilter string, minOverlap int) []model.District {
	idx.ensureBuilt()
	minOverlap = adaptiveMinOverlap(query, minOverlap)
	counts := map[string]int{}
	seen := map[string]model.District{}
	for _, tok := range strings.Fields(query) {
		for _, d := range idx.districtTok[tok] {
			if provinceFilter != "" && d.ProvinceNorm != provinceFilter {
				continue
			}
			key := d.ProvinceNorm + "\x00" + d.Normalized
			counts[key]++
			seen[key] = d
		}
	}
	var out []model.District
	for key, c := range counts {
		if c >= minOverlap {
			out = append(out, seen[key])
		}
	}
	return out
}

// WardCandidates returns wards sharing >= minOverlap tokens with query,
// optionally filtered by province and/or district.
func (idx *TokenIndex) WardCandidates(query, provinceFilter, districtFilter string, minOverlap int) []model.Ward {
	idx.ensureBuilt()
	minOverlap = adaptiveMinOverlap(query, minOverlap)
	counts := map[string]int{}
	seen := map[string]model.Ward{}
	for _, tok := range strings.Fields(query) {
		for _, w := range idx.wardTok[tok] {
			if provinceFilter != "" && w.ProvinceNorm != provinceFilter {
				continue
			}
			if districtFilter != "" && w.DistrictNorm != districtFilter {
				continue
			}
			key := w.ProvinceNorm + "\x00" + w.DistrictNorm + "\x00" + w.Normalized
			counts[key]++
			seen[key] = w
		}
	}
	var out []model.Ward
	for key, c := range counts {
		if c >= minOverlap {
			out = append(out, seen[key])
		}
	}
	return out
}

// Stats reports the size of each per-level index, for diagnostics.
func (idx *TokenIndex) Stats() (provinceTokens, districtTokens, wardTokens int) {
	idx.ensureBuilt()
	return len(idx.provinceTok), len(idx.districtTok), len(idx.wardTok)
}
