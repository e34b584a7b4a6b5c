// Package referencestore implements the Reference Store and the
// Token Index: read-only, process-wide, lazily-built accessors over the
// administrative reference data.
package referencestore

import "github.com/vnaddress/parser/internal/model"

// AdminRecord is the result of a find_admin lookup: canonical originals
// and prefixes for whichever levels were resolved.
type AdminRecord struct {
	Province model.Province
	District model.District
	Ward     model.Ward
}

// Collision describes a name that exists simultaneously as a province and
// a district.
type Collision struct {
	IsProvince       bool
	Province         model.Province
	IsDistrict       bool
	District         model.District
	DistrictProvince string // normalized province that owns District, when IsDistrict
}

// Store is the read-only Reference Store contract. Every accessor
// is idempotent and side-effect-free. InMemoryStore loads its data once and
// keeps it for its lifetime; the contract has no invalidation method.
type Store interface {
	ProvinceSet() map[string]bool
	DistrictSet() map[string]bool
	WardSet() map[string]bool
	StreetSet() map[string]bool

	DistrictsOf(provinceNorm string) []model.District
	WardsOf(provinceNorm, districtNorm string) []model.Ward
	StreetsOf(provinceNorm, districtNorm string) []model.Street // districtNorm == "" means all districts

	FindAdmin(provinceNorm, districtNorm, wardNorm string) (AdminRecord, bool)
	HierarchyValid(provinceNorm, districtNorm, wardNorm string) bool

	InferDistrictFromWard(provinceNorm, wardNorm string) (string, bool)
	InferProvinceFromDistrict(districtNorm string) (string, bool)

	ProvinceDistrictCollision(nameNorm string) (Collision, bool)

	Abbreviations(provinceCtx, districtCtx string) map[string]string
	ExpandAbbreviation(key, provinceCtx, districtCtx string) (string, bool)

	// AllProvinces/AllDistricts/AllWards/AllStreets expose the full
	// reference rows for Token Index construction.
	AllProvinces() []model.Province
	AllDistricts() []model.District
	AllWards() []model.Ward
	AllStreets() []model.Street
}
