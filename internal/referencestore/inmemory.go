package referencestore

import (
	"strings"
	"sync"

	"github.com/vnaddress/parser/internal/model"
	"github.com/vnaddress/parser/internal/normalize"
)

// AdminDivisionRow mirrors one row of the admin_divisions
// table: a (province, district, ward) tuple with original and normalized
// forms at every level.
type AdminDivisionRow struct {
	ProvinceFull, ProvinceName, ProvinceNormalized string
	DistrictFull, DistrictName, DistrictNormalized string
	WardFull, WardName, WardNormalized             string
	StateCode, CountyCode                          string
}

// StreetRow mirrors one row of admin_streets.
type StreetRow struct {
	ProvinceNameNormalized, DistrictNameNormalized string
	StreetName, StreetNameNormalized               string
}

// AbbreviationRow mirrors one row of abbreviations.
type AbbreviationRow struct {
	Key, Word                       string
	ProvinceContext, DistrictContext string
}

// DataSource loads the three reference tables once; InMemoryStore builds
// its caches from whatever it returns. Implementations: StaticDataSource
// (tests/seeding) and the SQL-backed loader in sql.go.
type DataSource interface {
	LoadAdminDivisions() ([]AdminDivisionRow, error)
	LoadStreets() ([]StreetRow, error)
	LoadAbbreviations() ([]AbbreviationRow, error)
}

// StaticDataSource serves reference rows already held in memory — used by
// tests and by callers that have their own loading/seeding pipeline.
type StaticDataSource struct {
	Divisions     []AdminDivisionRow
	Streets       []StreetRow
	Abbreviations []AbbreviationRow
}

func (s StaticDataSource) LoadAdminDivisions() ([]AdminDivisionRow, error) { return s.Divisions, nil }
func (s StaticDataSource) LoadStreets() ([]StreetRow, error)               { return s.Streets, nil }
func (s StaticDataSource) LoadAbbreviations() ([]AbbreviationRow, error)   { return s.Abbreviations, nil }

// InMemoryStore is the default Reference Store backend: it loads the
// reference data once (single-flighted via sync.Once) and answers
// every accessor from in-memory indices thereafter.
type InMemoryStore struct {
	source DataSource

	once sync.Once
	err  error

	provinces map[string]model.Province // key: normalized
	districts map[string][]model.District // key: province_norm
	wards     map[string]map[string][]model.Ward // key: province_norm -> district_norm -> wards
	streets   map[string]map[string][]model.Street // key: province_norm -> district_norm -> streets

	districtOwner map[string][]string // district_norm -> []province_norm (collision-aware)
	wardOwner     map[string][][2]string // ward_norm -> []{province_norm, district_norm}

	provinceSet map[string]bool
	districtSet map[string]bool
	wardSet     map[string]bool
	streetSet   map[string]bool

	allDistrictsFlat []model.District
	allWardsFlat     []model.Ward
	allStreetsFlat   []model.Street

	abbrevs []model.Abbreviation

	stateCodes  map[string]string // province_norm -> state_code
	countyCodes map[string]string // province_norm\x00district_norm -> county_code
}

// NewInMemoryStore builds a store backed by source; data is not loaded
// until the first accessor call (lazy build).
func NewInMemoryStore(source DataSource) *InMemoryStore {
	return &InMemoryStore{source: source}
}

func (s *InMemoryStore) ensureLoaded() error {
	s.once.Do(func() {
		s.err = s.load()
	})
	return s.err
}

func (s *InMemoryStore) load() error {
	s.provinces = map[string]model.Province{}
	s.districts = map[string][]model.District{}
	s.wards = map[string]map[string][]model.Ward{}
	s.streets = map[string]map[string][]model.Street{}
	s.districtOwner = map[string][]string{}
	s.wardOwner = map[string][][2]string{}
	s.provinceSet = map[string]bool{}
	s.districtSet = map[string]bool{}
	s.wardSet = map[string]bool{}
	s.streetSet = map[string]bool{}
	s.stateCodes = map[string]string{}
	s.countyCodes = map[string]string{}

	rows, err := s.source.LoadAdminDivisions()
	if err != nil {
		return err
	}
	seenDistrict := map[string]bool{} // province+district dedup
	seenWard := map[string]bool{}     // province+district+ward dedup
	for _, r := range rows {
		if _, ok := s.provinces[r.ProvinceNormalized]; !ok {
			s.provinces[r.ProvinceNormalized] = model.Province{
				Full: r.ProvinceFull, Name: r.ProvinceName, Normalized: r.ProvinceNormalized,
				Prefix: prefixOf(r.ProvinceFull),
			}
			s.provinceSet[r.ProvinceNormalized] = true
		}
		if r.StateCode != "" {
			s.stateCodes[r.ProvinceNormalized] = r.StateCode
		}
		if r.CountyCode != "" && r.DistrictNormalized != "" {
			s.countyCodes[r.ProvinceNormalized+"\x00"+r.DistrictNormalized] = r.CountyCode
		}

		if r.DistrictNormalized != "" {
			dkey := r.ProvinceNormalized + "\x00" + r.DistrictNormalized
			if !seenDistrict[dkey] {
				seenDistrict[dkey] = true
				d := model.District{
					Full: r.DistrictFull, Name: r.DistrictName, Normalized: r.DistrictNormalized,
					Prefix: prefixOf(r.DistrictFull), ProvinceNorm: r.ProvinceNormalized,
				}
				s.districts[r.ProvinceNormalized] = append(s.districts[r.ProvinceNormalized], d)
				s.allDistrictsFlat = append(s.allDistrictsFlat, d)
				s.districtSet[r.DistrictNormalized] = true
				s.districtOwner[r.DistrictNormalized] = append(s.districtOwner[r.DistrictNormalized], r.ProvinceNormalized)
			}
		}

		if r.WardNormalized != "" && r.DistrictNormalized != "" {
			wkey := r.ProvinceNormalized + "\x00" + r.DistrictNormalized + "\x00" + r.WardNormalized
			if !seenWard[wkey] {
				seenWard[wkey] = true
				w := model.Ward{
					Full: r.WardFull, Name: r.WardName, Normalized: r.WardNormalized,
					Prefix: prefixOf(r.WardFull), ProvinceNorm: r.ProvinceNormalized, DistrictNorm: r.DistrictNormalized,
				}
				if s.wards[r.ProvinceNormalized] == nil {
					s.wards[r.ProvinceNormalized] = map[string][]model.Ward{}
				}
				s.wards[r.ProvinceNormalized][r.DistrictNormalized] = append(s.wards[r.ProvinceNormalized][r.DistrictNormalized], w)
				s.allWardsFlat = append(s.allWardsFlat, w)
				s.wardSet[r.WardNormalized] = true
				s.wardOwner[r.WardNormalized] = append(s.wardOwner[r.WardNormalized], [2]string{r.ProvinceNormalized, r.DistrictNormalized})
			}
		}
	}

	streetRows, err := s.source.LoadStreets()
	if err != nil {
		return err
	}
	for _, r := range streetRows {
		st := model.Street{
			ProvinceNorm: r.ProvinceNameNormalized, DistrictNorm: r.DistrictNameNormalized,
			Normalized: r.StreetNameNormalized, Original: r.StreetName,
		}
		if s.streets[st.ProvinceNorm] == nil {
			s.streets[st.ProvinceNorm] = map[string][]model.Street{}
		}
		s.streets[st.ProvinceNorm][st.DistrictNorm] = append(s.streets[st.ProvinceNorm][st.DistrictNorm], st)
		s.allStreetsFlat = append(s.allStreetsFlat, st)
		s.streetSet[st.Normalized] = true
	}

	abbrRows, err := s.source.LoadAbbreviations()
	if err != nil {
		return err
	}
	for _, r := range abbrRows {
		s.abbrevs = append(s.abbrevs, model.Abbreviation{
			Key: r.Key, Word: r.Word, ProvinceContext: r.ProvinceContext, DistrictContext: r.DistrictContext,
		})
	}
	return nil
}

// adminPrefixes mirrors normalize.StripAdminPrefixes's pattern list,
// longest/most-specific first, as the plain tokens it strips.
var adminPrefixes = []string{"thanh pho", "tinh", "thi xa", "thi tran", "quan", "huyen", "phuong", "xa"}

// prefixOf extracts the normalized administrative prefix token ("thanh
// pho", "quan", ...) a Full display name starts with, or "" if none match.
func prefixOf(full string) string {
	norm := normalize.FinalizeNormalization(normalize.StripDiacritics(normalize.NFC(full)))
	for _, p := range adminPrefixes {
		if norm == p || strings.HasPrefix(norm, p+" ") {
			return p
		}
	}
	return ""
}

func (s *InMemoryStore) ProvinceSet() map[string]bool {
	s.ensureLoaded()
	return s.provinceSet
}

func (s *InMemoryStore) DistrictSet() map[string]bool {
	s.ensureLoaded()
	return s.districtSet
}

func (s *InMemoryStore) WardSet() map[string]bool {
	s.ensureLoaded()
	return s.wardSet
}

func (s *InMemoryStore) StreetSet() map[string]bool {
	s.ensureLoaded()
	return s.streetSet
}

func (s *InMemoryStore) DistrictsOf(provinceNorm string) []model.District {
	s.ensureLoaded()
	return s.districts[provinceNorm]
}

func (s *InMemoryStore) WardsOf(provinceNorm, districtNorm string) []model.Ward {
	s.ensureLoaded()
	if m, ok := s.wards[provinceNorm]; ok {
		return m[districtNorm]
	}
	return nil
}

func (s *InMemoryStore) StreetsOf(provinceNorm, districtNorm string) []model.Street {
	s.ensureLoaded()
	m, ok := s.streets[provinceNorm]
	if !ok {
		return nil
	}
	if districtNorm == "" {
		var all []model.Street
		for _, v := range m {
			all = append(all, v...)
		}
		return all
	}
	return m[districtNorm]
}

func (s *InMemoryStore) FindAdmin(provinceNorm, districtNorm, wardNorm string) (AdminRecord, bool) {
	s.ensureLoaded()
	nonEmpty := 0
	if provinceNorm != "" {
		nonEmpty++
	}
	if districtNorm != "" {
		nonEmpty++
	}
	if wardNorm != "" {
		nonEmpty++
	}
	if nonEmpty < 2 {
		return AdminRecord{}, false
	}

	var rec AdminRecord
	found := false
	if provinceNorm != "" {
		if p, ok := s.provinces[provinceNorm]; ok {
			rec.Province = p
			found = true
		} else {
			return AdminRecord{}, false
		}
	}
	if districtNorm != "" {
		for _, d := range s.districts[provinceNorm] {
			if d.Normalized == districtNorm {
				rec.District = d
				found = true
				break
			}
		}
		if rec.District.Normalized == "" {
			return AdminRecord{}, false
		}
	}
	if wardNorm != "" {
		for _, w := range s.wards[provinceNorm][districtNorm] {
			if w.Normalized == wardNorm {
				rec.Ward = w
				found = true
				break
			}
		}
		if rec.Ward.Normalized == "" {
			return AdminRecord{}, false
		}
	}
	return rec, found
}

// FindAdminProvinceOnly looks up a province's original-case full name,
// used by the Candidate Enricher so a province-only candidate never
// borrows district/ward strings from an arbitrary row.
func (s *InMemoryStore) FindAdminProvinceOnly(provinceNorm string) (string, bool) {
	s.ensureLoaded()
	p, ok := s.provinces[provinceNorm]
	if !ok {
		return "", false
	}
	return p.Full, true
}

// FindAdminDistrictOnly looks up a district's original-case full name.
func (s *InMemoryStore) FindAdminDistrictOnly(provinceNorm, districtNorm string) (string, bool) {
	s.ensureLoaded()
	for _, d := range s.districts[provinceNorm] {
		if d.Normalized == districtNorm {
			return d.Full, true
		}
	}
	return "", false
}

// FindAdminWardOnly looks up a ward's original-case full name.
func (s *InMemoryStore) FindAdminWardOnly(provinceNorm, districtNorm, wardNorm string) (string, bool) {
	s.ensureLoaded()
	for _, w := range s.wards[provinceNorm][districtNorm] {
		if w.Normalized == wardNorm {
			return w.Full, true
		}
	}
	return "", false
}

// StateCountyCodes looks up the optional STATE/COUNTY codes carried by
// admin_divisions rows, used by the Postprocessor to populate
// FormattedOutput.StateCode/CountyCode. Missing codes return empty strings.
func (s *InMemoryStore) StateCountyCodes(provinceNorm, districtNorm, wardNorm string) (string, string) {
	s.ensureLoaded()
	return s.stateCodes[provinceNorm], s.countyCodes[provinceNorm+"\x00"+districtNorm]
}

func (s *InMemoryStore) HierarchyValid(provinceNorm, districtNorm, wardNorm string) bool {
	s.ensureLoaded()
	if provinceNorm == "" {
		return false
	}
	if _, ok := s.provinces[provinceNorm]; !ok {
		return false
	}
	if districtNorm != "" {
		ok := false
		for _, d := range s.districts[provinceNorm] {
			if d.Normalized == districtNorm {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	if wardNorm != "" {
		if districtNorm == "" {
			return false
		}
		ok := false
		for _, w := range s.wards[provinceNorm][districtNorm] {
			if w.Normalized == wardNorm {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	return true
}

func (s *InMemoryStore) InferDistrictFromWard(provinceNorm, wardNorm string) (string, bool) {
	s.ensureLoaded()
	for _, owner := range s.wardOwner[wardNorm] {
		if owner[0] == provinceNorm {
			return owner[1], true
		}
	}
	return "", false
}

func (s *InMemoryStore) InferProvinceFromDistrict(districtNorm string) (string, bool) {
	s.ensureLoaded()
	owners := s.districtOwner[districtNorm]
	if len(owners) == 0 {
		return "", false
	}
	return owners[0], true
}

func (s *InMemoryStore) ProvinceDistrictCollision(nameNorm string) (Collision, bool) {
	s.ensureLoaded()
	p, isProvince := s.provinces[nameNorm]
	owners := s.districtOwner[nameNorm]
	isDistrict := len(owners) > 0
	if !isProvince || !isDistrict {
		return Collision{}, false
	}
	col := Collision{IsProvince: isProvince, Province: p, IsDistrict: isDistrict}
	if isDistrict {
		col.DistrictProvince = owners[0]
		for _, d := range s.districts[owners[0]] {
			if d.Normalized == nameNorm {
				col.District = d
				break
			}
		}
	}
	return col, true
}

func (s *InMemoryStore) Abbreviations(provinceCtx, districtCtx string) map[string]string {
	s.ensureLoaded()
	result := map[string]string{}
	// Apply in precedence order global -> province -> district so later
	// writes (more specific) override earlier ones.
	for _, a := range s.abbrevs {
		if a.ProvinceContext == "" && a.DistrictContext == "" {
			result[a.Key] = a.Word
		}
	}
	if provinceCtx != "" {
		for _, a := range s.abbrevs {
			if a.ProvinceContext == provinceCtx && a.DistrictContext == "" {
				result[a.Key] = a.Word
			}
		}
	}
	if districtCtx != "" {
		for _, a := range s.abbrevs {
			if a.DistrictContext == districtCtx {
				result[a.Key] = a.Word
			}
		}
	}
	return result
}

func (s *InMemoryStore) ExpandAbbreviation(key, provinceCtx, districtCtx string) (string, bool) {
	m := s.Abbreviations(provinceCtx, districtCtx)
	w, ok := m[key]
	return w, ok
}

func (s *InMemoryStore) AllProvinces() []model.Province {
	s.ensureLoaded()
	out := make([]model.Province, 0, len(s.provinces))
	for _, p := range s.provinces {
		out = append(out, p)
	}
	return out
}

func (s *InMemoryStore) AllDistricts() []model.District {
	s.ensureLoaded()
	return s.allDistrictsFlat
}

func (s *InMemoryStore) AllWards() []model.Ward {
	s.ensureLoaded()
	return s.allWardsFlat
}

func (s *InMemoryStore) AllStreets() []model.Street {
	s.ensureLoaded()
	return s.allStreetsFlat
}
