// Package model defines the data types shared across the address-parser
// pipeline: administrative reference records, runtime tokens, and the
// candidate/result shapes produced by the engine.
package model

// TokenRange is a half-open interval [Start, End) over a token slice.
// (-1, -1) denotes "no position" — used for hint-sourced or inferred values.
type TokenRange struct {
	Start int
	End   int
}

// NoPosition is the sentinel range used when a component has no token
// position in the source text (came from a hint or was inferred).
var NoPosition = TokenRange{Start: -1, End: -1}

// HasPosition reports whether r carries a real token position.
func (r TokenRange) HasPosition() bool {
	return r.Start >= 0 && r.End >= 0
}

// Province is a reference-only administrative division at the outermost
// level ("tỉnh" | "thành phố trực thuộc trung ương").
type Province struct {
	Full       string // "Thành phố Hà Nội"
	Name       string // "Hà Nội"
	Normalized string // "ha noi"
	Prefix     string // "thanh pho"
}

// District belongs to exactly one Province.
type District struct {
	Full         string
	Name         string
	Normalized   string
	Prefix       string
	ProvinceNorm string
}

// Ward belongs to exactly one District.
type Ward struct {
	Full         string
	Name         string
	Normalized   string
	Prefix       string
	ProvinceNorm string
	DistrictNorm string
}

// Street is scoped to a district; the same street name may recur across
// districts of the same province.
type Street struct {
	ProvinceNorm string
	DistrictNorm string
	Normalized   string
	Original     string
}

// AbbrScope names the specificity level of an Abbreviation entry.
type AbbrScope int

const (
	ScopeGlobal AbbrScope = iota
	ScopeProvince
	ScopeDistrict
)

// Abbreviation is a key->word mapping, optionally scoped to a province
// and/or district context. Lookup precedence: district > province > global.
type Abbreviation struct {
	Key             string
	Word            string
	ProvinceContext string // normalized, empty = global/no province scope
	DistrictContext string // normalized, empty = no district scope
}

// Token is a maximal whitespace-delimited substring of normalized text.
type Token struct {
	Text  string
	Index int
}

// Ngram is a contiguous slice of tokens of length 1..4.
type Ngram struct {
	Text       string
	Range      TokenRange
	HasKeyword bool // true iff token at Range.Start-1 is an admin keyword
}

// MatchSource enumerates where a Candidate's components were resolved from.
type MatchSource string

const (
	SourceDBExact                       MatchSource = "db_exact_match"
	SourceStructuralTier1                MatchSource = "structural_tier1"
	SourceStructuralTier2                MatchSource = "structural_tier2"
	SourceStreetBased                    MatchSource = "street_based"
	SourceDisambiguationAsDistrict        MatchSource = "disambiguation_as_district"
	SourceDisambiguationAsWard            MatchSource = "disambiguation_as_ward"
	SourceOSMNominatimBBox                MatchSource = "osm_nominatim_bbox"
	SourceOSMNominatimQuery               MatchSource = "osm_nominatim_query"
	SourceGoongGeocode                    MatchSource = "goong_geocode"
	SourceProvinceOnlyNoDB                MatchSource = "province_only_no_db"
	SourceMultiCandidateInferredDistrict  MatchSource = "multi_candidate_inferred_district"
	SourceMultiCandidateInferredMismatch  MatchSource = "multi_candidate_inferred_district_mismatch"
)

// PotentialMatch is a single scored hit from the Extractor's fuzzy search
// against the reference store at one administrative level.
type PotentialMatch struct {
	NameNormalized string
	Score          float64
	Range          TokenRange
}

// Candidate is a hierarchy hypothesis produced by the Extractor, enriched
// by the Candidate Enricher, and re-scored by the Validator & Ranker.
// Immutable once emitted by the Postprocessor.
type Candidate struct {
	Province, District, Ward string // normalized, may be empty except Province when accepted

	ProvinceFull, DistrictFull, WardFull string // original case with prefix

	ProvinceScore, DistrictScore, WardScore float64

	ProvinceTokens, DistrictTokens, WardTokens TokenRange

	CombinedScore float64 // not capped to [0,1]

	ProximityScore, OrderBonus, AdjacencyBonus, DirectMatchBonus float64

	MatchLevel int // 1=province only, 2=+district, 3=+ward

	HierarchyValid bool

	Source MatchSource

	NormalizedTokens []Token // snapshot used for remainder extraction

	Confidence      float64 // combined_score pre-validation
	FinalConfidence float64 // post-validation

	DistrictMismatch bool // set when a -70% validator penalty applies
}

// QualityFlag names the completeness/confidence tier of the best candidate.
type QualityFlag string

const (
	QualityFullAddress    QualityFlag = "full_address"
	QualityPartialAddress QualityFlag = "partial_address"
	QualityProvinceOnly   QualityFlag = "province_only"
	QualityFailed         QualityFlag = "failed"
)

// FormattedOutput is the best candidate rendered for external consumption.
type FormattedOutput struct {
	Province, District, Ward string
	StateCode, CountyCode    string
	Remaining1, Remaining2, Remaining3 string
	AtRule                    int // 0..3, deepest level matched
	Confidence                float64
	MatchType                 string
}

// PhaseTimings records how long each pipeline phase took, in microseconds.
type PhaseTimings struct {
	PreprocessUs  int64
	StructuralUs  int64
	ExtractUs     int64
	EnrichUs      int64
	ValidateUs    int64
	PostprocessUs int64
}

// ParseResult is the top-level output of parse().
type ParseResult struct {
	Candidates   []Candidate
	Best         FormattedOutput
	QualityFlag  QualityFlag
	PhaseTimings PhaseTimings
	Errors       []string
}
