// Package preprocess implements the Preprocessor (P1): Unicode
// normalization, abbreviation expansion, diacritic removal, delimiter
// extraction, and finalize normalization, plus the iterative
// province-discovery mode.
package preprocess

import (
	"regexp"
	"strings"

	"github.com/vnaddress/parser/internal/config"
	"github.com/vnaddress/parser/internal/normalize"
	"github.com/vnaddress/parser/internal/referencestore"
)

// Result is the carried output of the Preprocessor.
type Result struct {
	Original   string
	Normalized string
	Delimiter  normalize.DelimiterInfo
	// ProvinceContext/DistrictContext are the normalized hints actually
	// used for abbreviation expansion (explicit hints, or discovered by
	// iterative mode).
	ProvinceContext, DistrictContext string
}

// Preprocessor runs P1 over raw input.
type Preprocessor struct {
	store Store
	cfg   config.Config
}

// Store is the subset of referencestore.Store the Preprocessor needs.
type Store interface {
	ExpandAbbreviation(key, provinceCtx, districtCtx string) (string, bool)
	ProvinceSet() map[string]bool
}

// New builds a Preprocessor.
func New(store Store, cfg config.Config) *Preprocessor {
	return &Preprocessor{store: store, cfg: cfg}
}

var likelyAbbrevToken = regexp.MustCompile(`^[A-Z]{2,4}$`)

// Run executes P1. provinceHint/districtHint, when non-empty, are
// normalized via normalize.NormalizeHint and fix the context used for
// abbreviation expansion; iterative mode only runs when provinceHint=="".
func (p *Preprocessor) Run(raw, provinceHint, districtHint string) Result {
	if raw == "" {
		return Result{Original: raw, Normalized: "", Delimiter: normalize.DelimiterInfo{NumberTokens: map[int]bool{}}}
	}

	provCtx := ""
	distCtx := ""
	if provinceHint != "" {
		provCtx = normalize.NormalizeHint(provinceHint, nil, nil)
	}
	if districtHint != "" {
		distCtx = normalize.NormalizeHint(districtHint, nil, nil)
	}

	lookup := func(key string) (string, bool) {
		return p.store.ExpandAbbreviation(key, provCtx, distCtx)
	}

	normalized := p.runOnce(raw, lookup)

	if provinceHint == "" && hasLikelyAbbreviationTokens(raw) {
		discovered := p.discoverProvince(normalized)
		passes := p.cfg.IterativePreprocessingPasses
		if passes <= 0 {
			passes = 2
		}
		prevDiscovered := ""
		for i := 0; i < passes && discovered != "" && discovered != prevDiscovered; i++ {
			prevDiscovered = discovered
			provCtx = discovered
			lookup = func(key string) (string, bool) {
				return p.store.ExpandAbbreviation(key, provCtx, distCtx)
			}
			normalized = p.runOnce(raw, lookup)
			discovered = p.discoverProvince(normalized)
		}
	}

	// Delimiter extraction runs on the diacritic-free, pre-finalize text
	// (delimiter extraction happens before the final punctuation strip).
	noDiacritics := normalize.StripDiacritics(normalize.NFC(raw))
	delimInfo := normalize.TokenizeWithDelimiterInfo(noDiacritics)

	return Result{
		Original:        raw,
		Normalized:      normalized,
		Delimiter:       delimInfo,
		ProvinceContext: provCtx,
		DistrictContext: distCtx,
	}
}

func (p *Preprocessor) runOnce(raw string, lookup normalize.AbbreviationLookup) string {
	s := normalize.NFC(raw)
	s = normalize.ExpandAbbreviations(s, abbreviationKeys(raw), lookup)
	s = normalize.StripDiacritics(s)
	// FinalizeNormalization drops '/' along with the rest of the
	// punctuation it strips, which would otherwise collapse an address
	// number like "55/2" into "552". Protect it first and restore it
	// once finalize has run.
	protected, placeholders := normalize.ProtectSlashNumbers(s)
	finalized := normalize.FinalizeNormalizationCached(protected)
	return normalize.RestoreSlashNumbers(finalized, placeholders)
}

func hasLikelyAbbreviationTokens(raw string) bool {
	for _, tok := range strings.Fields(raw) {
		if likelyAbbrevToken.MatchString(tok) {
			return true
		}
	}
	return false
}

// abbreviationKeys lists the short all-caps tokens in raw as lowercase
// lookup keys, so ExpandAbbreviations knows which words to resolve
// against the Reference Store instead of scanning every substring.
func abbreviationKeys(raw string) []string {
	var keys []string
	for _, tok := range strings.Fields(raw) {
		tok = strings.Trim(tok, ".,")
		if likelyAbbrevToken.MatchString(tok) {
			keys = append(keys, strings.ToLower(tok))
		}
	}
	return keys
}

// discoverProvince returns a known province name that occurs as a substring
// of the normalized text (taken from the Reference Store's province set, not
// a separately maintained literal list), or "" when none does. When several
// occur, which one is returned is not defined.
func (p *Preprocessor) discoverProvince(normalized string) string {
	for prov := range p.store.ProvinceSet() {
		if prov == "" {
			continue
		}
		if strings.Contains(normalized, prov) {
			return prov
		}
	}
	return ""
}

// ensure referencestore.Store satisfies the narrower Store interface above.
var _ Store = (*referencestore.InMemoryStore)(nil)
