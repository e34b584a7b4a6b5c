// Package postprocess implements the Postprocessor (P6): selecting
// the best candidate, capitalizing names, extracting the leftover address
// text by token-range subtraction, and assigning the final quality flag.
package postprocess

import (
	"strings"

	"github.com/vnaddress/parser/internal/config"
	"github.com/vnaddress/parser/internal/model"
	"github.com/vnaddress/parser/internal/normalize"
)

// Codes is the subset of the Reference Store used to look up STATE/COUNTY
// codes for the chosen province/district. Optional: a nil Codes leaves
// state_code/county_code empty.
type Codes interface {
	StateCountyCodes(provinceNorm, districtNorm, wardNorm string) (stateCode, countyCode string)
}

// Run selects the best candidate (candidates are assumed pre-sorted by the
// Validator), formats it, and assigns the quality flag. With an empty
// candidate list it returns an all-null formatted output and QualityFailed.
func Run(candidates []model.Candidate, codes Codes, cfg config.Config) (model.FormattedOutput, model.QualityFlag) {
	if len(candidates) == 0 {
		return model.FormattedOutput{}, model.QualityFailed
	}

	best := candidates[0]

	var stateCode, countyCode string
	if codes != nil && best.Province != "" {
		stateCode, countyCode = codes.StateCountyCodes(best.Province, best.District, best.Ward)
	}

	remaining := extractRemaining(best.NormalizedTokens, best.ProvinceTokens, best.DistrictTokens, best.WardTokens)
	r1, r2, r3 := splitRemaining(remaining, cfg.RemainderChunkSize)

	out := model.FormattedOutput{
		Province:   capitalizeFullName(firstNonEmpty(best.ProvinceFull, best.Province)),
		District:   capitalizeFullName(firstNonEmpty(best.DistrictFull, best.District)),
		Ward:       capitalizeFullName(firstNonEmpty(best.WardFull, best.Ward)),
		StateCode:  stateCode,
		CountyCode: countyCode,
		Remaining1: r1,
		Remaining2: r2,
		Remaining3: r3,
		AtRule:     best.MatchLevel,
		Confidence: best.FinalConfidence,
		MatchType:  string(best.Source),
	}
	return out, quality(best.MatchLevel, best.FinalConfidence)
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

// capitalizeFullName title-cases every word of a full administrative name,
// e.g. "THANH PHO HA NOI" -> "Thanh Pho Ha Noi".
func capitalizeFullName(name string) string {
	if name == "" {
		return ""
	}
	words := strings.Fields(name)
	for i, w := range words {
		r := []rune(w)
		if len(r) == 0 {
			continue
		}
		r[0] = []rune(strings.ToUpper(string(r[0])))[0]
		rest := strings.ToLower(string(r[1:]))
		words[i] = string(r[0]) + rest
	}
	return strings.Join(words, " ")
}

// extractRemaining removes the token ranges matched to province/district/
// ward from the full normalized token snapshot, by position rather than by
// string search, so repeated substrings elsewhere in the address are never
// accidentally stripped.
func extractRemaining(tokens []model.Token, ranges ...model.TokenRange) string {
	if len(tokens) == 0 {
		return ""
	}
	keep := make([]bool, len(tokens))
	for i := range keep {
		keep[i] = true
	}
	for _, r := range ranges {
		if !r.HasPosition() {
			continue
		}
		for i := r.Start; i < r.End && i < len(keep); i++ {
			if i >= 0 {
				keep[i] = false
			}
		}
	}
	var parts []string
	for i, t := range tokens {
		if keep[i] {
			parts = append(parts, t.Text)
		}
	}
	return strings.Join(parts, " ")
}

// splitRemaining removes diacritics, uppercases, and splits into fixed
// chunkSize-character columns.
func splitRemaining(remaining string, chunkSize int) (string, string, string) {
	if remaining == "" {
		return "", "", ""
	}
	if chunkSize <= 0 {
		chunkSize = 40
	}
	cleaned := strings.ToUpper(normalize.StripDiacritics(remaining))
	r := []rune(cleaned)
	chunks := make([]string, 3)
	for i := 0; i < 3; i++ {
		start := i * chunkSize
		if start >= len(r) {
			break
		}
		end := start + chunkSize
		if end > len(r) {
			end = len(r)
		}
		chunks[i] = string(r[start:end])
	}
	return chunks[0], chunks[1], chunks[2]
}

func quality(matchLevel int, confidence float64) model.QualityFlag {
	switch {
	case matchLevel == 3 && confidence >= 0.8:
		return model.QualityFullAddress
	case matchLevel == 2 && confidence >= 0.6:
		return model.QualityPartialAddress
	case matchLevel == 1 && confidence >= 0.6:
		return model.QualityProvinceOnly
	default:
		return model.QualityFailed
	}
}
