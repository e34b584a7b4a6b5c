// Package config holds the process-wide, optional configuration for the
// address-parser core. Every option has a default; nothing here is required
// for parse() to run.
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// FuzzyThresholds are the minimum ensemble score to accept an n-gram match
// at a given administrative level.
type FuzzyThresholds struct {
	Province float64 `yaml:"province" json:"province"`
	District float64 `yaml:"district" json:"district"`
	Ward     float64 `yaml:"ward" json:"ward"`
}

// EnsembleWeights are the component weights of the ensemble fuzzy score.
// TokenSort + Levenshtein + Jaccard must sum to 1. JaroWinkler is an extra,
// inherited component carried at weight 0 by default (see DESIGN.md).
type EnsembleWeights struct {
	TokenSort   float64 `yaml:"token_sort" json:"token_sort"`
	Levenshtein float64 `yaml:"levenshtein" json:"levenshtein"`
	Jaccard     float64 `yaml:"jaccard" json:"jaccard"`
	JaroWinkler float64 `yaml:"jaro_winkler" json:"jaro_winkler"`
}

// ScoringWeights combine proximity/base-fuzzy/completeness/hierarchy into
// a candidate's combined_score.
type ScoringWeights struct {
	Proximity    float64 `yaml:"proximity" json:"proximity"`
	BaseFuzzy    float64 `yaml:"base_fuzzy" json:"base_fuzzy"`
	Completeness float64 `yaml:"completeness" json:"completeness"`
	Hierarchy    float64 `yaml:"hierarchy" json:"hierarchy"`
}

// Bonuses are multiplicative score adjustments applied during candidate
// combination.
type Bonuses struct {
	Order                float64 `yaml:"order" json:"order"`
	Adjacency            float64 `yaml:"adjacency" json:"adjacency"`
	DirectMatchDistrict  float64 `yaml:"direct_match_bonus_district" json:"direct_match_bonus_district"`
	DirectMatchWard      float64 `yaml:"direct_match_bonus_ward" json:"direct_match_bonus_ward"`
}

// StreetFallback controls the penalty applied to street-based candidates
// (tunable; see DESIGN.md for the no-match fallback decision).
type StreetFallback struct {
	BasePenalty            float64 `yaml:"base_penalty" json:"base_penalty"`
	DistrictAbsentPenalty  float64 `yaml:"district_absent_penalty" json:"district_absent_penalty"`
}

// Delimiter controls the supplemented delimiter-aware n-gram scoring
// grounded on original_source's calculate_delimiter_score.
type Delimiter struct {
	Enabled      bool    `yaml:"enabled" json:"enabled"`
	CrossPenalty float64 `yaml:"cross_penalty" json:"cross_penalty"`
	WithinBonus  float64 `yaml:"within_bonus" json:"within_bonus"`
}

// Structural controls the Structural Parser's (P2) short-circuit behavior.
type Structural struct {
	ShortCircuitThreshold float64 `yaml:"short_circuit_threshold" json:"short_circuit_threshold"`
}

// SourceMultipliers are the Validator's reliability multipliers per
// candidate source.
type SourceMultipliers struct {
	DBExactMatch              float64 `yaml:"db_exact_match" json:"db_exact_match"`
	DisambiguationAsWard       float64 `yaml:"disambiguation_as_ward" json:"disambiguation_as_ward"`
	DisambiguationAsDistrict   float64 `yaml:"disambiguation_as_district" json:"disambiguation_as_district"`
	OSMNominatimBBox           float64 `yaml:"osm_nominatim_bbox" json:"osm_nominatim_bbox"`
	OSMNominatimQuery          float64 `yaml:"osm_nominatim_query" json:"osm_nominatim_query"`
	StreetBased                float64 `yaml:"street_based" json:"street_based"`
	ProvinceOnlyNoDB           float64 `yaml:"province_only_no_db" json:"province_only_no_db"`
	Default                    float64 `yaml:"default" json:"default"`
}

// ValidatorFallbackWeights are the 4-component recompute weights used when
// a candidate lacks a precomputed combined_score.
type ValidatorFallbackWeights struct {
	BaseFuzzy    float64 `yaml:"base_fuzzy" json:"base_fuzzy"`
	Proximity    float64 `yaml:"proximity" json:"proximity"`
	Completeness float64 `yaml:"completeness" json:"completeness"`
	Hierarchy    float64 `yaml:"hierarchy" json:"hierarchy"`
}

// Debug gates per-phase trace logging (emitted via zap.Logger.Debug).
// internal/pipeline reads Extraction and Ngrams; SQL and Fuzzy are not read
// anywhere and enable no logging.
type Debug struct {
	SQL        bool `yaml:"sql" json:"sql"`
	Fuzzy      bool `yaml:"fuzzy" json:"fuzzy"`
	Ngrams     bool `yaml:"ngrams" json:"ngrams"`
	Extraction bool `yaml:"extraction" json:"extraction"`
}

// Config is the full process-wide configuration of the parser core.
type Config struct {
	FuzzyThreshold                FuzzyThresholds          `yaml:"fuzzy_threshold" json:"fuzzy_threshold"`
	EnsembleWeights               EnsembleWeights          `yaml:"ensemble_weights" json:"ensemble_weights"`
	ScoringWeights                ScoringWeights           `yaml:"scoring_weights" json:"scoring_weights"`
	Bonuses                       Bonuses                  `yaml:"bonuses" json:"bonuses"`
	StreetFallback                StreetFallback           `yaml:"street_fallback" json:"street_fallback"`
	Delimiter                     Delimiter                `yaml:"delimiter" json:"delimiter"`
	Structural                    Structural               `yaml:"structural" json:"structural"`
	SourceMultipliers             SourceMultipliers        `yaml:"source_multipliers" json:"source_multipliers"`
	ValidatorFallback             ValidatorFallbackWeights `yaml:"validator_fallback" json:"validator_fallback"`
	MaxCandidates                 int                      `yaml:"max_candidates" json:"max_candidates"`
	MaxNgram                      int                      `yaml:"max_ngram" json:"max_ngram"`
	IterativePreprocessingPasses  int                      `yaml:"iterative_preprocessing_passes" json:"iterative_preprocessing_passes"`
	RemainderChunkSize            int                      `yaml:"remainder_chunk_size" json:"remainder_chunk_size"`
	PrimitiveCacheSize            int                      `yaml:"primitive_cache_size" json:"primitive_cache_size"`
	Debug                         Debug                    `yaml:"debug" json:"debug"`
}

// Default returns the parser's default configuration.
func Default() Config {
	return Config{
		FuzzyThreshold: FuzzyThresholds{Province: 0.85, District: 0.80, Ward: 0.75},
		EnsembleWeights: EnsembleWeights{
			TokenSort: 0.5, Levenshtein: 0.3, Jaccard: 0.2, JaroWinkler: 0,
		},
		ScoringWeights: ScoringWeights{
			Proximity: 0.5, BaseFuzzy: 0.3, Completeness: 0.15, Hierarchy: 0.05,
		},
		Bonuses: Bonuses{
			Order: 1.1, Adjacency: 1.15, DirectMatchDistrict: 1.15, DirectMatchWard: 1.10,
		},
		StreetFallback: StreetFallback{BasePenalty: 0.75, DistrictAbsentPenalty: 0.3},
		Delimiter:      Delimiter{Enabled: true, CrossPenalty: 0.85, WithinBonus: 1.10},
		Structural:     Structural{ShortCircuitThreshold: 0.85},
		SourceMultipliers: SourceMultipliers{
			DBExactMatch: 1.0, DisambiguationAsWard: 0.95, DisambiguationAsDistrict: 0.90,
			OSMNominatimBBox: 0.90, OSMNominatimQuery: 0.85, StreetBased: 0.70,
			ProvinceOnlyNoDB: 0.50, Default: 0.80,
		},
		ValidatorFallback: ValidatorFallbackWeights{
			BaseFuzzy: 0.4, Proximity: 0.3, Completeness: 0.2, Hierarchy: 0.1,
		},
		MaxCandidates:                5,
		MaxNgram:                     4,
		IterativePreprocessingPasses: 2,
		RemainderChunkSize:           40,
		PrimitiveCacheSize:           200_000,
	}
}

// Load reads a YAML file at path, overlaying it onto Default(). A missing
// file is not an error — the defaults are returned unchanged, matching the
// config.Load's permissive behavior.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
