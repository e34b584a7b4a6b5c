// Package pipeline wires the six phases plus the Reference Store and
// Token Index into a single Parse entry point.
package pipeline

import (
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/vnaddress/parser/internal/config"
	"github.com/vnaddress/parser/internal/enrich"
	"github.com/vnaddress/parser/internal/extract"
	"github.com/vnaddress/parser/internal/matching"
	"github.com/vnaddress/parser/internal/model"
	"github.com/vnaddress/parser/internal/postprocess"
	"github.com/vnaddress/parser/internal/preprocess"
	"github.com/vnaddress/parser/internal/referencestore"
	"github.com/vnaddress/parser/internal/structural"
	"github.com/vnaddress/parser/internal/validate"
)

// Parser holds the process-wide, lazily-built dependencies (Reference
// Store, Token Index, Scorer) and runs Parse over individual inputs. A
// Parser is safe for concurrent use — every shared dependency is built
// once via sync.Once inside its own package.
type Parser struct {
	store   *referencestore.InMemoryStore
	index   extract.Index
	preproc *preprocess.Preprocessor
	scorer  *matching.Scorer
	cfg     config.Config
	log     *zap.Logger
}

// New builds a Parser over source. log may be nil, in which case a no-op
// logger is used (a permissive zap.NewNop() default).
func New(source referencestore.DataSource, cfg config.Config, log *zap.Logger) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	store := referencestore.NewInMemoryStore(source)
	return &Parser{
		store:   store,
		index:   referencestore.NewTokenIndex(store),
		preproc: preprocess.New(store, cfg),
		scorer:  matching.NewScorer(cfg.EnsembleWeights, cfg.PrimitiveCacheSize),
		cfg:     cfg,
		log:     log,
	}
}

// Parse runs raw through P1-P6 and returns the ranked candidate list
// plus the formatted best match. provinceHint/districtHint, when non-empty,
// pin the province/district potentials to the hinted value instead
// of discovering them from the text.
func (p *Parser) Parse(raw, provinceHint, districtHint string) model.ParseResult {
	var errs []string
	var timings model.PhaseTimings

	if strings.TrimSpace(raw) == "" {
		return model.ParseResult{QualityFlag: model.QualityFailed}
	}

	t0 := time.Now()
	pre := p.preproc.Run(raw, provinceHint, districtHint)
	timings.PreprocessUs = time.Since(t0).Microseconds()

	words := strings.Fields(pre.Normalized)
	tokens := make([]model.Token, len(words))
	for i, w := range words {
		tokens[i] = model.Token{Text: w, Index: i}
	}
	if p.cfg.Debug.Extraction {
		p.log.Debug("preprocess done", zap.String("normalized", pre.Normalized), zap.Int("tokens", len(words)))
	}

	t0 = time.Now()
	scorerAdapter := structural.EnsembleStoreScorer{
		Ensemble:          p.scorer,
		ProvinceSet:       p.store.ProvinceSet(),
		DistrictSet:       p.store.DistrictSet(),
		WardSet:           p.store.WardSet(),
		ProvinceThreshold: p.cfg.FuzzyThreshold.Province,
		DistrictThreshold: p.cfg.FuzzyThreshold.District,
		WardThreshold:     p.cfg.FuzzyThreshold.Ward,
	}
	structResult := structural.Parse(pre.Normalized, pre.Delimiter.Segments, words, scorerAdapter)
	timings.StructuralUs = time.Since(t0).Microseconds()

	t0 = time.Now()
	var candidates []model.Candidate
	if structResult.Tier < 3 && structural.ShouldShortCircuit(structResult, p.store, p.cfg.Structural.ShortCircuitThreshold) {
		candidates = []model.Candidate{structural.BuildShortCircuitCandidate(structResult, tokens)}
		if p.cfg.Debug.Extraction {
			p.log.Debug("structural short-circuit", zap.Int("tier", structResult.Tier), zap.String("province", structResult.Province))
		}
	} else {
		ngrams := extract.EnumerateNgrams(words, p.cfg.MaxNgram)

		th := extract.Thresholds{
			Province: p.cfg.FuzzyThreshold.Province,
			District: p.cfg.FuzzyThreshold.District,
			Ward:     p.cfg.FuzzyThreshold.Ward,
		}
		pot := extract.ExtractPotentials(ngrams, p.index, p.scorer, th, pre.ProvinceContext, pre.DistrictContext)
		extract.ApplyCollisions(&pot, p.store)

		for _, em := range extract.DetectExplicitPatterns(words) {
			match := model.PotentialMatch{NameNormalized: em.Name, Score: 1.0, Range: em.Range}
			switch em.Level {
			case "district":
				pot.District = append(pot.District, match)
			case "ward":
				pot.Ward = append(pot.Ward, match)
			}
		}

		if provinceHint != "" && pre.ProvinceContext != "" {
			pot.Province = []model.PotentialMatch{{NameNormalized: pre.ProvinceContext, Score: 1.0, Range: model.NoPosition}}
		}
		if districtHint != "" && pre.DistrictContext != "" {
			pot.District = []model.PotentialMatch{{NameNormalized: pre.DistrictContext, Score: 1.0, Range: model.NoPosition}}
		}

		candidates = extract.Combine(pot, p.cfg, p.store, p.scorer, tokens, pre.Normalized, pre.Delimiter)
		if p.cfg.Debug.Ngrams {
			p.log.Debug("extraction done", zap.Int("ngrams", len(ngrams)), zap.Int("candidates", len(candidates)))
		}
	}
	timings.ExtractUs = time.Since(t0).Microseconds()

	t0 = time.Now()
	candidates = enrich.Enrich(candidates, p.store, p.cfg.SourceMultipliers)
	timings.EnrichUs = time.Since(t0).Microseconds()

	t0 = time.Now()
	candidates = validate.Validate(candidates, p.store, p.cfg)
	timings.ValidateUs = time.Since(t0).Microseconds()

	if provinceHint != "" && pre.ProvinceContext != "" {
		filtered := candidates[:0]
		for _, c := range candidates {
			if c.Province == pre.ProvinceContext {
				filtered = append(filtered, c)
			}
		}
		candidates = filtered
	}

	t0 = time.Now()
	best, quality := postprocess.Run(candidates, p.store, p.cfg)
	timings.PostprocessUs = time.Since(t0).Microseconds()

	if len(candidates) == 0 {
		errs = append(errs, "no candidates survived hierarchy validation")
	}

	return model.ParseResult{
		Candidates:   candidates,
		Best:         best,
		QualityFlag:  quality,
		PhaseTimings: timings,
		Errors:       errs,
	}
}

// Normalize exposes P1 alone, used by the idempotence property test
// (parse(normalize(raw)) == parse(raw)).
func (p *Parser) Normalize(raw string) string {
	return p.preproc.Run(raw, "", "").Normalized
}

// UseMeiliAccelerator swaps the Token Index for a Meilisearch-backed
// candidate search (the extract.Index contract is satisfied either way). Intended
// for higher-QPS deployments; the default Parser built by New never needs
// this call.
func (p *Parser) UseMeiliAccelerator(accel *referencestore.MeiliAccelerator) {
	p.index = referencestore.NewMeiliIndex(accel, p.store)
}
