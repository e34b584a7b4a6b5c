package referencestore

import (
	"fmt"
	"sync"
	"time"

	meilisearch "github.com/meilisearch/meilisearch-go"
	"go.uber.org/zap"

	"github.com/vnaddress/parser/internal/model"
)

// MeiliConfig configures the optional Meilisearch-backed accelerant.
type MeiliConfig struct {
	Host, APIKey, IndexName string
	Timeout                 time.Duration
}

// MeiliAccelerator is an optional front-end to the Token Index's
// candidate-search contract, backed by Meilisearch's typo-tolerant
// search instead of exact token-overlap counting. It is adapted from the
// original GazetteerSearcher: same 3-level cascading filter-search
// pattern (province -> district scoped by parent -> ward scoped by
// parent), but speaking in this module's Province/District/Ward model
// instead of a generic AdminUnit tree. Used only when a
// Meilisearch instance is configured; InMemoryStore's TokenIndex remains
// the default, dependency-free backend (the same contract is satisfied either way).
type MeiliAccelerator struct {
	client    meilisearch.ServiceManager
	logger    *zap.Logger
	indexName string
}

// NewMeiliAccelerator connects to a Meilisearch instance and verifies it
// is reachable, mirroring NewGazetteerSearcher's health check.
func NewMeiliAccelerator(cfg MeiliConfig, logger *zap.Logger) (*MeiliAccelerator, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	client := meilisearch.New(cfg.Host, meilisearch.WithAPIKey(cfg.APIKey))
	if _, err := client.Health(); err != nil {
		return nil, fmt.Errorf("meilisearch unreachable: %w", err)
	}
	return &MeiliAccelerator{client: client, logger: logger, indexName: cfg.IndexName}, nil
}

// SearchNames runs a typo-tolerant search for query within the index,
// optionally filtered, returning matching normalized names up to limit.
func (m *MeiliAccelerator) SearchNames(query, filter string, limit int64) ([]string, error) {
	idx := m.client.Index(m.indexName)
	resp, err := idx.Search(query, &meilisearch.SearchRequest{Filter: filter, Limit: limit})
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(resp.Hits))
	for _, hit := range resp.Hits {
		m, ok := hit.(map[string]interface{})
		if !ok {
			continue
		}
		if name, ok := m["normalized_name"].(string); ok {
			out = append(out, name)
		}
	}
	return out, nil
}

// MeiliIndex adapts a MeiliAccelerator into the extract package's Index
// contract: typo-tolerant name search in place of the Token Index's exact
// token-overlap counting, with results resolved back to full
// Province/District/Ward records through store. Swapping a TokenIndex for
// a MeiliIndex changes only how candidate names are pre-filtered; the
// ensemble scorer and fuzzy thresholds downstream are unaffected.
type MeiliIndex struct {
	accel *MeiliAccelerator
	store *InMemoryStore

	once         sync.Once
	provinceByNm map[string]model.Province
	districtByNm map[string][]model.District // key: normalized name
	wardByNm     map[string][]model.Ward
}

// NewMeiliIndex wraps accel, resolving its hits against store.
func NewMeiliIndex(accel *MeiliAccelerator, store *InMemoryStore) *MeiliIndex {
	return &MeiliIndex{accel: accel, store: store}
}

func (m *MeiliIndex) ensureResolved() {
	m.once.Do(func() {
		m.provinceByNm = map[string]model.Province{}
		m.districtByNm = map[string][]model.District{}
		m.wardByNm = map[string][]model.Ward{}
		for _, p := range m.store.AllProvinces() {
			m.provinceByNm[p.Normalized] = p
		}
		for _, d := range m.store.AllDistricts() {
			m.districtByNm[d.Normalized] = append(m.districtByNm[d.Normalized], d)
		}
		for _, w := range m.store.AllWards() {
			m.wardByNm[w.Normalized] = append(m.wardByNm[w.Normalized], w)
		}
	})
}

func (m *MeiliIndex) ProvinceCandidates(query string, minOverlap int) []model.Province {
	m.ensureResolved()
	names, err := m.accel.SearchNames(query, `level = 2`, 20)
	if err != nil {
		m.accel.logger.Warn("meili province search failed", zap.Error(err))
		return nil
	}
	out := make([]model.Province, 0, len(names))
	for _, n := range names {
		if p, ok := m.provinceByNm[n]; ok {
			out = append(out, p)
		}
	}
	return out
}

func (m *MeiliIndex) DistrictCandidates(query, provinceFilter string, minOverlap int) []model.District {
	m.ensureResolved()
	filter := `level = 3`
	if provinceFilter != "" {
		filter += fmt.Sprintf(` AND province_normalized = "%s"`, provinceFilter)
	}
	names, err := m.accel.SearchNames(query, filter, 20)
	if err != nil {
		m.accel.logger.Warn("meili district search failed", zap.Error(err))
		return nil
	}
	var out []model.District
	for _, n := range names {
		for _, d := range m.districtByNm[n] {
			if provinceFilter == "" || d.ProvinceNorm == provinceFilter {
				out = append(out, d)
			}
		}
	}
	return out
}

func (m *MeiliIndex) WardCandidates(query, provinceFilter, districtFilter string, minOverlap int) []model.Ward {
	m.ensureResolved()
	filter := `level = 4`
	if provinceFilter != "" {
		filter += fmt.Sprintf(` AND province_normalized = "%s"`, provinceFilter)
	}
	if districtFilter != "" {
		filter += fmt.Sprintf(` AND district_normalized = "%s"`, districtFilter)
	}
	names, err := m.accel.SearchNames(query, filter, 20)
	if err != nil {
		m.accel.logger.Warn("meili ward search failed", zap.Error(err))
		return nil
	}
	var out []model.Ward
	for _, n := range names {
		for _, w := range m.wardByNm[n] {
			if (provinceFilter == "" || w.ProvinceNorm == provinceFilter) && (districtFilter == "" || w.DistrictNorm == districtFilter) {
				out = append(out, w)
			}
		}
	}
	return out
}

// BuildIndexSettings configures the searchable/filterable attributes,
// ranking rules, Vietnamese stop words, and admin-prefix synonyms used by
// the accelerator, grounded on the original BuildIndexes.
func (m *MeiliAccelerator) BuildIndexSettings() error {
	idx := m.client.Index(m.indexName)
	searchable := []string{"normalized_name", "name"}
	filterable := []string{"level", "province_normalized", "district_normalized"}
	if _, err := idx.UpdateSearchableAttributes(&searchable); err != nil {
		return err
	}
	if _, err := idx.UpdateFilterableAttributes(&filterable); err != nil {
		return err
	}
	stopWords := []string{"cua", "va", "tai", "o", "trong"}
	if _, err := idx.UpdateStopWords(&stopWords); err != nil {
		return err
	}
	synonyms := map[string][]string{
		"tp":     {"thanh pho"},
		"hcm":    {"ho chi minh", "sai gon"},
		"q":      {"quan"},
		"p":      {"phuong"},
		"tp hcm": {"thanh pho ho chi minh"},
	}
	_, err := idx.UpdateSynonyms(&synonyms)
	return err
}
