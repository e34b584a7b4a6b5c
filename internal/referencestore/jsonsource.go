package referencestore

import (
	"encoding/json"
	"os"
)

// Seed is the on-disk shape a JSONDataSource reads: a flattened dump of
// the three reference tables, produced by cmd/seed. Adapted from the
// scripts/prepare_seed.go, which wrapped a converted gazetteer
// the same way before handing it to the seed HTTP endpoint this codebase
// no longer exposes (see DESIGN.md).
type Seed struct {
	Divisions     []AdminDivisionRow `json:"divisions"`
	Streets       []StreetRow        `json:"streets"`
	Abbreviations []AbbreviationRow  `json:"abbreviations"`
}

// JSONDataSource loads reference rows from a single seed file on disk.
// Used by cmd/api when no Postgres DSN is configured, and by cmd/seed's
// output target.
type JSONDataSource struct {
	seed Seed
}

// LoadSeedFile reads and parses a Seed JSON document from path.
func LoadSeedFile(path string) (JSONDataSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return JSONDataSource{}, err
	}
	defer f.Close()

	var seed Seed
	if err := json.NewDecoder(f).Decode(&seed); err != nil {
		return JSONDataSource{}, err
	}
	return JSONDataSource{seed: seed}, nil
}

func (j JSONDataSource) LoadAdminDivisions() ([]AdminDivisionRow, error) { return j.seed.Divisions, nil }
func (j JSONDataSource) LoadStreets() ([]StreetRow, error)               { return j.seed.Streets, nil }
func (j JSONDataSource) LoadAbbreviations() ([]AbbreviationRow, error)   { return j.seed.Abbreviations, nil }

// WriteSeedFile serializes seed to path as indented JSON, the format
// LoadSeedFile expects.
func WriteSeedFile(path string, seed Seed) error {
	data, err := json.MarshalIndent(seed, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
