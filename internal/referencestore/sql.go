package referencestore

import (
	"database/sql"

	_ "github.com/lib/pq"
)

// PostgresDataSource loads the admin_divisions/admin_streets/abbreviations
// tables from a Postgres-compatible reference database.
// Grounded on the lib/pq usage in the retrieval pack's UK address-matching
// repo (SeamusWaldron-ehdc-llpg-address-matching), which reads its
// reference gazetteer the same way.
type PostgresDataSource struct {
	db *sql.DB
}

// NewPostgresDataSource opens (without querying) a connection to dsn.
func NewPostgresDataSource(dsn string) (*PostgresDataSource, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	return &PostgresDataSource{db: db}, nil
}

func (p *PostgresDataSource) LoadAdminDivisions() ([]AdminDivisionRow, error) {
	rows, err := p.db.Query(`
		SELECT province_full, province_name, province_name_normalized,
		       district_full, district_name, district_name_normalized,
		       ward_full, ward_name, ward_name_normalized,
		       COALESCE(state_code, ''), COALESCE(county_code, '')
		FROM admin_divisions`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []AdminDivisionRow
	for rows.Next() {
		var r AdminDivisionRow
		if err := rows.Scan(
			&r.ProvinceFull, &r.ProvinceName, &r.ProvinceNormalized,
			&r.DistrictFull, &r.DistrictName, &r.DistrictNormalized,
			&r.WardFull, &r.WardName, &r.WardNormalized,
			&r.StateCode, &r.CountyCode,
		); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (p *PostgresDataSource) LoadStreets() ([]StreetRow, error) {
	rows, err := p.db.Query(`
		SELECT province_name_normalized, district_name_normalized,
		       street_name, street_name_normalized
		FROM admin_streets`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []StreetRow
	for rows.Next() {
		var r StreetRow
		if err := rows.Scan(&r.ProvinceNameNormalized, &r.DistrictNameNormalized, &r.StreetName, &r.StreetNameNormalized); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (p *PostgresDataSource) LoadAbbreviations() ([]AbbreviationRow, error) {
	rows, err := p.db.Query(`
		SELECT key, word, COALESCE(province_context, ''), COALESCE(district_context, '')
		FROM abbreviations`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []AbbreviationRow
	for rows.Next() {
		var r AbbreviationRow
		if err := rows.Scan(&r.Key, &r.Word, &r.ProvinceContext, &r.DistrictContext); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (p *PostgresDataSource) Close() error {
	return p.db.Close()
}
