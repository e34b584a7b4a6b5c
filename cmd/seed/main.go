// cmd/seed converts a raw province/district/ward export into the flat
// admin_divisions seed file internal/referencestore.JSONDataSource
// expects. Adapted from scripts/convert_data.go and
// scripts/prepare_seed.go, which performed the same province/district/ward
// flattening for the old AdminUnit/MongoDB-seeding pipeline this codebase
// no longer uses (see DESIGN.md).
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/vnaddress/parser/internal/normalize"
	"github.com/vnaddress/parser/internal/referencestore"
)

type rawProvince struct {
	ID      int    `json:"id"`
	KeyWord string `json:"key_word"`
	Name    string `json:"name"`
}

type rawDistrict struct {
	ID         int    `json:"id"`
	ProvinceID int    `json:"province_id"`
	KeyWord    string `json:"key_word"`
	Name       string `json:"name"`
}

type rawWard struct {
	ID         int    `json:"id"`
	DistrictID int    `json:"district_id"`
	KeyWord    string `json:"key_word"`
	Name       string `json:"name"`
	Status     string `json:"status"`
}

func main() {
	provincePath := flag.String("provinces", "storage/province.json", "path to raw province export")
	districtPath := flag.String("districts", "storage/district.json", "path to raw district export")
	wardPath := flag.String("wards", "storage/ward.json", "path to raw ward export")
	out := flag.String("out", "storage/seed.json", "output seed file for referencestore.JSONDataSource")
	flag.Parse()

	provinces, err := loadJSON[rawProvince](*provincePath)
	if err != nil {
		log.Fatalf("loading provinces: %v", err)
	}
	districts, err := loadJSON[rawDistrict](*districtPath)
	if err != nil {
		log.Fatalf("loading districts: %v", err)
	}
	wards, err := loadJSON[rawWard](*wardPath)
	if err != nil {
		log.Fatalf("loading wards: %v", err)
	}

	provinceByID := map[int]rawProvince{}
	for _, p := range provinces {
		provinceByID[p.ID] = p
	}
	districtByID := map[int]rawDistrict{}
	for _, d := range districts {
		districtByID[d.ID] = d
	}

	var rows []referencestore.AdminDivisionRow
	for _, w := range wards {
		if w.Status != "" && w.Status != "1" {
			continue // inactive ward
		}
		d, ok := districtByID[w.DistrictID]
		if !ok {
			continue
		}
		p, ok := provinceByID[d.ProvinceID]
		if !ok {
			continue
		}
		rows = append(rows, referencestore.AdminDivisionRow{
			ProvinceFull:       p.Name,
			ProvinceName:       normalize.StripAdminPrefixes(normalizedName(p.Name)),
			ProvinceNormalized: normalize.StripAdminPrefixes(normalizedName(p.Name)),
			DistrictFull:       d.Name,
			DistrictName:       normalize.StripAdminPrefixes(normalizedName(d.Name)),
			DistrictNormalized: normalize.StripAdminPrefixes(normalizedName(d.Name)),
			WardFull:           w.Name,
			WardName:           normalize.StripAdminPrefixes(normalizedName(w.Name)),
			WardNormalized:     normalize.StripAdminPrefixes(normalizedName(w.Name)),
		})
	}

	seed := referencestore.Seed{Divisions: rows}
	if err := referencestore.WriteSeedFile(*out, seed); err != nil {
		log.Fatalf("writing seed file: %v", err)
	}

	fmt.Printf("wrote %d admin division rows to %s\n", len(rows), *out)
}

func normalizedName(name string) string {
	return strings.TrimSpace(normalize.FinalizeNormalization(normalize.NFC(name)))
}

func loadJSON[T any](path string) ([]T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var out []T
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}
