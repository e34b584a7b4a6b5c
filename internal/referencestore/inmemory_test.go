package referencestore

import "testing"

func fixtureSource() StaticDataSource {
	return StaticDataSource{
		Divisions: []AdminDivisionRow{
			{
				ProvinceFull: "Thành phố Hà Nội", ProvinceName: "Hà Nội", ProvinceNormalized: "ha noi",
				DistrictFull: "Quận Ba Đình", DistrictName: "Ba Đình", DistrictNormalized: "ba dinh",
				WardFull: "Phường Phúc Xá", WardName: "Phúc Xá", WardNormalized: "phuc xa",
				StateCode: "HN",
			},
			{
				ProvinceFull: "Thành phố Hà Nội", ProvinceName: "Hà Nội", ProvinceNormalized: "ha noi",
				DistrictFull: "Quận Ba Đình", DistrictName: "Ba Đình", DistrictNormalized: "ba dinh",
				WardFull: "Phường Cống Vị", WardName: "Cống Vị", WardNormalized: "cong vi",
				CountyCode: "BD",
			},
			{
				ProvinceFull: "Tỉnh Bắc Ninh", ProvinceName: "Bắc Ninh", ProvinceNormalized: "bac ninh",
				DistrictFull: "Thành phố Bắc Ninh", DistrictName: "Bắc Ninh", DistrictNormalized: "bac ninh",
			},
		},
	}
}

func TestInMemoryStore_HierarchyValid(t *testing.T) {
	s := NewInMemoryStore(fixtureSource())

	cases := []struct {
		province, district, ward string
		want                     bool
	}{
		{"ha noi", "ba dinh", "phuc xa", true},
		{"ha noi", "ba dinh", "", true},
		{"ha noi", "", "", true},
		{"ha noi", "ba dinh", "no such ward", false},
		{"ha noi", "no such district", "", false},
		{"", "", "", false},
	}
	for _, c := range cases {
		if got := s.HierarchyValid(c.province, c.district, c.ward); got != c.want {
			t.Errorf("HierarchyValid(%q, %q, %q) = %v, want %v", c.province, c.district, c.ward, got, c.want)
		}
	}
}

func TestInMemoryStore_DistrictProvinceCollision(t *testing.T) {
	s := NewInMemoryStore(fixtureSource())

	// "bac ninh" exists both as a province and as a district of itself.
	col, ok := s.ProvinceDistrictCollision("bac ninh")
	if !ok {
		t.Fatal("expected a collision for \"bac ninh\"")
	}
	if !col.IsProvince || !col.IsDistrict {
		t.Errorf("collision = %+v, want both IsProvince and IsDistrict set", col)
	}

	if _, ok := s.ProvinceDistrictCollision("ba dinh"); ok {
		t.Error("\"ba dinh\" is a district only, should not report a collision")
	}
}

func TestInMemoryStore_InferDistrictFromWard(t *testing.T) {
	s := NewInMemoryStore(fixtureSource())

	d, ok := s.InferDistrictFromWard("ha noi", "phuc xa")
	if !ok || d != "ba dinh" {
		t.Errorf("InferDistrictFromWard() = (%q, %v), want (\"ba dinh\", true)", d, ok)
	}

	if _, ok := s.InferDistrictFromWard("ha noi", "no such ward"); ok {
		t.Error("InferDistrictFromWard should fail for an unknown ward")
	}
}

func TestInMemoryStore_StateCountyCodes(t *testing.T) {
	s := NewInMemoryStore(fixtureSource())

	state, _ := s.StateCountyCodes("ha noi", "", "")
	if state != "HN" {
		t.Errorf("StateCountyCodes state = %q, want %q", state, "HN")
	}

	_, county := s.StateCountyCodes("ha noi", "ba dinh", "")
	if county != "BD" {
		t.Errorf("StateCountyCodes county = %q, want %q", county, "BD")
	}

	state, county = s.StateCountyCodes("bac ninh", "bac ninh", "")
	if state != "" || county != "" {
		t.Errorf("StateCountyCodes for a row without codes should be empty, got (%q, %q)", state, county)
	}
}

func TestInMemoryStore_DistrictsOfDedupesAcrossRows(t *testing.T) {
	s := NewInMemoryStore(fixtureSource())

	districts := s.DistrictsOf("ha noi")
	if len(districts) != 1 {
		t.Fatalf("DistrictsOf(\"ha noi\") = %d entries, want 1 (deduped across two ward rows)", len(districts))
	}
	if districts[0].Normalized != "ba dinh" {
		t.Errorf("DistrictsOf(\"ha noi\")[0].Normalized = %q, want %q", districts[0].Normalized, "ba dinh")
	}
}

func TestInMemoryStore_FindAdminRequiresTwoLevels(t *testing.T) {
	s := NewInMemoryStore(fixtureSource())

	if _, ok := s.FindAdmin("ha noi", "", ""); ok {
		t.Error("FindAdmin with only a province should fail (needs >=2 levels)")
	}
	rec, ok := s.FindAdmin("ha noi", "ba dinh", "")
	if !ok {
		t.Fatal("FindAdmin(\"ha noi\", \"ba dinh\", \"\") should succeed")
	}
	if rec.Province.Normalized != "ha noi" || rec.District.Normalized != "ba dinh" {
		t.Errorf("FindAdmin record = %+v, unexpected", rec)
	}
}
