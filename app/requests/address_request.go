package requests

// ParseAddressRequest is a single free-form address parse request.
type ParseAddressRequest struct {
	Address      string `json:"address" binding:"required"`
	ProvinceHint string `json:"province_hint,omitempty"`
	DistrictHint string `json:"district_hint,omitempty"`
	UseCache     bool   `json:"use_cache,omitempty"`
}

// BatchParseRequest parses a batch of addresses, each independently — the
// core imposes no ordering or synchronization across them.
type BatchParseRequest struct {
	Addresses []string `json:"addresses" binding:"required,min=1,max=20000"`
}
