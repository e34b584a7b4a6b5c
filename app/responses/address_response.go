package responses

import "github.com/vnaddress/parser/internal/model"

// ParseAddressResponse is the HTTP surface's wrapping of a single
// model.ParseResult.
type ParseAddressResponse struct {
	Candidates       []model.Candidate  `json:"candidates"`
	Best             model.FormattedOutput `json:"best"`
	QualityFlag      model.QualityFlag  `json:"quality_flag"`
	Errors           []string           `json:"errors,omitempty"`
	ProcessingTimeMs int64              `json:"processing_time_ms"`
	CacheHit         bool               `json:"cache_hit"`
}

// BatchParseResponse is the HTTP surface's wrapping of a concurrent batch
// parse — one ParseAddressResponse per input address, in input order.
type BatchParseResponse struct {
	Results          []ParseAddressResponse `json:"results"`
	ProcessingTimeMs int64                  `json:"processing_time_ms"`
}

// ErrorResponse is returned for malformed requests or internal failures.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// HealthCheckResponse reports liveness of the HTTP surface and its
// optional datastores.
type HealthCheckResponse struct {
	Status   string            `json:"status"`
	Version  string            `json:"version"`
	Services map[string]string `json:"services"`
}
