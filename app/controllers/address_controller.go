package controllers

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vnaddress/parser/app/requests"
	"github.com/vnaddress/parser/app/responses"
	"github.com/vnaddress/parser/internal/cache"
	"github.com/vnaddress/parser/internal/model"
	"github.com/vnaddress/parser/internal/pipeline"
	reviewstore "github.com/vnaddress/parser/internal/store/mongo"
)

// AddressController exposes the core parser over HTTP. It is a thin
// wrapper — all parsing logic lives in internal/pipeline.
type AddressController struct {
	parser *pipeline.Parser
	cache  *cache.RedisResultCache // optional, nil disables HTTP-level caching
	review *reviewstore.ReviewSink // optional, nil disables review capture
	log    *zap.Logger
	start  time.Time
}

// NewAddressController wires an AddressController. cache and review may be
// nil to disable those ambient, outside-the-core features.
func NewAddressController(parser *pipeline.Parser, resultCache *cache.RedisResultCache, review *reviewstore.ReviewSink, log *zap.Logger) *AddressController {
	return &AddressController{parser: parser, cache: resultCache, review: review, log: log, start: time.Now()}
}

func (ac *AddressController) parseOne(c *gin.Context, address, provinceHint, districtHint string, useCache bool) (responses.ParseAddressResponse, error) {
	startedAt := time.Now()

	if useCache && ac.cache != nil {
		normalized := ac.parser.Normalize(address)
		if cached, found := ac.cache.Get(c.Request.Context(), normalized); found {
			return responses.ParseAddressResponse{
				Candidates: cached.Candidates, Best: cached.Best, QualityFlag: cached.QualityFlag,
				Errors: cached.Errors, ProcessingTimeMs: time.Since(startedAt).Milliseconds(), CacheHit: true,
			}, nil
		}
	}

	result := ac.parser.Parse(address, provinceHint, districtHint)

	if useCache && ac.cache != nil {
		normalized := ac.parser.Normalize(address)
		if err := ac.cache.Set(c.Request.Context(), normalized, result); err != nil {
			ac.log.Warn("result cache set failed", zap.Error(err))
		}
	}
	if ac.review != nil && (result.QualityFlag == model.QualityPartialAddress || result.QualityFlag == model.QualityFailed) {
		if err := ac.review.Flag(c.Request.Context(), address, ac.parser.Normalize(address), result); err != nil {
			ac.log.Warn("review flag failed", zap.Error(err))
		}
	}

	return responses.ParseAddressResponse{
		Candidates: result.Candidates, Best: result.Best, QualityFlag: result.QualityFlag,
		Errors: result.Errors, ProcessingTimeMs: time.Since(startedAt).Milliseconds(), CacheHit: false,
	}, nil
}

// ParseAddress handles POST /v1/addresses/parse.
func (ac *AddressController) ParseAddress(c *gin.Context) {
	var req requests.ParseAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, responses.ErrorResponse{Error: "invalid_request", Message: err.Error()})
		return
	}

	resp, err := ac.parseOne(c, req.Address, req.ProvinceHint, req.DistrictHint, req.UseCache)
	if err != nil {
		c.JSON(http.StatusInternalServerError, responses.ErrorResponse{Error: "parse_error", Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// BatchParse handles POST /v1/addresses/parse/batch, parsing every address
// independently and concurrently since each input has no shared state
// with the others.
func (ac *AddressController) BatchParse(c *gin.Context) {
	var req requests.BatchParseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, responses.ErrorResponse{Error: "invalid_request", Message: err.Error()})
		return
	}

	started := time.Now()
	results := make([]responses.ParseAddressResponse, len(req.Addresses))

	const maxConcurrency = 16
	sem := make(chan struct{}, maxConcurrency)
	var wg sync.WaitGroup
	for i, addr := range req.Addresses {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, addr string) {
			defer wg.Done()
			defer func() { <-sem }()
			resp, _ := ac.parseOne(c, addr, "", "", false)
			results[i] = resp
		}(i, addr)
	}
	wg.Wait()

	c.JSON(http.StatusOK, responses.BatchParseResponse{
		Results: results, ProcessingTimeMs: time.Since(started).Milliseconds(),
	})
}

// HealthCheck handles GET /health, /ready, /live and /v1/health.
func (ac *AddressController) HealthCheck(c *gin.Context) {
	services := map[string]string{"parser": "healthy"}
	if ac.cache != nil {
		services["cache"] = "healthy"
	}
	if ac.review != nil {
		services["review"] = "healthy"
	}
	c.JSON(http.StatusOK, responses.HealthCheckResponse{Status: "healthy", Version: "1.0.0", Services: services})
}
