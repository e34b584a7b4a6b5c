package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/vnaddress/parser/app/controllers"
)

// SetupAPIRoutes thiết lập các API routes cho parsing địa chỉ
func SetupAPIRoutes(router *gin.Engine, addressController *controllers.AddressController) {
	// API v1 group
	v1 := router.Group("/v1")
	{
		// Address parsing routes
		addresses := v1.Group("/addresses")
		{
			addresses.POST("/parse", addressController.ParseAddress)
			addresses.POST("/parse/batch", addressController.BatchParse)
		}

		// Health check route
		v1.GET("/health", addressController.HealthCheck)
	}
}

// SetupHealthRoutes thiết lập health check routes
func SetupHealthRoutes(router *gin.Engine, addressController *controllers.AddressController) {
	// Root health check
	router.GET("/health", addressController.HealthCheck)

	// Readiness check
	router.GET("/ready", addressController.HealthCheck)

	// Liveness check
	router.GET("/live", addressController.HealthCheck)
}

// SetupAllRoutes thiết lập tất cả routes
func SetupAllRoutes(router *gin.Engine, addressController *controllers.AddressController) {
	// Thiết lập middleware
	setupMiddleware(router)

	// Thiết lập các loại routes
	SetupWebRoutes(router)
	SetupHealthRoutes(router, addressController)
	SetupAPIRoutes(router, addressController)

	// 404 handler
	router.NoRoute(func(c *gin.Context) {
		c.JSON(404, gin.H{
			"error":  "Route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})
}

// setupMiddleware thiết lập middleware cho router
func setupMiddleware(router *gin.Engine) {
	// Recovery middleware
	router.Use(gin.Recovery())

	// Logger middleware
	router.Use(gin.Logger())
}
