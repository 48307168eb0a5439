package http

import (
	"github.com/gin-gonic/gin"
	"github.com/nutriscan/backend/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))
	router.Use(BodyLimitMiddleware())

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		v1.POST("/evaluate", handler.EvaluateProduct)
		v1.POST("/chat", handler.Chat)

		products := v1.Group("/products")
		{
			products.GET("/:barcode", handler.GetProduct)
			products.POST("/:barcode/evaluate", handler.ScanAndEvaluate)
		}
	}

	return router
}
