package http

import (
	"github.com/gin-gonic/gin"
	"github.com/tcgwallet/backend/config"
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
	router.Use(RequestIDMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		cards := v1.Group("/cards")
		{
			cards.POST("/match", handler.MatchCard)
			cards.GET("/:id/variants", handler.CardVariants)
		}

		packs := v1.Group("/packs")
		{
			packs.GET("/:id/group", handler.PackGroup)
		}

		tcgplayer := v1.Group("/tcgplayer")
		{
			tcgplayer.GET("/groups", handler.PriceGroups)
			tcgplayer.GET("/products/:groupId", handler.PriceProducts)
			tcgplayer.GET("/prices/:groupId", handler.Prices)
		}
	}

	return router
}
