package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "stock-checker-api/docs"
)

// Version is reported by the health endpoint
const Version = "1.0.0"

// RouterConfig holds configuration for setting up routes
type RouterConfig struct {
	StockHandler *StockHandler
}

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, config *RouterConfig) {
	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"service":   "stock-checker",
			"timestamp": time.Now().UTC(),
			"version":   Version,
		})
	})

	v1 := router.Group("/api/v1")
	{
		v1.GET("/stock-price", config.StockHandler.GetStockPrice)
		v1.POST("/stock-price", config.StockHandler.GetStockPrice)
	}
}
