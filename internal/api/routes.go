package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title Issue Stats API
// @version 1.0
// @description Daily running totals of opened and closed issues for a GitHub repository
// @host localhost:8080
// @BasePath /api/v1

// SetupRouter configures the API routes
func SetupRouter(h *Handler, syncSecret string) *gin.Engine {
	r := gin.Default()
	r.HandleMethodNotAllowed = true
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, ErrorResponse{Error: "method not allowed"})
	})

	// API documentation
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API v1 group
	v1 := r.Group("/api/v1")
	{
		stats := v1.Group("/stats")
		{
			stats.GET("", h.ListHistory)

			// Trigger endpoints require the shared secret and are POST only.
			triggers := stats.Group("", RequireSyncSecret(syncSecret))
			{
				triggers.POST("/backfill", h.BackfillHistory)
				triggers.POST("/snapshot", h.WriteSnapshot)
			}
		}
	}

	return r
}
