package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"inboxintel/internal/triage/delivery"
)

// SetupRoutes registers the dashboard API routes
func SetupRoutes(r *gin.Engine, triageHandler *delivery.TriageHandler) {
	api := r.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		api.GET("/stats", triageHandler.GetStats)
		api.GET("/emails", triageHandler.GetEmails)
		api.DELETE("/emails", triageHandler.ClearAll)
		api.POST("/triage/run", triageHandler.RunTriage)
		api.GET("/runs", triageHandler.GetRuns)
	}
}
