package api

import (
	"github.com/gin-gonic/gin"

	"inboxintel/internal/triage/delivery"
)

// Handler wires the dashboard HTTP server
type Handler struct {
	triageHandler *delivery.TriageHandler
}

// NewHandler creates a new HTTP handler
func NewHandler(triageHandler *delivery.TriageHandler) *Handler {
	return &Handler{triageHandler: triageHandler}
}

// Start runs the dashboard server on addr, blocking until it exits
func (h *Handler) Start(addr string) error {
	gin.SetMode(gin.ReleaseMode)
	r := gin.Default()

	// CORS middleware for local dashboard frontends
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept, Origin, Cache-Control")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	SetupRoutes(r, h.triageHandler)

	return r.Run(addr)
}
