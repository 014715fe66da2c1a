package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthHandler checks the health status of the service
// @Summary      Health check
// @Description  Check the warehouse connection and analyst bridge status
// @Tags         Health
// @Produce      json
// @Success      200  {object}  map[string]string  "Service health status"
// @Router       /health [get]
func (h *Handlers) HealthHandler(c *gin.Context) {
	status := gin.H{
		"status":    "healthy",
		"warehouse": "disconnected",
		"analyst":   "not_configured",
	}

	if h.warehouse != nil && h.warehouse.IsConnected() {
		status["warehouse"] = "connected"
	}
	if h.analyst != nil {
		status["analyst"] = "ready"
	}

	c.JSON(http.StatusOK, status)
}
