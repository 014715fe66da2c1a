package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// QueryHistoryHandler lists the warehouse statement audit log
// @Summary      Query history
// @Description  Recently executed warehouse statements with duration, row count and any error, newest first
// @Tags         History
// @Produce      json
// @Param        limit  query  int  false  "Maximum entries to return (default 100)"
// @Success      200  {object}  map[string][]models.QueryHistoryEntry
// @Failure      500  {object}  map[string]string
// @Router       /api/history [get]
func (h *Handlers) QueryHistoryHandler(c *gin.Context) {
	limit := 100
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	entries, err := h.history.List(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load query history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"history": entries})
}
