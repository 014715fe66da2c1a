package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"retailpulse/service"
)

// ExecuteSQLHandler executes an ad-hoc SQL query against the warehouse
// @Summary      Execute SQL query
// @Description  Execute a query against the warehouse and optionally save the result as a JSON or CSV export
// @Tags         SQL Execution
// @Accept       json
// @Produce      json
// @Param        request  body      object  true  "SQL execution request"  example({"sql": "SELECT * FROM Products", "save": true, "format": "json"})
// @Success      200      {object}  models.QueryResult  "Query execution result"
// @Failure      400      {object}  map[string]string   "Invalid request"
// @Failure      500      {object}  map[string]string   "Query execution error"
// @Router       /api/sql/execute [post]
func (h *Handlers) ExecuteSQLHandler(c *gin.Context) {
	var req struct {
		SQL    string `json:"sql" example:"SELECT * FROM Products"`
		Save   bool   `json:"save" example:"true"`
		Format string `json:"format" example:"json"` // "json" or "csv"
	}

	if err := c.ShouldBindJSON(&req); err != nil || req.SQL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	ctx := service.WithViewLabel(c.Request.Context(), "adhoc")
	result, err := h.warehouse.Query(ctx, req.SQL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	filename := ""
	if req.Save && h.results != nil {
		format := req.Format
		if format != "csv" {
			format = "json"
		}

		var saveErr error
		if format == "csv" {
			filename, saveErr = h.results.SaveResultAsCSV(result, req.SQL)
		} else {
			filename, saveErr = h.results.SaveResultAsJSON(result, req.SQL)
		}
		if saveErr != nil {
			log.Printf("Warning: failed to save result file: %v", saveErr)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"columns":  result.Columns,
		"rows":     result.Rows,
		"filename": filename,
	})
}
