package handlers

import (
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
)

// ListResultFilesHandler lists saved result exports
// @Summary      List result files
// @Description  Get saved query result exports, newest first
// @Tags         Results
// @Produce      json
// @Success      200  {object}  map[string][]models.ResultFileInfo
// @Failure      500  {object}  map[string]string
// @Router       /api/results/files [get]
func (h *Handlers) ListResultFilesHandler(c *gin.Context) {
	files, err := h.results.ListResultFiles()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list result files"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"files": files})
}

// GetResultFileHandler serves one saved result export
// @Summary      Download a result file
// @Tags         Results
// @Produce      json
// @Param        filename  path  string  true  "Result filename"
// @Success      200  {file}    file
// @Failure      404  {object}  map[string]string
// @Router       /api/results/file/{filename} [get]
func (h *Handlers) GetResultFileHandler(c *gin.Context) {
	filename := c.Param("filename")

	data, err := h.results.ReadResultFile(filename)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Result file not found"})
		return
	}

	contentType := "application/json"
	if filepath.Ext(filename) == ".csv" {
		contentType = "text/csv"
	}
	c.Data(http.StatusOK, contentType, data)
}
