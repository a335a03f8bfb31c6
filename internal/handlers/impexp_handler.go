package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tally/internal/services"
)

// ImpExpHandler handles transaction export and CSV import requests.
type ImpExpHandler struct {
	exportService services.ExportServicer
	importService services.ImportServicer
}

// NewImpExpHandler creates a new ImpExpHandler
func NewImpExpHandler(exportService services.ExportServicer, importService services.ImportServicer) *ImpExpHandler {
	return &ImpExpHandler{exportService: exportService, importService: importService}
}

// Export renders the user's filtered transactions as CSV (default) or
// JSON, selected by the format query parameter.
func (h *ImpExpHandler) Export(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.exportService.Export(userID, c.Query("format"), parseTransactionFilter(c))
	if err != nil {
		respondWithError(c, err)
		return
	}

	filename := "transactions.csv"
	if result.MIME == "application/json" {
		filename = "transactions.json"
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, result.MIME, []byte(result.Content))
}

// ImportTemplate returns the expected CSV header plus an example.
func (h *ImpExpHandler) ImportTemplate(c *gin.Context) {
	if _, err := getUserID(c); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.importService.Template())
}

// Import bulk-creates transactions from the CSV request body. Row failures
// are reported per line; valid rows still commit.
func (h *ImpExpHandler) Import(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.importService.ImportCSV(userID, c.Request.Body)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
