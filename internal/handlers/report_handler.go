package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tally/internal/services"
)

// ReportHandler handles report-related requests
type ReportHandler struct {
	reportService services.ReportServicer
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService services.ReportServicer) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// Summary aggregates transactions in a date range, grouped by category,
// account, or month.
func (h *ReportHandler) Summary(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.reportService.Summary(userID, c.Query("from"), c.Query("to"), c.Query("groupBy"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}
