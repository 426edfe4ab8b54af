package handlers

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"teamtrack/internal/services"
)

type ReportHandler struct {
	reportService services.ReportService
}

func NewReportHandler(reportService services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// @Summary      Dashboard summary (admin)
// @Tags         Reports
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  services.Summary
// @Router       /reports/summary [get]
func (h *ReportHandler) GetSummary(c *gin.Context) {
	sum, err := h.reportService.GetSummary(c.Request.Context())
	if err != nil {
		log.Printf("[reports][summary] service error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build summary"})
		return
	}
	c.JSON(http.StatusOK, sum)
}

// @Summary      Dashboard summary as PDF (admin)
// @Tags         Reports
// @Produce      application/pdf
// @Security     BearerAuth
// @Success      200  {file}  binary
// @Router       /reports/summary/pdf [get]
func (h *ReportHandler) GetSummaryPDF(c *gin.Context) {
	data, err := h.reportService.GetSummaryPDF(c.Request.Context())
	if err != nil {
		log.Printf("[reports][summary-pdf] service error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate PDF"})
		return
	}

	filename := fmt.Sprintf("summary_%s.pdf", time.Now().UTC().Format("2006-01-02"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", data)
}
