package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/srezka/kassa-api/internal/application/service"
	"github.com/srezka/kassa-api/internal/presentation/http/dto/response"
)

// ReportHandler serves finance and sales reports
type ReportHandler struct {
	reportService *service.ReportService
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// Finance returns the unit-economy report for a named period or a custom
// from/to window.
func (h *ReportHandler) Finance(c *gin.Context) {
	from, ok := DateQuery(c, "from")
	if !ok {
		response.BadRequest(c, "Invalid from date, expected yyyy-mm-dd")
		return
	}
	to, ok := DateQuery(c, "to")
	if !ok {
		response.BadRequest(c, "Invalid to date, expected yyyy-mm-dd")
		return
	}

	from, to, err := h.reportService.PeriodBounds(c.Query("period"), from, to)
	if err != nil {
		response.Error(c, err)
		return
	}

	report, err := h.reportService.Finance(c.Request.Context(), from, to)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Finance report", report)
}

// Sales lists sales within a from/to window.
func (h *ReportHandler) Sales(c *gin.Context) {
	from, ok := DateQuery(c, "from")
	if !ok {
		response.BadRequest(c, "Invalid from date, expected yyyy-mm-dd")
		return
	}
	to, ok := DateQuery(c, "to")
	if !ok {
		response.BadRequest(c, "Invalid to date, expected yyyy-mm-dd")
		return
	}

	sales, err := h.reportService.Sales(c.Request.Context(), from, to)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Sales retrieved", sales)
}
