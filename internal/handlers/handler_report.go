package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/ledgerly/ledgerly_backend/internal/core/ports/services"
	"github.com/ledgerly/ledgerly_backend/internal/dto"
	"github.com/ledgerly/ledgerly_backend/internal/middleware"
)

// reportHandler handles HTTP requests related to generated reports.
type reportHandler struct {
	reportService portssvc.ReportSvcFacade
}

// newReportHandler creates a new reportHandler.
func newReportHandler(rs portssvc.ReportSvcFacade) *reportHandler {
	return &reportHandler{
		reportService: rs,
	}
}

// registerClientReportRoutes registers the report collection routes nested
// under a specific client.
func registerClientReportRoutes(rg *gin.RouterGroup, reportService portssvc.ReportSvcFacade) {
	h := newReportHandler(reportService)

	reports := rg.Group("/reports")
	{
		reports.GET("", h.listReports)
	}
}

// registerReportRoutes registers routes addressing a single report by ID.
func registerReportRoutes(rg *gin.RouterGroup, reportService portssvc.ReportSvcFacade) {
	h := newReportHandler(reportService)

	reportSpecific := rg.Group("/reports/:report_id")
	{
		reportSpecific.GET("", h.getReport)
		reportSpecific.GET("/markdown", h.getReportMarkdown)
		reportSpecific.GET("/pdf", h.getReportPDFURL)
	}
}

// listReports godoc
// @Summary List reports for a client
// @Description Retrieves all generated reports for a client, newest first.
// @Tags reports
// @Produce  json
// @Param   client_id path string true "Client ID"
// @Success 200 {array} dto.ReportResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "Client not found"
// @Security BearerAuth
// @Router /clients/{client_id}/reports [get]
func (h *reportHandler) listReports(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	_, orgID, ok := identityFromContext(c, logger)
	if !ok {
		return
	}

	reports, err := h.reportService.ListReports(c.Request.Context(), orgID, c.Param("client_id"))
	if err != nil {
		respondError(c, logger, err, "Failed to list reports")
		return
	}

	c.JSON(http.StatusOK, dto.ToListReportsResponse(reports))
}

// getReport godoc
// @Summary Get a report by ID
// @Description Retrieves a report including its full markdown content.
// @Tags reports
// @Produce  json
// @Param   report_id path string true "Report ID"
// @Success 200 {object} dto.ReportResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "Report not found"
// @Security BearerAuth
// @Router /reports/{report_id} [get]
func (h *reportHandler) getReport(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	_, orgID, ok := identityFromContext(c, logger)
	if !ok {
		return
	}

	report, err := h.reportService.GetReportByID(c.Request.Context(), orgID, c.Param("report_id"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve report")
		return
	}

	c.JSON(http.StatusOK, dto.ToReportResponse(report))
}

// getReportMarkdown godoc
// @Summary Get the raw markdown of a report
// @Description Serves the report body as a markdown document rather than JSON.
// @Tags reports
// @Produce  plain
// @Param   report_id path string true "Report ID"
// @Success 200 {string} string
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "Report not found"
// @Security BearerAuth
// @Router /reports/{report_id}/markdown [get]
func (h *reportHandler) getReportMarkdown(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	_, orgID, ok := identityFromContext(c, logger)
	if !ok {
		return
	}

	report, err := h.reportService.GetReportByID(c.Request.Context(), orgID, c.Param("report_id"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve report")
		return
	}

	c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(report.ContentMD))
}

// getReportPDFURL godoc
// @Summary Get a download URL for a report PDF
// @Description Returns a short-lived presigned URL for the rendered PDF of a report.
// @Tags reports
// @Produce  json
// @Param   report_id path string true "Report ID"
// @Success 200 {object} dto.ReportPDFURLResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "Report not found"
// @Failure 412 {object} ErrorResponse "Report has no rendered PDF"
// @Security BearerAuth
// @Router /reports/{report_id}/pdf [get]
func (h *reportHandler) getReportPDFURL(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	_, orgID, ok := identityFromContext(c, logger)
	if !ok {
		return
	}

	url, err := h.reportService.GetReportPDFURL(c.Request.Context(), orgID, c.Param("report_id"))
	if err != nil {
		respondError(c, logger, err, "Failed to create download URL")
		return
	}

	c.JSON(http.StatusOK, dto.ReportPDFURLResponse{URL: url})
}
