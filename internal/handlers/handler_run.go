package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ledgerly/ledgerly_backend/internal/core/domain"
	portssvc "github.com/ledgerly/ledgerly_backend/internal/core/ports/services"
	"github.com/ledgerly/ledgerly_backend/internal/dto"
	"github.com/ledgerly/ledgerly_backend/internal/middleware"
)

// runHandler handles HTTP requests related to reconciliation runs.
type runHandler struct {
	runService    portssvc.RunSvcFacade
	reportService portssvc.ReportSvcFacade
	issueService  portssvc.IssueSvcFacade
}

// newRunHandler creates a new runHandler.
func newRunHandler(rs portssvc.RunSvcFacade, reps portssvc.ReportSvcFacade, is portssvc.IssueSvcFacade) *runHandler {
	return &runHandler{
		runService:    rs,
		reportService: reps,
		issueService:  is,
	}
}

// registerClientRunRoutes registers the run collection routes nested under a
// specific client.
func registerClientRunRoutes(rg *gin.RouterGroup, runService portssvc.RunSvcFacade) {
	h := newRunHandler(runService, nil, nil)

	runs := rg.Group("/runs")
	{
		runs.POST("", h.createRun)
		runs.GET("", h.listRuns)
	}
}

// registerRunRoutes registers routes addressing a single run by ID.
func registerRunRoutes(rg *gin.RouterGroup, runService portssvc.RunSvcFacade, reportService portssvc.ReportSvcFacade, issueService portssvc.IssueSvcFacade) {
	h := newRunHandler(runService, reportService, issueService)

	runSpecific := rg.Group("/runs/:run_id")
	{
		runSpecific.GET("", h.getRun)
		runSpecific.GET("/issues", h.listRunIssues)
		runSpecific.GET("/reports", h.listRunReports)
		runSpecific.POST("/reports", h.generateReport)
	}
}

// createRun godoc
// @Summary Start a reconciliation run
// @Description Creates a pending run for the client and enqueues it for background execution.
// @Tags runs
// @Produce  json
// @Param   client_id path string true "Client ID"
// @Success 202 {object} dto.RunResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "Client not found"
// @Failure 409 {object} ErrorResponse "Another run is already in flight"
// @Failure 412 {object} ErrorResponse "Client has no documents"
// @Failure 503 {object} ErrorResponse "Worker queue full"
// @Security BearerAuth
// @Router /clients/{client_id}/runs [post]
func (h *runHandler) createRun(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, orgID, ok := identityFromContext(c, logger)
	if !ok {
		return
	}

	run, err := h.runService.CreateRun(c.Request.Context(), orgID, c.Param("client_id"), userID)
	if err != nil {
		respondError(c, logger, err, "Failed to create run")
		return
	}

	logger.Info("Run created", slog.String("run_id", run.RunID), slog.String("client_id", run.ClientID))
	c.JSON(http.StatusAccepted, dto.ToRunResponse(run))
}

// listRuns godoc
// @Summary List runs for a client
// @Description Retrieves all reconciliation runs for a client, newest first.
// @Tags runs
// @Produce  json
// @Param   client_id path string true "Client ID"
// @Success 200 {array} dto.RunResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "Client not found"
// @Security BearerAuth
// @Router /clients/{client_id}/runs [get]
func (h *runHandler) listRuns(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	_, orgID, ok := identityFromContext(c, logger)
	if !ok {
		return
	}

	runs, err := h.runService.ListRuns(c.Request.Context(), orgID, c.Param("client_id"))
	if err != nil {
		respondError(c, logger, err, "Failed to list runs")
		return
	}

	c.JSON(http.StatusOK, dto.ToListRunsResponse(runs))
}

// getRun godoc
// @Summary Get a run by ID
// @Description Retrieves a run including its status and, once completed, its metrics. The dashboard polls this endpoint.
// @Tags runs
// @Produce  json
// @Param   run_id path string true "Run ID"
// @Success 200 {object} dto.RunResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "Run not found"
// @Security BearerAuth
// @Router /runs/{run_id} [get]
func (h *runHandler) getRun(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	_, orgID, ok := identityFromContext(c, logger)
	if !ok {
		return
	}

	run, err := h.runService.GetRunByID(c.Request.Context(), orgID, c.Param("run_id"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve run")
		return
	}

	c.JSON(http.StatusOK, dto.ToRunResponse(run))
}

// listRunIssues godoc
// @Summary List issues produced by a run
// @Description Retrieves every issue a run produced, in detection order.
// @Tags issues
// @Produce  json
// @Param   run_id path string true "Run ID"
// @Success 200 {array} dto.IssueResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "Run not found"
// @Security BearerAuth
// @Router /runs/{run_id}/issues [get]
func (h *runHandler) listRunIssues(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	_, orgID, ok := identityFromContext(c, logger)
	if !ok {
		return
	}

	issues, err := h.issueService.ListIssuesByRun(c.Request.Context(), orgID, c.Param("run_id"))
	if err != nil {
		respondError(c, logger, err, "Failed to list run issues")
		return
	}

	c.JSON(http.StatusOK, dto.ToListIssuesResponse(issues))
}

// listRunReports godoc
// @Summary List reports generated for a run
// @Description Retrieves the reports a completed run has produced.
// @Tags reports
// @Produce  json
// @Param   run_id path string true "Run ID"
// @Success 200 {array} dto.ReportResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "Run not found"
// @Security BearerAuth
// @Router /runs/{run_id}/reports [get]
func (h *runHandler) listRunReports(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	_, orgID, ok := identityFromContext(c, logger)
	if !ok {
		return
	}

	reports, err := h.reportService.ListReportsByRun(c.Request.Context(), orgID, c.Param("run_id"))
	if err != nil {
		respondError(c, logger, err, "Failed to list run reports")
		return
	}

	c.JSON(http.StatusOK, dto.ToListReportsResponse(reports))
}

// generateReport godoc
// @Summary Generate a report for a completed run
// @Description Builds the requested report type. Generation is idempotent; an existing report of the same type is returned as is.
// @Tags reports
// @Accept  json
// @Produce  json
// @Param   run_id path string true "Run ID"
// @Param   body body dto.GenerateReportRequest true "Report type"
// @Success 201 {object} dto.ReportResponse
// @Failure 400 {object} ErrorResponse "Invalid report type"
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "Run not found"
// @Failure 412 {object} ErrorResponse "Run has not completed"
// @Security BearerAuth
// @Router /runs/{run_id}/reports [post]
func (h *runHandler) generateReport(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.GenerateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Detail: "Invalid request format: " + err.Error()})
		return
	}

	userID, orgID, ok := identityFromContext(c, logger)
	if !ok {
		return
	}

	report, err := h.reportService.GenerateReport(c.Request.Context(), orgID, c.Param("run_id"), domain.ReportType(req.Type), userID)
	if err != nil {
		respondError(c, logger, err, "Failed to generate report")
		return
	}

	logger.Info("Report generated", slog.String("report_id", report.ReportID), slog.String("type", string(report.Type)))
	c.JSON(http.StatusCreated, dto.ToReportResponse(report))
}
