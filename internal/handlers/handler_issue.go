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

// issueHandler handles HTTP requests related to reconciliation issues.
type issueHandler struct {
	issueService portssvc.IssueSvcFacade
}

// newIssueHandler creates a new issueHandler.
func newIssueHandler(is portssvc.IssueSvcFacade) *issueHandler {
	return &issueHandler{
		issueService: is,
	}
}

// registerClientIssueRoutes registers the issue collection routes nested
// under a specific client.
func registerClientIssueRoutes(rg *gin.RouterGroup, issueService portssvc.IssueSvcFacade) {
	h := newIssueHandler(issueService)

	issues := rg.Group("/issues")
	{
		issues.GET("", h.listIssues)
	}
}

// registerIssueRoutes registers routes addressing a single issue by ID.
func registerIssueRoutes(rg *gin.RouterGroup, issueService portssvc.IssueSvcFacade) {
	h := newIssueHandler(issueService)

	issueSpecific := rg.Group("/issues/:issue_id")
	{
		issueSpecific.GET("", h.getIssue)
		issueSpecific.PATCH("", h.updateIssueStatus)
	}
}

// listIssues godoc
// @Summary List issues for a client
// @Description Retrieves issues for a client, high severity first. Severity, category and status filters combine with AND.
// @Tags issues
// @Produce  json
// @Param   client_id path string true "Client ID"
// @Param   severity query string false "Filter by severity" Enums(low, med, high)
// @Param   category query string false "Filter by category" Enums(missing_invoice, duplicate, mismatch, gst_mismatch, other)
// @Param   status query string false "Filter by status" Enums(open, accepted, resolved)
// @Success 200 {array} dto.IssueResponse
// @Failure 400 {object} ErrorResponse "Invalid filter value"
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "Client not found"
// @Security BearerAuth
// @Router /clients/{client_id}/issues [get]
func (h *issueHandler) listIssues(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var filter dto.IssueFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Detail: "Invalid filter: " + err.Error()})
		return
	}

	_, orgID, ok := identityFromContext(c, logger)
	if !ok {
		return
	}

	issues, err := h.issueService.ListIssues(c.Request.Context(), orgID, c.Param("client_id"), filter)
	if err != nil {
		respondError(c, logger, err, "Failed to list issues")
		return
	}

	c.JSON(http.StatusOK, dto.ToListIssuesResponse(issues))
}

// getIssue godoc
// @Summary Get an issue by ID
// @Description Retrieves a single issue including its detail payload.
// @Tags issues
// @Produce  json
// @Param   issue_id path string true "Issue ID"
// @Success 200 {object} dto.IssueResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "Issue not found"
// @Security BearerAuth
// @Router /issues/{issue_id} [get]
func (h *issueHandler) getIssue(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	_, orgID, ok := identityFromContext(c, logger)
	if !ok {
		return
	}

	issue, err := h.issueService.GetIssueByID(c.Request.Context(), orgID, c.Param("issue_id"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve issue")
		return
	}

	c.JSON(http.StatusOK, dto.ToIssueResponse(issue))
}

// updateIssueStatus godoc
// @Summary Triage an issue
// @Description Moves an issue to the requested triage state. Re-applying the current state succeeds without changes.
// @Tags issues
// @Accept  json
// @Produce  json
// @Param   issue_id path string true "Issue ID"
// @Param   body body dto.UpdateIssueStatusRequest true "Target status"
// @Success 200 {object} dto.IssueResponse
// @Failure 400 {object} ErrorResponse "Transition not allowed"
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "Issue not found"
// @Security BearerAuth
// @Router /issues/{issue_id} [patch]
func (h *issueHandler) updateIssueStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.UpdateIssueStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Detail: "Invalid request format: " + err.Error()})
		return
	}

	userID, orgID, ok := identityFromContext(c, logger)
	if !ok {
		return
	}

	issue, err := h.issueService.UpdateIssueStatus(c.Request.Context(), orgID, c.Param("issue_id"), domain.IssueStatus(req.Status), userID)
	if err != nil {
		respondError(c, logger, err, "Failed to update issue status")
		return
	}

	logger.Info("Issue status updated", slog.String("issue_id", issue.IssueID), slog.String("status", string(issue.Status)))
	c.JSON(http.StatusOK, dto.ToIssueResponse(issue))
}
