package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ledgerly/ledgerly_backend/internal/core/domain"
	portssvc "github.com/ledgerly/ledgerly_backend/internal/core/ports/services"
	"github.com/ledgerly/ledgerly_backend/internal/dto"
	"github.com/ledgerly/ledgerly_backend/internal/middleware"
)

// auditHandler handles HTTP requests for the org audit trail.
type auditHandler struct {
	auditService portssvc.AuditSvcFacade
}

// registerAuditRoutes registers the audit log routes.
func registerAuditRoutes(rg *gin.RouterGroup, auditService portssvc.AuditSvcFacade) {
	h := &auditHandler{auditService: auditService}

	audit := rg.Group("/audit-logs")
	{
		audit.GET("", h.listAuditLogs)
	}
}

// listAuditLogs godoc
// @Summary List recent audit log entries
// @Description Retrieves recent audit entries for the caller's org, newest first. Admin only.
// @Tags audit
// @Produce  json
// @Param   limit query int false "Maximum number of entries (default 100)"
// @Success 200 {array} dto.AuditLogResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse "Caller is not an org admin"
// @Security BearerAuth
// @Router /audit-logs [get]
func (h *auditHandler) listAuditLogs(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	_, orgID, ok := identityFromContext(c, logger)
	if !ok {
		return
	}

	role, _ := middleware.GetRoleFromContext(c)
	if role != string(domain.RoleAdmin) {
		c.JSON(http.StatusForbidden, ErrorResponse{Detail: "Admin role required"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	logs, err := h.auditService.ListByOrg(c.Request.Context(), orgID, limit)
	if err != nil {
		respondError(c, logger, err, "Failed to list audit logs")
		return
	}

	c.JSON(http.StatusOK, dto.ToListAuditLogsResponse(logs))
}
