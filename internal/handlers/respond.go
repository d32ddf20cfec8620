package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ledgerly/ledgerly_backend/internal/apperrors"
	"github.com/ledgerly/ledgerly_backend/internal/middleware"
)

// ErrorResponse is the error body returned by every endpoint. The dashboard
// reads the detail field verbatim.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// respondError translates service errors into the JSON error contract.
// AppError carries its own status code and message; bare sentinels map to
// their conventional status; anything else becomes an opaque 500 so internal
// detail never leaks to the client.
func respondError(c *gin.Context, logger *slog.Logger, err error, fallback string) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.Code >= http.StatusInternalServerError {
			logger.Error(fallback, slog.String("error", err.Error()))
		}
		c.JSON(appErr.Code, ErrorResponse{Detail: appErr.Message})
		return
	}

	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Detail: "Resource not found"})
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, ErrorResponse{Detail: err.Error()})
	case errors.Is(err, apperrors.ErrDuplicate):
		c.JSON(http.StatusConflict, ErrorResponse{Detail: "Resource already exists"})
	case errors.Is(err, apperrors.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Detail: "Unauthorized"})
	case errors.Is(err, apperrors.ErrForbidden):
		c.JSON(http.StatusForbidden, ErrorResponse{Detail: "Forbidden"})
	default:
		logger.Error(fallback, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Detail: fallback})
	}
}

// identityFromContext pulls the authenticated user and org IDs set by the
// auth middleware. A miss means the middleware did not run on this route.
func identityFromContext(c *gin.Context, logger *slog.Logger) (userID string, orgID string, ok bool) {
	userID, uok := middleware.GetUserIDFromContext(c)
	orgID, ook := middleware.GetOrgIDFromContext(c)
	if !uok || !ook {
		logger.Error("Authenticated identity missing from request context")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Detail: "Unauthorized"})
		return "", "", false
	}
	return userID, orgID, true
}
