package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/finbooks/finbooks_app/internal/apperrors"
	"github.com/finbooks/finbooks_app/internal/middleware"
)

// respondError maps service errors onto HTTP status codes. fallback is the
// message logged and returned when the error is not one of the known
// sentinels.
func respondError(c *gin.Context, err error, fallback string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Resource not found", slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrValidation),
		errors.Is(err, apperrors.ErrInvalidAmount),
		errors.Is(err, apperrors.ErrUnknownCurrency):
		logger.Warn("Validation error", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrMissingExchangeRate):
		logger.Warn("Missing exchange rate", slog.String("error", err.Error()))
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrForbidden):
		logger.Warn("Forbidden", slog.String("error", err.Error()))
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrInvalidStateTransition),
		errors.Is(err, apperrors.ErrDuplicateInitialTransaction),
		errors.Is(err, apperrors.ErrDuplicate),
		errors.Is(err, apperrors.ErrConcurrentNumberAllocation):
		logger.Warn("Conflicting request", slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		logger.Error(fallback, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

// requestScope pulls the authenticated user and company out of the request
// context. Writes a 401 and returns false when either is missing.
func requestScope(c *gin.Context) (userID, companyID string, ok bool) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok = middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", "", false
	}
	companyID, ok = middleware.GetCompanyIDFromContext(c)
	if !ok {
		logger.Error("Company ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", "", false
	}
	return userID, companyID, true
}
