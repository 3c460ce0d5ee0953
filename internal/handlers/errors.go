package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/refinance_review_app/internal/apperrors"
	"github.com/SscSPs/refinance_review_app/internal/dto"
	"github.com/SscSPs/refinance_review_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// errorStatus maps service errors to an HTTP status and a stable error code.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, apperrors.ErrPreconditionFailed):
		return http.StatusUnprocessableEntity, "precondition_failed"
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, apperrors.ErrValidation):
		return http.StatusBadRequest, "validation_error"
	case errors.Is(err, apperrors.ErrWrongStage):
		return http.StatusConflict, "wrong_stage"
	case errors.Is(err, apperrors.ErrAlreadyTerminal):
		return http.StatusConflict, "already_terminal"
	case errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict, "conflict"
	case errors.Is(err, apperrors.ErrDuplicate):
		return http.StatusConflict, "duplicate"
	case errors.Is(err, apperrors.ErrPersistence):
		return http.StatusServiceUnavailable, "persistence_unavailable"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

// respondError writes the structured error body for err. Internal errors are
// not echoed to the caller.
func respondError(c *gin.Context, logger *slog.Logger, err error, msg string) {
	status, code := errorStatus(err)
	body := dto.ErrorResponse{Error: err.Error(), Code: code, Missing: apperrors.MissingItems(err)}
	if status >= http.StatusInternalServerError {
		logger.Error(msg, slog.String("error", err.Error()), slog.String("code", code))
		if status == http.StatusInternalServerError {
			body.Error = msg
		}
	} else {
		logger.Warn(msg, slog.String("error", err.Error()), slog.String("code", code))
	}
	c.JSON(status, body)
}

// badRequest reports a request that could not be bound.
func badRequest(c *gin.Context, logger *slog.Logger, err error) {
	logger.Warn("Failed to bind request", slog.String("error", err.Error()))
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request format: " + err.Error(), Code: "validation_error"})
}

// operatorID returns the authenticated operator or writes a 401.
func operatorID(c *gin.Context, logger *slog.Logger) (string, bool) {
	id, ok := middleware.GetOperatorIDFromContext(c)
	if !ok {
		logger.Error("Operator ID not found in context")
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Unauthorized", Code: "unauthorized"})
		return "", false
	}
	return id, true
}
