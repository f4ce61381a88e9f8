package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/medibridge/backend/internal/service"
	"github.com/medibridge/backend/pkg/apperr"
	"go.uber.org/zap"
)

// ErrorResponse is the error envelope shared by every endpoint.
type ErrorResponse struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details *string           `json:"details,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// stringPtr creates a pointer to a string
func stringPtr(s string) *string {
	return &s
}

// writeError maps the error taxonomy onto HTTP statuses and the shared
// envelope. Validation failures carry the field map so forms can annotate
// inputs; upstream rejections surface the server message verbatim.
func writeError(c *gin.Context, logger *zap.Logger, err error) {
	if ve, ok := apperr.IsValidation(err); ok {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Please correct the highlighted fields",
			Fields:  ve.Fields,
		})
		return
	}

	if errors.Is(err, apperr.ErrAuth) {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Code:    "AUTH_FAILED",
			Message: "Invalid credentials",
			Details: stringPtr(err.Error()),
		})
		return
	}

	if errors.Is(err, apperr.ErrNotAuthenticated) {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Code:    "NOT_AUTHENTICATED",
			Message: "Login required",
		})
		return
	}

	if rej, ok := apperr.IsServerRejected(err); ok {
		status := http.StatusBadGateway
		if rej.Status >= 400 && rej.Status < 500 {
			status = rej.Status
		}
		message := rej.Message
		if message == "" {
			message = "The service could not process the request"
		}
		c.JSON(status, ErrorResponse{
			Code:    "UPSTREAM_REJECTED",
			Message: message,
		})
		return
	}

	if apperr.IsNetworkUnreachable(err) {
		c.JSON(http.StatusBadGateway, ErrorResponse{
			Code:    "UPSTREAM_UNREACHABLE",
			Message: "Could not reach the service. Please check your connection and try again.",
		})
		return
	}

	if errors.Is(err, service.ErrAnalysisUnavailable) {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{
			Code:    "ANALYSIS_UNAVAILABLE",
			Message: "Symptom analysis is currently unavailable, please try again later",
		})
		return
	}

	if errors.Is(err, service.ErrEntryNotFound) {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Code:    "NOT_FOUND",
			Message: err.Error(),
		})
		return
	}

	if errors.Is(err, service.ErrIllegalTransition) {
		c.JSON(http.StatusConflict, ErrorResponse{
			Code:    "ILLEGAL_TRANSITION",
			Message: err.Error(),
		})
		return
	}

	logger.Error("unexpected error", zap.Error(err))
	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Code:    "INTERNAL_ERROR",
		Message: "An unexpected error occurred",
		Details: stringPtr(err.Error()),
	})
}
