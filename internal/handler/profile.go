package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/medibridge/backend/internal/middleware"
	"github.com/medibridge/backend/internal/service"
	"github.com/medibridge/backend/pkg/model"
	"go.uber.org/zap"
)

// ProfileHandler exposes the profile editor lifecycle over HTTP.
type ProfileHandler struct {
	profiles *service.ProfileService
	logger   *zap.Logger
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(profiles *service.ProfileService, logger *zap.Logger) *ProfileHandler {
	return &ProfileHandler{
		profiles: profiles,
		logger:   logger,
	}
}

type profileResponse struct {
	Profile model.Profile      `json:"profile"`
	Mode    service.EditorMode `json:"mode"`
	Message string             `json:"message,omitempty"`
}

// View returns the saved profile and the editor mode.
func (h *ProfileHandler) View(c *gin.Context) {
	profile, mode, err := h.profiles.View(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, profileResponse{Profile: profile, Mode: mode})
}

// Edit enters editing mode.
func (h *ProfileHandler) Edit(c *gin.Context) {
	if err := h.profiles.Edit(c.Request.Context(), middleware.SessionID(c)); err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"mode": service.ModeEditing})
}

type changeRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// Change updates one draft field while editing.
func (h *ProfileHandler) Change(c *gin.Context) {
	var req changeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("invalid request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Invalid request body",
			Details: stringPtr(err.Error()),
		})
		return
	}

	if err := h.profiles.Change(c.Request.Context(), middleware.SessionID(c), req.Field, req.Value); err != nil {
		c.JSON(http.StatusConflict, ErrorResponse{
			Code:    "EDITOR_STATE",
			Message: err.Error(),
		})
		return
	}

	c.Status(http.StatusNoContent)
}

// Cancel discards the draft and restores the saved profile.
func (h *ProfileHandler) Cancel(c *gin.Context) {
	if err := h.profiles.Cancel(c.Request.Context(), middleware.SessionID(c)); err != nil {
		c.JSON(http.StatusConflict, ErrorResponse{
			Code:    "EDITOR_STATE",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"mode": service.ModeViewing})
}

// Save validates the draft and promotes it. Field failures come back with
// status 422 and the saved profile untouched.
func (h *ProfileHandler) Save(c *gin.Context) {
	profile, fieldErrs, err := h.profiles.Save(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	if len(fieldErrs) > 0 {
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Please correct the highlighted fields",
			Fields:  fieldErrs,
		})
		return
	}

	c.JSON(http.StatusOK, profileResponse{
		Profile: profile,
		Mode:    service.ModeViewing,
		Message: "Profile updated successfully",
	})
}
