package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/medibridge/backend/internal/middleware"
	"github.com/medibridge/backend/internal/service"
	"github.com/medibridge/backend/pkg/model"
	"go.uber.org/zap"
)

// AuthHandler implements login, registration and logout.
type AuthHandler struct {
	sessions *service.SessionService
	profiles *service.ProfileService
	logger   *zap.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(sessions *service.SessionService, profiles *service.ProfileService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		sessions: sessions,
		profiles: profiles,
		logger:   logger,
	}
}

type loginRequest struct {
	Role          model.Role `json:"role"`
	LicenseNumber string     `json:"license_number"`
	Contact       string     `json:"contact"`
	Password      string     `json:"password"`
}

type sessionResponse struct {
	Role       model.Role `json:"role"`
	Identity   string     `json:"identity"`
	ProviderID string     `json:"provider_id,omitempty"`
	Redirect   string     `json:"redirect"`
}

// Login authenticates against the auth backend and opens a session.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("invalid request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Invalid request body",
			Details: stringPtr(err.Error()),
		})
		return
	}

	sessionID := middleware.EnsureSessionID(c)

	// A fresh editor starts from the new account's profile
	h.profiles.Forget(sessionID)

	sess, err := h.sessions.Login(c.Request.Context(), sessionID, req.Role, service.Credentials{
		LicenseNumber: req.LicenseNumber,
		Contact:       req.Contact,
		Password:      req.Password,
	})
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, sessionResponse{
		Role:       sess.Role,
		Identity:   sess.Identity,
		ProviderID: sess.ProviderID,
		Redirect:   "/dashboard/" + string(sess.Role),
	})
}

// Register creates an account and opens a session for it.
func (h *AuthHandler) Register(c *gin.Context) {
	var profile model.Profile
	if err := c.ShouldBindJSON(&profile); err != nil {
		h.logger.Error("invalid request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Invalid request body",
			Details: stringPtr(err.Error()),
		})
		return
	}

	sessionID := middleware.EnsureSessionID(c)

	h.profiles.Forget(sessionID)

	sess, err := h.sessions.Register(c.Request.Context(), sessionID, profile)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, sessionResponse{
		Role:       sess.Role,
		Identity:   sess.Identity,
		ProviderID: sess.ProviderID,
		Redirect:   "/dashboard/" + string(sess.Role),
	})
}

// Logout clears every session key and reports the home route.
func (h *AuthHandler) Logout(c *gin.Context) {
	sessionID := middleware.SessionID(c)
	if sessionID != "" {
		if err := h.sessions.Logout(c.Request.Context(), sessionID); err != nil {
			writeError(c, h.logger, err)
			return
		}
		h.profiles.Forget(sessionID)
	}

	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"redirect": "/"})
}
