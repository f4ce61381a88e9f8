package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/medibridge/backend/internal/service"
	"github.com/medibridge/backend/pkg/model"
	"go.uber.org/zap"
)

// directoryAPI is the slice of the directory backend this handler consumes.
type directoryAPI interface {
	ListDoctors(ctx context.Context) ([]model.Doctor, error)
	CreateDoctor(ctx context.Context, d model.Doctor) (string, error)
}

// DirectoryHandler exposes the doctor directory.
type DirectoryHandler struct {
	directory directoryAPI
	booking   *service.BookingService
	logger    *zap.Logger
}

// NewDirectoryHandler creates a new DirectoryHandler.
func NewDirectoryHandler(directory directoryAPI, booking *service.BookingService, logger *zap.Logger) *DirectoryHandler {
	return &DirectoryHandler{
		directory: directory,
		booking:   booking,
		logger:    logger,
	}
}

// doctorView is one directory entry with its booking affordance resolved.
// Doctors without a license number are shown but not bookable.
type doctorView struct {
	model.Doctor
	Bookable bool `json:"bookable"`
}

// List returns the full doctor directory.
func (h *DirectoryHandler) List(c *gin.Context) {
	doctors, err := h.directory.ListDoctors(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	views := make([]doctorView, 0, len(doctors))
	for _, d := range doctors {
		views = append(views, doctorView{Doctor: d, Bookable: h.booking.CanBook(d)})
	}

	c.JSON(http.StatusOK, gin.H{"doctors": views})
}

// Create registers a doctor in the directory.
func (h *DirectoryHandler) Create(c *gin.Context) {
	var doctor model.Doctor
	if err := c.ShouldBindJSON(&doctor); err != nil {
		h.logger.Error("invalid request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Invalid request body",
			Details: stringPtr(err.Error()),
		})
		return
	}

	id, err := h.directory.CreateDoctor(c.Request.Context(), doctor)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id})
}
