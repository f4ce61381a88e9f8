package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/medibridge/backend/internal/service"
	"github.com/medibridge/backend/pkg/model"
	"go.uber.org/zap"
)

// BookingHandler implements the consultation booking endpoint.
type BookingHandler struct {
	booking *service.BookingService
	logger  *zap.Logger
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(booking *service.BookingService, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{
		booking: booking,
		logger:  logger,
	}
}

type bookConsultationRequest struct {
	DoctorLicenseNumber string `json:"doctor_license_number"`
	PatientName         string `json:"patient_name"`
	PatientContact      string `json:"patient_contact"`
	Reason              string `json:"reason"`
	ConsultationType    string `json:"consultation_type"`
}

// Book submits a consultation request for the logged-in patient. On success
// the client resets the form and closes the modal; on failure the form state
// is preserved for retry.
func (h *BookingHandler) Book(c *gin.Context) {
	var req bookConsultationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("invalid request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Invalid request body",
			Details: stringPtr(err.Error()),
		})
		return
	}

	err := h.booking.Submit(c.Request.Context(), model.ConsultationRequest{
		ProviderIdentifier: req.DoctorLicenseNumber,
		PatientName:        req.PatientName,
		PatientContact:     req.PatientContact,
		Reason:             req.Reason,
		Type:               model.ConsultationType(req.ConsultationType),
	})
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Consultation booked successfully",
	})
}
