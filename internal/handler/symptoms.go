package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/medibridge/backend/internal/service"
	"go.uber.org/zap"
)

// SymptomHandler exposes the AI symptom checker.
type SymptomHandler struct {
	symptoms *service.SymptomService
	logger   *zap.Logger
}

// NewSymptomHandler creates a new SymptomHandler.
func NewSymptomHandler(symptoms *service.SymptomService, logger *zap.Logger) *SymptomHandler {
	return &SymptomHandler{
		symptoms: symptoms,
		logger:   logger,
	}
}

type analyzeSymptomsRequest struct {
	SelectedSymptoms []string `json:"selected_symptoms"`
	SymptomsText     string   `json:"symptoms_text"`
}

// Analyze submits the patient's symptoms for analysis.
func (h *SymptomHandler) Analyze(c *gin.Context) {
	var req analyzeSymptomsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("invalid request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Invalid request body",
			Details: stringPtr(err.Error()),
		})
		return
	}

	analysis, err := h.symptoms.Analyze(c.Request.Context(), req.SelectedSymptoms, req.SymptomsText)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, analysis)
}
