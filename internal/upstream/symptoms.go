package upstream

import (
	"context"
	"net/http"
	"time"

	"github.com/medibridge/backend/pkg/model"
	"go.uber.org/zap"
)

// SymptomsClient talks to the AI symptom analysis service.
type SymptomsClient struct {
	baseClient
}

// NewSymptomsClient creates a client against the symptom service base URL.
func NewSymptomsClient(baseURL string, timeout time.Duration, logger *zap.Logger) *SymptomsClient {
	return &SymptomsClient{baseClient: newBaseClient(baseURL, timeout, logger)}
}

type symptomsHealthResponse struct {
	Status      string `json:"status"`
	ModelLoaded bool   `json:"model_loaded"`
}

// Health reports whether the symptom service is up and its model is loaded.
func (c *SymptomsClient) Health(ctx context.Context) (bool, error) {
	var resp symptomsHealthResponse
	if err := c.doJSON(ctx, http.MethodGet, "/health", nil, nil, &resp, "symptoms.Health"); err != nil {
		return false, err
	}
	return resp.ModelLoaded, nil
}

type analyzeRequest struct {
	SelectedSymptoms []string `json:"selected_symptoms"`
	SymptomsText     string   `json:"symptoms_text"`
}

// Analyze submits a symptom set and free-text description for analysis.
func (c *SymptomsClient) Analyze(ctx context.Context, selected []string, text string) (*model.SymptomAnalysis, error) {
	var analysis model.SymptomAnalysis
	err := c.doJSON(ctx, http.MethodPost, "/analyze-symptoms", nil,
		analyzeRequest{SelectedSymptoms: selected, SymptomsText: text},
		&analysis, "symptoms.Analyze")
	if err != nil {
		return nil, err
	}

	c.logger.Info("symptom analysis completed",
		zap.Int("selected_count", len(selected)),
		zap.String("urgency", analysis.Urgency),
		zap.Float64("confidence", analysis.Confidence),
	)

	return &analysis, nil
}
