package service

import (
	"context"
	"errors"
	"strings"

	"github.com/medibridge/backend/pkg/apperr"
	"github.com/medibridge/backend/pkg/model"
	"go.uber.org/zap"
)

// ErrAnalysisUnavailable means the AI service is up but its model is not
// loaded, so no analysis can be produced right now.
var ErrAnalysisUnavailable = errors.New("symptom analysis is currently unavailable")

// symptomsAPI is the slice of the AI collaborator the checker consumes.
type symptomsAPI interface {
	Health(ctx context.Context) (bool, error)
	Analyze(ctx context.Context, selected []string, text string) (*model.SymptomAnalysis, error)
}

// SymptomService fronts the AI symptom analysis collaborator.
type SymptomService struct {
	ai     symptomsAPI
	logger *zap.Logger
}

// NewSymptomService creates a new SymptomService.
func NewSymptomService(ai symptomsAPI, logger *zap.Logger) *SymptomService {
	return &SymptomService{
		ai:     ai,
		logger: logger,
	}
}

// Analyze validates the input locally, gates on the collaborator's health
// and returns the analysis verdict.
func (s *SymptomService) Analyze(ctx context.Context, selected []string, text string) (*model.SymptomAnalysis, error) {
	if len(selected) == 0 && strings.TrimSpace(text) == "" {
		return nil, apperr.NewValidation(map[string]string{
			"symptoms": "Select at least one symptom or describe how you feel",
		})
	}

	loaded, err := s.ai.Health(ctx)
	if err != nil {
		return nil, err
	}
	if !loaded {
		s.logger.Warn("symptom service reachable but model not loaded")
		return nil, ErrAnalysisUnavailable
	}

	return s.ai.Analyze(ctx, selected, text)
}
