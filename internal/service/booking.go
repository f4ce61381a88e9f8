package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/medibridge/backend/pkg/apperr"
	"github.com/medibridge/backend/pkg/model"
	"go.uber.org/zap"
)

// bookingAPI is the slice of the consultation backend the booking flow uses.
type bookingAPI interface {
	Book(ctx context.Context, req model.ConsultationRequest, idempotencyKey string) error
}

// BookingService validates and submits consultation requests.
type BookingService struct {
	consultations bookingAPI
	logger        *zap.Logger
}

// NewBookingService creates a new BookingService.
func NewBookingService(consultations bookingAPI, logger *zap.Logger) *BookingService {
	return &BookingService{
		consultations: consultations,
		logger:        logger,
	}
}

// CanBook reports whether a provider is bookable at all. A provider without
// a license number is refused up front, before any form is shown.
func (s *BookingService) CanBook(d model.Doctor) bool {
	return strings.TrimSpace(d.LicenseNumber) != ""
}

// validate runs every local rule. A failure here means no network call is
// made.
func (s *BookingService) validate(req model.ConsultationRequest) map[string]string {
	errs := make(map[string]string)

	if strings.TrimSpace(req.ProviderIdentifier) == "" {
		errs["provider"] = "Provider has no license number and cannot be booked"
	}
	if strings.TrimSpace(req.PatientName) == "" {
		errs["patient_name"] = "Patient name is required"
	}
	if strings.TrimSpace(req.PatientContact) == "" {
		errs["patient_contact"] = "Patient contact is required"
	}
	if strings.TrimSpace(req.Reason) == "" {
		errs["reason"] = "Reason is required"
	}
	if !model.ValidConsultationType(req.Type) {
		errs["consultation_type"] = "Consultation type must be general, emergency, followup or checkup"
	}

	return errs
}

// Submit books a consultation. Validation failures come back as a
// ValidationError without touching the network. Each submission carries a
// fresh idempotency key so a retry after a lost response cannot double-book.
func (s *BookingService) Submit(ctx context.Context, req model.ConsultationRequest) error {
	if errs := s.validate(req); len(errs) > 0 {
		return apperr.NewValidation(errs)
	}

	key := uuid.New().String()
	if err := s.consultations.Book(ctx, req, key); err != nil {
		s.logger.Error("booking failed",
			zap.Error(err),
			zap.String("doctor_license_number", req.ProviderIdentifier),
		)
		return err
	}

	s.logger.Info("booking submitted",
		zap.String("doctor_license_number", req.ProviderIdentifier),
		zap.String("consultation_type", string(req.Type)),
		zap.String("idempotency_key", key),
	)

	return nil
}
