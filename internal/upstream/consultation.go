package upstream

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/medibridge/backend/pkg/model"
	"go.uber.org/zap"
)

// ConsultationClient talks to the consultation booking backend.
type ConsultationClient struct {
	baseClient
}

// NewConsultationClient creates a client against the consultation base URL.
func NewConsultationClient(baseURL string, timeout time.Duration, logger *zap.Logger) *ConsultationClient {
	return &ConsultationClient{baseClient: newBaseClient(baseURL, timeout, logger)}
}

type bookRequest struct {
	DoctorLicenseNumber string `json:"doctorLicenseNumber"`
	PatientContact      string `json:"patientContact"`
	PatientName         string `json:"patientName"`
	Reason              string `json:"reason"`
	ConsultationType    string `json:"consultationType"`
}

// Book submits a consultation request. The idempotency key makes a retry
// after a lost response safe against duplicate bookings server-side.
func (c *ConsultationClient) Book(ctx context.Context, req model.ConsultationRequest, idempotencyKey string) error {
	headers := map[string]string{"Idempotency-Key": idempotencyKey}

	err := c.doJSON(ctx, http.MethodPost, "/book-consultation", headers, bookRequest{
		DoctorLicenseNumber: req.ProviderIdentifier,
		PatientContact:      req.PatientContact,
		PatientName:         req.PatientName,
		Reason:              req.Reason,
		ConsultationType:    string(req.Type),
	}, nil, "consultation.Book")
	if err != nil {
		return err
	}

	c.logger.Info("consultation booked",
		zap.String("doctor_license_number", req.ProviderIdentifier),
		zap.String("consultation_type", string(req.Type)),
	)

	return nil
}

// queueEntryWire is the consultation backend's wire format for one patient
// in a doctor's queue.
type queueEntryWire struct {
	ID          string `json:"id"`
	PatientName string `json:"patientName"`
	Time        string `json:"time"`
	Type        string `json:"type"`
	Reason      string `json:"reason"`
	Status      string `json:"status"`
	Priority    string `json:"priority"`
	Phone       string `json:"phone"`
	Age         int    `json:"age"`
	LastVisit   string `json:"lastVisit"`
}

type queueResponse struct {
	Patients []queueEntryWire `json:"patients"`
}

// PatientQueue fetches the consultation queue for one provider.
func (c *ConsultationClient) PatientQueue(ctx context.Context, providerID string) ([]model.QueueEntry, error) {
	var resp queueResponse
	err := c.doJSON(ctx, http.MethodGet, "/doctor-consultations/"+url.PathEscape(providerID), nil, nil, &resp, "consultation.PatientQueue")
	if err != nil {
		return nil, err
	}

	entries := make([]model.QueueEntry, 0, len(resp.Patients))
	for _, w := range resp.Patients {
		entries = append(entries, model.QueueEntry{
			ID:          w.ID,
			PatientName: w.PatientName,
			Time:        w.Time,
			Type:        w.Type,
			Reason:      w.Reason,
			Status:      model.QueueStatus(w.Status),
			Priority:    w.Priority,
			Phone:       w.Phone,
			Age:         w.Age,
			LastVisit:   w.LastVisit,
		})
	}
	return entries, nil
}
