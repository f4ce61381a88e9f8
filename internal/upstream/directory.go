package upstream

import (
	"context"
	"net/http"
	"time"

	"github.com/medibridge/backend/pkg/model"
	"go.uber.org/zap"
)

// DirectoryClient talks to the doctor directory backend.
type DirectoryClient struct {
	baseClient
}

// NewDirectoryClient creates a client against the directory base URL.
func NewDirectoryClient(baseURL string, timeout time.Duration, logger *zap.Logger) *DirectoryClient {
	return &DirectoryClient{baseClient: newBaseClient(baseURL, timeout, logger)}
}

// doctorWire is the directory's wire format for one doctor.
type doctorWire struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Specialization  string  `json:"specialization"`
	Experience      int     `json:"experience"`
	Rating          float64 `json:"rating"`
	Contact         string  `json:"contact"`
	Email           string  `json:"email"`
	Location        string  `json:"location"`
	ConsultationFee float64 `json:"consultationFee"`
	Availability    string  `json:"availability"`
	LicenseNumber   string  `json:"licenseNumber"`
}

func (w doctorWire) toModel() model.Doctor {
	return model.Doctor{
		ID:              w.ID,
		Name:            w.Name,
		Specialization:  w.Specialization,
		Experience:      w.Experience,
		Rating:          w.Rating,
		Contact:         w.Contact,
		Email:           w.Email,
		Location:        w.Location,
		ConsultationFee: w.ConsultationFee,
		Availability:    w.Availability,
		LicenseNumber:   w.LicenseNumber,
	}
}

// ListDoctors fetches the full doctor directory.
func (c *DirectoryClient) ListDoctors(ctx context.Context) ([]model.Doctor, error) {
	var wire []doctorWire
	if err := c.doJSON(ctx, http.MethodGet, "/doctors", nil, nil, &wire, "directory.ListDoctors"); err != nil {
		return nil, err
	}

	doctors := make([]model.Doctor, 0, len(wire))
	for _, w := range wire {
		doctors = append(doctors, w.toModel())
	}
	return doctors, nil
}

type createDoctorResponse struct {
	ID string `json:"id"`
}

// CreateDoctor registers a doctor in the directory and returns its id.
func (c *DirectoryClient) CreateDoctor(ctx context.Context, d model.Doctor) (string, error) {
	wire := doctorWire{
		Name:            d.Name,
		Specialization:  d.Specialization,
		Experience:      d.Experience,
		Rating:          d.Rating,
		Contact:         d.Contact,
		Email:           d.Email,
		Location:        d.Location,
		ConsultationFee: d.ConsultationFee,
		Availability:    d.Availability,
		LicenseNumber:   d.LicenseNumber,
	}

	var resp createDoctorResponse
	if err := c.doJSON(ctx, http.MethodPost, "/doctors", nil, wire, &resp, "directory.CreateDoctor"); err != nil {
		return "", err
	}

	c.logger.Info("doctor registered in directory",
		zap.String("doctor_id", resp.ID),
		zap.String("license_number", d.LicenseNumber),
	)

	return resp.ID, nil
}
