package upstream

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/medibridge/backend/pkg/apperr"
	"github.com/medibridge/backend/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestConsultationClient_BookSendsWireFormat(t *testing.T) {
	var got bookRequest
	var gotKey string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/book-consultation", r.URL.Path)
		gotKey = r.Header.Get("Idempotency-Key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	client := NewConsultationClient(server.URL, time.Second, zap.NewNop())

	err := client.Book(context.Background(), model.ConsultationRequest{
		ProviderIdentifier: "LIC-7",
		PatientName:        "Anna",
		PatientContact:     "1234567890",
		Reason:             "Back pain",
		Type:               model.ConsultationFollowUp,
	}, "retry-key-1")
	require.NoError(t, err)

	assert.Equal(t, "LIC-7", got.DoctorLicenseNumber)
	assert.Equal(t, "followup", got.ConsultationType)
	assert.Equal(t, "retry-key-1", gotKey)
}

func TestConsultationClient_BookSurfacesRejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"message": "Doctor not found"})
	}))
	defer server.Close()

	client := NewConsultationClient(server.URL, time.Second, zap.NewNop())

	err := client.Book(context.Background(), model.ConsultationRequest{ProviderIdentifier: "LIC-0"}, "key")
	rej, ok := apperr.IsServerRejected(err)
	require.True(t, ok)
	assert.Equal(t, "Doctor not found", rej.Message)
}

func TestConsultationClient_PatientQueue(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/doctor-consultations/doc-1", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"patients": []map[string]interface{}{
				{"id": "c1", "patientName": "Anna", "status": "waiting", "type": "video", "age": 34},
				{"id": "c2", "patientName": "Bela", "status": "in-progress", "type": "in-person"},
			},
		})
	}))
	defer server.Close()

	client := NewConsultationClient(server.URL, time.Second, zap.NewNop())

	entries, err := client.PatientQueue(context.Background(), "doc-1")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, model.QueueWaiting, entries[0].Status)
	assert.Equal(t, 34, entries[0].Age)
	assert.Equal(t, model.QueueInProgress, entries[1].Status)
}

func TestConsultationClient_EmptyQueue(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"patients": []interface{}{}})
	}))
	defer server.Close()

	client := NewConsultationClient(server.URL, time.Second, zap.NewNop())

	entries, err := client.PatientQueue(context.Background(), "doc-1")
	require.NoError(t, err)
	assert.Empty(t, entries)
}
