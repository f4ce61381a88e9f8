package integration_tests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/medibridge/backend/internal/handler"
	"github.com/medibridge/backend/internal/middleware"
	"github.com/medibridge/backend/internal/security"
	"github.com/medibridge/backend/internal/session"
	"github.com/medibridge/backend/internal/service"
	"github.com/medibridge/backend/internal/upstream"
	"github.com/medibridge/backend/pkg/model"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeBackends bundles the httptest servers standing in for the external
// collaborators.
type fakeBackends struct {
	auth         *httptest.Server
	consultation *httptest.Server
	inventory    *httptest.Server
}

func (f *fakeBackends) close() {
	f.auth.Close()
	f.consultation.Close()
	f.inventory.Close()
}

// newFakeBackends starts collaborator fakes with one doctor account, one
// patient account, a small queue and a small inventory.
func newFakeBackends(t *testing.T) *fakeBackends {
	t.Helper()

	authMux := http.NewServeMux()
	authMux.HandleFunc("/doctor-login", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			LicenseNumber string `json:"licenseNumber"`
			Password      string `json:"password"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		if req.LicenseNumber != "LIC-42" || req.Password != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"message": "Invalid license number or password"})
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"doctor": map[string]interface{}{"_id": "doc-1", "name": "Dr. Kovacs", "mobile": "1234567890"},
		})
	})
	authMux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Role     string `json:"role"`
			Contact  string `json:"contact"`
			Password string `json:"password"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		if req.Password != "pw" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"message": "Invalid contact or password"})
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"user": map[string]interface{}{
				"_id": req.Role + "-1", "name": "Anna", "mobile": req.Contact,
				"age": "34", "gender": "female", "location": "Springfield",
			},
		})
	})

	consultationMux := http.NewServeMux()
	consultationMux.HandleFunc("/book-consultation", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})
	consultationMux.HandleFunc("/doctor-consultations/doc-1", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"patients": []map[string]interface{}{
				{"id": "c1", "patientName": "Anna", "status": "waiting", "type": "video"},
				{"id": "c2", "patientName": "Bela", "status": "waiting", "type": "in-person"},
			},
		})
	})

	inventoryMux := http.NewServeMux()
	inventoryMux.HandleFunc("/medicines", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"data": []map[string]interface{}{
				{"name": "Paracetamol", "currentstock": 15, "minstock": 50, "maxstock": 200, "category": "Fever", "price": 9.5},
				{"name": "Ibuprofen", "currentstock": 120, "minstock": 50, "maxstock": 200, "category": "Pain", "price": 12.0},
			},
		})
	})
	inventoryMux.HandleFunc("/medicines/add", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})

	return &fakeBackends{
		auth:         httptest.NewServer(authMux),
		consultation: httptest.NewServer(consultationMux),
		inventory:    httptest.NewServer(inventoryMux),
	}
}

// newTestRouter wires the full middleware and route surface over an
// in-memory session store and the fake collaborators.
func newTestRouter(t *testing.T, backends *fakeBackends) *gin.Engine {
	t.Helper()

	logger := zap.NewNop()
	store := session.NewMemoryStore()
	cipher, err := security.NewProfileCipher([]byte("0123456789abcdef0123456789abcdef"))
	require.NoError(t, err)

	timeout := 2 * time.Second
	authClient := upstream.NewAuthClient(backends.auth.URL, timeout, logger)
	consultationClient := upstream.NewConsultationClient(backends.consultation.URL, timeout, logger)
	inventoryClient := upstream.NewInventoryClient(backends.inventory.URL, timeout, logger)

	sessionService := service.NewSessionService(store, authClient, cipher, logger)
	profileService := service.NewProfileService(store, authClient, cipher, logger)
	bookingService := service.NewBookingService(consultationClient, logger)
	inventoryService := service.NewInventoryService(inventoryClient, logger)
	queueService := service.NewQueueService(consultationClient, logger)

	authHandler := handler.NewAuthHandler(sessionService, profileService, logger)
	profileHandler := handler.NewProfileHandler(profileService, logger)
	bookingHandler := handler.NewBookingHandler(bookingService, logger)
	inventoryHandler := handler.NewInventoryHandler(inventoryService, logger)
	queueHandler := handler.NewQueueHandler(queueService, logger)

	gin.SetMode(gin.TestMode)
	r := gin.New()

	api := r.Group("/api/v1")
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/logout", authHandler.Logout)

	account := api.Group("", middleware.RequireAnyRole(sessionService, logger))
	account.GET("/profile", profileHandler.View)
	account.POST("/profile/edit", profileHandler.Edit)
	account.POST("/profile/change", profileHandler.Change)
	account.POST("/profile/save", profileHandler.Save)

	patient := api.Group("", middleware.RequireRole(sessionService, model.RolePatient, logger))
	patient.POST("/consultations", bookingHandler.Book)

	doctor := api.Group("", middleware.RequireRole(sessionService, model.RoleDoctor, logger))
	doctor.GET("/queue", queueHandler.List)
	doctor.POST("/queue/:id/start", queueHandler.Start)
	doctor.POST("/queue/:id/complete", queueHandler.Complete)

	pharmacy := api.Group("", middleware.RequireRole(sessionService, model.RolePharmacy, logger))
	pharmacy.GET("/medicines", inventoryHandler.List)
	pharmacy.GET("/medicines/summary", inventoryHandler.Summary)

	return r
}

// doJSON issues one request against the router, carrying the session cookie.
func doJSON(t *testing.T, r *gin.Engine, method, path, sessionID string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if sessionID != "" {
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: sessionID})
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}
