package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/medibridge/backend/internal/middleware"
	"github.com/medibridge/backend/internal/session"
	"github.com/medibridge/backend/internal/upstream"
	"github.com/medibridge/backend/pkg/model"
	"go.uber.org/zap"
)

// LocationHandler records the client's reported position and resolves the
// last known one with typed failure reasons.
type LocationHandler struct {
	store      session.Store
	resolveTTL time.Duration
	logger     *zap.Logger
}

// NewLocationHandler creates a new LocationHandler.
func NewLocationHandler(store session.Store, logger *zap.Logger) *LocationHandler {
	return &LocationHandler{
		store:      store,
		resolveTTL: 5 * time.Second,
		logger:     logger,
	}
}

type reportPositionRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	// Denied marks that the user refused the browser permission prompt.
	Denied bool `json:"denied"`
}

// storedPosition is the session representation of the last known fix.
type storedPosition struct {
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Timestamp time.Time `json:"timestamp"`
	Denied    bool      `json:"denied,omitempty"`
}

// Report stores the position the client's device resolved, or the fact that
// permission was denied.
func (h *LocationHandler) Report(c *gin.Context) {
	var req reportPositionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("invalid request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Invalid request body",
			Details: stringPtr(err.Error()),
		})
		return
	}

	if !req.Denied && (req.Latitude < -90 || req.Latitude > 90 || req.Longitude < -180 || req.Longitude > 180) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Coordinates are out of range",
		})
		return
	}

	payload, err := json.Marshal(storedPosition{
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		Timestamp: time.Now(),
		Denied:    req.Denied,
	})
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	err = h.store.Set(c.Request.Context(), middleware.SessionID(c), map[string]string{
		session.KeyPosition: string(payload),
	})
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Resolve returns the session's last known position through the geolocator,
// surfacing the typed reason when none can be produced.
func (h *LocationHandler) Resolve(c *gin.Context) {
	provider := &sessionPositionProvider{
		store:     h.store,
		sessionID: middleware.SessionID(c),
	}
	locator := upstream.NewGeolocator(provider, h.resolveTTL, h.logger)

	pos, err := locator.Resolve(c.Request.Context())
	if err != nil {
		var ge *upstream.GeoError
		if errors.As(err, &ge) {
			c.JSON(http.StatusConflict, ErrorResponse{
				Code:    "GEOLOCATION_" + string(ge.Reason),
				Message: "Location is not available",
				Details: stringPtr(ge.Error()),
			})
			return
		}
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, pos)
}

// sessionPositionProvider reads the last reported fix from the session.
type sessionPositionProvider struct {
	store     session.Store
	sessionID string
}

func (p *sessionPositionProvider) CurrentPosition(ctx context.Context) (pos model.Position, err error) {
	raw, err := p.store.Get(ctx, p.sessionID, session.KeyPosition)
	if err != nil {
		return pos, &upstream.GeoError{Reason: upstream.GeoUnavailable, Err: err}
	}
	if raw == "" {
		return pos, &upstream.GeoError{Reason: upstream.GeoUnavailable, Err: errors.New("no position reported")}
	}

	var stored storedPosition
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		return pos, &upstream.GeoError{Reason: upstream.GeoUnknown, Err: err}
	}
	if stored.Denied {
		return pos, &upstream.GeoError{Reason: upstream.GeoPermissionDenied, Err: errors.New("location permission denied")}
	}

	pos.Latitude = stored.Latitude
	pos.Longitude = stored.Longitude
	pos.Timestamp = stored.Timestamp
	return pos, nil
}
