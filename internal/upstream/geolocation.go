package upstream

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/medibridge/backend/pkg/model"
	"go.uber.org/zap"
)

// GeoReason is the typed failure reason of a position lookup.
type GeoReason string

const (
	GeoPermissionDenied GeoReason = "PermissionDenied"
	GeoUnavailable      GeoReason = "Unavailable"
	GeoTimeout          GeoReason = "Timeout"
	GeoUnknown          GeoReason = "Unknown"
)

// GeoError wraps a position lookup failure with its typed reason.
type GeoError struct {
	Reason GeoReason
	Err    error
}

func (e *GeoError) Error() string {
	return fmt.Sprintf("geolocation failed (%s): %v", e.Reason, e.Err)
}

func (e *GeoError) Unwrap() error { return e.Err }

// PositionProvider is the source of position fixes. The real provider is the
// client device; tests and demos supply fakes.
type PositionProvider interface {
	CurrentPosition(ctx context.Context) (model.Position, error)
}

// Geolocator resolves positions through a provider with a bounded wait and
// normalizes every failure to a GeoError.
type Geolocator struct {
	provider PositionProvider
	timeout  time.Duration
	logger   *zap.Logger
}

// NewGeolocator creates a Geolocator over the given provider.
func NewGeolocator(provider PositionProvider, timeout time.Duration, logger *zap.Logger) *Geolocator {
	return &Geolocator{
		provider: provider,
		timeout:  timeout,
		logger:   logger,
	}
}

// Resolve returns the current position or a GeoError with a typed reason.
func (g *Geolocator) Resolve(ctx context.Context) (model.Position, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	pos, err := g.provider.CurrentPosition(ctx)
	if err != nil {
		var ge *GeoError
		if errors.As(err, &ge) {
			return model.Position{}, ge
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return model.Position{}, &GeoError{Reason: GeoTimeout, Err: err}
		}

		g.logger.Warn("position lookup failed", zap.Error(err))
		return model.Position{}, &GeoError{Reason: GeoUnknown, Err: err}
	}

	if pos.Timestamp.IsZero() {
		pos.Timestamp = time.Now()
	}
	return pos, nil
}
