package upstream

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/medibridge/backend/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakePositionProvider struct {
	pos model.Position
	err error
}

func (f fakePositionProvider) CurrentPosition(ctx context.Context) (model.Position, error) {
	if f.err != nil {
		return model.Position{}, f.err
	}
	return f.pos, nil
}

type blockingPositionProvider struct{}

func (blockingPositionProvider) CurrentPosition(ctx context.Context) (model.Position, error) {
	<-ctx.Done()
	return model.Position{}, ctx.Err()
}

func TestGeolocator_ResolveSuccess(t *testing.T) {
	fix := model.Position{Latitude: 47.4979, Longitude: 19.0402, Timestamp: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	geo := NewGeolocator(fakePositionProvider{pos: fix}, time.Second, zap.NewNop())

	got, err := geo.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, fix, got)
}

func TestGeolocator_FillsMissingTimestamp(t *testing.T) {
	geo := NewGeolocator(fakePositionProvider{pos: model.Position{Latitude: 1, Longitude: 2}}, time.Second, zap.NewNop())

	got, err := geo.Resolve(context.Background())
	require.NoError(t, err)
	assert.False(t, got.Timestamp.IsZero())
}

func TestGeolocator_TypedReasonsPassThrough(t *testing.T) {
	for _, reason := range []GeoReason{GeoPermissionDenied, GeoUnavailable} {
		provider := fakePositionProvider{err: &GeoError{Reason: reason, Err: errors.New("nope")}}
		geo := NewGeolocator(provider, time.Second, zap.NewNop())

		_, err := geo.Resolve(context.Background())
		var ge *GeoError
		require.ErrorAs(t, err, &ge)
		assert.Equal(t, reason, ge.Reason)
	}
}

func TestGeolocator_TimeoutReason(t *testing.T) {
	geo := NewGeolocator(blockingPositionProvider{}, 10*time.Millisecond, zap.NewNop())

	_, err := geo.Resolve(context.Background())
	var ge *GeoError
	require.ErrorAs(t, err, &ge)
	assert.Equal(t, GeoTimeout, ge.Reason)
}

func TestGeolocator_UnknownReasonForArbitraryFailure(t *testing.T) {
	geo := NewGeolocator(fakePositionProvider{err: errors.New("hardware fault")}, time.Second, zap.NewNop())

	_, err := geo.Resolve(context.Background())
	var ge *GeoError
	require.ErrorAs(t, err, &ge)
	assert.Equal(t, GeoUnknown, ge.Reason)
}
