package usecases

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/forworkyanika/BKK-Smart-Investment-Map/internal/core/domain"
	"github.com/forworkyanika/BKK-Smart-Investment-Map/internal/core/ports"
	"github.com/forworkyanika/BKK-Smart-Investment-Map/internal/core/proximity"
	"github.com/forworkyanika/BKK-Smart-Investment-Map/internal/pkg/geospatial"
	"github.com/forworkyanika/BKK-Smart-Investment-Map/internal/pkg/logging"
	"github.com/forworkyanika/BKK-Smart-Investment-Map/internal/pkg/metrics"
	"github.com/forworkyanika/BKK-Smart-Investment-Map/internal/pkg/telemetry"
)

// DefaultLandmarkRadius is the search radius used when none is given.
const DefaultLandmarkRadius = 3000.0

// LandmarkService finds landmarks around a location.
type LandmarkService struct {
	landmarks     *proximity.Index[domain.Landmark]
	defaultRadius float64
}

// NewLandmarkService indexes the reference landmarks with proj.
// A non-positive defaultRadius falls back to DefaultLandmarkRadius.
func NewLandmarkService(data ports.ReferenceData, proj geospatial.Projection, defaultRadius float64) (*LandmarkService, error) {
	if defaultRadius <= 0 {
		defaultRadius = DefaultLandmarkRadius
	}
	idx, err := proximity.NewIndex("landmarks", proj, data.Landmarks())
	if err != nil {
		return nil, err
	}
	return &LandmarkService{landmarks: idx, defaultRadius: defaultRadius}, nil
}

// Nearby returns landmarks within radiusMeters of query, closest first.
// A zero radius means the default radius. An empty result is not an error.
func (s *LandmarkService) Nearby(ctx context.Context, query domain.GeoPoint, radiusMeters float64) ([]domain.NearbyLandmark, error) {
	radius := s.EffectiveRadius(radiusMeters)

	ctx, span := tracer.Start(ctx, telemetry.SpanLandmarksNearby)
	defer span.End()
	span.SetAttributes(
		attribute.Float64("query.lat", query.Lat),
		attribute.Float64("query.lon", query.Lon),
		attribute.Float64("radius_m", radius),
	)

	matches, err := s.landmarks.WithinRadius(query, radius)
	if err != nil {
		fail(span, err)
		return nil, err
	}

	out := make([]domain.NearbyLandmark, len(matches))
	for i, m := range matches {
		out[i] = domain.NearbyLandmark{Landmark: m.Item, DistanceMeters: m.DistanceMeters}
	}

	span.SetAttributes(attribute.Int("landmarks.count", len(out)))
	metrics.NearbyLandmarks.Observe(float64(len(out)))
	logging.FromContext(ctx).Debug("nearby landmarks",
		"lat", query.Lat,
		"lon", query.Lon,
		"radius_m", radius,
		"count", len(out),
	)

	return out, nil
}

// EffectiveRadius resolves a requested radius, mapping zero to the default.
func (s *LandmarkService) EffectiveRadius(radiusMeters float64) float64 {
	if radiusMeters == 0 {
		return s.defaultRadius
	}
	return radiusMeters
}

// DefaultRadius returns the configured default radius in meters.
func (s *LandmarkService) DefaultRadius() float64 {
	return s.defaultRadius
}

// Landmarks returns the indexed landmarks in dataset order.
func (s *LandmarkService) Landmarks() []domain.Landmark {
	return s.landmarks.Items()
}
