package usecases

import (
	"context"
	"strconv"

	"go.opentelemetry.io/otel/attribute"

	"github.com/forworkyanika/BKK-Smart-Investment-Map/internal/core/domain"
	"github.com/forworkyanika/BKK-Smart-Investment-Map/internal/core/ports"
	"github.com/forworkyanika/BKK-Smart-Investment-Map/internal/core/proximity"
	"github.com/forworkyanika/BKK-Smart-Investment-Map/internal/core/valuation"
	"github.com/forworkyanika/BKK-Smart-Investment-Map/internal/pkg/geospatial"
	"github.com/forworkyanika/BKK-Smart-Investment-Map/internal/pkg/logging"
	"github.com/forworkyanika/BKK-Smart-Investment-Map/internal/pkg/metrics"
	"github.com/forworkyanika/BKK-Smart-Investment-Map/internal/pkg/telemetry"
)

// ValuationService prices a location by its distance to the nearest station.
type ValuationService struct {
	stations *proximity.Index[domain.TransitStation]
	params   valuation.Params
}

// NewValuationService indexes the reference stations with proj.
func NewValuationService(data ports.ReferenceData, proj geospatial.Projection, params valuation.Params) (*ValuationService, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	idx, err := proximity.NewIndex("transit_stations", proj, data.TransitStations())
	if err != nil {
		return nil, err
	}
	return &ValuationService{stations: idx, params: params}, nil
}

// Estimate returns the valuation for query. Nothing is cached.
func (s *ValuationService) Estimate(ctx context.Context, query domain.GeoPoint) (*domain.ValuationResult, error) {
	ctx, span := tracer.Start(ctx, telemetry.SpanValuationEstimate)
	defer span.End()
	span.SetAttributes(
		attribute.Float64("query.lat", query.Lat),
		attribute.Float64("query.lon", query.Lon),
	)

	nearest, err := s.stations.Nearest(query)
	if err != nil {
		fail(span, err)
		return nil, err
	}

	station := nearest.Item
	premium := s.params.IsPremium(station)
	tier := s.params.TierFor(nearest.DistanceMeters)

	result := &domain.ValuationResult{
		Query:          query,
		Station:        station,
		DistanceMeters: nearest.DistanceMeters,
		Price:          s.params.Estimate(station, nearest.DistanceMeters),
		Tier:           tier,
		TierLabel:      tier.Label(),
		PremiumLine:    premium,
	}

	span.SetAttributes(
		attribute.String("station", station.Name),
		attribute.Float64("distance_m", result.DistanceMeters),
		attribute.String("tier", string(tier)),
	)
	metrics.ValuationEstimates.WithLabelValues(string(tier), strconv.FormatBool(premium)).Inc()
	metrics.NearestStationDistance.Observe(result.DistanceMeters)

	logging.FromContext(ctx).Debug("valuation estimated",
		"lat", query.Lat,
		"lon", query.Lon,
		"station", station.Name,
		"distance_m", result.DistanceMeters,
		"price", result.Price,
		"tier", tier,
	)

	return result, nil
}

// Stations returns the indexed stations in dataset order.
func (s *ValuationService) Stations() []domain.TransitStation {
	return s.stations.Items()
}

// Params returns the active price model.
func (s *ValuationService) Params() valuation.Params {
	return s.params
}
