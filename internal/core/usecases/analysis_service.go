package usecases

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/forworkyanika/BKK-Smart-Investment-Map/internal/core/domain"
	"github.com/forworkyanika/BKK-Smart-Investment-Map/internal/pkg/telemetry"
)

const (
	// MaxBatchSize caps the points accepted by AnalyzeBatch.
	MaxBatchSize = 100

	batchWorkers = 8
)

// AnalysisService combines valuation and nearby landmarks for a point, which
// is everything the map shows after a click.
type AnalysisService struct {
	valuation *ValuationService
	landmarks *LandmarkService
}

// NewAnalysisService creates a new AnalysisService.
func NewAnalysisService(valuation *ValuationService, landmarks *LandmarkService) *AnalysisService {
	return &AnalysisService{valuation: valuation, landmarks: landmarks}
}

// Analyze evaluates a single point. A zero radius uses the default.
func (s *AnalysisService) Analyze(ctx context.Context, query domain.GeoPoint, radiusMeters float64) (*domain.Analysis, error) {
	ctx, span := tracer.Start(ctx, telemetry.SpanAnalysisAnalyze)
	defer span.End()

	v, err := s.valuation.Estimate(ctx, query)
	if err != nil {
		return nil, err
	}
	nearby, err := s.landmarks.Nearby(ctx, query, radiusMeters)
	if err != nil {
		return nil, err
	}

	return &domain.Analysis{
		Valuation:    v,
		Landmarks:    nearby,
		RadiusMeters: s.landmarks.EffectiveRadius(radiusMeters),
	}, nil
}

// AnalyzeBatch evaluates every query independently and concurrently. Results
// keep the input order. The first failing point aborts the batch.
func (s *AnalysisService) AnalyzeBatch(ctx context.Context, queries []domain.GeoPoint, radiusMeters float64) ([]domain.Analysis, error) {
	if len(queries) == 0 {
		return nil, &domain.EmptyInputError{Dataset: "batch"}
	}
	if len(queries) > MaxBatchSize {
		return nil, fmt.Errorf("batch of %d points exceeds maximum of %d", len(queries), MaxBatchSize)
	}

	ctx, span := tracer.Start(ctx, telemetry.SpanAnalysisBatch)
	defer span.End()
	span.SetAttributes(attribute.Int("batch.size", len(queries)))

	results := make([]domain.Analysis, len(queries))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(batchWorkers)

	for i, q := range queries {
		i, q := i, q
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			a, err := s.Analyze(gctx, q, radiusMeters)
			if err != nil {
				return fmt.Errorf("point %d: %w", i, err)
			}
			results[i] = *a
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		span.RecordError(err)
		return nil, err
	}
	return results, nil
}

// Valuation exposes the underlying valuation service.
func (s *AnalysisService) Valuation() *ValuationService { return s.valuation }

// Landmarks exposes the underlying landmark service.
func (s *AnalysisService) Landmarks() *LandmarkService { return s.landmarks }
