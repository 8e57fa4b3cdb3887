package usecases

import (
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/forworkyanika/BKK-Smart-Investment-Map/internal/core/domain"
	"github.com/forworkyanika/BKK-Smart-Investment-Map/internal/pkg/metrics"
	"github.com/forworkyanika/BKK-Smart-Investment-Map/internal/pkg/telemetry"
)

var tracer = otel.Tracer(telemetry.TracerName)

// errorKind labels an error for the query_errors_total metric.
func errorKind(err error) string {
	var (
		invalidCoord  *domain.InvalidCoordinateError
		invalidRadius *domain.InvalidRadiusError
		empty         *domain.EmptyInputError
	)
	switch {
	case errors.As(err, &invalidCoord):
		return "invalid_coordinate"
	case errors.As(err, &invalidRadius):
		return "invalid_radius"
	case errors.As(err, &empty):
		return "empty_input"
	default:
		return "other"
	}
}

// fail counts err and marks span as failed.
func fail(span trace.Span, err error) {
	metrics.QueryErrors.WithLabelValues(errorKind(err)).Inc()
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
