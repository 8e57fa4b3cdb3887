package telemetry

// Span names opened by the use cases.
const (
	SpanValuationEstimate = "valuation.Estimate"
	SpanLandmarksNearby   = "landmarks.Nearby"
	SpanAnalysisAnalyze   = "analysis.Analyze"
	SpanAnalysisBatch     = "analysis.AnalyzeBatch"
)

// TracerName identifies this service's instrumentation scope.
const TracerName = "github.com/forworkyanika/BKK-Smart-Investment-Map"
