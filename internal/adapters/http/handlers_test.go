package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	handler "github.com/forworkyanika/BKK-Smart-Investment-Map/internal/adapters/http"
	"github.com/forworkyanika/BKK-Smart-Investment-Map/internal/core/dataset"
	"github.com/forworkyanika/BKK-Smart-Investment-Map/internal/core/domain"
	"github.com/forworkyanika/BKK-Smart-Investment-Map/internal/core/ports"
	"github.com/forworkyanika/BKK-Smart-Investment-Map/internal/core/usecases"
	"github.com/forworkyanika/BKK-Smart-Investment-Map/internal/core/valuation"
	"github.com/forworkyanika/BKK-Smart-Investment-Map/internal/pkg/geospatial"
)

// ---- Mocks ----

type mockReferenceData struct {
	stationsFn  func() []domain.TransitStation
	landmarksFn func() []domain.Landmark
}

func (m *mockReferenceData) TransitStations() []domain.TransitStation {
	if m.stationsFn != nil {
		return m.stationsFn()
	}
	return nil
}

func (m *mockReferenceData) Landmarks() []domain.Landmark {
	if m.landmarksFn != nil {
		return m.landmarksFn()
	}
	return nil
}

type mockLimiter struct {
	pingFn func(ctx context.Context) error
}

func (m *mockLimiter) Get(key string) ([]byte, error)                       { return nil, nil }
func (m *mockLimiter) Set(key string, val []byte, exp time.Duration) error { return nil }
func (m *mockLimiter) Delete(key string) error                             { return nil }
func (m *mockLimiter) Reset() error                                        { return nil }
func (m *mockLimiter) Close() error                                        { return nil }
func (m *mockLimiter) Ping(ctx context.Context) error {
	if m.pingFn != nil {
		return m.pingFn(ctx)
	}
	return nil
}

// ---- Test helpers ----

func newAnalysis(t *testing.T, data ports.ReferenceData) *usecases.AnalysisService {
	t.Helper()
	v, err := usecases.NewValuationService(data, geospatial.UTM47N, valuation.DefaultParams())
	if err != nil {
		t.Fatalf("valuation service: %v", err)
	}
	l, err := usecases.NewLandmarkService(data, geospatial.UTM47N, 0)
	if err != nil {
		t.Fatalf("landmark service: %v", err)
	}
	return usecases.NewAnalysisService(v, l)
}

func setupApp(deps *handler.Dependencies) *fiber.App {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	handler.SetupRoutes(app, deps)
	return app
}

func makeDeps(t *testing.T, opts ...func(*handler.Dependencies)) *handler.Dependencies {
	t.Helper()
	d := &handler.Dependencies{
		Analysis: newAnalysis(t, dataset.Static{}),
		DocsPath: "../../../api/openapi.yaml",
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

func get(t *testing.T, app *fiber.App, url string) *httptestResponse {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest("GET", url, nil), -1)
	if err != nil {
		t.Fatal(err)
	}
	return &httptestResponse{status: resp.StatusCode, header: resp.Header.Get, body: readBody(t, resp.Body)}
}

type httptestResponse struct {
	status int
	header func(string) string
	body   []byte
}

func (r *httptestResponse) decode(t *testing.T, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(r.body, v); err != nil {
		t.Fatalf("decode %s: %v", r.body, err)
	}
}

func readBody(t *testing.T, body io.Reader) []byte {
	t.Helper()
	b, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return b
}

func expectAPIError(t *testing.T, r *httptestResponse, status int, code string) {
	t.Helper()
	if r.status != status {
		t.Fatalf("expected %d, got %d (%s)", status, r.status, r.body)
	}
	var apiErr handler.APIError
	r.decode(t, &apiErr)
	if apiErr.Code != code {
		t.Errorf("expected %s error, got %s", code, apiErr.Code)
	}
}

// ---- Valuation ----

func TestValuation_Success(t *testing.T) {
	app := setupApp(makeDeps(t))

	r := get(t, app, "/v1/valuation?lat=13.7456&lon=100.5341")
	if r.status != 200 {
		t.Fatalf("expected 200, got %d", r.status)
	}

	var res domain.ValuationResult
	r.decode(t, &res)
	if res.Station.Name != "BTS Siam" {
		t.Errorf("expected BTS Siam, got %s", res.Station.Name)
	}
	if res.Tier != domain.TierPrime || res.TierLabel != "Prime Area" {
		t.Errorf("expected Prime Area, got %s/%s", res.Tier, res.TierLabel)
	}
	if res.Price < 239999.99 || res.Price > 240000.01 {
		t.Errorf("expected price 240000, got %f", res.Price)
	}
}

func TestValuation_DefaultLocation(t *testing.T) {
	app := setupApp(makeDeps(t))

	r := get(t, app, "/v1/valuation")
	if r.status != 200 {
		t.Fatalf("expected 200, got %d", r.status)
	}

	var res domain.ValuationResult
	r.decode(t, &res)
	if res.Query != domain.DefaultQueryLocation {
		t.Errorf("expected default location, got %+v", res.Query)
	}
}

func TestValuation_BadParams(t *testing.T) {
	app := setupApp(makeDeps(t))

	for _, url := range []string{
		"/v1/valuation?lat=13.7",
		"/v1/valuation?lon=100.5",
		"/v1/valuation?lat=abc&lon=100.5",
		"/v1/valuation?lat=91&lon=100.5",
		"/v1/valuation?lat=13.7&lon=181",
	} {
		t.Run(url, func(t *testing.T) {
			expectAPIError(t, get(t, app, url), 400, "bad_request")
		})
	}
}

func TestValuation_EmptyDataset(t *testing.T) {
	deps := makeDeps(t, func(d *handler.Dependencies) {
		d.Analysis = newAnalysis(t, &mockReferenceData{})
	})
	app := setupApp(deps)

	expectAPIError(t, get(t, app, "/v1/valuation?lat=13.7&lon=100.5"), 500, "internal_error")
}

func TestValuation_FarFromTransit(t *testing.T) {
	app := setupApp(makeDeps(t))

	r := get(t, app, "/v1/valuation?lat=13.9&lon=100.9")
	if r.status != 200 {
		t.Fatalf("expected 200, got %d", r.status)
	}
	var res domain.ValuationResult
	r.decode(t, &res)
	if res.Tier != domain.TierCarDependent || res.Price != 20000 {
		t.Errorf("expected CarDependent at 20000, got %s at %f", res.Tier, res.Price)
	}
}

// ---- Landmarks ----

func TestNearbyLandmarks_Success(t *testing.T) {
	app := setupApp(makeDeps(t))

	r := get(t, app, "/v1/landmarks/nearby?lat=13.7267&lon=100.5094&radius=3000")
	if r.status != 200 {
		t.Fatalf("expected 200, got %d", r.status)
	}

	var res handler.NearbyResponse
	r.decode(t, &res)
	if res.RadiusMeters != 3000 {
		t.Errorf("expected radius 3000, got %f", res.RadiusMeters)
	}
	if len(res.Landmarks) == 0 || res.Landmarks[0].Landmark.Name != "ICONSIAM" {
		t.Fatalf("expected ICONSIAM first, got %+v", res.Landmarks)
	}
	for i := 1; i < len(res.Landmarks); i++ {
		if res.Landmarks[i].DistanceMeters < res.Landmarks[i-1].DistanceMeters {
			t.Errorf("landmarks not sorted by distance: %+v", res.Landmarks)
		}
	}
}

func TestNearbyLandmarks_DefaultRadius(t *testing.T) {
	app := setupApp(makeDeps(t))

	r := get(t, app, "/v1/landmarks/nearby")
	if r.status != 200 {
		t.Fatalf("expected 200, got %d", r.status)
	}
	var res handler.NearbyResponse
	r.decode(t, &res)
	if res.RadiusMeters != usecases.DefaultLandmarkRadius {
		t.Errorf("expected default radius, got %f", res.RadiusMeters)
	}
}

func TestNearbyLandmarks_EmptyResult(t *testing.T) {
	app := setupApp(makeDeps(t))

	r := get(t, app, "/v1/landmarks/nearby?lat=13.9&lon=100.9")
	if r.status != 200 {
		t.Fatalf("expected 200, got %d", r.status)
	}
	if !strings.Contains(string(r.body), `"landmarks":[]`) {
		t.Errorf("expected empty landmarks array, got %s", r.body)
	}
}

func TestNearbyLandmarks_BadRadius(t *testing.T) {
	app := setupApp(makeDeps(t))

	for _, radius := range []string{"0", "-5", "20001", "far"} {
		t.Run(radius, func(t *testing.T) {
			expectAPIError(t, get(t, app, "/v1/landmarks/nearby?lat=13.7&lon=100.5&radius="+radius), 400, "bad_request")
		})
	}
}

// ---- Analysis ----

func TestAnalysis_Success(t *testing.T) {
	app := setupApp(makeDeps(t))

	r := get(t, app, "/v1/analysis?lat=13.7455&lon=100.5340")
	if r.status != 200 {
		t.Fatalf("expected 200, got %d", r.status)
	}

	var a domain.Analysis
	r.decode(t, &a)
	if a.Valuation == nil || a.Valuation.Station.Name != "BTS Siam" {
		t.Errorf("expected BTS Siam valuation, got %+v", a.Valuation)
	}
	if len(a.Landmarks) == 0 || a.Landmarks[0].Landmark.Name != "Siam Paragon" {
		t.Errorf("expected Siam Paragon first, got %+v", a.Landmarks)
	}
}

func TestBatchAnalysis(t *testing.T) {
	app := setupApp(makeDeps(t))

	post := func(body string) *httptestResponse {
		req := httptest.NewRequest("POST", "/v1/analysis/batch", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req, -1)
		if err != nil {
			t.Fatal(err)
		}
		return &httptestResponse{status: resp.StatusCode, header: resp.Header.Get, body: readBody(t, resp.Body)}
	}

	t.Run("success", func(t *testing.T) {
		r := post(`{"points":[{"lat":13.9,"lon":100.9},{"lat":13.7456,"lon":100.5341}],"radius":1000}`)
		if r.status != 200 {
			t.Fatalf("expected 200, got %d (%s)", r.status, r.body)
		}
		var res handler.BatchResponse
		r.decode(t, &res)
		if len(res.Results) != 2 {
			t.Fatalf("expected 2 results, got %d", len(res.Results))
		}
		if res.Results[0].Valuation.Tier != domain.TierCarDependent {
			t.Errorf("expected first result CarDependent, got %s", res.Results[0].Valuation.Tier)
		}
		if res.Results[1].Valuation.Station.Name != "BTS Siam" {
			t.Errorf("expected second result at BTS Siam, got %s", res.Results[1].Valuation.Station.Name)
		}
		if res.Results[1].RadiusMeters != 1000 {
			t.Errorf("expected radius 1000, got %f", res.Results[1].RadiusMeters)
		}
	})

	t.Run("empty", func(t *testing.T) {
		expectAPIError(t, post(`{"points":[]}`), 400, "bad_request")
	})

	t.Run("too many", func(t *testing.T) {
		pts := make([]string, usecases.MaxBatchSize+1)
		for i := range pts {
			pts[i] = `{"lat":13.7,"lon":100.5}`
		}
		expectAPIError(t, post(`{"points":[`+strings.Join(pts, ",")+`]}`), 400, "bad_request")
	})

	t.Run("invalid point", func(t *testing.T) {
		expectAPIError(t, post(`{"points":[{"lat":13.7,"lon":100.5},{"lat":-95,"lon":100.5}]}`), 400, "bad_request")
	})

	t.Run("invalid body", func(t *testing.T) {
		expectAPIError(t, post(`{"points":`), 400, "bad_request")
	})
}

// ---- Reference datasets ----

func TestListStations_FilterAndPagination(t *testing.T) {
	app := setupApp(makeDeps(t))

	r := get(t, app, "/v1/stations?line=sukhumvit&offset=0&limit=3")
	if r.status != 200 {
		t.Fatalf("expected 200, got %d", r.status)
	}

	var res struct {
		Data       []domain.TransitStation `json:"data"`
		Pagination handler.Pagination      `json:"pagination"`
	}
	r.decode(t, &res)
	if res.Pagination.Total != 4 {
		t.Errorf("expected 4 Sukhumvit line stations, got %d", res.Pagination.Total)
	}
	if len(res.Data) != 3 {
		t.Errorf("expected page of 3, got %d", len(res.Data))
	}

	link := r.header("Link")
	for _, rel := range []string{`rel="first"`, `rel="next"`, `rel="last"`} {
		if !strings.Contains(link, rel) {
			t.Errorf("expected %s in Link header, got %s", rel, link)
		}
	}
	if !strings.Contains(link, "line=sukhumvit") {
		t.Errorf("expected filter carried into Link header, got %s", link)
	}
}

func TestListLandmarks_Category(t *testing.T) {
	app := setupApp(makeDeps(t))

	r := get(t, app, "/v1/landmarks?category=park")
	if r.status != 200 {
		t.Fatalf("expected 200, got %d", r.status)
	}
	var res struct {
		Data []domain.Landmark `json:"data"`
	}
	r.decode(t, &res)
	if len(res.Data) != 2 {
		t.Errorf("expected 2 parks, got %d", len(res.Data))
	}

	expectAPIError(t, get(t, app, "/v1/landmarks?category=temple"), 400, "bad_request")
}

func TestMapGeoJSON(t *testing.T) {
	app := setupApp(makeDeps(t))

	r := get(t, app, "/v1/map.geojson")
	if r.status != 200 {
		t.Fatalf("expected 200, got %d", r.status)
	}
	if ct := r.header("Content-Type"); ct != "application/geo+json" {
		t.Errorf("expected geo+json content type, got %q", ct)
	}

	var fc struct {
		Type     string            `json:"type"`
		Features []json.RawMessage `json:"features"`
	}
	r.decode(t, &fc)
	if fc.Type != "FeatureCollection" || len(fc.Features) != 18 {
		t.Errorf("expected FeatureCollection of 18, got %s with %d", fc.Type, len(fc.Features))
	}
}

// ---- GraphQL ----

func TestGraphQL_Analysis(t *testing.T) {
	app := setupApp(makeDeps(t))

	body := `{"query":"{ analysis(lat: 13.7267, lon: 100.5094, radius: 3000) { valuation { station { name } tier } landmarks { landmark { name } distance_meters } } }"}`
	req := httptest.NewRequest("POST", "/graphql", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var result struct {
		Data struct {
			Analysis struct {
				Valuation struct {
					Station struct {
						Name string `json:"name"`
					} `json:"station"`
					Tier string `json:"tier"`
				} `json:"valuation"`
				Landmarks []struct {
					Landmark struct {
						Name string `json:"name"`
					} `json:"landmark"`
				} `json:"landmarks"`
			} `json:"analysis"`
		} `json:"data"`
		Errors []interface{} `json:"errors"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatal(err)
	}
	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if result.Data.Analysis.Valuation.Station.Name != "ICONSIAM (Gold)" {
		t.Errorf("expected ICONSIAM (Gold), got %s", result.Data.Analysis.Valuation.Station.Name)
	}
	if result.Data.Analysis.Valuation.Tier != "Prime" {
		t.Errorf("expected Prime, got %s", result.Data.Analysis.Valuation.Tier)
	}
	if len(result.Data.Analysis.Landmarks) == 0 || result.Data.Analysis.Landmarks[0].Landmark.Name != "ICONSIAM" {
		t.Errorf("expected ICONSIAM first, got %+v", result.Data.Analysis.Landmarks)
	}
}

func TestGraphQL_InvalidCoordinate(t *testing.T) {
	app := setupApp(makeDeps(t))

	body := `{"query":"{ valuation(lat: 100, lon: 100) { price } }"}`
	req := httptest.NewRequest("POST", "/graphql", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req, -1)

	var result struct {
		Errors []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}
	json.NewDecoder(resp.Body).Decode(&result)
	if len(result.Errors) == 0 || !strings.Contains(result.Errors[0].Message, "invalid coordinate") {
		t.Errorf("expected invalid coordinate error, got %+v", result.Errors)
	}
}

// ---- Health handler tests ----

func TestHealth_Returns200(t *testing.T) {
	app := setupApp(makeDeps(t))

	r := get(t, app, "/v1/health")
	if r.status != 200 {
		t.Fatalf("expected 200, got %d", r.status)
	}

	var result map[string]interface{}
	r.decode(t, &result)
	if result["status"] != "healthy" {
		t.Errorf("expected healthy status, got %v", result["status"])
	}
}

func TestReady(t *testing.T) {
	t.Run("datasets loaded, optional backends absent", func(t *testing.T) {
		r := get(t, setupApp(makeDeps(t)), "/v1/ready")
		if r.status != 200 {
			t.Fatalf("expected 200, got %d (%s)", r.status, r.body)
		}
	})

	t.Run("empty datasets", func(t *testing.T) {
		deps := makeDeps(t, func(d *handler.Dependencies) {
			d.Analysis = newAnalysis(t, &mockReferenceData{})
		})
		r := get(t, setupApp(deps), "/v1/ready")
		if r.status != 503 {
			t.Fatalf("expected 503, got %d", r.status)
		}
	})

	t.Run("valkey down", func(t *testing.T) {
		deps := makeDeps(t, func(d *handler.Dependencies) {
			d.Limiter = &mockLimiter{pingFn: func(ctx context.Context) error {
				return errors.New("connection refused")
			}}
		})
		r := get(t, setupApp(deps), "/v1/ready")
		if r.status != 503 {
			t.Fatalf("expected 503, got %d", r.status)
		}
		var result struct {
			Checks map[string]string `json:"checks"`
		}
		r.decode(t, &result)
		if !strings.Contains(result.Checks["valkey"], "connection refused") {
			t.Errorf("expected valkey error in checks, got %v", result.Checks)
		}
	})
}

// ---- Middleware ----

func TestRateLimit(t *testing.T) {
	deps := makeDeps(t, func(d *handler.Dependencies) {
		d.RateLimit = handler.RateLimit{Max: 2, Expiration: time.Minute}
	})
	app := setupApp(deps)

	for i := 0; i < 2; i++ {
		if r := get(t, app, "/v1/health"); r.status != 200 {
			t.Fatalf("request %d: expected 200, got %d", i, r.status)
		}
	}
	expectAPIError(t, get(t, app, "/v1/health"), 429, "rate_limited")
}

func TestAPIVersionHeader(t *testing.T) {
	r := get(t, setupApp(makeDeps(t)), "/v1/health")
	if v := r.header("X-API-Version"); v != "1.0.0" {
		t.Errorf("expected X-API-Version 1.0.0, got %q", v)
	}
}

func TestCacheControlAndETag(t *testing.T) {
	app := setupApp(makeDeps(t))

	r := get(t, app, "/v1/stations")
	if cc := r.header("Cache-Control"); cc != "public, max-age=86400" {
		t.Errorf("expected dataset cache header, got %q", cc)
	}
	tag := r.header("ETag")
	if tag == "" {
		t.Fatal("expected ETag header")
	}

	req := httptest.NewRequest("GET", "/v1/stations", nil)
	req.Header.Set("If-None-Match", tag)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 304 {
		t.Errorf("expected 304 for matching ETag, got %d", resp.StatusCode)
	}

	if cc := get(t, app, "/v1/valuation").header("Cache-Control"); cc != "public, max-age=3600" {
		t.Errorf("expected valuation cache header, got %q", cc)
	}
}

func TestCacheControl_ErrorsNotStored(t *testing.T) {
	app := setupApp(makeDeps(t))

	r := get(t, app, "/v1/valuation?lat=abc&lon=1")
	if r.status != 400 {
		t.Fatalf("expected 400, got %d", r.status)
	}
	if cc := r.header("Cache-Control"); cc != "no-store" {
		t.Errorf("expected no-store on 400, got %q", cc)
	}

	broken := setupApp(makeDeps(t, func(d *handler.Dependencies) {
		d.Analysis = newAnalysis(t, &mockReferenceData{})
	}))
	r = get(t, broken, "/v1/valuation")
	if r.status != 500 {
		t.Fatalf("expected 500, got %d", r.status)
	}
	if cc := r.header("Cache-Control"); cc != "no-store" {
		t.Errorf("expected no-store on 500, got %q", cc)
	}
}

func TestDocs(t *testing.T) {
	app := setupApp(makeDeps(t))

	if r := get(t, app, "/docs"); r.status != 200 || !strings.Contains(string(r.body), "swagger-ui") {
		t.Errorf("expected Swagger UI page, got %d", r.status)
	}
	if r := get(t, app, "/docs/openapi.yaml"); r.status != 200 || !strings.Contains(string(r.body), "openapi:") {
		t.Errorf("expected OpenAPI document, got %d", r.status)
	}
}

func TestWebSocket_RequiresUpgrade(t *testing.T) {
	r := get(t, setupApp(makeDeps(t)), "/ws")
	if r.status != fiber.StatusUpgradeRequired {
		t.Errorf("expected 426, got %d", r.status)
	}
}

// TestAccessLogMiddleware verifies structured access logging is emitted.
func TestAccessLogMiddleware(t *testing.T) {
	app := fiber.New()
	app.Use(handler.AccessLogMiddleware())
	app.Get("/test", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true})
	})

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("X-Request-ID", "test-req-123")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}

	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "ok") {
		t.Errorf("expected response body to contain 'ok', got %s", string(body))
	}
}
