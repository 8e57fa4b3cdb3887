package http

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/forworkyanika/BKK-Smart-Investment-Map/internal/core/dataset"
	"github.com/forworkyanika/BKK-Smart-Investment-Map/internal/core/domain"
	"github.com/forworkyanika/BKK-Smart-Investment-Map/internal/core/usecases"
)

// MaxRadiusMeters caps the landmark search radius accepted from clients.
const MaxRadiusMeters = 20000.0

// NearbyResponse is the body of GET /v1/landmarks/nearby.
type NearbyResponse struct {
	Query        domain.GeoPoint         `json:"query"`
	RadiusMeters float64                 `json:"radius_meters"`
	Landmarks    []domain.NearbyLandmark `json:"landmarks"`
}

// BatchRequest is the body of POST /v1/analysis/batch.
type BatchRequest struct {
	Points []domain.GeoPoint `json:"points"`
	Radius float64           `json:"radius"`
}

// BatchResponse is the reply to POST /v1/analysis/batch.
type BatchResponse struct {
	Results []domain.Analysis `json:"results"`
}

// parsePoint reads lat/lon from the query string. With both absent the
// dashboard's default location is used.
func parsePoint(c *fiber.Ctx) (domain.GeoPoint, error) {
	latStr, lonStr := c.Query("lat"), c.Query("lon")
	if latStr == "" && lonStr == "" {
		return domain.DefaultQueryLocation, nil
	}
	if latStr == "" || lonStr == "" {
		return domain.GeoPoint{}, fmt.Errorf("lat and lon must be given together")
	}
	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return domain.GeoPoint{}, fmt.Errorf("lat must be a number")
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return domain.GeoPoint{}, fmt.Errorf("lon must be a number")
	}
	return domain.GeoPoint{Lat: lat, Lon: lon}, nil
}

// parseRadius reads an optional radius in meters. Absent means 0, which the
// landmark service resolves to its default.
func parseRadius(c *fiber.Ctx) (float64, error) {
	s := c.Query("radius")
	if s == "" {
		return 0, nil
	}
	r, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("radius must be a number")
	}
	if err := checkRadius(r); err != nil {
		return 0, err
	}
	return r, nil
}

func checkRadius(r float64) error {
	if r < 1 || r > MaxRadiusMeters {
		return fmt.Errorf("radius must be between 1 and %.0f meters", MaxRadiusMeters)
	}
	return nil
}

// ValuationHandler prices the queried location.
func ValuationHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		q, err := parsePoint(c)
		if err != nil {
			return errBadRequest(c, err.Error())
		}

		res, err := deps.Analysis.Valuation().Estimate(c.UserContext(), q)
		if err != nil {
			return errFromDomain(c, err)
		}
		return c.JSON(res)
	}
}

// NearbyLandmarksHandler lists landmarks around the queried location.
func NearbyLandmarksHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		q, err := parsePoint(c)
		if err != nil {
			return errBadRequest(c, err.Error())
		}
		radius, err := parseRadius(c)
		if err != nil {
			return errBadRequest(c, err.Error())
		}

		svc := deps.Analysis.Landmarks()
		nearby, err := svc.Nearby(c.UserContext(), q, radius)
		if err != nil {
			return errFromDomain(c, err)
		}
		return c.JSON(NearbyResponse{
			Query:        q,
			RadiusMeters: svc.EffectiveRadius(radius),
			Landmarks:    nearby,
		})
	}
}

// AnalysisHandler returns valuation and nearby landmarks in one response.
func AnalysisHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		q, err := parsePoint(c)
		if err != nil {
			return errBadRequest(c, err.Error())
		}
		radius, err := parseRadius(c)
		if err != nil {
			return errBadRequest(c, err.Error())
		}

		a, err := deps.Analysis.Analyze(c.UserContext(), q, radius)
		if err != nil {
			return errFromDomain(c, err)
		}
		return c.JSON(a)
	}
}

// BatchAnalysisHandler analyzes up to usecases.MaxBatchSize points at once.
func BatchAnalysisHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req BatchRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if len(req.Points) == 0 {
			return errBadRequest(c, "points is required")
		}
		if len(req.Points) > usecases.MaxBatchSize {
			return errBadRequest(c, fmt.Sprintf("at most %d points per batch", usecases.MaxBatchSize))
		}
		if req.Radius != 0 {
			if err := checkRadius(req.Radius); err != nil {
				return errBadRequest(c, err.Error())
			}
		}

		results, err := deps.Analysis.AnalyzeBatch(c.UserContext(), req.Points, req.Radius)
		if err != nil {
			return errFromDomain(c, err)
		}
		c.Set(fiber.HeaderCacheControl, "no-store")
		return c.JSON(BatchResponse{Results: results})
	}
}

// ListStationsHandler returns the transit stations, optionally filtered by a
// case-insensitive substring of the line name.
func ListStationsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		stations := deps.Analysis.Valuation().Stations()

		if line := strings.TrimSpace(c.Query("line")); line != "" {
			needle := strings.ToLower(line)
			filtered := make([]domain.TransitStation, 0, len(stations))
			for _, s := range stations {
				if strings.Contains(strings.ToLower(s.Line), needle) {
					filtered = append(filtered, s)
				}
			}
			stations = filtered
		}

		offset, limit := pageParams(c)
		page, pg := paginate(stations, offset, limit)
		SetLinkHeaders(c, pg)
		return c.JSON(PaginatedResponse{Data: page, Pagination: pg})
	}
}

// ListLandmarksHandler returns the landmarks, optionally filtered by category.
func ListLandmarksHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		landmarks := deps.Analysis.Landmarks().Landmarks()

		if cat := strings.TrimSpace(c.Query("category")); cat != "" {
			category, ok := parseCategory(cat)
			if !ok {
				return errBadRequest(c, "category must be one of Mall, Education, Park, Market")
			}
			filtered := make([]domain.Landmark, 0, len(landmarks))
			for _, l := range landmarks {
				if l.Category == category {
					filtered = append(filtered, l)
				}
			}
			landmarks = filtered
		}

		offset, limit := pageParams(c)
		page, pg := paginate(landmarks, offset, limit)
		SetLinkHeaders(c, pg)
		return c.JSON(PaginatedResponse{Data: page, Pagination: pg})
	}
}

func parseCategory(s string) (domain.LandmarkCategory, bool) {
	for _, c := range []domain.LandmarkCategory{
		domain.CategoryMall, domain.CategoryEducation, domain.CategoryPark, domain.CategoryMarket,
	} {
		if strings.EqualFold(s, string(c)) {
			return c, true
		}
	}
	return "", false
}

// MapGeoJSONHandler serves both datasets as one GeoJSON FeatureCollection
// for map layers.
func MapGeoJSONHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fc := dataset.FeatureCollection(
			deps.Analysis.Valuation().Stations(),
			deps.Analysis.Landmarks().Landmarks(),
		)
		body, err := fc.MarshalJSON()
		if err != nil {
			return errInternal(c, err.Error())
		}
		c.Set(fiber.HeaderContentType, "application/geo+json")
		return c.Send(body)
	}
}
