package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// CachingMiddleware sets Cache-Control headers on GET responses based on endpoint.
// Handlers that set their own header win. Error responses are never cached.
func CachingMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		if c.Method() != fiber.MethodGet {
			return err
		}
		if existing := c.GetRespHeader(fiber.HeaderCacheControl); existing != "" {
			return err
		}

		if err != nil || c.Response().StatusCode() >= fiber.StatusBadRequest {
			c.Set(fiber.HeaderCacheControl, "no-store")
			return err
		}

		path := c.Path()
		var ttl string

		switch {
		case path == "/v1/health" || path == "/v1/ready":
			ttl = "no-cache"

		case path == "/metrics":
			ttl = "no-cache"

		case path == "/ws":
			// upgrade requests carry no cacheable body

		// The reference datasets are compiled in and never change at runtime.
		case path == "/v1/stations", path == "/v1/landmarks", path == "/v1/map.geojson":
			ttl = "public, max-age=86400"

		// Valuations are pure functions of the query string.
		case path == "/v1/valuation", path == "/v1/analysis", path == "/v1/landmarks/nearby":
			ttl = "public, max-age=3600"

		case strings.HasPrefix(path, "/docs"):
			ttl = "public, max-age=600"

		case strings.HasPrefix(path, "/v1/"):
			ttl = "public, max-age=300"
		}

		if ttl != "" {
			c.Set(fiber.HeaderCacheControl, ttl)
		}

		return err
	}
}
