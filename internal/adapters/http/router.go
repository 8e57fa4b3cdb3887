package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/timeout"
	"github.com/gofiber/websocket/v2"

	"github.com/forworkyanika/BKK-Smart-Investment-Map/internal/pkg/metrics"
)

const requestTimeout = 15 * time.Second

// SetupRoutes registers all REST, GraphQL, and WebSocket routes.
func SetupRoutes(app *fiber.App, deps *Dependencies) {
	// Prometheus metrics
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	// Response compression (gzip)
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	// Request ID
	app.Use(requestid.New())

	// Request-scoped slog logger
	app.Use(RequestIDLogMiddleware())

	// Access logs (structured HTTP request logging)
	app.Use(AccessLogMiddleware())

	// Rate limiting per IP, shared through Valkey when configured
	rl := deps.RateLimit
	if rl.Max <= 0 {
		rl.Max = 120
	}
	if rl.Expiration <= 0 {
		rl.Expiration = time.Minute
	}
	limiterCfg := limiter.Config{
		Max:        rl.Max,
		Expiration: rl.Expiration,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return newError(c, fiber.StatusTooManyRequests, "rate_limited", "too many requests, please try again later")
		},
	}
	if deps.Limiter != nil {
		limiterCfg.Storage = deps.Limiter
	}
	app.Use(limiter.New(limiterCfg))

	// Security headers + API version
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("X-API-Version", "1.0.0")
		return c.Next()
	})

	// Weak ETags for conditional GETs
	app.Use(etag.New(etag.Config{Weak: true}))

	// Default Cache-Control headers
	app.Use(CachingMiddleware())

	// Health & readiness (no timeout, fast internal checks)
	app.Get("/v1/health", HealthHandler(deps))
	app.Get("/v1/ready", ReadyHandler(deps))

	// REST API v1
	v1 := app.Group("/v1")
	v1.Get("/valuation", timeout.NewWithContext(ValuationHandler(deps), requestTimeout))
	v1.Get("/landmarks/nearby", timeout.NewWithContext(NearbyLandmarksHandler(deps), requestTimeout))
	v1.Get("/analysis", timeout.NewWithContext(AnalysisHandler(deps), requestTimeout))
	v1.Post("/analysis/batch", timeout.NewWithContext(BatchAnalysisHandler(deps), requestTimeout))

	// Reference datasets
	v1.Get("/stations", ListStationsHandler(deps))
	v1.Get("/landmarks", ListLandmarksHandler(deps))
	v1.Get("/map.geojson", MapGeoJSONHandler(deps))

	// GraphQL
	app.Post("/graphql", GraphQLHandler(deps))

	// API documentation (Swagger UI)
	SetupDocs(app, deps.DocsPath)

	// WebSocket click channel
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", websocket.New(WebSocketHandler(deps.Analysis)))
}
