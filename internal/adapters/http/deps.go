package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"

	"github.com/forworkyanika/BKK-Smart-Investment-Map/internal/core/usecases"
)

// LimiterStorage is a shared rate-limit store that can report its health.
type LimiterStorage interface {
	fiber.Storage
	Ping(ctx context.Context) error
}

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Analysis  *usecases.AnalysisService
	NATS      *nats.Conn
	Limiter   LimiterStorage // nil keeps rate-limit counters in memory
	RateLimit RateLimit
	DocsPath  string
}

// RateLimit bounds requests per client IP within a window. Zero values fall
// back to 120 requests per minute.
type RateLimit struct {
	Max        int
	Expiration time.Duration
}
