package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

// HealthHandler returns a basic liveness check.
func HealthHandler(deps *Dependencies) fiber.Handler {
	startedAt := time.Now()

	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"uptime":  time.Since(startedAt).String(),
			"version": "dev",
		})
	}
}

// ReadyHandler checks that the reference datasets are loaded and that the
// optional NATS and Valkey backends are reachable when configured.
func ReadyHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.Context(), 3*time.Second)
		defer cancel()

		checks := make(map[string]string)
		allOK := true

		// Reference datasets
		if deps.Analysis == nil {
			checks["datasets"] = "not configured"
			allOK = false
		} else {
			stations := len(deps.Analysis.Valuation().Stations())
			landmarks := len(deps.Analysis.Landmarks().Landmarks())
			if stations == 0 || landmarks == 0 {
				checks["datasets"] = "empty"
				allOK = false
			} else {
				checks["datasets"] = "ok"
			}
		}

		// NATS
		if deps.NATS != nil {
			if deps.NATS.IsConnected() {
				checks["nats"] = "ok"
			} else {
				checks["nats"] = "disconnected"
				allOK = false
			}
		} else {
			checks["nats"] = "not configured"
		}

		// Valkey limiter storage
		if deps.Limiter != nil {
			if err := deps.Limiter.Ping(ctx); err != nil {
				checks["valkey"] = "error: " + err.Error()
				allOK = false
			} else {
				checks["valkey"] = "ok"
			}
		} else {
			checks["valkey"] = "not configured"
		}

		status := "ready"
		code := 200
		if !allOK {
			status = "not ready"
			code = 503
		}

		return c.Status(code).JSON(fiber.Map{
			"status": status,
			"checks": checks,
		})
	}
}
