package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/forworkyanika/BKK-Smart-Investment-Map/internal/adapters/http"
	natsadapter "github.com/forworkyanika/BKK-Smart-Investment-Map/internal/adapters/nats"
	"github.com/forworkyanika/BKK-Smart-Investment-Map/internal/adapters/valkey"
	"github.com/forworkyanika/BKK-Smart-Investment-Map/internal/core/dataset"
	"github.com/forworkyanika/BKK-Smart-Investment-Map/internal/core/usecases"
	"github.com/forworkyanika/BKK-Smart-Investment-Map/internal/pkg/config"
	"github.com/forworkyanika/BKK-Smart-Investment-Map/internal/pkg/geospatial"
	"github.com/forworkyanika/BKK-Smart-Investment-Map/internal/pkg/logging"
	"github.com/forworkyanika/BKK-Smart-Investment-Map/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load("bkkmap-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// Structured logging
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.Endpoint)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	// Use cases over the built-in reference data
	data := dataset.Static{}
	valuationSvc, err := usecases.NewValuationService(data, geospatial.UTM47N, cfg.Valuation)
	if err != nil {
		log.Fatalf("valuation service: %v", err)
	}
	landmarkSvc, err := usecases.NewLandmarkService(data, geospatial.UTM47N, cfg.Landmarks.RadiusMeters)
	if err != nil {
		log.Fatalf("landmark service: %v", err)
	}
	analysisSvc := usecases.NewAnalysisService(valuationSvc, landmarkSvc)

	deps := &http.Dependencies{
		Analysis: analysisSvc,
		RateLimit: http.RateLimit{
			Max:        cfg.RateLimit.Max,
			Expiration: time.Duration(cfg.RateLimit.Expiration) * time.Second,
		},
		DocsPath: cfg.Server.DocsPath,
	}

	// Shared rate-limit storage
	if cfg.Valkey.Addr != "" {
		store, err := valkey.New(cfg.Valkey.Addr)
		if err != nil {
			slog.Warn("valkey unavailable, rate limiting in memory", "error", err)
		} else {
			defer store.Close()
			deps.Limiter = store
		}
	}

	// NATS request/reply
	if cfg.NATS.Enabled {
		nc, err := natsadapter.Connect(cfg.NATS.URL)
		if err != nil {
			slog.Warn("nats unavailable", "error", err)
		} else {
			defer nc.Close()
			deps.NATS = nc

			responder := natsadapter.NewResponder(nc, analysisSvc)
			if err := responder.Start(ctx, cfg.NATS.Subject, cfg.NATS.Queue); err != nil {
				slog.Warn("nats responder failed", "error", err)
			} else {
				defer responder.Stop()
			}
		}
	}

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    1024 * 1024, // 1 MB max request body
		AppName:      "BKK Smart Investment Map API",
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "*",
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept",
		AllowCredentials: false,
		MaxAge:           3600,
	}))

	http.SetupRoutes(app, deps)

	slog.Info("reference data loaded",
		"stations", len(valuationSvc.Stations()),
		"landmarks", len(landmarkSvc.Landmarks()),
		"default_radius_m", landmarkSvc.DefaultRadius(),
	)

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	// Give in-flight requests up to 10s to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}
