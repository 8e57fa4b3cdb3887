package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"

	"github.com/forworkyanika/BKK-Smart-Investment-Map/internal/core/domain"
	"github.com/forworkyanika/BKK-Smart-Investment-Map/internal/core/usecases"
	"github.com/forworkyanika/BKK-Smart-Investment-Map/internal/pkg/logging"
	"github.com/forworkyanika/BKK-Smart-Investment-Map/internal/pkg/metrics"
)

const (
	wsPingInterval    = 30 * time.Second
	wsAnalysisTimeout = 5 * time.Second
)

// clickMessage is sent by the client for every map click.
type clickMessage struct {
	Lat    *float64 `json:"lat"`
	Lon    *float64 `json:"lon"`
	Radius float64  `json:"radius"` // meters, 0 = default
}

// WebSocketHandler returns a handler for the map click channel. Each
// {"lat":..,"lon":..,"radius":..} message is answered with the Analysis for
// that point, or {"error": "..."}. Messages are handled in order.
func WebSocketHandler(svc *usecases.AnalysisService) func(*websocket.Conn) {
	return func(c *websocket.Conn) {
		defer c.Close()

		metrics.ActiveWebSockets.Inc()
		defer metrics.ActiveWebSockets.Dec()

		// Clicks are logged under the upgrade request's ID.
		logger := slog.Default().With("remote", c.RemoteAddr().String())
		if rid, ok := c.Locals("requestid").(string); ok && rid != "" {
			logger = logger.With("request_id", rid)
		}
		connCtx := logging.WithLogger(context.Background(), logger)
		logger.Info("ws client connected")

		var mu sync.Mutex

		// Helper: thread-safe write
		writeJSON := func(v interface{}) error {
			data, err := json.Marshal(v)
			if err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			return c.WriteMessage(websocket.TextMessage, data)
		}
		writeError := func(msg string) {
			_ = writeJSON(map[string]string{"error": msg})
		}

		// Keep-alive ping
		done := make(chan struct{})
		go func() {
			ticker := time.NewTicker(wsPingInterval)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					mu.Lock()
					err := c.WriteMessage(websocket.PingMessage, nil)
					mu.Unlock()
					if err != nil {
						return
					}
				case <-done:
					return
				}
			}
		}()

		for {
			_, msg, err := c.ReadMessage()
			if err != nil {
				break
			}

			var m clickMessage
			if err := json.Unmarshal(msg, &m); err != nil {
				writeError("invalid JSON")
				continue
			}

			q := domain.DefaultQueryLocation
			switch {
			case m.Lat == nil && m.Lon == nil:
			case m.Lat == nil || m.Lon == nil:
				writeError("lat and lon must be given together")
				continue
			default:
				q = domain.GeoPoint{Lat: *m.Lat, Lon: *m.Lon}
			}
			if m.Radius != 0 {
				if err := checkRadius(m.Radius); err != nil {
					writeError(err.Error())
					continue
				}
			}

			ctx, cancel := context.WithTimeout(connCtx, wsAnalysisTimeout)
			a, err := svc.Analyze(ctx, q, m.Radius)
			cancel()
			if err != nil {
				writeError(err.Error())
				continue
			}
			if err := writeJSON(a); err != nil {
				break
			}
		}

		close(done)
		logger.Info("ws client disconnected")
	}
}
