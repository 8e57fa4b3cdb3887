package natsadapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/forworkyanika/BKK-Smart-Investment-Map/internal/core/domain"
	"github.com/forworkyanika/BKK-Smart-Investment-Map/internal/core/usecases"
	"github.com/forworkyanika/BKK-Smart-Investment-Map/internal/pkg/metrics"
)

// AnalysisRequest is the request payload. Omitting both coordinates selects
// the default location; a zero radius selects the default radius.
type AnalysisRequest struct {
	Lat    *float64 `json:"lat"`
	Lon    *float64 `json:"lon"`
	Radius float64  `json:"radius"`
}

// errorReply is sent back when a request cannot be answered.
type errorReply struct {
	Error string `json:"error"`
}

// Connect opens a NATS connection that keeps retrying in the background.
func Connect(url string) (*nats.Conn, error) {
	conn, err := nats.Connect(url,
		nats.Name("bkkmap-api"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	return conn, nil
}

// Responder answers analysis requests over NATS request/reply. It is
// stateless: nothing is published besides replies and nothing is stored.
type Responder struct {
	conn *nats.Conn
	svc  *usecases.AnalysisService
	sub  *nats.Subscription
}

// NewResponder creates a responder on an existing connection.
func NewResponder(conn *nats.Conn, svc *usecases.AnalysisService) *Responder {
	return &Responder{conn: conn, svc: svc}
}

// Start queue-subscribes to subject so replicas share the load.
func (r *Responder) Start(ctx context.Context, subject, queue string) error {
	sub, err := r.conn.QueueSubscribe(subject, queue, func(msg *nats.Msg) {
		if msg.Reply == "" {
			metrics.NATSRequests.WithLabelValues("no_reply").Inc()
			return
		}
		if err := msg.Respond(r.Reply(ctx, msg.Data)); err != nil {
			slog.Warn("nats respond failed", "subject", subject, "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("nats subscribe %s: %w", subject, err)
	}
	r.sub = sub
	slog.Info("nats responder started", "subject", subject, "queue", queue)
	return nil
}

// Reply computes the response payload for one request.
func (r *Responder) Reply(ctx context.Context, data []byte) []byte {
	var req AnalysisRequest
	if err := json.Unmarshal(data, &req); err != nil {
		metrics.NATSRequests.WithLabelValues("bad_request").Inc()
		return encodeError(errors.New("invalid JSON"))
	}

	query, err := req.point()
	if err != nil {
		metrics.NATSRequests.WithLabelValues("bad_request").Inc()
		return encodeError(err)
	}

	analysis, err := r.svc.Analyze(ctx, query, req.Radius)
	if err != nil {
		metrics.NATSRequests.WithLabelValues("error").Inc()
		return encodeError(err)
	}

	out, err := json.Marshal(analysis)
	if err != nil {
		metrics.NATSRequests.WithLabelValues("error").Inc()
		return encodeError(err)
	}
	metrics.NATSRequests.WithLabelValues("ok").Inc()
	return out
}

// Stop drains the subscription.
func (r *Responder) Stop() error {
	if r.sub == nil {
		return nil
	}
	return r.sub.Drain()
}

func (req AnalysisRequest) point() (domain.GeoPoint, error) {
	switch {
	case req.Lat == nil && req.Lon == nil:
		return domain.DefaultQueryLocation, nil
	case req.Lat == nil || req.Lon == nil:
		return domain.GeoPoint{}, errors.New("lat and lon must be given together")
	default:
		return domain.GeoPoint{Lat: *req.Lat, Lon: *req.Lon}, nil
	}
}

func encodeError(err error) []byte {
	b, _ := json.Marshal(errorReply{Error: err.Error()})
	return b
}
