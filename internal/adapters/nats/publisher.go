package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/nearmeconnect/internal/core/domain"
	"github.com/samirrijal/nearmeconnect/internal/pkg/metrics"
)

// RequestSubject is the subject carrying request events for one provider.
func RequestSubject(providerID int64) string {
	return "nearme.requests." + strconv.FormatInt(providerID, 10)
}

// ReviewSubject is the subject carrying review events for one provider.
func ReviewSubject(providerID int64) string {
	return "nearme.reviews." + strconv.FormatInt(providerID, 10)
}

// Streams are the JetStream streams the publisher ensures on startup.
var Streams = []nats.StreamConfig{
	{
		Name:      "SERVICE_REQUESTS",
		Subjects:  []string{"nearme.requests.>"},
		Retention: nats.LimitsPolicy,
		MaxAge:    7 * 24 * time.Hour,
		Storage:   nats.FileStorage,
	},
	{
		Name:      "REVIEWS",
		Subjects:  []string{"nearme.reviews.>"},
		Retention: nats.LimitsPolicy,
		MaxAge:    7 * 24 * time.Hour,
		Storage:   nats.FileStorage,
	},
}

// Publisher implements ports.EventPublisher using NATS JetStream.
type Publisher struct {
	conn *nats.Conn
	js   nats.JetStreamContext
}

// NewPublisher connects to NATS and enables JetStream.
func NewPublisher(url string) (*Publisher, error) {
	conn, err := RawConn(url)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("jetstream: %w", err)
	}

	for _, cfg := range Streams {
		cfg := cfg
		if _, err := js.AddStream(&cfg); err != nil {
			// Stream may already exist, try update
			if _, err := js.UpdateStream(&cfg); err != nil {
				conn.Close()
				return nil, fmt.Errorf("ensure stream %s: %w", cfg.Name, err)
			}
		}
	}

	return &Publisher{conn: conn, js: js}, nil
}

func (p *Publisher) PublishRequestEvent(ctx context.Context, event *domain.RequestEvent) error {
	return p.publish(ctx, "requests", RequestSubject(event.Request.ProviderID), event)
}

func (p *Publisher) PublishReviewEvent(ctx context.Context, event *domain.ReviewEvent) error {
	return p.publish(ctx, "reviews", ReviewSubject(event.Review.ProviderID), event)
}

func (p *Publisher) publish(ctx context.Context, kind, subject string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = p.js.Publish(subject, data, nats.Context(ctx))
	result := "ok"
	if err != nil {
		result = "error"
	}
	metrics.EventsPublished.WithLabelValues(kind, result).Inc()
	return err
}

// Conn exposes the underlying connection for health checks and subscribers.
func (p *Publisher) Conn() *nats.Conn {
	return p.conn
}

// Close drains and closes the connection.
func (p *Publisher) Close() {
	_ = p.conn.Drain()
}

// RawConn creates a plain NATS connection with reconnect enabled.
func RawConn(url string) (*nats.Conn, error) {
	return nats.Connect(url,
		nats.Name("nearmeconnect"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
}
