// Package events publishes route-planning outcomes to Kafka for downstream
// analytics. Publishing is fire-and-forget; a failed publish never fails a
// route request.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// TopicRouteEvents is the topic carrying route-planning events.
const TopicRouteEvents = "routing.route-events"

// Event types.
const (
	EventRoutePlanned = "routing.route.planned"
)

// eventSource identifies this service in event envelopes.
const eventSource = "service-routing"

// CloudEvent is the envelope wrapping every published event.
type CloudEvent struct {
	ID     string          `json:"id"`
	Type   string          `json:"type"`
	Source string          `json:"source"`
	Time   time.Time       `json:"time"`
	Data   json.RawMessage `json:"data"`
}

// RoutePlannedEvent describes one completed route-planning request.
type RoutePlannedEvent struct {
	RequestID   string  `json:"request_id"`
	Flow        string  `json:"flow"` // "scenic" or "accessible"
	Compliant   bool    `json:"compliant"`
	Tries       int     `json:"tries"`
	ViaCount    int     `json:"via_count"`
	MaxAngleDeg float64 `json:"max_angle_deg"`
	DistanceM   int     `json:"distance_m"`
	DurationS   int     `json:"duration_s"`
}

// Publisher writes route events to Kafka. A nil Publisher is a no-op, so
// callers need no branching when eventing is disabled.
type Publisher struct {
	writer *kafkago.Writer
	logger *zap.Logger
}

// NewPublisher creates a Publisher for the given brokers. Returns nil when
// no brokers are configured.
func NewPublisher(brokers []string, logger *zap.Logger) *Publisher {
	if len(brokers) == 0 {
		return nil
	}
	return &Publisher{
		writer: &kafkago.Writer{
			Addr:         kafkago.TCP(brokers...),
			Topic:        TopicRouteEvents,
			Balancer:     &kafkago.LeastBytes{},
			RequiredAcks: kafkago.RequireOne,
		},
		logger: logger,
	}
}

// RoutePlanned publishes a RoutePlannedEvent.
func (p *Publisher) RoutePlanned(ctx context.Context, evt RoutePlannedEvent) {
	if p == nil {
		return
	}
	data, err := json.Marshal(evt)
	if err != nil {
		p.logger.Error("failed to marshal route planned event", zap.Error(err))
		return
	}
	envelope := CloudEvent{
		ID:     uuid.NewString(),
		Type:   EventRoutePlanned,
		Source: eventSource,
		Time:   time.Now().UTC(),
		Data:   data,
	}
	value, err := json.Marshal(envelope)
	if err != nil {
		p.logger.Error("failed to marshal event envelope", zap.Error(err))
		return
	}

	if err := p.writer.WriteMessages(ctx, kafkago.Message{
		Key:   []byte(evt.RequestID),
		Value: value,
	}); err != nil {
		p.logger.Error("failed to publish route planned event",
			zap.String("request_id", evt.RequestID),
			zap.Error(err),
		)
	}
}

// Close closes the underlying Kafka writer.
func (p *Publisher) Close() error {
	if p == nil {
		return nil
	}
	return p.writer.Close()
}
