package events

import (
	"context"
	"encoding/json"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/stepfree-maps/service-routing/internal/domain/geo"
	"github.com/stepfree-maps/service-routing/internal/domain/poi"
)

// TopicPOIEvents carries curated point-of-interest events from the content
// pipeline.
const TopicPOIEvents = "places.poi-events"

// EventPOICreated announces a newly curated point of interest.
const EventPOICreated = "places.poi.created"

// POICreatedEvent is the payload of an EventPOICreated message.
type POICreatedEvent struct {
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Lon      float64 `json:"lon"`
	Lat      float64 `json:"lat"`
}

// POIEventConsumer mirrors curated points of interest announced on the
// content topic into the local store, where the via selector picks them up.
type POIEventConsumer struct {
	reader *kafkago.Reader
	repo   poi.Repository
	logger *zap.Logger
}

// NewPOIEventConsumer creates a new POIEventConsumer.
func NewPOIEventConsumer(brokers []string, groupID string, repo poi.Repository, logger *zap.Logger) *POIEventConsumer {
	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers: brokers,
		GroupID: groupID,
		Topic:   TopicPOIEvents,
	})
	return &POIEventConsumer{
		reader: reader,
		repo:   repo,
		logger: logger,
	}
}

// Start consumes poi events until the context is cancelled.
func (c *POIEventConsumer) Start(ctx context.Context) error {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		if err := c.handleMessage(ctx, msg); err != nil {
			c.logger.Error("failed to handle poi event",
				zap.Int64("offset", msg.Offset),
				zap.Error(err),
			)
		}
	}
}

// Close closes the underlying Kafka reader.
func (c *POIEventConsumer) Close() error {
	return c.reader.Close()
}

func (c *POIEventConsumer) handleMessage(ctx context.Context, msg kafkago.Message) error {
	var cloudEvent CloudEvent
	if err := json.Unmarshal(msg.Value, &cloudEvent); err != nil {
		c.logger.Error("failed to parse cloud event from poi topic",
			zap.Error(err),
			zap.String("raw", string(msg.Value)),
		)
		return nil // Don't retry malformed messages
	}

	switch cloudEvent.Type {
	case EventPOICreated:
		return c.handlePOICreated(ctx, cloudEvent)
	default:
		c.logger.Debug("ignoring unhandled poi event type",
			zap.String("type", cloudEvent.Type),
		)
		return nil
	}
}

func (c *POIEventConsumer) handlePOICreated(ctx context.Context, cloudEvent CloudEvent) error {
	var evt POICreatedEvent
	if err := json.Unmarshal(cloudEvent.Data, &evt); err != nil {
		c.logger.Error("failed to parse POICreatedEvent data",
			zap.Error(err),
		)
		return nil // Don't retry malformed data
	}

	p, err := poi.New(evt.Name, evt.Category, geo.Point{Lon: evt.Lon, Lat: evt.Lat})
	if err != nil {
		c.logger.Warn("skipping invalid poi event",
			zap.String("name", evt.Name),
			zap.Error(err),
		)
		return nil
	}
	if err := c.repo.Save(ctx, p); err != nil {
		return err
	}

	c.logger.Info("curated poi imported",
		zap.String("id", p.ID.String()),
		zap.String("name", p.Name),
	)
	return nil
}
