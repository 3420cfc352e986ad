package event

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/presssence/presssence-api/internal/config"
)

const (
	TopicPortfolioEvents = "portfolio.events"

	PortfolioCreated = "portfolio.created"
	PortfolioUpdated = "portfolio.updated"
)

type PortfolioEventPayload struct {
	EventType   string            `json:"event_type"`
	PortfolioID uuid.UUID         `json:"portfolio_id"`
	Username    string            `json:"username"`
	SocialLinks map[string]string `json:"social_links"`
	OccurredAt  time.Time         `json:"occurred_at"`
}

type KafkaProducerClient struct {
	PortfolioEventsWriter *kafka.Writer
}

func NewKafkaProducerClient(cfg config.Config) (*KafkaProducerClient, error) {
	brokers := cfg.Kafka.Brokers
	if len(brokers) == 0 {
		return nil, fmt.Errorf("config Kafka brokers not found")
	}

	portfolioWriter := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    TopicPortfolioEvents,
		Balancer: &kafka.LeastBytes{},
	}

	return &KafkaProducerClient{
		PortfolioEventsWriter: portfolioWriter,
	}, nil
}

func (c *KafkaProducerClient) PublishPortfolioEvent(ctx context.Context, payload PortfolioEventPayload) error {
	if payload.OccurredAt.IsZero() {
		payload.OccurredAt = time.Now().UTC()
	}

	value, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("cannot marshal portfolio event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(payload.PortfolioID.String()),
		Value: value,
	}
	if err := c.PortfolioEventsWriter.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("cannot publish portfolio event: %w", err)
	}
	return nil
}

func (c *KafkaProducerClient) Close() {
	if c.PortfolioEventsWriter != nil {
		c.PortfolioEventsWriter.Close()
	}
}
