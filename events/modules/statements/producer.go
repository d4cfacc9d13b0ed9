// Package statements handles Kafka event production for VEX statement change events.
package statements

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

// Producer handles sending statement change events to Kafka
type Producer struct {
	Writer *kafka.Writer
}

// NewProducer initializes a new Kafka writer for statement events
func NewProducer(brokers []string, topic string) *Producer {
	return &Producer{
		Writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
	}
}

// PublishStatementsChanged sends the event to the Kafka topic
func (p *Producer) PublishStatementsChanged(ctx context.Context, productKey, org, action string, statementKeys []string) error {
	event := ChangedEvent{
		EventType:     "vex.statements.changed",
		EventID:       uuid.New().String(),
		EventTime:     time.Now().UTC(),
		SchemaVersion: "v1",
		ProductKey:    productKey,
		Org:           org,
		Action:        action,
		StatementKeys: statementKeys,
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	// Keyed by product so one product's changes stay ordered
	return p.Writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(productKey),
		Value: payload,
	})
}

// Close cleans up the Kafka writer
func (p *Producer) Close() error {
	return p.Writer.Close()
}
