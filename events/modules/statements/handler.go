// Package statements handles Kafka event processing for VEX statement change events.
package statements

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
)

// ScoreService defines the interface for score recompute operations.
type ScoreService interface {
	Recompute(ctx context.Context, productKey string) error
}

// HandleStatementsChanged processes statement change events from Kafka,
// driving the compliance and risk recompute for the affected product.
func HandleStatementsChanged(ctx context.Context, msg []byte, service ScoreService) error {
	var event ChangedEvent
	if err := json.Unmarshal(msg, &event); err != nil {
		return fmt.Errorf("failed to unmarshal ChangedEvent: %w", err)
	}

	if event.ProductKey == "" {
		return fmt.Errorf("invalid event: missing product key")
	}

	log.Printf("Processing %s event for product %s (%d statements)",
		event.Action, event.ProductKey, len(event.StatementKeys))

	if err := service.Recompute(ctx, event.ProductKey); err != nil {
		return fmt.Errorf("internal service error: %w", err)
	}

	return nil
}
