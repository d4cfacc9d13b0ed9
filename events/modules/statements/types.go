// Package statements defines types for Kafka event processing of VEX statement change events.
package statements

import (
	"time"
)

// TopicStatementsChanged is the Kafka topic carrying statement changes
const TopicStatementsChanged = "vex.statements.changed"

// ChangedEvent represents a VEX statement change published to Kafka. One
// event covers all statements of a product touched by one operation.
type ChangedEvent struct {
	EventType     string    `json:"event_type"`
	EventID       string    `json:"event_id"`
	EventTime     time.Time `json:"event_time"`
	SchemaVersion string    `json:"schema_version"`

	ProductKey string `json:"product_key"`
	Org        string `json:"org"`

	// Action describes what happened: correlated, updated, bulk_updated,
	// or reachability
	Action string `json:"action"`

	StatementKeys []string `json:"statement_keys"`
}
