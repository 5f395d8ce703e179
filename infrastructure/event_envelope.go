package infrastructure

import (
	"encoding/json"
	"time"
)

// EventEnvelope wraps every event published to NATS with routing metadata.
// The payload stays opaque JSON so consumers deserialize it by event type.
type EventEnvelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	Timestamp     time.Time       `json:"timestamp"`
	SourceService string          `json:"source_service"`
	Payload       json.RawMessage `json:"payload"`
}
