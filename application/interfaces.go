package application

import (
	"context"
)

// RandomnessHandler is implemented by the application layer and called by the
// infrastructure layer when an oracle fulfillment arrives from NATS
type RandomnessHandler interface {
	// HandleRandomnessFulfilled consumes one oracle fulfillment
	HandleRandomnessFulfilled(ctx context.Context, requestID string, seed []byte) error
}
