package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/JGonCor/lottery-platform-sub001/application"
	"github.com/JGonCor/lottery-platform-sub001/infrastructure/observability"

	log "github.com/sirupsen/logrus"
)

// RandomnessListener decodes oracle fulfillment messages and hands them to
// the application layer
type RandomnessListener struct {
	handler application.RandomnessHandler
}

// NewRandomnessListener creates a new randomness listener
func NewRandomnessListener(handler application.RandomnessHandler) *RandomnessListener {
	return &RandomnessListener{
		handler: handler,
	}
}

// HandleFulfillment processes an oracle fulfillment message from NATS
func (l *RandomnessListener) HandleFulfillment(ctx context.Context, data []byte) error {
	var fulfillment RandomnessFulfillment
	if err := json.Unmarshal(data, &fulfillment); err != nil {
		return fmt.Errorf("failed to unmarshal randomness fulfillment: %w", err)
	}

	if fulfillment.RequestID == "" {
		log.Warn("Dropping randomness fulfillment without request ID")
		return nil
	}
	if len(fulfillment.Seed) == 0 {
		log.WithField("requestId", fulfillment.RequestID).Warn("Dropping randomness fulfillment with empty seed")
		return nil
	}

	observability.GetMetrics().RecordNATSMessageReceived("randomness_fulfilled")
	log.WithFields(log.Fields{
		"requestId": fulfillment.RequestID,
		"seedBytes": len(fulfillment.Seed),
	}).Debug("Processing randomness fulfillment")

	return l.handler.HandleRandomnessFulfilled(ctx, fulfillment.RequestID, fulfillment.Seed)
}
