package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// NATS subjects for the oracle randomness boundary
const (
	RandomnessRequestSubject   = "lottery.randomness.request"
	RandomnessFulfilledSubject = "lottery.randomness.fulfilled"
)

// randomnessRequest is the wire format of an outgoing oracle request
type randomnessRequest struct {
	RequestID   string    `json:"request_id"`
	EpochID     int64     `json:"epoch_id"`
	RequestedAt time.Time `json:"requested_at"`
}

// RandomnessFulfillment is the wire format of an incoming oracle fulfillment.
// Seed is base64-encoded on the wire via encoding/json.
type RandomnessFulfillment struct {
	RequestID string `json:"request_id"`
	Seed      []byte `json:"seed"`
}

// NATSRandomnessOracle implements the asynchronous randomness boundary over
// NATS. Requests are published with a fresh correlation ID; the matching
// fulfillment arrives later on its own subject.
type NATSRandomnessOracle struct {
	publisher MessagePublisher
}

// NewNATSRandomnessOracle creates a new NATS-backed randomness oracle
func NewNATSRandomnessOracle(publisher MessagePublisher) *NATSRandomnessOracle {
	return &NATSRandomnessOracle{
		publisher: publisher,
	}
}

// RequestRandomness publishes a randomness request for an epoch and returns
// the correlation ID the fulfillment must carry
func (o *NATSRandomnessOracle) RequestRandomness(ctx context.Context, epochID int64) (string, error) {
	request := randomnessRequest{
		RequestID:   uuid.New().String(),
		EpochID:     epochID,
		RequestedAt: time.Now().UTC(),
	}

	data, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("failed to marshal randomness request: %w", err)
	}

	if err := o.publisher.Publish(ctx, RandomnessRequestSubject, data); err != nil {
		return "", fmt.Errorf("failed to publish randomness request: %w", err)
	}

	log.WithFields(log.Fields{
		"requestId": request.RequestID,
		"epochId":   epochID,
	}).Info("Published randomness request")

	return request.RequestID, nil
}
