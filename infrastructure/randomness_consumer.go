package infrastructure

import (
	"context"
	"fmt"
	"sync"

	"github.com/JGonCor/lottery-platform-sub001/application"

	log "github.com/sirupsen/logrus"
)

// MessageHandler defines a function that handles raw message bytes
type MessageHandler func(ctx context.Context, data []byte) error

// RandomnessConsumer manages the NATS subscription for oracle fulfillments
// and routes messages to the application layer
type RandomnessConsumer struct {
	natsClient *NATSClient
	listener   *RandomnessListener
	handlers   map[string]MessageHandler
	mu         sync.RWMutex

	// Context for graceful shutdown
	ctx    context.Context
	cancel context.CancelFunc
}

// NewRandomnessConsumer creates a new consumer with the fulfillment handler configured
func NewRandomnessConsumer(natsServers string, handler application.RandomnessHandler) *RandomnessConsumer {
	ctx, cancel := context.WithCancel(context.Background())

	// Create NATS client
	natsClient := NewNATSClient(natsServers)

	// Create fulfillment listener
	listener := NewRandomnessListener(handler)

	rc := &RandomnessConsumer{
		natsClient: natsClient,
		listener:   listener,
		handlers:   make(map[string]MessageHandler),
		ctx:        ctx,
		cancel:     cancel,
	}

	// Register the fulfillment handler
	rc.RegisterHandler(RandomnessFulfilledSubject, listener.HandleFulfillment)

	return rc
}

// RegisterHandler registers a handler for a specific subject pattern
func (rc *RandomnessConsumer) RegisterHandler(subject string, handler MessageHandler) {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	rc.handlers[subject] = handler
	log.WithField("subject", subject).Info("Registered message handler")
}

// Start begins consuming messages from all registered subjects
func (rc *RandomnessConsumer) Start(ctx context.Context) error {
	log.Info("Starting randomness consumer")

	// Connect to NATS
	if err := rc.natsClient.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to NATS: %w", err)
	}

	// Ensure required streams exist
	if err := rc.natsClient.EnsureRandomnessStream(); err != nil {
		return fmt.Errorf("failed to ensure randomness stream: %w", err)
	}

	// Subscribe to all registered subjects
	rc.mu.RLock()
	subjects := make([]string, 0, len(rc.handlers))
	for subject := range rc.handlers {
		subjects = append(subjects, subject)
	}
	rc.mu.RUnlock()

	// Subscribe to each subject
	for _, subject := range subjects {
		if err := rc.subscribe(subject); err != nil {
			return fmt.Errorf("failed to subscribe to %s: %w", subject, err)
		}
	}

	log.WithField("subjects", subjects).Info("Randomness consumer started and subscribed to subjects")

	// Wait for shutdown signal
	<-rc.ctx.Done()

	// Clean up
	return rc.natsClient.Close()
}

// Stop gracefully shuts down the consumer
func (rc *RandomnessConsumer) Stop() {
	log.Info("Stopping randomness consumer")
	rc.cancel()
}

// subscribe sets up a subscription for a specific subject
func (rc *RandomnessConsumer) subscribe(subject string) error {
	return rc.natsClient.Subscribe(subject, func(data []byte) error {
		rc.mu.RLock()
		handler, exists := rc.handlers[subject]
		rc.mu.RUnlock()

		if !exists {
			return fmt.Errorf("no handler registered for subject: %s", subject)
		}

		// Create a new context for this message
		ctx := context.Background()

		// Handle the message
		if err := handler(ctx, data); err != nil {
			log.WithFields(log.Fields{
				"subject": subject,
				"error":   err,
			}).Error("Failed to handle message")
			return err
		}

		return nil
	})
}
