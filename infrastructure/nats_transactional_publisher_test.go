package infrastructure

import (
	"context"
	"errors"
	"testing"

	"github.com/JGonCor/lottery-platform-sub001/domain/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockEventPublisher is a mock implementation of EventPublisher
type MockEventPublisher struct {
	PublishedEvents []events.Event
	PublishError    error
}

func (m *MockEventPublisher) Publish(event events.Event) error {
	if m.PublishError != nil {
		return m.PublishError
	}
	m.PublishedEvents = append(m.PublishedEvents, event)
	return nil
}

func TestNATSTransactionalPublisher_FlushPublishesQueuedEvents(t *testing.T) {
	// Create mock publisher
	mockPublisher := &MockEventPublisher{
		PublishedEvents: make([]events.Event, 0),
	}

	// Create transactional publisher
	transPublisher := NewNATSTransactionalPublisher(mockPublisher)

	purchased := events.TicketPurchasedEvent{
		EpochID:   7,
		Owner:     "alice",
		TicketIDs: []int64{1, 2},
		Quantity:  2,
		TotalPaid: 10_000_000,
	}
	claimed := events.PrizeClaimedEvent{
		EpochID:    7,
		TicketID:   1,
		Owner:      "alice",
		MatchCount: 4,
		Amount:     4_500_000,
	}

	// Publish events (they get queued)
	require.NoError(t, transPublisher.Publish(purchased))
	require.NoError(t, transPublisher.Publish(claimed))

	// Nothing reaches NATS before flush
	assert.Len(t, mockPublisher.PublishedEvents, 0)

	// Flush publishes everything in order
	require.NoError(t, transPublisher.Flush(context.Background()))
	require.Len(t, mockPublisher.PublishedEvents, 2)
	assert.Equal(t, purchased, mockPublisher.PublishedEvents[0])
	assert.Equal(t, claimed, mockPublisher.PublishedEvents[1])

	// The queue is cleared; a second flush publishes nothing
	require.NoError(t, transPublisher.Flush(context.Background()))
	assert.Len(t, mockPublisher.PublishedEvents, 2)
}

func TestNATSTransactionalPublisher_FlushContinuesPastPublishErrors(t *testing.T) {
	mockPublisher := &MockEventPublisher{
		PublishError: errors.New("stream unavailable"),
	}

	transPublisher := NewNATSTransactionalPublisher(mockPublisher)

	require.NoError(t, transPublisher.Publish(events.EmergencyPauseEvent{PausedBy: "admin"}))

	// Flush is best-effort after commit; errors are logged, not returned
	assert.NoError(t, transPublisher.Flush(context.Background()))
}

func TestNATSTransactionalPublisher_Discard(t *testing.T) {
	mockPublisher := &MockEventPublisher{
		PublishedEvents: make([]events.Event, 0),
	}

	transPublisher := NewNATSTransactionalPublisher(mockPublisher)

	require.NoError(t, transPublisher.Publish(events.TicketPurchasedEvent{
		EpochID: 7,
		Owner:   "bob",
	}))

	// Discard instead of flush
	transPublisher.Discard()

	// Nothing was published, and a later flush publishes nothing
	require.NoError(t, transPublisher.Flush(context.Background()))
	assert.Len(t, mockPublisher.PublishedEvents, 0)
}
