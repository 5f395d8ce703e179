package repository

import (
	"context"
	"sync"
	"testing"

	"github.com/JGonCor/lottery-platform-sub001/domain/entities"
	"github.com/JGonCor/lottery-platform-sub001/domain/events"
	"github.com/JGonCor/lottery-platform-sub001/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingPublisher buffers events like the NATS transactional publisher
// but records flush/discard calls for assertions.
type recordingPublisher struct {
	mu        sync.Mutex
	buffered  []events.Event
	flushed   []events.Event
	discarded bool
}

func (p *recordingPublisher) Publish(event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.buffered = append(p.buffered, event)
	return nil
}

func (p *recordingPublisher) Flush(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.flushed = append(p.flushed, p.buffered...)
	p.buffered = nil
	return nil
}

func (p *recordingPublisher) Discard() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.buffered = nil
	p.discarded = true
}

func TestUnitOfWork_CommitPersistsAndFlushesEvents(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	publisher := &recordingPublisher{}
	uow := CreateTestUnitOfWork(testDB.DB, publisher)

	require.NoError(t, uow.Begin(ctx))

	ticket := testutil.CreateTestTicket(1, "alice")
	require.NoError(t, uow.TicketRepository().CreateBatch(ctx, []*entities.Ticket{ticket}))

	require.NoError(t, uow.EventBus().Publish(events.TicketPurchasedEvent{
		EpochID:  1,
		Owner:    "alice",
		Quantity: 1,
	}))

	require.NoError(t, uow.Commit())

	assert.Len(t, publisher.flushed, 1)
	assert.False(t, publisher.discarded)

	// The row survives the transaction.
	repo := NewTicketRepository(testDB.DB)
	count, err := repo.CountForEpoch(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestUnitOfWork_RollbackDiscardsWritesAndEvents(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	publisher := &recordingPublisher{}
	uow := CreateTestUnitOfWork(testDB.DB, publisher)

	require.NoError(t, uow.Begin(ctx))

	ticket := testutil.CreateTestTicket(1, "bob")
	require.NoError(t, uow.TicketRepository().CreateBatch(ctx, []*entities.Ticket{ticket}))

	require.NoError(t, uow.EventBus().Publish(events.TicketPurchasedEvent{
		EpochID:  1,
		Owner:    "bob",
		Quantity: 1,
	}))

	require.NoError(t, uow.Rollback())

	assert.Empty(t, publisher.flushed)
	assert.True(t, publisher.discarded)

	repo := NewTicketRepository(testDB.DB)
	count, err := repo.CountForEpoch(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestUnitOfWork_AccessBeforeBeginPanics(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	uow := CreateTestUnitOfWork(testDB.DB, &recordingPublisher{})

	assert.Panics(t, func() {
		uow.TicketRepository()
	})
}
