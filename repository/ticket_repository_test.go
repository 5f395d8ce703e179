package repository

import (
	"context"
	"testing"
	"time"

	"github.com/JGonCor/lottery-platform-sub001/domain/entities"
	"github.com/JGonCor/lottery-platform-sub001/domain/services"
	"github.com/JGonCor/lottery-platform-sub001/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTicketRepository_CreateBatchAndGet(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewTicketRepository(testDB.DB)
	ctx := context.Background()

	tickets := []*entities.Ticket{
		testutil.CreateTestTicketWithNumbers(1, "alice", []int{3, 11, 19, 27, 35, 43}),
		testutil.CreateTestTicketWithNumbers(1, "alice", []int{1, 2, 3, 4, 5, 6}),
	}
	require.NoError(t, repo.CreateBatch(ctx, tickets))
	assert.NotZero(t, tickets[0].ID)
	assert.NotZero(t, tickets[1].ID)

	got, err := repo.GetByID(ctx, tickets[0].ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "alice", got.Owner)
	assert.Equal(t, []int{3, 11, 19, 27, 35, 43}, got.Numbers)
	assert.Equal(t, int64(5_000_000), got.PricePaid)
	assert.Nil(t, got.MatchCount)
	assert.False(t, got.Claimed)

	missing, err := repo.GetByID(ctx, 999999)
	require.NoError(t, err)
	assert.Nil(t, missing)

	count, err := repo.CountForEpoch(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestTicketRepository_RecordResult_WriteOnce(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewTicketRepository(testDB.DB)
	ctx := context.Background()

	ticket := testutil.CreateTestTicket(1, "alice")
	require.NoError(t, repo.CreateBatch(ctx, []*entities.Ticket{ticket}))

	require.NoError(t, repo.RecordResult(ctx, ticket.ID, 4))

	got, err := repo.GetByID(ctx, ticket.ID)
	require.NoError(t, err)
	require.NotNil(t, got.MatchCount)
	assert.Equal(t, 4, *got.MatchCount)

	// The recorded result is immutable.
	err = repo.RecordResult(ctx, ticket.ID, 6)
	assert.ErrorIs(t, err, services.ErrAlreadyScored)

	got, err = repo.GetByID(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, *got.MatchCount)
}

func TestTicketRepository_MarkClaimed_WriteOnce(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewTicketRepository(testDB.DB)
	ctx := context.Background()

	ticket := testutil.CreateTestTicket(1, "alice")
	require.NoError(t, repo.CreateBatch(ctx, []*entities.Ticket{ticket}))

	claimedAt := time.Now().UTC().Truncate(time.Microsecond)
	require.NoError(t, repo.MarkClaimed(ctx, ticket.ID, claimedAt))

	err := repo.MarkClaimed(ctx, ticket.ID, claimedAt.Add(time.Hour))
	assert.ErrorIs(t, err, services.ErrAlreadyClaimed)

	got, err := repo.GetByID(ctx, ticket.ID)
	require.NoError(t, err)
	assert.True(t, got.Claimed)
	require.NotNil(t, got.ClaimedAt)
	assert.WithinDuration(t, claimedAt, *got.ClaimedAt, time.Second)
}

func TestTicketRepository_ListForEpoch_Pagination(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewTicketRepository(testDB.DB)
	ctx := context.Background()

	var tickets []*entities.Ticket
	for i := 0; i < 5; i++ {
		tickets = append(tickets, testutil.CreateTestTicket(1, "alice"))
	}
	require.NoError(t, repo.CreateBatch(ctx, tickets))

	page1, err := repo.ListForEpoch(ctx, 1, 0, 2)
	require.NoError(t, err)
	require.Len(t, page1, 2)

	page2, err := repo.ListForEpoch(ctx, 1, page1[1].ID, 10)
	require.NoError(t, err)
	require.Len(t, page2, 3)

	// Pages are disjoint and ordered by ID.
	assert.Greater(t, page2[0].ID, page1[1].ID)

	empty, err := repo.ListForEpoch(ctx, 1, page2[2].ID, 10)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestTicketRepository_WinnerQueries(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	ticketRepo := NewTicketRepository(testDB.DB)
	winnerRepo := NewWinnerRepository(testDB.DB)
	tierRepo := NewTierResultRepository(testDB.DB)
	ctx := context.Background()

	tickets := []*entities.Ticket{
		testutil.CreateTestTicket(1, "alice"),
		testutil.CreateTestTicket(1, "bob"),
		testutil.CreateTestTicket(1, "carol"),
	}
	require.NoError(t, ticketRepo.CreateBatch(ctx, tickets))
	require.NoError(t, ticketRepo.RecordResult(ctx, tickets[0].ID, 3))
	require.NoError(t, ticketRepo.RecordResult(ctx, tickets[1].ID, 3))
	require.NoError(t, ticketRepo.RecordResult(ctx, tickets[2].ID, 0))

	counts, err := ticketRepo.CountByMatch(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts[3])
	assert.Equal(t, int64(1), counts[0])

	unrecorded, err := ticketRepo.ListUnrecordedWinners(ctx, 1, 3, 10)
	require.NoError(t, err)
	require.Len(t, unrecorded, 2)

	// Recording a winner removes its ticket from the unrecorded set.
	require.NoError(t, winnerRepo.CreateBatch(ctx, []*entities.Winner{{
		EpochID:    1,
		MatchCount: 3,
		TicketID:   tickets[0].ID,
		Owner:      "alice",
		Amount:     2_000_000,
	}}))

	unrecorded, err = ticketRepo.ListUnrecordedWinners(ctx, 1, 3, 10)
	require.NoError(t, err)
	require.Len(t, unrecorded, 1)
	assert.Equal(t, tickets[1].ID, unrecorded[0].ID)

	// Unclaimed prize total joins tickets against their tier results.
	require.NoError(t, tierRepo.CreateForEpoch(ctx, []*entities.TierResult{
		testutil.CreateTestTierResult(1, 3, 2, 4_000_000),
	}))

	total, err := ticketRepo.SumUnclaimedPrizes(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(4_000_000), total)

	require.NoError(t, ticketRepo.MarkClaimed(ctx, tickets[0].ID, time.Now().UTC()))

	total, err = ticketRepo.SumUnclaimedPrizes(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2_000_000), total)
}
