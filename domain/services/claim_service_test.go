package services

import (
	"context"
	"testing"
	"time"

	"github.com/JGonCor/lottery-platform-sub001/config"
	"github.com/JGonCor/lottery-platform-sub001/domain/entities"
	"github.com/JGonCor/lottery-platform-sub001/domain/testhelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type claimProcessorMocks struct {
	ticketRepo     *testhelpers.MockTicketRepository
	drawRepo       *testhelpers.MockDrawRepository
	tierResultRepo *testhelpers.MockTierResultRepository
	stateRepo      *testhelpers.MockLotteryStateRepository
	treasuryRepo   *testhelpers.MockTreasuryRepository
	eventPublisher *testhelpers.MockEventPublisher
}

func newClaimProcessorMocks() *claimProcessorMocks {
	return &claimProcessorMocks{
		ticketRepo:     new(testhelpers.MockTicketRepository),
		drawRepo:       new(testhelpers.MockDrawRepository),
		tierResultRepo: new(testhelpers.MockTierResultRepository),
		stateRepo:      new(testhelpers.MockLotteryStateRepository),
		treasuryRepo:   new(testhelpers.MockTreasuryRepository),
		eventPublisher: new(testhelpers.MockEventPublisher),
	}
}

func (m *claimProcessorMocks) processor(cfg *config.Config) *claimProcessor {
	return NewClaimProcessor(
		m.ticketRepo, m.drawRepo, m.tierResultRepo, m.stateRepo, m.treasuryRepo,
		m.eventPublisher, cfg,
	).(*claimProcessor)
}

func (m *claimProcessorMocks) assertExpectations(t *testing.T) {
	m.ticketRepo.AssertExpectations(t)
	m.drawRepo.AssertExpectations(t)
	m.tierResultRepo.AssertExpectations(t)
	m.stateRepo.AssertExpectations(t)
	m.treasuryRepo.AssertExpectations(t)
	m.eventPublisher.AssertExpectations(t)
}

func winningTicket(id int64, epochID int64, owner string, matchCount int) *entities.Ticket {
	return &entities.Ticket{
		ID:         id,
		EpochID:    epochID,
		Owner:      owner,
		Numbers:    []int{1, 2, 3, 4, 5, 6},
		MatchCount: &matchCount,
	}
}

func completedDraw(epochID int64, completedAt time.Time) *entities.Draw {
	return &entities.Draw{
		EpochID:     epochID,
		State:       entities.DrawStateCompleted,
		CompletedAt: &completedAt,
	}
}

func TestClaimProcessor_Claim_Success(t *testing.T) {
	config.SetTestConfig(config.NewTestConfig())
	defer config.ResetConfig()

	ctx := context.Background()
	mocks := newClaimProcessorMocks()
	processor := mocks.processor(config.Get())

	completedAt := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	now := completedAt.Add(24 * time.Hour)
	ticket := winningTicket(11, 2, "alice", 4)
	tier := &entities.TierResult{EpochID: 2, MatchCount: 4, WinnerCount: 3, PerWinnerAmount: 4_500_000}

	mocks.ticketRepo.On("GetByIDForUpdate", ctx, int64(11)).Return(ticket, nil)
	mocks.drawRepo.On("GetByEpoch", ctx, int64(2)).Return(completedDraw(2, completedAt), nil)
	mocks.tierResultRepo.On("Get", ctx, int64(2), 4).Return(tier, nil)
	mocks.treasuryRepo.On("ReserveBalance", ctx).Return(int64(100_000_000), nil)
	mocks.ticketRepo.On("MarkClaimed", ctx, int64(11), now).Return(nil)
	mocks.treasuryRepo.On("TransferOut", ctx, "alice", int64(4_500_000)).Return(nil)
	mocks.eventPublisher.On("Publish", mock.AnythingOfType("events.PrizeClaimedEvent")).Return(nil)

	result, err := processor.Claim(ctx, 11, "alice", now)

	require.NoError(t, err)
	assert.Equal(t, int64(4_500_000), result.Amount)
	assert.Equal(t, 4, result.MatchCount)
	assert.True(t, result.Ticket.Claimed)

	mocks.assertExpectations(t)
}

func TestClaimProcessor_Claim_RejectsNonOwner(t *testing.T) {
	config.SetTestConfig(config.NewTestConfig())
	defer config.ResetConfig()

	ctx := context.Background()
	mocks := newClaimProcessorMocks()
	processor := mocks.processor(config.Get())

	ticket := winningTicket(11, 2, "alice", 4)
	mocks.ticketRepo.On("GetByIDForUpdate", ctx, int64(11)).Return(ticket, nil)

	_, err := processor.Claim(ctx, 11, "mallory", time.Now().UTC())
	assert.ErrorIs(t, err, ErrNotOwner)
	mocks.treasuryRepo.AssertNotCalled(t, "TransferOut", mock.Anything, mock.Anything, mock.Anything)
	mocks.assertExpectations(t)
}

func TestClaimProcessor_Claim_RejectsSecondClaim(t *testing.T) {
	config.SetTestConfig(config.NewTestConfig())
	defer config.ResetConfig()

	ctx := context.Background()
	mocks := newClaimProcessorMocks()
	processor := mocks.processor(config.Get())

	ticket := winningTicket(11, 2, "alice", 4)
	ticket.Claimed = true
	mocks.ticketRepo.On("GetByIDForUpdate", ctx, int64(11)).Return(ticket, nil)

	_, err := processor.Claim(ctx, 11, "alice", time.Now().UTC())
	assert.ErrorIs(t, err, ErrAlreadyClaimed)
	mocks.treasuryRepo.AssertNotCalled(t, "TransferOut", mock.Anything, mock.Anything, mock.Anything)
	mocks.assertExpectations(t)
}

func TestClaimProcessor_Claim_RejectsNonWinner(t *testing.T) {
	config.SetTestConfig(config.NewTestConfig())
	defer config.ResetConfig()

	ctx := context.Background()
	mocks := newClaimProcessorMocks()
	processor := mocks.processor(config.Get())

	ticket := winningTicket(11, 2, "alice", 1)
	mocks.ticketRepo.On("GetByIDForUpdate", ctx, int64(11)).Return(ticket, nil)

	_, err := processor.Claim(ctx, 11, "alice", time.Now().UTC())
	assert.ErrorIs(t, err, ErrNotAWinner)
	mocks.assertExpectations(t)
}

func TestClaimProcessor_Claim_RejectsUnscoredTicket(t *testing.T) {
	config.SetTestConfig(config.NewTestConfig())
	defer config.ResetConfig()

	ctx := context.Background()
	mocks := newClaimProcessorMocks()
	processor := mocks.processor(config.Get())

	unscored := &entities.Ticket{ID: 12, EpochID: 2, Owner: "alice", Numbers: []int{1, 2, 3, 4, 5, 6}}
	mocks.ticketRepo.On("GetByIDForUpdate", ctx, int64(12)).Return(unscored, nil)

	_, err := processor.Claim(ctx, 12, "alice", time.Now().UTC())
	assert.ErrorIs(t, err, ErrNotAWinner)
	mocks.assertExpectations(t)
}

func TestClaimProcessor_Claim_RejectsExpiredWindow(t *testing.T) {
	config.SetTestConfig(config.NewTestConfig())
	defer config.ResetConfig()

	ctx := context.Background()
	mocks := newClaimProcessorMocks()
	processor := mocks.processor(config.Get())

	completedAt := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	ticket := winningTicket(11, 2, "alice", 4)

	mocks.ticketRepo.On("GetByIDForUpdate", ctx, int64(11)).Return(ticket, nil)
	mocks.drawRepo.On("GetByEpoch", ctx, int64(2)).Return(completedDraw(2, completedAt), nil)

	_, err := processor.Claim(ctx, 11, "alice", completedAt.Add(91*24*time.Hour))
	assert.ErrorIs(t, err, ErrClaimDeadlineExpired)
	mocks.ticketRepo.AssertNotCalled(t, "MarkClaimed", mock.Anything, mock.Anything, mock.Anything)
	mocks.assertExpectations(t)
}

func TestClaimProcessor_Claim_RejectsInsolventReserve(t *testing.T) {
	config.SetTestConfig(config.NewTestConfig())
	defer config.ResetConfig()

	ctx := context.Background()
	mocks := newClaimProcessorMocks()
	processor := mocks.processor(config.Get())

	completedAt := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	ticket := winningTicket(11, 2, "alice", 6)
	tier := &entities.TierResult{EpochID: 2, MatchCount: 6, WinnerCount: 1, PerWinnerAmount: 36_000_000}

	mocks.ticketRepo.On("GetByIDForUpdate", ctx, int64(11)).Return(ticket, nil)
	mocks.drawRepo.On("GetByEpoch", ctx, int64(2)).Return(completedDraw(2, completedAt), nil)
	mocks.tierResultRepo.On("Get", ctx, int64(2), 6).Return(tier, nil)
	mocks.treasuryRepo.On("ReserveBalance", ctx).Return(int64(1_000_000), nil)

	_, err := processor.Claim(ctx, 11, "alice", completedAt.Add(time.Hour))
	assert.ErrorIs(t, err, ErrInsufficientReserves)
	mocks.ticketRepo.AssertNotCalled(t, "MarkClaimed", mock.Anything, mock.Anything, mock.Anything)
	mocks.treasuryRepo.AssertNotCalled(t, "TransferOut", mock.Anything, mock.Anything, mock.Anything)
	mocks.assertExpectations(t)
}

func TestClaimProcessor_RecoverUnclaimed(t *testing.T) {
	config.SetTestConfig(config.NewTestConfig())
	defer config.ResetConfig()

	ctx := context.Background()
	completedAt := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	afterWindow := completedAt.Add(91 * 24 * time.Hour)

	t.Run("rejects non-admin", func(t *testing.T) {
		mocks := newClaimProcessorMocks()
		processor := mocks.processor(config.Get())

		_, err := processor.RecoverUnclaimed(ctx, 2, "mallory", afterWindow)
		assert.ErrorIs(t, err, ErrNotAuthorized)
	})

	t.Run("rejects open claim window", func(t *testing.T) {
		mocks := newClaimProcessorMocks()
		processor := mocks.processor(config.Get())

		mocks.drawRepo.On("GetByEpoch", ctx, int64(2)).Return(completedDraw(2, completedAt), nil)

		_, err := processor.RecoverUnclaimed(ctx, 2, "admin", completedAt.Add(30*24*time.Hour))
		assert.ErrorIs(t, err, ErrClaimWindowOpen)
	})

	t.Run("sweeps unclaimed prizes to fee recipient", func(t *testing.T) {
		mocks := newClaimProcessorMocks()
		processor := mocks.processor(config.Get())

		unclaimed := winningTicket(21, 2, "alice", 3)
		claimed := winningTicket(22, 2, "bob", 5)
		claimed.Claimed = true

		mocks.drawRepo.On("GetByEpoch", ctx, int64(2)).Return(completedDraw(2, completedAt), nil)
		mocks.ticketRepo.On("SumUnclaimedPrizes", ctx, int64(2)).Return(int64(7_500_000), nil)
		mocks.treasuryRepo.On("ReserveBalance", ctx).Return(int64(50_000_000), nil)
		mocks.stateRepo.On("Get", ctx).Return(&entities.LotteryState{FeeRecipient: "fee-recipient"}, nil)
		mocks.treasuryRepo.On("TransferOut", ctx, "fee-recipient", int64(7_500_000)).Return(nil)
		mocks.ticketRepo.On("ListForEpoch", ctx, int64(2), int64(0), 500).
			Return([]*entities.Ticket{unclaimed, claimed}, nil)
		mocks.ticketRepo.On("ListForEpoch", ctx, int64(2), int64(22), 500).
			Return([]*entities.Ticket{}, nil)
		// Only the unclaimed winner is swept; the claimed one is untouched.
		mocks.ticketRepo.On("MarkClaimed", ctx, int64(21), afterWindow).Return(nil)
		mocks.eventPublisher.On("Publish", mock.AnythingOfType("events.UnclaimedPrizeRecoveredEvent")).Return(nil)

		recovered, err := processor.RecoverUnclaimed(ctx, 2, "admin", afterWindow)

		require.NoError(t, err)
		assert.Equal(t, int64(7_500_000), recovered)
		mocks.assertExpectations(t)
	})

	t.Run("nothing to recover", func(t *testing.T) {
		mocks := newClaimProcessorMocks()
		processor := mocks.processor(config.Get())

		mocks.drawRepo.On("GetByEpoch", ctx, int64(2)).Return(completedDraw(2, completedAt), nil)
		mocks.ticketRepo.On("SumUnclaimedPrizes", ctx, int64(2)).Return(int64(0), nil)

		recovered, err := processor.RecoverUnclaimed(ctx, 2, "admin", afterWindow)

		require.NoError(t, err)
		assert.Equal(t, int64(0), recovered)
		mocks.treasuryRepo.AssertNotCalled(t, "TransferOut", mock.Anything, mock.Anything, mock.Anything)
	})
}
