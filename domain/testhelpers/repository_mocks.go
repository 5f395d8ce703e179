package testhelpers

import (
	"context"
	"time"

	"github.com/JGonCor/lottery-platform-sub001/domain/entities"
	"github.com/JGonCor/lottery-platform-sub001/domain/events"

	"github.com/stretchr/testify/mock"
)

// MockTicketRepository is a mock implementation of TicketRepository
type MockTicketRepository struct {
	mock.Mock
}

func (m *MockTicketRepository) CreateBatch(ctx context.Context, tickets []*entities.Ticket) error {
	args := m.Called(ctx, tickets)
	return args.Error(0)
}

func (m *MockTicketRepository) GetByID(ctx context.Context, id int64) (*entities.Ticket, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Ticket), args.Error(1)
}

func (m *MockTicketRepository) GetByIDForUpdate(ctx context.Context, id int64) (*entities.Ticket, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Ticket), args.Error(1)
}

func (m *MockTicketRepository) CountForEpoch(ctx context.Context, epochID int64) (int64, error) {
	args := m.Called(ctx, epochID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTicketRepository) ListForEpoch(ctx context.Context, epochID, afterID int64, limit int) ([]*entities.Ticket, error) {
	args := m.Called(ctx, epochID, afterID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Ticket), args.Error(1)
}

func (m *MockTicketRepository) RecordResult(ctx context.Context, ticketID int64, matchCount int) error {
	args := m.Called(ctx, ticketID, matchCount)
	return args.Error(0)
}

func (m *MockTicketRepository) MarkClaimed(ctx context.Context, ticketID int64, claimedAt time.Time) error {
	args := m.Called(ctx, ticketID, claimedAt)
	return args.Error(0)
}

func (m *MockTicketRepository) CountByMatch(ctx context.Context, epochID int64) (map[int]int64, error) {
	args := m.Called(ctx, epochID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int]int64), args.Error(1)
}

func (m *MockTicketRepository) ListUnrecordedWinners(ctx context.Context, epochID int64, matchCount int, limit int) ([]*entities.Ticket, error) {
	args := m.Called(ctx, epochID, matchCount, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Ticket), args.Error(1)
}

func (m *MockTicketRepository) SumUnclaimedPrizes(ctx context.Context, epochID int64) (int64, error) {
	args := m.Called(ctx, epochID)
	return args.Get(0).(int64), args.Error(1)
}

// MockDrawRepository is a mock implementation of DrawRepository
type MockDrawRepository struct {
	mock.Mock
}

func (m *MockDrawRepository) Create(ctx context.Context, draw *entities.Draw) error {
	args := m.Called(ctx, draw)
	return args.Error(0)
}

func (m *MockDrawRepository) GetByEpoch(ctx context.Context, epochID int64) (*entities.Draw, error) {
	args := m.Called(ctx, epochID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Draw), args.Error(1)
}

func (m *MockDrawRepository) GetByEpochForUpdate(ctx context.Context, epochID int64) (*entities.Draw, error) {
	args := m.Called(ctx, epochID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Draw), args.Error(1)
}

func (m *MockDrawRepository) GetByRequestIDForUpdate(ctx context.Context, requestID string) (*entities.Draw, error) {
	args := m.Called(ctx, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Draw), args.Error(1)
}

func (m *MockDrawRepository) IncrementPool(ctx context.Context, epochID int64, amount int64) error {
	args := m.Called(ctx, epochID, amount)
	return args.Error(0)
}

func (m *MockDrawRepository) SetAwaitingRandomness(ctx context.Context, epochID int64, requestID string, requestedAt time.Time) error {
	args := m.Called(ctx, epochID, requestID, requestedAt)
	return args.Error(0)
}

func (m *MockDrawRepository) ReplaceRequest(ctx context.Context, epochID int64, requestID string, requestedAt time.Time) error {
	args := m.Called(ctx, epochID, requestID, requestedAt)
	return args.Error(0)
}

func (m *MockDrawRepository) Finalize(ctx context.Context, draw *entities.Draw) error {
	args := m.Called(ctx, draw)
	return args.Error(0)
}

// MockTierResultRepository is a mock implementation of TierResultRepository
type MockTierResultRepository struct {
	mock.Mock
}

func (m *MockTierResultRepository) CreateForEpoch(ctx context.Context, results []*entities.TierResult) error {
	args := m.Called(ctx, results)
	return args.Error(0)
}

func (m *MockTierResultRepository) Get(ctx context.Context, epochID int64, matchCount int) (*entities.TierResult, error) {
	args := m.Called(ctx, epochID, matchCount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.TierResult), args.Error(1)
}

func (m *MockTierResultRepository) ListForEpoch(ctx context.Context, epochID int64) ([]*entities.TierResult, error) {
	args := m.Called(ctx, epochID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.TierResult), args.Error(1)
}

func (m *MockTierResultRepository) AdvanceRecordedWinners(ctx context.Context, epochID int64, matchCount int, count int64) error {
	args := m.Called(ctx, epochID, matchCount, count)
	return args.Error(0)
}

// MockWinnerRepository is a mock implementation of WinnerRepository
type MockWinnerRepository struct {
	mock.Mock
}

func (m *MockWinnerRepository) CreateBatch(ctx context.Context, winners []*entities.Winner) error {
	args := m.Called(ctx, winners)
	return args.Error(0)
}

func (m *MockWinnerRepository) ListByTier(ctx context.Context, epochID int64, matchCount int) ([]*entities.Winner, error) {
	args := m.Called(ctx, epochID, matchCount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Winner), args.Error(1)
}

// MockAdminActionRepository is a mock implementation of AdminActionRepository
type MockAdminActionRepository struct {
	mock.Mock
}

func (m *MockAdminActionRepository) Create(ctx context.Context, action *entities.PendingAdminAction) error {
	args := m.Called(ctx, action)
	return args.Error(0)
}

func (m *MockAdminActionRepository) Get(ctx context.Context, kind entities.AdminActionKind) (*entities.PendingAdminAction, error) {
	args := m.Called(ctx, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.PendingAdminAction), args.Error(1)
}

func (m *MockAdminActionRepository) Delete(ctx context.Context, kind entities.AdminActionKind) error {
	args := m.Called(ctx, kind)
	return args.Error(0)
}

// MockLotteryStateRepository is a mock implementation of LotteryStateRepository
type MockLotteryStateRepository struct {
	mock.Mock
}

func (m *MockLotteryStateRepository) Get(ctx context.Context) (*entities.LotteryState, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.LotteryState), args.Error(1)
}

func (m *MockLotteryStateRepository) GetForUpdate(ctx context.Context) (*entities.LotteryState, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.LotteryState), args.Error(1)
}

func (m *MockLotteryStateRepository) SetPaused(ctx context.Context, paused bool) error {
	args := m.Called(ctx, paused)
	return args.Error(0)
}

func (m *MockLotteryStateRepository) SetFeeRecipient(ctx context.Context, recipient string) error {
	args := m.Called(ctx, recipient)
	return args.Error(0)
}

func (m *MockLotteryStateRepository) SetAccumulatedJackpot(ctx context.Context, amount int64) error {
	args := m.Called(ctx, amount)
	return args.Error(0)
}

func (m *MockLotteryStateRepository) AdvanceEpoch(ctx context.Context, epochID int64, drawTime time.Time) error {
	args := m.Called(ctx, epochID, drawTime)
	return args.Error(0)
}

// MockReferralRepository is a mock implementation of ReferralRepository
type MockReferralRepository struct {
	mock.Mock
}

func (m *MockReferralRepository) Create(ctx context.Context, referral *entities.Referral) error {
	args := m.Called(ctx, referral)
	return args.Error(0)
}

func (m *MockReferralRepository) GetByAccount(ctx context.Context, account string) (*entities.Referral, error) {
	args := m.Called(ctx, account)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Referral), args.Error(1)
}

// MockTreasuryRepository is a mock implementation of TreasuryRepository
type MockTreasuryRepository struct {
	mock.Mock
}

func (m *MockTreasuryRepository) TransferIn(ctx context.Context, from string, amount int64) error {
	args := m.Called(ctx, from, amount)
	return args.Error(0)
}

func (m *MockTreasuryRepository) TransferOut(ctx context.Context, to string, amount int64) error {
	args := m.Called(ctx, to, amount)
	return args.Error(0)
}

func (m *MockTreasuryRepository) ReserveBalance(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTreasuryRepository) BalanceOf(ctx context.Context, account string) (int64, error) {
	args := m.Called(ctx, account)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTreasuryRepository) Deposit(ctx context.Context, account string, amount int64) error {
	args := m.Called(ctx, account, amount)
	return args.Error(0)
}

// MockEventPublisher is a mock implementation of EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) error {
	args := m.Called(event)
	return args.Error(0)
}

// MockRandomnessOracle is a mock implementation of RandomnessOracle
type MockRandomnessOracle struct {
	mock.Mock
}

func (m *MockRandomnessOracle) RequestRandomness(ctx context.Context, epochID int64) (string, error) {
	args := m.Called(ctx, epochID)
	return args.String(0), args.Error(1)
}
