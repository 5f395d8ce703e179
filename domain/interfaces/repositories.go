package interfaces

import (
	"context"
	"time"

	"github.com/JGonCor/lottery-platform-sub001/domain/entities"
)

// TicketRepository defines the interface for the append-only ticket ledger
type TicketRepository interface {
	// CreateBatch inserts a batch of tickets for one purchase
	CreateBatch(ctx context.Context, tickets []*entities.Ticket) error

	// GetByID retrieves a ticket by its ID, nil if not found
	GetByID(ctx context.Context, id int64) (*entities.Ticket, error)

	// GetByIDForUpdate retrieves a ticket by ID with a row lock for update
	GetByIDForUpdate(ctx context.Context, id int64) (*entities.Ticket, error)

	// CountForEpoch returns the number of tickets admitted to an epoch
	CountForEpoch(ctx context.Context, epochID int64) (int64, error)

	// ListForEpoch pages through an epoch's tickets ordered by ID,
	// returning up to limit tickets with ID > afterID
	ListForEpoch(ctx context.Context, epochID, afterID int64, limit int) ([]*entities.Ticket, error)

	// RecordResult writes a ticket's match count exactly once;
	// ErrAlreadyScored on repeat
	RecordResult(ctx context.Context, ticketID int64, matchCount int) error

	// MarkClaimed flips a ticket's claimed flag exactly once;
	// ErrAlreadyClaimed on repeat
	MarkClaimed(ctx context.Context, ticketID int64, claimedAt time.Time) error

	// CountByMatch returns the winner count per match count for a scored epoch
	CountByMatch(ctx context.Context, epochID int64) (map[int]int64, error)

	// ListUnrecordedWinners returns up to limit tickets of an epoch with
	// the given match count that have no winner record yet, ordered by ID
	ListUnrecordedWinners(ctx context.Context, epochID int64, matchCount int, limit int) ([]*entities.Ticket, error)

	// SumUnclaimedPrizes returns the total per-winner amounts still
	// unclaimed for an epoch, joining tickets against tier results
	SumUnclaimedPrizes(ctx context.Context, epochID int64) (int64, error)
}

// DrawRepository defines the interface for draw lifecycle persistence.
// The draw state machine is the only component that mutates draws.
type DrawRepository interface {
	// Create opens a new draw for an epoch
	Create(ctx context.Context, draw *entities.Draw) error

	// GetByEpoch retrieves a draw by epoch ID, nil if not found
	GetByEpoch(ctx context.Context, epochID int64) (*entities.Draw, error)

	// GetByEpochForUpdate retrieves a draw with a row lock for update
	GetByEpochForUpdate(ctx context.Context, epochID int64) (*entities.Draw, error)

	// GetByRequestIDForUpdate resolves an oracle correlation ID to its draw
	// with a row lock, nil if no draw carries that request ID
	GetByRequestIDForUpdate(ctx context.Context, requestID string) (*entities.Draw, error)

	// IncrementPool atomically adds a purchase's stake to the draw's pool
	IncrementPool(ctx context.Context, epochID int64, amount int64) error

	// SetAwaitingRandomness freezes an open draw and records the oracle
	// request; fails if the draw is not open
	SetAwaitingRandomness(ctx context.Context, epochID int64, requestID string, requestedAt time.Time) error

	// ReplaceRequest swaps the outstanding oracle request of a parked draw
	ReplaceRequest(ctx context.Context, epochID int64, requestID string, requestedAt time.Time) error

	// Finalize persists a completed draw's winning numbers and pool breakdown
	Finalize(ctx context.Context, draw *entities.Draw) error
}

// TierResultRepository defines the interface for per-tier prize accounting
type TierResultRepository interface {
	// CreateForEpoch records all tier results of a finalized draw
	CreateForEpoch(ctx context.Context, results []*entities.TierResult) error

	// Get retrieves one tier result, nil if not found
	Get(ctx context.Context, epochID int64, matchCount int) (*entities.TierResult, error)

	// ListForEpoch returns all tier results of an epoch
	ListForEpoch(ctx context.Context, epochID int64) ([]*entities.TierResult, error)

	// AdvanceRecordedWinners moves the deferred winner-enumeration cursor
	AdvanceRecordedWinners(ctx context.Context, epochID int64, matchCount int, count int64) error
}

// WinnerRepository defines the interface for the enumerated winner ledger
type WinnerRepository interface {
	// CreateBatch records a batch of enumerated winners
	CreateBatch(ctx context.Context, winners []*entities.Winner) error

	// ListByTier returns enumerated winners for one tier of one epoch
	ListByTier(ctx context.Context, epochID int64, matchCount int) ([]*entities.Winner, error)
}

// AdminActionRepository defines the interface for pending timelock proposals
type AdminActionRepository interface {
	// Create stores a proposal; ErrAlreadyPending if the kind has one
	Create(ctx context.Context, action *entities.PendingAdminAction) error

	// Get retrieves the pending proposal of a kind, nil if none
	Get(ctx context.Context, kind entities.AdminActionKind) (*entities.PendingAdminAction, error)

	// Delete removes the pending proposal of a kind
	Delete(ctx context.Context, kind entities.AdminActionKind) error
}

// LotteryStateRepository defines the interface for the singleton lottery state
type LotteryStateRepository interface {
	// Get retrieves the current state
	Get(ctx context.Context) (*entities.LotteryState, error)

	// GetForUpdate retrieves the state with a row lock for update
	GetForUpdate(ctx context.Context) (*entities.LotteryState, error)

	// SetPaused toggles the pause flag
	SetPaused(ctx context.Context, paused bool) error

	// SetFeeRecipient changes the platform fee recipient
	SetFeeRecipient(ctx context.Context, recipient string) error

	// SetAccumulatedJackpot replaces the carried jackpot amount
	SetAccumulatedJackpot(ctx context.Context, amount int64) error

	// AdvanceEpoch moves ticket admission to a new epoch and records the
	// draw time that just fired
	AdvanceEpoch(ctx context.Context, epochID int64, drawTime time.Time) error
}

// ReferralRepository defines the interface for referral bookkeeping
type ReferralRepository interface {
	// Create registers a referral; ErrReferralExists if the account
	// already has a referrer
	Create(ctx context.Context, referral *entities.Referral) error

	// GetByAccount retrieves an account's referral record, nil if none
	GetByAccount(ctx context.Context, account string) (*entities.Referral, error)
}

// TreasuryRepository is the funds transfer gateway: a balance ledger with a
// reserve account backing prize solvency. Transfer failure must abort the
// enclosing operation.
type TreasuryRepository interface {
	// TransferIn moves stake from a player account into the reserve
	TransferIn(ctx context.Context, from string, amount int64) error

	// TransferOut pays from the reserve to a player account
	TransferOut(ctx context.Context, to string, amount int64) error

	// ReserveBalance returns the reserve's current balance
	ReserveBalance(ctx context.Context) (int64, error)

	// BalanceOf returns an account's balance
	BalanceOf(ctx context.Context, account string) (int64, error)

	// Deposit credits an account from outside the system
	Deposit(ctx context.Context, account string, amount int64) error
}
