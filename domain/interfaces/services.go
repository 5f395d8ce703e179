package interfaces

import (
	"context"
	"time"

	"github.com/JGonCor/lottery-platform-sub001/domain/entities"
	"github.com/JGonCor/lottery-platform-sub001/domain/events"
)

// EventPublisher defines the interface for publishing domain events
type EventPublisher interface {
	// Publish publishes an event
	Publish(event events.Event) error
}

// TransactionalEventPublisher buffers events during a transaction and
// publishes them only after commit
type TransactionalEventPublisher interface {
	EventPublisher

	// Flush publishes all buffered events after a successful commit
	Flush(ctx context.Context) error

	// Discard drops all buffered events on rollback
	Discard()
}

// RandomnessOracle is the opaque asynchronous randomness boundary. The core
// submits a request and later receives one fulfillment carrying the matching
// correlation ID; it has no control over timing.
type RandomnessOracle interface {
	// RequestRandomness submits a randomness request for an epoch and
	// returns the correlation ID the fulfillment must carry
	RequestRandomness(ctx context.Context, epochID int64) (string, error)
}

// PurchaseResult summarizes a completed ticket purchase
type PurchaseResult struct {
	Tickets     []*entities.Ticket
	TotalPaid   int64
	DiscountBps int
	Draw        *entities.Draw
}

// DrawResult summarizes a finalized draw
type DrawResult struct {
	Draw          *entities.Draw
	TierResults   []*entities.TierResult
	TicketsScored int64
}

// ClaimResult summarizes a successful prize claim
type ClaimResult struct {
	Ticket     *entities.Ticket
	MatchCount int
	Amount     int64
}

// LotteryService defines the draw/ticket/prize engine: ticket admission, the
// draw state machine, randomness consumption, scoring, and the read surface
type LotteryService interface {
	// PurchaseTickets validates and admits a batch of tickets for the
	// current epoch, collecting the discounted stake into the pool
	PurchaseTickets(ctx context.Context, owner string, numberSets [][]int) (*PurchaseResult, error)

	// TriggerDrawIfDue fires the OPEN -> AWAITING_RANDOMNESS transition if
	// the draw interval has elapsed; returns true if a draw was triggered
	TriggerDrawIfDue(ctx context.Context, now time.Time) (bool, error)

	// TriggerDraw fires the transition unconditionally (manual admin draw)
	TriggerDraw(ctx context.Context, now time.Time) error

	// HandleRandomness consumes an oracle fulfillment: generates winning
	// numbers, scores every ticket of the epoch, and computes tier pots in
	// one atomic step
	HandleRandomness(ctx context.Context, requestID string, seed []byte) (*DrawResult, error)

	// ProcessWinnerBacklog resumes deferred winner enumeration for a tier,
	// processing at most limit winners; returns the number processed
	ProcessWinnerBacklog(ctx context.Context, epochID int64, matchCount int, limit int) (int, error)

	// RetryStuckRandomness swaps the outstanding oracle request of a draw
	// parked in AWAITING_RANDOMNESS past the cancellation delay
	RetryStuckRandomness(ctx context.Context, epochID int64, now time.Time) error

	// GetDraw returns a draw by epoch, nil if unknown
	GetDraw(ctx context.Context, epochID int64) (*entities.Draw, error)

	// GetTicket returns a ticket by ID, nil if unknown
	GetTicket(ctx context.Context, ticketID int64) (*entities.Ticket, error)

	// GetWinnersByTier returns the enumerated winners of one tier
	GetWinnersByTier(ctx context.Context, epochID int64, matchCount int) ([]*entities.Winner, error)

	// GetTierPrize returns one tier's result, nil if unknown
	GetTierPrize(ctx context.Context, epochID int64, matchCount int) (*entities.TierResult, error)

	// GetCurrentPool returns the current open draw's pool
	GetCurrentPool(ctx context.Context) (int64, error)

	// GetAccumulatedJackpot returns the jackpot carried toward the next draw
	GetAccumulatedJackpot(ctx context.Context) (int64, error)

	// GetLotteryState returns the singleton operational state
	GetLotteryState(ctx context.Context) (*entities.LotteryState, error)

	// GetTimeUntilNextDraw returns the wait before the next automatic draw
	GetTimeUntilNextDraw(ctx context.Context, now time.Time) (time.Duration, error)
}

// ClaimProcessor defines exactly-once prize payment
type ClaimProcessor interface {
	// Claim pays a ticket's prize to its owner exactly once
	Claim(ctx context.Context, ticketID int64, caller string, now time.Time) (*ClaimResult, error)

	// RecoverUnclaimed sweeps prizes left unclaimed past the claim window
	// to the fee recipient; returns the recovered amount
	RecoverUnclaimed(ctx context.Context, epochID int64, caller string, now time.Time) (int64, error)
}

// AdminTimelock defines propose/execute/cancel over privileged actions
type AdminTimelock interface {
	// Propose stores a privileged action behind its per-kind delay
	Propose(ctx context.Context, kind entities.AdminActionKind, payload []byte, caller string, now time.Time) (*entities.PendingAdminAction, error)

	// Execute applies a pending action once its delay has elapsed
	Execute(ctx context.Context, kind entities.AdminActionKind, caller string, now time.Time) error

	// Cancel clears a pending action with no side effects. A pending manual
	// draw may only be cancelled after its cancellation delay.
	Cancel(ctx context.Context, kind entities.AdminActionKind, caller string, now time.Time) error

	// EmergencyPause pauses immediately, bypassing the timelock. The single
	// deliberate exception to safety-by-delay.
	EmergencyPause(ctx context.Context, caller string) error
}

// ReferralService defines referral registration and purchase-time discounts
type ReferralService interface {
	// RegisterReferral records a referrer for an account, once
	RegisterReferral(ctx context.Context, account, referrer string) (*entities.Referral, error)

	// DiscountFor returns the discount in basis points for a purchase:
	// the larger of the referral and bulk-volume discounts, capped
	DiscountFor(ctx context.Context, account string, quantity int) (int, error)
}
