package application

import (
	"context"
	"fmt"
	"time"

	"github.com/JGonCor/lottery-platform-sub001/config"
	"github.com/JGonCor/lottery-platform-sub001/domain/entities"
	"github.com/JGonCor/lottery-platform-sub001/domain/events"
	"github.com/JGonCor/lottery-platform-sub001/domain/interfaces"
	"github.com/JGonCor/lottery-platform-sub001/domain/services"
	"github.com/JGonCor/lottery-platform-sub001/domain/utils"
	"github.com/JGonCor/lottery-platform-sub001/infrastructure/observability"

	log "github.com/sirupsen/logrus"
)

// App is the transactional facade over the lottery domain. Every operation
// runs inside one unit of work; buffered events flush only after commit.
type App struct {
	uowFactory UnitOfWorkFactory
	oracle     interfaces.RandomnessOracle
	claimLocks *utils.ClaimLocks
	cfg        *config.Config
}

// NewApp creates the application facade
func NewApp(uowFactory UnitOfWorkFactory, oracle interfaces.RandomnessOracle, cfg *config.Config) *App {
	return &App{
		uowFactory: uowFactory,
		oracle:     oracle,
		claimLocks: utils.NewClaimLocks(),
		cfg:        cfg,
	}
}

// lotteryService wires the draw engine against one unit of work
func (a *App) lotteryService(uow UnitOfWork) interfaces.LotteryService {
	return services.NewLotteryService(
		uow.DrawRepository(),
		uow.TicketRepository(),
		uow.TierResultRepository(),
		uow.WinnerRepository(),
		uow.LotteryStateRepository(),
		uow.ReferralRepository(),
		uow.TreasuryRepository(),
		uow.EventBus(),
		a.oracle,
		a.cfg,
	)
}

// claimProcessor wires the payment path against one unit of work
func (a *App) claimProcessor(uow UnitOfWork) interfaces.ClaimProcessor {
	return services.NewClaimProcessor(
		uow.TicketRepository(),
		uow.DrawRepository(),
		uow.TierResultRepository(),
		uow.LotteryStateRepository(),
		uow.TreasuryRepository(),
		uow.EventBus(),
		a.cfg,
	)
}

// adminTimelock wires the privileged-action controller against one unit of work
func (a *App) adminTimelock(uow UnitOfWork) interfaces.AdminTimelock {
	return services.NewAdminTimelock(
		uow.AdminActionRepository(),
		uow.LotteryStateRepository(),
		a.lotteryService(uow),
		uow.EventBus(),
		a.cfg,
	)
}

// PurchaseTickets admits a batch of tickets for the current epoch
func (a *App) PurchaseTickets(ctx context.Context, owner string, numberSets [][]int) (*interfaces.PurchaseResult, error) {
	uow := a.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	result, err := a.lotteryService(uow).PurchaseTickets(ctx, owner, numberSets)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit purchase: %w", err)
	}

	observability.GetMetrics().RecordTicketsPurchased(len(result.Tickets))
	return result, nil
}

// Deposit credits a player's treasury balance
func (a *App) Deposit(ctx context.Context, account string, amount int64) error {
	uow := a.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.TreasuryRepository().Deposit(ctx, account, amount); err != nil {
		return err
	}
	return uow.Commit()
}

// BalanceOf returns a player's treasury balance
func (a *App) BalanceOf(ctx context.Context, account string) (int64, error) {
	uow := a.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	return uow.TreasuryRepository().BalanceOf(ctx, account)
}

// RegisterReferral records a referrer for an account, once
func (a *App) RegisterReferral(ctx context.Context, account, referrer string) (*entities.Referral, error) {
	uow := a.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	referral, err := services.NewReferralService(uow.ReferralRepository(), a.cfg).RegisterReferral(ctx, account, referrer)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit referral: %w", err)
	}
	return referral, nil
}

// Claim pays a ticket's prize to its owner exactly once. The in-process lock
// rejects concurrent claims for the same ticket before any transaction opens.
func (a *App) Claim(ctx context.Context, ticketID int64, caller string) (*interfaces.ClaimResult, error) {
	if !a.claimLocks.TryAcquire(ticketID) {
		return nil, services.ErrClaimInProgress
	}
	defer a.claimLocks.Release(ticketID)

	uow := a.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	result, err := a.claimProcessor(uow).Claim(ctx, ticketID, caller, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit claim: %w", err)
	}

	observability.GetMetrics().RecordClaimPaid(result.MatchCount, result.Amount)
	return result, nil
}

// ResetClaimLock force-releases a stuck in-process claim lock. Admin only;
// the database write-once guard still protects the prize itself.
func (a *App) ResetClaimLock(ctx context.Context, ticketID int64, caller string) error {
	if caller != a.cfg.AdminAccount {
		return services.ErrNotAuthorized
	}

	wasHeld := a.claimLocks.ForceRelease(ticketID)
	log.WithFields(log.Fields{
		"ticketId": ticketID,
		"resetBy":  caller,
		"wasHeld":  wasHeld,
	}).Warn("Claim lock reset")

	uow := a.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.EventBus().Publish(events.ClaimLockResetEvent{
		TicketID: ticketID,
		ResetBy:  caller,
		WasHeld:  wasHeld,
	}); err != nil {
		return err
	}
	return uow.Commit()
}

// RecoverUnclaimed sweeps prizes left unclaimed past the claim window
func (a *App) RecoverUnclaimed(ctx context.Context, epochID int64, caller string) (int64, error) {
	uow := a.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	recovered, err := a.claimProcessor(uow).RecoverUnclaimed(ctx, epochID, caller, time.Now().UTC())
	if err != nil {
		return 0, err
	}

	if err := uow.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit recovery: %w", err)
	}
	return recovered, nil
}

// TriggerDrawIfDue fires a draw if the interval has elapsed; returns true
// if a draw was triggered
func (a *App) TriggerDrawIfDue(ctx context.Context, now time.Time) (bool, error) {
	uow := a.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	triggered, err := a.lotteryService(uow).TriggerDrawIfDue(ctx, now)
	if err != nil {
		return false, err
	}
	if !triggered {
		return false, nil
	}

	if err := uow.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit draw trigger: %w", err)
	}
	return true, nil
}

// HandleRandomnessFulfilled consumes one oracle fulfillment: the draw is
// scored and finalized in a single transaction
func (a *App) HandleRandomnessFulfilled(ctx context.Context, requestID string, seed []byte) error {
	uow := a.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	result, err := a.lotteryService(uow).HandleRandomness(ctx, requestID, seed)
	if err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit draw finalization: %w", err)
	}

	observability.GetMetrics().RecordDrawCompleted()
	log.WithFields(log.Fields{
		"epochId":       result.Draw.EpochID,
		"ticketsScored": result.TicketsScored,
	}).Info("Draw finalized from oracle fulfillment")
	return nil
}

// ProcessWinnerBacklog resumes deferred winner enumeration for a tier
func (a *App) ProcessWinnerBacklog(ctx context.Context, epochID int64, matchCount int, limit int) (int, error) {
	uow := a.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	processed, err := a.lotteryService(uow).ProcessWinnerBacklog(ctx, epochID, matchCount, limit)
	if err != nil {
		return 0, err
	}

	if err := uow.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit winner backlog batch: %w", err)
	}
	return processed, nil
}

// RetryStuckRandomness swaps the oracle request of a draw parked in
// AWAITING_RANDOMNESS past the cancellation delay
func (a *App) RetryStuckRandomness(ctx context.Context, epochID int64, caller string) error {
	if caller != a.cfg.AdminAccount {
		return services.ErrNotAuthorized
	}

	uow := a.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := a.lotteryService(uow).RetryStuckRandomness(ctx, epochID, time.Now().UTC()); err != nil {
		return err
	}
	return uow.Commit()
}

// ProposeAdminAction stores a privileged action behind its timelock
func (a *App) ProposeAdminAction(ctx context.Context, kind entities.AdminActionKind, payload []byte, caller string) (*entities.PendingAdminAction, error) {
	uow := a.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	action, err := a.adminTimelock(uow).Propose(ctx, kind, payload, caller, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit proposal: %w", err)
	}
	return action, nil
}

// ExecuteAdminAction applies a pending action once its delay has elapsed
func (a *App) ExecuteAdminAction(ctx context.Context, kind entities.AdminActionKind, caller string) error {
	uow := a.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := a.adminTimelock(uow).Execute(ctx, kind, caller, time.Now().UTC()); err != nil {
		return err
	}
	return uow.Commit()
}

// CancelAdminAction clears a pending action with no side effects
func (a *App) CancelAdminAction(ctx context.Context, kind entities.AdminActionKind, caller string) error {
	uow := a.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := a.adminTimelock(uow).Cancel(ctx, kind, caller, time.Now().UTC()); err != nil {
		return err
	}
	return uow.Commit()
}

// EmergencyPause pauses the lottery immediately, bypassing the timelock
func (a *App) EmergencyPause(ctx context.Context, caller string) error {
	uow := a.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := a.adminTimelock(uow).EmergencyPause(ctx, caller); err != nil {
		return err
	}
	return uow.Commit()
}

// GetDraw returns a draw by epoch, nil if unknown
func (a *App) GetDraw(ctx context.Context, epochID int64) (*entities.Draw, error) {
	uow := a.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	return a.lotteryService(uow).GetDraw(ctx, epochID)
}

// GetTicket returns a ticket by ID, nil if unknown
func (a *App) GetTicket(ctx context.Context, ticketID int64) (*entities.Ticket, error) {
	uow := a.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	return a.lotteryService(uow).GetTicket(ctx, ticketID)
}

// GetWinnersByTier returns the enumerated winners of one tier
func (a *App) GetWinnersByTier(ctx context.Context, epochID int64, matchCount int) ([]*entities.Winner, error) {
	uow := a.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	return a.lotteryService(uow).GetWinnersByTier(ctx, epochID, matchCount)
}

// GetTierPrize returns one tier's result, nil if unknown
func (a *App) GetTierPrize(ctx context.Context, epochID int64, matchCount int) (*entities.TierResult, error) {
	uow := a.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	return a.lotteryService(uow).GetTierPrize(ctx, epochID, matchCount)
}

// GetCurrentPool returns the current open draw's pool
func (a *App) GetCurrentPool(ctx context.Context) (int64, error) {
	uow := a.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	return a.lotteryService(uow).GetCurrentPool(ctx)
}

// GetAccumulatedJackpot returns the jackpot carried toward the next draw
func (a *App) GetAccumulatedJackpot(ctx context.Context) (int64, error) {
	uow := a.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	return a.lotteryService(uow).GetAccumulatedJackpot(ctx)
}

// GetLotteryState returns the singleton operational state
func (a *App) GetLotteryState(ctx context.Context) (*entities.LotteryState, error) {
	uow := a.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	return a.lotteryService(uow).GetLotteryState(ctx)
}

// GetTimeUntilNextDraw returns the wait before the next automatic draw
func (a *App) GetTimeUntilNextDraw(ctx context.Context, now time.Time) (time.Duration, error) {
	uow := a.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	return a.lotteryService(uow).GetTimeUntilNextDraw(ctx, now)
}
