package services

import (
	"context"
	"fmt"
	"time"

	"github.com/JGonCor/lottery-platform-sub001/config"
	"github.com/JGonCor/lottery-platform-sub001/domain/events"
	"github.com/JGonCor/lottery-platform-sub001/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// claimProcessor pays prizes exactly once. Per-ticket exclusivity against
// concurrent callers is enforced by the application layer's claim locks; the
// durable guard here is the write-once MarkClaimed plus the ticket row lock.
type claimProcessor struct {
	ticketRepo     interfaces.TicketRepository
	drawRepo       interfaces.DrawRepository
	tierResultRepo interfaces.TierResultRepository
	stateRepo      interfaces.LotteryStateRepository
	treasuryRepo   interfaces.TreasuryRepository
	eventPublisher interfaces.EventPublisher
	cfg            *config.Config
}

// NewClaimProcessor creates a new claim processor
func NewClaimProcessor(
	ticketRepo interfaces.TicketRepository,
	drawRepo interfaces.DrawRepository,
	tierResultRepo interfaces.TierResultRepository,
	stateRepo interfaces.LotteryStateRepository,
	treasuryRepo interfaces.TreasuryRepository,
	eventPublisher interfaces.EventPublisher,
	cfg *config.Config,
) interfaces.ClaimProcessor {
	return &claimProcessor{
		ticketRepo:     ticketRepo,
		drawRepo:       drawRepo,
		tierResultRepo: tierResultRepo,
		stateRepo:      stateRepo,
		treasuryRepo:   treasuryRepo,
		eventPublisher: eventPublisher,
		cfg:            cfg,
	}
}

// Claim pays a ticket's prize to its owner. The marked-claimed write and the
// funds transfer commit together in the enclosing transaction or not at all.
func (p *claimProcessor) Claim(ctx context.Context, ticketID int64, caller string, now time.Time) (*interfaces.ClaimResult, error) {
	ticket, err := p.ticketRepo.GetByIDForUpdate(ctx, ticketID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock ticket %d: %w", ticketID, err)
	}
	if ticket == nil {
		return nil, ErrTicketNotFound
	}
	if ticket.Owner != caller {
		return nil, ErrNotOwner
	}
	if ticket.Claimed {
		return nil, ErrAlreadyClaimed
	}
	if !ticket.IsWinner() {
		return nil, ErrNotAWinner
	}

	draw, err := p.drawRepo.GetByEpoch(ctx, ticket.EpochID)
	if err != nil {
		return nil, fmt.Errorf("failed to get draw %d: %w", ticket.EpochID, err)
	}
	if draw == nil || !draw.IsCompleted() {
		return nil, ErrDrawNotCompleted
	}
	if now.After(draw.CompletedAt.Add(p.cfg.ClaimWindow)) {
		return nil, fmt.Errorf("%w: window closed at %s",
			ErrClaimDeadlineExpired, draw.CompletedAt.Add(p.cfg.ClaimWindow).UTC())
	}

	tier, err := p.tierResultRepo.Get(ctx, ticket.EpochID, *ticket.MatchCount)
	if err != nil {
		return nil, fmt.Errorf("failed to get tier result: %w", err)
	}
	if tier == nil {
		return nil, ErrDrawNotCompleted
	}
	payout := tier.PerWinnerAmount
	if payout <= 0 {
		return nil, ErrNotAWinner
	}

	// Solvency check before transfer; a shortfall is fatal, never a
	// partial payment.
	reserve, err := p.treasuryRepo.ReserveBalance(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read reserve balance: %w", err)
	}
	if reserve < payout {
		log.WithFields(log.Fields{
			"ticketID": ticketID,
			"payout":   payout,
			"reserve":  reserve,
		}).Error("Reserve cannot cover payout")
		return nil, fmt.Errorf("%w: reserve %d, payout %d", ErrInsufficientReserves, reserve, payout)
	}

	// MarkClaimed is the write-once effect that matters; it commits
	// atomically with the transfer in the enclosing transaction.
	if err := p.ticketRepo.MarkClaimed(ctx, ticketID, now); err != nil {
		return nil, fmt.Errorf("failed to mark ticket claimed: %w", err)
	}
	if err := p.treasuryRepo.TransferOut(ctx, ticket.Owner, payout); err != nil {
		return nil, fmt.Errorf("failed to transfer payout: %w", err)
	}

	if err := p.eventPublisher.Publish(events.PrizeClaimedEvent{
		EpochID:    ticket.EpochID,
		TicketID:   ticketID,
		Owner:      ticket.Owner,
		MatchCount: *ticket.MatchCount,
		Amount:     payout,
	}); err != nil {
		return nil, fmt.Errorf("failed to publish claim event: %w", err)
	}

	ticket.Claimed = true
	claimedAt := now
	ticket.ClaimedAt = &claimedAt

	return &interfaces.ClaimResult{
		Ticket:     ticket,
		MatchCount: *ticket.MatchCount,
		Amount:     payout,
	}, nil
}

// RecoverUnclaimed sweeps an epoch's prizes left unclaimed past the claim
// window to the fee recipient. Privileged; it can never touch an
// already-claimed ticket because only unclaimed per-winner amounts are
// summed, and it honors the same solvency check as a claim.
func (p *claimProcessor) RecoverUnclaimed(ctx context.Context, epochID int64, caller string, now time.Time) (int64, error) {
	if caller != p.cfg.AdminAccount {
		return 0, ErrNotAuthorized
	}

	draw, err := p.drawRepo.GetByEpoch(ctx, epochID)
	if err != nil {
		return 0, fmt.Errorf("failed to get draw %d: %w", epochID, err)
	}
	if draw == nil || !draw.IsCompleted() {
		return 0, ErrDrawNotCompleted
	}
	deadline := draw.CompletedAt.Add(p.cfg.ClaimWindow)
	if !now.After(deadline) {
		return 0, fmt.Errorf("%w: until %s", ErrClaimWindowOpen, deadline.UTC())
	}

	unclaimed, err := p.ticketRepo.SumUnclaimedPrizes(ctx, epochID)
	if err != nil {
		return 0, fmt.Errorf("failed to sum unclaimed prizes: %w", err)
	}
	if unclaimed == 0 {
		return 0, nil
	}

	reserve, err := p.treasuryRepo.ReserveBalance(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to read reserve balance: %w", err)
	}
	if reserve < unclaimed {
		return 0, fmt.Errorf("%w: reserve %d, recovery %d", ErrInsufficientReserves, reserve, unclaimed)
	}

	state, err := p.stateRepo.Get(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get lottery state: %w", err)
	}
	if err := p.treasuryRepo.TransferOut(ctx, state.FeeRecipient, unclaimed); err != nil {
		return 0, fmt.Errorf("failed to transfer recovered prizes: %w", err)
	}

	// Mark the swept tickets so they can never be claimed afterwards.
	if err := p.markUnclaimedSwept(ctx, epochID, now); err != nil {
		return 0, err
	}

	if err := p.eventPublisher.Publish(events.UnclaimedPrizeRecoveredEvent{
		EpochID:     epochID,
		Amount:      unclaimed,
		RecoveredBy: caller,
		RecoveredTo: state.FeeRecipient,
	}); err != nil {
		return 0, fmt.Errorf("failed to publish recovery event: %w", err)
	}

	log.WithFields(log.Fields{
		"epochID": epochID,
		"amount":  unclaimed,
	}).Info("Recovered unclaimed prizes")
	return unclaimed, nil
}

// markUnclaimedSwept marks every unclaimed winning ticket of the epoch as
// claimed so the recovery cannot be followed by a late payout.
func (p *claimProcessor) markUnclaimedSwept(ctx context.Context, epochID int64, now time.Time) error {
	var afterID int64
	for {
		page, err := p.ticketRepo.ListForEpoch(ctx, epochID, afterID, p.cfg.ScoringPageSize)
		if err != nil {
			return fmt.Errorf("failed to page epoch tickets: %w", err)
		}
		if len(page) == 0 {
			return nil
		}
		for _, t := range page {
			afterID = t.ID
			if t.Claimed || !t.IsWinner() {
				continue
			}
			if err := p.ticketRepo.MarkClaimed(ctx, t.ID, now); err != nil {
				return fmt.Errorf("failed to sweep ticket %d: %w", t.ID, err)
			}
		}
	}
}
