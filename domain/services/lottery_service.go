package services

import (
	"context"
	"fmt"
	"time"

	"github.com/JGonCor/lottery-platform-sub001/config"
	"github.com/JGonCor/lottery-platform-sub001/domain/entities"
	"github.com/JGonCor/lottery-platform-sub001/domain/events"
	"github.com/JGonCor/lottery-platform-sub001/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// lotteryService implements ticket admission, the draw state machine, and the
// read-only query surface. It is the only component that mutates draws and
// tier results.
type lotteryService struct {
	drawRepo       interfaces.DrawRepository
	ticketRepo     interfaces.TicketRepository
	tierResultRepo interfaces.TierResultRepository
	winnerRepo     interfaces.WinnerRepository
	stateRepo      interfaces.LotteryStateRepository
	referralRepo   interfaces.ReferralRepository
	treasuryRepo   interfaces.TreasuryRepository
	eventPublisher interfaces.EventPublisher
	oracle         interfaces.RandomnessOracle
	cfg            *config.Config
}

// NewLotteryService creates a new lottery service
func NewLotteryService(
	drawRepo interfaces.DrawRepository,
	ticketRepo interfaces.TicketRepository,
	tierResultRepo interfaces.TierResultRepository,
	winnerRepo interfaces.WinnerRepository,
	stateRepo interfaces.LotteryStateRepository,
	referralRepo interfaces.ReferralRepository,
	treasuryRepo interfaces.TreasuryRepository,
	eventPublisher interfaces.EventPublisher,
	oracle interfaces.RandomnessOracle,
	cfg *config.Config,
) interfaces.LotteryService {
	return &lotteryService{
		drawRepo:       drawRepo,
		ticketRepo:     ticketRepo,
		tierResultRepo: tierResultRepo,
		winnerRepo:     winnerRepo,
		stateRepo:      stateRepo,
		referralRepo:   referralRepo,
		treasuryRepo:   treasuryRepo,
		eventPublisher: eventPublisher,
		oracle:         oracle,
		cfg:            cfg,
	}
}

// PurchaseTickets validates and admits a batch of tickets for the current
// epoch. The caps are DoS guards enforced at admission, not at draw time.
func (s *lotteryService) PurchaseTickets(ctx context.Context, owner string, numberSets [][]int) (*interfaces.PurchaseResult, error) {
	quantity := len(numberSets)
	if quantity == 0 {
		return nil, fmt.Errorf("purchase must contain at least one ticket")
	}
	if quantity > s.cfg.MaxTicketsPerPurchase {
		return nil, fmt.Errorf("%w: batch of %d exceeds per-purchase cap %d",
			ErrMaxTicketsExceeded, quantity, s.cfg.MaxTicketsPerPurchase)
	}

	normalized := make([][]int, 0, quantity)
	for _, numbers := range numberSets {
		if err := entities.ValidateNumbers(numbers); err != nil {
			return nil, fmt.Errorf("invalid ticket numbers: %w", err)
		}
		normalized = append(normalized, entities.NormalizeNumbers(numbers))
	}

	state, err := s.stateRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get lottery state: %w", err)
	}
	if state.Paused {
		return nil, ErrLotteryPaused
	}

	draw, err := s.drawRepo.GetByEpochForUpdate(ctx, state.CurrentEpochID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock current draw: %w", err)
	}
	if draw == nil {
		return nil, ErrDrawNotFound
	}
	if !draw.IsOpen() {
		return nil, ErrDrawAlreadyInProgress
	}

	admitted, err := s.ticketRepo.CountForEpoch(ctx, draw.EpochID)
	if err != nil {
		return nil, fmt.Errorf("failed to count epoch tickets: %w", err)
	}
	if admitted+int64(quantity) > s.cfg.MaxTicketsPerDraw {
		return nil, fmt.Errorf("%w: draw %d holds %d tickets, cap is %d",
			ErrMaxTicketsExceeded, draw.EpochID, admitted, s.cfg.MaxTicketsPerDraw)
	}

	referral, err := s.referralRepo.GetByAccount(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to get referral record: %w", err)
	}
	discountBps := discountBpsFor(referral != nil, quantity, s.cfg)

	pricePerTicket := discountedPrice(s.cfg.TicketPrice, discountBps)
	totalCost := pricePerTicket * int64(quantity)

	// Stake moves into the reserve before anything else; a failed transfer
	// aborts the whole purchase.
	if err := s.treasuryRepo.TransferIn(ctx, owner, totalCost); err != nil {
		return nil, fmt.Errorf("failed to collect stake: %w", err)
	}

	now := time.Now().UTC()
	tickets := make([]*entities.Ticket, 0, quantity)
	for _, numbers := range normalized {
		tickets = append(tickets, &entities.Ticket{
			EpochID:     draw.EpochID,
			Owner:       owner,
			Numbers:     numbers,
			PricePaid:   pricePerTicket,
			DiscountBps: discountBps,
			PurchasedAt: now,
		})
	}
	if err := s.ticketRepo.CreateBatch(ctx, tickets); err != nil {
		return nil, fmt.Errorf("failed to create tickets: %w", err)
	}

	if err := s.drawRepo.IncrementPool(ctx, draw.EpochID, totalCost); err != nil {
		return nil, fmt.Errorf("failed to increment pool: %w", err)
	}
	draw.TotalPool += totalCost

	ticketIDs := make([]int64, len(tickets))
	for i, t := range tickets {
		ticketIDs[i] = t.ID
	}
	if err := s.eventPublisher.Publish(events.TicketPurchasedEvent{
		EpochID:     draw.EpochID,
		Owner:       owner,
		TicketIDs:   ticketIDs,
		Quantity:    quantity,
		TotalPaid:   totalCost,
		DiscountBps: discountBps,
	}); err != nil {
		return nil, fmt.Errorf("failed to publish purchase event: %w", err)
	}

	return &interfaces.PurchaseResult{
		Tickets:     tickets,
		TotalPaid:   totalCost,
		DiscountBps: discountBps,
		Draw:        draw,
	}, nil
}

// TriggerDrawIfDue fires the automatic draw when the interval has elapsed.
func (s *lotteryService) TriggerDrawIfDue(ctx context.Context, now time.Time) (bool, error) {
	state, err := s.stateRepo.GetForUpdate(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to lock lottery state: %w", err)
	}
	if state.Paused || !state.NextDrawDue(now, s.cfg.DrawInterval) {
		return false, nil
	}
	if err := s.triggerDraw(ctx, state, now); err != nil {
		return false, err
	}
	return true, nil
}

// TriggerDraw fires the draw unconditionally. Reached only through an
// executed manual-draw admin action.
func (s *lotteryService) TriggerDraw(ctx context.Context, now time.Time) error {
	state, err := s.stateRepo.GetForUpdate(ctx)
	if err != nil {
		return fmt.Errorf("failed to lock lottery state: %w", err)
	}
	if state.Paused {
		return ErrLotteryPaused
	}
	return s.triggerDraw(ctx, state, now)
}

// triggerDraw performs OPEN -> AWAITING_RANDOMNESS: submits one randomness
// request, freezes the epoch, and opens the next one so new purchases are
// never mixed into a draw already in flight.
func (s *lotteryService) triggerDraw(ctx context.Context, state *entities.LotteryState, now time.Time) error {
	draw, err := s.drawRepo.GetByEpochForUpdate(ctx, state.CurrentEpochID)
	if err != nil {
		return fmt.Errorf("failed to lock current draw: %w", err)
	}
	if draw == nil {
		return ErrDrawNotFound
	}
	if !draw.IsOpen() {
		return ErrDrawAlreadyInProgress
	}

	requestID, err := s.oracle.RequestRandomness(ctx, draw.EpochID)
	if err != nil {
		return fmt.Errorf("failed to request randomness: %w", err)
	}

	if err := s.drawRepo.SetAwaitingRandomness(ctx, draw.EpochID, requestID, now); err != nil {
		return fmt.Errorf("failed to freeze draw %d: %w", draw.EpochID, err)
	}

	next := &entities.Draw{
		EpochID:  draw.EpochID + 1,
		State:    entities.DrawStateOpen,
		OpenedAt: now,
	}
	if err := s.drawRepo.Create(ctx, next); err != nil {
		return fmt.Errorf("failed to open next draw: %w", err)
	}
	if err := s.stateRepo.AdvanceEpoch(ctx, next.EpochID, now); err != nil {
		return fmt.Errorf("failed to advance epoch: %w", err)
	}

	log.WithFields(log.Fields{
		"epochID":   draw.EpochID,
		"requestID": requestID,
		"totalPool": draw.TotalPool,
	}).Info("Draw triggered, awaiting randomness")
	return nil
}

// HandleRandomness consumes the oracle fulfillment. This is the only place
// winning numbers are produced and tier pots computed, and it completes in
// one atomic step: every ticket of the epoch is scored and every tier closed
// before the draw returns to rest.
func (s *lotteryService) HandleRandomness(ctx context.Context, requestID string, seed []byte) (*interfaces.DrawResult, error) {
	draw, err := s.drawRepo.GetByRequestIDForUpdate(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve randomness request: %w", err)
	}
	if draw == nil || draw.State != entities.DrawStateAwaitingRandomness {
		return nil, fmt.Errorf("%w: %s", ErrUnknownRequest, requestID)
	}
	draw.State = entities.DrawStateCalculating

	winningNumbers, err := entities.GenerateWinningNumbers(seed)
	if err != nil {
		return nil, fmt.Errorf("failed to generate winning numbers: %w", err)
	}

	winnerCounts, scored, err := s.scoreEpoch(ctx, draw.EpochID, winningNumbers)
	if err != nil {
		return nil, err
	}

	state, err := s.stateRepo.GetForUpdate(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to lock lottery state: %w", err)
	}

	draw.CarriedJackpot = state.AccumulatedJackpot
	breakdown, err := entities.ComputePoolBreakdown(
		draw.TotalPool, draw.CarriedJackpot, s.cfg.PlatformFeeBps, s.cfg.TierShareBps, winnerCounts)
	if err != nil {
		return nil, fmt.Errorf("failed to compute pool breakdown: %w", err)
	}

	completedAt := time.Now().UTC()
	draw.Complete(winningNumbers, breakdown, completedAt)
	if err := s.drawRepo.Finalize(ctx, draw); err != nil {
		return nil, fmt.Errorf("failed to finalize draw %d: %w", draw.EpochID, err)
	}

	tierResults := make([]*entities.TierResult, 0, entities.PayingTiers)
	for i := 0; i < entities.PayingTiers; i++ {
		tierResults = append(tierResults, &entities.TierResult{
			EpochID:         draw.EpochID,
			MatchCount:      entities.MinMatchForPrize + i,
			WinnerCount:     winnerCounts[i],
			PotAmount:       breakdown.TierPots[i],
			PerWinnerAmount: breakdown.PerWinner[i],
		})
	}
	if err := s.tierResultRepo.CreateForEpoch(ctx, tierResults); err != nil {
		return nil, fmt.Errorf("failed to record tier results: %w", err)
	}

	if err := s.stateRepo.SetAccumulatedJackpot(ctx, breakdown.JackpotCarry); err != nil {
		return nil, fmt.Errorf("failed to carry jackpot: %w", err)
	}

	// The platform fee leaves the reserve at finalization.
	if breakdown.PlatformFee > 0 {
		if err := s.treasuryRepo.TransferOut(ctx, state.FeeRecipient, breakdown.PlatformFee); err != nil {
			return nil, fmt.Errorf("failed to pay platform fee: %w", err)
		}
	}

	// Winner enumeration is bounded per tier; the excess is deferred to
	// follow-up batches with identical pot math.
	for _, tier := range tierResults {
		if tier.WinnerCount == 0 {
			continue
		}
		limit := s.cfg.TierWinnerCap
		if tier.WinnerCount < limit {
			limit = tier.WinnerCount
		}
		recorded, err := s.enumerateWinners(ctx, tier, int(limit))
		if err != nil {
			return nil, err
		}
		tier.RecordedWinners = int64(recorded)
		if tier.HasBacklog() {
			if err := s.eventPublisher.Publish(events.TierWinnerLimitReachedEvent{
				EpochID:     tier.EpochID,
				MatchCount:  tier.MatchCount,
				WinnerCount: tier.WinnerCount,
				Recorded:    tier.RecordedWinners,
			}); err != nil {
				return nil, fmt.Errorf("failed to publish winner limit event: %w", err)
			}
		}
	}

	if err := s.eventPublisher.Publish(events.DrawCompletedEvent{
		EpochID:        draw.EpochID,
		WinningNumbers: winningNumbers,
		TotalPool:      draw.TotalPool,
		PlatformFee:    breakdown.PlatformFee,
		JackpotCarry:   breakdown.JackpotCarry,
		TicketsScored:  scored,
		CompletedAt:    completedAt,
	}); err != nil {
		return nil, fmt.Errorf("failed to publish draw completed event: %w", err)
	}

	log.WithFields(log.Fields{
		"epochID":        draw.EpochID,
		"winningNumbers": winningNumbers,
		"totalPool":      draw.TotalPool,
		"jackpotCarry":   breakdown.JackpotCarry,
		"ticketsScored":  scored,
	}).Info("Draw completed")

	return &interfaces.DrawResult{
		Draw:          draw,
		TierResults:   tierResults,
		TicketsScored: scored,
	}, nil
}

// scoreEpoch scores every still-unscored ticket of the epoch in bounded
// pages. Re-scoring an already-scored ticket is a no-op, so a resumed pass
// never recomputes or double-counts.
func (s *lotteryService) scoreEpoch(ctx context.Context, epochID int64, winningNumbers []int) ([entities.PayingTiers]int64, int64, error) {
	var counts [entities.PayingTiers]int64
	var scored int64
	var afterID int64

	for {
		page, err := s.ticketRepo.ListForEpoch(ctx, epochID, afterID, s.cfg.ScoringPageSize)
		if err != nil {
			return counts, scored, fmt.Errorf("failed to page epoch tickets: %w", err)
		}
		if len(page) == 0 {
			return counts, scored, nil
		}
		for _, ticket := range page {
			afterID = ticket.ID

			if err := entities.ValidateNumbers(ticket.Numbers); err != nil {
				// Defensive: the validator admitted this ticket, so a
				// malformed row signals corruption, not user error.
				log.WithFields(log.Fields{
					"ticketID": ticket.ID,
					"epochID":  epochID,
				}).WithError(err).Warn("Malformed ticket encountered during scoring")
				if pubErr := s.eventPublisher.Publish(events.InvalidTicketDetectedEvent{
					EpochID:  epochID,
					TicketID: ticket.ID,
					Reason:   err.Error(),
				}); pubErr != nil {
					return counts, scored, fmt.Errorf("failed to publish invalid ticket event: %w", pubErr)
				}
				continue
			}

			// An already-scored ticket keeps its recorded result; it still
			// counts toward its tier so a resumed pass stays exact.
			if ticket.IsScored() {
				if *ticket.MatchCount >= entities.MinMatchForPrize {
					counts[entities.TierIndex(*ticket.MatchCount)]++
				}
				continue
			}
			matchCount := ticket.MatchAgainst(winningNumbers)
			if err := s.ticketRepo.RecordResult(ctx, ticket.ID, matchCount); err != nil {
				return counts, scored, fmt.Errorf("failed to score ticket %d: %w", ticket.ID, err)
			}
			scored++
			if matchCount >= entities.MinMatchForPrize {
				counts[entities.TierIndex(matchCount)]++
			}
		}
	}
}

// enumerateWinners records up to limit winner rows for a tier and advances
// the tier's cursor. Idempotent: already-recorded tickets are skipped.
func (s *lotteryService) enumerateWinners(ctx context.Context, tier *entities.TierResult, limit int) (int, error) {
	tickets, err := s.ticketRepo.ListUnrecordedWinners(ctx, tier.EpochID, tier.MatchCount, limit)
	if err != nil {
		return 0, fmt.Errorf("failed to list unrecorded winners: %w", err)
	}
	if len(tickets) == 0 {
		return 0, nil
	}

	winners := make([]*entities.Winner, 0, len(tickets))
	for _, t := range tickets {
		winners = append(winners, &entities.Winner{
			EpochID:    tier.EpochID,
			MatchCount: tier.MatchCount,
			TicketID:   t.ID,
			Owner:      t.Owner,
			Amount:     tier.PerWinnerAmount,
		})
	}
	if err := s.winnerRepo.CreateBatch(ctx, winners); err != nil {
		return 0, fmt.Errorf("failed to record winners: %w", err)
	}
	if err := s.tierResultRepo.AdvanceRecordedWinners(ctx, tier.EpochID, tier.MatchCount, int64(len(winners))); err != nil {
		return 0, fmt.Errorf("failed to advance winner cursor: %w", err)
	}
	return len(winners), nil
}

// ProcessWinnerBacklog resumes deferred winner enumeration for one tier.
// The pot was fixed when the tier closed, so a late batch pays exactly what
// an early one did.
func (s *lotteryService) ProcessWinnerBacklog(ctx context.Context, epochID int64, matchCount int, limit int) (int, error) {
	tier, err := s.tierResultRepo.Get(ctx, epochID, matchCount)
	if err != nil {
		return 0, fmt.Errorf("failed to get tier result: %w", err)
	}
	if tier == nil {
		return 0, ErrDrawNotCompleted
	}
	if !tier.HasBacklog() {
		return 0, nil
	}

	processed, err := s.enumerateWinners(ctx, tier, limit)
	if err != nil {
		return 0, err
	}

	log.WithFields(log.Fields{
		"epochID":    epochID,
		"matchCount": matchCount,
		"processed":  processed,
	}).Info("Processed winner backlog batch")
	return processed, nil
}

// RetryStuckRandomness swaps the oracle request of a draw parked in
// AWAITING_RANDOMNESS past the stuck-randomness delay. The old correlation
// ID becomes stale, so a late fulfillment for it is rejected.
func (s *lotteryService) RetryStuckRandomness(ctx context.Context, epochID int64, now time.Time) error {
	draw, err := s.drawRepo.GetByEpochForUpdate(ctx, epochID)
	if err != nil {
		return fmt.Errorf("failed to lock draw %d: %w", epochID, err)
	}
	if draw == nil {
		return ErrDrawNotFound
	}
	if draw.State != entities.DrawStateAwaitingRandomness || draw.RequestedAt == nil {
		return ErrRandomnessNotStuck
	}
	if now.Before(draw.RequestedAt.Add(s.cfg.StuckRandomnessDelay)) {
		return fmt.Errorf("%w: eligible at %s",
			ErrRandomnessNotStuck, draw.RequestedAt.Add(s.cfg.StuckRandomnessDelay).UTC())
	}

	requestID, err := s.oracle.RequestRandomness(ctx, epochID)
	if err != nil {
		return fmt.Errorf("failed to re-request randomness: %w", err)
	}
	if err := s.drawRepo.ReplaceRequest(ctx, epochID, requestID, now); err != nil {
		return fmt.Errorf("failed to replace randomness request: %w", err)
	}

	log.WithFields(log.Fields{
		"epochID":   epochID,
		"requestID": requestID,
	}).Warn("Replaced stuck randomness request")
	return nil
}

// Read surface. Pure reads of committed state.

func (s *lotteryService) GetDraw(ctx context.Context, epochID int64) (*entities.Draw, error) {
	return s.drawRepo.GetByEpoch(ctx, epochID)
}

func (s *lotteryService) GetTicket(ctx context.Context, ticketID int64) (*entities.Ticket, error) {
	return s.ticketRepo.GetByID(ctx, ticketID)
}

func (s *lotteryService) GetWinnersByTier(ctx context.Context, epochID int64, matchCount int) ([]*entities.Winner, error) {
	return s.winnerRepo.ListByTier(ctx, epochID, matchCount)
}

func (s *lotteryService) GetTierPrize(ctx context.Context, epochID int64, matchCount int) (*entities.TierResult, error) {
	return s.tierResultRepo.Get(ctx, epochID, matchCount)
}

func (s *lotteryService) GetCurrentPool(ctx context.Context) (int64, error) {
	state, err := s.stateRepo.Get(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get lottery state: %w", err)
	}
	draw, err := s.drawRepo.GetByEpoch(ctx, state.CurrentEpochID)
	if err != nil {
		return 0, fmt.Errorf("failed to get current draw: %w", err)
	}
	if draw == nil {
		return 0, ErrDrawNotFound
	}
	return draw.TotalPool, nil
}

func (s *lotteryService) GetAccumulatedJackpot(ctx context.Context) (int64, error) {
	state, err := s.stateRepo.Get(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get lottery state: %w", err)
	}
	return state.AccumulatedJackpot, nil
}

func (s *lotteryService) GetLotteryState(ctx context.Context) (*entities.LotteryState, error) {
	return s.stateRepo.Get(ctx)
}

func (s *lotteryService) GetTimeUntilNextDraw(ctx context.Context, now time.Time) (time.Duration, error) {
	state, err := s.stateRepo.Get(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get lottery state: %w", err)
	}
	return state.TimeUntilNextDraw(now, s.cfg.DrawInterval), nil
}

// discountedPrice applies a basis-point discount to the ticket price.
func discountedPrice(price int64, discountBps int) int64 {
	return price * (10000 - int64(discountBps)) / 10000
}
