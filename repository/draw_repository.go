package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/JGonCor/lottery-platform-sub001/domain/entities"
	"github.com/JGonCor/lottery-platform-sub001/domain/interfaces"
	"github.com/JGonCor/lottery-platform-sub001/domain/services"
	"github.com/JGonCor/lottery-platform-sub001/infrastructure/observability"
)

// DrawRepository implements draw lifecycle persistence. State transitions are
// guarded in SQL so a stale caller matches zero rows instead of corrupting
// the lifecycle.
type DrawRepository struct {
	q Queryable
}

func newDrawRepository(tx Queryable) interfaces.DrawRepository {
	return &DrawRepository{q: tx}
}

// NewDrawRepository creates a draw repository over the given connection
func NewDrawRepository(q Queryable) interfaces.DrawRepository {
	return &DrawRepository{q: q}
}

const drawColumns = "epoch_id, state, request_id, requested_at, winning_numbers, total_pool, carried_jackpot, platform_fee, tier_pots, jackpot_carry, opened_at, completed_at"

// Create opens a new draw for an epoch
func (r *DrawRepository) Create(ctx context.Context, draw *entities.Draw) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO draws (epoch_id, state, total_pool, opened_at)
		VALUES ($1, $2, $3, $4)`,
		draw.EpochID, draw.State, draw.TotalPool, draw.OpenedAt)
	if err != nil {
		return fmt.Errorf("failed to create draw for epoch %d: %w", draw.EpochID, err)
	}
	return nil
}

func (r *DrawRepository) scanDraw(row interface{ Scan(dest ...any) error }) (*entities.Draw, error) {
	var draw entities.Draw
	var winningNumbers []int32
	err := row.Scan(
		&draw.EpochID,
		&draw.State,
		&draw.RequestID,
		&draw.RequestedAt,
		&winningNumbers,
		&draw.TotalPool,
		&draw.CarriedJackpot,
		&draw.PlatformFee,
		&draw.TierPots,
		&draw.JackpotCarry,
		&draw.OpenedAt,
		&draw.CompletedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	draw.WinningNumbers = toInts(winningNumbers)
	return &draw, nil
}

// GetByEpoch returns a draw by epoch ID, nil if not found
func (r *DrawRepository) GetByEpoch(ctx context.Context, epochID int64) (*entities.Draw, error) {
	query := fmt.Sprintf("SELECT %s FROM draws WHERE epoch_id = $1", drawColumns)
	draw, err := r.scanDraw(r.q.QueryRow(ctx, query, epochID))
	if err != nil {
		return nil, fmt.Errorf("failed to get draw for epoch %d: %w", epochID, err)
	}
	return draw, nil
}

// GetByEpochForUpdate returns a draw holding a row lock until the enclosing
// transaction ends
func (r *DrawRepository) GetByEpochForUpdate(ctx context.Context, epochID int64) (*entities.Draw, error) {
	query := fmt.Sprintf("SELECT %s FROM draws WHERE epoch_id = $1 FOR UPDATE", drawColumns)
	draw, err := r.scanDraw(r.q.QueryRow(ctx, query, epochID))
	if err != nil {
		return nil, fmt.Errorf("failed to lock draw for epoch %d: %w", epochID, err)
	}
	return draw, nil
}

// GetByRequestIDForUpdate resolves an oracle correlation ID to its draw with
// a row lock, nil if no draw carries that request ID
func (r *DrawRepository) GetByRequestIDForUpdate(ctx context.Context, requestID string) (*entities.Draw, error) {
	query := fmt.Sprintf("SELECT %s FROM draws WHERE request_id = $1 FOR UPDATE", drawColumns)
	draw, err := r.scanDraw(r.q.QueryRow(ctx, query, requestID))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve randomness request %s: %w", requestID, err)
	}
	return draw, nil
}

// IncrementPool atomically adds a purchase's stake to an open draw's pool
func (r *DrawRepository) IncrementPool(ctx context.Context, epochID int64, amount int64) error {
	defer observability.GetMetrics().MeasureDatabaseQuery("draw", "IncrementPool")()

	tag, err := r.q.Exec(ctx, `
		UPDATE draws SET total_pool = total_pool + $2
		WHERE epoch_id = $1 AND state = $3`,
		epochID, amount, entities.DrawStateOpen)
	if err != nil {
		return fmt.Errorf("failed to increment pool for epoch %d: %w", epochID, err)
	}
	if tag.RowsAffected() == 0 {
		return services.ErrDrawAlreadyInProgress
	}
	return nil
}

// SetAwaitingRandomness freezes an open draw and records the oracle request
func (r *DrawRepository) SetAwaitingRandomness(ctx context.Context, epochID int64, requestID string, requestedAt time.Time) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE draws SET state = $2, request_id = $3, requested_at = $4
		WHERE epoch_id = $1 AND state = $5`,
		epochID, entities.DrawStateAwaitingRandomness, requestID, requestedAt, entities.DrawStateOpen)
	if err != nil {
		return fmt.Errorf("failed to freeze draw for epoch %d: %w", epochID, err)
	}
	if tag.RowsAffected() == 0 {
		return services.ErrDrawAlreadyInProgress
	}
	return nil
}

// ReplaceRequest swaps the outstanding oracle request of a parked draw. The
// old correlation ID becomes unresolvable, which is what invalidates a late
// fulfillment.
func (r *DrawRepository) ReplaceRequest(ctx context.Context, epochID int64, requestID string, requestedAt time.Time) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE draws SET request_id = $2, requested_at = $3
		WHERE epoch_id = $1 AND state = $4`,
		epochID, requestID, requestedAt, entities.DrawStateAwaitingRandomness)
	if err != nil {
		return fmt.Errorf("failed to replace request for epoch %d: %w", epochID, err)
	}
	if tag.RowsAffected() == 0 {
		return services.ErrRandomnessNotStuck
	}
	return nil
}

// Finalize persists a completed draw's winning numbers and pool breakdown
func (r *DrawRepository) Finalize(ctx context.Context, draw *entities.Draw) error {
	defer observability.GetMetrics().MeasureDatabaseQuery("draw", "Finalize")()

	tag, err := r.q.Exec(ctx, `
		UPDATE draws
		SET state = $2, winning_numbers = $3, carried_jackpot = $4,
		    platform_fee = $5, tier_pots = $6, jackpot_carry = $7, completed_at = $8
		WHERE epoch_id = $1 AND state = $9`,
		draw.EpochID, entities.DrawStateCompleted, toInt32s(draw.WinningNumbers),
		draw.CarriedJackpot, draw.PlatformFee, draw.TierPots, draw.JackpotCarry,
		draw.CompletedAt, entities.DrawStateAwaitingRandomness)
	if err != nil {
		return fmt.Errorf("failed to finalize draw for epoch %d: %w", draw.EpochID, err)
	}
	if tag.RowsAffected() == 0 {
		return services.ErrDrawNotFound
	}
	return nil
}
