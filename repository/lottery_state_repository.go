package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/JGonCor/lottery-platform-sub001/domain/entities"
	"github.com/JGonCor/lottery-platform-sub001/domain/interfaces"
)

// LotteryStateRepository implements access to the singleton lottery state
// row. The row is seeded by migration; there is exactly one.
type LotteryStateRepository struct {
	q Queryable
}

func newLotteryStateRepository(tx Queryable) interfaces.LotteryStateRepository {
	return &LotteryStateRepository{q: tx}
}

// NewLotteryStateRepository creates a state repository over the given connection
func NewLotteryStateRepository(q Queryable) interfaces.LotteryStateRepository {
	return &LotteryStateRepository{q: q}
}

const stateColumns = "paused, fee_recipient, accumulated_jackpot, current_epoch_id, last_draw_time, updated_at"

func (r *LotteryStateRepository) get(ctx context.Context, forUpdate bool) (*entities.LotteryState, error) {
	query := fmt.Sprintf("SELECT %s FROM lottery_state WHERE singleton", stateColumns)
	if forUpdate {
		query += " FOR UPDATE"
	}

	var state entities.LotteryState
	err := r.q.QueryRow(ctx, query).Scan(
		&state.Paused,
		&state.FeeRecipient,
		&state.AccumulatedJackpot,
		&state.CurrentEpochID,
		&state.LastDrawTime,
		&state.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get lottery state: %w", err)
	}
	return &state, nil
}

// Get returns the current state
func (r *LotteryStateRepository) Get(ctx context.Context) (*entities.LotteryState, error) {
	return r.get(ctx, false)
}

// GetForUpdate returns the state holding a row lock until the enclosing
// transaction ends. Serializes draw triggering.
func (r *LotteryStateRepository) GetForUpdate(ctx context.Context) (*entities.LotteryState, error) {
	return r.get(ctx, true)
}

// SetPaused toggles the pause flag
func (r *LotteryStateRepository) SetPaused(ctx context.Context, paused bool) error {
	if _, err := r.q.Exec(ctx,
		"UPDATE lottery_state SET paused = $1, updated_at = NOW() WHERE singleton", paused); err != nil {
		return fmt.Errorf("failed to set paused: %w", err)
	}
	return nil
}

// SetFeeRecipient changes the platform fee recipient
func (r *LotteryStateRepository) SetFeeRecipient(ctx context.Context, recipient string) error {
	if _, err := r.q.Exec(ctx,
		"UPDATE lottery_state SET fee_recipient = $1, updated_at = NOW() WHERE singleton", recipient); err != nil {
		return fmt.Errorf("failed to set fee recipient: %w", err)
	}
	return nil
}

// SetAccumulatedJackpot replaces the carried jackpot amount
func (r *LotteryStateRepository) SetAccumulatedJackpot(ctx context.Context, amount int64) error {
	if _, err := r.q.Exec(ctx,
		"UPDATE lottery_state SET accumulated_jackpot = $1, updated_at = NOW() WHERE singleton", amount); err != nil {
		return fmt.Errorf("failed to set accumulated jackpot: %w", err)
	}
	return nil
}

// AdvanceEpoch moves ticket admission to a new epoch and records the draw
// time that just fired
func (r *LotteryStateRepository) AdvanceEpoch(ctx context.Context, epochID int64, drawTime time.Time) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE lottery_state
		SET current_epoch_id = $1, last_draw_time = $2, updated_at = NOW()
		WHERE singleton AND current_epoch_id < $1`,
		epochID, drawTime)
	if err != nil {
		return fmt.Errorf("failed to advance epoch: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("epoch cannot move backwards to %d", epochID)
	}
	return nil
}
