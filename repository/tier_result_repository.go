package repository

import (
	"context"
	"fmt"

	"github.com/JGonCor/lottery-platform-sub001/domain/entities"
	"github.com/JGonCor/lottery-platform-sub001/domain/interfaces"
)

// TierResultRepository implements per-tier prize accounting. Pot and
// per-winner amounts are immutable after insert; only the enumeration cursor
// advances.
type TierResultRepository struct {
	q Queryable
}

func newTierResultRepository(tx Queryable) interfaces.TierResultRepository {
	return &TierResultRepository{q: tx}
}

// NewTierResultRepository creates a tier result repository over the given connection
func NewTierResultRepository(q Queryable) interfaces.TierResultRepository {
	return &TierResultRepository{q: q}
}

// CreateForEpoch records all tier results of a finalized draw
func (r *TierResultRepository) CreateForEpoch(ctx context.Context, results []*entities.TierResult) error {
	if len(results) == 0 {
		return nil
	}

	query := `
		INSERT INTO tier_results (epoch_id, match_count, winner_count, pot_amount, per_winner_amount, recorded_winners)
		VALUES `
	values := make([]interface{}, 0, len(results)*6)
	for i, result := range results {
		if i > 0 {
			query += ", "
		}
		paramOffset := i * 6
		query += fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d)",
			paramOffset+1, paramOffset+2, paramOffset+3, paramOffset+4, paramOffset+5, paramOffset+6)
		values = append(values, result.EpochID, result.MatchCount, result.WinnerCount,
			result.PotAmount, result.PerWinnerAmount, result.RecordedWinners)
	}

	if _, err := r.q.Exec(ctx, query, values...); err != nil {
		return fmt.Errorf("failed to create tier results: %w", err)
	}
	return nil
}

// Get returns one tier result, nil if not found
func (r *TierResultRepository) Get(ctx context.Context, epochID int64, matchCount int) (*entities.TierResult, error) {
	var result entities.TierResult
	err := r.q.QueryRow(ctx, `
		SELECT epoch_id, match_count, winner_count, pot_amount, per_winner_amount, recorded_winners
		FROM tier_results
		WHERE epoch_id = $1 AND match_count = $2`,
		epochID, matchCount).Scan(
		&result.EpochID,
		&result.MatchCount,
		&result.WinnerCount,
		&result.PotAmount,
		&result.PerWinnerAmount,
		&result.RecordedWinners,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get tier result for epoch %d tier %d: %w", epochID, matchCount, err)
	}
	return &result, nil
}

// ListForEpoch returns all tier results of an epoch ordered by match count
func (r *TierResultRepository) ListForEpoch(ctx context.Context, epochID int64) ([]*entities.TierResult, error) {
	rows, err := r.q.Query(ctx, `
		SELECT epoch_id, match_count, winner_count, pot_amount, per_winner_amount, recorded_winners
		FROM tier_results
		WHERE epoch_id = $1
		ORDER BY match_count ASC`, epochID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tier results for epoch %d: %w", epochID, err)
	}
	defer rows.Close()

	var results []*entities.TierResult
	for rows.Next() {
		var result entities.TierResult
		err := rows.Scan(
			&result.EpochID,
			&result.MatchCount,
			&result.WinnerCount,
			&result.PotAmount,
			&result.PerWinnerAmount,
			&result.RecordedWinners,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tier result: %w", err)
		}
		results = append(results, &result)
	}
	return results, rows.Err()
}

// AdvanceRecordedWinners moves the deferred winner-enumeration cursor. The
// guard keeps the cursor from ever passing the winner count.
func (r *TierResultRepository) AdvanceRecordedWinners(ctx context.Context, epochID int64, matchCount int, count int64) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE tier_results SET recorded_winners = recorded_winners + $3
		WHERE epoch_id = $1 AND match_count = $2 AND recorded_winners + $3 <= winner_count`,
		epochID, matchCount, count)
	if err != nil {
		return fmt.Errorf("failed to advance winner cursor for epoch %d tier %d: %w", epochID, matchCount, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("winner cursor for epoch %d tier %d cannot advance by %d", epochID, matchCount, count)
	}
	return nil
}
