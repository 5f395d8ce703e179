package repository

import (
	"context"
	"fmt"

	"github.com/JGonCor/lottery-platform-sub001/domain/entities"
	"github.com/JGonCor/lottery-platform-sub001/domain/interfaces"
	"github.com/JGonCor/lottery-platform-sub001/infrastructure/observability"
)

// WinnerRepository implements the enumerated winner ledger. A ticket appears
// at most once; the unique constraint on ticket_id backs the batch-resume
// idempotency.
type WinnerRepository struct {
	q Queryable
}

func newWinnerRepository(tx Queryable) interfaces.WinnerRepository {
	return &WinnerRepository{q: tx}
}

// NewWinnerRepository creates a winner repository over the given connection
func NewWinnerRepository(q Queryable) interfaces.WinnerRepository {
	return &WinnerRepository{q: q}
}

// CreateBatch records a batch of enumerated winners
func (r *WinnerRepository) CreateBatch(ctx context.Context, winners []*entities.Winner) error {
	defer observability.GetMetrics().MeasureDatabaseQuery("winner", "CreateBatch")()

	if len(winners) == 0 {
		return nil
	}

	query := `
		INSERT INTO winners (epoch_id, match_count, ticket_id, owner, amount)
		VALUES `
	values := make([]interface{}, 0, len(winners)*5)
	for i, winner := range winners {
		if i > 0 {
			query += ", "
		}
		paramOffset := i * 5
		query += fmt.Sprintf("($%d, $%d, $%d, $%d, $%d)",
			paramOffset+1, paramOffset+2, paramOffset+3, paramOffset+4, paramOffset+5)
		values = append(values, winner.EpochID, winner.MatchCount, winner.TicketID,
			winner.Owner, winner.Amount)
	}
	query += " RETURNING id, created_at"

	rows, err := r.q.Query(ctx, query, values...)
	if err != nil {
		return fmt.Errorf("failed to batch create winners: %w", err)
	}
	defer rows.Close()

	i := 0
	for rows.Next() {
		if err := rows.Scan(&winners[i].ID, &winners[i].CreatedAt); err != nil {
			return fmt.Errorf("failed to scan winner id: %w", err)
		}
		i++
	}
	return rows.Err()
}

// ListByTier returns enumerated winners for one tier of one epoch
func (r *WinnerRepository) ListByTier(ctx context.Context, epochID int64, matchCount int) ([]*entities.Winner, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, epoch_id, match_count, ticket_id, owner, amount, created_at
		FROM winners
		WHERE epoch_id = $1 AND match_count = $2
		ORDER BY ticket_id ASC`, epochID, matchCount)
	if err != nil {
		return nil, fmt.Errorf("failed to list winners for epoch %d tier %d: %w", epochID, matchCount, err)
	}
	defer rows.Close()

	var winners []*entities.Winner
	for rows.Next() {
		var winner entities.Winner
		err := rows.Scan(
			&winner.ID,
			&winner.EpochID,
			&winner.MatchCount,
			&winner.TicketID,
			&winner.Owner,
			&winner.Amount,
			&winner.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan winner: %w", err)
		}
		winners = append(winners, &winner)
	}
	return winners, rows.Err()
}
