package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/JGonCor/lottery-platform-sub001/domain/entities"
	"github.com/JGonCor/lottery-platform-sub001/domain/interfaces"
	"github.com/JGonCor/lottery-platform-sub001/domain/services"
	"github.com/JGonCor/lottery-platform-sub001/infrastructure/observability"

	"github.com/jackc/pgx/v5"
)

// TicketRepository implements ticket data access. Tickets are append-only;
// match_count and claimed are each written exactly once, enforced by guarded
// UPDATE statements rather than application state.
type TicketRepository struct {
	q Queryable
}

func newTicketRepository(tx Queryable) interfaces.TicketRepository {
	return &TicketRepository{q: tx}
}

// NewTicketRepository creates a ticket repository over the given connection
func NewTicketRepository(q Queryable) interfaces.TicketRepository {
	return &TicketRepository{q: q}
}

const ticketColumns = "id, epoch_id, owner, numbers, price_paid, discount_bps, match_count, claimed, claimed_at, purchased_at"

// CreateBatch inserts all tickets of one purchase in a single batch insert
func (r *TicketRepository) CreateBatch(ctx context.Context, tickets []*entities.Ticket) error {
	defer observability.GetMetrics().MeasureDatabaseQuery("ticket", "CreateBatch")()

	if len(tickets) == 0 {
		return nil
	}

	query := `
		INSERT INTO tickets (epoch_id, owner, numbers, price_paid, discount_bps, purchased_at)
		VALUES `

	values := make([]interface{}, 0, len(tickets)*6)
	for i, ticket := range tickets {
		if i > 0 {
			query += ", "
		}
		paramOffset := i * 6
		query += fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d)",
			paramOffset+1, paramOffset+2, paramOffset+3, paramOffset+4, paramOffset+5, paramOffset+6)
		values = append(values, ticket.EpochID, ticket.Owner, toInt32s(ticket.Numbers),
			ticket.PricePaid, ticket.DiscountBps, ticket.PurchasedAt)
	}
	query += " RETURNING id"

	rows, err := r.q.Query(ctx, query, values...)
	if err != nil {
		return fmt.Errorf("failed to batch create tickets: %w", err)
	}
	defer rows.Close()

	i := 0
	for rows.Next() {
		if err := rows.Scan(&tickets[i].ID); err != nil {
			return fmt.Errorf("failed to scan ticket id: %w", err)
		}
		i++
	}

	return rows.Err()
}

func (r *TicketRepository) getByID(ctx context.Context, id int64, forUpdate bool) (*entities.Ticket, error) {
	query := fmt.Sprintf("SELECT %s FROM tickets WHERE id = $1", ticketColumns)
	if forUpdate {
		query += " FOR UPDATE"
	}

	var ticket entities.Ticket
	var numbers []int32
	err := r.q.QueryRow(ctx, query, id).Scan(
		&ticket.ID,
		&ticket.EpochID,
		&ticket.Owner,
		&numbers,
		&ticket.PricePaid,
		&ticket.DiscountBps,
		&ticket.MatchCount,
		&ticket.Claimed,
		&ticket.ClaimedAt,
		&ticket.PurchasedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get ticket %d: %w", id, err)
	}
	ticket.Numbers = toInts(numbers)
	return &ticket, nil
}

// GetByID returns a ticket by ID, nil if not found
func (r *TicketRepository) GetByID(ctx context.Context, id int64) (*entities.Ticket, error) {
	return r.getByID(ctx, id, false)
}

// GetByIDForUpdate returns a ticket by ID holding a row lock until the
// enclosing transaction ends
func (r *TicketRepository) GetByIDForUpdate(ctx context.Context, id int64) (*entities.Ticket, error) {
	return r.getByID(ctx, id, true)
}

// CountForEpoch returns the number of tickets admitted to an epoch
func (r *TicketRepository) CountForEpoch(ctx context.Context, epochID int64) (int64, error) {
	var count int64
	err := r.q.QueryRow(ctx,
		"SELECT COUNT(*) FROM tickets WHERE epoch_id = $1", epochID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count tickets for epoch %d: %w", epochID, err)
	}
	return count, nil
}

// ListForEpoch pages through an epoch's tickets in ID order
func (r *TicketRepository) ListForEpoch(ctx context.Context, epochID, afterID int64, limit int) ([]*entities.Ticket, error) {
	defer observability.GetMetrics().MeasureDatabaseQuery("ticket", "ListForEpoch")()

	query := fmt.Sprintf(`
		SELECT %s FROM tickets
		WHERE epoch_id = $1 AND id > $2
		ORDER BY id ASC
		LIMIT $3`, ticketColumns)

	rows, err := r.q.Query(ctx, query, epochID, afterID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list tickets for epoch %d: %w", epochID, err)
	}
	defer rows.Close()

	return scanTickets(rows)
}

// RecordResult writes a ticket's match count exactly once. The WHERE clause
// is the write-once guard: a second write matches zero rows.
func (r *TicketRepository) RecordResult(ctx context.Context, ticketID int64, matchCount int) error {
	defer observability.GetMetrics().MeasureDatabaseQuery("ticket", "RecordResult")()

	tag, err := r.q.Exec(ctx, `
		UPDATE tickets SET match_count = $2
		WHERE id = $1 AND match_count IS NULL`,
		ticketID, matchCount)
	if err != nil {
		return fmt.Errorf("failed to record result for ticket %d: %w", ticketID, err)
	}
	if tag.RowsAffected() == 0 {
		return services.ErrAlreadyScored
	}
	return nil
}

// MarkClaimed flips a ticket's claimed flag exactly once
func (r *TicketRepository) MarkClaimed(ctx context.Context, ticketID int64, claimedAt time.Time) error {
	defer observability.GetMetrics().MeasureDatabaseQuery("ticket", "MarkClaimed")()

	tag, err := r.q.Exec(ctx, `
		UPDATE tickets SET claimed = TRUE, claimed_at = $2
		WHERE id = $1 AND NOT claimed`,
		ticketID, claimedAt)
	if err != nil {
		return fmt.Errorf("failed to mark ticket %d claimed: %w", ticketID, err)
	}
	if tag.RowsAffected() == 0 {
		return services.ErrAlreadyClaimed
	}
	return nil
}

// CountByMatch returns the number of scored tickets per match count
func (r *TicketRepository) CountByMatch(ctx context.Context, epochID int64) (map[int]int64, error) {
	rows, err := r.q.Query(ctx, `
		SELECT match_count, COUNT(*)
		FROM tickets
		WHERE epoch_id = $1 AND match_count IS NOT NULL
		GROUP BY match_count`, epochID)
	if err != nil {
		return nil, fmt.Errorf("failed to count tickets by match for epoch %d: %w", epochID, err)
	}
	defer rows.Close()

	counts := make(map[int]int64)
	for rows.Next() {
		var matchCount int
		var count int64
		if err := rows.Scan(&matchCount, &count); err != nil {
			return nil, fmt.Errorf("failed to scan match count row: %w", err)
		}
		counts[matchCount] = count
	}
	return counts, rows.Err()
}

// ListUnrecordedWinners returns winning tickets of a tier that have no winner
// record yet, in ID order so enumeration batches never overlap
func (r *TicketRepository) ListUnrecordedWinners(ctx context.Context, epochID int64, matchCount int, limit int) ([]*entities.Ticket, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM tickets t
		WHERE t.epoch_id = $1 AND t.match_count = $2
		  AND NOT EXISTS (SELECT 1 FROM winners w WHERE w.ticket_id = t.id)
		ORDER BY t.id ASC
		LIMIT $3`, prefixedTicketColumns("t"))

	rows, err := r.q.Query(ctx, query, epochID, matchCount, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list unrecorded winners for epoch %d tier %d: %w", epochID, matchCount, err)
	}
	defer rows.Close()

	return scanTickets(rows)
}

// SumUnclaimedPrizes totals the per-winner amounts of unclaimed winning
// tickets of an epoch
func (r *TicketRepository) SumUnclaimedPrizes(ctx context.Context, epochID int64) (int64, error) {
	var total int64
	err := r.q.QueryRow(ctx, `
		SELECT COALESCE(SUM(tr.per_winner_amount), 0)
		FROM tickets t
		JOIN tier_results tr ON tr.epoch_id = t.epoch_id AND tr.match_count = t.match_count
		WHERE t.epoch_id = $1 AND NOT t.claimed`, epochID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum unclaimed prizes for epoch %d: %w", epochID, err)
	}
	return total, nil
}

func prefixedTicketColumns(alias string) string {
	return fmt.Sprintf("%s.id, %s.epoch_id, %s.owner, %s.numbers, %s.price_paid, %s.discount_bps, %s.match_count, %s.claimed, %s.claimed_at, %s.purchased_at",
		alias, alias, alias, alias, alias, alias, alias, alias, alias, alias)
}

func scanTickets(rows pgx.Rows) ([]*entities.Ticket, error) {
	var tickets []*entities.Ticket
	for rows.Next() {
		var ticket entities.Ticket
		var numbers []int32
		err := rows.Scan(
			&ticket.ID,
			&ticket.EpochID,
			&ticket.Owner,
			&numbers,
			&ticket.PricePaid,
			&ticket.DiscountBps,
			&ticket.MatchCount,
			&ticket.Claimed,
			&ticket.ClaimedAt,
			&ticket.PurchasedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ticket: %w", err)
		}
		ticket.Numbers = toInts(numbers)
		tickets = append(tickets, &ticket)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tickets: %w", err)
	}
	return tickets, nil
}
