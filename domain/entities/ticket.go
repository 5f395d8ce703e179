package entities

import (
	"time"
)

// Ticket represents a purchased lottery ticket. Owner and Numbers are
// immutable after creation; MatchCount is written once when the ticket's
// epoch is finalized and Claimed flips once when the prize is paid.
type Ticket struct {
	ID          int64      `db:"id"`
	EpochID     int64      `db:"epoch_id"`
	Owner       string     `db:"owner"`
	Numbers     []int      `db:"numbers"` // stored sorted ascending
	PricePaid   int64      `db:"price_paid"`
	DiscountBps int        `db:"discount_bps"`
	MatchCount  *int       `db:"match_count"` // NULL until scored
	Claimed     bool       `db:"claimed"`
	ClaimedAt   *time.Time `db:"claimed_at"`
	PurchasedAt time.Time  `db:"purchased_at"`
}

// IsScored returns true once the draw state machine has recorded a match count.
func (t *Ticket) IsScored() bool {
	return t.MatchCount != nil
}

// IsWinner returns true if the scored match count reaches a paying tier.
func (t *Ticket) IsWinner() bool {
	return t.MatchCount != nil && *t.MatchCount >= MinMatchForPrize
}

// MatchAgainst computes the match count of this ticket against a set of
// winning numbers. It does not mutate the ticket.
func (t *Ticket) MatchAgainst(winningNumbers []int) int {
	return CountMatches(t.Numbers, winningNumbers)
}
