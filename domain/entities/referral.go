package entities

import "time"

// Referral records that an account was referred by another. One referrer per
// account, written once at registration.
type Referral struct {
	Account   string    `db:"account"`
	Referrer  string    `db:"referrer"`
	CreatedAt time.Time `db:"created_at"`
}

// Winner records one winning ticket's entitlement within a tier of a
// finalized draw. Rows are enumerated in bounded batches after finalization;
// the per-winner amount they mirror is fixed in the tier result.
type Winner struct {
	ID         int64     `db:"id"`
	EpochID    int64     `db:"epoch_id"`
	MatchCount int       `db:"match_count"`
	TicketID   int64     `db:"ticket_id"`
	Owner      string    `db:"owner"`
	Amount     int64     `db:"amount"`
	CreatedAt  time.Time `db:"created_at"`
}
