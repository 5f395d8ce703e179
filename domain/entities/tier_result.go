package entities

// TierResult records the outcome of one prize tier of one finalized draw.
// PotAmount and PerWinnerAmount are fixed when the tier closes; the deferred
// winner-enumeration batches never change them.
type TierResult struct {
	EpochID         int64 `db:"epoch_id"`
	MatchCount      int   `db:"match_count"` // 2..6
	WinnerCount     int64 `db:"winner_count"`
	PotAmount       int64 `db:"pot_amount"`
	PerWinnerAmount int64 `db:"per_winner_amount"`
	RecordedWinners int64 `db:"recorded_winners"` // cursor for deferred winner enumeration
}

// HasBacklog returns true while winner records remain to be enumerated for
// this tier.
func (r *TierResult) HasBacklog() bool {
	return r.RecordedWinners < r.WinnerCount
}
