package entities

import "time"

// LotteryState is the singleton operational record of the lottery: which
// epoch is selling tickets, when the last draw fired, the compounding
// jackpot, and the pause/fee-recipient administrative settings. All
// mutations funnel through the state repository under a row lock.
type LotteryState struct {
	Paused             bool      `db:"paused"`
	FeeRecipient       string    `db:"fee_recipient"`
	AccumulatedJackpot int64     `db:"accumulated_jackpot"`
	CurrentEpochID     int64     `db:"current_epoch_id"`
	LastDrawTime       time.Time `db:"last_draw_time"`
	UpdatedAt          time.Time `db:"updated_at"`
}

// NextDrawDue reports whether an automatic draw should fire.
func (s *LotteryState) NextDrawDue(now time.Time, interval time.Duration) bool {
	return !now.Before(s.LastDrawTime.Add(interval))
}

// TimeUntilNextDraw returns the remaining wait before the next automatic
// draw, zero if one is already due.
func (s *LotteryState) TimeUntilNextDraw(now time.Time, interval time.Duration) time.Duration {
	remaining := s.LastDrawTime.Add(interval).Sub(now)
	if remaining < 0 {
		return 0
	}
	return remaining
}
