package entities

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"math/big"
	"sort"
	"time"
)

// DrawState enumerates the draw lifecycle.
// OPEN -> AWAITING_RANDOMNESS -> CALCULATING -> COMPLETED; a new OPEN draw
// for the next epoch is created the moment randomness is requested, so ticket
// admission never mixes into a draw already in flight.
type DrawState string

const (
	DrawStateOpen               DrawState = "open"
	DrawStateAwaitingRandomness DrawState = "awaiting_randomness"
	DrawStateCalculating        DrawState = "calculating"
	DrawStateCompleted          DrawState = "completed"
)

// PayingTiers is the number of prize tiers (match counts 2 through 6).
const PayingTiers = 5

var ErrSeedTooShort = errors.New("randomness seed too short")

// Draw represents one epoch of the lottery: ticket sales, a randomness
// request, and the finalized results. Terminal once completed.
type Draw struct {
	EpochID        int64      `db:"epoch_id"`
	State          DrawState  `db:"state"`
	RequestID      *string    `db:"request_id"`      // oracle correlation id, set on request
	RequestedAt    *time.Time `db:"requested_at"`    // when randomness was requested
	WinningNumbers []int      `db:"winning_numbers"` // NULL until finalized; stored sorted
	TotalPool      int64      `db:"total_pool"`
	CarriedJackpot int64      `db:"carried_jackpot"` // rollover carried into this draw's top tier
	PlatformFee    int64      `db:"platform_fee"`
	TierPots       []int64    `db:"tier_pots"` // allocated pots for match counts 2..6
	JackpotCarry   int64      `db:"jackpot_carry"` // rollover carried out to the next draw
	OpenedAt       time.Time  `db:"opened_at"`
	CompletedAt    *time.Time `db:"completed_at"`
}

// IsCompleted returns true once the draw has been finalized.
func (d *Draw) IsCompleted() bool {
	return d.CompletedAt != nil
}

// IsOpen returns true while tickets may still be admitted to this draw.
func (d *Draw) IsOpen() bool {
	return d.State == DrawStateOpen
}

// TierIndex maps a match count in [2,6] to an index into TierPots.
func TierIndex(matchCount int) int {
	return matchCount - MinMatchForPrize
}

// TierPot returns the pot allocated to the given match count, zero if the
// draw is not finalized or the match count does not pay.
func (d *Draw) TierPot(matchCount int) int64 {
	if matchCount < MinMatchForPrize || matchCount > NumbersPerTicket || len(d.TierPots) != PayingTiers {
		return 0
	}
	return d.TierPots[TierIndex(matchCount)]
}

// Complete finalizes the draw in memory with the winning numbers and the
// computed pool breakdown.
func (d *Draw) Complete(winningNumbers []int, breakdown PoolBreakdown, completedAt time.Time) {
	d.State = DrawStateCompleted
	d.WinningNumbers = winningNumbers
	d.PlatformFee = breakdown.PlatformFee
	d.TierPots = breakdown.TierPots[:]
	d.JackpotCarry = breakdown.JackpotCarry
	d.CompletedAt = &completedAt
}

// GenerateWinningNumbers derives six distinct winning numbers from one
// externally supplied random seed using a partial Fisher-Yates shuffle over
// the ordered universe [MinNumber..MaxNumber]. Each swap index is drawn from
// an independent 256-bit slice obtained by hashing the seed with a counter,
// so there is no retry loop and no observable modulo bias. The result is
// sorted ascending for storage and lookup consistency.
func GenerateWinningNumbers(seed []byte) ([]int, error) {
	if len(seed) < 8 {
		return nil, ErrSeedTooShort
	}

	universe := make([]int, MaxNumber-MinNumber+1)
	for i := range universe {
		universe[i] = MinNumber + i
	}

	for i := 0; i < NumbersPerTicket; i++ {
		span := int64(len(universe) - i)
		j := int64(i) + uniformIndex(seed, uint64(i), span)
		universe[i], universe[j] = universe[j], universe[i]
	}

	picked := make([]int, NumbersPerTicket)
	copy(picked, universe[:NumbersPerTicket])
	sort.Ints(picked)
	return picked, nil
}

// uniformIndex reduces sha256(seed || counter) interpreted as a 256-bit
// integer modulo span. With span <= 49 the bias is below 2^-248, i.e. far
// beneath the entropy of any realistic seed.
func uniformIndex(seed []byte, counter uint64, span int64) int64 {
	h := sha256.New()
	h.Write(seed)
	var ctr [8]byte
	binary.BigEndian.PutUint64(ctr[:], counter)
	h.Write(ctr[:])

	v := new(big.Int).SetBytes(h.Sum(nil))
	return v.Mod(v, big.NewInt(span)).Int64()
}

// PoolBreakdown is the exact integer split of one draw's pool.
// Invariant: PlatformFee + sum(TierPots) + JackpotCarry + Remainder
// == totalPool + carriedJackpot. The remainder stays in the reserve; it is
// never discarded to a party and never double-paid.
type PoolBreakdown struct {
	PlatformFee  int64
	TierPots     [PayingTiers]int64 // allocated pots for match counts 2..6
	PerWinner    [PayingTiers]int64
	JackpotCarry int64
	Remainder    int64
}

// ComputePoolBreakdown splits a finalized draw's pool across the platform fee
// and the match tiers. tierBps holds the tier shares for match counts 2..6 in
// basis points of the post-fee pool and must sum to 10000. The carried
// jackpot joins the top tier only. Any tier with zero winners rolls its pot
// into JackpotCarry; per-winner integer-division dust lands in Remainder.
func ComputePoolBreakdown(totalPool, carriedJackpot int64, feeBps int64, tierBps [PayingTiers]int64, winnerCounts [PayingTiers]int64) (PoolBreakdown, error) {
	var sumBps int64
	for _, bps := range tierBps {
		sumBps += bps
	}
	if sumBps != 10000 {
		return PoolBreakdown{}, fmt.Errorf("tier shares must sum to 10000 bps, got %d", sumBps)
	}

	var b PoolBreakdown
	b.PlatformFee = totalPool * feeBps / 10000
	distributable := totalPool - b.PlatformFee

	var allocated int64
	for i := 0; i < PayingTiers; i++ {
		b.TierPots[i] = distributable * tierBps[i] / 10000
		allocated += b.TierPots[i]
	}
	// Share flooring leaves dust behind even though the shares sum to 100%.
	b.Remainder = distributable - allocated

	// Rollover from earlier no-winner draws compounds into the top tier.
	b.TierPots[PayingTiers-1] += carriedJackpot

	for i := 0; i < PayingTiers; i++ {
		if winnerCounts[i] == 0 {
			b.JackpotCarry += b.TierPots[i]
			b.TierPots[i] = 0
			continue
		}
		b.PerWinner[i] = b.TierPots[i] / winnerCounts[i]
		b.Remainder += b.TierPots[i] - b.PerWinner[i]*winnerCounts[i]
		b.TierPots[i] = b.PerWinner[i] * winnerCounts[i]
	}

	return b, nil
}

// Total returns the amount the breakdown accounts for; callers can assert it
// equals totalPool + carriedJackpot.
func (b PoolBreakdown) Total() int64 {
	total := b.PlatformFee + b.JackpotCarry + b.Remainder
	for _, pot := range b.TierPots {
		total += pot
	}
	return total
}
