package entities

import (
	"crypto/rand"
	"encoding/binary"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// defaultTierBps mirrors the production split: 50/20/15/10/5 percent of the
// post-fee pool for match counts 6/5/4/3/2.
var defaultTierBps = [PayingTiers]int64{500, 1000, 1500, 2000, 5000}

func TestGenerateWinningNumbers_Determinism(t *testing.T) {
	t.Parallel()

	seed := []byte("0123456789abcdef0123456789abcdef")

	first, err := GenerateWinningNumbers(seed)
	require.NoError(t, err)
	second, err := GenerateWinningNumbers(seed)
	require.NoError(t, err)

	assert.Equal(t, first, second, "same seed must produce the same draw")
}

func TestGenerateWinningNumbers_ValidSet(t *testing.T) {
	t.Parallel()

	seed := make([]byte, 32)
	for trial := 0; trial < 1000; trial++ {
		_, err := rand.Read(seed)
		require.NoError(t, err)

		numbers, err := GenerateWinningNumbers(seed)
		require.NoError(t, err)

		// Every draw must itself be a valid ticket number set.
		assert.NoError(t, ValidateNumbers(numbers))

		// Sorted ascending for storage consistency.
		for i := 1; i < len(numbers); i++ {
			assert.Less(t, numbers[i-1], numbers[i])
		}
	}
}

func TestGenerateWinningNumbers_RejectsShortSeed(t *testing.T) {
	t.Parallel()

	_, err := GenerateWinningNumbers([]byte{1, 2, 3})
	assert.ErrorIs(t, err, ErrSeedTooShort)
}

// TestGenerateWinningNumbers_Distribution draws from a large set of distinct
// seeds and checks that every number of the universe appears with a frequency
// close to the expected 6/49. A heavily biased generator (for example one
// that favored low numbers through naive modulo reduction of a small slice)
// fails this comfortably.
func TestGenerateWinningNumbers_Distribution(t *testing.T) {
	t.Parallel()

	const draws = 20000
	counts := make(map[int]int, MaxNumber)

	seed := make([]byte, 32)
	for i := 0; i < draws; i++ {
		binary.BigEndian.PutUint64(seed, uint64(i))
		numbers, err := GenerateWinningNumbers(seed)
		require.NoError(t, err)
		for _, n := range numbers {
			counts[n]++
		}
	}

	expected := float64(draws*NumbersPerTicket) / float64(MaxNumber-MinNumber+1)
	for n := MinNumber; n <= MaxNumber; n++ {
		freq := float64(counts[n])
		// 10% tolerance is ~5 sigma at this sample size.
		assert.InDelta(t, expected, freq, expected*0.10, "number %d drawn %v times, expected ~%v", n, freq, expected)
	}
}

func TestComputePoolBreakdown_ExactAccounting(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		totalPool      int64
		carriedJackpot int64
		winnerCounts   [PayingTiers]int64
	}{
		{"no winners anywhere", 1_000_000, 0, [PayingTiers]int64{}},
		{"single jackpot winner", 1_000_000, 0, [PayingTiers]int64{0, 0, 0, 0, 1}},
		{"winners in every tier", 999_983, 123_457, [PayingTiers]int64{17, 11, 7, 3, 2}},
		{"carried jackpot with no winners", 500_000, 2_000_000, [PayingTiers]int64{}},
		{"awkward odd pool", 7, 0, [PayingTiers]int64{1, 1, 1, 1, 1}},
		{"zero pool", 0, 0, [PayingTiers]int64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := ComputePoolBreakdown(tt.totalPool, tt.carriedJackpot, 1000, defaultTierBps, tt.winnerCounts)
			require.NoError(t, err)

			// The money invariant: nothing lost, nothing duplicated.
			assert.Equal(t, tt.totalPool+tt.carriedJackpot, b.Total())
			assert.GreaterOrEqual(t, b.Remainder, int64(0))

			for i := 0; i < PayingTiers; i++ {
				if tt.winnerCounts[i] == 0 {
					assert.Zero(t, b.TierPots[i], "zero-winner tier %d must roll over", i+MinMatchForPrize)
					assert.Zero(t, b.PerWinner[i])
				} else {
					assert.Equal(t, b.PerWinner[i]*tt.winnerCounts[i], b.TierPots[i])
				}
			}
		})
	}
}

func TestComputePoolBreakdown_SoleJackpotWinnerShare(t *testing.T) {
	t.Parallel()

	// A lone six-match winner takes 50% of the post-fee pool:
	// 1_000_000 * 0.9 * 0.50 = 450_000.
	b, err := ComputePoolBreakdown(1_000_000, 0, 1000, defaultTierBps, [PayingTiers]int64{0, 0, 0, 0, 1})
	require.NoError(t, err)

	assert.Equal(t, int64(100_000), b.PlatformFee)
	assert.Equal(t, int64(450_000), b.PerWinner[TierIndex(6)])
}

func TestComputePoolBreakdown_ZeroWinnerTopTierRollsOver(t *testing.T) {
	t.Parallel()

	// Tier 6 has no winner: its 50% share joins the carry. Lower tiers with
	// winners keep their pots.
	b, err := ComputePoolBreakdown(1_000_000, 0, 1000, defaultTierBps, [PayingTiers]int64{1, 1, 1, 1, 0})
	require.NoError(t, err)

	assert.Equal(t, int64(450_000), b.JackpotCarry)
	assert.Equal(t, int64(180_000), b.TierPots[TierIndex(5)])

	// The carry compounds into the next draw's top tier.
	next, err := ComputePoolBreakdown(1_000_000, b.JackpotCarry, 1000, defaultTierBps, [PayingTiers]int64{0, 0, 0, 0, 1})
	require.NoError(t, err)
	assert.Equal(t, int64(450_000+450_000), next.PerWinner[TierIndex(6)])
}

func TestComputePoolBreakdown_RejectsBadShares(t *testing.T) {
	t.Parallel()

	bad := [PayingTiers]int64{500, 1000, 1500, 2000, 4999}
	_, err := ComputePoolBreakdown(1000, 0, 1000, bad, [PayingTiers]int64{})
	assert.Error(t, err)
}

func TestDraw_Complete(t *testing.T) {
	t.Parallel()

	draw := &Draw{
		EpochID:        7,
		State:          DrawStateCalculating,
		TotalPool:      1_000_000,
		CarriedJackpot: 50_000,
		OpenedAt:       time.Now().Add(-24 * time.Hour),
	}

	b, err := ComputePoolBreakdown(draw.TotalPool, draw.CarriedJackpot, 1000, defaultTierBps, [PayingTiers]int64{0, 0, 0, 0, 2})
	require.NoError(t, err)

	completedAt := time.Now()
	draw.Complete([]int{1, 2, 3, 4, 5, 6}, b, completedAt)

	assert.True(t, draw.IsCompleted())
	assert.False(t, draw.IsOpen())
	assert.Equal(t, DrawStateCompleted, draw.State)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, draw.WinningNumbers)
	assert.Equal(t, b.TierPots[TierIndex(6)], draw.TierPot(6))
	assert.Zero(t, draw.TierPot(1))
	assert.Zero(t, draw.TierPot(7))
}
