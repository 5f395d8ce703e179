package repository

import (
	"context"
	"testing"
	"time"

	"github.com/JGonCor/lottery-platform-sub001/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLotteryStateRepository(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewLotteryStateRepository(testDB.DB)
	ctx := context.Background()

	t.Run("seeded singleton", func(t *testing.T) {
		state, err := repo.Get(ctx)
		require.NoError(t, err)
		assert.False(t, state.Paused)
		assert.Equal(t, int64(1), state.CurrentEpochID)
		assert.Zero(t, state.AccumulatedJackpot)
	})

	t.Run("pause and resume", func(t *testing.T) {
		require.NoError(t, repo.SetPaused(ctx, true))
		state, err := repo.Get(ctx)
		require.NoError(t, err)
		assert.True(t, state.Paused)

		require.NoError(t, repo.SetPaused(ctx, false))
		state, err = repo.Get(ctx)
		require.NoError(t, err)
		assert.False(t, state.Paused)
	})

	t.Run("fee recipient and jackpot", func(t *testing.T) {
		require.NoError(t, repo.SetFeeRecipient(ctx, "treasury-ops"))
		require.NoError(t, repo.SetAccumulatedJackpot(ctx, 45_000_000))

		state, err := repo.Get(ctx)
		require.NoError(t, err)
		assert.Equal(t, "treasury-ops", state.FeeRecipient)
		assert.Equal(t, int64(45_000_000), state.AccumulatedJackpot)
	})

	t.Run("epoch only advances forward", func(t *testing.T) {
		drawTime := time.Now().UTC().Truncate(time.Microsecond)
		require.NoError(t, repo.AdvanceEpoch(ctx, 2, drawTime))

		state, err := repo.Get(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(2), state.CurrentEpochID)
		assert.WithinDuration(t, drawTime, state.LastDrawTime, time.Second)

		assert.Error(t, repo.AdvanceEpoch(ctx, 2, drawTime))
		assert.Error(t, repo.AdvanceEpoch(ctx, 1, drawTime))
	})
}
