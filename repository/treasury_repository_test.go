package repository

import (
	"context"
	"testing"

	"github.com/JGonCor/lottery-platform-sub001/domain/services"
	"github.com/JGonCor/lottery-platform-sub001/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTreasuryRepository_Transfers(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewTreasuryRepository(testDB.DB)
	ctx := context.Background()

	t.Run("deposit and balance", func(t *testing.T) {
		require.NoError(t, repo.Deposit(ctx, "alice", 20_000_000))

		balance, err := repo.BalanceOf(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, int64(20_000_000), balance)

		unknown, err := repo.BalanceOf(ctx, "nobody")
		require.NoError(t, err)
		assert.Zero(t, unknown)
	})

	t.Run("transfer in moves stake to the reserve", func(t *testing.T) {
		require.NoError(t, repo.TransferIn(ctx, "alice", 5_000_000))

		balance, err := repo.BalanceOf(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, int64(15_000_000), balance)

		reserve, err := repo.ReserveBalance(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(5_000_000), reserve)
	})

	t.Run("transfer in rejects uncovered stake", func(t *testing.T) {
		err := repo.TransferIn(ctx, "alice", 100_000_000)
		assert.ErrorIs(t, err, services.ErrInsufficientFunds)

		// Nothing moved.
		balance, err := repo.BalanceOf(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, int64(15_000_000), balance)
	})

	t.Run("transfer out pays from the reserve", func(t *testing.T) {
		require.NoError(t, repo.TransferOut(ctx, "bob", 2_000_000))

		balance, err := repo.BalanceOf(ctx, "bob")
		require.NoError(t, err)
		assert.Equal(t, int64(2_000_000), balance)

		reserve, err := repo.ReserveBalance(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(3_000_000), reserve)
	})

	t.Run("transfer out rejects insolvent reserve", func(t *testing.T) {
		err := repo.TransferOut(ctx, "bob", 50_000_000)
		assert.ErrorIs(t, err, services.ErrInsufficientReserves)

		reserve, err := repo.ReserveBalance(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(3_000_000), reserve)
	})

	t.Run("rejects non-positive deposit", func(t *testing.T) {
		assert.Error(t, repo.Deposit(ctx, "alice", 0))
		assert.Error(t, repo.Deposit(ctx, "alice", -5))
	})
}
