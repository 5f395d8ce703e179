package repository

import (
	"context"
	"testing"
	"time"

	"github.com/JGonCor/lottery-platform-sub001/domain/entities"
	"github.com/JGonCor/lottery-platform-sub001/domain/services"
	"github.com/JGonCor/lottery-platform-sub001/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDrawRepository_CreateAndGet(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewDrawRepository(testDB.DB)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testutil.CreateTestDraw(2)))

	draw, err := repo.GetByEpoch(ctx, 2)
	require.NoError(t, err)
	require.NotNil(t, draw)
	assert.Equal(t, entities.DrawStateOpen, draw.State)
	assert.Zero(t, draw.TotalPool)
	assert.Nil(t, draw.RequestID)
	assert.Nil(t, draw.CompletedAt)

	missing, err := repo.GetByEpoch(ctx, 99)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestDrawRepository_IncrementPool(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewDrawRepository(testDB.DB)
	ctx := context.Background()

	require.NoError(t, repo.IncrementPool(ctx, 1, 5_000_000))
	require.NoError(t, repo.IncrementPool(ctx, 1, 10_000_000))

	draw, err := repo.GetByEpoch(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(15_000_000), draw.TotalPool)

	// A frozen draw admits no more stake.
	require.NoError(t, repo.SetAwaitingRandomness(ctx, 1, "req-1", time.Now().UTC()))
	err = repo.IncrementPool(ctx, 1, 5_000_000)
	assert.ErrorIs(t, err, services.ErrDrawAlreadyInProgress)
}

func TestDrawRepository_StateTransitions(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewDrawRepository(testDB.DB)
	ctx := context.Background()

	requestedAt := time.Now().UTC().Truncate(time.Microsecond)
	require.NoError(t, repo.SetAwaitingRandomness(ctx, 1, "req-1", requestedAt))

	// Freezing is one-way.
	err := repo.SetAwaitingRandomness(ctx, 1, "req-2", requestedAt)
	assert.ErrorIs(t, err, services.ErrDrawAlreadyInProgress)

	draw, err := repo.GetByRequestIDForUpdate(ctx, "req-1")
	require.NoError(t, err)
	require.NotNil(t, draw)
	assert.Equal(t, int64(1), draw.EpochID)
	assert.Equal(t, entities.DrawStateAwaitingRandomness, draw.State)
	require.NotNil(t, draw.RequestedAt)

	unknown, err := repo.GetByRequestIDForUpdate(ctx, "req-nope")
	require.NoError(t, err)
	assert.Nil(t, unknown)
}

func TestDrawRepository_ReplaceRequest_InvalidatesOldID(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewDrawRepository(testDB.DB)
	ctx := context.Background()

	require.NoError(t, repo.SetAwaitingRandomness(ctx, 1, "req-old", time.Now().UTC()))
	require.NoError(t, repo.ReplaceRequest(ctx, 1, "req-new", time.Now().UTC()))

	// The stale correlation ID no longer resolves; a late fulfillment for
	// it is rejected upstream.
	stale, err := repo.GetByRequestIDForUpdate(ctx, "req-old")
	require.NoError(t, err)
	assert.Nil(t, stale)

	current, err := repo.GetByRequestIDForUpdate(ctx, "req-new")
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, int64(1), current.EpochID)
}

func TestDrawRepository_Finalize(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewDrawRepository(testDB.DB)
	ctx := context.Background()

	require.NoError(t, repo.IncrementPool(ctx, 1, 100_000_000))
	require.NoError(t, repo.SetAwaitingRandomness(ctx, 1, "req-1", time.Now().UTC()))

	completedAt := time.Now().UTC().Truncate(time.Microsecond)
	draw := &entities.Draw{
		EpochID:        1,
		WinningNumbers: []int{4, 8, 15, 16, 23, 42},
		CarriedJackpot: 0,
		PlatformFee:    10_000_000,
		TierPots:       []int64{0, 0, 0, 0, 36_000_000},
		JackpotCarry:   54_000_000,
		CompletedAt:    &completedAt,
	}
	require.NoError(t, repo.Finalize(ctx, draw))

	got, err := repo.GetByEpoch(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, entities.DrawStateCompleted, got.State)
	assert.Equal(t, []int{4, 8, 15, 16, 23, 42}, got.WinningNumbers)
	assert.Equal(t, int64(10_000_000), got.PlatformFee)
	assert.Equal(t, int64(36_000_000), got.TierPot(6))
	assert.Equal(t, int64(54_000_000), got.JackpotCarry)
	assert.True(t, got.IsCompleted())

	// A completed draw is terminal.
	err = repo.Finalize(ctx, draw)
	assert.ErrorIs(t, err, services.ErrDrawNotFound)
}
