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

func TestAdminActionRepository_OnePendingPerKind(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewAdminActionRepository(testDB.DB)
	ctx := context.Background()

	action := &entities.PendingAdminAction{
		Kind:       entities.AdminActionPause,
		Payload:    []byte(`{"paused":true}`),
		ProposedAt: time.Now().UTC().Truncate(time.Microsecond),
		ProposedBy: "admin",
	}
	require.NoError(t, repo.Create(ctx, action))

	// A second proposal of the same kind is rejected outright.
	err := repo.Create(ctx, action)
	assert.ErrorIs(t, err, services.ErrAlreadyPending)

	got, err := repo.Get(ctx, entities.AdminActionPause)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "admin", got.ProposedBy)
	assert.JSONEq(t, `{"paused":true}`, string(got.Payload))

	// A different kind is independent.
	manual := &entities.PendingAdminAction{
		Kind:       entities.AdminActionManualDraw,
		ProposedAt: time.Now().UTC(),
		ProposedBy: "admin",
	}
	require.NoError(t, repo.Create(ctx, manual))

	require.NoError(t, repo.Delete(ctx, entities.AdminActionPause))
	gone, err := repo.Get(ctx, entities.AdminActionPause)
	require.NoError(t, err)
	assert.Nil(t, gone)

	still, err := repo.Get(ctx, entities.AdminActionManualDraw)
	require.NoError(t, err)
	assert.NotNil(t, still)
}

func TestReferralRepository_WriteOnce(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewReferralRepository(testDB.DB)
	ctx := context.Background()

	referral := &entities.Referral{Account: "bob", Referrer: "alice"}
	require.NoError(t, repo.Create(ctx, referral))
	assert.False(t, referral.CreatedAt.IsZero())

	// The binding is permanent.
	err := repo.Create(ctx, &entities.Referral{Account: "bob", Referrer: "carol"})
	assert.ErrorIs(t, err, services.ErrReferralExists)

	got, err := repo.GetByAccount(ctx, "bob")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "alice", got.Referrer)

	none, err := repo.GetByAccount(ctx, "dave")
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestTierResultRepository_CursorNeverPassesWinnerCount(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewTierResultRepository(testDB.DB)
	ctx := context.Background()

	require.NoError(t, repo.CreateForEpoch(ctx, []*entities.TierResult{
		testutil.CreateTestTierResult(1, 5, 3, 9_000_000),
	}))

	require.NoError(t, repo.AdvanceRecordedWinners(ctx, 1, 5, 2))
	require.NoError(t, repo.AdvanceRecordedWinners(ctx, 1, 5, 1))

	// Advancing past the winner count is refused.
	assert.Error(t, repo.AdvanceRecordedWinners(ctx, 1, 5, 1))

	tier, err := repo.Get(ctx, 1, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(3), tier.RecordedWinners)
	assert.False(t, tier.HasBacklog())
	assert.Equal(t, int64(3_000_000), tier.PerWinnerAmount)
}
