package entities

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPendingAdminAction_Elapsed(t *testing.T) {
	t.Parallel()

	proposedAt := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	delay := 7 * 24 * time.Hour
	action := &PendingAdminAction{
		Kind:       AdminActionFeeRecipient,
		ProposedAt: proposedAt,
	}

	assert.False(t, action.Elapsed(proposedAt.Add(6*24*time.Hour), delay))
	assert.False(t, action.Elapsed(proposedAt.Add(delay-time.Second), delay))
	// Exactly at the boundary the timelock counts as elapsed.
	assert.True(t, action.Elapsed(proposedAt.Add(delay), delay))
	assert.True(t, action.Elapsed(proposedAt.Add(delay+time.Second), delay))
}

func TestPendingAdminAction_PayloadRoundTrip(t *testing.T) {
	t.Parallel()

	payload, err := json.Marshal(FeeRecipientPayload{FeeRecipient: "0xfee"})
	require.NoError(t, err)

	action := &PendingAdminAction{
		Kind:    AdminActionFeeRecipient,
		Payload: payload,
	}

	var decoded FeeRecipientPayload
	require.NoError(t, json.Unmarshal(action.Payload, &decoded))
	assert.Equal(t, "0xfee", decoded.FeeRecipient)
}
