package entities

import (
	"encoding/json"
	"time"
)

// AdminActionKind identifies a privileged operation gated by the timelock.
// At most one proposal per kind may be pending at any time.
type AdminActionKind string

const (
	// AdminActionFeeRecipient changes the platform fee recipient.
	// Payload: {"fee_recipient": "<account>"}.
	AdminActionFeeRecipient AdminActionKind = "fee_recipient_change"

	// AdminActionPause pauses or resumes ticket sales and draw triggering.
	// Payload: {"paused": true|false}.
	AdminActionPause AdminActionKind = "pause"

	// AdminActionManualDraw triggers a draw outside the regular interval.
	AdminActionManualDraw AdminActionKind = "manual_draw"
)

// PendingAdminAction is a proposed privileged mutation waiting out its
// timelock. Created by propose, destroyed by execute or cancel.
type PendingAdminAction struct {
	Kind       AdminActionKind `db:"kind"`
	Payload    json.RawMessage `db:"payload"`
	ProposedAt time.Time       `db:"proposed_at"`
	ProposedBy string          `db:"proposed_by"`
}

// ExecutableAt returns the first instant at which the action may execute.
func (a *PendingAdminAction) ExecutableAt(delay time.Duration) time.Time {
	return a.ProposedAt.Add(delay)
}

// Elapsed reports whether the per-kind delay has fully passed.
func (a *PendingAdminAction) Elapsed(now time.Time, delay time.Duration) bool {
	return !now.Before(a.ExecutableAt(delay))
}

// FeeRecipientPayload is the decoded payload of a fee-recipient change.
type FeeRecipientPayload struct {
	FeeRecipient string `json:"fee_recipient"`
}

// PausePayload is the decoded payload of a pause/resume action.
type PausePayload struct {
	Paused bool `json:"paused"`
}
