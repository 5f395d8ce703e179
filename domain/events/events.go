package events

import "time"

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeTicketPurchased         EventType = "ticket_purchased"
	EventTypeDrawCompleted           EventType = "draw_completed"
	EventTypePrizeClaimed            EventType = "prize_claimed"
	EventTypeAdminActionProposed     EventType = "admin_action_proposed"
	EventTypeAdminActionExecuted     EventType = "admin_action_executed"
	EventTypeAdminActionCancelled    EventType = "admin_action_cancelled"
	EventTypeEmergencyPause          EventType = "emergency_pause"
	EventTypeInvalidTicketDetected   EventType = "invalid_ticket_detected"
	EventTypeTierWinnerLimitReached  EventType = "tier_winner_limit_reached"
	EventTypeUnclaimedPrizeRecovered EventType = "unclaimed_prize_recovered"
	EventTypeClaimLockReset          EventType = "claim_lock_reset"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// TicketPurchasedEvent represents a completed ticket purchase
type TicketPurchasedEvent struct {
	EpochID     int64
	Owner       string
	TicketIDs   []int64
	Quantity    int
	TotalPaid   int64
	DiscountBps int
}

func (e TicketPurchasedEvent) Type() EventType {
	return EventTypeTicketPurchased
}

// DrawCompletedEvent represents a finalized draw
type DrawCompletedEvent struct {
	EpochID        int64
	WinningNumbers []int
	TotalPool      int64
	PlatformFee    int64
	JackpotCarry   int64
	TicketsScored  int64
	CompletedAt    time.Time
}

func (e DrawCompletedEvent) Type() EventType {
	return EventTypeDrawCompleted
}

// PrizeClaimedEvent represents a prize paid out exactly once
type PrizeClaimedEvent struct {
	EpochID    int64
	TicketID   int64
	Owner      string
	MatchCount int
	Amount     int64
}

func (e PrizeClaimedEvent) Type() EventType {
	return EventTypePrizeClaimed
}

// AdminActionProposedEvent represents a privileged action entering its timelock
type AdminActionProposedEvent struct {
	Kind         string
	ProposedBy   string
	ProposedAt   time.Time
	ExecutableAt time.Time
}

func (e AdminActionProposedEvent) Type() EventType {
	return EventTypeAdminActionProposed
}

// AdminActionExecutedEvent represents a privileged action applied after its timelock
type AdminActionExecutedEvent struct {
	Kind       string
	ExecutedBy string
}

func (e AdminActionExecutedEvent) Type() EventType {
	return EventTypeAdminActionExecuted
}

// AdminActionCancelledEvent represents a pending action cleared without effect
type AdminActionCancelledEvent struct {
	Kind        string
	CancelledBy string
}

func (e AdminActionCancelledEvent) Type() EventType {
	return EventTypeAdminActionCancelled
}

// EmergencyPauseEvent represents the immediate, timelock-bypassing pause
type EmergencyPauseEvent struct {
	PausedBy string
}

func (e EmergencyPauseEvent) Type() EventType {
	return EventTypeEmergencyPause
}

// InvalidTicketDetectedEvent is a defensive signal emitted when a malformed
// ticket surfaces during scoring
type InvalidTicketDetectedEvent struct {
	EpochID  int64
	TicketID int64
	Reason   string
}

func (e InvalidTicketDetectedEvent) Type() EventType {
	return EventTypeInvalidTicketDetected
}

// TierWinnerLimitReachedEvent signals that winner enumeration for a tier was
// deferred to follow-up batch processing
type TierWinnerLimitReachedEvent struct {
	EpochID     int64
	MatchCount  int
	WinnerCount int64
	Recorded    int64
}

func (e TierWinnerLimitReachedEvent) Type() EventType {
	return EventTypeTierWinnerLimitReached
}

// UnclaimedPrizeRecoveredEvent audits the owner-initiated sweep of prizes
// left unclaimed past the claim window
type UnclaimedPrizeRecoveredEvent struct {
	EpochID     int64
	Amount      int64
	RecoveredBy string
	RecoveredTo string
}

func (e UnclaimedPrizeRecoveredEvent) Type() EventType {
	return EventTypeUnclaimedPrizeRecovered
}

// ClaimLockResetEvent audits an emergency reset of a stuck claim lock
type ClaimLockResetEvent struct {
	TicketID int64
	ResetBy  string
	WasHeld  bool
}

func (e ClaimLockResetEvent) Type() EventType {
	return EventTypeClaimLockReset
}
