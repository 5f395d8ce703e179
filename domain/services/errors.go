package services

import "errors"

// Validation errors: surfaced to the caller, never retried, no state mutated.
var (
	ErrMaxTicketsExceeded = errors.New("ticket cap exceeded")
	ErrNotOwner           = errors.New("caller does not own the ticket")
	ErrNotAWinner         = errors.New("ticket is not a winner")
	ErrTicketNotFound     = errors.New("ticket not found")
	ErrDrawNotFound       = errors.New("draw not found")
	ErrDrawNotCompleted   = errors.New("draw not completed")
	ErrLotteryPaused      = errors.New("lottery is paused")
	ErrNotAuthorized      = errors.New("caller is not authorized")
	ErrSelfReferral       = errors.New("account cannot refer itself")
	ErrInvalidPayload     = errors.New("invalid admin action payload")
)

// Concurrency errors: surfaced immediately; the caller may retry later.
var (
	ErrClaimInProgress       = errors.New("claim already in progress for ticket")
	ErrDrawAlreadyInProgress = errors.New("draw already in progress")
	ErrAlreadyPending        = errors.New("action of this kind already pending")
)

// Write-once violations.
var (
	ErrAlreadyScored  = errors.New("ticket already scored")
	ErrAlreadyClaimed = errors.New("prize already claimed")
	ErrReferralExists = errors.New("account already has a referrer")
)

// Solvency errors: fatal to the operation, never downgraded to a partial payment.
var ErrInsufficientReserves = errors.New("insufficient reserves for payout")

// Insufficient player funds on transfer-in.
var ErrInsufficientFunds = errors.New("insufficient funds")

// External-dependency and timing errors.
var (
	ErrUnknownRequest       = errors.New("unknown or stale randomness request")
	ErrTimelockNotElapsed   = errors.New("timelock has not elapsed")
	ErrNoPendingAction      = errors.New("no pending action of this kind")
	ErrClaimDeadlineExpired = errors.New("claim deadline expired")
	ErrClaimWindowOpen      = errors.New("claim window still open")
	ErrRandomnessNotStuck   = errors.New("randomness request not eligible for retry")
)
