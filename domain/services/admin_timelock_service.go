package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/JGonCor/lottery-platform-sub001/config"
	"github.com/JGonCor/lottery-platform-sub001/domain/entities"
	"github.com/JGonCor/lottery-platform-sub001/domain/events"
	"github.com/JGonCor/lottery-platform-sub001/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// DrawTrigger is the slice of the lottery service the timelock needs to
// execute a manual draw.
type DrawTrigger interface {
	TriggerDraw(ctx context.Context, now time.Time) error
}

// adminTimelock gates privileged mutations behind per-kind delay windows
// with propose/execute/cancel semantics. At most one proposal per kind is
// pending at any time.
type adminTimelock struct {
	actionRepo     interfaces.AdminActionRepository
	stateRepo      interfaces.LotteryStateRepository
	drawTrigger    DrawTrigger
	eventPublisher interfaces.EventPublisher
	cfg            *config.Config
}

// NewAdminTimelock creates a new admin timelock controller
func NewAdminTimelock(
	actionRepo interfaces.AdminActionRepository,
	stateRepo interfaces.LotteryStateRepository,
	drawTrigger DrawTrigger,
	eventPublisher interfaces.EventPublisher,
	cfg *config.Config,
) interfaces.AdminTimelock {
	return &adminTimelock{
		actionRepo:     actionRepo,
		stateRepo:      stateRepo,
		drawTrigger:    drawTrigger,
		eventPublisher: eventPublisher,
		cfg:            cfg,
	}
}

// delayFor returns the mandatory wait between propose and execute for a kind.
// Delays differ by severity.
func (a *adminTimelock) delayFor(kind entities.AdminActionKind) (time.Duration, error) {
	switch kind {
	case entities.AdminActionFeeRecipient:
		return a.cfg.FeeRecipientDelay, nil
	case entities.AdminActionPause:
		return a.cfg.PauseDelay, nil
	case entities.AdminActionManualDraw:
		return a.cfg.ManualDrawDelay, nil
	default:
		return 0, fmt.Errorf("unknown admin action kind %q", kind)
	}
}

// Propose stores a privileged action behind its per-kind delay.
func (a *adminTimelock) Propose(ctx context.Context, kind entities.AdminActionKind, payload []byte, caller string, now time.Time) (*entities.PendingAdminAction, error) {
	if caller != a.cfg.AdminAccount {
		return nil, ErrNotAuthorized
	}
	delay, err := a.delayFor(kind)
	if err != nil {
		return nil, err
	}
	if err := a.validatePayload(kind, payload); err != nil {
		return nil, err
	}

	action := &entities.PendingAdminAction{
		Kind:       kind,
		Payload:    payload,
		ProposedAt: now,
		ProposedBy: caller,
	}
	if err := a.actionRepo.Create(ctx, action); err != nil {
		return nil, err
	}

	if err := a.eventPublisher.Publish(events.AdminActionProposedEvent{
		Kind:         string(kind),
		ProposedBy:   caller,
		ProposedAt:   now,
		ExecutableAt: action.ExecutableAt(delay),
	}); err != nil {
		return nil, fmt.Errorf("failed to publish proposal event: %w", err)
	}

	log.WithFields(log.Fields{
		"kind":         kind,
		"executableAt": action.ExecutableAt(delay).UTC(),
	}).Info("Admin action proposed")
	return action, nil
}

// Execute applies a pending action strictly after its delay has elapsed and
// destroys the proposal.
func (a *adminTimelock) Execute(ctx context.Context, kind entities.AdminActionKind, caller string, now time.Time) error {
	if caller != a.cfg.AdminAccount {
		return ErrNotAuthorized
	}
	delay, err := a.delayFor(kind)
	if err != nil {
		return err
	}

	action, err := a.actionRepo.Get(ctx, kind)
	if err != nil {
		return fmt.Errorf("failed to get pending action: %w", err)
	}
	if action == nil {
		return ErrNoPendingAction
	}
	if !action.Elapsed(now, delay) {
		return fmt.Errorf("%w: executable at %s",
			ErrTimelockNotElapsed, action.ExecutableAt(delay).UTC())
	}

	if err := a.apply(ctx, action, now); err != nil {
		return err
	}
	if err := a.actionRepo.Delete(ctx, kind); err != nil {
		return fmt.Errorf("failed to clear executed action: %w", err)
	}

	if err := a.eventPublisher.Publish(events.AdminActionExecutedEvent{
		Kind:       string(kind),
		ExecutedBy: caller,
	}); err != nil {
		return fmt.Errorf("failed to publish execution event: %w", err)
	}

	log.WithField("kind", kind).Info("Admin action executed")
	return nil
}

// Cancel clears a pending proposal with no side effects beyond the reset.
func (a *adminTimelock) Cancel(ctx context.Context, kind entities.AdminActionKind, caller string, now time.Time) error {
	if caller != a.cfg.AdminAccount {
		return ErrNotAuthorized
	}

	action, err := a.actionRepo.Get(ctx, kind)
	if err != nil {
		return fmt.Errorf("failed to get pending action: %w", err)
	}
	if action == nil {
		return ErrNoPendingAction
	}
	// A proposed manual draw stays live long enough for the oracle round
	// trip before it can be withdrawn.
	if kind == entities.AdminActionManualDraw && !action.Elapsed(now, a.cfg.ManualDrawCancelDelay) {
		return ErrTimelockNotElapsed
	}
	if err := a.actionRepo.Delete(ctx, kind); err != nil {
		return fmt.Errorf("failed to delete pending action: %w", err)
	}

	if err := a.eventPublisher.Publish(events.AdminActionCancelledEvent{
		Kind:        string(kind),
		CancelledBy: caller,
	}); err != nil {
		return fmt.Errorf("failed to publish cancellation event: %w", err)
	}

	log.WithField("kind", kind).Info("Admin action cancelled")
	return nil
}

// EmergencyPause takes effect immediately, bypassing the timelock. This is
// the single narrow exception that trades safety-by-delay for incident
// response speed; no other kind may do this.
func (a *adminTimelock) EmergencyPause(ctx context.Context, caller string) error {
	if caller != a.cfg.AdminAccount {
		return ErrNotAuthorized
	}
	if err := a.stateRepo.SetPaused(ctx, true); err != nil {
		return fmt.Errorf("failed to pause lottery: %w", err)
	}

	if err := a.eventPublisher.Publish(events.EmergencyPauseEvent{PausedBy: caller}); err != nil {
		return fmt.Errorf("failed to publish emergency pause event: %w", err)
	}

	log.WithField("caller", caller).Warn("Emergency pause applied")
	return nil
}

// validatePayload rejects malformed payloads at propose time so execute
// cannot fail on decoding after the delay was served.
func (a *adminTimelock) validatePayload(kind entities.AdminActionKind, payload []byte) error {
	switch kind {
	case entities.AdminActionFeeRecipient:
		var p entities.FeeRecipientPayload
		if err := json.Unmarshal(payload, &p); err != nil || p.FeeRecipient == "" {
			return ErrInvalidPayload
		}
	case entities.AdminActionPause:
		var p entities.PausePayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return ErrInvalidPayload
		}
	case entities.AdminActionManualDraw:
		// No payload.
	}
	return nil
}

// apply performs the executed action's mutation.
func (a *adminTimelock) apply(ctx context.Context, action *entities.PendingAdminAction, now time.Time) error {
	switch action.Kind {
	case entities.AdminActionFeeRecipient:
		var p entities.FeeRecipientPayload
		if err := json.Unmarshal(action.Payload, &p); err != nil {
			return ErrInvalidPayload
		}
		if err := a.stateRepo.SetFeeRecipient(ctx, p.FeeRecipient); err != nil {
			return fmt.Errorf("failed to set fee recipient: %w", err)
		}
	case entities.AdminActionPause:
		var p entities.PausePayload
		if err := json.Unmarshal(action.Payload, &p); err != nil {
			return ErrInvalidPayload
		}
		if err := a.stateRepo.SetPaused(ctx, p.Paused); err != nil {
			return fmt.Errorf("failed to toggle pause: %w", err)
		}
	case entities.AdminActionManualDraw:
		if err := a.drawTrigger.TriggerDraw(ctx, now); err != nil {
			return fmt.Errorf("failed to trigger manual draw: %w", err)
		}
	default:
		return fmt.Errorf("unknown admin action kind %q", action.Kind)
	}
	return nil
}
