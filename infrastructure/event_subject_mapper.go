package infrastructure

import (
	"fmt"

	"github.com/JGonCor/lottery-platform-sub001/domain/events"
)

// EventSubjectMapper handles mapping between domain events and NATS subjects
type EventSubjectMapper struct{}

// NewEventSubjectMapper creates a new event subject mapper
func NewEventSubjectMapper() *EventSubjectMapper {
	return &EventSubjectMapper{}
}

var subjectsByEventType = map[events.EventType]string{
	events.EventTypeTicketPurchased:         "lottery.ticket.purchased",
	events.EventTypeDrawCompleted:           "lottery.draw.completed",
	events.EventTypePrizeClaimed:            "lottery.prize.claimed",
	events.EventTypeAdminActionProposed:     "lottery.admin.proposed",
	events.EventTypeAdminActionExecuted:     "lottery.admin.executed",
	events.EventTypeAdminActionCancelled:    "lottery.admin.cancelled",
	events.EventTypeEmergencyPause:          "lottery.admin.emergency_pause",
	events.EventTypeInvalidTicketDetected:   "lottery.ticket.invalid_detected",
	events.EventTypeTierWinnerLimitReached:  "lottery.draw.tier_limit_reached",
	events.EventTypeUnclaimedPrizeRecovered: "lottery.prize.unclaimed_recovered",
	events.EventTypeClaimLockReset:          "lottery.prize.claim_lock_reset",
}

// MapEventToSubject converts a domain event to its corresponding NATS subject
func (m *EventSubjectMapper) MapEventToSubject(event events.Event) string {
	return m.SubjectFor(event.Type())
}

// SubjectFor converts an event type to its corresponding NATS subject
func (m *EventSubjectMapper) SubjectFor(eventType events.EventType) string {
	if subject, ok := subjectsByEventType[eventType]; ok {
		return subject
	}
	// Fallback for unknown event types
	return fmt.Sprintf("lottery.unknown.%s", eventType)
}

// MapSubjectToEventType converts a NATS subject back to an event type
func (m *EventSubjectMapper) MapSubjectToEventType(subject string) events.EventType {
	for eventType, s := range subjectsByEventType {
		if s == subject {
			return eventType
		}
	}
	return events.EventType(subject)
}

// GetAllSubjects returns all subjects that this service publishes to
func (m *EventSubjectMapper) GetAllSubjects() []string {
	subjects := make([]string, 0, len(subjectsByEventType))
	for _, subject := range subjectsByEventType {
		subjects = append(subjects, subject)
	}
	return subjects
}
