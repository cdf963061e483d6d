package infrastructure

import (
	"fmt"

	"dicewager/events"
)

// StreamName is the JetStream stream holding ledger events
const StreamName = "dice_events"

// EventSubjectMapper handles mapping between ledger events and NATS subjects
type EventSubjectMapper struct{}

// NewEventSubjectMapper creates a new event subject mapper
func NewEventSubjectMapper() *EventSubjectMapper {
	return &EventSubjectMapper{}
}

var subjectsByType = map[events.EventType]string{
	events.EventTypeChallengesCreated: "dice.challenges.created",
	events.EventTypeChallengeAccepted: "dice.challenges.accepted",
	events.EventTypeBalanceChange:     "dice.ledger.balance_changed",
	events.EventTypeFeesCollected:     "dice.ledger.fees_collected",
	events.EventTypeLedgerError:       "dice.ledger.rejected",
}

// MapEventToSubject converts a ledger event to its corresponding NATS subject
func (m *EventSubjectMapper) MapEventToSubject(event events.Event) string {
	if subject, ok := subjectsByType[event.Type()]; ok {
		return subject
	}
	return fmt.Sprintf("dice.unknown.%s", event.Type())
}

// MapSubjectToEventType converts a NATS subject back to an event type
func (m *EventSubjectMapper) MapSubjectToEventType(subject string) events.EventType {
	for eventType, s := range subjectsByType {
		if s == subject {
			return eventType
		}
	}
	return events.EventType(subject)
}

// GetAllSubjects returns all subjects that this service publishes to, in
// the order of events.AllEventTypes
func (m *EventSubjectMapper) GetAllSubjects() []string {
	subjects := make([]string, 0, len(events.AllEventTypes))
	for _, eventType := range events.AllEventTypes {
		subjects = append(subjects, subjectsByType[eventType])
	}
	return subjects
}
