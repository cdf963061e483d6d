package events

import (
	"context"
	"sync"

	"dicewager/models"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeChallengesCreated EventType = "challenges_created"
	EventTypeChallengeAccepted EventType = "challenge_accepted"
	EventTypeBalanceChange     EventType = "balance_change"
	EventTypeFeesCollected     EventType = "fees_collected"
	EventTypeLedgerError       EventType = "ledger_error"
)

// AllEventTypes lists every event type emitted by the ledger
var AllEventTypes = []EventType{
	EventTypeChallengesCreated,
	EventTypeChallengeAccepted,
	EventTypeBalanceChange,
	EventTypeFeesCollected,
	EventTypeLedgerError,
}

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// ChallengesCreatedEvent is emitted once per successful batch creation
type ChallengesCreatedEvent struct {
	Challenges []models.Challenge `json:"challenges"`
	TotalCost  decimal.Decimal    `json:"totalCost"`
}

func (e ChallengesCreatedEvent) Type() EventType {
	return EventTypeChallengesCreated
}

// ChallengeAcceptedEvent carries the result of one resolved challenge
type ChallengeAcceptedEvent struct {
	Result models.SettlementResult `json:"result"`
}

func (e ChallengeAcceptedEvent) Type() EventType {
	return EventTypeChallengeAccepted
}

// BalanceChangeEvent represents a change to the local user's balance
type BalanceChangeEvent struct {
	UserID          string                 `json:"userId"`
	OldBalance      decimal.Decimal        `json:"oldBalance"`
	NewBalance      decimal.Decimal        `json:"newBalance"`
	ChangeAmount    decimal.Decimal        `json:"changeAmount"`
	TransactionType models.TransactionType `json:"transactionType"`
}

func (e BalanceChangeEvent) Type() EventType {
	return EventTypeBalanceChange
}

// FeesCollectedEvent is emitted when a settlement extracts a platform fee
type FeesCollectedEvent struct {
	ChallengeID    string          `json:"challengeId"`
	Fee            decimal.Decimal `json:"fee"`
	TotalCollected decimal.Decimal `json:"totalCollected"`
}

func (e FeesCollectedEvent) Type() EventType {
	return EventTypeFeesCollected
}

// LedgerErrorEvent reports a rejected operation to the display layer
type LedgerErrorEvent struct {
	Kind        string          `json:"kind"`
	Message     string          `json:"message"`
	Shortfall   decimal.Decimal `json:"shortfall"`
	ChallengeID string          `json:"challengeId,omitempty"`
}

func (e LedgerErrorEvent) Type() EventType {
	return EventTypeLedgerError
}

// Handler is a function that handles events
type Handler func(ctx context.Context, event Event)

// Bus manages event subscriptions and dispatching
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe adds a handler for a specific event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)

	log.WithFields(log.Fields{
		"eventType":    eventType,
		"handlerCount": len(b.handlers[eventType]),
	}).Debug("Subscribed handler to event type on main event bus")
}

// SubscribeAll adds a handler for every ledger event type
func (b *Bus) SubscribeAll(handler Handler) {
	for _, eventType := range AllEventTypes {
		b.Subscribe(eventType, handler)
	}
}

// Publish emits the event immediately. It satisfies the publisher interface
// used outside of a unit of work.
func (b *Bus) Publish(event Event) {
	b.Emit(context.Background(), event)
}

// Emit publishes an event to all registered handlers
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	log.WithFields(log.Fields{
		"eventType":    event.Type(),
		"handlerCount": len(handlers),
	}).Debug("Emitting event to handlers on main event bus")

	// Call handlers asynchronously to avoid blocking
	for i, handler := range handlers {
		go func(h Handler, handlerIndex int) {
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"eventType":    event.Type(),
						"handlerIndex": handlerIndex,
						"panic":        r,
					}).Error("Event handler panicked")
				}
			}()
			h(ctx, event)
		}(handler, i)
	}
}

// A transactional event bus for holding pending events coupled to the Unit of Work.
// Flushes to the underlying event bus.
type TransactionalBus struct {
	real    *Bus
	pending []Event // stashed until Flush
}

func NewTransactionalBus(real *Bus) *TransactionalBus {
	return &TransactionalBus{real: real}
}

func (b *TransactionalBus) Publish(e Event) {
	log.WithFields(log.Fields{
		"eventType":    e.Type(),
		"pendingCount": len(b.pending),
	}).Debug("Adding event to transactional bus pending queue")
	b.pending = append(b.pending, e)
}

// Pending returns the events queued so far
func (b *TransactionalBus) Pending() []Event {
	return b.pending
}

// called after successful commit
func (b *TransactionalBus) Flush(ctx context.Context) {
	log.WithFields(log.Fields{
		"pendingEventCount": len(b.pending),
	}).Debug("Flushing pending events from transactional bus to main event bus")

	// Events outlive the transaction, so they do not inherit its context
	eventCtx := context.Background()

	for _, ev := range b.pending {
		b.real.Emit(eventCtx, ev)
	}
	b.pending = nil
}

// called after rollback or to clear state.
func (b *TransactionalBus) Discard() {
	b.pending = nil
}
