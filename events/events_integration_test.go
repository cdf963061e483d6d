package events

import (
	"context"
	"sync"
	"testing"
	"time"

	"dicewager/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

// TestEventDeliveryIntegration tests the complete event flow from TransactionalBus to main Bus
func TestEventDeliveryIntegration(t *testing.T) {
	mainBus := NewBus()
	transactionalBus := NewTransactionalBus(mainBus)

	eventReceived := make(chan BalanceChangeEvent, 1)
	var wg sync.WaitGroup
	wg.Add(1)

	mainBus.Subscribe(EventTypeBalanceChange, func(ctx context.Context, event Event) {
		defer wg.Done()
		if balanceEvent, ok := event.(BalanceChangeEvent); ok {
			select {
			case eventReceived <- balanceEvent:
			case <-time.After(1 * time.Second):
				t.Error("Timeout sending event to channel")
			}
		} else {
			t.Errorf("Expected BalanceChangeEvent, got %T", event)
		}
	})

	testEvent := BalanceChangeEvent{
		UserID:          "USER_P1",
		OldBalance:      decimal.NewFromInt(900),
		NewBalance:      decimal.RequireFromString("1099.9"),
		ChangeAmount:    decimal.RequireFromString("199.9"),
		TransactionType: models.TransactionTypeSettlementWin,
	}

	// Publish event to transactional bus (simulating service layer)
	transactionalBus.Publish(testEvent)
	assert.Len(t, transactionalBus.Pending(), 1)

	// Flush events (simulating successful transaction commit)
	transactionalBus.Flush(context.Background())
	assert.Empty(t, transactionalBus.Pending())

	wg.Wait()

	select {
	case receivedEvent := <-eventReceived:
		assert.Equal(t, testEvent.UserID, receivedEvent.UserID)
		assert.True(t, testEvent.OldBalance.Equal(receivedEvent.OldBalance))
		assert.True(t, testEvent.NewBalance.Equal(receivedEvent.NewBalance))
		assert.True(t, testEvent.ChangeAmount.Equal(receivedEvent.ChangeAmount))
		assert.Equal(t, testEvent.TransactionType, receivedEvent.TransactionType)
	case <-time.After(2 * time.Second):
		t.Fatal("Event was not received within timeout")
	}
}

// TestMultipleEventsDelivery tests delivering multiple events in sequence
func TestMultipleEventsDelivery(t *testing.T) {
	mainBus := NewBus()
	transactionalBus := NewTransactionalBus(mainBus)

	eventsReceived := make(chan ChallengeAcceptedEvent, 3)
	var wg sync.WaitGroup
	wg.Add(3)

	mainBus.Subscribe(EventTypeChallengeAccepted, func(ctx context.Context, event Event) {
		defer wg.Done()
		if accepted, ok := event.(ChallengeAcceptedEvent); ok {
			eventsReceived <- accepted
		}
	})

	for _, id := range []string{"a", "b", "c"} {
		transactionalBus.Publish(ChallengeAcceptedEvent{
			Result: models.SettlementResult{ChallengeID: id, Winner: models.WinnerTie},
		})
	}

	transactionalBus.Flush(context.Background())
	wg.Wait()

	ids := make(map[string]bool)
	for i := 0; i < 3; i++ {
		select {
		case event := <-eventsReceived:
			ids[event.Result.ChallengeID] = true
		case <-time.After(2 * time.Second):
			t.Fatalf("Only received %d out of 3 events", len(ids))
		}
	}

	// Order may vary due to goroutines
	assert.True(t, ids["a"])
	assert.True(t, ids["b"])
	assert.True(t, ids["c"])
}

// TestTransactionalBusDiscard tests that discarded events are not delivered
func TestTransactionalBusDiscard(t *testing.T) {
	mainBus := NewBus()
	transactionalBus := NewTransactionalBus(mainBus)

	eventReceived := make(chan bool, 1)
	mainBus.Subscribe(EventTypeChallengesCreated, func(ctx context.Context, event Event) {
		eventReceived <- true
	})

	transactionalBus.Publish(ChallengesCreatedEvent{TotalCost: decimal.NewFromInt(100)})

	// Discard instead of flush (simulating transaction rollback)
	transactionalBus.Discard()
	transactionalBus.Flush(context.Background())

	select {
	case <-eventReceived:
		t.Fatal("Event was received despite being discarded")
	case <-time.After(100 * time.Millisecond):
	}
}

// TestSubscribeAll checks a catch-all handler sees every ledger event type
func TestSubscribeAll(t *testing.T) {
	bus := NewBus()

	var mu sync.Mutex
	seen := make(map[EventType]bool)
	var wg sync.WaitGroup
	wg.Add(len(AllEventTypes))

	bus.SubscribeAll(func(ctx context.Context, event Event) {
		defer wg.Done()
		mu.Lock()
		seen[event.Type()] = true
		mu.Unlock()
	})

	bus.Publish(ChallengesCreatedEvent{})
	bus.Publish(ChallengeAcceptedEvent{})
	bus.Publish(BalanceChangeEvent{})
	bus.Publish(FeesCollectedEvent{})
	bus.Publish(LedgerErrorEvent{Kind: "InsufficientFunds"})

	wg.Wait()
	for _, eventType := range AllEventTypes {
		assert.True(t, seen[eventType], "missing %s", eventType)
	}
}

// TestEmitRecoversFromPanics ensures one bad handler does not affect others
func TestEmitRecoversFromPanics(t *testing.T) {
	bus := NewBus()
	done := make(chan struct{})

	bus.Subscribe(EventTypeLedgerError, func(ctx context.Context, event Event) {
		panic("boom")
	})
	bus.Subscribe(EventTypeLedgerError, func(ctx context.Context, event Event) {
		close(done)
	})

	bus.Publish(LedgerErrorEvent{Kind: "ChallengeNotFound"})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("healthy handler was not called")
	}
}
