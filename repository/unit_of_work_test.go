package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"dicewager/events"
	"dicewager/models"
	"dicewager/repository/testutil"
	"dicewager/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type factoryBuilder func(t *testing.T, bus *events.Bus, initial decimal.Decimal) service.UnitOfWorkFactory

func backends() map[string]factoryBuilder {
	return map[string]factoryBuilder{
		"memory": func(t *testing.T, bus *events.Bus, initial decimal.Decimal) service.UnitOfWorkFactory {
			return NewMemoryUnitOfWorkFactory(bus, initial)
		},
		"sqlite": func(t *testing.T, bus *events.Bus, initial decimal.Decimal) service.UnitOfWorkFactory {
			return NewSQLiteUnitOfWorkFactory(testutil.SetupSQLiteDatabase(t), bus, initial)
		},
		"postgres": func(t *testing.T, bus *events.Bus, initial decimal.Decimal) service.UnitOfWorkFactory {
			return NewPostgresUnitOfWorkFactory(testutil.SetupTestDatabase(t).DB, bus, initial)
		},
	}
}

func loadState(t *testing.T, factory service.UnitOfWorkFactory) *models.LedgerState {
	t.Helper()
	ctx := context.Background()
	uow := factory.Create()
	require.NoError(t, uow.Begin(ctx))
	defer uow.Rollback()

	state, err := uow.LedgerRepository().GetState(ctx)
	require.NoError(t, err)
	return state
}

func saveState(t *testing.T, factory service.UnitOfWorkFactory, state *models.LedgerState) {
	t.Helper()
	ctx := context.Background()
	uow := factory.Create()
	require.NoError(t, uow.Begin(ctx))
	defer uow.Rollback()

	require.NoError(t, uow.LedgerRepository().SaveState(ctx, state))
	require.NoError(t, uow.Commit())
}

func TestUnitOfWork_FreshSessionDefaults(t *testing.T) {
	for name, build := range backends() {
		t.Run(name, func(t *testing.T) {
			factory := build(t, events.NewBus(), decimal.NewFromInt(1000))

			state := loadState(t, factory)
			assert.True(t, state.Balance.Equal(decimal.NewFromInt(1000)))
			assert.True(t, state.FeesCollected.IsZero())
			assert.NotNil(t, state.OpenChallenges)
			assert.Empty(t, state.OpenChallenges)
		})
	}
}

func TestUnitOfWork_SaveAndLoad(t *testing.T) {
	for name, build := range backends() {
		t.Run(name, func(t *testing.T) {
			factory := build(t, events.NewBus(), decimal.NewFromInt(1000))

			state := testutil.CreateTestLedgerState("1099.9", 250, 3)
			state.FeesCollected = decimal.RequireFromString("0.1")
			saveState(t, factory, state)

			loaded := loadState(t, factory)
			assert.Equal(t, "1099.9", loaded.Balance.String())
			assert.Equal(t, "0.1", loaded.FeesCollected.String())
			require.Len(t, loaded.OpenChallenges, 3)
			for i, c := range loaded.OpenChallenges {
				assert.Equal(t, state.OpenChallenges[i].ID, c.ID)
				assert.True(t, c.Amount.Equal(decimal.NewFromInt(250)))
				assert.Equal(t, testutil.TestCreatorID, c.CreatorID)
			}
		})
	}
}

func TestUnitOfWork_RollbackDiscardsWrites(t *testing.T) {
	for name, build := range backends() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			factory := build(t, events.NewBus(), decimal.NewFromInt(1000))

			uow := factory.Create()
			require.NoError(t, uow.Begin(ctx))
			require.NoError(t, uow.LedgerRepository().SaveState(ctx, testutil.CreateTestLedgerState("5", 10, 1)))
			require.NoError(t, uow.Rollback())

			state := loadState(t, factory)
			assert.True(t, state.Balance.Equal(decimal.NewFromInt(1000)))
			assert.Empty(t, state.OpenChallenges)
		})
	}
}

func TestUnitOfWork_SerializesConcurrentUpdates(t *testing.T) {
	for name, build := range backends() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			factory := build(t, events.NewBus(), decimal.NewFromInt(0))

			const workers = 20
			var wg sync.WaitGroup
			errs := make(chan error, workers)
			for range workers {
				wg.Add(1)
				go func() {
					defer wg.Done()
					uow := factory.Create()
					if err := uow.Begin(ctx); err != nil {
						errs <- err
						return
					}
					defer uow.Rollback()

					state, err := uow.LedgerRepository().GetState(ctx)
					if err != nil {
						errs <- err
						return
					}
					state.Balance = state.Balance.Add(decimal.NewFromInt(1))
					if err := uow.LedgerRepository().SaveState(ctx, state); err != nil {
						errs <- err
						return
					}
					errs <- uow.Commit()
				}()
			}
			wg.Wait()
			close(errs)
			for err := range errs {
				require.NoError(t, err)
			}

			state := loadState(t, factory)
			assert.Equal(t, "20", state.Balance.String())
		})
	}
}

func TestUnitOfWork_EventsFollowTransactionOutcome(t *testing.T) {
	ctx := context.Background()
	bus := events.NewBus()
	received := make(chan events.Event, 4)
	bus.Subscribe(events.EventTypeFeesCollected, func(_ context.Context, e events.Event) {
		received <- e
	})
	factory := NewMemoryUnitOfWorkFactory(bus, decimal.NewFromInt(1000))

	t.Run("rollback discards", func(t *testing.T) {
		uow := factory.Create()
		require.NoError(t, uow.Begin(ctx))
		uow.EventBus().Publish(events.FeesCollectedEvent{ChallengeID: "rolled-back"})
		require.NoError(t, uow.Rollback())

		select {
		case e := <-received:
			t.Fatalf("unexpected event after rollback: %+v", e)
		case <-time.After(50 * time.Millisecond):
		}
	})

	t.Run("commit flushes", func(t *testing.T) {
		uow := factory.Create()
		require.NoError(t, uow.Begin(ctx))
		uow.EventBus().Publish(events.FeesCollectedEvent{ChallengeID: "committed"})
		require.NoError(t, uow.Commit())

		select {
		case e := <-received:
			assert.Equal(t, "committed", e.(events.FeesCollectedEvent).ChallengeID)
		case <-time.After(time.Second):
			t.Fatal("event was not delivered after commit")
		}
	})
}

func TestUnitOfWork_Lifecycle(t *testing.T) {
	ctx := context.Background()
	factory := NewMemoryUnitOfWorkFactory(events.NewBus(), decimal.NewFromInt(1000))

	t.Run("repository before begin panics", func(t *testing.T) {
		uow := factory.Create()
		assert.Panics(t, func() { uow.LedgerRepository() })
	})

	t.Run("commit without begin", func(t *testing.T) {
		uow := factory.Create()
		assert.Error(t, uow.Commit())
	})

	t.Run("rollback without begin is a no-op", func(t *testing.T) {
		uow := factory.Create()
		assert.NoError(t, uow.Rollback())
	})

	t.Run("double begin", func(t *testing.T) {
		uow := factory.Create()
		require.NoError(t, uow.Begin(ctx))
		defer uow.Rollback()
		assert.Error(t, uow.Begin(ctx))
	})

	t.Run("rollback after commit is a no-op", func(t *testing.T) {
		uow := factory.Create()
		require.NoError(t, uow.Begin(ctx))
		require.NoError(t, uow.Commit())
		assert.NoError(t, uow.Rollback())
	})
}

func TestMemoryBackend_BeginHonoursContext(t *testing.T) {
	backend := newMemoryBackend()
	held, err := backend.Begin(context.Background())
	require.NoError(t, err)
	defer held.Rollback(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = backend.Begin(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestLedgerRepository_RejectsCorruptValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"balance", keyUserBalance, "not-a-number"},
		{"fees", keyPlatformFees, "1.2.3"},
		{"challenges", keyChallenges, "{not json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			backend := newMemoryBackend()
			tx, err := backend.Begin(ctx)
			require.NoError(t, err)
			defer tx.Rollback(ctx)

			require.NoError(t, tx.Set(ctx, tt.key, tt.value))

			repo := newLedgerRepositoryWithTx(tx, decimal.NewFromInt(1000))
			_, err = repo.GetState(ctx)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}

func TestLedgerRepository_StoresChallengeAmountsAsNumbers(t *testing.T) {
	ctx := context.Background()
	backend := newMemoryBackend()
	tx, err := backend.Begin(ctx)
	require.NoError(t, err)
	defer tx.Rollback(ctx)

	repo := newLedgerRepositoryWithTx(tx, decimal.NewFromInt(1000))
	state := models.NewLedgerState(decimal.NewFromInt(900))
	state.OpenChallenges = append(state.OpenChallenges, testutil.CreateTestChallenge("abc", 100))
	require.NoError(t, repo.SaveState(ctx, state))

	raw, found, err := tx.Get(ctx, keyChallenges)
	require.NoError(t, err)
	require.True(t, found)
	assert.JSONEq(t, `[{"id":"abc","amount":100,"creatorId":"USER_P1"}]`, raw)

	balance, _, err := tx.Get(ctx, keyUserBalance)
	require.NoError(t, err)
	assert.Equal(t, "900", balance)
}
