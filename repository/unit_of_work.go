package repository

import (
	"context"
	"fmt"

	"dicewager/database"
	"dicewager/events"
	"dicewager/service"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// unitOfWork implements the UnitOfWork interface
type unitOfWork struct {
	backend          kvBackend
	tx               kvTx
	ctx              context.Context
	initialBalance   decimal.Decimal
	transactionalBus *events.TransactionalBus
	ledgerRepo       service.LedgerRepository
}

type unitOfWorkFactory struct {
	backend        kvBackend
	eventBus       *events.Bus
	initialBalance decimal.Decimal
}

// NewMemoryUnitOfWorkFactory creates a factory over an in-process ledger.
// State is lost when the process exits.
func NewMemoryUnitOfWorkFactory(eventBus *events.Bus, initialBalance decimal.Decimal) service.UnitOfWorkFactory {
	return newUnitOfWorkFactory(newMemoryBackend(), eventBus, initialBalance)
}

// NewSQLiteUnitOfWorkFactory creates a factory over a local SQLite database
func NewSQLiteUnitOfWorkFactory(db *database.SQLiteDB, eventBus *events.Bus, initialBalance decimal.Decimal) service.UnitOfWorkFactory {
	return newUnitOfWorkFactory(&sqliteBackend{db: db}, eventBus, initialBalance)
}

// NewPostgresUnitOfWorkFactory creates a factory over a Postgres database
func NewPostgresUnitOfWorkFactory(db *database.DB, eventBus *events.Bus, initialBalance decimal.Decimal) service.UnitOfWorkFactory {
	return newUnitOfWorkFactory(&postgresBackend{db: db}, eventBus, initialBalance)
}

func newUnitOfWorkFactory(backend kvBackend, eventBus *events.Bus, initialBalance decimal.Decimal) *unitOfWorkFactory {
	log.WithField("backend", backend.Name()).Debug("Created unit of work factory")
	return &unitOfWorkFactory{
		backend:        backend,
		eventBus:       eventBus,
		initialBalance: initialBalance,
	}
}

func (f *unitOfWorkFactory) Create() service.UnitOfWork {
	return &unitOfWork{
		backend:          f.backend,
		initialBalance:   f.initialBalance,
		transactionalBus: events.NewTransactionalBus(f.eventBus),
	}
}

// Begin starts a new transaction
func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}

	tx, err := u.backend.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	u.tx = tx
	u.ctx = ctx
	u.ledgerRepo = newLedgerRepositoryWithTx(tx, u.initialBalance)

	return nil
}

// Commit commits the transaction
func (u *unitOfWork) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}

	err := u.tx.Commit(u.ctx)
	u.tx = nil
	if err != nil {
		if u.transactionalBus != nil {
			u.transactionalBus.Discard()
		}
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	// Flush pending events after successful commit
	if u.transactionalBus != nil {
		u.transactionalBus.Flush(u.ctx)
	}

	return nil
}

// Rollback rolls back the transaction
func (u *unitOfWork) Rollback() error {
	if u.tx == nil {
		return nil // Nothing to rollback
	}

	err := u.tx.Rollback(u.ctx)
	u.tx = nil

	// Discard pending events on rollback
	if u.transactionalBus != nil {
		u.transactionalBus.Discard()
	}

	if err != nil {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}
	return nil
}

// LedgerRepository returns the ledger repository for this unit of work
func (u *unitOfWork) LedgerRepository() service.LedgerRepository {
	if u.ledgerRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.ledgerRepo
}

// EventBus returns the transactional event bus for this unit of work
func (u *unitOfWork) EventBus() service.EventPublisher {
	if u.transactionalBus == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.transactionalBus
}
