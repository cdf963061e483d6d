package service

import (
	"context"

	"dicewager/events"
	"dicewager/ledger"
	"dicewager/models"

	"github.com/shopspring/decimal"
)

// LedgerRepository defines the interface for ledger state access
type LedgerRepository interface {
	// GetState loads the ledger; missing data yields a fresh session
	GetState(ctx context.Context) (*models.LedgerState, error)

	// SaveState persists balance, collected fees and open challenges
	SaveState(ctx context.Context, state *models.LedgerState) error
}

// ChallengeService defines the interface for challenge operations
type ChallengeService interface {
	// CreateChallenges escrows amount*count and opens count challenges
	CreateChallenges(ctx context.Context, amount decimal.Decimal, count int) ([]models.Challenge, error)

	// AcceptChallenge resolves an open challenge against a simulated opponent
	AcceptChallenge(ctx context.Context, challengeID string) (*models.SettlementResult, error)

	// ListOpenChallenges returns open challenges in creation order
	ListOpenChallenges(ctx context.Context) ([]models.Challenge, error)

	// GetLedger returns a snapshot of the whole ledger
	GetLedger(ctx context.Context) (*models.LedgerState, error)

	// CreationCost previews the total escrow of a batch without validating it
	CreationCost(amount decimal.Decimal, count int) decimal.Decimal

	// Limits returns the stake and batch-size bounds
	Limits() ledger.Limits
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event)
}

// UnitOfWork defines the interface for transactional repository operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Repository getters
	LedgerRepository() LedgerRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}
