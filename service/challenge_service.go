package service

import (
	"context"
	"errors"
	"fmt"

	"dicewager/events"
	"dicewager/ledger"
	"dicewager/models"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type challengeService struct {
	uowFactory     UnitOfWorkFactory
	engine         *ledger.Engine
	limits         ledger.Limits
	creatorID      string
	errorPublisher EventPublisher
	storeOpts      []ledger.StoreOption
}

// NewChallengeService creates a new challenge service. Rejected operations
// are reported on errorPublisher immediately since they never commit.
func NewChallengeService(uowFactory UnitOfWorkFactory, engine *ledger.Engine, limits ledger.Limits, creatorID string, errorPublisher EventPublisher, storeOpts ...ledger.StoreOption) ChallengeService {
	return &challengeService{
		uowFactory:     uowFactory,
		engine:         engine,
		limits:         limits,
		creatorID:      creatorID,
		errorPublisher: errorPublisher,
		storeOpts:      storeOpts,
	}
}

func (s *challengeService) CreateChallenges(ctx context.Context, amount decimal.Decimal, count int) ([]models.Challenge, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	state, err := uow.LedgerRepository().GetState(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger: %w", err)
	}
	oldBalance := state.Balance

	store := ledger.NewStore(state, s.limits, s.creatorID, s.storeOpts...)
	created, err := store.CreateChallenges(amount, count)
	if err != nil {
		s.reportRejection(err)
		return nil, err
	}

	if err := uow.LedgerRepository().SaveState(ctx, state); err != nil {
		return nil, fmt.Errorf("failed to save ledger: %w", err)
	}

	RecordBalanceChange(uow, s.creatorID, oldBalance, state.Balance, models.TransactionTypeChallengeEscrow)
	uow.EventBus().Publish(events.ChallengesCreatedEvent{
		Challenges: created,
		TotalCost:  oldBalance.Sub(state.Balance),
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"count":      len(created),
		"amount":     amount.String(),
		"newBalance": state.Balance.String(),
	}).Info("Created challenges")

	return created, nil
}

func (s *challengeService) AcceptChallenge(ctx context.Context, challengeID string) (*models.SettlementResult, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	state, err := uow.LedgerRepository().GetState(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger: %w", err)
	}
	oldBalance := state.Balance

	store := ledger.NewStore(state, s.limits, s.creatorID, s.storeOpts...)
	result, err := store.Accept(challengeID, s.engine)
	if err != nil {
		s.reportRejection(err)
		return nil, err
	}

	if err := uow.LedgerRepository().SaveState(ctx, state); err != nil {
		return nil, fmt.Errorf("failed to save ledger: %w", err)
	}

	transactionType := models.TransactionTypeSettlementWin
	if result.Winner == models.WinnerTie {
		transactionType = models.TransactionTypeSettlementTie
	}
	RecordBalanceChange(uow, s.creatorID, oldBalance, state.Balance, transactionType)

	if result.PlatformFee.IsPositive() {
		uow.EventBus().Publish(events.FeesCollectedEvent{
			ChallengeID:    result.ChallengeID,
			Fee:            result.PlatformFee,
			TotalCollected: state.FeesCollected,
		})
	}
	uow.EventBus().Publish(events.ChallengeAcceptedEvent{Result: result})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"challengeID":  result.ChallengeID,
		"creatorRoll":  result.CreatorRoll,
		"accepterRoll": result.AccepterRoll,
		"winner":       result.Winner,
		"fee":          result.PlatformFee.String(),
	}).Info("Settled challenge")

	return &result, nil
}

func (s *challengeService) ListOpenChallenges(ctx context.Context) ([]models.Challenge, error) {
	state, err := s.GetLedger(ctx)
	if err != nil {
		return nil, err
	}
	return state.OpenChallenges, nil
}

func (s *challengeService) GetLedger(ctx context.Context) (*models.LedgerState, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	state, err := uow.LedgerRepository().GetState(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger: %w", err)
	}
	return state, nil
}

func (s *challengeService) CreationCost(amount decimal.Decimal, count int) decimal.Decimal {
	return ledger.CreationCost(amount, count)
}

func (s *challengeService) Limits() ledger.Limits {
	return s.limits
}

// reportRejection publishes a ledger error event for validation failures
func (s *challengeService) reportRejection(err error) {
	var ledgerErr *ledger.Error
	if !errors.As(err, &ledgerErr) {
		return
	}

	log.WithFields(log.Fields{
		"kind":    ledgerErr.Kind,
		"message": ledgerErr.Message,
	}).Warn("Ledger operation rejected")

	if s.errorPublisher == nil {
		return
	}
	s.errorPublisher.Publish(events.LedgerErrorEvent{
		Kind:        string(ledgerErr.Kind),
		Message:     ledgerErr.Message,
		Shortfall:   ledgerErr.Shortfall,
		ChallengeID: ledgerErr.ChallengeID,
	})
}
