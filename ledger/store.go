package ledger

import (
	"dicewager/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Store applies ledger operations to a LedgerState it exclusively owns for
// its lifetime. It performs no locking; callers serialize access.
type Store struct {
	state     *models.LedgerState
	limits    Limits
	creatorID string
	newID     func() string
}

// StoreOption customizes a Store
type StoreOption func(*Store)

// WithIDGenerator replaces the UUID generator used for new challenges
func WithIDGenerator(fn func() string) StoreOption {
	return func(s *Store) {
		s.newID = fn
	}
}

// NewStore wraps state. creatorID is the local user that owns every
// challenge created through this store.
func NewStore(state *models.LedgerState, limits Limits, creatorID string, opts ...StoreOption) *Store {
	if state.OpenChallenges == nil {
		state.OpenChallenges = []models.Challenge{}
	}
	s := &Store{
		state:     state,
		limits:    limits,
		creatorID: creatorID,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the wrapped state
func (s *Store) State() *models.LedgerState {
	return s.state
}

// CreateChallenges debits amount*count from the balance and appends count
// new open challenges. On error the state is untouched.
func (s *Store) CreateChallenges(amount decimal.Decimal, count int) ([]models.Challenge, error) {
	if err := s.limits.Validate(amount, count); err != nil {
		return nil, err
	}

	cost := CreationCost(amount, count)
	if cost.GreaterThan(s.state.Balance) {
		return nil, insufficientFunds(cost, s.state.Balance)
	}

	taken := make(map[string]struct{}, len(s.state.OpenChallenges)+count)
	for _, c := range s.state.OpenChallenges {
		taken[c.ID] = struct{}{}
	}

	created := make([]models.Challenge, 0, count)
	for i := 0; i < count; i++ {
		id := s.newID()
		for {
			if _, dup := taken[id]; !dup {
				break
			}
			id = s.newID()
		}
		taken[id] = struct{}{}

		created = append(created, models.Challenge{
			ID:        id,
			Amount:    amount,
			CreatorID: s.creatorID,
		})
	}

	s.state.Balance = s.state.Balance.Sub(cost)
	s.state.OpenChallenges = append(s.state.OpenChallenges, created...)

	return created, nil
}

// FindChallenge looks up an open challenge by ID
func (s *Store) FindChallenge(id string) (models.Challenge, bool) {
	for _, c := range s.state.OpenChallenges {
		if c.ID == id {
			return c, true
		}
	}
	return models.Challenge{}, false
}

// RemoveChallenge drops an open challenge, preserving the order of the rest.
// Removing an ID that is not open is a no-op and reports false.
func (s *Store) RemoveChallenge(id string) bool {
	for i, c := range s.state.OpenChallenges {
		if c.ID == id {
			remaining := make([]models.Challenge, 0, len(s.state.OpenChallenges)-1)
			remaining = append(remaining, s.state.OpenChallenges[:i]...)
			remaining = append(remaining, s.state.OpenChallenges[i+1:]...)
			s.state.OpenChallenges = remaining
			return true
		}
	}
	return false
}

// ApplySettlement credits the local user and accumulates the platform fee
func (s *Store) ApplySettlement(result models.SettlementResult) {
	s.state.Balance = s.state.Balance.Add(result.LocalCredit())
	s.state.FeesCollected = s.state.FeesCollected.Add(result.PlatformFee)
}

// Accept resolves the open challenge id with engine, applies the outcome and
// removes the challenge, all as one step.
func (s *Store) Accept(id string, engine *Engine) (models.SettlementResult, error) {
	challenge, ok := s.FindChallenge(id)
	if !ok {
		return models.SettlementResult{}, challengeNotFound(id)
	}

	result := engine.Resolve(challenge)
	s.ApplySettlement(result)
	s.RemoveChallenge(id)

	return result, nil
}
