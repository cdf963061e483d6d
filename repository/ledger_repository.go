package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"dicewager/models"

	"github.com/shopspring/decimal"
)

// Persisted keys. A missing key means a fresh session.
const (
	keyUserBalance  = "userBalance"
	keyPlatformFees = "platformFees"
	keyChallenges   = "challenges"
)

// LedgerRepository reads and writes the ledger state inside one transaction
type LedgerRepository struct {
	tx             kvTx
	initialBalance decimal.Decimal
}

// newLedgerRepositoryWithTx creates a ledger repository bound to a transaction
func newLedgerRepositoryWithTx(tx kvTx, initialBalance decimal.Decimal) *LedgerRepository {
	return &LedgerRepository{tx: tx, initialBalance: initialBalance}
}

// GetState loads the ledger, substituting fresh-session defaults for
// missing keys
func (r *LedgerRepository) GetState(ctx context.Context) (*models.LedgerState, error) {
	state := models.NewLedgerState(r.initialBalance)

	balance, err := r.getDecimal(ctx, keyUserBalance)
	if err != nil {
		return nil, err
	}
	if balance != nil {
		state.Balance = *balance
	}

	fees, err := r.getDecimal(ctx, keyPlatformFees)
	if err != nil {
		return nil, err
	}
	if fees != nil {
		state.FeesCollected = *fees
	}

	raw, found, err := r.tx.Get(ctx, keyChallenges)
	if err != nil {
		return nil, err
	}
	if found && raw != "" {
		var challenges []models.Challenge
		if err := json.Unmarshal([]byte(raw), &challenges); err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", keyChallenges, err)
		}
		if challenges != nil {
			state.OpenChallenges = challenges
		}
	}

	return state, nil
}

// SaveState writes all three keys
func (r *LedgerRepository) SaveState(ctx context.Context, state *models.LedgerState) error {
	challenges := state.OpenChallenges
	if challenges == nil {
		challenges = []models.Challenge{}
	}
	encoded, err := json.Marshal(challenges)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", keyChallenges, err)
	}

	if err := r.tx.Set(ctx, keyUserBalance, state.Balance.String()); err != nil {
		return err
	}
	if err := r.tx.Set(ctx, keyPlatformFees, state.FeesCollected.String()); err != nil {
		return err
	}
	return r.tx.Set(ctx, keyChallenges, string(encoded))
}

func (r *LedgerRepository) getDecimal(ctx context.Context, key string) (*decimal.Decimal, error) {
	raw, found, err := r.tx.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if !found || raw == "" {
		return nil, nil
	}
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return &value, nil
}
