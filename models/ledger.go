package models

import (
	"github.com/shopspring/decimal"
)

// LedgerState is the complete persisted state of the local user's ledger
type LedgerState struct {
	Balance        decimal.Decimal `json:"balance"`
	FeesCollected  decimal.Decimal `json:"feesCollected"`
	OpenChallenges []Challenge     `json:"openChallenges"`
}

// NewLedgerState creates the state of a fresh session
func NewLedgerState(initialBalance decimal.Decimal) *LedgerState {
	return &LedgerState{
		Balance:        initialBalance,
		FeesCollected:  decimal.Zero,
		OpenChallenges: []Challenge{},
	}
}

// Escrowed returns the sum of stakes held by open challenges
func (s *LedgerState) Escrowed() decimal.Decimal {
	total := decimal.Zero
	for _, c := range s.OpenChallenges {
		total = total.Add(c.Amount)
	}
	return total
}

// Clone returns a deep copy so callers can mutate without touching the original
func (s *LedgerState) Clone() *LedgerState {
	challenges := make([]Challenge, len(s.OpenChallenges))
	copy(challenges, s.OpenChallenges)
	return &LedgerState{
		Balance:        s.Balance,
		FeesCollected:  s.FeesCollected,
		OpenChallenges: challenges,
	}
}
