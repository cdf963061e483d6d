package testutil

import (
	"fmt"
	"sync/atomic"

	"dicewager/models"

	"github.com/shopspring/decimal"
)

// TestCreatorID is the local user used by test fixtures
const TestCreatorID = "USER_P1"

// CreateTestChallenge creates an open challenge with the given stake
func CreateTestChallenge(id string, amount int64) models.Challenge {
	return models.Challenge{
		ID:        id,
		Amount:    decimal.NewFromInt(amount),
		CreatorID: TestCreatorID,
	}
}

// CreateTestLedgerState creates a ledger with count open challenges of the given stake
func CreateTestLedgerState(balance string, stake int64, count int) *models.LedgerState {
	state := models.NewLedgerState(decimal.RequireFromString(balance))
	for i := range count {
		state.OpenChallenges = append(state.OpenChallenges, CreateTestChallenge(fmt.Sprintf("challenge-%d", i+1), stake))
	}
	return state
}

// SequentialIDs returns an ID generator producing id-1, id-2, ...
func SequentialIDs(prefix string) func() string {
	var n atomic.Int64
	return func() string {
		return fmt.Sprintf("%s-%d", prefix, n.Add(1))
	}
}
