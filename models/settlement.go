package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Winner identifies which side of a challenge won
type Winner string

const (
	WinnerCreator  Winner = "creator"
	WinnerAccepter Winner = "accepter"
	WinnerTie      Winner = "tie"
)

// SettlementResult describes one resolved game. It is never persisted.
type SettlementResult struct {
	ChallengeID     string          `json:"challengeId"`
	ChallengeAmount decimal.Decimal `json:"challengeAmount"`
	CreatorRoll     int             `json:"creatorRoll"`
	AccepterRoll    int             `json:"accepterRoll"`
	Winner          Winner          `json:"winner"`
	PrizePool       decimal.Decimal `json:"prizePool"`
	PrizeWon        decimal.Decimal `json:"prizeWon"`
	PlatformFee     decimal.Decimal `json:"platformFee"`
}

// LocalCredit returns the amount credited back to the local user's balance.
// The accepter is simulated and untracked, so an accepter win credits nothing.
func (r *SettlementResult) LocalCredit() decimal.Decimal {
	switch r.Winner {
	case WinnerCreator, WinnerTie:
		return r.PrizeWon
	default:
		return decimal.Zero
	}
}

// Summary returns a headline and message describing the result from the
// local user's point of view. Fees are rounded to two places for display only.
func (r *SettlementResult) Summary() (title, message string) {
	fee := r.PlatformFee.StringFixed(2)
	switch r.Winner {
	case WinnerTie:
		return "It's a Tie!", fmt.Sprintf("Both players rolled %d. Bets are returned.", r.CreatorRoll)
	case WinnerCreator:
		return "Congratulations, You Won!", fmt.Sprintf("You won %s units (after %s units fee).", r.PrizeWon.String(), fee)
	default:
		return "Better Luck Next Time!", fmt.Sprintf("Your opponent won. The prize was %s units (after %s units fee).", r.PrizeWon.String(), fee)
	}
}
