package ledger

import (
	"fmt"

	"dicewager/models"

	"github.com/shopspring/decimal"
)

var two = decimal.NewFromInt(2)

// Engine resolves accepted challenges into settlement results
type Engine struct {
	feeRate decimal.Decimal
	diceMin int
	diceMax int
	roller  DiceRoller
}

// NewEngine creates a settlement engine. feeRate is the fraction of the total
// prize pool taken by the platform on a decisive game.
func NewEngine(feeRate decimal.Decimal, diceMin, diceMax int, roller DiceRoller) (*Engine, error) {
	if feeRate.IsNegative() || feeRate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return nil, fmt.Errorf("fee rate must be in [0, 1), got %s", feeRate)
	}
	if diceMin > diceMax {
		return nil, fmt.Errorf("dice range is empty: [%d, %d]", diceMin, diceMax)
	}
	if roller == nil {
		roller = RandomRoller{}
	}
	return &Engine{
		feeRate: feeRate,
		diceMin: diceMin,
		diceMax: diceMax,
		roller:  roller,
	}, nil
}

// FeeRate returns the configured platform fee fraction
func (e *Engine) FeeRate() decimal.Decimal {
	return e.feeRate
}

// DiceRange returns the inclusive roll bounds
func (e *Engine) DiceRange() (int, int) {
	return e.diceMin, e.diceMax
}

// Resolve rolls for both sides and settles the challenge
func (e *Engine) Resolve(challenge models.Challenge) models.SettlementResult {
	creatorRoll := e.roller.Roll(e.diceMin, e.diceMax)
	accepterRoll := e.roller.Roll(e.diceMin, e.diceMax)
	return e.Settle(challenge, creatorRoll, accepterRoll)
}

// Settle computes the outcome for a given pair of rolls. The fee is a
// fraction of the whole pool and is deducted from it; nothing is rounded.
func (e *Engine) Settle(challenge models.Challenge, creatorRoll, accepterRoll int) models.SettlementResult {
	result := models.SettlementResult{
		ChallengeID:     challenge.ID,
		ChallengeAmount: challenge.Amount,
		CreatorRoll:     creatorRoll,
		AccepterRoll:    accepterRoll,
		PrizePool:       challenge.Amount.Mul(two),
	}

	switch {
	case creatorRoll > accepterRoll:
		result.Winner = models.WinnerCreator
	case accepterRoll > creatorRoll:
		result.Winner = models.WinnerAccepter
	default:
		// Stakes go back to both sides, no fee
		result.Winner = models.WinnerTie
		result.PrizeWon = challenge.Amount
		result.PlatformFee = decimal.Zero
		return result
	}

	result.PlatformFee = result.PrizePool.Mul(e.feeRate)
	result.PrizeWon = result.PrizePool.Sub(result.PlatformFee)
	return result
}
