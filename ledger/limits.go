package ledger

import (
	"github.com/shopspring/decimal"
)

// Limits bounds the stake and batch size accepted by CreateChallenges
type Limits struct {
	MinBet   decimal.Decimal
	MaxBet   decimal.Decimal
	MinCount int
	MaxCount int
}

// DefaultLimits returns the stock bounds: 10..10000 units, 1..10 challenges
func DefaultLimits() Limits {
	return Limits{
		MinBet:   decimal.NewFromInt(10),
		MaxBet:   decimal.NewFromInt(10000),
		MinCount: 1,
		MaxCount: 10,
	}
}

// Validate checks amount and count against the bounds, amount first
func (l Limits) Validate(amount decimal.Decimal, count int) error {
	if amount.LessThan(l.MinBet) || amount.GreaterThan(l.MaxBet) || !amount.IsPositive() {
		return invalidAmount(l)
	}
	if count < l.MinCount || count > l.MaxCount {
		return invalidCount(l)
	}
	return nil
}

// CreationCost is the total debited when creating count challenges of amount
func CreationCost(amount decimal.Decimal, count int) decimal.Decimal {
	return amount.Mul(decimal.NewFromInt(int64(count)))
}
