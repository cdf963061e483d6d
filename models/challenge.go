package models

import (
	"github.com/shopspring/decimal"
)

func init() {
	// Stakes are persisted and served as JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// ShortIDLength is how many characters of a challenge ID are shown in listings
const ShortIDLength = 12

// Challenge represents an open wager waiting for an opponent
type Challenge struct {
	ID        string          `json:"id"`
	Amount    decimal.Decimal `json:"amount"`
	CreatorID string          `json:"creatorId"`
}

// ShortID returns the abbreviated identifier used for display
func (c Challenge) ShortID() string {
	if len(c.ID) <= ShortIDLength {
		return c.ID
	}
	return c.ID[:ShortIDLength]
}
