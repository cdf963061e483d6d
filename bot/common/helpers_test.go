package common

import (
	"dicewager/models"

	"github.com/shopspring/decimal"
)

func ledgerStateWithBalance(balance string) *models.LedgerState {
	return models.NewLedgerState(decimal.RequireFromString(balance))
}
