package common

import (
	"errors"
	"testing"

	"dicewager/ledger"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFromServiceError(t *testing.T) {
	t.Run("ledger rejection keeps its message", func(t *testing.T) {
		store := ledger.NewStore(ledgerStateWithBalance("5"), ledger.DefaultLimits(), "USER_P1")
		_, err := store.CreateChallenges(decimal.NewFromInt(10), 1)

		botErr := FromServiceError(err, "create failed")
		assert.Equal(t, "Insufficient balance. You need 10 units, but have 5.", botErr.UserMessage)
		assert.True(t, botErr.Ephemeral)
		assert.ErrorIs(t, botErr, ledger.ErrInsufficientFunds)
	})

	t.Run("other errors are hidden", func(t *testing.T) {
		cause := errors.New("database locked")
		botErr := FromServiceError(cause, "create failed")
		assert.Equal(t, "Something went wrong. Please try again later.", botErr.UserMessage)
		assert.ErrorIs(t, botErr, cause)
		assert.Contains(t, botErr.Error(), "create failed")
	})
}
