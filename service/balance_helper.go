package service

import (
	"dicewager/events"
	"dicewager/models"

	"github.com/shopspring/decimal"
)

// RecordBalanceChange emits a balance change event for the local user.
// This is the single entry point for all balance changes in the system.
// Nothing is emitted when the balance did not move.
func RecordBalanceChange(uow UnitOfWork, userID string, oldBalance, newBalance decimal.Decimal, transactionType models.TransactionType) {
	if oldBalance.Equal(newBalance) {
		return
	}

	// Emit balance change event (will be flushed after transaction commits)
	uow.EventBus().Publish(events.BalanceChangeEvent{
		UserID:          userID,
		OldBalance:      oldBalance,
		NewBalance:      newBalance,
		ChangeAmount:    newBalance.Sub(oldBalance),
		TransactionType: transactionType,
	})
}
