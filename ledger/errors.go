package ledger

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrorKind classifies a rejected ledger operation
type ErrorKind string

const (
	KindInvalidAmount     ErrorKind = "InvalidAmount"
	KindInvalidCount      ErrorKind = "InvalidCount"
	KindInsufficientFunds ErrorKind = "InsufficientFunds"
	KindChallengeNotFound ErrorKind = "ChallengeNotFound"
)

// Sentinels for use with errors.Is
var (
	ErrInvalidAmount     = &Error{Kind: KindInvalidAmount}
	ErrInvalidCount      = &Error{Kind: KindInvalidCount}
	ErrInsufficientFunds = &Error{Kind: KindInsufficientFunds}
	ErrChallengeNotFound = &Error{Kind: KindChallengeNotFound}
)

// Error is a validation failure. It is always returned before any state
// is mutated, so the operation can simply be retried with different input.
type Error struct {
	Kind        ErrorKind
	Message     string
	Shortfall   decimal.Decimal // set for InsufficientFunds
	ChallengeID string          // set for ChallengeNotFound
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return e.Message
}

// Is matches any *Error of the same kind
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// KindOf extracts the ledger error kind from err, if any
func KindOf(err error) (ErrorKind, bool) {
	var ledgerErr *Error
	if errors.As(err, &ledgerErr) {
		return ledgerErr.Kind, true
	}
	return "", false
}

func invalidAmount(limits Limits) *Error {
	return &Error{
		Kind:    KindInvalidAmount,
		Message: fmt.Sprintf("Bet amount must be between %s and %s.", limits.MinBet, limits.MaxBet),
	}
}

func invalidCount(limits Limits) *Error {
	return &Error{
		Kind:    KindInvalidCount,
		Message: fmt.Sprintf("Number of challenges must be between %d and %d.", limits.MinCount, limits.MaxCount),
	}
}

func insufficientFunds(cost, balance decimal.Decimal) *Error {
	return &Error{
		Kind:      KindInsufficientFunds,
		Message:   fmt.Sprintf("Insufficient balance. You need %s units, but have %s.", cost, balance),
		Shortfall: cost.Sub(balance),
	}
}

func challengeNotFound(id string) *Error {
	return &Error{
		Kind:        KindChallengeNotFound,
		Message:     "Challenge not found.",
		ChallengeID: id,
	}
}
