package models

// TransactionType represents the reason for a balance change
type TransactionType string

const (
	TransactionTypeChallengeEscrow TransactionType = "challenge_escrow"
	TransactionTypeSettlementWin   TransactionType = "settlement_win"
	TransactionTypeSettlementTie   TransactionType = "settlement_tie"
)
