package models

import (
	"time"
)

// Transaction types. The wire vocabulary matches what the dashboard
// renders (underscores replaced with spaces client-side).
const (
	TransactionTypeDepositRequest    = "Deposit_Request"
	TransactionTypeWithdrawalRequest = "Withdrawal_Request"
	TransactionTypeTransferSent      = "Transfer_Sent"
	TransactionTypeTransferReceived  = "Transfer_Received"
	TransactionTypePointsToPool      = "Points_Added_To_Pool"
)

// Transaction statuses, one fixed lower-case enumeration.
const (
	TransactionStatusPending   = "pending"   // awaiting manual settlement
	TransactionStatusActive    = "active"    // points sitting in the pending pool
	TransactionStatusCompleted = "completed" // settled, e.g. peer transfers
)

// Transaction currencies.
const (
	CurrencyUSD   = "USD"
	CurrencyPoint = "Point"
)

// Transaction is one append-only audit line. Rows are created inside the
// same database transaction as the ledger mutation they record and are
// never updated or deleted by this service; only an out-of-band back
// office may flip Status. Transactions are a derived trail, never the
// source of truth for a current balance.
type Transaction struct {
	ID       uint    `gorm:"primarykey" json:"id"`
	UserID   uint    `gorm:"index;not null" json:"user_id"`
	Type     string  `gorm:"not null" json:"type"`
	Currency string  `gorm:"not null;default:'USD'" json:"currency"`
	Amount   float64 `gorm:"not null" json:"amount"` // negative = debit, positive = credit
	Status   string  `gorm:"not null;default:'pending'" json:"status"`

	// Free-text display annotations.
	Recipient string `json:"recipient,omitempty"`
	Sender    string `json:"sender,omitempty"`
	Address   string `json:"address,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}
