package models

import "time"

// Request statuses shared by deposit and withdraw queues.
const (
	RequestStatusPending  = "pending"
	RequestStatusApproved = "approved"
	RequestStatusRejected = "rejected"
)

// DepositRequest queues an incoming crypto deposit for manual
// verification. Submitting one never touches the ledger; the balance is
// credited by the back office after the on-chain transfer is confirmed.
type DepositRequest struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Reference string    `gorm:"uniqueIndex;not null" json:"reference"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	Username  string    `json:"username"`
	Amount    float64   `gorm:"not null" json:"amount"`
	Coin      string    `gorm:"not null" json:"coin"`
	TxHash    string    `json:"tx_hash"`
	Status    string    `gorm:"not null;default:'pending'" json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// WithdrawRequest queues an outgoing payout. The withdrawn amount is
// already deducted from the ledger when the row is created; the back
// office only executes the on-chain transfer.
type WithdrawRequest struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Reference string    `gorm:"uniqueIndex;not null" json:"reference"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	Username  string    `json:"username"`
	Amount    float64   `gorm:"not null" json:"amount"`
	Coin      string    `gorm:"not null" json:"coin"`
	Address   string    `gorm:"not null" json:"address"`
	Status    string    `gorm:"not null;default:'pending'" json:"status"`
	CreatedAt time.Time `json:"created_at"`
}
