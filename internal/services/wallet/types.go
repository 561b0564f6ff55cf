package wallet

import (
	"context"

	"primepool/internal/models"
)

// Config holds tunables for wallet operations.
type Config struct {
	MinWithdraw      float64
	MinTransfer      float64
	MinPoolPoints    int64
	HistoryLimit     int
	DepositAddresses map[string]string // coin -> platform deposit address
}

// DepositInput is a request to queue a deposit for manual verification.
type DepositInput struct {
	Amount float64 `json:"amount"`
	Coin   string  `json:"coin"`
	TxHash string  `json:"tx_hash"`
}

// WithdrawInput is a request to withdraw USD to an external address.
type WithdrawInput struct {
	Amount  float64 `json:"amount"`
	Coin    string  `json:"coin"`
	Address string  `json:"address"`
}

// TransferInput is a request to move USD to another member by username.
type TransferInput struct {
	ToUsername string  `json:"to_username"`
	Amount     float64 `json:"amount"`
}

// TransferResult reports a completed transfer.
type TransferResult struct {
	ToUsername string  `json:"to_username"`
	Amount     float64 `json:"amount"`
	NewBalance float64 `json:"new_balance"`
}

// Service is the wallet operations engine: the four value-moving
// operations plus the reads the wallet tab renders.
type Service interface {
	// GetLedger returns the user's balances for display.
	GetLedger(ctx context.Context, userID uint) (*models.Ledger, error)

	// RequestDeposit queues a deposit request; the ledger is untouched
	// until the back office verifies and credits it.
	RequestDeposit(ctx context.Context, userID uint, in DepositInput) (*models.DepositRequest, error)

	// Withdraw deducts the balance and queues a payout request.
	Withdraw(ctx context.Context, userID uint, in WithdrawInput) (*models.WithdrawRequest, error)

	// Transfer moves USD between two members atomically.
	Transfer(ctx context.Context, userID uint, in TransferInput) (*TransferResult, error)

	// AddToPool moves points into the weekly distribution pool.
	AddToPool(ctx context.Context, userID uint, points int64) (*models.Ledger, error)

	// History returns the user's latest transactions, newest first.
	History(ctx context.Context, userID uint) ([]models.Transaction, error)

	// DepositAddress returns the platform address for a coin.
	DepositAddress(coin string) (string, error)
}
