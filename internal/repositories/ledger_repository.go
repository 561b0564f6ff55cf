package repositories

import (
	"errors"

	"primepool/internal/models"
)

var (
	ErrLedgerNotFound     = errors.New("ledger not found")
	ErrInvalidTransaction = errors.New("invalid transaction record")
)

// LedgerRepository defines the database operations behind the wallet.
// Every balance mutation pairs a locked re-read with the writes that
// depend on it; callers get that atomicity by doing all their work inside
// ExecuteInTransaction.
type LedgerRepository interface {
	// GetLedger reads the ledger fields of a user.
	GetLedger(userID uint) (*models.Ledger, error)

	// GetUserForUpdate re-reads the user row locked FOR UPDATE. Only valid
	// inside ExecuteInTransaction; this is the authoritative read behind
	// every sufficiency decision.
	GetUserForUpdate(userID uint) (*models.User, error)

	// SaveLedger persists only the ledger columns of a user row.
	SaveLedger(user *models.User) error

	// AppendTransaction inserts one append-only audit line. Called only
	// inside the same transaction as the ledger mutation it records.
	AppendTransaction(tx *models.Transaction) error

	// CreateDepositRequest queues a deposit for manual verification.
	CreateDepositRequest(req *models.DepositRequest) error

	// CreateWithdrawRequest queues a payout for manual execution.
	CreateWithdrawRequest(req *models.WithdrawRequest) error

	// ListTransactions returns the user's latest audit lines, newest first.
	ListTransactions(userID uint, limit int) ([]models.Transaction, error)

	// ExecuteInTransaction runs fn against a transaction-scoped repository;
	// the whole closure commits or rolls back as one unit.
	ExecuteInTransaction(fn func(LedgerRepository) error) error
}
