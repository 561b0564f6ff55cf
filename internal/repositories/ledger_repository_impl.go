package repositories

import (
	"errors"
	"fmt"

	"primepool/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ledgerRepository struct {
	db *gorm.DB
}

// NewLedgerRepository creates a ledger repository backed by the given database.
func NewLedgerRepository(db *gorm.DB) LedgerRepository {
	return &ledgerRepository{db: db}
}

func (r *ledgerRepository) GetLedger(userID uint) (*models.Ledger, error) {
	var user models.User
	if err := r.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLedgerNotFound
		}
		return nil, fmt.Errorf("failed to get ledger: %w", err)
	}
	return user.LedgerView(), nil
}

func (r *ledgerRepository) GetUserForUpdate(userID uint) (*models.User, error) {
	var user models.User
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&user, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLedgerNotFound
		}
		return nil, fmt.Errorf("failed to lock ledger row: %w", err)
	}
	return &user, nil
}

func (r *ledgerRepository) SaveLedger(user *models.User) error {
	err := r.db.Model(&models.User{}).Where("id = ?", user.ID).Updates(map[string]interface{}{
		"balance":             user.Balance,
		"points":              user.Points,
		"points_pending_pool": user.PointsPendingPool,
	}).Error
	if err != nil {
		return fmt.Errorf("failed to save ledger: %w", err)
	}
	return nil
}

func (r *ledgerRepository) AppendTransaction(tx *models.Transaction) error {
	if tx.UserID == 0 || tx.Type == "" {
		return ErrInvalidTransaction
	}
	if err := r.db.Create(tx).Error; err != nil {
		return fmt.Errorf("failed to append transaction: %w", err)
	}
	return nil
}

func (r *ledgerRepository) CreateDepositRequest(req *models.DepositRequest) error {
	if err := r.db.Create(req).Error; err != nil {
		return fmt.Errorf("failed to create deposit request: %w", err)
	}
	return nil
}

func (r *ledgerRepository) CreateWithdrawRequest(req *models.WithdrawRequest) error {
	if err := r.db.Create(req).Error; err != nil {
		return fmt.Errorf("failed to create withdraw request: %w", err)
	}
	return nil
}

func (r *ledgerRepository) ListTransactions(userID uint, limit int) ([]models.Transaction, error) {
	var txs []models.Transaction
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&txs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return txs, nil
}

func (r *ledgerRepository) ExecuteInTransaction(fn func(LedgerRepository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&ledgerRepository{db: tx})
	})
}
