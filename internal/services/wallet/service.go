package wallet

import (
	"context"
	"errors"
	"fmt"
	"log"

	"primepool/internal/models"
	"primepool/internal/repositories"
	"primepool/internal/services/ledger"

	"github.com/google/uuid"
)

type service struct {
	repo   repositories.LedgerRepository
	users  repositories.UserRepository
	ledger ledger.Service
	config Config
}

// NewService creates a new wallet service.
func NewService(
	repo repositories.LedgerRepository,
	users repositories.UserRepository,
	ledgerSvc ledger.Service,
	config Config,
) Service {
	if repo == nil {
		panic("repo is required")
	}
	if users == nil {
		panic("user repo is required")
	}
	if ledgerSvc == nil {
		panic("ledger service is required")
	}

	if config.MinWithdraw == 0 {
		config.MinWithdraw = DefaultMinWithdraw
	}
	if config.MinTransfer == 0 {
		config.MinTransfer = DefaultMinTransfer
	}
	if config.MinPoolPoints == 0 {
		config.MinPoolPoints = DefaultMinPoolPoints
	}
	if config.HistoryLimit == 0 {
		config.HistoryLimit = DefaultHistoryLimit
	}
	if config.DepositAddresses == nil {
		config.DepositAddresses = defaultDepositAddresses
	}

	return &service{
		repo:   repo,
		users:  users,
		ledger: ledgerSvc,
		config: config,
	}
}

func (s *service) GetLedger(ctx context.Context, userID uint) (*models.Ledger, error) {
	return s.ledger.GetLedger(ctx, userID)
}

func (s *service) DepositAddress(coin string) (string, error) {
	addr, ok := s.config.DepositAddresses[coin]
	if !ok {
		return "", ErrUnsupportedCoin
	}
	return addr, nil
}

func (s *service) RequestDeposit(ctx context.Context, userID uint, in DepositInput) (*models.DepositRequest, error) {
	if in.Amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if _, ok := s.config.DepositAddresses[in.Coin]; !ok {
		return nil, ErrUnsupportedCoin
	}

	user, err := s.users.GetByID(userID)
	if err != nil {
		return nil, err
	}

	// Deposits only queue a request; the balance changes when the back
	// office verifies the on-chain transfer and credits it.
	req := &models.DepositRequest{
		Reference: uuid.NewString(),
		UserID:    userID,
		Username:  displayUsername(user),
		Amount:    in.Amount,
		Coin:      in.Coin,
		TxHash:    in.TxHash,
		Status:    models.RequestStatusPending,
	}
	if err := s.repo.CreateDepositRequest(req); err != nil {
		log.Printf("deposit request failed for user %d: %v", userID, err)
		return nil, ErrOperationFailed
	}
	return req, nil
}

func (s *service) Withdraw(ctx context.Context, userID uint, in WithdrawInput) (*models.WithdrawRequest, error) {
	if in.Amount < s.config.MinWithdraw {
		return nil, fmt.Errorf("%w: minimum withdrawal is $%.2f", ErrBelowMinimum, s.config.MinWithdraw)
	}
	if in.Address == "" {
		return nil, ErrInvalidAddress
	}
	if _, ok := s.config.DepositAddresses[in.Coin]; !ok {
		return nil, ErrUnsupportedCoin
	}

	// Advisory pre-check against the latest known snapshot; the decision
	// that counts happens on the locked row below.
	if snap, err := s.ledger.GetLedger(ctx, userID); err == nil && snap.Balance < in.Amount {
		return nil, ErrInsufficientFunds
	}

	var req *models.WithdrawRequest
	err := s.repo.ExecuteInTransaction(func(tx repositories.LedgerRepository) error {
		user, err := tx.GetUserForUpdate(userID)
		if err != nil {
			return err
		}

		if _, err := ledger.Apply(user, ledger.FieldBalance, -in.Amount); err != nil {
			return err
		}
		if err := tx.SaveLedger(user); err != nil {
			return err
		}

		req = &models.WithdrawRequest{
			Reference: uuid.NewString(),
			UserID:    userID,
			Username:  displayUsername(user),
			Amount:    in.Amount,
			Coin:      in.Coin,
			Address:   in.Address,
			Status:    models.RequestStatusPending,
		}
		if err := tx.CreateWithdrawRequest(req); err != nil {
			return err
		}

		return tx.AppendTransaction(&models.Transaction{
			UserID:   userID,
			Type:     models.TransactionTypeWithdrawalRequest,
			Currency: models.CurrencyUSD,
			Amount:   -in.Amount,
			Status:   models.TransactionStatusPending,
			Address:  in.Address,
		})
	})

	s.ledger.Invalidate(ctx, userID)

	if err != nil {
		return nil, s.mapLedgerError("withdraw", userID, err)
	}
	return req, nil
}

func (s *service) Transfer(ctx context.Context, userID uint, in TransferInput) (*TransferResult, error) {
	if in.Amount < s.config.MinTransfer {
		return nil, fmt.Errorf("%w: minimum transfer is $%.2f", ErrBelowMinimum, s.config.MinTransfer)
	}

	sender, err := s.users.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if sender.Username != nil && *sender.Username == in.ToUsername {
		return nil, ErrSelfTransfer
	}

	recipient, err := s.users.GetByUsername(in.ToUsername)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrRecipientNotFound
		}
		return nil, err
	}
	if recipient.ID == userID {
		return nil, ErrSelfTransfer
	}

	if snap, err := s.ledger.GetLedger(ctx, userID); err == nil && snap.Balance < in.Amount {
		return nil, ErrInsufficientFunds
	}

	var newBalance float64
	err = s.repo.ExecuteInTransaction(func(tx repositories.LedgerRepository) error {
		// Lock in id order so two crossing transfers cannot deadlock.
		firstID, secondID := userID, recipient.ID
		if secondID < firstID {
			firstID, secondID = secondID, firstID
		}
		locked := make(map[uint]*models.User, 2)
		for _, id := range []uint{firstID, secondID} {
			u, err := tx.GetUserForUpdate(id)
			if err != nil {
				return err
			}
			locked[id] = u
		}
		from, to := locked[userID], locked[recipient.ID]

		balance, err := ledger.Apply(from, ledger.FieldBalance, -in.Amount)
		if err != nil {
			return err
		}
		if _, err := ledger.Apply(to, ledger.FieldBalance, in.Amount); err != nil {
			return err
		}
		newBalance = balance

		if err := tx.SaveLedger(from); err != nil {
			return err
		}
		if err := tx.SaveLedger(to); err != nil {
			return err
		}

		if err := tx.AppendTransaction(&models.Transaction{
			UserID:    userID,
			Type:      models.TransactionTypeTransferSent,
			Currency:  models.CurrencyUSD,
			Amount:    -in.Amount,
			Status:    models.TransactionStatusCompleted,
			Recipient: in.ToUsername,
		}); err != nil {
			return err
		}
		return tx.AppendTransaction(&models.Transaction{
			UserID:   recipient.ID,
			Type:     models.TransactionTypeTransferReceived,
			Currency: models.CurrencyUSD,
			Amount:   in.Amount,
			Status:   models.TransactionStatusCompleted,
			Sender:   displayUsername(sender),
		})
	})

	s.ledger.Invalidate(ctx, userID)
	s.ledger.Invalidate(ctx, recipient.ID)

	if err != nil {
		return nil, s.mapLedgerError("transfer", userID, err)
	}
	return &TransferResult{
		ToUsername: in.ToUsername,
		Amount:     in.Amount,
		NewBalance: newBalance,
	}, nil
}

func (s *service) AddToPool(ctx context.Context, userID uint, points int64) (*models.Ledger, error) {
	if points < s.config.MinPoolPoints {
		return nil, fmt.Errorf("%w: minimum points to add is %d", ErrBelowMinimum, s.config.MinPoolPoints)
	}

	if snap, err := s.ledger.GetLedger(ctx, userID); err == nil && snap.Points < points {
		return nil, ErrInsufficientPoints
	}

	var view *models.Ledger
	err := s.repo.ExecuteInTransaction(func(tx repositories.LedgerRepository) error {
		user, err := tx.GetUserForUpdate(userID)
		if err != nil {
			return err
		}

		if _, err := ledger.Apply(user, ledger.FieldPoints, -float64(points)); err != nil {
			return err
		}
		if _, err := ledger.Apply(user, ledger.FieldPendingPool, float64(points)); err != nil {
			return err
		}
		if err := tx.SaveLedger(user); err != nil {
			return err
		}
		view = user.LedgerView()

		return tx.AppendTransaction(&models.Transaction{
			UserID:   userID,
			Type:     models.TransactionTypePointsToPool,
			Currency: models.CurrencyPoint,
			Amount:   -float64(points),
			Status:   models.TransactionStatusActive,
		})
	})

	s.ledger.Invalidate(ctx, userID)

	if err != nil {
		return nil, s.mapLedgerError("add_to_pool", userID, err)
	}
	return view, nil
}

func (s *service) History(ctx context.Context, userID uint) ([]models.Transaction, error) {
	return s.repo.ListTransactions(userID, s.config.HistoryLimit)
}

// mapLedgerError classifies a transaction failure. A sufficiency failure
// here means the advisory pre-check passed but the locked re-read did not:
// someone else moved the balance first, so the caller gets a retry hint
// rather than a hard insufficiency.
func (s *service) mapLedgerError(op string, userID uint, err error) error {
	switch {
	case errors.Is(err, ledger.ErrInsufficientFunds), errors.Is(err, ledger.ErrInsufficientPoints):
		return fmt.Errorf("%w (%s)", ErrConcurrentModification, op)
	case errors.Is(err, repositories.ErrLedgerNotFound):
		return err
	default:
		log.Printf("%s failed for user %d: %v", op, userID, err)
		return ErrOperationFailed
	}
}

func displayUsername(u *models.User) string {
	if u.Username != nil {
		return *u.Username
	}
	return ""
}
