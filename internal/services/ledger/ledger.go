// Package ledger owns the balance-mutation primitive shared by every
// wallet operation. A delta is applied to an in-transaction, row-locked
// user record and rejected if it would take the field negative; cached
// snapshots only ever feed advisory pre-checks.
package ledger

import (
	"context"
	"errors"
	"log"

	"primepool/internal/models"
	"primepool/internal/repositories"
)

var (
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrInsufficientPoints = errors.New("insufficient points")
	ErrUnknownField       = errors.New("unknown ledger field")
)

// Field names a mutable ledger column.
type Field string

const (
	FieldBalance     Field = "balance"
	FieldPoints      Field = "points"
	FieldPendingPool Field = "points_pending_pool"
)

// Apply adds delta to one ledger field of a user row and returns the new
// value. The caller must hold the row FOR UPDATE inside a database
// transaction; Apply itself only enforces the non-negativity invariant.
func Apply(u *models.User, field Field, delta float64) (float64, error) {
	switch field {
	case FieldBalance:
		next := u.Balance + delta
		if next < 0 {
			return u.Balance, ErrInsufficientFunds
		}
		u.Balance = next
		return next, nil
	case FieldPoints:
		next := u.Points + int64(delta)
		if next < 0 {
			return float64(u.Points), ErrInsufficientPoints
		}
		u.Points = next
		return float64(next), nil
	case FieldPendingPool:
		next := u.PointsPendingPool + int64(delta)
		if next < 0 {
			return float64(u.PointsPendingPool), ErrInsufficientPoints
		}
		u.PointsPendingPool = next
		return float64(next), nil
	default:
		return 0, ErrUnknownField
	}
}

// Cache is the snapshot store consumed by the read side.
type Cache interface {
	GetLedger(ctx context.Context, userID uint) (*models.Ledger, error)
	SetLedger(ctx context.Context, ledger *models.Ledger) error
	InvalidateLedger(ctx context.Context, userID uint) error
}

// Service exposes cache-aside ledger reads.
type Service interface {
	// GetLedger returns the ledger snapshot for a user. The result may be
	// cached and is only suitable for display and advisory pre-checks.
	GetLedger(ctx context.Context, userID uint) (*models.Ledger, error)

	// Invalidate drops the cached snapshot after a mutation.
	Invalidate(ctx context.Context, userID uint)
}

type service struct {
	repo  repositories.LedgerRepository
	cache Cache
}

// NewService creates a ledger read service.
func NewService(repo repositories.LedgerRepository, cache Cache) Service {
	if repo == nil {
		panic("repo is required")
	}
	return &service{repo: repo, cache: cache}
}

func (s *service) GetLedger(ctx context.Context, userID uint) (*models.Ledger, error) {
	if s.cache != nil {
		if snap, err := s.cache.GetLedger(ctx, userID); err == nil && snap != nil {
			return snap, nil
		}
	}

	snap, err := s.repo.GetLedger(userID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetLedger(ctx, snap); err != nil {
			log.Printf("failed to cache ledger for user %d: %v", userID, err)
		}
	}
	return snap, nil
}

func (s *service) Invalidate(ctx context.Context, userID uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateLedger(ctx, userID); err != nil {
		log.Printf("failed to invalidate ledger cache for user %d: %v", userID, err)
	}
}
