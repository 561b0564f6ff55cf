package ledger

import (
	"context"
	"testing"

	"primepool/internal/models"
	"primepool/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyBalance(t *testing.T) {
	u := &models.User{Balance: 50}

	next, err := Apply(u, FieldBalance, -10)
	require.NoError(t, err)
	assert.InDelta(t, 40.0, next, 1e-9)
	assert.InDelta(t, 40.0, u.Balance, 1e-9)

	next, err = Apply(u, FieldBalance, 5.5)
	require.NoError(t, err)
	assert.InDelta(t, 45.5, next, 1e-9)
}

func TestApplyBalanceRejectsOverdraw(t *testing.T) {
	u := &models.User{Balance: 5}

	_, err := Apply(u, FieldBalance, -10)
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.InDelta(t, 5.0, u.Balance, 1e-9) // unchanged
}

func TestApplyBalanceToExactlyZero(t *testing.T) {
	u := &models.User{Balance: 10}

	next, err := Apply(u, FieldBalance, -10)
	require.NoError(t, err)
	assert.Zero(t, next)
}

func TestApplyPoints(t *testing.T) {
	u := &models.User{Points: 8}

	next, err := Apply(u, FieldPoints, -5)
	require.NoError(t, err)
	assert.InDelta(t, 3.0, next, 1e-9)
	assert.Equal(t, int64(3), u.Points)

	_, err = Apply(u, FieldPoints, -4)
	assert.ErrorIs(t, err, ErrInsufficientPoints)
	assert.Equal(t, int64(3), u.Points)
}

func TestApplyPendingPool(t *testing.T) {
	u := &models.User{PointsPendingPool: 2}

	next, err := Apply(u, FieldPendingPool, 5)
	require.NoError(t, err)
	assert.InDelta(t, 7.0, next, 1e-9)

	_, err = Apply(u, FieldPendingPool, -8)
	assert.ErrorIs(t, err, ErrInsufficientPoints)
}

func TestApplyUnknownField(t *testing.T) {
	u := &models.User{}
	_, err := Apply(u, Field("bogus"), 1)
	assert.ErrorIs(t, err, ErrUnknownField)
}

type stubRepo struct {
	ledger *models.Ledger
	reads  int
}

func (s *stubRepo) GetLedger(userID uint) (*models.Ledger, error) {
	s.reads++
	if s.ledger == nil {
		return nil, repositories.ErrLedgerNotFound
	}
	return s.ledger, nil
}

func (s *stubRepo) GetUserForUpdate(uint) (*models.User, error) {
	return nil, repositories.ErrLedgerNotFound
}
func (s *stubRepo) SaveLedger(*models.User) error                    { return nil }
func (s *stubRepo) AppendTransaction(*models.Transaction) error      { return nil }
func (s *stubRepo) CreateDepositRequest(*models.DepositRequest) error { return nil }
func (s *stubRepo) CreateWithdrawRequest(*models.WithdrawRequest) error {
	return nil
}
func (s *stubRepo) ListTransactions(uint, int) ([]models.Transaction, error) { return nil, nil }
func (s *stubRepo) ExecuteInTransaction(fn func(repositories.LedgerRepository) error) error {
	return fn(s)
}

type stubCache struct {
	snapshots map[uint]*models.Ledger
	sets      int
}

func (c *stubCache) GetLedger(_ context.Context, userID uint) (*models.Ledger, error) {
	return c.snapshots[userID], nil
}

func (c *stubCache) SetLedger(_ context.Context, l *models.Ledger) error {
	c.sets++
	c.snapshots[l.UserID] = l
	return nil
}

func (c *stubCache) InvalidateLedger(_ context.Context, userID uint) error {
	delete(c.snapshots, userID)
	return nil
}

func TestGetLedgerCacheAside(t *testing.T) {
	repo := &stubRepo{ledger: &models.Ledger{UserID: 1, Balance: 42}}
	cache := &stubCache{snapshots: make(map[uint]*models.Ledger)}
	svc := NewService(repo, cache)
	ctx := context.Background()

	// Miss populates the cache.
	snap, err := svc.GetLedger(ctx, 1)
	require.NoError(t, err)
	assert.InDelta(t, 42.0, snap.Balance, 1e-9)
	assert.Equal(t, 1, repo.reads)
	assert.Equal(t, 1, cache.sets)

	// Hit skips the repo.
	_, err = svc.GetLedger(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.reads)

	// Invalidate forces the next read back to the repo.
	svc.Invalidate(ctx, 1)
	_, err = svc.GetLedger(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.reads)
}

func TestGetLedgerWithoutCache(t *testing.T) {
	repo := &stubRepo{ledger: &models.Ledger{UserID: 1, Balance: 42}}
	svc := NewService(repo, nil)

	snap, err := svc.GetLedger(context.Background(), 1)
	require.NoError(t, err)
	assert.InDelta(t, 42.0, snap.Balance, 1e-9)

	svc.Invalidate(context.Background(), 1) // no-op, must not panic
}
